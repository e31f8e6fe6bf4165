package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/utils"
)

func newAuthService(t *testing.T) (*AuthService, *mockUserRepo, *mockTokenRepo, *mockRevoker) {
	t.Helper()
	users, tokens, rev := &mockUserRepo{}, &mockTokenRepo{}, &mockRevoker{}
	t.Cleanup(func() {
		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
		rev.AssertExpectations(t)
	})
	cfg := AuthConfig{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	return NewAuthService(users, tokens, rev, cfg, newTestLogger()), users, tokens, rev
}

func TestAuthService_Register(t *testing.T) {
	svc, users, tokens, _ := newAuthService(t)
	ctx := context.Background()

	users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "ana@example.com" && u.UserType == model.RoleWorker && utils.VerifyPassword(u.PasswordHash, "password1")
	})).Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = 5 }).Return(nil)
	tokens.On("StoreRefresh", ctx, uint64(5), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

	res, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: " ANA@example.com", Password: "password1", UserType: "worker"})
	require.NoError(t, err)
	assert.Equal(t, RoleMessage(model.RoleWorker, "registered"), res.Message)

	claims, err := utils.ParseAccessToken("test-secret", res.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, "worker", claims.Role)
}

func TestAuthService_RegisterRejectsSellerAndShortPassword(t *testing.T) {
	svc, _, _, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "short", UserType: "seller"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "user_type")
	assert.Contains(t, ve.Fields, "password")
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, users, _, _ := newAuthService(t)
	ctx := context.Background()
	users.On("Create", ctx, mock.Anything).Return(repository.ErrEmailExists)

	_, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "password1", UserType: "buyer"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"The email has already been taken."}, ve.Fields["email"])
}

func TestAuthService_Login(t *testing.T) {
	svc, users, tokens, _ := newAuthService(t)
	ctx := context.Background()
	hash, err := utils.HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", ctx, "ana@example.com").Return(&model.User{ID: 5, PasswordHash: hash, UserType: model.RoleBuyer}, nil)
	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)
	tokens.On("StoreRefresh", ctx, uint64(5), mock.Anything, mock.Anything).Return(nil).Once()

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, policy.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Len(t, res.Refresh.Raw, 96)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	svc, users, tokens, _ := newAuthService(t)
	ctx := context.Background()
	hash := utils.HashRefreshRaw("raw-token")
	tokens.On("ValidateRefresh", ctx, hash).Return(uint64(5), nil)
	tokens.On("RevokeByHash", ctx, hash).Return(nil)
	users.On("GetByID", ctx, uint64(5)).Return(&model.User{ID: 5, UserType: model.RoleBuyer}, nil)
	tokens.On("StoreRefresh", ctx, uint64(5), mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Refresh(ctx, "raw-token")
	require.NoError(t, err)
	assert.NotEqual(t, "raw-token", res.Refresh.Raw)

	tokens.On("ValidateRefresh", ctx, utils.HashRefreshRaw("stale")).Return(uint64(0), repository.ErrNotFound)
	_, err = svc.Refresh(ctx, "stale")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, tokens, rev := newAuthService(t)
	ctx := context.Background()
	exp := time.Now().Add(10 * time.Minute)
	tokens.On("RevokeAllForUser", ctx, uint64(5)).Return(nil)
	rev.On("Revoke", ctx, "jti-1", exp).Return(nil)
	rev.On("RevokeUser", ctx, uint64(5), mock.AnythingOfType("time.Time"), 15*time.Minute).Return(nil)

	msg, err := svc.Logout(ctx, &policy.Actor{ID: 5, Role: model.RoleBuyer}, "jti-1", exp)
	require.NoError(t, err)
	assert.Equal(t, RoleMessage(model.RoleBuyer, "logged out"), msg)

	_, err = svc.Logout(ctx, nil, "", exp)
	assert.ErrorIs(t, err, policy.ErrUnauthorized)
}
