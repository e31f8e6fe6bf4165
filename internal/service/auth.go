package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/service/ports"
	"github.com/iliyamo/land-looker/internal/utils"
)

// AuthConfig holds the token and hashing settings of AuthService.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

type AuthService struct {
	users   ports.UserRepo
	tokens  ports.TokenRepo
	revoker ports.TokenRevoker
	cfg     AuthConfig
	logger  *log.Logger
}

func NewAuthService(users ports.UserRepo, tokens ports.TokenRepo, revoker ports.TokenRevoker, cfg AuthConfig, logger *log.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker, cfg: cfg, logger: logger}
}

type RegisterInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Password    string  `json:"password" validate:"required,min=8"`
	UserType    string  `json:"user_type" validate:"required,oneof=buyer worker"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResult is what register, login and refresh hand back to the client.
type AuthResult struct {
	Message string
	User    *model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

var roleMessages = map[model.Role]map[string]string{
	model.RoleBuyer: {
		"registered": "Welcome, buyer! Your account is ready, start exploring properties.",
		"logged in":  "Hello buyer! You are logged in and ready to browse listings.",
		"logged out": "Goodbye buyer! Come back soon for new properties.",
	},
	model.RoleWorker: {
		"registered": "Welcome, worker! Your account is ready, start managing listings.",
		"logged in":  "Hello worker! You are logged in to manage listings and bookings.",
		"logged out": "Goodbye worker! Your listings will be waiting.",
	},
}

// RoleMessage returns the greeting shown to role after action.
func RoleMessage(role model.Role, action string) string {
	if m, ok := roleMessages[role][action]; ok {
		return m
	}
	return "Action completed successfully."
}

// Register creates an account and signs the user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if ve := check(in); ve != nil {
		return nil, ve
	}
	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		UserType:     model.Role(in.UserType),
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, invalidField("email", "The email has already been taken.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Infoj(log.JSON{"event": "user_registered", "user_id": u.ID, "role": u.UserType})
	return s.issue(ctx, u, "registered")
}

// Login verifies credentials.  Unknown email and wrong password are not
// distinguished.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if ve := check(in); ve != nil {
		return nil, ve
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u, "logged in")
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*AuthResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, invalidField("refresh_token", "The refresh token field is required.")
	}
	hash := utils.HashRefreshRaw(raw)
	uid, err := s.tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("validate refresh: %w", err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoke refresh: %w", err)
	}
	u, err := s.users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.issue(ctx, u, "logged in")
}

// Logout revokes every refresh token of the actor, blocks the access token
// identified by jti until exp and refuses any other access token the actor
// was issued before now.
func (s *AuthService) Logout(ctx context.Context, actor *policy.Actor, jti string, exp time.Time) (string, error) {
	if actor == nil {
		return "", policy.ErrUnauthorized
	}
	if err := s.tokens.RevokeAllForUser(ctx, actor.ID); err != nil {
		return "", fmt.Errorf("revoke refresh tokens: %w", err)
	}
	if err := s.revoker.Revoke(ctx, jti, exp); err != nil {
		return "", fmt.Errorf("revoke access token: %w", err)
	}
	ttl := time.Duration(s.cfg.AccessTTLMin) * time.Minute
	if err := s.revoker.RevokeUser(ctx, actor.ID, time.Now(), ttl); err != nil {
		return "", fmt.Errorf("revoke access tokens: %w", err)
	}
	s.logger.Infoj(log.JSON{"event": "user_logged_out", "user_id": actor.ID})
	return RoleMessage(actor.Role, "logged out"), nil
}

// Me returns the actor's own account.
func (s *AuthService) Me(ctx context.Context, actor *policy.Actor) (*model.User, error) {
	if actor == nil {
		return nil, policy.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *AuthService) issue(ctx context.Context, u *model.User, action string) (*AuthResult, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, string(u.UserType), s.cfg.AccessTTLMin)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &AuthResult{
		Message: RoleMessage(u.UserType, action),
		User:    u,
		Access:  access,
		Refresh: refresh,
	}, nil
}
