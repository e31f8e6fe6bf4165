package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/land-looker/internal/model"
)

// TokenRepo stores refresh tokens by their SHA-256 hash.  A token is live
// while it is neither revoked nor past expires_at.
type TokenRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewTokenRepo(db *sqlx.DB) *TokenRepo {
	return &TokenRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (:user_id, :token_hash, :expires_at)`,
		model.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: exp.UTC()})
	return err
}

// ValidateRefresh returns the owner of a live token and ErrNotFound for an
// unknown, revoked or expired one.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.db.GetContext(ctx, &userID,
		`SELECT user_id FROM refresh_tokens
		 WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?
		 LIMIT 1`,
		tokenHash, r.now())
	if err != nil {
		return 0, notFound(err)
	}
	return userID, nil
}

func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	return r.revoke(ctx, "token_hash = ?", tokenHash)
}

// RevokeAllForUser ends every session of the user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return r.revoke(ctx, "user_id = ?", userID)
}

func (r *TokenRepo) revoke(ctx context.Context, where string, arg any) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = ? WHERE "+where+" AND revoked_at IS NULL",
		r.now(), arg)
	return err
}
