// Package session keeps the access tokens revoked before their natural
// expiry.  Single tokens are keyed by jti; a logout also marks the user so
// that every token issued before it is refused.  Entries disappear on
// their own once the tokens they cover would have expired anyway.
package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker records and answers revocations of access tokens.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeUser refuses every token of userID issued before at.  The mark
	// is kept for ttl, the longest lifetime of an access token.
	RevokeUser(ctx context.Context, userID uint64, at time.Time, ttl time.Duration) error
	// RevokedBefore returns the mark set by RevokeUser, or the zero time.
	RevokedBefore(ctx context.Context, userID uint64) (time.Time, error)
}

// New returns a Redis-backed Revoker, or an in-process one when rdb is
// nil.
func New(rdb *redis.Client) Revoker {
	if rdb == nil {
		return NewMemoryRevoker()
	}
	return &RedisRevoker{rdb: rdb, prefix: "revoked:"}
}

// markTime drops sub-second precision to match the iat claim.
func markTime(at time.Time) time.Time { return at.UTC().Truncate(time.Second) }

// RedisRevoker stores revoked:<jti> and revoked:user:<id> keys with a TTL
// equal to the remaining lifetime of what they cover.
type RedisRevoker struct {
	rdb    *redis.Client
	prefix string
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if jti == "" || ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+jti, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := r.rdb.Get(ctx, r.prefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisRevoker) userKey(userID uint64) string {
	return r.prefix + "user:" + strconv.FormatUint(userID, 10)
}

func (r *RedisRevoker) RevokeUser(ctx context.Context, userID uint64, at time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.userKey(userID), markTime(at).Unix(), ttl).Err()
}

func (r *RedisRevoker) RevokedBefore(ctx context.Context, userID uint64) (time.Time, error) {
	sec, err := r.rdb.Get(ctx, r.userKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).UTC(), nil
}

// MemoryRevoker is used when Redis is unavailable.  Revocations are lost
// on restart and are not shared between instances.
type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	users   map[uint64]userMark
	now     func() time.Time
}

type userMark struct {
	before time.Time
	until  time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		entries: make(map[string]time.Time),
		users:   make(map[uint64]userMark),
		now:     time.Now,
	}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if !until.After(now) {
		return nil
	}
	m.entries[jti] = until
	// sweep expired entries on write
	for k, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.entries[jti]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.entries, jti)
		return false, nil
	}
	return true, nil
}

func (m *MemoryRevoker) RevokeUser(_ context.Context, userID uint64, at time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = userMark{before: markTime(at), until: m.now().Add(ttl)}
	return nil
}

func (m *MemoryRevoker) RevokedBefore(_ context.Context, userID uint64) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mark, ok := m.users[userID]
	if !ok {
		return time.Time{}, nil
	}
	if !mark.until.After(m.now()) {
		delete(m.users, userID)
		return time.Time{}, nil
	}
	return mark.before, nil
}
