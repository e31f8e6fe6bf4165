package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutRedisUsesMemory(t *testing.T) {
	_, ok := New(nil).(*MemoryRevoker)
	assert.True(t, ok)
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevoker()
	m.now = func() time.Time { return clock }

	require.NoError(t, m.Revoke(ctx, "abc", clock.Add(time.Minute)))
	require.NoError(t, m.Revoke(ctx, "old", clock.Add(-time.Minute)))

	ok, err := m.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = m.IsRevoked(ctx, "old")
	assert.False(t, ok)
	ok, _ = m.IsRevoked(ctx, "unknown")
	assert.False(t, ok)

	clock = clock.Add(2 * time.Minute)
	ok, _ = m.IsRevoked(ctx, "abc")
	assert.False(t, ok, "entry expires with the token")
}

func TestMemoryRevokerIgnoresEmptyID(t *testing.T) {
	m := NewMemoryRevoker()
	require.NoError(t, m.Revoke(context.Background(), "", time.Now().Add(time.Hour)))
	assert.Empty(t, m.entries)
}

func TestMemoryRevokerUserMark(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevoker()
	m.now = func() time.Time { return clock }

	before, err := m.RevokedBefore(ctx, 5)
	require.NoError(t, err)
	assert.True(t, before.IsZero())

	require.NoError(t, m.RevokeUser(ctx, 5, clock.Add(300*time.Millisecond), 15*time.Minute))
	before, err = m.RevokedBefore(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, clock, before, "mark is truncated to whole seconds")

	before, _ = m.RevokedBefore(ctx, 6)
	assert.True(t, before.IsZero(), "other users are untouched")

	clock = clock.Add(16 * time.Minute)
	before, _ = m.RevokedBefore(ctx, 5)
	assert.True(t, before.IsZero(), "mark expires with the longest token lifetime")
}
