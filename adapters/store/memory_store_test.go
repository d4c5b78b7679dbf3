package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/rangda/core"
)

func sampleSession(id string) *core.Session {
	return &core.Session{
		ID:             id,
		SessionPrivKey: "0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20",
		SessionPubKey:  "0x04aabb",
		UserSWA:        "0x9999000000000000000000000000000000009999",
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	session := sampleSession("s1")
	require.NoError(t, s.Save(ctx, session, time.Minute))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleSession("short"), 20*time.Millisecond))

	_, err := s.Get(ctx, "short")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = s.Get(ctx, "short")
	require.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestMemoryStoreOverwriteExtendsTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleSession("s1"), 20*time.Millisecond))
	require.NoError(t, s.Save(ctx, sampleSession("s1"), time.Minute))

	time.Sleep(50 * time.Millisecond)

	_, err := s.Get(ctx, "s1")
	require.NoError(t, err)
}
