package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fitnessmcp/toolserver/internal/universal"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	key := NewKey("", "user-1", "strava", Resource{Kind: ResourceAthleteProfile})

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte(`{"id":"1"}`), time.Hour))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"id":"1"}`, string(got))

	require.NoError(t, c.Invalidate(ctx, key))
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheTTLExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	key := NewKey("tenant-a", "user-1", "strava", Resource{Kind: ResourceStats})

	require.NoError(t, c.Set(ctx, key, []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok, "entry should have expired")
}

func TestMemoryCacheInvalidateUserScopedToTenant(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	keyA := NewKey("tenant-a", "user-1", "strava", Resource{Kind: ResourceAthleteProfile})
	keyB := NewKey("tenant-b", "user-1", "strava", Resource{Kind: ResourceAthleteProfile})

	require.NoError(t, c.Set(ctx, keyA, []byte("a"), time.Hour))
	require.NoError(t, c.Set(ctx, keyB, []byte("b"), time.Hour))

	require.NoError(t, c.InvalidateUser(ctx, keyA.TenantID, keyA.UserID))

	_, ok, _ := c.Get(ctx, keyA)
	require.False(t, ok)
	_, ok, _ = c.Get(ctx, keyB)
	require.True(t, ok, "invalidating tenant-a must not affect tenant-b")
}

func TestEmptyTenantMapsToNilSentinel(t *testing.T) {
	withNoTenant := NewKey("", "user-1", "strava", Resource{Kind: ResourceAthleteProfile})
	require.Equal(t, universal.NilTenantID, withNoTenant.TenantID)
}
