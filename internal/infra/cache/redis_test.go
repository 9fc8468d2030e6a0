package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/orderhub/authz-gateway/internal/infra/cache"
)

func newTestCache(t *testing.T) (cache.DecisionCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewDecisionCache(client), mr
}

func TestDecisionCache_MissOnEmpty(t *testing.T) {
	dc, _ := newTestCache(t)

	_, err := dc.Get(context.Background(), "deadbeef")
	require.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestDecisionCache_SetThenGet(t *testing.T) {
	dc, _ := newTestCache(t)
	ctx := context.Background()

	stored := &cache.CachedDecision{
		Allow: true,
		Context: map[string]string{
			"id":        "u1",
			"role":      "Manager",
			"companies": "c1,c2",
		},
	}
	require.NoError(t, dc.Set(ctx, "deadbeef", stored, 5*time.Minute))

	got, err := dc.Get(ctx, "deadbeef")
	require.NoError(t, err)
	require.True(t, got.Allow)
	require.Equal(t, stored.Context, got.Context)
}

func TestDecisionCache_DenyIsCachedToo(t *testing.T) {
	dc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, dc.Set(ctx, "cafe", &cache.CachedDecision{
		Allow:  false,
		Reason: "no_company_access",
	}, time.Minute))

	got, err := dc.Get(ctx, "cafe")
	require.NoError(t, err)
	require.False(t, got.Allow)
	require.Equal(t, "no_company_access", got.Reason)
}

func TestDecisionCache_ExpiresAfterTTL(t *testing.T) {
	dc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, dc.Set(ctx, "deadbeef", &cache.CachedDecision{Allow: true}, 5*time.Minute))

	mr.FastForward(5*time.Minute + time.Second)

	_, err := dc.Get(ctx, "deadbeef")
	require.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestDecisionCache_KeysAreIsolatedByToken(t *testing.T) {
	dc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, dc.Set(ctx, "aaaa", &cache.CachedDecision{Allow: true}, time.Minute))

	_, err := dc.Get(ctx, "bbbb")
	require.ErrorIs(t, err, cache.ErrCacheMiss)
}
