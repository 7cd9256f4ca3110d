package tests

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/qr-guard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCacheTests runs the conformance suite every CacheRepository must pass.
// notFound is the error a backend returns for missing or expired keys.
func RunCacheTests(t *testing.T, repo core.CacheRepository, notFound error, teardown func()) {
	for _, tf := range []func(t *testing.T, repo core.CacheRepository, notFound error){
		testRoundTrip,
		testMissingEntry,
		testExpiredEntry,
		testOverwrite,
		testDelete,
		testCleanup,
	} {
		tf(t, repo, notFound)
		teardown()
	}
}

func newEntry(key string, ttl time.Duration) *core.CacheEntry {
	now := time.Now()
	return &core.CacheEntry{
		ContentKey:  key,
		Suspicious:  true,
		Score:       0.85,
		Confidence:  0.6,
		Explanation: "Lookalike domain",
		ModelUsed:   "test-model",
		LastSeen:    now,
		ExpiresAt:   now.Add(ttl),
	}
}

func testRoundTrip(t *testing.T, repo core.CacheRepository, notFound error) {
	t.Run("Round trip", func(t *testing.T) {
		ctx := context.Background()
		entry := newEntry(core.ContentKey("https://example.com/round-trip"), time.Hour)

		require.NoError(t, repo.Set(ctx, entry))

		found, err := repo.Get(ctx, entry.ContentKey)
		require.NoError(t, err)
		assert.Equal(t, entry.ContentKey, found.ContentKey)
		assert.Equal(t, entry.Suspicious, found.Suspicious)
		assert.InDelta(t, entry.Score, found.Score, 1e-6)
		assert.InDelta(t, entry.Confidence, found.Confidence, 1e-6)
		assert.Equal(t, entry.Explanation, found.Explanation)
		assert.Equal(t, entry.ModelUsed, found.ModelUsed)
		assert.WithinDuration(t, entry.LastSeen, found.LastSeen, time.Millisecond)
		assert.WithinDuration(t, entry.ExpiresAt, found.ExpiresAt, time.Millisecond)
	})
}

func testMissingEntry(t *testing.T, repo core.CacheRepository, notFound error) {
	t.Run("Missing entry", func(t *testing.T) {
		_, err := repo.Get(context.Background(), core.ContentKey("never stored"))
		assert.ErrorIs(t, err, notFound)
	})
}

func testExpiredEntry(t *testing.T, repo core.CacheRepository, notFound error) {
	t.Run("Expired entry", func(t *testing.T) {
		ctx := context.Background()
		entry := newEntry(core.ContentKey("https://example.com/expired"), -time.Minute)

		require.NoError(t, repo.Set(ctx, entry))

		_, err := repo.Get(ctx, entry.ContentKey)
		assert.ErrorIs(t, err, notFound)
	})
}

func testOverwrite(t *testing.T, repo core.CacheRepository, notFound error) {
	t.Run("Overwrite", func(t *testing.T) {
		ctx := context.Background()
		entry := newEntry(core.ContentKey("https://example.com/overwrite"), time.Hour)
		require.NoError(t, repo.Set(ctx, entry))

		entry.Suspicious = false
		entry.Score = 0.1
		entry.Explanation = "Known vendor"
		require.NoError(t, repo.Set(ctx, entry))

		found, err := repo.Get(ctx, entry.ContentKey)
		require.NoError(t, err)
		assert.False(t, found.Suspicious)
		assert.InDelta(t, 0.1, found.Score, 1e-6)
		assert.Equal(t, "Known vendor", found.Explanation)
	})
}

func testDelete(t *testing.T, repo core.CacheRepository, notFound error) {
	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()
		entry := newEntry(core.ContentKey("https://example.com/delete"), time.Hour)
		require.NoError(t, repo.Set(ctx, entry))

		require.NoError(t, repo.Delete(ctx, entry.ContentKey))

		_, err := repo.Get(ctx, entry.ContentKey)
		assert.ErrorIs(t, err, notFound)

		// Deleting twice is not an error
		assert.NoError(t, repo.Delete(ctx, entry.ContentKey))
	})
}

func testCleanup(t *testing.T, repo core.CacheRepository, notFound error) {
	t.Run("Cleanup", func(t *testing.T) {
		ctx := context.Background()
		live := newEntry(core.ContentKey("https://example.com/live"), time.Hour)
		stale := newEntry(core.ContentKey("https://example.com/stale"), -time.Hour)
		require.NoError(t, repo.Set(ctx, live))
		require.NoError(t, repo.Set(ctx, stale))

		require.NoError(t, repo.Cleanup(ctx))

		_, err := repo.Get(ctx, live.ContentKey)
		assert.NoError(t, err)
		_, err = repo.Get(ctx, stale.ContentKey)
		assert.ErrorIs(t, err, notFound)
	})
}
