package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deepfake-detector/internal/core"
)

func newSQLiteForTest(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop(), time.Hour)
	require.NoError(t, err)
	t.Cleanup(c.Stop)
	return c
}

func TestSQLiteCacheSetGet(t *testing.T) {
	c := newSQLiteForTest(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	require.False(t, ok)

	c.Set(ctx, "abc", sampleResult(), time.Hour)

	got, ok := c.Get(ctx, "abc")
	require.True(t, ok)
	require.Equal(t, sampleResult(), got)
}

func TestSQLiteCacheExpiry(t *testing.T) {
	c := newSQLiteForTest(t)
	ctx := context.Background()

	c.Set(ctx, "abc", sampleResult(), -time.Second)

	_, ok := c.Get(ctx, "abc")
	require.False(t, ok)
}

func TestSQLiteCacheReplace(t *testing.T) {
	c := newSQLiteForTest(t)
	ctx := context.Background()

	c.Set(ctx, "abc", sampleResult(), time.Hour)

	updated := sampleResult()
	updated.Prediction = core.LabelReal
	updated.FakeProbability = 0.1
	updated.RealProbability = 0.9
	c.Set(ctx, "abc", updated, time.Hour)

	got, ok := c.Get(ctx, "abc")
	require.True(t, ok)
	require.Equal(t, core.LabelReal, got.Prediction)
}

func TestSQLiteCacheCleanup(t *testing.T) {
	c := newSQLiteForTest(t)
	ctx := context.Background()

	c.Set(ctx, "stale", sampleResult(), -time.Second)
	c.Set(ctx, "fresh", sampleResult(), time.Hour)

	require.NoError(t, c.Cleanup(ctx))

	_, ok := c.Get(ctx, "stale")
	require.False(t, ok)
	_, ok = c.Get(ctx, "fresh")
	require.True(t, ok)
}
