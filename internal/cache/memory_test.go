package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"deepfake-detector/internal/core"
)

func sampleResult() *core.DetectionResult {
	return &core.DetectionResult{
		Status:          core.StatusSuccess,
		Prediction:      core.LabelFake,
		Confidence:      0.75,
		FakeProbability: 0.75,
		RealProbability: 0.25,
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	require.False(t, ok)

	c.Set(ctx, "abc", sampleResult(), time.Hour)

	got, ok := c.Get(ctx, "abc")
	require.True(t, ok)
	require.Equal(t, sampleResult(), got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "abc", sampleResult(), -time.Second)

	_, ok := c.Get(ctx, "abc")
	require.False(t, ok)
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "stale", sampleResult(), -time.Second)
	c.Set(ctx, "fresh", sampleResult(), time.Hour)

	require.NoError(t, c.Cleanup(ctx))

	c.mu.RLock()
	defer c.mu.RUnlock()
	require.Len(t, c.entries, 1)
	require.Contains(t, c.entries, "fresh")
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	c.Set(ctx, "abc", sampleResult(), time.Hour)

	got, ok := c.Get(ctx, "abc")
	require.True(t, ok)
	got.Prediction = "mutated"

	again, ok := c.Get(ctx, "abc")
	require.True(t, ok)
	require.Equal(t, core.LabelFake, again.Prediction)
}

func TestMemoryCacheStopIsIdempotent(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Millisecond)
	c.Stop()
	c.Stop()
}
