// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("movies", []string{"Heat", "Casino"})

	data, ok := c.Get("movies")
	require.True(t, ok, "expected cache hit")
	assert.Equal(t, []string{"Heat", "Casino"}, data)
}

func TestGetMissingKey(t *testing.T) {
	c := New(time.Minute)

	data, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestExpiration(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTTL("short", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok, "expected expired entry to miss")

	stats := c.GetStats()
	assert.GreaterOrEqual(t, stats.Evictions, int64(1))
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")
	c.Delete("key")

	_, ok := c.Get("key")
	assert.False(t, ok)

	// Deleting a non-existent key is a no-op.
	c.Delete("absent")
}

func TestClear(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.False(t, okB)
	assert.Equal(t, int64(0), c.GetStats().TotalKeys)
}

func TestStatsAndHitRate(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")
	c.Get("key")   // hit
	c.Get("other") // miss

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 50.0, c.HitRate(), 0.01)
}

func TestHitRateEmptyCache(t *testing.T) {
	c := New(time.Minute)
	assert.Equal(t, 0.0, c.HitRate())
}

func TestCleanupRemovesExpired(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTTL("stale", "value", -time.Second)
	c.Set("fresh", "value")
	c.cleanup()

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.TotalKeys)

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestGenerateKey(t *testing.T) {
	k1 := GenerateKey("Recommendations", map[string]int64{"movie_id": 318})
	k2 := GenerateKey("Recommendations", map[string]int64{"movie_id": 318})
	k3 := GenerateKey("Recommendations", map[string]int64{"movie_id": 319})

	assert.Equal(t, k1, k2, "same method and params must produce the same key")
	assert.NotEqual(t, k1, k3, "different params must produce different keys")
	assert.Contains(t, k1, "Recommendations:")
}

func TestConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				key := GenerateKey("op", n*100+j)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}

	for i := 0; i < 8; i++ {
		<-done
	}
}
