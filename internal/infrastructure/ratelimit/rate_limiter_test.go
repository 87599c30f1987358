package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBurstThenRefill(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(map[string]Limit{"act": {Burst: 2, Every: time.Minute}})
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("u1", "act")
	assert.True(t, ok)
	ok, _ = rl.Allow("u1", "act")
	assert.True(t, ok)

	ok, wait := rl.Allow("u1", "act")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	// other users have their own bucket
	ok, _ = rl.Allow("u2", "act")
	assert.True(t, ok)

	now = now.Add(90 * time.Second)
	ok, _ = rl.Allow("u1", "act")
	assert.True(t, ok)
	ok, wait = rl.Allow("u1", "act")
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, wait)
}

func TestRateLimiterUnknownActionUsesFallback(t *testing.T) {
	rl := NewRateLimiter(nil)
	for i := 0; i < fallbackLimit.Burst; i++ {
		ok, _ := rl.Allow("u1", "whatever")
		assert.True(t, ok)
	}
	ok, _ := rl.Allow("u1", "whatever")
	assert.False(t, ok)
}

func TestCleanupRemovesIdleBuckets(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(nil)
	rl.now = func() time.Time { return now }

	rl.Allow("u1", ActionCreateDispute)
	now = now.Add(2 * time.Hour)
	rl.Allow("u2", ActionCreateDispute)

	assert.Equal(t, 1, rl.Cleanup(time.Hour))
	assert.Len(t, rl.buckets, 1)
}
