package ratelimit

import (
	"sync"
	"time"
)

const (
	ActionSendOrderMessage = "send_order_message"
	ActionCreateDispute    = "create_dispute"
	ActionVerifyBank       = "verify_bank_account"
	ActionPaymentQuote     = "payment_quote"
)

// Limit describes a bucket: Burst tokens, refilled one every Every.
type Limit struct {
	Burst int
	Every time.Duration
}

// DefaultLimits are applied per user and action.
var DefaultLimits = map[string]Limit{
	// 10 messages per minute
	ActionSendOrderMessage: {Burst: 10, Every: 6 * time.Second},
	// 5 reports per hour
	ActionCreateDispute: {Burst: 5, Every: 12 * time.Minute},
	// each attempt moves real money, 3 per 10 minutes
	ActionVerifyBank: {Burst: 3, Every: 200 * time.Second},
	// public endpoint, keyed by client IP
	ActionPaymentQuote: {Burst: 60, Every: time.Second},
}

var fallbackLimit = Limit{Burst: 20, Every: 3 * time.Second}

type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillTime time.Duration
	lastRefill time.Time
	lastUsed   time.Time
	mutex      sync.Mutex
}

func NewTokenBucket(limit Limit, now time.Time) *TokenBucket {
	return &TokenBucket{
		tokens:     limit.Burst,
		maxTokens:  limit.Burst,
		refillTime: limit.Every,
		lastRefill: now,
		lastUsed:   now,
	}
}

// Allow consumes a token if one is available. When it is not, it returns
// how long until the next refill.
func (tb *TokenBucket) Allow(now time.Time) (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.lastUsed = now
	if refills := int(now.Sub(tb.lastRefill) / tb.refillTime); refills > 0 {
		tb.tokens += refills
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(refills) * tb.refillTime)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}
	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

func (tb *TokenBucket) Tokens() int {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.tokens
}

// RateLimiter keeps one bucket per user and action.
type RateLimiter struct {
	limits  map[string]Limit
	buckets map[string]*TokenBucket
	now     func() time.Time
	mutex   sync.Mutex
}

func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	if limits == nil {
		limits = DefaultLimits
	}
	return &RateLimiter{
		limits:  limits,
		buckets: make(map[string]*TokenBucket),
		now:     time.Now,
	}
}

func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	bucket, ok := rl.buckets[key]
	if !ok {
		limit, known := rl.limits[action]
		if !known {
			limit = fallbackLimit
		}
		bucket = NewTokenBucket(limit, now)
		rl.buckets[key] = bucket
	}
	rl.mutex.Unlock()

	return bucket.Allow(now)
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	removed := 0
	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		idle := now.Sub(bucket.lastUsed)
		bucket.mutex.Unlock()
		if idle > maxIdle {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) StartCleanupRoutine(done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-done:
				return
			}
		}
	}()
}
