package limiter

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/consents/pkg/timeutil"
)

// RateLimiter
// Specialized component to pace writes from each client
// Responsibilities:
// - Bookkeep each client's last admitted request
// - Grow the required gap exponentially while a client keeps pushing
// - Tell the caller how long a rejected client should wait
type RateLimiter interface {
	Reserve(key string) (wait time.Duration, ok bool)
	Forget(key string)
}

type ConcurrentRateLimiter struct {
	mu            sync.Mutex
	baseDelay     time.Duration
	backoffParam  timeutil.BackoffParam
	clientTimings map[string]clientTiming
	now           func() time.Time
	rng           *rand.Rand
}

// NewConcurrentRateLimiter admits one request per key every baseDelay.
// Each rejection inside the window raises the gap along backoffParam.
func NewConcurrentRateLimiter(baseDelay time.Duration, backoffParam timeutil.BackoffParam) *ConcurrentRateLimiter {
	return &ConcurrentRateLimiter{
		baseDelay:     baseDelay,
		backoffParam:  backoffParam,
		clientTimings: make(map[string]clientTiming),
		now:           time.Now,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetClock allows injecting a fake clock for testing
func (r *ConcurrentRateLimiter) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Reserve admits the request for key, or reports how long the client has to
// wait. A rejected request does not count as admitted.
func (r *ConcurrentRateLimiter) Reserve(key string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	timing, exists := r.clientTimings[key]
	if !exists {
		r.clientTimings[key] = clientTiming{lastAdmittedAt: now}
		r.pruneLocked(now)
		return 0, true
	}

	required := timeutil.MaxDuration([]time.Duration{r.baseDelay, timing.backoffDelay})
	elapsed := now.Sub(timing.lastAdmittedAt)
	if elapsed >= required {
		r.clientTimings[key] = clientTiming{lastAdmittedAt: now}
		return 0, true
	}

	timing.backoffCount++
	timing.backoffDelay = timeutil.ExponentialBackoffDelay(timing.backoffCount, 0, *r.rng, r.backoffParam)
	r.clientTimings[key] = timing

	required = timeutil.MaxDuration([]time.Duration{r.baseDelay, timing.backoffDelay})
	return required - elapsed, false
}

// Forget drops everything known about key.
func (r *ConcurrentRateLimiter) Forget(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clientTimings, key)
}

// pruneLocked drops clients whose window has fully passed.
// Caller must hold r.mu.
func (r *ConcurrentRateLimiter) pruneLocked(now time.Time) {
	horizon := timeutil.MaxDuration([]time.Duration{r.baseDelay, r.backoffParam.MaxDuration()})
	for key, timing := range r.clientTimings {
		if now.Sub(timing.lastAdmittedAt) > horizon {
			delete(r.clientTimings, key)
		}
	}
}

func (r *ConcurrentRateLimiter) GetBaseDelay() time.Duration {
	return r.baseDelay
}
