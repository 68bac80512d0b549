package limiter

import (
	"testing"
	"time"

	"github.com/rohmanhakim/consents/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInternalLimiter(base time.Duration) (*ConcurrentRateLimiter, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewConcurrentRateLimiter(base, timeutil.NewBackoffParam(time.Second, 2.0, 8*time.Second))
	l.SetClock(func() time.Time { return now })
	return l, &now
}

func TestReserve_TracksBackoffPerClient(t *testing.T) {
	l, now := newInternalLimiter(100 * time.Millisecond)

	_, ok := l.Reserve("c")
	require.True(t, ok)
	require.Len(t, l.clientTimings, 1)

	for i := 0; i < 3; i++ {
		_, ok = l.Reserve("c")
		require.False(t, ok)
	}
	timing := l.clientTimings["c"]
	assert.Equal(t, 3, timing.backoffCount)
	assert.Equal(t, 4*time.Second, timing.backoffDelay)

	*now = now.Add(4 * time.Second)
	_, ok = l.Reserve("c")
	require.True(t, ok)

	timing = l.clientTimings["c"]
	assert.Zero(t, timing.backoffCount)
	assert.Zero(t, timing.backoffDelay)
	assert.Equal(t, *now, timing.lastAdmittedAt)
}

func TestReserve_PrunesIdleClients(t *testing.T) {
	l, now := newInternalLimiter(time.Second)

	l.Reserve("old")
	*now = now.Add(time.Minute)
	l.Reserve("new")

	assert.NotContains(t, l.clientTimings, "old")
	assert.Contains(t, l.clientTimings, "new")
}
