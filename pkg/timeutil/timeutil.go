package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// MaxDuration returns the largest duration in the slice, or 0 when empty.
func MaxDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	max := durations[0]
	for _, d := range durations[1:] {
		if d > max {
			max = d
		}
	}
	return max
}

// ComputeJitter returns a uniformly distributed duration in [0, max).
func ComputeJitter(max time.Duration, rng rand.Rand) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rng.Int63n(int64(max)))
}

// ExponentialBackoffDelay computes the wait before retry number backoffCount
// (1-based): initial * multiplier^(backoffCount-1), capped at the max
// duration, plus jitter.
func ExponentialBackoffDelay(
	backoffCount int,
	jitter time.Duration,
	rng rand.Rand,
	backoffParam BackoffParam,
) time.Duration {
	if backoffCount < 1 {
		backoffCount = 1
	}

	delay := float64(backoffParam.InitialDuration()) *
		math.Pow(backoffParam.Multiplier(), float64(backoffCount-1))

	if maxDelay := float64(backoffParam.MaxDuration()); maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}

	return time.Duration(delay) + ComputeJitter(jitter, rng)
}
