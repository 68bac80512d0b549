package limiter

import "time"

// timing-related data used to decide when a client may write again
type clientTiming struct {
	lastAdmittedAt time.Time
	backoffDelay   time.Duration
	backoffCount   int
}
