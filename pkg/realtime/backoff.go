package realtime

import (
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultBackoffBase   = time.Second
	DefaultBackoffMax    = 30 * time.Second
	DefaultJitterPercent = 20
)

// newBackoff returns a fresh exponential sequence: base, 2*base, ... up to
// max, each value jittered by jitter percent and never above max.
func newBackoff(base, maxDelay time.Duration, jitter uint64) retry.Backoff {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if maxDelay < base {
		maxDelay = base
	}
	if jitter > 100 {
		jitter = 100
	}

	var b retry.Backoff = retry.NewExponential(base)
	if jitter > 0 {
		b = retry.WithJitterPercent(jitter, b)
	}
	return retry.WithCappedDuration(maxDelay, b)
}
