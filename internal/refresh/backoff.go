package refresh

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Retry policy constants, spec §4.6.4.
const (
	maxAttempts   = 3
	baseDelay     = 1 * time.Second
	multiplier    = 2.0
	maxDelay      = 30 * time.Second
	jitterFrac    = 0.25
)

// backoffDelay mirrors clamp(baseDelay * multiplier^(n-1), 0, maxDelay) *
// (1 + uniform(-0.25, +0.25)) for the n-th retry attempt (n starting at 1).
func backoffDelay(attempt int) time.Duration {
	backoff := float64(baseDelay) * math.Pow(multiplier, float64(attempt-1))
	if backoff > float64(maxDelay) {
		backoff = float64(maxDelay)
	}

	jitter := backoff * jitterFrac * (rand.Float64()*2 - 1)
	backoff += jitter
	if backoff < 0 {
		backoff = 0
	}

	return time.Duration(backoff)
}

// ctxSleep waits for d or returns early with ctx's error if it's canceled
// first, so retry delays are cancellable per spec §9.
func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
