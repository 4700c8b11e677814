package backend

import (
	"context"
	"time"
)

// Static returns a fixed context value for every query, after an optional
// delay. The delay makes it useful for shaping completion order in demos
// and tests. Fetch-only.
type Static struct {
	value any
	delay time.Duration
}

// NewStatic creates a Static backend that returns value immediately.
func NewStatic(value any) *Static {
	return &Static{value: value}
}

// NewStaticWithDelay creates a Static backend that waits for delay before
// returning value. The delay is interruptible by context cancellation.
func NewStaticWithDelay(value any, delay time.Duration) *Static {
	return &Static{value: value, delay: delay}
}

// FetchContext returns the fixed value, honoring the configured delay and
// the context's deadline.
func (s *Static) FetchContext(ctx context.Context, _ any) (any, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.value, nil
}

// FetchFunc lifts a plain function into the fetch capability.
type FetchFunc func(ctx context.Context, query any) (any, error)

// FetchContext calls f.
func (f FetchFunc) FetchContext(ctx context.Context, query any) (any, error) {
	return f(ctx, query)
}
