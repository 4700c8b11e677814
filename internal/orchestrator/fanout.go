package orchestrator

import (
	"context"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
)

// call is one dispatchable backend operation. index is the backend's
// position in the orchestrator's list, carried through so that results and
// errors stay correlated even when only a subset of backends is dispatched.
type call struct {
	index int
	run   func(ctx context.Context) (any, error)
}

// callResult is the per-index slot a call's outcome is captured into.
// Slots are written by exactly one goroutine each, so no locking is needed.
type callResult struct {
	index int
	value any
	err   error
}

// dispatch fans calls out concurrently and waits for every slot to be
// filled. A failing call never cancels its siblings: each goroutine records
// its own outcome and returns nil to the group, and the error policy is
// applied by the caller after the whole round has been collected. Results
// come back in calls order, which is original backend order.
func (o *Orchestrator) dispatch(ctx context.Context, round, op string, calls []call) []callResult {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	results := make([]callResult, len(calls))

	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}

	for i, c := range calls {
		o.emit(RoundEvent{Round: round, Op: op, Backend: c.index, Status: StatusDispatched})

		g.Go(func() error {
			value, err := o.invoke(ctx, c)
			results[i] = callResult{index: c.index, value: value, err: err}

			if err != nil {
				o.emit(RoundEvent{
					Round:   round,
					Op:      op,
					Backend: c.index,
					Status:  StatusFailed,
					Message: err.Error(),
				})
				return nil
			}
			o.emit(RoundEvent{Round: round, Op: op, Backend: c.index, Status: StatusSucceeded})
			return nil
		})
	}

	// Goroutines never return errors; Wait only synchronizes the round.
	_ = g.Wait()
	return results
}

// invoke runs a single backend call bounded by ctx. The call executes in
// its own goroutine so that a backend that ignores cancellation cannot
// stall the round past its deadline: the orchestrator stops waiting and
// records the context error for that index. Abandonment is best-effort;
// the backend itself may keep working, and its eventual result is dropped
// into the buffered channel and discarded.
func (o *Orchestrator) invoke(ctx context.Context, c call) (any, error) {
	type outcome struct {
		value any
		err   error
	}

	ch := make(chan outcome, 1)
	go func() {
		value, err := o.invokeWithRetry(ctx, c)
		ch <- outcome{value: value, err: err}
	}()

	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// invokeWithRetry runs the call once, or under the configured exponential
// backoff schedule when retries are enabled.
func (o *Orchestrator) invokeWithRetry(ctx context.Context, c call) (any, error) {
	if o.retry.maxAttempts <= 1 {
		return c.run(ctx)
	}

	bo := backoff.NewExponentialBackOff()
	if o.retry.initialInterval > 0 {
		bo.InitialInterval = o.retry.initialInterval
	}

	return backoff.Retry(ctx,
		func() (any, error) { return c.run(ctx) },
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(o.retry.maxAttempts)),
	)
}

// partition splits collected results into successes, ordered by original
// backend index, and failures wrapped as BackendErrors carrying their
// index.
func partition(op string, results []callResult) ([]any, []*BackendError) {
	contexts := make([]any, 0, len(results))
	var failures []*BackendError

	for _, r := range results {
		if r.err != nil {
			failures = append(failures, &BackendError{Index: r.index, Op: op, Err: r.err})
			continue
		}
		contexts = append(contexts, r.value)
	}
	return contexts, failures
}
