// Package orchestrator coordinates concurrent context gathering across a
// fixed set of backends and combines the per-backend results through a
// pluggable strategy. It owns no transport: backends are in-process values
// satisfying the capability contracts below.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextFetcher is the mandatory capability every backend implements:
// given an opaque query, produce an opaque context value. The orchestrator
// never inspects the shapes of query or result; both are passed through
// unchanged.
type ContextFetcher interface {
	FetchContext(ctx context.Context, query any) (any, error)
}

// ContextUpdater is the optional capability a backend may additionally
// implement to accept update payloads. The orchestrator detects it with a
// type assertion at dispatch time; backends lacking it are skipped during
// propagation, which is not an error.
type ContextUpdater interface {
	ApplyUpdate(ctx context.Context, payload any) error
}

// Strategy reduces an ordered list of per-backend context values into one
// combined value. Implementations must fail on an empty list and validate
// their own required element shapes.
type Strategy interface {
	Combine(contexts []any) (any, error)
}

// Operation names used for error correlation and round events.
const (
	OpFetch  = "fetch"
	OpUpdate = "update"
)

// retryConfig controls optional per-call retries. maxAttempts counts the
// initial attempt; values <= 1 disable retrying.
type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
}

// Orchestrator fans a query out to every backend, collects results keyed by
// backend index, and merges the successes through its strategy. The backend
// list, strategy, and error policy are fixed at construction, so a single
// Orchestrator is safe for any number of sequential or concurrent rounds.
type Orchestrator struct {
	backends []ContextFetcher
	strategy Strategy
	policy   ErrorPolicy
	logger   *zap.Logger
	observe  func(RoundEvent)
	timeout  time.Duration
	limit    int
	retry    retryConfig
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithErrorPolicy sets how backend-call failures affect a round.
// The default is Continue.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithLogger injects the diagnostic sink. The default is a no-op logger;
// the orchestrator never touches process-global logging state.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers a callback invoked for every round event. The
// callback runs synchronously on dispatch goroutines and must be fast and
// concurrency-safe. A Reporter's Emit method is a suitable observer.
func WithObserver(fn func(RoundEvent)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// WithTimeout bounds the dispatch-and-collect phase of every round. On
// expiry, outstanding backend calls are abandoned and recorded as failures
// for their index; results that already completed still combine under
// Continue or Ignore. Zero means no round-level bound beyond the caller's
// context.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithConcurrencyLimit caps the number of in-flight backend calls per
// round. Zero or negative means unlimited.
func WithConcurrencyLimit(n int) Option {
	return func(o *Orchestrator) { o.limit = n }
}

// WithRetry retries each failing backend call with exponential backoff,
// starting at initialInterval. maxAttempts includes the first attempt;
// values <= 1 leave retrying disabled.
func WithRetry(maxAttempts int, initialInterval time.Duration) Option {
	return func(o *Orchestrator) {
		o.retry = retryConfig{maxAttempts: maxAttempts, initialInterval: initialInterval}
	}
}

// New creates an Orchestrator over the given backends and strategy.
// At least one backend and a non-nil strategy are required. The backend
// slice is copied; its order is significant, serving as both the merge
// order and the index space for error correlation.
func New(backends []ContextFetcher, strategy Strategy, opts ...Option) (*Orchestrator, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	if strategy == nil {
		return nil, ErrNilStrategy
	}

	o := &Orchestrator{
		backends: append([]ContextFetcher(nil), backends...),
		strategy: strategy,
		policy:   Continue,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// GatherAndCombine dispatches one concurrent FetchContext call per backend,
// waits for all of them, and combines the successes in original backend
// order through the strategy.
//
// Under FailFast, any backend failure aborts the round with a *RoundError
// carrying every failure. Under Continue and Ignore, partial results
// proceed to combination; if no backend succeeded the round returns
// (nil, nil) rather than surfacing the strategy's empty-input error, so the
// root cause is not masked. Strategy errors always propagate regardless of
// the error policy.
func (o *Orchestrator) GatherAndCombine(ctx context.Context, query any) (any, error) {
	round := uuid.NewString()
	log := o.logger.With(zap.String("round", round), zap.String("op", OpFetch))
	log.Debug("gathering context", zap.Int("backends", len(o.backends)))

	calls := make([]call, len(o.backends))
	for i, b := range o.backends {
		calls[i] = call{
			index: i,
			run: func(ctx context.Context) (any, error) {
				return b.FetchContext(ctx, query)
			},
		}
	}

	results := o.dispatch(ctx, round, OpFetch, calls)
	contexts, failures := partition(OpFetch, results)

	if len(failures) > 0 {
		o.logFailures(log, failures)
		if o.policy == FailFast {
			return nil, newRoundError(OpFetch, failures)
		}
	}

	if len(contexts) == 0 {
		log.Warn("no contexts gathered", zap.Int("failed", len(failures)))
		return nil, nil
	}

	log.Debug("combining contexts", zap.Int("count", len(contexts)))
	combined, err := o.strategy.Combine(contexts)
	if err != nil {
		return nil, fmt.Errorf("combining %d contexts: %w", len(contexts), err)
	}
	return combined, nil
}

// PropagateUpdate delivers the payload concurrently to every backend that
// implements ContextUpdater, keyed by original backend index. Backends
// without the capability are skipped. If no backend qualifies the call
// returns immediately with nil. Partial application is accepted: failed
// backends are not rolled back. Under FailFast, any failure aborts with a
// *RoundError carrying every failure.
func (o *Orchestrator) PropagateUpdate(ctx context.Context, payload any) error {
	round := uuid.NewString()
	log := o.logger.With(zap.String("round", round), zap.String("op", OpUpdate))

	calls := make([]call, 0, len(o.backends))
	for i, b := range o.backends {
		u, ok := b.(ContextUpdater)
		if !ok {
			o.emit(RoundEvent{Round: round, Op: OpUpdate, Backend: i, Status: StatusSkipped})
			continue
		}
		calls = append(calls, call{
			index: i,
			run: func(ctx context.Context) (any, error) {
				return nil, u.ApplyUpdate(ctx, payload)
			},
		})
	}

	if len(calls) == 0 {
		log.Debug("no update-capable backends")
		return nil
	}

	log.Debug("propagating update", zap.Int("backends", len(calls)))
	results := o.dispatch(ctx, round, OpUpdate, calls)
	_, failures := partition(OpUpdate, results)

	if len(failures) > 0 {
		o.logFailures(log, failures)
		if o.policy == FailFast {
			return newRoundError(OpUpdate, failures)
		}
	}
	return nil
}

// logFailures reports per-backend failures to the diagnostic sink.
// Ignore suppresses these diagnostics entirely; that is the only behavioral
// difference between Ignore and Continue.
func (o *Orchestrator) logFailures(log *zap.Logger, failures []*BackendError) {
	if o.policy == Ignore {
		return
	}
	for _, f := range failures {
		log.Warn("backend call failed", zap.Int("backend", f.Index), zap.Error(f.Err))
	}
}

// emit sends a round event if an observer is registered.
func (o *Orchestrator) emit(ev RoundEvent) {
	if o.observe != nil {
		o.observe(ev)
	}
}
