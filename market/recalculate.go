package market

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the trailing-edge window for interactive recalculation.
const DefaultDebounce = 300 * time.Millisecond

// Result is delivered after a debounced recalculation.
type Result struct {
	Classification Classification
	Suggestion     Suggestion
	Error          error
}

// Recalculator coalesces rapid attribute changes so only the latest input
// set is classified. Superseded pending evaluations are discarded, not
// queued; each evaluation is independent and idempotent, so no
// cancellation token is needed.
type Recalculator struct {
	classifier *Classifier
	window     time.Duration
	deliver    func(Result)

	mu         sync.Mutex
	timer      *time.Timer
	pending    Attributes
	hasPending bool
	ctx        context.Context
	lastTier   Tier
	hasLast    bool
}

// RecalcOption customizes a Recalculator.
type RecalcOption func(*Recalculator)

// WithWindow overrides the debounce window.
func WithWindow(window time.Duration) RecalcOption {
	return func(r *Recalculator) {
		if r == nil || window <= 0 {
			return
		}
		r.window = window
	}
}

// NewRecalculator builds a debounced recalculator delivering results to
// the provided callback.
func NewRecalculator(classifier *Classifier, deliver func(Result), opts ...RecalcOption) *Recalculator {
	r := &Recalculator{
		classifier: classifier,
		window:     DefaultDebounce,
		deliver:    deliver,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Submit records the latest attribute snapshot and (re)arms the trailing
// edge. Earlier pending snapshots are discarded.
func (r *Recalculator) Submit(ctx context.Context, attrs Attributes) {
	if r == nil || r.classifier == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = attrs
	r.hasPending = true
	r.ctx = ctx
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.window, r.fire)
}

// Flush evaluates any pending snapshot immediately.
func (r *Recalculator) Flush() {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()
	r.fire()
}

// Stop discards any pending evaluation.
func (r *Recalculator) Stop() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = nil
	r.hasPending = false
}

func (r *Recalculator) fire() {
	r.mu.Lock()
	attrs := r.pending
	ctx := r.ctx
	armed := r.hasPending
	r.pending = nil
	r.hasPending = false
	r.timer = nil
	r.mu.Unlock()
	if !armed {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := r.classifier.Evaluate(ctx, attrs)
	out := Result{Classification: result, Error: err}
	if err == nil {
		r.mu.Lock()
		if r.hasLast {
			out.Suggestion = Transition(r.lastTier, result.Tier)
		} else if result.Tier == TierComplex {
			out.Suggestion = SuggestPremiumPricing
		}
		r.lastTier = result.Tier
		r.hasLast = true
		r.mu.Unlock()
	}
	if r.deliver != nil {
		r.deliver(out)
	}
}
