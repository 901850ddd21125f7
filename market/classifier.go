package market

import (
	"context"

	"github.com/goliatone/go-fieldgate/fgerrors"
)

// ErrCriteriaUnavailable signals a missing criteria source.
var ErrCriteriaUnavailable = fgerrors.ErrCriteriaUnavailable

// ErrThresholdRequired signals a missing threshold source.
var ErrThresholdRequired = fgerrors.ErrThresholdRequired

// EvaluateEvent is emitted after each classification run.
type EvaluateEvent struct {
	Attributes     Attributes
	Classification Classification
	Threshold      int
	Error          error
}

// EvaluateHook receives classification events.
type EvaluateHook interface {
	OnEvaluate(ctx context.Context, event EvaluateEvent)
}

// EvaluateHookFunc wraps a function as an EvaluateHook.
type EvaluateHookFunc func(context.Context, EvaluateEvent)

// OnEvaluate implements EvaluateHook.
func (fn EvaluateHookFunc) OnEvaluate(ctx context.Context, event EvaluateEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}

// Classifier wires a criteria source and threshold source to Classify.
// It holds no memory of previous results; tier transitions belong to the
// caller (see Transition).
type Classifier struct {
	criteria  CriteriaSource
	threshold ThresholdSource
	hooks     []EvaluateHook
}

// Option customizes a Classifier.
type Option func(*Classifier)

// WithCriteriaSource sets the criteria source.
func WithCriteriaSource(source CriteriaSource) Option {
	return func(c *Classifier) {
		if c == nil {
			return
		}
		c.criteria = source
	}
}

// WithThresholdSource sets the threshold source.
func WithThresholdSource(source ThresholdSource) Option {
	return func(c *Classifier) {
		if c == nil {
			return
		}
		c.threshold = source
	}
}

// WithEvaluateHook registers a classification hook.
func WithEvaluateHook(hook EvaluateHook) Option {
	return func(c *Classifier) {
		if c == nil || hook == nil {
			return
		}
		c.hooks = append(c.hooks, hook)
	}
}

// NewClassifier constructs a Classifier with the provided options.
func NewClassifier(options ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Evaluate fetches one consistent criteria snapshot and a fresh threshold,
// then classifies the attributes. Fetch failures surface as errors so
// callers can present "classification unavailable" instead of defaulting
// to a tier.
func (c *Classifier) Evaluate(ctx context.Context, attrs Attributes) (Classification, error) {
	if c == nil || c.criteria == nil {
		err := fgerrors.WrapSentinel(fgerrors.ErrCriteriaUnavailable, "", map[string]any{
			fgerrors.MetaOperation: "evaluate",
		})
		return Classification{}, err
	}
	if c.threshold == nil {
		err := fgerrors.WrapSentinel(fgerrors.ErrThresholdRequired, "", map[string]any{
			fgerrors.MetaOperation: "evaluate",
		})
		return Classification{}, err
	}

	criteria, err := c.criteria.Snapshot(ctx)
	if err != nil {
		wrapped := fgerrors.WrapExternal(err, fgerrors.TextCodeCriteriaFetchFailed, "criteria snapshot failed", map[string]any{
			fgerrors.MetaStore:     "criteria",
			fgerrors.MetaOperation: "snapshot",
		})
		c.emit(ctx, EvaluateEvent{Attributes: attrs, Error: wrapped})
		return Classification{}, wrapped
	}

	threshold, err := c.threshold.ComplexThreshold(ctx)
	if err != nil {
		wrapped := fgerrors.WrapExternal(err, fgerrors.TextCodeThresholdFetchFailed, "threshold lookup failed", map[string]any{
			fgerrors.MetaStore:     "threshold",
			fgerrors.MetaOperation: "lookup",
		})
		c.emit(ctx, EvaluateEvent{Attributes: attrs, Error: wrapped})
		return Classification{}, wrapped
	}

	result, err := Classify(attrs, criteria, threshold)
	if err != nil {
		c.emit(ctx, EvaluateEvent{Attributes: attrs, Threshold: threshold, Error: err})
		return Classification{}, err
	}
	c.emit(ctx, EvaluateEvent{
		Attributes:     attrs,
		Classification: result,
		Threshold:      threshold,
	})
	return result, nil
}

func (c *Classifier) emit(ctx context.Context, event EvaluateEvent) {
	for _, hook := range c.hooks {
		if hook == nil {
			continue
		}
		hook.OnEvaluate(ctx, event)
	}
}
