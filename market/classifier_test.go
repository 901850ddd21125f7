package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-fieldgate/fgerrors"
)

type failingCriteria struct {
	err error
}

func (f failingCriteria) Snapshot(context.Context) ([]Criterion, error) {
	return nil, f.err
}

type failingThreshold struct {
	err error
}

func (f failingThreshold) ComplexThreshold(context.Context) (int, error) {
	return 0, f.err
}

func TestClassifierEvaluate(t *testing.T) {
	var events []EvaluateEvent
	classifier := NewClassifier(
		WithCriteriaSource(StaticCriteria(forwardingCriteria())),
		WithThresholdSource(StaticThreshold(50)),
		WithEvaluateHook(EvaluateHookFunc(func(_ context.Context, event EvaluateEvent) {
			events = append(events, event)
		})),
	)

	result, err := classifier.Evaluate(context.Background(), Attributes{
		"cargo_weight_kg": 30000,
		"requires_permit": true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 70 || result.Tier != TierComplex {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(events) != 1 {
		t.Fatalf("expected one evaluate event, got %d", len(events))
	}
	if events[0].Threshold != 50 || events[0].Classification.Score != 70 {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestClassifierWithoutCriteriaSource(t *testing.T) {
	classifier := NewClassifier(WithThresholdSource(StaticThreshold(50)))

	_, err := classifier.Evaluate(context.Background(), Attributes{})
	if err == nil {
		t.Fatalf("expected missing criteria source error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error")
	}
	if rich.TextCode != fgerrors.TextCodeCriteriaUnavailable {
		t.Fatalf("unexpected text code: %s", rich.TextCode)
	}
}

func TestClassifierCriteriaFetchFailureIsNotEmptyList(t *testing.T) {
	var events []EvaluateEvent
	classifier := NewClassifier(
		WithCriteriaSource(failingCriteria{err: errors.New("db down")}),
		WithThresholdSource(StaticThreshold(50)),
		WithEvaluateHook(EvaluateHookFunc(func(_ context.Context, event EvaluateEvent) {
			events = append(events, event)
		})),
	)

	_, err := classifier.Evaluate(context.Background(), Attributes{"cargo_weight_kg": 30000})
	if err == nil {
		t.Fatalf("expected criteria fetch error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error")
	}
	if rich.TextCode != fgerrors.TextCodeCriteriaFetchFailed {
		t.Fatalf("unexpected text code: %s", rich.TextCode)
	}
	if len(events) != 1 || events[0].Error == nil {
		t.Fatalf("expected error event, got %+v", events)
	}
}

func TestClassifierThresholdFetchFailure(t *testing.T) {
	classifier := NewClassifier(
		WithCriteriaSource(StaticCriteria(forwardingCriteria())),
		WithThresholdSource(failingThreshold{err: errors.New("settings missing")}),
	)

	_, err := classifier.Evaluate(context.Background(), Attributes{})
	if err == nil {
		t.Fatalf("expected threshold fetch error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error")
	}
	if rich.TextCode != fgerrors.TextCodeThresholdFetchFailed {
		t.Fatalf("unexpected text code: %s", rich.TextCode)
	}
}

func TestTransitionSuggestsPremiumOnComplexEdge(t *testing.T) {
	if got := Transition(TierSimple, TierComplex); got != SuggestPremiumPricing {
		t.Fatalf("simple to complex: expected premium suggestion, got %q", got)
	}
	if got := Transition(TierComplex, TierComplex); got != SuggestNone {
		t.Fatalf("complex to complex: expected no suggestion, got %q", got)
	}
	if got := Transition(TierComplex, TierSimple); got != SuggestNone {
		t.Fatalf("complex to simple: expected no suggestion, got %q", got)
	}
	if got := Transition(TierSimple, TierSimple); got != SuggestNone {
		t.Fatalf("simple to simple: expected no suggestion, got %q", got)
	}
}

func TestRecalculatorEvaluatesLatestSnapshotOnly(t *testing.T) {
	classifier := NewClassifier(
		WithCriteriaSource(StaticCriteria(forwardingCriteria())),
		WithThresholdSource(StaticThreshold(50)),
	)

	var mu sync.Mutex
	var results []Result
	done := make(chan struct{}, 4)
	recalc := NewRecalculator(classifier, func(result Result) {
		mu.Lock()
		results = append(results, result)
		mu.Unlock()
		done <- struct{}{}
	}, WithWindow(20*time.Millisecond))
	defer recalc.Stop()

	ctx := context.Background()
	recalc.Submit(ctx, Attributes{"cargo_weight_kg": 10000})
	recalc.Submit(ctx, Attributes{"cargo_weight_kg": 20000})
	recalc.Submit(ctx, Attributes{"cargo_weight_kg": 30000, "requires_permit": true})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for recalculation")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 {
		t.Fatalf("expected one delivery for coalesced submits, got %d", len(results))
	}
	if results[0].Classification.Score != 70 {
		t.Fatalf("expected latest snapshot to be classified, got %+v", results[0].Classification)
	}
	if results[0].Suggestion != SuggestPremiumPricing {
		t.Fatalf("expected premium suggestion on first complex result, got %q", results[0].Suggestion)
	}
}

func TestRecalculatorTracksTierTransitions(t *testing.T) {
	classifier := NewClassifier(
		WithCriteriaSource(StaticCriteria(forwardingCriteria())),
		WithThresholdSource(StaticThreshold(50)),
	)

	var mu sync.Mutex
	var results []Result
	recalc := NewRecalculator(classifier, func(result Result) {
		mu.Lock()
		results = append(results, result)
		mu.Unlock()
	}, WithWindow(time.Hour))
	defer recalc.Stop()

	ctx := context.Background()
	recalc.Submit(ctx, Attributes{"cargo_weight_kg": 10000})
	recalc.Flush()
	recalc.Submit(ctx, Attributes{"cargo_weight_kg": 30000, "requires_permit": true})
	recalc.Flush()
	recalc.Submit(ctx, Attributes{"cargo_weight_kg": 31000, "requires_permit": true})
	recalc.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 3 {
		t.Fatalf("expected three deliveries, got %d", len(results))
	}
	if results[0].Classification.Tier != TierSimple || results[0].Suggestion != SuggestNone {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].Classification.Tier != TierComplex || results[1].Suggestion != SuggestPremiumPricing {
		t.Fatalf("expected premium suggestion on simple to complex edge: %+v", results[1])
	}
	if results[2].Suggestion != SuggestNone {
		t.Fatalf("expected no suggestion while staying complex: %+v", results[2])
	}
}

func TestRecalculatorClassifiesNilSnapshot(t *testing.T) {
	classifier := NewClassifier(
		WithCriteriaSource(StaticCriteria(forwardingCriteria())),
		WithThresholdSource(StaticThreshold(50)),
	)

	var mu sync.Mutex
	var results []Result
	recalc := NewRecalculator(classifier, func(result Result) {
		mu.Lock()
		results = append(results, result)
		mu.Unlock()
	}, WithWindow(time.Hour))
	defer recalc.Stop()

	recalc.Submit(context.Background(), nil)
	recalc.Flush()
	recalc.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 {
		t.Fatalf("expected one delivery for nil snapshot, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Fatalf("unexpected error: %v", results[0].Error)
	}
	if results[0].Classification.Score != 0 || results[0].Classification.Tier != TierSimple {
		t.Fatalf("expected zero-score simple result, got %+v", results[0].Classification)
	}
}

func TestRecalculatorStopDiscardsPending(t *testing.T) {
	classifier := NewClassifier(
		WithCriteriaSource(StaticCriteria(forwardingCriteria())),
		WithThresholdSource(StaticThreshold(50)),
	)

	delivered := make(chan Result, 1)
	recalc := NewRecalculator(classifier, func(result Result) {
		delivered <- result
	}, WithWindow(10*time.Millisecond))

	recalc.Submit(context.Background(), Attributes{"cargo_weight_kg": 30000})
	recalc.Stop()

	select {
	case result := <-delivered:
		t.Fatalf("expected no delivery after stop, got %+v", result)
	case <-time.After(50 * time.Millisecond):
	}
}
