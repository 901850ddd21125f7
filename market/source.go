package market

import "context"

// CriteriaSource provides the current ordered criteria list. Each
// classification run uses a single snapshot; a fetch failure must surface
// as an error, never as an empty list.
type CriteriaSource interface {
	Snapshot(ctx context.Context) ([]Criterion, error)
}

// ThresholdSource provides the simple/complex score boundary, consulted
// fresh per classification so operators can retune without redeploying.
type ThresholdSource interface {
	ComplexThreshold(ctx context.Context) (int, error)
}

// StaticCriteria serves a fixed criteria list, copied per snapshot.
type StaticCriteria []Criterion

// Snapshot implements CriteriaSource.
func (s StaticCriteria) Snapshot(context.Context) ([]Criterion, error) {
	out := make([]Criterion, len(s))
	copy(out, s)
	return out, nil
}

// StaticThreshold serves a fixed complex-tier threshold.
type StaticThreshold int

// ComplexThreshold implements ThresholdSource.
func (t StaticThreshold) ComplexThreshold(context.Context) (int, error) {
	return int(t), nil
}
