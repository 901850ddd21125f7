package market

import (
	"github.com/goliatone/go-fieldgate/fgerrors"
)

// Tier is the pricing-relevant complexity classification of a shipment.
type Tier string

const (
	TierSimple  Tier = "simple"
	TierComplex Tier = "complex"
)

// Factor records one criterion that fired during classification.
type Factor struct {
	Code           string
	Name           string
	TriggeredValue any
	Weight         int
}

// Classification is the result of scoring a shipment against the current
// criteria snapshot. Score always equals the sum of factor weights, and
// Factors preserves criteria input order.
type Classification struct {
	Score   int
	Tier    Tier
	Factors []Factor
}

// Classify scores attributes against an ordered criteria snapshot and the
// configured complex-tier threshold. It is pure and order-stable:
// identical inputs produce identical results, including factor order.
// Malformed criteria surface as configuration errors naming the criterion;
// absent attributes never trigger and never error.
func Classify(attrs Attributes, criteria []Criterion, threshold int) (Classification, error) {
	if threshold < 0 {
		return Classification{}, fgerrors.WrapSentinel(fgerrors.ErrThresholdInvalid, "", map[string]any{
			fgerrors.MetaThreshold: threshold,
		})
	}
	result := Classification{Factors: []Factor{}}
	for _, criterion := range criteria {
		if err := criterion.Validate(); err != nil {
			return Classification{}, err
		}
		triggered, value := criterion.Condition.evaluate(attrs)
		if !triggered {
			continue
		}
		result.Score += criterion.Weight
		result.Factors = append(result.Factors, Factor{
			Code:           criterion.Code,
			Name:           criterion.Name,
			TriggeredValue: value,
			Weight:         criterion.Weight,
		})
	}
	result.Tier = TierSimple
	if result.Score >= threshold {
		result.Tier = TierComplex
	}
	return result, nil
}
