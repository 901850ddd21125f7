package market

// Suggestion is a side-effect instruction produced by a tier transition.
// The consuming workflow decides whether to apply it; the classifier and
// transition function stay pure.
type Suggestion string

const (
	SuggestNone           Suggestion = ""
	SuggestPremiumPricing Suggestion = "premium_pricing"
)

// Transition compares two tiers and returns the side-effect instruction
// for the edge between them. Premium pricing is suggested exactly when a
// shipment moves from non-complex to complex; callers apply it only when
// no pricing approach has been chosen yet.
func Transition(prev, next Tier) Suggestion {
	switch next {
	case TierComplex:
		if prev != TierComplex {
			return SuggestPremiumPricing
		}
		return SuggestNone
	case TierSimple:
		return SuggestNone
	default:
		return SuggestNone
	}
}
