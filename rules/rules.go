package rules

import (
	"context"

	"github.com/goliatone/go-fieldgate/mask"
)

// Decision captures the stored runtime rule state for a key.
type Decision struct {
	State mask.RuleState
}

// MissingDecision builds a placeholder decision for absent rules.
func MissingDecision() Decision {
	return Decision{State: mask.RuleStateMissing}
}

// UnsetDecision builds a placeholder decision for explicit unsets.
func UnsetDecision() Decision {
	return Decision{State: mask.RuleStateUnset}
}

// HiddenDecision marks a rule that hides its target.
func HiddenDecision() Decision {
	return Decision{State: mask.RuleStateHidden}
}

// VisibleDecision marks a rule that explicitly shows its target.
func VisibleDecision() Decision {
	return Decision{State: mask.RuleStateVisible}
}

// HasValue reports whether the decision contains a concrete value.
func (d Decision) HasValue() bool {
	return d.State == mask.RuleStateHidden || d.State == mask.RuleStateVisible
}

// Hidden reports whether the decision hides its target.
func (d Decision) Hidden() bool {
	return d.State == mask.RuleStateHidden
}

// Reader resolves runtime visibility rules by exact key.
type Reader interface {
	Get(ctx context.Context, key mask.RuleKey) (Decision, error)
}

// Writer stores runtime visibility rules.
type Writer interface {
	Set(ctx context.Context, key mask.RuleKey, hidden bool, actor mask.ActorRef) error
	Unset(ctx context.Context, key mask.RuleKey, actor mask.ActorRef) error
}

// ReadWriter is a combined reader/writer.
type ReadWriter interface {
	Reader
	Writer
}
