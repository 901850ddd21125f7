package market

import (
	"strings"

	"github.com/goliatone/go-fieldgate/fgerrors"
)

// Operator compares a cargo/route attribute against a configured value.
type Operator string

const (
	OpGT     Operator = "gt"
	OpGTE    Operator = "gte"
	OpLT     Operator = "lt"
	OpLTE    Operator = "lte"
	OpEQ     Operator = "eq"
	OpNEQ    Operator = "neq"
	OpExists Operator = "exists"
)

// ParseOperator maps a raw operator string to a known Operator.
func ParseOperator(raw string) (Operator, bool) {
	switch Operator(strings.ToLower(strings.TrimSpace(raw))) {
	case OpGT:
		return OpGT, true
	case OpGTE:
		return OpGTE, true
	case OpLT:
		return OpLT, true
	case OpLTE:
		return OpLTE, true
	case OpEQ:
		return OpEQ, true
	case OpNEQ:
		return OpNEQ, true
	case OpExists:
		return OpExists, true
	default:
		return "", false
	}
}

// Condition is a predicate over shipment attributes.
type Condition struct {
	Attribute string
	Operator  Operator
	Value     any
}

// Criterion is one weighted complexity rule fetched from configuration
// storage. Weight is added to the complexity score when the condition holds.
type Criterion struct {
	Code      string
	Name      string
	Condition Condition
	Weight    int
}

// Attributes is a snapshot of cargo and route inputs for one classification.
type Attributes map[string]any

// Validate reports a configuration error for a malformed criterion.
func (c Criterion) Validate() error {
	meta := map[string]any{
		fgerrors.MetaCriterion: c.Code,
		fgerrors.MetaAttribute: c.Condition.Attribute,
		fgerrors.MetaOperator:  string(c.Condition.Operator),
	}
	if strings.TrimSpace(c.Code) == "" {
		return fgerrors.WrapSentinel(fgerrors.ErrMalformedCriterion, "criterion code is required", meta)
	}
	if strings.TrimSpace(c.Condition.Attribute) == "" {
		return fgerrors.WrapSentinel(fgerrors.ErrMalformedCriterion, "criterion attribute is required", meta)
	}
	op, ok := ParseOperator(string(c.Condition.Operator))
	if !ok {
		return fgerrors.WrapSentinel(fgerrors.ErrMalformedCriterion, "criterion operator is not recognized", meta)
	}
	if c.Weight < 0 {
		return fgerrors.WrapSentinel(fgerrors.ErrMalformedCriterion, "criterion weight must be non-negative", meta)
	}
	switch op {
	case OpGT, OpGTE, OpLT, OpLTE:
		if _, ok := toFloat(c.Condition.Value); !ok {
			return fgerrors.WrapSentinel(fgerrors.ErrMalformedCriterion, "numeric operator requires a numeric comparison value", meta)
		}
	case OpEQ, OpNEQ:
		if !scalarValue(c.Condition.Value) {
			return fgerrors.WrapSentinel(fgerrors.ErrMalformedCriterion, "equality operator requires a numeric, boolean, or string comparison value", meta)
		}
	case OpExists:
		// No comparison value needed.
	}
	return nil
}

// evaluate applies the condition to the attributes. An absent or nil
// attribute never triggers and never errors.
func (c Condition) evaluate(attrs Attributes) (bool, any) {
	value, present := attrs[c.Attribute]
	if !present || value == nil {
		return false, nil
	}
	switch c.Operator {
	case OpExists:
		return true, value
	case OpGT, OpGTE, OpLT, OpLTE:
		left, ok := toFloat(value)
		if !ok {
			return false, nil
		}
		right, ok := toFloat(c.Value)
		if !ok {
			return false, nil
		}
		switch c.Operator {
		case OpGT:
			return left > right, value
		case OpGTE:
			return left >= right, value
		case OpLT:
			return left < right, value
		default:
			return left <= right, value
		}
	case OpEQ:
		return equal(value, c.Value), value
	case OpNEQ:
		return !equal(value, c.Value), value
	default:
		return false, nil
	}
}

// equal compares the supported scalar kinds only. An attribute value
// outside numeric, boolean, or string never matches, so structured
// attribute values cannot panic the comparison.
func equal(left, right any) bool {
	if lf, ok := toFloat(left); ok {
		rf, ok := toFloat(right)
		return ok && lf == rf
	}
	if lb, ok := left.(bool); ok {
		rb, ok := right.(bool)
		return ok && lb == rb
	}
	if ls, ok := left.(string); ok {
		rs, ok := right.(string)
		return ok && strings.EqualFold(strings.TrimSpace(ls), strings.TrimSpace(rs))
	}
	return false
}

// scalarValue reports whether a comparison value is numeric, boolean,
// or string, the only kinds equality criteria may compare against.
func scalarValue(value any) bool {
	if _, ok := toFloat(value); ok {
		return true
	}
	switch value.(type) {
	case bool, string:
		return true
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	default:
		return 0, false
	}
}
