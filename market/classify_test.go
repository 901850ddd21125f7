package market

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-fieldgate/fgerrors"
)

func forwardingCriteria() []Criterion {
	return []Criterion{
		{
			Code:      "HEAVY_CARGO",
			Name:      "Heavy cargo",
			Condition: Condition{Attribute: "cargo_weight_kg", Operator: OpGT, Value: 25000},
			Weight:    40,
		},
		{
			Code:      "PERMIT",
			Name:      "Requires permit",
			Condition: Condition{Attribute: "requires_permit", Operator: OpEQ, Value: true},
			Weight:    30,
		},
	}
}

func TestClassifyScoresTriggeredCriteriaInOrder(t *testing.T) {
	attrs := Attributes{
		"cargo_weight_kg": 30000,
		"requires_permit": true,
	}

	result, err := Classify(attrs, forwardingCriteria(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 70 {
		t.Fatalf("unexpected score: %d", result.Score)
	}
	if result.Tier != TierComplex {
		t.Fatalf("unexpected tier: %s", result.Tier)
	}
	if len(result.Factors) != 2 {
		t.Fatalf("expected both factors, got %d", len(result.Factors))
	}
	if result.Factors[0].Code != "HEAVY_CARGO" || result.Factors[1].Code != "PERMIT" {
		t.Fatalf("expected input-order factors, got %+v", result.Factors)
	}
}

func TestClassifyNothingTriggeredIsSimple(t *testing.T) {
	attrs := Attributes{
		"cargo_weight_kg": 10000,
		"requires_permit": false,
	}

	result, err := Classify(attrs, forwardingCriteria(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 0 {
		t.Fatalf("unexpected score: %d", result.Score)
	}
	if result.Tier != TierSimple {
		t.Fatalf("unexpected tier: %s", result.Tier)
	}
	if len(result.Factors) != 0 {
		t.Fatalf("expected no factors, got %+v", result.Factors)
	}
}

func TestClassifyAbsentAttributeNeverTriggers(t *testing.T) {
	attrs := Attributes{
		"requires_permit": true,
	}

	result, err := Classify(attrs, forwardingCriteria(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 30 {
		t.Fatalf("unexpected score: %d", result.Score)
	}
	if result.Tier != TierSimple {
		t.Fatalf("unexpected tier: %s", result.Tier)
	}
}

func TestClassifyBoundaryScoreIsComplex(t *testing.T) {
	attrs := Attributes{
		"cargo_weight_kg": 26000,
	}

	result, err := Classify(attrs, forwardingCriteria(), 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 40 {
		t.Fatalf("unexpected score: %d", result.Score)
	}
	if result.Tier != TierComplex {
		t.Fatalf("score equal to threshold must classify complex, got %s", result.Tier)
	}
}

func TestClassifyEmptyCriteriaListIsValid(t *testing.T) {
	result, err := Classify(Attributes{"cargo_weight_kg": 30000}, nil, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 0 || result.Tier != TierSimple {
		t.Fatalf("expected zero-score simple result, got %+v", result)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	attrs := Attributes{
		"cargo_weight_kg": 30000,
		"requires_permit": true,
	}
	criteria := forwardingCriteria()

	first, err := Classify(attrs, criteria, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Classify(attrs, criteria, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Score != second.Score || first.Tier != second.Tier {
		t.Fatalf("expected identical results: %+v vs %+v", first, second)
	}
	if len(first.Factors) != len(second.Factors) {
		t.Fatalf("expected identical factor counts")
	}
	for i := range first.Factors {
		if first.Factors[i].Code != second.Factors[i].Code {
			t.Fatalf("expected stable factor order")
		}
	}
}

func TestClassifyMalformedCriterionSurfacesConfigError(t *testing.T) {
	criteria := []Criterion{
		{
			Code:      "BROKEN",
			Condition: Condition{Attribute: "cargo_weight_kg", Operator: "between", Value: 10},
			Weight:    10,
		},
	}

	_, err := Classify(Attributes{"cargo_weight_kg": 30000}, criteria, 50)
	if err == nil {
		t.Fatalf("expected malformed criterion error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error")
	}
	if rich.TextCode != fgerrors.TextCodeMalformedCriterion {
		t.Fatalf("unexpected text code: %s", rich.TextCode)
	}
	if rich.Metadata == nil || rich.Metadata[fgerrors.MetaCriterion] != "BROKEN" {
		t.Fatalf("expected criterion metadata, got %+v", rich.Metadata)
	}
}

func TestClassifyNonScalarEqualityValueIsConfigError(t *testing.T) {
	criteria := []Criterion{
		{
			Code:      "ROUTE",
			Condition: Condition{Attribute: "route_legs", Operator: OpEQ, Value: []string{"JKT", "SIN"}},
			Weight:    10,
		},
	}

	_, err := Classify(Attributes{"route_legs": []string{"JKT", "SIN"}}, criteria, 50)
	if err == nil {
		t.Fatalf("expected malformed criterion error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error")
	}
	if rich.TextCode != fgerrors.TextCodeMalformedCriterion {
		t.Fatalf("unexpected text code: %s", rich.TextCode)
	}
	if rich.Metadata == nil || rich.Metadata[fgerrors.MetaCriterion] != "ROUTE" {
		t.Fatalf("expected criterion metadata, got %+v", rich.Metadata)
	}
}

func TestConditionEqualityIgnoresStructuredAttributeValues(t *testing.T) {
	condition := Condition{Attribute: "route_legs", Operator: OpEQ, Value: "JKT-SIN"}

	triggered, _ := condition.evaluate(Attributes{"route_legs": []string{"JKT", "SIN"}})
	if triggered {
		t.Fatalf("expected structured attribute value not to trigger equality")
	}

	triggered, _ = condition.evaluate(Attributes{"route_legs": map[string]any{"via": "SIN"}})
	if triggered {
		t.Fatalf("expected map attribute value not to trigger equality")
	}
}

func TestClassifyNegativeThresholdIsInvalid(t *testing.T) {
	_, err := Classify(Attributes{}, nil, -1)
	if err == nil {
		t.Fatalf("expected threshold error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected rich error")
	}
	if rich.TextCode != fgerrors.TextCodeThresholdInvalid {
		t.Fatalf("unexpected text code: %s", rich.TextCode)
	}
}

func TestClassifyZeroThresholdClassifiesEverythingComplex(t *testing.T) {
	result, err := Classify(Attributes{}, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tier != TierComplex {
		t.Fatalf("score 0 meets threshold 0, expected complex, got %s", result.Tier)
	}
}

func TestConditionEvaluateWrongTypeDoesNotTrigger(t *testing.T) {
	condition := Condition{Attribute: "cargo_weight_kg", Operator: OpGT, Value: 25000}

	triggered, _ := condition.evaluate(Attributes{"cargo_weight_kg": "heavy"})
	if triggered {
		t.Fatalf("expected non-numeric attribute value not to trigger")
	}
}

func TestConditionEvaluateOperators(t *testing.T) {
	cases := []struct {
		name      string
		condition Condition
		attrs     Attributes
		want      bool
	}{
		{"gte boundary", Condition{Attribute: "teu", Operator: OpGTE, Value: 10}, Attributes{"teu": 10}, true},
		{"lt", Condition{Attribute: "transit_days", Operator: OpLT, Value: 14}, Attributes{"transit_days": 7}, true},
		{"lte false", Condition{Attribute: "transit_days", Operator: OpLTE, Value: 14}, Attributes{"transit_days": 21}, false},
		{"neq", Condition{Attribute: "incoterm", Operator: OpNEQ, Value: "FOB"}, Attributes{"incoterm": "CIF"}, true},
		{"eq string case-insensitive", Condition{Attribute: "incoterm", Operator: OpEQ, Value: "fob"}, Attributes{"incoterm": "FOB"}, true},
		{"exists", Condition{Attribute: "dangerous_goods_class", Operator: OpExists}, Attributes{"dangerous_goods_class": "5.1"}, true},
		{"exists nil value", Condition{Attribute: "dangerous_goods_class", Operator: OpExists}, Attributes{"dangerous_goods_class": nil}, false},
	}

	for _, tc := range cases {
		triggered, _ := tc.condition.evaluate(tc.attrs)
		if triggered != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, triggered)
		}
	}
}

func TestCriterionValidate(t *testing.T) {
	valid := Criterion{
		Code:      "TRANSSHIPMENT",
		Condition: Condition{Attribute: "transshipment_count", Operator: OpGTE, Value: 2},
		Weight:    20,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	brokens := []Criterion{
		{Condition: Condition{Attribute: "teu", Operator: OpGT, Value: 1}, Weight: 1},
		{Code: "X", Condition: Condition{Operator: OpGT, Value: 1}, Weight: 1},
		{Code: "X", Condition: Condition{Attribute: "teu", Operator: "around", Value: 1}, Weight: 1},
		{Code: "X", Condition: Condition{Attribute: "teu", Operator: OpGT, Value: "many"}, Weight: 1},
		{Code: "X", Condition: Condition{Attribute: "teu", Operator: OpEQ}, Weight: 1},
		{Code: "X", Condition: Condition{Attribute: "route_legs", Operator: OpEQ, Value: []string{"JKT", "SIN"}}, Weight: 1},
		{Code: "X", Condition: Condition{Attribute: "route_legs", Operator: OpNEQ, Value: map[string]any{"via": "SIN"}}, Weight: 1},
		{Code: "X", Condition: Condition{Attribute: "teu", Operator: OpGT, Value: 1}, Weight: -1},
	}
	for i, broken := range brokens {
		if err := broken.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
