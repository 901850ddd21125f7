package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-fieldgate/market"
	"github.com/goliatone/go-fieldgate/mask"
)

type captureMask struct {
	hidden      bool
	err         error
	calls       int
	lastModule  string
	lastField   string
	lastProfile *mask.Profile
	lastCtx     context.Context
}

func (m *captureMask) FieldHidden(ctx context.Context, module, field string, opts ...mask.ResolveOption) (bool, error) {
	m.calls++
	m.lastModule = module
	m.lastField = field
	m.lastCtx = ctx
	req := mask.ResolveRequest{}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	if req.Profile != nil {
		profileCopy := *req.Profile
		m.lastProfile = &profileCopy
	} else {
		m.lastProfile = nil
	}
	return m.hidden, m.err
}

func (m *captureMask) ModuleHidden(ctx context.Context, module string, opts ...mask.ResolveOption) (bool, error) {
	return m.FieldHidden(ctx, module, "", opts...)
}

func TestTemplateHelpersProfileOverride(t *testing.T) {
	maskStub := &captureMask{hidden: false}
	helpers := TemplateHelpers(maskStub)
	fn, ok := helpers["field_visible"].(func(*pongo2.ExecutionContext, any, any) bool)
	if !ok {
		t.Fatalf("field_visible helper not found")
	}
	execCtx := &pongo2.ExecutionContext{
		Public: pongo2.Context{
			TemplateProfileKey: map[string]any{
				"profile_role":    "finance",
				"profile_user_id": "fin-1",
				"profile_branch":  "jakarta",
			},
		},
	}

	value := fn(execCtx, "invoices", "margin")
	if !value {
		t.Fatalf("expected field_visible helper to return true")
	}
	if maskStub.lastProfile == nil || maskStub.lastProfile.Role != mask.RoleFinance {
		t.Fatalf("expected profile override to be applied, got %+v", maskStub.lastProfile)
	}
	if maskStub.lastModule != "invoices" || maskStub.lastField != "margin" {
		t.Fatalf("unexpected lookup key: %s.%s", maskStub.lastModule, maskStub.lastField)
	}
}

func TestTemplateHelpersMissingProfileFailsClosed(t *testing.T) {
	maskStub := &captureMask{hidden: false}
	helpers := TemplateHelpers(maskStub)
	fn, ok := helpers["field_hidden"].(func(*pongo2.ExecutionContext, any, any) bool)
	if !ok {
		t.Fatalf("field_hidden helper not found")
	}
	execCtx := &pongo2.ExecutionContext{
		Public: pongo2.Context{},
	}

	if !fn(execCtx, "invoices", "margin") {
		t.Fatalf("expected hidden when no profile is available")
	}
	if maskStub.calls != 0 {
		t.Fatalf("expected resolver not to be called without a profile")
	}
}

func TestTemplateHelpersSnapshotPrecedence(t *testing.T) {
	maskStub := &captureMask{hidden: false}
	helpers := TemplateHelpers(maskStub)
	fn, ok := helpers["field_hidden"].(func(*pongo2.ExecutionContext, any, any) bool)
	if !ok {
		t.Fatalf("field_hidden helper not found")
	}
	execCtx := &pongo2.ExecutionContext{
		Public: pongo2.Context{
			TemplateSnapshotKey: map[string]bool{
				"invoices.margin": true,
			},
		},
	}

	if !fn(execCtx, "invoices", "margin") {
		t.Fatalf("expected snapshot value to be used")
	}
	if maskStub.calls != 0 {
		t.Fatalf("expected resolver not to be called when snapshot contains key")
	}
}

func TestTemplateHelpersModuleAliasNormalization(t *testing.T) {
	maskStub := &captureMask{hidden: true}
	helpers := TemplateHelpers(maskStub)
	fn, ok := helpers["module_hidden"].(func(*pongo2.ExecutionContext, any) bool)
	if !ok {
		t.Fatalf("module_hidden helper not found")
	}
	execCtx := &pongo2.ExecutionContext{
		Public: pongo2.Context{
			TemplateProfileKey: mask.Profile{Role: mask.RoleOps},
		},
	}

	if !fn(execCtx, "bkk") {
		t.Fatalf("expected hidden module")
	}
	if maskStub.lastModule != mask.ModuleCashDisbursements {
		t.Fatalf("expected alias normalization, got %s", maskStub.lastModule)
	}
}

func TestTemplateHelpersErrorFallback(t *testing.T) {
	maskStub := &captureMask{err: errors.New("boom")}
	helpers := TemplateHelpers(maskStub)
	fn, ok := helpers["visible_if"].(func(*pongo2.ExecutionContext, any, any, any, ...any) any)
	if !ok {
		t.Fatalf("visible_if helper not found")
	}
	execCtx := &pongo2.ExecutionContext{
		Public: pongo2.Context{
			TemplateProfileKey: mask.Profile{Role: mask.RoleViewer},
		},
	}

	value := fn(execCtx, "invoices", "margin", "shown", "masked")
	if value != "masked" {
		t.Fatalf("expected fallback value, got %v", value)
	}
}

func TestTemplateHelpersMaskedPlaceholder(t *testing.T) {
	maskStub := &captureMask{hidden: true}
	helpers := TemplateHelpers(maskStub)
	fn, ok := helpers["masked"].(func(*pongo2.ExecutionContext, any, any, any, ...any) any)
	if !ok {
		t.Fatalf("masked helper not found")
	}
	execCtx := &pongo2.ExecutionContext{
		Public: pongo2.Context{
			TemplateProfileKey: mask.Profile{Role: mask.RoleViewer},
		},
	}

	value := fn(execCtx, "invoices", "margin", "1250.00")
	if value != DefaultPlaceholder {
		t.Fatalf("expected placeholder, got %v", value)
	}

	maskStub.hidden = false
	value = fn(execCtx, "invoices", "margin", "1250.00")
	if value != "1250.00" {
		t.Fatalf("expected raw value when visible, got %v", value)
	}
}

func TestTemplateHelpersMarket(t *testing.T) {
	helpers := TemplateHelpers(&captureMask{})

	tierFn, ok := helpers["market_tier"].(func(any) string)
	if !ok {
		t.Fatalf("market_tier helper not found")
	}
	if tier := tierFn(market.Classification{Tier: market.TierComplex, Score: 70}); tier != "complex" {
		t.Fatalf("unexpected tier: %q", tier)
	}

	complexFn, ok := helpers["market_complex"].(func(any) bool)
	if !ok {
		t.Fatalf("market_complex helper not found")
	}
	if !complexFn("complex") || complexFn("simple") {
		t.Fatalf("unexpected market_complex result")
	}

	premiumFn, ok := helpers["market_premium"].(func(any, any) bool)
	if !ok {
		t.Fatalf("market_premium helper not found")
	}
	if !premiumFn("simple", "complex") {
		t.Fatalf("expected premium suggestion on simple to complex transition")
	}
	if premiumFn("complex", "complex") || premiumFn("complex", "simple") {
		t.Fatalf("unexpected premium suggestion")
	}
}
