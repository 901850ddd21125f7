package mask

import "testing"

func TestNormalizeModuleResolvesLegacyAliases(t *testing.T) {
	cases := map[string]string{
		"pjo":             ModuleProformaJobOrders,
		"bkk":             ModuleCashDisbursements,
		"bl":              ModuleBillsOfLading,
		"si":              ModuleShippingInstructions,
		"manifests":       ModuleCargoManifests,
		"client_profiles": ModuleCustomers,
		" Invoices ":      ModuleInvoices,
		"JOB_ORDERS":      ModuleJobOrders,
	}
	for input, want := range cases {
		if got := NormalizeModule(input); got != want {
			t.Fatalf("NormalizeModule(%q) = %q, want %q", input, got, want)
		}
	}
	if got := NormalizeModule("   "); got != "" {
		t.Fatalf("expected empty module to normalize empty, got %q", got)
	}
}

func TestResolveAlias(t *testing.T) {
	canonical, wasAlias := ResolveAlias("pjo")
	if canonical != ModuleProformaJobOrders || !wasAlias {
		t.Fatalf("ResolveAlias(pjo) = %q, %v", canonical, wasAlias)
	}
	canonical, wasAlias = ResolveAlias("invoices")
	if canonical != ModuleInvoices || wasAlias {
		t.Fatalf("ResolveAlias(invoices) = %q, %v", canonical, wasAlias)
	}
	if !IsAlias("BKK") {
		t.Fatalf("expected bkk to be a known alias")
	}
	if IsAlias("invoices") {
		t.Fatalf("expected canonical key not to be an alias")
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles() {
		parsed, ok := ParseRole(" " + string(role) + " ")
		if !ok || parsed != role {
			t.Fatalf("ParseRole(%q) = %q, %v", role, parsed, ok)
		}
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Fatalf("expected unknown role to fail parsing")
	}
	if _, ok := ParseRole(""); ok {
		t.Fatalf("expected empty role to fail parsing")
	}
	if parsed, ok := ParseRole("FINANCE"); !ok || parsed != RoleFinance {
		t.Fatalf("expected case-insensitive parse, got %q, %v", parsed, ok)
	}
}

func TestProfileHasRole(t *testing.T) {
	if (Profile{}).HasRole() {
		t.Fatalf("expected empty profile to have no role")
	}
	if !(Profile{Role: RoleOps}).HasRole() {
		t.Fatalf("expected ops profile to have a role")
	}
	if (Profile{Role: "superuser"}).HasRole() {
		t.Fatalf("expected unknown role to be rejected")
	}
}

func TestRuleKeyModuleWide(t *testing.T) {
	if !(RuleKey{Role: RoleFinance, Module: ModuleInvoices}).ModuleWide() {
		t.Fatalf("expected empty field to mean module-wide")
	}
	if (RuleKey{Role: RoleFinance, Module: ModuleInvoices, Field: "amount"}).ModuleWide() {
		t.Fatalf("expected field key not to be module-wide")
	}
}
