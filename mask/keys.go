package mask

import "strings"

// Module keys for the forwarding ERP functional areas.
const (
	ModuleCustomers            = "customers"
	ModuleProjects             = "projects"
	ModuleProformaJobOrders    = "proforma_job_orders"
	ModuleJobOrders            = "job_orders"
	ModuleInvoices             = "invoices"
	ModuleBillsOfLading        = "bills_of_lading"
	ModuleShippingInstructions = "shipping_instructions"
	ModuleCargoManifests       = "cargo_manifests"
	ModuleCashDisbursements    = "cash_disbursements"
	ModuleHRTraining           = "hr_training"
	ModuleSafety               = "safety"
	ModuleSecurityEvents       = "security_events"
	ModuleDashboards           = "dashboards"
)

// Legacy module names kept from earlier releases of the ERP.
var moduleAliases = map[string]string{
	"pjo":             ModuleProformaJobOrders,
	"bkk":             ModuleCashDisbursements,
	"bl":              ModuleBillsOfLading,
	"manifests":       ModuleCargoManifests,
	"si":              ModuleShippingInstructions,
	"client_profiles": ModuleCustomers,
}

// NormalizeModule trims and lowercases a module key and resolves legacy aliases.
func NormalizeModule(module string) string {
	module = normalize(module)
	if module == "" {
		return ""
	}
	if alias, ok := moduleAliases[module]; ok {
		return alias
	}
	return module
}

// NormalizeField trims and lowercases a field key.
func NormalizeField(field string) string {
	return normalize(field)
}

// ResolveAlias returns the canonical module key and whether an alias was applied.
func ResolveAlias(module string) (string, bool) {
	normalized := NormalizeModule(module)
	if normalized == "" {
		return "", false
	}
	return normalized, normalized != normalize(module)
}

// IsAlias reports whether the module key is a known legacy alias.
func IsAlias(module string) bool {
	_, ok := moduleAliases[normalize(module)]
	return ok
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
