package catalog

import "github.com/goliatone/go-fieldgate/mask"

// Default returns the catalog of forwarding ERP modules and their
// commonly masked fields.
func Default() *StaticCatalog {
	return NewStatic(map[string]ModuleDefinition{
		mask.ModuleCustomers: {
			Description: Message{Text: "Customer and contact management"},
			Fields: []FieldDefinition{
				{Key: "credit_limit", Description: Message{Text: "Approved credit limit"}},
				{Key: "tax_id", Description: Message{Text: "Tax registration number"}},
				{Key: "payment_terms", Description: Message{Text: "Agreed payment terms"}},
			},
		},
		mask.ModuleProjects: {
			Description: Message{Text: "Project management"},
			Fields: []FieldDefinition{
				{Key: "budget", Description: Message{Text: "Project budget"}},
				{Key: "margin", Description: Message{Text: "Expected margin"}},
			},
		},
		mask.ModuleProformaJobOrders: {
			Description: Message{Text: "Proforma job orders (pre-approval estimates)"},
			Fields: []FieldDefinition{
				{Key: "estimated_cost", Description: Message{Text: "Estimated cost"}},
				{Key: "estimated_revenue", Description: Message{Text: "Estimated revenue"}},
				{Key: "pricing_approach", Description: Message{Text: "Pricing approach"}},
				{Key: "market_type", Description: Message{Text: "Market complexity tier"}},
			},
		},
		mask.ModuleJobOrders: {
			Description: Message{Text: "Job orders"},
			Fields: []FieldDefinition{
				{Key: "cost", Description: Message{Text: "Actual cost"}},
				{Key: "revenue", Description: Message{Text: "Actual revenue"}},
				{Key: "vendor_rates", Description: Message{Text: "Vendor rate breakdown"}},
			},
		},
		mask.ModuleInvoices: {
			Description: Message{Text: "Customer invoicing"},
			Fields: []FieldDefinition{
				{Key: "amount", Description: Message{Text: "Invoice amount"}},
				{Key: "margin", Description: Message{Text: "Invoice margin"}},
				{Key: "bank_account", Description: Message{Text: "Receiving bank account"}},
			},
		},
		mask.ModuleBillsOfLading: {
			Description: Message{Text: "Bills of lading"},
			Fields: []FieldDefinition{
				{Key: "freight_charges", Description: Message{Text: "Freight charges"}},
			},
		},
		mask.ModuleShippingInstructions: {
			Description: Message{Text: "Shipping instructions"},
		},
		mask.ModuleCargoManifests: {
			Description: Message{Text: "Cargo manifests"},
			Fields: []FieldDefinition{
				{Key: "declared_value", Description: Message{Text: "Declared cargo value"}},
			},
		},
		mask.ModuleCashDisbursements: {
			Description: Message{Text: "Cash disbursement (BKK) workflow"},
			Fields: []FieldDefinition{
				{Key: "amount", Description: Message{Text: "Disbursement amount"}},
				{Key: "approver", Description: Message{Text: "Approving officer"}},
				{Key: "settlement_status", Description: Message{Text: "Settlement status"}},
			},
		},
		mask.ModuleHRTraining: {
			Description: Message{Text: "HR and training records"},
			Fields: []FieldDefinition{
				{Key: "salary", Description: Message{Text: "Employee salary"}},
			},
		},
		mask.ModuleSafety: {
			Description: Message{Text: "Safety incidents and audits"},
		},
		mask.ModuleSecurityEvents: {
			Description: Message{Text: "Security event log"},
		},
		mask.ModuleDashboards: {
			Description: Message{Text: "Role dashboards"},
		},
	})
}
