// Package urlbuilder defines the link-resolution contract consumed by the
// dashboard dispatcher. Keeping the contract local lets callers swap the
// urlkit-backed adapter for a stub when rendering module cards in tests.
package urlbuilder

// Builder resolves a route group and route name into a concrete URL for a
// dashboard module card, such as the job-orders or invoices landing page.
// Params fill path placeholders and query carries branch or filter state.
type Builder interface {
	Resolve(groupPath, route string, params map[string]any, query map[string]string) (string, error)
}
