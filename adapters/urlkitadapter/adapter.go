// Package urlkitadapter bridges a urlkit.Resolver into the dashboard's
// urlbuilder.Builder contract so module cards link to their ERP landing
// pages through the shared route registry.
package urlkitadapter

import (
	"github.com/goliatone/go-fieldgate/fgerrors"
	"github.com/goliatone/go-fieldgate/urlbuilder"
	"github.com/goliatone/go-urlkit"
)

// ErrResolverRequired indicates the urlkit resolver is missing.
var ErrResolverRequired = fgerrors.ErrResolverRequired

// Adapter exposes a urlkit.Resolver as an urlbuilder.Builder. Resolution
// failures surface as adapter errors so the dashboard can drop the card
// link instead of rendering a broken module URL.
type Adapter struct {
	Resolver urlkit.Resolver
}

// New builds a new Adapter for the provided resolver.
func New(resolver urlkit.Resolver) Adapter {
	return Adapter{Resolver: resolver}
}

// Resolve implements urlbuilder.Builder, mapping a dashboard route group
// and route name onto the registered urlkit routes.
func (a Adapter) Resolve(groupPath, route string, params map[string]any, query map[string]string) (string, error) {
	if a.Resolver == nil {
		return "", fgerrors.WrapSentinel(fgerrors.ErrResolverRequired, "urlkitadapter: resolver is required", map[string]any{
			fgerrors.MetaAdapter:   "urlkit",
			fgerrors.MetaOperation: "resolve",
		})
	}
	url, err := a.Resolver.Resolve(groupPath, route, params, query)
	if err != nil {
		return "", fgerrors.WrapExternal(err, fgerrors.TextCodeAdapterFailed, "urlkitadapter: resolve failed", map[string]any{
			fgerrors.MetaAdapter:   "urlkit",
			fgerrors.MetaOperation: "resolve",
		})
	}
	return url, nil
}

var _ urlbuilder.Builder = Adapter{}
