package routeradapter

import (
	"context"

	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/mask/guard"
	"github.com/goliatone/go-fieldgate/profile"
	"github.com/goliatone/go-router"
)

// Context extracts the standard context from a router context.
func Context(ctx router.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx.Context()
}

// Profile derives a visibility profile from a router context. The
// second return is false when no recognized role is present.
func Profile(ctx router.Context) (mask.Profile, bool) {
	return profile.FromContext(Context(ctx))
}

// WithRouterContext returns a resolve option carrying the profile
// derived from the router context.
func WithRouterContext(ctx router.Context) mask.ResolveOption {
	prof, _ := Profile(ctx)
	return mask.WithProfile(prof)
}

// RequireModule denies access unless the router context carries a role
// allowed to see the module. Missing or unrecognized roles are denied.
func RequireModule(ctx router.Context, resolver mask.FieldMask, module string, opts ...guard.Option) error {
	return guard.RequireModule(Context(ctx), resolver, module, opts...)
}

// RequireField denies access unless the router context carries a role
// allowed to see the field.
func RequireField(ctx router.Context, resolver mask.FieldMask, module, field string, opts ...guard.Option) error {
	return guard.RequireField(Context(ctx), resolver, module, field, opts...)
}
