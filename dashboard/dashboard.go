package dashboard

import (
	"github.com/goliatone/go-fieldgate/fgerrors"
	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/urlbuilder"
)

// Route names a dashboard page inside a route group.
type Route struct {
	Group string
	Name  string
}

// DefaultGroup is the route group dashboards are registered under.
const DefaultGroup = "dashboards"

// RouteFor maps a role to its dashboard route. The switch is exhaustive
// over the enumerated roles so adding a role forces a decision here
// instead of silently falling through to a default view.
func RouteFor(role mask.Role) (Route, error) {
	switch role {
	case mask.RoleOwner:
		return Route{Group: DefaultGroup, Name: "owner"}, nil
	case mask.RoleDirector:
		return Route{Group: DefaultGroup, Name: "director"}, nil
	case mask.RoleManager:
		return Route{Group: DefaultGroup, Name: "manager"}, nil
	case mask.RoleFinance:
		return Route{Group: DefaultGroup, Name: "finance"}, nil
	case mask.RoleOps:
		return Route{Group: DefaultGroup, Name: "operations"}, nil
	case mask.RoleHR:
		return Route{Group: DefaultGroup, Name: "hr"}, nil
	case mask.RoleAdministration:
		return Route{Group: DefaultGroup, Name: "administration"}, nil
	case mask.RoleMarketing:
		return Route{Group: DefaultGroup, Name: "marketing"}, nil
	case mask.RoleViewer:
		return Route{Group: DefaultGroup, Name: "viewer"}, nil
	default:
		return Route{}, fgerrors.WrapSentinel(fgerrors.ErrInvalidRole, "", map[string]any{
			fgerrors.MetaRole:      role,
			fgerrors.MetaOperation: "dashboard_route",
		})
	}
}

// Dispatcher builds dashboard URLs for roles.
type Dispatcher struct {
	builder urlbuilder.Builder
	group   string
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithGroup overrides the route group used for dashboard URLs.
func WithGroup(group string) Option {
	return func(d *Dispatcher) {
		if d == nil {
			return
		}
		d.group = group
	}
}

// New constructs a Dispatcher over the provided URL builder.
func New(builder urlbuilder.Builder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		builder: builder,
		group:   DefaultGroup,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.group == "" {
		d.group = DefaultGroup
	}
	return d
}

// URL resolves the dashboard URL for a role.
func (d *Dispatcher) URL(role mask.Role, params map[string]any, query map[string]string) (string, error) {
	if d == nil || d.builder == nil {
		return "", fgerrors.WrapSentinel(fgerrors.ErrBuilderRequired, "", map[string]any{
			fgerrors.MetaOperation: "dashboard_url",
		})
	}
	route, err := RouteFor(role)
	if err != nil {
		return "", err
	}
	group := d.group
	if group == "" {
		group = route.Group
	}
	url, err := d.builder.Resolve(group, route.Name, params, query)
	if err != nil {
		return "", fgerrors.WrapExternal(err, fgerrors.TextCodeAdapterFailed, "dashboard url resolve failed", map[string]any{
			fgerrors.MetaRole:      role,
			fgerrors.MetaOperation: "dashboard_url",
		})
	}
	return url, nil
}
