package mask

import "context"

// Role identifies an organizational actor type in the forwarding ERP.
type Role string

const (
	RoleOwner          Role = "owner"
	RoleDirector       Role = "director"
	RoleManager        Role = "manager"
	RoleFinance        Role = "finance"
	RoleOps            Role = "ops"
	RoleHR             Role = "hr"
	RoleAdministration Role = "administration"
	RoleMarketing      Role = "marketing"
	RoleViewer         Role = "viewer"
)

// Roles returns every known role in a stable order.
func Roles() []Role {
	return []Role{
		RoleOwner,
		RoleDirector,
		RoleManager,
		RoleFinance,
		RoleOps,
		RoleHR,
		RoleAdministration,
		RoleMarketing,
		RoleViewer,
	}
}

// ParseRole maps a raw role string to a known Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(normalize(raw)) {
	case RoleOwner:
		return RoleOwner, true
	case RoleDirector:
		return RoleDirector, true
	case RoleManager:
		return RoleManager, true
	case RoleFinance:
		return RoleFinance, true
	case RoleOps:
		return RoleOps, true
	case RoleHR:
		return RoleHR, true
	case RoleAdministration:
		return RoleAdministration, true
	case RoleMarketing:
		return RoleMarketing, true
	case RoleViewer:
		return RoleViewer, true
	default:
		return "", false
	}
}

// Known reports whether the role is one of the enumerated roles.
func (r Role) Known() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Profile carries the authenticated actor handed to visibility checks.
// A zero Role means no authenticated role is available; callers enforcing
// security must treat that as hidden (see guard).
type Profile struct {
	Role   Role
	UserID string
	Branch string
}

// HasRole reports whether the profile carries a recognized role.
func (p Profile) HasRole() bool {
	return p.Role.Known()
}

// RuleKey addresses a visibility rule. An empty Field means the rule
// applies to the whole module.
type RuleKey struct {
	Role   Role
	Module string
	Field  string
}

// ModuleWide reports whether the key targets an entire module.
func (k RuleKey) ModuleWide() bool {
	return k.Field == ""
}

// ResolveOption mutates a resolve request.
type ResolveOption func(*ResolveRequest)

// ResolveRequest captures optional inputs for a resolve call.
type ResolveRequest struct {
	Profile *Profile
}

// WithProfile forces a specific profile instead of deriving it from context.
func WithProfile(p Profile) ResolveOption {
	return func(req *ResolveRequest) {
		if req == nil {
			return
		}
		req.Profile = &p
	}
}

// ProfileResolver derives a Profile from context.
type ProfileResolver interface {
	Resolve(ctx context.Context) (Profile, error)
}

// FieldMask answers visibility queries for the current profile.
type FieldMask interface {
	FieldHidden(ctx context.Context, module, field string, opts ...ResolveOption) (bool, error)
	ModuleHidden(ctx context.Context, module string, opts ...ResolveOption) (bool, error)
}

// TraceableFieldMask adds explainability for visibility resolution.
type TraceableFieldMask interface {
	FieldMask
	FieldHiddenWithTrace(ctx context.Context, module, field string, opts ...ResolveOption) (bool, ResolveTrace, error)
}

// MutableFieldMask supports runtime rule changes.
type MutableFieldMask interface {
	FieldMask
	SetRule(ctx context.Context, key RuleKey, hidden bool, actor ActorRef) error
	UnsetRule(ctx context.Context, key RuleKey, actor ActorRef) error
}

// ActorRef identifies the actor making a change to runtime rules.
type ActorRef struct {
	ID   string
	Type string
	Name string
}

// RuleState captures the tri-state status of a stored rule.
type RuleState string

const (
	RuleStateMissing RuleState = "missing"
	RuleStateHidden  RuleState = "hidden"
	RuleStateVisible RuleState = "visible"
	RuleStateUnset   RuleState = "unset"
)
