package optionsadapter

import (
	"context"
	"fmt"
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-fieldgate/fgerrors"
	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/profile"
	"github.com/goliatone/go-fieldgate/rules"
)

const (
	prioritySystem = 10
	priorityBranch = 20
)

// DefaultDomain is the default options domain used for visibility rules.
const DefaultDomain = "visibility_rules"

// moduleLeaf stores a module-wide rule under the module node so it can
// coexist with per-field rules.
const moduleLeaf = "_module"

// ErrStoreRequired indicates the underlying state store is missing.
var ErrStoreRequired = fgerrors.ErrStoreRequired

// ScopeBuilder maps a branch identifier into go-options scopes ordered by precedence.
type ScopeBuilder func(branch string) []opts.Scope

// MetaBuilder builds storage metadata from an actor reference.
type MetaBuilder func(actor mask.ActorRef) state.Meta

// Option customizes the Store adapter.
type Option func(*Store)

// Store adapts a go-options state.Store into a runtime rule store.
// Branch-scoped rules take precedence over system-wide ones; the branch
// is read from the request context.
type Store struct {
	stateStore state.Store[map[string]any]
	domain     string
	scopes     ScopeBuilder
	meta       MetaBuilder
}

// NewStore constructs an adapter backed by a go-options state.Store.
func NewStore(stateStore state.Store[map[string]any], opts ...Option) *Store {
	adapter := &Store{
		stateStore: stateStore,
		domain:     DefaultDomain,
		scopes:     defaultScopes,
		meta:       defaultMeta,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.domain == "" {
		adapter.domain = DefaultDomain
	}
	if adapter.scopes == nil {
		adapter.scopes = defaultScopes
	}
	if adapter.meta == nil {
		adapter.meta = defaultMeta
	}
	return adapter
}

// WithDomain sets the options domain used for visibility rules.
func WithDomain(domain string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.domain = strings.TrimSpace(domain)
	}
}

// WithScopeBuilder overrides the default scope mapping.
func WithScopeBuilder(builder ScopeBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.scopes = builder
	}
}

// WithMetaBuilder overrides the metadata builder used on mutations.
func WithMetaBuilder(builder MetaBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.meta = builder
	}
}

// Get implements rules.Reader.
func (s *Store) Get(ctx context.Context, key mask.RuleKey) (rules.Decision, error) {
	if s == nil || s.stateStore == nil {
		domain := ""
		if s != nil {
			domain = s.domain
		}
		return rules.MissingDecision(), storeRequiredError(key, "get", domain)
	}
	path, err := s.rulePath(key, "get")
	if err != nil {
		return rules.MissingDecision(), err
	}

	scopes := s.scopes(profile.Branch(ctx))
	if len(scopes) == 0 {
		return rules.MissingDecision(), nil
	}

	for _, scopeDef := range scopes {
		snapshot, _, ok, err := s.stateStore.Load(ctx, state.Ref{Domain: s.domain, Scope: scopeDef})
		if err != nil {
			meta := storeMeta(scopeDef, "load", s.domain)
			meta[fgerrors.MetaPath] = path
			return rules.MissingDecision(), fgerrors.WrapExternal(err, fgerrors.TextCodeStoreReadFailed, "optionsadapter: load failed", meta)
		}
		if !ok || len(snapshot) == 0 {
			continue
		}
		if value, found := lookupPath(snapshot, path); found {
			return decisionFromValue(path, value, scopeDef, s.domain)
		}
	}

	return rules.MissingDecision(), nil
}

// Set implements rules.Writer.
func (s *Store) Set(ctx context.Context, key mask.RuleKey, hidden bool, actor mask.ActorRef) error {
	if s == nil || s.stateStore == nil {
		domain := ""
		if s != nil {
			domain = s.domain
		}
		return storeRequiredError(key, "set", domain)
	}
	path, err := s.rulePath(key, "set")
	if err != nil {
		return err
	}

	ref := s.writeRef(profile.Branch(ctx))
	resolver := state.Resolver[map[string]any]{Store: s.stateStore}
	_, _, err = resolver.Mutate(ctx, ref, s.meta(actor), func(snapshot *map[string]any) error {
		if snapshot == nil {
			return fgerrors.NewInternal(fgerrors.TextCodeStoreWriteFailed, "optionsadapter: snapshot is nil", storeMeta(ref.Scope, "set", s.domain))
		}
		if *snapshot == nil {
			*snapshot = map[string]any{}
		}
		return setPath(*snapshot, path, hidden)
	})
	if err != nil {
		meta := storeMeta(ref.Scope, "set", s.domain)
		meta[fgerrors.MetaPath] = path
		return fgerrors.WrapExternal(err, fgerrors.TextCodeStoreWriteFailed, "optionsadapter: set failed", meta)
	}
	return nil
}

// Unset implements rules.Writer. The rule is removed from the snapshot
// so static defaults apply again.
func (s *Store) Unset(ctx context.Context, key mask.RuleKey, actor mask.ActorRef) error {
	if s == nil || s.stateStore == nil {
		domain := ""
		if s != nil {
			domain = s.domain
		}
		return storeRequiredError(key, "unset", domain)
	}
	path, err := s.rulePath(key, "unset")
	if err != nil {
		return err
	}

	ref := s.writeRef(profile.Branch(ctx))
	resolver := state.Resolver[map[string]any]{Store: s.stateStore}
	_, _, err = resolver.Mutate(ctx, ref, s.meta(actor), func(snapshot *map[string]any) error {
		if snapshot == nil {
			return fgerrors.NewInternal(fgerrors.TextCodeStoreWriteFailed, "optionsadapter: snapshot is nil", storeMeta(ref.Scope, "unset", s.domain))
		}
		if *snapshot == nil {
			*snapshot = map[string]any{}
		}
		deletePath(*snapshot, path)
		return nil
	})
	if err != nil {
		meta := storeMeta(ref.Scope, "unset", s.domain)
		meta[fgerrors.MetaPath] = path
		return fgerrors.WrapExternal(err, fgerrors.TextCodeStoreWriteFailed, "optionsadapter: unset failed", meta)
	}
	return nil
}

func (s *Store) rulePath(key mask.RuleKey, operation string) (string, error) {
	role := key.Role
	if !role.Known() {
		return "", fgerrors.WrapSentinel(fgerrors.ErrInvalidRole, "optionsadapter: unknown role", map[string]any{
			fgerrors.MetaAdapter:   "options",
			fgerrors.MetaOperation: operation,
			fgerrors.MetaRole:      string(key.Role),
		})
	}
	module := mask.NormalizeModule(key.Module)
	if module == "" {
		return "", fgerrors.WrapSentinel(fgerrors.ErrInvalidModule, "optionsadapter: module key required", map[string]any{
			fgerrors.MetaAdapter:   "options",
			fgerrors.MetaOperation: operation,
			fgerrors.MetaModule:    key.Module,
		})
	}
	field := mask.NormalizeField(key.Field)
	if field == "" {
		field = moduleLeaf
	}
	return string(role) + "." + module + "." + field, nil
}

func (s *Store) writeRef(branch string) state.Ref {
	return state.Ref{Domain: s.domain, Scope: writeScope(branch)}
}

func defaultScopes(branch string) []opts.Scope {
	var scopes []opts.Scope
	if branch != "" {
		scopes = append(scopes, scoped("branch", "Branch", priorityBranch, profile.MetadataBranch, branch))
	}
	scopes = append(scopes, scoped("system", "System", prioritySystem, "", ""))
	return scopes
}

func writeScope(branch string) opts.Scope {
	if branch != "" {
		return scoped("branch", "Branch", priorityBranch, profile.MetadataBranch, branch)
	}
	return scoped("system", "System", prioritySystem, "", "")
}

func scoped(name, label string, priority int, metadataKey, metadataValue string) opts.Scope {
	var metadata map[string]any
	if metadataKey != "" && metadataValue != "" {
		metadata = map[string]any{metadataKey: metadataValue}
	}
	return opts.NewScope(
		name,
		priority,
		opts.WithScopeLabel(label),
		opts.WithScopeMetadata(metadata),
	)
}

func defaultMeta(actor mask.ActorRef) state.Meta {
	extra := map[string]string{}
	if actor.ID != "" {
		extra["actor_id"] = actor.ID
	}
	if actor.Type != "" {
		extra["actor_type"] = actor.Type
	}
	if actor.Name != "" {
		extra["actor_name"] = actor.Name
	}
	if len(extra) == 0 {
		return state.Meta{}
	}
	return state.Meta{Extra: extra}
}

func decisionFromValue(path string, value any, scopeDef opts.Scope, domain string) (rules.Decision, error) {
	switch typed := value.(type) {
	case nil:
		return rules.UnsetDecision(), nil
	case bool:
		if typed {
			return rules.HiddenDecision(), nil
		}
		return rules.VisibleDecision(), nil
	case *bool:
		if typed == nil {
			return rules.UnsetDecision(), nil
		}
		if *typed {
			return rules.HiddenDecision(), nil
		}
		return rules.VisibleDecision(), nil
	default:
		meta := storeMeta(scopeDef, "decode", domain)
		meta[fgerrors.MetaPath] = path
		return rules.MissingDecision(), fgerrors.NewExternal(fgerrors.TextCodeRuleTypeInvalid, fmt.Sprintf("optionsadapter: unsupported rule type %T", value), meta)
	}
}

var _ rules.ReadWriter = (*Store)(nil)

func storeRequiredError(key mask.RuleKey, operation, domain string) error {
	return fgerrors.WrapSentinel(fgerrors.ErrStoreRequired, "optionsadapter: state store is required", map[string]any{
		fgerrors.MetaAdapter:   "options",
		fgerrors.MetaStore:     "state",
		fgerrors.MetaDomain:    strings.TrimSpace(domain),
		fgerrors.MetaOperation: operation,
		fgerrors.MetaRole:      string(key.Role),
		fgerrors.MetaModule:    key.Module,
		fgerrors.MetaField:     key.Field,
	})
}

func storeMeta(scopeDef opts.Scope, operation, domain string) map[string]any {
	meta := map[string]any{
		fgerrors.MetaAdapter:   "options",
		fgerrors.MetaStore:     "state",
		fgerrors.MetaOperation: operation,
		"scope":                scopeDef.Name,
	}
	if strings.TrimSpace(domain) != "" {
		meta[fgerrors.MetaDomain] = strings.TrimSpace(domain)
	}
	return meta
}
