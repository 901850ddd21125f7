package resolver

import (
	"context"

	"github.com/goliatone/go-fieldgate/activity"
	"github.com/goliatone/go-fieldgate/cache"
	"github.com/goliatone/go-fieldgate/fgerrors"
	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/profile"
	"github.com/goliatone/go-fieldgate/rules"
)

// ErrInvalidModule signals an empty module key.
var ErrInvalidModule = fgerrors.ErrInvalidModule

// ErrRuleStoreUnavailable signals a missing runtime rule store.
var ErrRuleStoreUnavailable = fgerrors.ErrRuleStoreUnavailable

// Resolver answers role/module/field visibility queries. Lookups are
// fail-open: no matching rule, or no recognized role, resolves to visible.
// Fail-closed handling for missing roles belongs to callers (see guard).
type Resolver struct {
	static          *rules.StaticRules
	store           rules.Reader
	writer          rules.Writer
	profileResolver mask.ProfileResolver
	cache           cache.Cache
	hooks           []mask.ResolveHook
	updateHooks     []activity.Hook
	strictStore     bool
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithStaticRules sets the immutable hide-rule set loaded at startup.
func WithStaticRules(static *rules.StaticRules) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.static = static
	}
}

// WithRuleStore sets the runtime rule reader.
func WithRuleStore(reader rules.Reader) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.store = reader
		if writer, ok := reader.(rules.Writer); ok {
			r.writer = writer
		}
	}
}

// WithRuleWriter sets the runtime rule writer.
func WithRuleWriter(writer rules.Writer) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.writer = writer
	}
}

// WithProfileResolver overrides profile derivation.
func WithProfileResolver(resolver mask.ProfileResolver) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.profileResolver = resolver
	}
}

// WithCache sets the cache implementation.
func WithCache(c cache.Cache) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.cache = c
	}
}

// WithResolveHook registers a resolve hook.
func WithResolveHook(hook mask.ResolveHook) Option {
	return func(r *Resolver) {
		if r == nil || hook == nil {
			return
		}
		r.hooks = append(r.hooks, hook)
	}
}

// WithActivityHook registers an update hook.
func WithActivityHook(hook activity.Hook) Option {
	return func(r *Resolver) {
		if r == nil || hook == nil {
			return
		}
		r.updateHooks = append(r.updateHooks, hook)
	}
}

// WithStrictStore toggles strict rule-store resolution. In strict mode a
// store failure resolves hidden (fail closed) and surfaces the error;
// otherwise resolution falls through to the static rule set.
func WithStrictStore(strict bool) Option {
	return func(r *Resolver) {
		if r == nil {
			return
		}
		r.strictStore = strict
	}
}

// New constructs a Resolver with the provided options.
func New(options ...Option) *Resolver {
	r := &Resolver{
		static: rules.NewStatic(nil),
		cache:  cache.NoopCache{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.static == nil {
		r.static = rules.NewStatic(nil)
	}
	if r.cache == nil {
		r.cache = cache.NoopCache{}
	}
	return r
}

// ModuleHidden reports whether the whole module is hidden for the profile.
func (r *Resolver) ModuleHidden(ctx context.Context, module string, opts ...mask.ResolveOption) (bool, error) {
	hidden, _, err := r.resolve(ctx, module, "", opts...)
	return hidden, err
}

// FieldHidden reports whether a field is hidden for the profile. A
// module-wide rule hides every field in the module regardless of
// field-level rules.
func (r *Resolver) FieldHidden(ctx context.Context, module, field string, opts ...mask.ResolveOption) (bool, error) {
	hidden, _, err := r.resolve(ctx, module, field, opts...)
	return hidden, err
}

// FieldHiddenWithTrace resolves a field and returns trace data.
func (r *Resolver) FieldHiddenWithTrace(ctx context.Context, module, field string, opts ...mask.ResolveOption) (bool, mask.ResolveTrace, error) {
	return r.resolve(ctx, module, field, opts...)
}

// ModuleHiddenWithTrace resolves a module and returns trace data.
func (r *Resolver) ModuleHiddenWithTrace(ctx context.Context, module string, opts ...mask.ResolveOption) (bool, mask.ResolveTrace, error) {
	return r.resolve(ctx, module, "", opts...)
}

// SetRule stores a runtime rule. Module-wide mutations clear the cache
// since they shadow every field decision in the module.
func (r *Resolver) SetRule(ctx context.Context, key mask.RuleKey, hidden bool, actor mask.ActorRef) error {
	normalized, err := r.mutableKey(key, "set")
	if err != nil {
		return err
	}
	if err := r.writer.Set(ctx, normalized, hidden, actor); err != nil {
		return fgerrors.WrapExternal(err, fgerrors.TextCodeStoreWriteFailed, "rule store set failed", map[string]any{
			fgerrors.MetaRole:      normalized.Role,
			fgerrors.MetaModule:    normalized.Module,
			fgerrors.MetaField:     normalized.Field,
			fgerrors.MetaStore:     "rules",
			fgerrors.MetaOperation: "set",
		})
	}
	r.invalidate(ctx, normalized)
	r.emitUpdate(ctx, activity.UpdateEvent{
		Key:    normalized,
		Actor:  actor,
		Action: activity.ActionSet,
		Hidden: boolPtr(hidden),
	})
	return nil
}

// UnsetRule clears a runtime rule.
func (r *Resolver) UnsetRule(ctx context.Context, key mask.RuleKey, actor mask.ActorRef) error {
	normalized, err := r.mutableKey(key, "unset")
	if err != nil {
		return err
	}
	if err := r.writer.Unset(ctx, normalized, actor); err != nil {
		return fgerrors.WrapExternal(err, fgerrors.TextCodeStoreWriteFailed, "rule store unset failed", map[string]any{
			fgerrors.MetaRole:      normalized.Role,
			fgerrors.MetaModule:    normalized.Module,
			fgerrors.MetaField:     normalized.Field,
			fgerrors.MetaStore:     "rules",
			fgerrors.MetaOperation: "unset",
		})
	}
	r.invalidate(ctx, normalized)
	r.emitUpdate(ctx, activity.UpdateEvent{
		Key:    normalized,
		Actor:  actor,
		Action: activity.ActionUnset,
		Hidden: nil,
	})
	return nil
}

func (r *Resolver) mutableKey(key mask.RuleKey, operation string) (mask.RuleKey, error) {
	meta := map[string]any{
		fgerrors.MetaRole:      key.Role,
		fgerrors.MetaModule:    key.Module,
		fgerrors.MetaField:     key.Field,
		fgerrors.MetaOperation: operation,
	}
	if r.writer == nil {
		return mask.RuleKey{}, fgerrors.WrapSentinel(fgerrors.ErrRuleStoreUnavailable, "", meta)
	}
	role, ok := mask.ParseRole(string(key.Role))
	if !ok {
		return mask.RuleKey{}, fgerrors.WrapSentinel(fgerrors.ErrInvalidRole, "", meta)
	}
	module := mask.NormalizeModule(key.Module)
	if module == "" {
		return mask.RuleKey{}, fgerrors.WrapSentinel(fgerrors.ErrInvalidModule, "", meta)
	}
	return mask.RuleKey{Role: role, Module: module, Field: mask.NormalizeField(key.Field)}, nil
}

func (r *Resolver) resolve(ctx context.Context, module, field string, opts ...mask.ResolveOption) (bool, mask.ResolveTrace, error) {
	normalized := mask.NormalizeModule(module)
	prof := r.resolveProfile(ctx, opts...)
	trace := mask.ResolveTrace{
		Role:       prof.Role,
		Module:     module,
		ModuleNorm: normalized,
		Field:      mask.NormalizeField(field),
	}
	if normalized == "" {
		err := fgerrors.WrapSentinel(fgerrors.ErrInvalidModule, "", map[string]any{
			fgerrors.MetaModule:    module,
			fgerrors.MetaOperation: "resolve",
		})
		trace.Source = mask.ResolveSourceFallback
		r.emitResolve(ctx, trace, err)
		return false, trace, err
	}

	// Unknown or absent role: no rule can match, resolve visible.
	if !prof.Role.Known() {
		trace.Source = mask.ResolveSourceFallback
		r.emitResolve(ctx, trace, nil)
		return false, trace, nil
	}

	fieldKey := mask.RuleKey{Role: prof.Role, Module: normalized, Field: trace.Field}
	if entry, ok := r.cache.Get(ctx, fieldKey); ok {
		cached := entry.Trace
		cached.Role = prof.Role
		cached.Module = module
		cached.ModuleNorm = normalized
		cached.Field = trace.Field
		cached.Hidden = entry.Hidden
		cached.CacheHit = true
		r.emitResolve(ctx, cached, nil)
		return entry.Hidden, cached, nil
	}

	moduleKey := mask.RuleKey{Role: prof.Role, Module: normalized}
	moduleHidden, moduleErr := r.resolveLevel(ctx, moduleKey, &trace.ModuleRule, &trace)
	if moduleErr != nil {
		trace.Hidden = true
		trace.Source = mask.ResolveSourceFallback
		r.emitResolve(ctx, trace, moduleErr)
		return true, trace, moduleErr
	}
	if moduleHidden {
		trace.Hidden = true
		r.writeCache(ctx, fieldKey, trace)
		r.emitResolve(ctx, trace, nil)
		return true, trace, nil
	}

	if trace.Field != "" {
		fieldHidden, fieldErr := r.resolveLevel(ctx, fieldKey, &trace.FieldRule, &trace)
		if fieldErr != nil {
			trace.Hidden = true
			trace.Source = mask.ResolveSourceFallback
			r.emitResolve(ctx, trace, fieldErr)
			return true, trace, fieldErr
		}
		trace.Hidden = fieldHidden
	}

	if trace.Source == "" {
		trace.Source = mask.ResolveSourceFallback
	}
	r.writeCache(ctx, fieldKey, trace)
	r.emitResolve(ctx, trace, nil)
	return trace.Hidden, trace, nil
}

// resolveLevel resolves one rule key through the store layer, then the
// static layer. A concrete store decision wins over static configuration.
func (r *Resolver) resolveLevel(ctx context.Context, key mask.RuleKey, ruleTrace *mask.RuleTrace, trace *mask.ResolveTrace) (bool, error) {
	if r.store != nil {
		decision, err := r.store.Get(ctx, key)
		if err != nil {
			storeErr := fgerrors.WrapExternal(err, fgerrors.TextCodeStoreReadFailed, "rule store read failed", map[string]any{
				fgerrors.MetaRole:      key.Role,
				fgerrors.MetaModule:    key.Module,
				fgerrors.MetaField:     key.Field,
				fgerrors.MetaStore:     "rules",
				fgerrors.MetaOperation: "get",
				fgerrors.MetaStrict:    r.strictStore,
			})
			ruleTrace.State = mask.RuleStateMissing
			ruleTrace.Error = storeErr
			if r.strictStore {
				return true, storeErr
			}
		} else {
			if decision.State == "" {
				decision.State = mask.RuleStateMissing
			}
			ruleTrace.State = decision.State
			if decision.HasValue() {
				hidden := decision.Hidden()
				ruleTrace.Value = boolPtr(hidden)
				trace.Source = mask.ResolveSourceStore
				return hidden, nil
			}
		}
	} else {
		ruleTrace.State = mask.RuleStateMissing
	}

	if r.static.Hidden(key) {
		trace.Static.Matched = true
		trace.Static.Hidden = true
		trace.Source = mask.ResolveSourceStatic
		return true, nil
	}
	return false, nil
}

func (r *Resolver) resolveProfile(ctx context.Context, opts ...mask.ResolveOption) mask.Profile {
	req := mask.ResolveRequest{}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	if req.Profile != nil {
		return *req.Profile
	}
	if r.profileResolver != nil {
		if prof, err := r.profileResolver.Resolve(ctx); err == nil {
			return prof
		}
		return mask.Profile{}
	}
	prof, _ := profile.FromContext(ctx)
	return prof
}

func (r *Resolver) writeCache(ctx context.Context, key mask.RuleKey, trace mask.ResolveTrace) {
	if r.cache == nil {
		return
	}
	if trace.ModuleRule.Error != nil || trace.FieldRule.Error != nil {
		return
	}
	r.cache.Set(ctx, key, cache.Entry{
		Hidden: trace.Hidden,
		Trace:  trace,
	})
}

func (r *Resolver) invalidate(ctx context.Context, key mask.RuleKey) {
	if r.cache == nil {
		return
	}
	if key.ModuleWide() {
		r.cache.Clear(ctx)
		return
	}
	r.cache.Delete(ctx, key)
}

func (r *Resolver) emitResolve(ctx context.Context, trace mask.ResolveTrace, err error) {
	if len(r.hooks) == 0 {
		return
	}
	event := mask.ResolveEvent{
		Role:   trace.Role,
		Module: trace.Module,
		Field:  trace.Field,
		Hidden: trace.Hidden,
		Source: trace.Source,
		Error:  err,
		Trace:  trace,
	}
	for _, hook := range r.hooks {
		if hook == nil {
			continue
		}
		hook.OnResolve(ctx, event)
	}
}

func (r *Resolver) emitUpdate(ctx context.Context, event activity.UpdateEvent) {
	if len(r.updateHooks) == 0 {
		return
	}
	for _, hook := range r.updateHooks {
		if hook == nil {
			continue
		}
		hook.OnUpdate(ctx, event)
	}
}

func boolPtr(value bool) *bool {
	return &value
}

var _ mask.TraceableFieldMask = (*Resolver)(nil)
var _ mask.MutableFieldMask = (*Resolver)(nil)
