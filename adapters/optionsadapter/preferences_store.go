package optionsadapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-admin/admin"
	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-fieldgate/profile"
)

// ErrPreferencesStoreRequired indicates a missing preferences store.
var ErrPreferencesStoreRequired = fmt.Errorf("optionsadapter: preferences store is required")

// PreferencesOption customizes the PreferencesStore adapter.
type PreferencesOption func(*PreferencesStoreAdapter)

// PreferencesStoreAdapter adapts go-admin PreferencesStore into a state.Store.
// It backs per-user dashboard preferences and branch or system wide
// visibility rules with the admin preferences tables. Branch scopes map to
// the org preference level, user scopes to the user level.
type PreferencesStoreAdapter struct {
	store     admin.PreferencesStore
	keyPrefix string
	keys      []string
}

// NewPreferencesStoreAdapter constructs a new adapter for PreferencesStore.
func NewPreferencesStoreAdapter(store admin.PreferencesStore, opts ...PreferencesOption) *PreferencesStoreAdapter {
	adapter := &PreferencesStoreAdapter{store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter
}

// WithKeyPrefix overrides the key prefix used for domain names.
func WithKeyPrefix(prefix string) PreferencesOption {
	return func(adapter *PreferencesStoreAdapter) {
		if adapter == nil {
			return
		}
		adapter.keyPrefix = strings.TrimSpace(prefix)
	}
}

// WithKeys restricts loads to the provided rule paths (without prefix).
func WithKeys(keys ...string) PreferencesOption {
	return func(adapter *PreferencesStoreAdapter) {
		if adapter == nil {
			return
		}
		adapter.keys = adapter.keys[:0]
		for _, key := range keys {
			if key = strings.TrimSpace(key); key != "" {
				adapter.keys = append(adapter.keys, key)
			}
		}
	}
}

// Load implements state.Store.
func (a *PreferencesStoreAdapter) Load(ctx context.Context, ref state.Ref) (map[string]any, state.Meta, bool, error) {
	if a == nil || a.store == nil {
		return nil, state.Meta{}, false, ErrPreferencesStoreRequired
	}
	level, prefScope, err := a.preferenceScope(ref.Scope)
	if err != nil {
		return nil, state.Meta{}, false, err
	}

	snapshot, err := a.store.Resolve(ctx, admin.PreferencesResolveInput{
		Scope:  prefScope,
		Levels: []admin.PreferenceLevel{level},
		Keys:   a.resolveKeys(ref.Domain),
	})
	if err != nil {
		return nil, state.Meta{}, false, err
	}

	prefix := a.prefix(ref.Domain)
	nested := map[string]any{}
	for key, value := range snapshot.Effective {
		path, matched := strings.CutPrefix(key, prefix)
		if !matched {
			continue
		}
		if err := setPath(nested, path, value); err != nil {
			return nil, state.Meta{}, false, err
		}
	}
	if len(nested) == 0 {
		return nil, state.Meta{}, false, nil
	}
	return nested, state.Meta{}, true, nil
}

// Save implements state.Store. Keys missing from the incoming snapshot but
// present in storage are deleted so unset rules do not linger.
func (a *PreferencesStoreAdapter) Save(ctx context.Context, ref state.Ref, snapshot map[string]any, _ state.Meta) (state.Meta, error) {
	if a == nil || a.store == nil {
		return state.Meta{}, ErrPreferencesStoreRequired
	}
	level, prefScope, err := a.preferenceScope(ref.Scope)
	if err != nil {
		return state.Meta{}, err
	}

	prefix := a.prefix(ref.Domain)
	flat := map[string]any{}
	flattenMap("", snapshot, flat)

	values := make(map[string]any, len(flat))
	for path, value := range flat {
		values[prefix+path] = value
	}

	var stale []string
	existing, _, found, err := a.Load(ctx, ref)
	if err != nil {
		return state.Meta{}, err
	}
	if found {
		existingFlat := map[string]any{}
		flattenMap("", existing, existingFlat)
		for path := range existingFlat {
			if _, keep := flat[path]; !keep {
				stale = append(stale, prefix+path)
			}
		}
	}

	if len(values) > 0 {
		if _, err := a.store.Upsert(ctx, admin.PreferencesUpsertInput{
			Scope:  prefScope,
			Level:  level,
			Values: values,
		}); err != nil {
			return state.Meta{}, err
		}
	}
	if len(stale) > 0 {
		if err := a.store.Delete(ctx, admin.PreferencesDeleteInput{
			Scope: prefScope,
			Level: level,
			Keys:  stale,
		}); err != nil {
			return state.Meta{}, err
		}
	}
	return state.Meta{}, nil
}

func (a *PreferencesStoreAdapter) preferenceScope(scopeDef opts.Scope) (admin.PreferenceLevel, admin.PreferenceScope, error) {
	switch scopeDef.Name {
	case "system":
		return admin.PreferenceLevelSystem, admin.PreferenceScope{}, nil
	case "branch":
		branch, err := scopeIdentifier(scopeDef, profile.MetadataBranch)
		if err != nil {
			return "", admin.PreferenceScope{}, err
		}
		return admin.PreferenceLevelOrg, admin.PreferenceScope{OrgID: branch}, nil
	case "user":
		userID, err := scopeIdentifier(scopeDef, profile.MetadataUserID)
		if err != nil {
			return "", admin.PreferenceScope{}, err
		}
		return admin.PreferenceLevelUser, admin.PreferenceScope{UserID: userID}, nil
	default:
		return "", admin.PreferenceScope{}, fmt.Errorf("optionsadapter: unsupported scope %q", scopeDef.Name)
	}
}

func scopeIdentifier(scopeDef opts.Scope, key string) (string, error) {
	raw, ok := scopeDef.Metadata[key]
	if !ok {
		return "", fmt.Errorf("optionsadapter: missing metadata key %q for scope %q", key, scopeDef.Name)
	}
	id, _ := raw.(string)
	if id = strings.TrimSpace(id); id == "" {
		return "", fmt.Errorf("optionsadapter: invalid metadata key %q for scope %q", key, scopeDef.Name)
	}
	return id, nil
}

// prefix returns the dotted key prefix for a domain, ending in a dot.
func (a *PreferencesStoreAdapter) prefix(domain string) string {
	raw := a.keyPrefix
	if raw == "" {
		raw = strings.TrimSpace(domain)
	}
	if raw == "" {
		return ""
	}
	return strings.TrimSuffix(raw, ".") + "."
}

func (a *PreferencesStoreAdapter) resolveKeys(domain string) []string {
	if len(a.keys) == 0 {
		return nil
	}
	prefix := a.prefix(domain)
	keys := make([]string, len(a.keys))
	for i, key := range a.keys {
		keys[i] = prefix + key
	}
	return keys
}

var _ state.Store[map[string]any] = (*PreferencesStoreAdapter)(nil)
