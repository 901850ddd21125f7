package rules

import (
	"sort"

	"github.com/goliatone/go-fieldgate/mask"
)

// StaticRules is an immutable hide-rule set loaded once at process start.
// Presence of a key means "hidden"; absence means "visible".
type StaticRules struct {
	entries map[mask.RuleKey]struct{}
}

// NewStatic builds an immutable rule set from the provided hide rules.
// Keys are normalized; empty modules and unknown roles are dropped.
func NewStatic(keys []mask.RuleKey) *StaticRules {
	entries := make(map[mask.RuleKey]struct{}, len(keys))
	for _, key := range keys {
		normalized, ok := normalizeKey(key)
		if !ok {
			continue
		}
		entries[normalized] = struct{}{}
	}
	return &StaticRules{entries: entries}
}

// Hidden reports whether an exact rule exists for the key.
func (s *StaticRules) Hidden(key mask.RuleKey) bool {
	if s == nil || len(s.entries) == 0 {
		return false
	}
	normalized, ok := normalizeKey(key)
	if !ok {
		return false
	}
	_, found := s.entries[normalized]
	return found
}

// Len returns the number of configured rules.
func (s *StaticRules) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Keys returns every configured rule key in a stable order.
func (s *StaticRules) Keys() []mask.RuleKey {
	if s == nil || len(s.entries) == 0 {
		return nil
	}
	out := make([]mask.RuleKey, 0, len(s.entries))
	for key := range s.entries {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func normalizeKey(key mask.RuleKey) (mask.RuleKey, bool) {
	role, ok := mask.ParseRole(string(key.Role))
	if !ok {
		return mask.RuleKey{}, false
	}
	module := mask.NormalizeModule(key.Module)
	if module == "" {
		return mask.RuleKey{}, false
	}
	return mask.RuleKey{
		Role:   role,
		Module: module,
		Field:  mask.NormalizeField(key.Field),
	}, true
}
