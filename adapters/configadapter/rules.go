package configadapter

import (
	"github.com/goliatone/go-config/config"

	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/rules"
)

type configOptions struct {
	delimiter string
}

// Option configures configadapter parsing.
type Option func(*configOptions)

// WithDelimiter sets the key delimiter used when flattening nested maps.
func WithDelimiter(delimiter string) Option {
	return func(cfg *configOptions) {
		if cfg == nil {
			return
		}
		cfg.delimiter = delimiter
	}
}

// NewStaticRules builds an immutable hide-rule set from a nested map of
// role -> module -> bool (module-wide) or role -> module -> field -> bool.
// Boolean values may be plain bools or go-config OptionalBool; only set,
// true values produce a hide rule.
func NewStaticRules(data map[string]any, opts ...Option) *rules.StaticRules {
	keys := []mask.RuleKey{}
	for rawRole, modules := range data {
		role, ok := mask.ParseRole(rawRole)
		if !ok {
			continue
		}
		moduleMap, ok := toMap(modules)
		if !ok {
			continue
		}
		for rawModule, value := range moduleMap {
			module := mask.NormalizeModule(rawModule)
			if module == "" {
				continue
			}
			if fieldMap, ok := toMap(value); ok {
				for rawField, fieldValue := range fieldMap {
					field := mask.NormalizeField(rawField)
					if field == "" {
						continue
					}
					if hidden, ok := boolFromValue(fieldValue); ok && hidden {
						keys = append(keys, mask.RuleKey{Role: role, Module: module, Field: field})
					}
				}
				continue
			}
			if hidden, ok := boolFromValue(value); ok && hidden {
				keys = append(keys, mask.RuleKey{Role: role, Module: module})
			}
		}
	}
	return rules.NewStatic(keys)
}

type optionalBool interface {
	IsSet() bool
	Value() bool
}

func boolFromValue(value any) (bool, bool) {
	switch typed := value.(type) {
	case optionalBool:
		return typed.Value(), typed.IsSet()
	case config.OptionalBool:
		return typed.Value(), typed.IsSet()
	case *config.OptionalBool:
		if typed == nil {
			return false, false
		}
		return typed.Value(), typed.IsSet()
	case bool:
		return typed, true
	case *bool:
		if typed == nil {
			return false, false
		}
		return *typed, true
	default:
		return false, false
	}
}

func toMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case map[string]bool:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = item
		}
		return out, true
	default:
		return nil, false
	}
}
