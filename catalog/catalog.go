package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-fieldgate/mask"
)

// Message represents a human-friendly string with optional localization data.
type Message struct {
	Key  string
	Text string
	Args map[string]any
}

// FieldDefinition describes a maskable attribute within a module.
type FieldDefinition struct {
	Key         string
	Description Message
}

// ModuleDefinition describes an ERP functional area for UI and documentation.
type ModuleDefinition struct {
	Key         string
	Description Message
	Fields      []FieldDefinition
}

// Catalog exposes module definitions by key.
type Catalog interface {
	Get(module string) (ModuleDefinition, bool)
	Field(module, field string) (FieldDefinition, bool)
	List() []ModuleDefinition
}

// MessageResolver resolves a Message to a display string.
type MessageResolver interface {
	Resolve(ctx context.Context, locale string, msg Message) (string, error)
}

// PlainResolver returns the Message text or key without localization.
type PlainResolver struct{}

// Resolve implements MessageResolver.
func (PlainResolver) Resolve(_ context.Context, _ string, msg Message) (string, error) {
	if msg.Text != "" {
		return msg.Text, nil
	}
	return msg.Key, nil
}

// StaticCatalog provides an in-memory module catalog.
type StaticCatalog struct {
	defs map[string]ModuleDefinition
}

// NewStatic builds an in-memory catalog from provided definitions.
func NewStatic(defs map[string]ModuleDefinition) *StaticCatalog {
	out := make(map[string]ModuleDefinition, len(defs))
	for key, def := range defs {
		normalized := mask.NormalizeModule(key)
		if normalized == "" {
			continue
		}
		def.Key = normalized
		def.Description = normalizeMessage(def.Description)
		def.Fields = normalizeFields(def.Fields)
		out[normalized] = def
	}
	return &StaticCatalog{defs: out}
}

// Get implements Catalog.
func (c *StaticCatalog) Get(module string) (ModuleDefinition, bool) {
	if c == nil || len(c.defs) == 0 {
		return ModuleDefinition{}, false
	}
	normalized := mask.NormalizeModule(module)
	if normalized == "" {
		return ModuleDefinition{}, false
	}
	def, ok := c.defs[normalized]
	return def, ok
}

// Field implements Catalog.
func (c *StaticCatalog) Field(module, field string) (FieldDefinition, bool) {
	def, ok := c.Get(module)
	if !ok {
		return FieldDefinition{}, false
	}
	normalized := mask.NormalizeField(field)
	if normalized == "" {
		return FieldDefinition{}, false
	}
	for _, candidate := range def.Fields {
		if candidate.Key == normalized {
			return candidate, true
		}
	}
	return FieldDefinition{}, false
}

// List implements Catalog.
func (c *StaticCatalog) List() []ModuleDefinition {
	if c == nil || len(c.defs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defs))
	for key := range c.defs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]ModuleDefinition, 0, len(keys))
	for _, key := range keys {
		out = append(out, c.defs[key])
	}
	return out
}

func normalizeMessage(msg Message) Message {
	msg.Key = strings.TrimSpace(msg.Key)
	msg.Text = strings.TrimSpace(msg.Text)
	if len(msg.Args) == 0 {
		msg.Args = nil
	}
	return msg
}

func normalizeFields(fields []FieldDefinition) []FieldDefinition {
	if len(fields) == 0 {
		return nil
	}
	out := make([]FieldDefinition, 0, len(fields))
	for _, field := range fields {
		key := mask.NormalizeField(field.Key)
		if key == "" {
			continue
		}
		field.Key = key
		field.Description = normalizeMessage(field.Description)
		out = append(out, field)
	}
	return out
}
