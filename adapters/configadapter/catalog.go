package configadapter

import (
	"sort"

	"github.com/goliatone/go-fieldgate/catalog"
	"github.com/goliatone/go-fieldgate/mask"
)

// NewCatalog builds a module catalog from a nested map. Values are either
// a description string or a map with description and fields keys, where
// fields maps field key to description.
func NewCatalog(data map[string]any) *catalog.StaticCatalog {
	defs := map[string]catalog.ModuleDefinition{}
	for rawModule, value := range data {
		module := mask.NormalizeModule(rawModule)
		if module == "" {
			continue
		}
		switch typed := value.(type) {
		case string:
			defs[module] = catalog.ModuleDefinition{
				Key:         module,
				Description: catalog.Message{Text: typed},
			}
		case map[string]any:
			defs[module] = definitionFromMap(module, typed)
		}
	}
	return catalog.NewStatic(defs)
}

func definitionFromMap(module string, data map[string]any) catalog.ModuleDefinition {
	def := catalog.ModuleDefinition{Key: module}
	if description := stringValue(data["description"]); description != "" {
		def.Description = catalog.Message{Text: description}
	}
	fields, ok := toMap(data["fields"])
	if !ok {
		return def
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fieldKey := mask.NormalizeField(key)
		if fieldKey == "" {
			continue
		}
		field := catalog.FieldDefinition{Key: fieldKey}
		if description := stringValue(fields[key]); description != "" {
			field.Description = catalog.Message{Text: description}
		}
		def.Fields = append(def.Fields, field)
	}
	return def
}
