package llm

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects T into a strict Schema suitable for structured output:
// every object property is required and additional properties are denied.
func SchemaFor[T any](name, description string) (*Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	reflected := reflector.Reflect(v)

	raw, err := reflected.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal reflected schema: %w", err)
	}
	var def map[string]any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode reflected schema: %w", err)
	}
	// Providers reject the meta keys; validation compiles under its own URL.
	delete(def, "$schema")
	delete(def, "$id")
	makeStrict(def)

	return &Schema{Name: name, Description: description, Definition: def}, nil
}

// MustSchemaFor is SchemaFor for package-level schema variables.
func MustSchemaFor[T any](name, description string) *Schema {
	s, err := SchemaFor[T](name, description)
	if err != nil {
		panic(err)
	}
	return s
}

func makeStrict(def map[string]any) {
	if t, ok := def["type"].(string); ok && t == "object" {
		def["additionalProperties"] = false
		if props, ok := def["properties"].(map[string]any); ok {
			names := make([]string, 0, len(props))
			for name := range props {
				names = append(names, name)
			}
			sort.Strings(names)
			required := make([]any, len(names))
			for i, n := range names {
				required[i] = n
			}
			if len(required) > 0 {
				def["required"] = required
			}
		}
	}
	if props, ok := def["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				makeStrict(pm)
			}
		}
	}
	if items, ok := def["items"].(map[string]any); ok {
		makeStrict(items)
	}
}
