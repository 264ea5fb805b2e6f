package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// GenerateJSON calls g with req and decodes the reply into T. A reply that
// does not decode is reported as an ErrMalformed call failure of g.
func GenerateJSON[T any](ctx context.Context, g Generator, req GenerateRequest) (T, error) {
	var out T
	raw, err := g.Generate(ctx, req)
	if err != nil {
		return out, Fail(g.Name(), err)
	}
	if err := DecodeJSON(raw, &out); err != nil {
		return out, Fail(g.Name(), fmt.Errorf("%w: %v", ErrMalformed, err))
	}
	return out, nil
}

// DecodeJSON unmarshals model output, tolerating markdown code fences and
// text around a single top-level JSON object.
func DecodeJSON(raw string, v any) error {
	s := cleanFences(raw)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object found in output (len=%d)", len(s))
	}
	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}

func cleanFences(response string) string {
	cleaned := strings.TrimSpace(response)
	switch {
	case strings.HasPrefix(cleaned, "```json"):
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	case strings.HasPrefix(cleaned, "```"):
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	return strings.TrimSpace(cleaned)
}

// SchemaFor reflects a strict JSON schema for T. It panics if T cannot be
// reflected, so call it while initializing package state.
func SchemaFor[T any](name, description string) *Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	b, err := reflector.Reflect(v).MarshalJSON()
	if err != nil {
		panic(fmt.Errorf("reflect schema %s: %w", name, err))
	}
	var def map[string]any
	if err := json.Unmarshal(b, &def); err != nil {
		panic(fmt.Errorf("decode schema %s: %w", name, err))
	}
	delete(def, "$schema")
	delete(def, "$id")
	strictObjects(def)

	return &Schema{Name: name, Description: description, Definition: def}
}

// strictObjects closes every object and marks all its properties required,
// which structured outputs demand.
func strictObjects(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Strings(required)
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				strictObjects(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		strictObjects(items)
	}
}
