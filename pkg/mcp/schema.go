package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var schemaReflector = jsonschema.Reflector{
	DoNotReference:             true,
	AllowAdditionalProperties:  false,
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
}

// InputSchema is the object schema advertised for a tool's arguments.
type InputSchema struct {
	Type                 string         `json:"type"`
	Properties           map[string]any `json:"properties"`
	Required             []string       `json:"required,omitempty"`
	AdditionalProperties bool           `json:"additionalProperties"`
}

// schemaFor reflects an argument struct into an InputSchema.
func schemaFor(args any) (InputSchema, error) {
	raw, err := json.Marshal(schemaReflector.Reflect(args))
	if err != nil {
		return InputSchema{}, fmt.Errorf("marshal schema: %w", err)
	}
	var s InputSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		return InputSchema{}, fmt.Errorf("decode schema: %w", err)
	}
	if s.Type == "" {
		s.Type = "object"
	}
	if s.Properties == nil {
		s.Properties = map[string]any{}
	}
	return s, nil
}

func mustTool(name, description string, args any) ToolDefinition {
	schema, err := schemaFor(args)
	if err != nil {
		panic(fmt.Sprintf("mcp: tool %s: %v", name, err))
	}
	return ToolDefinition{Name: name, Description: description, InputSchema: schema}
}
