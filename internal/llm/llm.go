// Package llm defines the contract between the assistant session and a
// hosted generative model. Backends live in sibling packages and classify
// their failures with internal/apperrors.
package llm

import "context"

// Model produces one completion per call. Implementations must not retry.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request is a single prompt. When Structured is set the backend asks the
// service for a JSON object, constrained by Schema if one is given.
type Request struct {
	Prompt     string
	Structured bool
	Schema     *Schema
}

type Response struct {
	Text  string
	Usage Usage
}

type Usage struct {
	PromptTokens int
	OutputTokens int
	TotalTokens  int
}

type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeString SchemaType = "string"
)

// Schema is the small subset of JSON Schema both backends understand.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// Required also fixes the property order.
	Required []string
}

// StringObject builds an object schema whose listed fields are all
// required strings.
func StringObject(fields ...Field) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.Name] = &Schema{Type: TypeString, Description: f.Description}
		s.Required = append(s.Required, f.Name)
	}
	return s
}

type Field struct {
	Name        string
	Description string
}

// JSONSchema renders the schema as a strict JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
		required := s.Required
		if required == nil {
			required = []string{}
		}
		out["required"] = required
		out["additionalProperties"] = false
	}
	return out
}
