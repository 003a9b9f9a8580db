package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "schema.json"

// Schema wraps a compiled JSON Schema used for input validation.
type Schema struct {
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

// NewSchema compiles a schema from raw JSON.
func NewSchema(raw json.RawMessage) (Schema, error) {
	s := Schema{raw: raw}
	if s.IsEmpty() {
		return s, nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, bytes.NewReader(raw)); err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	s.compiled = compiled
	return s, nil
}

// EmptySchema returns a schema that accepts any input.
func EmptySchema() Schema {
	return Schema{raw: json.RawMessage(`{}`)}
}

// ObjectSchema returns a schema for an object with the given properties.
func ObjectSchema(properties map[string]json.RawMessage, required []string) (Schema, error) {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return NewSchema(raw)
}

// StringProperty returns a string property schema. A positive length pins
// the value to exactly that many characters.
func StringProperty(description string, length int) json.RawMessage {
	prop := map[string]any{
		"type":        "string",
		"description": description,
	}
	if length > 0 {
		prop["minLength"] = length
		prop["maxLength"] = length
	}
	raw, _ := json.Marshal(prop)
	return raw
}

// Raw returns the underlying JSON schema.
func (s Schema) Raw() json.RawMessage {
	if s.raw == nil {
		return json.RawMessage(`{}`)
	}
	return s.raw
}

// IsEmpty returns true if the schema is empty or nil.
func (s Schema) IsEmpty() bool {
	return len(s.raw) == 0 || string(s.raw) == "{}" || string(s.raw) == "null"
}

// Validate validates data against the schema.
func (s Schema) Validate(data json.RawMessage) error {
	if s.compiled == nil {
		return nil
	}

	var v any
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("input is not valid JSON: %w", err)
		}
	}
	return s.compiled.Validate(v)
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	return s.Raw(), nil
}
