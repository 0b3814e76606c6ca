// Package jsonschema validates decoded response bodies against JSON Schema
// documents compiled once and reused across requests.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema. It is safe for concurrent use.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile compiles a schema from its JSON text.
func Compile(schema string) (*Schema, error) {
	return compile([]byte(schema))
}

// CompileValue compiles a schema given as a decoded value, such as a
// mapping read from a YAML config file.
func CompileValue(schema any) (*Schema, error) {
	encoded, err := json.Marshal(normalize(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return compile(encoded)
}

// CompileFile compiles the schema stored at path.
func CompileFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	return compile(data)
}

func compile(data []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks a decoded JSON value (as produced by encoding/json into
// an any) against the schema. A failure is returned as ValidationErrors with
// one entry per violated keyword.
func (s *Schema) Validate(v any) error {
	err := s.compiled.Validate(v)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return extractValidationErrors(verr)
	}
	return ValidationErrors{err}
}

// ValidateJSON decodes text and validates it.
func (s *Schema) ValidateJSON(text string) error {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return s.Validate(v)
}

// Validate validates a JSON string against a JSON Schema
// Returns true if the JSON is valid, false otherwise
// If there's an error in the schema or JSON parsing, it returns an error
func Validate(jsonStr, schemaStr string) (bool, error) {
	ok, errs := ValidateWithErrors(jsonStr, schemaStr)
	if ok {
		return true, nil
	}
	for _, err := range errs {
		var schemaErr *schemaFailure
		if errors.As(err, &schemaErr) {
			return false, schemaErr.err
		}
	}
	return false, nil
}

// ValidateWithErrors validates a JSON string against a JSON Schema and
// returns every violation when it does not match.
func ValidateWithErrors(jsonStr, schemaStr string) (bool, ValidationErrors) {
	schema, err := Compile(schemaStr)
	if err != nil {
		return false, ValidationErrors{&schemaFailure{err}}
	}
	if err := schema.ValidateJSON(jsonStr); err != nil {
		var errs ValidationErrors
		if errors.As(err, &errs) {
			return false, errs
		}
		return false, ValidationErrors{&schemaFailure{err}}
	}
	return true, nil
}

// schemaFailure marks problems with the inputs rather than the instance.
type schemaFailure struct{ err error }

func (f *schemaFailure) Error() string { return f.err.Error() }
func (f *schemaFailure) Unwrap() error { return f.err }

// extractValidationErrors flattens a jsonschema.ValidationError tree
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors

	if err.Message != "" && len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		errs = append(errs, fmt.Errorf("validation error at %s: %s", location, err.Message))
	}

	for _, cause := range err.Causes {
		errs = append(errs, extractValidationErrors(cause)...)
	}

	return errs
}

// normalize turns map[any]any values into map[string]any so they encode
// as JSON objects.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
