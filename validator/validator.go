// Package validator provides ResponseValidator implementations for the
// strider HTTP client: status checks, JSON Schema conformance and JSONPath
// expectations, plus composition with All.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/pkg/jsonpath"
	"github.com/wesleyorama2/strider/pkg/jsonschema"
)

// Failure describes why a response was refused.
type Failure struct {
	// Check names the validator that failed: status, json, schema or jsonpath.
	Check string

	// Path is the JSONPath expression, when Check is jsonpath.
	Path string

	Message string
}

func (f *Failure) Error() string {
	if f.Path != "" {
		return fmt.Sprintf("%s %s: %s", f.Check, f.Path, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Check, f.Message)
}

// Status accepts responses whose status code is one of codes.
func Status(codes ...int) http.ResponseValidator {
	allowed := make(map[int]bool, len(codes))
	for _, code := range codes {
		allowed[code] = true
	}
	return http.ResponseValidatorFunc(func(r *http.Result) error {
		if allowed[r.Response.StatusCode] {
			return nil
		}
		return &Failure{
			Check:   "status",
			Message: fmt.Sprintf("got %d, want one of %v", r.Response.StatusCode, codes),
		}
	})
}

// Success accepts 2xx responses.
func Success() http.ResponseValidator {
	return http.ResponseValidatorFunc(func(r *http.Result) error {
		if r.Response.IsSuccess() {
			return nil
		}
		return &Failure{Check: "status", Message: fmt.Sprintf("got %d, want 2xx", r.Response.StatusCode)}
	})
}

// JSON accepts responses whose body parsed as JSON. A form POST response
// that came back as plain text fails this check.
func JSON() http.ResponseValidator {
	return http.ResponseValidatorFunc(func(r *http.Result) error {
		if _, ok := r.Body.(string); ok && !json.Valid(r.Response.RawBody) {
			return &Failure{Check: "json", Message: "response body is not JSON"}
		}
		return nil
	})
}

// Schema validates the decoded body against a compiled schema.
func Schema(schema *jsonschema.Schema) http.ResponseValidator {
	return http.ResponseValidatorFunc(func(r *http.Result) error {
		if err := schema.Validate(r.Body); err != nil {
			return &Failure{Check: "schema", Message: err.Error()}
		}
		return nil
	})
}

// JSONPath requires the value at path to equal want, compared as the string
// form returned by jsonpath.Extract.
func JSONPath(path, want string) http.ResponseValidator {
	return http.ResponseValidatorFunc(func(r *http.Result) error {
		got, err := jsonpath.Extract(r.Response.RawBody, path)
		if err != nil {
			return &Failure{Check: "jsonpath", Path: path, Message: err.Error()}
		}
		if got != want {
			return &Failure{Check: "jsonpath", Path: path, Message: fmt.Sprintf("got %q, want %q", got, want)}
		}
		return nil
	})
}

// JSONPaths checks every path/value pair, in path order.
func JSONPaths(expectations map[string]string) http.ResponseValidator {
	paths := make([]string, 0, len(expectations))
	for path := range expectations {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	validators := make([]http.ResponseValidator, 0, len(paths))
	for _, path := range paths {
		validators = append(validators, JSONPath(path, expectations[path]))
	}
	return All(validators...)
}

// All runs every validator and joins their failures. Nil validators are
// skipped; an empty All accepts everything.
func All(validators ...http.ResponseValidator) http.ResponseValidator {
	return http.ResponseValidatorFunc(func(r *http.Result) error {
		var errs []error
		for _, v := range validators {
			if v == nil {
				continue
			}
			if err := v.Validate(r); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
