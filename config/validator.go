package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/pkg/jsonschema"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks the whole file and returns every problem found, ordered
// by path. Timeouts, params and bodies are checked with the same rules the
// client applies at call time.
func Validate(file *File) []ValidationError {
	var errs []ValidationError

	if _, err := http.ValidateTimeout(file.Client.TimeoutMsecs, "timeoutMsecs"); err != nil {
		errs = append(errs, fromError("client.timeoutMsecs", err))
	}
	if agent, err := file.Client.Agent.options(); err != nil {
		errs = append(errs, fromError("client.agent", err))
	} else if err := agent.Validate(); err != nil {
		errs = append(errs, fromError("client.agent", err))
	}

	if len(file.Requests) == 0 {
		errs = append(errs, ValidationError{
			Path:    "requests",
			Message: "at least one request is required",
		})
	}

	for name, req := range file.Requests {
		errs = append(errs, validateRequest("requests."+name, req)...)
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })
	return errs
}

func validateRequest(path string, req Request) []ValidationError {
	var errs []ValidationError

	if req.URL == "" {
		errs = append(errs, ValidationError{Path: path + ".url", Message: "url is required"})
	}

	switch strings.ToUpper(req.Method) {
	case "":
		errs = append(errs, ValidationError{Path: path + ".method", Message: "method is required"})
	case MethodGet, MethodPostForm, MethodDelete:
	case MethodPostJSON:
		if !req.HasBody {
			errs = append(errs, ValidationError{Path: path + ".body", Message: "body is required for POST_JSON"})
		}
	default:
		errs = append(errs, ValidationError{
			Path:    path + ".method",
			Message: fmt.Sprintf("invalid method: %s (must be GET, POST_FORM, POST_JSON or DELETE)", req.Method),
		})
	}

	if _, err := http.ParamsFrom(req.Params); err != nil {
		errs = append(errs, fromError(path+".params", err))
	}
	if req.HasBody {
		if err := http.ValidateSerializable(http.JSONBody(req.Body)); err != nil {
			errs = append(errs, fromError(path+".body", err))
		}
	}
	if _, err := http.ValidateTimeout(req.TimeoutMsecs, "timeoutMsecs"); err != nil {
		errs = append(errs, fromError(path+".timeoutMsecs", err))
	}

	for i, code := range req.Expect.Status {
		if code < 100 || code > 599 {
			errs = append(errs, ValidationError{
				Path:    fmt.Sprintf("%s.expect.status[%d]", path, i),
				Message: fmt.Sprintf("invalid status code: %d", code),
			})
		}
	}
	if req.Expect.Schema != nil {
		if _, err := jsonschema.CompileValue(req.Expect.Schema); err != nil {
			errs = append(errs, fromError(path+".expect.schema", err))
		}
	}
	for jp := range req.Expect.JSONPath {
		if jp == "" {
			errs = append(errs, ValidationError{
				Path:    path + ".expect.jsonpath",
				Message: "jsonpath expression cannot be empty",
			})
		}
	}

	return errs
}

// fromError keeps the message of typed client errors without their prefix.
func fromError(path string, err error) ValidationError {
	var verr *http.ValidationError
	if errors.As(err, &verr) {
		return ValidationError{Path: path, Message: verr.Message}
	}
	var cerr *http.ConfigurationError
	if errors.As(err, &cerr) {
		return ValidationError{Path: path + strings.TrimPrefix(cerr.Field, "agentOptions"), Message: cerr.Message}
	}
	return ValidationError{Path: path, Message: err.Error()}
}
