package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/pkg/jsonschema"
	"github.com/wesleyorama2/strider/validator"
)

// addRequestFlags registers the flags shared by get, post and delete.
func addRequestFlags(cmd *cobra.Command, withBody bool) {
	cmd.Flags().StringArrayP("param", "p", []string{}, "Parameter as key=value (repeat a key to send a list)")
	if withBody {
		cmd.Flags().String("json", "", "JSON body, or @file to read it from a file")
	}
	cmd.Flags().IntSlice("status", nil, "Accepted status codes (comma separated)")
	cmd.Flags().String("schema", "", "JSON Schema file the response body must satisfy")
	cmd.Flags().StringArray("expect", []string{}, "Expected value at a JSONPath, as path=value")
}

// requestInput is what the shared request flags describe.
type requestInput struct {
	url    string
	params *http.Params
	body   http.Body
	call   []http.CallOption
}

func readRequestInput(cmd *cobra.Command, rawURL string) (*requestInput, error) {
	in := &requestInput{url: normalizeURL(rawURL), body: http.NoBody}

	rawParams, _ := cmd.Flags().GetStringArray("param")
	params, err := parseParams(rawParams)
	if err != nil {
		return nil, err
	}
	in.params = params

	if cmd.Flags().Lookup("json") != nil && cmd.Flags().Changed("json") {
		raw, _ := cmd.Flags().GetString("json")
		body, err := parseBody(raw)
		if err != nil {
			return nil, err
		}
		in.body = body
	}

	check, err := responseChecks(cmd)
	if err != nil {
		return nil, err
	}
	if check != nil {
		in.call = append(in.call, http.WithCallValidator(check))
	}
	return in, nil
}

// normalizeURL adds an http scheme when none is given.
func normalizeURL(rawURL string) string {
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "http://" + rawURL
	}
	return rawURL
}

// parseParams turns key=value pairs into ordered Params. A repeated key
// collects its values into a list, which encodes as a repeated parameter.
func parseParams(pairs []string) (*http.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	p := http.NewParams()
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		existing, found := p.Get(key)
		switch {
		case !found:
			p.Set(key, value)
		case isList(existing):
			p.Set(key, append(existing.([]any), value))
		default:
			p.Set(key, []any{existing, value})
		}
	}
	return p, nil
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// parseBody decodes a JSON body given inline or as @file. The literal null
// is a supplied body whose value is null.
func parseBody(raw string) (http.Body, error) {
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return http.NoBody, fmt.Errorf("failed to read body file: %w", err)
		}
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return http.NoBody, fmt.Errorf("invalid JSON body: %w", err)
	}
	return http.JSONBody(v), nil
}

// responseChecks combines --status, --schema and --expect into one
// validator. It returns nil when none of them is set.
func responseChecks(cmd *cobra.Command) (http.ResponseValidator, error) {
	var checks []http.ResponseValidator

	codes, _ := cmd.Flags().GetIntSlice("status")
	if len(codes) > 0 {
		checks = append(checks, validator.Status(codes...))
	}

	schemaFile, _ := cmd.Flags().GetString("schema")
	if schemaFile != "" {
		schema, err := jsonschema.CompileFile(schemaFile)
		if err != nil {
			return nil, err
		}
		checks = append(checks, validator.Schema(schema))
	}

	expects, _ := cmd.Flags().GetStringArray("expect")
	for _, e := range expects {
		path, want, ok := strings.Cut(e, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid expectation %q, expected path=value", e)
		}
		checks = append(checks, validator.JSONPath(path, want))
	}

	if len(checks) == 0 {
		return nil, nil
	}
	return validator.All(checks...), nil
}

// describeParams renders params for display. Values that do not encode are
// shown as given; the client reports the error when the request is built.
func describeParams(params any) string {
	p, err := http.ParamsFrom(params)
	if err != nil {
		return fmt.Sprintf("%v", params)
	}
	encoded, err := p.Encode()
	if err != nil {
		return fmt.Sprintf("%v", params)
	}
	return encoded
}

// describeBody returns the body value for display, or nil when absent.
func describeBody(body http.Body) any {
	if !body.Supplied() {
		return nil
	}
	if body.Value() == nil {
		return json.RawMessage("null")
	}
	return body.Value()
}
