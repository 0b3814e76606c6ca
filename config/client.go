package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/pkg/jsonschema"
	"github.com/wesleyorama2/strider/validator"
)

// ClientOptions converts the client section into http.ClientOptions.
// Agent durations are parsed here; everything else is checked by
// http.NewClient.
func (c ClientConfig) ClientOptions() ([]http.ClientOption, error) {
	agent, err := c.Agent.options()
	if err != nil {
		return nil, err
	}
	return []http.ClientOption{
		http.WithTimeoutValue(c.TimeoutMsecs),
		http.WithTiming(c.Timing),
		http.WithAgentOptions(agent),
	}, nil
}

func (a AgentConfig) options() (http.AgentOptions, error) {
	opts := http.AgentOptions{
		MaxIdleConns:        a.MaxIdleConns,
		MaxIdleConnsPerHost: a.MaxIdleConnsPerHost,
		MaxConnsPerHost:     a.MaxConnsPerHost,
		DisableKeepAlives:   a.DisableKeepAlives,
		InsecureSkipVerify:  a.InsecureSkipVerify,
	}

	durations := []struct {
		name  string
		value string
		into  *time.Duration
	}{
		{"idleConnTimeout", a.IdleConnTimeout, &opts.IdleConnTimeout},
		{"keepAlive", a.KeepAlive, &opts.KeepAlive},
		{"dialTimeout", a.DialTimeout, &opts.DialTimeout},
		{"tlsHandshakeTimeout", a.TLSHandshakeTimeout, &opts.TLSHandshakeTimeout},
		{"responseHeaderTimeout", a.ResponseHeaderTimeout, &opts.ResponseHeaderTimeout},
	}
	for _, d := range durations {
		parsed, err := ParseDurationString(d.value)
		if err != nil {
			return http.AgentOptions{}, &http.ConfigurationError{Field: "agentOptions." + d.name, Message: err.Error()}
		}
		*d.into = parsed
	}

	return opts, nil
}

// ParseDurationString parses a duration string with support for common formats.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
//
// An empty string is zero.
func ParseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	var seconds int
	var rest string
	if n, _ := fmt.Sscanf(s, "%d%s", &seconds, &rest); n == 1 {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// Validator builds the response checks listed under expect. It returns nil
// when nothing is expected, leaving the client's validator in charge.
func (e Expect) Validator() (http.ResponseValidator, error) {
	var checks []http.ResponseValidator

	if len(e.Status) > 0 {
		checks = append(checks, validator.Status(e.Status...))
	}
	if e.Schema != nil {
		schema, err := jsonschema.CompileValue(e.Schema)
		if err != nil {
			return nil, err
		}
		checks = append(checks, validator.Schema(schema))
	}
	if len(e.JSONPath) > 0 {
		checks = append(checks, validator.JSONPaths(e.JSONPath))
	}

	if len(checks) == 0 {
		return nil, nil
	}
	return validator.All(checks...), nil
}

// Execute sends req through client after substituting vars into its URL,
// params and body.
func Execute(ctx context.Context, client *http.Client, req Request, vars map[string]string) (*http.Result, error) {
	url := ProcessVariables(req.URL, vars)
	params := ProcessValue(req.Params, vars)

	body := http.NoBody
	if req.HasBody {
		body = http.JSONBody(ProcessValue(req.Body, vars))
	}

	opts := []http.CallOption{http.WithCallTimeoutValue(req.TimeoutMsecs)}
	check, err := req.Expect.Validator()
	if err != nil {
		return nil, fmt.Errorf("expect: %w", err)
	}
	if check != nil {
		opts = append(opts, http.WithCallValidator(check))
	}

	switch strings.ToUpper(req.Method) {
	case MethodGet:
		return client.Get(ctx, url, params, opts...)
	case MethodPostForm:
		return client.PostForm(ctx, url, params, opts...)
	case MethodPostJSON:
		return client.PostJSON(ctx, url, body, opts...)
	case MethodDelete:
		return client.Delete(ctx, url, params, body, opts...)
	default:
		return nil, fmt.Errorf("invalid method: %s", req.Method)
	}
}
