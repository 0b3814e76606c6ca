package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/strider/http"
)

// Request methods understood in configuration files.
const (
	MethodGet      = "GET"
	MethodPostForm = "POST_FORM"
	MethodPostJSON = "POST_JSON"
	MethodDelete   = "DELETE"
)

// File is a parsed strider configuration file.
type File struct {
	Client    ClientConfig       `yaml:"client" json:"client"`
	Variables map[string]string  `yaml:"variables,omitempty" json:"variables,omitempty"`
	Requests  map[string]Request `yaml:"requests" json:"requests"`
}

// ClientConfig holds the options used to construct the client.
type ClientConfig struct {
	// TimeoutMsecs is validated by the client; any JSON or YAML scalar may
	// appear here and non-integral values are rejected.
	TimeoutMsecs any         `yaml:"timeoutMsecs,omitempty" json:"timeoutMsecs,omitempty"`
	Timing       bool        `yaml:"timing,omitempty" json:"timing,omitempty"`
	Agent        AgentConfig `yaml:"agent,omitempty" json:"agent,omitempty"`
}

// AgentConfig mirrors http.AgentOptions with durations written as strings
// such as "30s" or "500ms".
type AgentConfig struct {
	MaxIdleConns          int    `yaml:"maxIdleConns,omitempty" json:"maxIdleConns,omitempty"`
	MaxIdleConnsPerHost   int    `yaml:"maxIdleConnsPerHost,omitempty" json:"maxIdleConnsPerHost,omitempty"`
	MaxConnsPerHost       int    `yaml:"maxConnsPerHost,omitempty" json:"maxConnsPerHost,omitempty"`
	IdleConnTimeout       string `yaml:"idleConnTimeout,omitempty" json:"idleConnTimeout,omitempty"`
	KeepAlive             string `yaml:"keepAlive,omitempty" json:"keepAlive,omitempty"`
	DisableKeepAlives     bool   `yaml:"disableKeepAlives,omitempty" json:"disableKeepAlives,omitempty"`
	DialTimeout           string `yaml:"dialTimeout,omitempty" json:"dialTimeout,omitempty"`
	TLSHandshakeTimeout   string `yaml:"tlsHandshakeTimeout,omitempty" json:"tlsHandshakeTimeout,omitempty"`
	ResponseHeaderTimeout string `yaml:"responseHeaderTimeout,omitempty" json:"responseHeaderTimeout,omitempty"`
	InsecureSkipVerify    bool   `yaml:"insecureSkipVerify,omitempty" json:"insecureSkipVerify,omitempty"`
}

// Request is a named request template.
type Request struct {
	Method string `yaml:"method" json:"method"`
	URL    string `yaml:"url" json:"url"`

	// Params is a mapping. YAML mappings keep their document order; JSON
	// objects are taken in sorted key order.
	Params any `yaml:"params,omitempty" json:"params,omitempty"`

	// Body is the JSON body for POST_JSON and DELETE. HasBody distinguishes
	// an explicit `body: null` from an absent body.
	Body    any  `yaml:"body,omitempty" json:"body,omitempty"`
	HasBody bool `yaml:"-" json:"-"`

	TimeoutMsecs any    `yaml:"timeoutMsecs,omitempty" json:"timeoutMsecs,omitempty"`
	Expect       Expect `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Expect lists the checks applied to a request's response.
type Expect struct {
	Status   []int             `yaml:"status,omitempty" json:"status,omitempty"`
	Schema   any               `yaml:"schema,omitempty" json:"schema,omitempty"`
	JSONPath map[string]string `yaml:"jsonpath,omitempty" json:"jsonpath,omitempty"`
}

// requestFields is Request without its methods, for default decoding.
type requestFields Request

// UnmarshalYAML records whether a body key is present and keeps params in
// document order.
func (r *Request) UnmarshalYAML(node *yaml.Node) error {
	var fields requestFields
	if err := node.Decode(&fields); err != nil {
		return err
	}
	*r = Request(fields)

	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "body":
			r.HasBody = true
		case "params":
			if value.Kind != yaml.MappingNode {
				continue
			}
			params, err := orderedParams(value)
			if err != nil {
				return err
			}
			r.Params = params
		}
	}
	return nil
}

func orderedParams(node *yaml.Node) (*http.Params, error) {
	params := http.NewParams()
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return nil, err
		}
		params.Set(node.Content[i].Value, value)
	}
	return params, nil
}

// UnmarshalJSON records whether a body key is present.
func (r *Request) UnmarshalJSON(data []byte) error {
	var fields requestFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Request(fields)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, r.HasBody = keys["body"]
	return nil
}

// Load reads and parses a configuration file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses configuration data. The format follows the extension of
// path; an empty or unknown extension is read as YAML.
func Parse(data []byte, path string) (*File, error) {
	var file File

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &file, nil
}

// Lookup returns the named request.
func (f *File) Lookup(name string) (Request, error) {
	req, ok := f.Requests[name]
	if !ok {
		return Request{}, fmt.Errorf("request not found: %s", name)
	}
	return req, nil
}
