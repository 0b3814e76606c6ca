package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Path: "requests.a.url", Message: "url is required"}
	if err.Error() != "requests.a.url: url is required" {
		t.Errorf("Expected 'requests.a.url: url is required' but got '%s'", err.Error())
	}
}

func paths(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Path
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected []string
	}{
		{
			name: "Valid file",
			yaml: `
requests:
  a: {method: GET, url: "http://x"}
`,
		},
		{
			name:     "No requests",
			yaml:     `client: {timing: true}`,
			expected: []string{"requests"},
		},
		{
			name: "Missing method and url",
			yaml: `
requests:
  a: {params: {q: 1}}
`,
			expected: []string{"requests.a.method", "requests.a.url"},
		},
		{
			name: "Unsupported method",
			yaml: `
requests:
  a: {method: PATCH, url: "http://x"}
`,
			expected: []string{"requests.a.method"},
		},
		{
			name: "Array params",
			yaml: `
requests:
  a: {method: GET, url: "http://x", params: [a, 1]}
`,
			expected: []string{"requests.a.params"},
		},
		{
			name: "Fractional timeouts",
			yaml: `
client: {timeoutMsecs: 1.5}
requests:
  a: {method: GET, url: "http://x", timeoutMsecs: 0}
`,
			expected: []string{"client.timeoutMsecs", "requests.a.timeoutMsecs"},
		},
		{
			name: "String timeout",
			yaml: `
requests:
  a: {method: GET, url: "http://x", timeoutMsecs: abc}
`,
			expected: []string{"requests.a.timeoutMsecs"},
		},
		{
			name: "POST_JSON needs a body",
			yaml: `
requests:
  a: {method: POST_JSON, url: "http://x"}
  b: {method: POST_JSON, url: "http://x", body: null}
`,
			expected: []string{"requests.a.body"},
		},
		{
			name: "Negative agent option",
			yaml: `
client: {agent: {maxIdleConns: -1}}
requests:
  a: {method: GET, url: "http://x"}
`,
			expected: []string{"client.agent.maxIdleConns"},
		},
		{
			name: "Bad expectations",
			yaml: `
requests:
  a:
    method: GET
    url: "http://x"
    expect:
      status: [42]
      schema: {type: not-a-type}
`,
			expected: []string{"requests.a.expect.schema", "requests.a.expect.status[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := Parse([]byte(tt.yaml), "test.yaml")
			require.NoError(t, err)

			errs := Validate(file)
			if len(tt.expected) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.expected, paths(errs))
		})
	}
}
