package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/strider/http"
)

const sampleYAML = `
client:
  timeoutMsecs: 5000
  timing: true
  agent:
    maxIdleConnsPerHost: 16
    idleConnTimeout: 90s
    dialTimeout: "5"
variables:
  host: api.example.com
requests:
  listUsers:
    method: GET
    url: https://{{host}}/users
    params:
      zeta: 1
      alpha: two
  createUser:
    method: POST_JSON
    url: https://{{host}}/users
    body:
      name: "{{user}}"
    expect:
      status: [201]
      jsonpath:
        $.name: ada
  purge:
    method: DELETE
    url: https://{{host}}/cache
    body: null
  ping:
    method: DELETE
    url: https://{{host}}/ping
`

const sampleJSON = `{
  "client": {"timeoutMsecs": 2000},
  "requests": {
    "login": {
      "method": "POST_FORM",
      "url": "http://localhost/login",
      "params": {"user": "u", "pass": "p"},
      "timeoutMsecs": 1500
    },
    "purge": {"method": "DELETE", "url": "http://localhost/x", "body": null}
  }
}`

func TestParseYAML(t *testing.T) {
	file, err := Parse([]byte(sampleYAML), "strider.yaml")
	require.NoError(t, err)

	assert.Equal(t, 5000, file.Client.TimeoutMsecs)
	assert.True(t, file.Client.Timing)
	assert.Equal(t, "api.example.com", file.Variables["host"])
	require.Len(t, file.Requests, 4)

	list := file.Requests["listUsers"]
	params, ok := list.Params.(*http.Params)
	require.True(t, ok, "params should keep document order, got %T", list.Params)
	assert.Equal(t, []string{"zeta", "alpha"}, params.Keys())
	assert.False(t, list.HasBody)

	create := file.Requests["createUser"]
	assert.True(t, create.HasBody)
	assert.Equal(t, map[string]any{"name": "{{user}}"}, create.Body)
	assert.Equal(t, []int{201}, create.Expect.Status)
	assert.Equal(t, "ada", create.Expect.JSONPath["$.name"])

	purge := file.Requests["purge"]
	assert.True(t, purge.HasBody, "explicit null body")
	assert.Nil(t, purge.Body)

	assert.False(t, file.Requests["ping"].HasBody)
}

func TestParseJSON(t *testing.T) {
	file, err := Parse([]byte(sampleJSON), "strider.json")
	require.NoError(t, err)

	assert.Equal(t, float64(2000), file.Client.TimeoutMsecs)

	login := file.Requests["login"]
	assert.Equal(t, MethodPostForm, login.Method)
	assert.Equal(t, map[string]any{"user": "u", "pass": "p"}, login.Params)
	assert.False(t, login.HasBody)
	assert.Equal(t, float64(1500), login.TimeoutMsecs)

	purge := file.Requests["purge"]
	assert.True(t, purge.HasBody)
	assert.Nil(t, purge.Body)

	assert.Empty(t, Validate(file))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("{not json"), "bad.json")
	assert.Error(t, err)

	_, err = Parse([]byte("client: [unterminated"), "bad.yaml")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strider.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	file, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, Validate(file))

	req, err := file.Lookup("createUser")
	require.NoError(t, err)
	assert.Equal(t, MethodPostJSON, req.Method)

	_, err = file.Lookup("nope")
	assert.Error(t, err)
}

func TestClientOptions(t *testing.T) {
	file, err := Parse([]byte(sampleYAML), "strider.yaml")
	require.NoError(t, err)

	opts, err := file.Client.ClientOptions()
	require.NoError(t, err)

	client, err := http.NewClient(opts...)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.Timeout())

	agent, err := file.Client.Agent.options()
	require.NoError(t, err)
	assert.Equal(t, 16, agent.MaxIdleConnsPerHost)
	assert.Equal(t, 90*time.Second, agent.IdleConnTimeout)
	assert.Equal(t, 5*time.Second, agent.DialTimeout)

	_, err = AgentConfig{KeepAlive: "soon"}.options()
	var cerr *http.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "agentOptions.keepAlive", cerr.Field)
}

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"", 0, false},
		{"30s", 30 * time.Second, false},
		{"1h30m", 90 * time.Minute, false},
		{"500ms", 500 * time.Millisecond, false},
		{"30", 30 * time.Second, false},
		{" 2m ", 2 * time.Minute, false},
		{"30x", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDurationString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
