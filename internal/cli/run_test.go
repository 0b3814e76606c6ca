package cli

import (
	"errors"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strider.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const runConfig = `
client:
  timeoutMsecs: 2000
  timing: true
variables:
  name: ada
requests:
  createUser:
    method: POST_JSON
    url: "{{base}}/users"
    body:
      name: "{{name}}"
    expect:
      status: [200]
  listUsers:
    method: GET
    url: "{{base}}/users"
    params:
      limit: 10
      name: "{{name}}"
    expect:
      status: [200]
      jsonpath:
        $.ok: "true"
`

func TestRunCommand_SingleRequest(t *testing.T) {
	server, seen := recordingServer(t, nethttp.StatusOK, `{"ok":true}`)
	path := writeConfig(t, runConfig)

	stdout, _, err := executeCommand(t, "run", "-c", path, "-r", "listUsers",
		"--var", "base="+server.URL, "--var", "name=grace", "-o", "json")
	require.NoError(t, err)

	got := <-seen
	assert.Equal(t, "GET", got.Method)
	assert.Equal(t, "limit=10&name=grace", got.Query)

	docs := decodeAll(t, stdout)
	require.Len(t, docs, 2, "one result and the timing statistics")
	assert.Equal(t, float64(200), docs[0]["statusCode"])
}

func TestRunCommand_AllRequestsInNameOrder(t *testing.T) {
	server, seen := recordingServer(t, nethttp.StatusOK, `{"ok":true}`)
	path := writeConfig(t, runConfig)

	stdout, _, err := executeCommand(t, "run", "-c", path, "--var", "base="+server.URL)
	require.NoError(t, err)

	first := <-seen
	assert.Equal(t, "POST", first.Method)
	assert.JSONEq(t, `{"name":"ada"}`, first.Body)
	second := <-seen
	assert.Equal(t, "GET", second.Method)

	assert.Less(t, strings.Index(stdout, "REQUEST: POST"), strings.Index(stdout, "REQUEST: GET"))
	assert.Contains(t, stdout, "Requests: 2 (0 failed)")
}

func TestRunCommand_FailuresAreCounted(t *testing.T) {
	server, _ := recordingServer(t, nethttp.StatusInternalServerError, `{"ok":false}`)
	path := writeConfig(t, runConfig)

	_, stderr, err := executeCommand(t, "run", "-c", path, "--var", "base="+server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 requests failed")

	var reported *reportedError
	assert.True(t, errors.As(err, &reported))
	assert.Contains(t, stderr, "[rejected]")
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
client:
  timeoutMsecs: 1.5
requests:
  bad:
    method: PATCH
    url: http://example.com
`)

	_, _, err := executeCommand(t, "run", "-c", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation errors")
	assert.Contains(t, err.Error(), "client.timeoutMsecs")
	assert.Contains(t, err.Error(), "requests.bad.method")
}

func TestRunCommand_Errors(t *testing.T) {
	path := writeConfig(t, runConfig)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing config flag", []string{"run"}, "config file is required"},
		{"missing file", []string{"run", "-c", filepath.Join(t.TempDir(), "none.yaml")}, "error loading config"},
		{"unknown request", []string{"run", "-c", path, "-r", "nope"}, "request not found: nope"},
		{"bad var", []string{"run", "-c", path, "--var", "novalue"}, "invalid variable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDisplayMethod(t *testing.T) {
	assert.Equal(t, "POST", displayMethod("POST_FORM"))
	assert.Equal(t, "POST", displayMethod("post_json"))
	assert.Equal(t, "GET", displayMethod("get"))
	assert.Equal(t, "DELETE", displayMethod("DELETE"))
}
