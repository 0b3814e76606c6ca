package config

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/strider/http"
)

func TestProcessVariables(t *testing.T) {
	vars := map[string]string{"host": "api.example.com", "id": "7"}

	assert.Equal(t, "https://api.example.com/users/7", ProcessVariables("https://{{host}}/users/{{id}}", vars))
	assert.Equal(t, "{{unknown}}", ProcessVariables("{{unknown}}", vars))
	assert.Equal(t, "plain", ProcessVariables("plain", nil))
}

func TestProcessValue(t *testing.T) {
	vars := map[string]string{"name": "ada", "key": "k"}

	got := ProcessValue(map[string]any{
		"{{key}}": "{{name}}",
		"list":    []any{"{{name}}", 1},
		"n":       nil,
	}, vars)
	assert.Equal(t, map[string]any{
		"k":    "ada",
		"list": []any{"ada", 1},
		"n":    nil,
	}, got)

	params := ProcessValue(http.NewParams("b", "{{name}}", "a", 1), vars).(*http.Params)
	assert.Equal(t, []string{"b", "a"}, params.Keys())
	value, _ := params.Get("b")
	assert.Equal(t, "ada", value)

	assert.Equal(t, 42, ProcessValue(42, vars))
}

func TestMergeVariables(t *testing.T) {
	merged := MergeVariables(map[string]string{"a": "1", "b": "2"}, nil, map[string]string{"b": "3"})
	assert.Equal(t, map[string]string{"a": "1", "b": "3"}, merged)
}

func TestExecute(t *testing.T) {
	type seen struct {
		method string
		query  string
		body   string
	}
	requests := make(chan seen, 8)

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		raw, _ := io.ReadAll(r.Body)
		requests <- seen{method: r.Method, query: r.URL.RawQuery, body: string(raw)}

		w.Header().Set("Content-Type", "application/json")
		if r.Method == nethttp.MethodPost {
			w.WriteHeader(nethttp.StatusCreated)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "ada", "path": r.URL.Path})
	}))
	defer server.Close()

	file, err := Parse([]byte(`
variables:
  user: ada
requests:
  list:
    method: GET
    url: "{{base}}/users"
    params: {zeta: 1, alpha: "{{user}}"}
  create:
    method: POST_JSON
    url: "{{base}}/users"
    body: {name: "{{user}}"}
    expect:
      status: [201]
      jsonpath: {$.name: ada}
  strict:
    method: GET
    url: "{{base}}/users"
    expect:
      status: [204]
  purge:
    method: DELETE
    url: "{{base}}/cache"
    body: null
`), "run.yaml")
	require.NoError(t, err)
	require.Empty(t, Validate(file))

	client, err := http.NewClient()
	require.NoError(t, err)
	vars := MergeVariables(file.Variables, map[string]string{"base": server.URL})
	ctx := context.Background()

	_, err = Execute(ctx, client, file.Requests["list"], vars)
	require.NoError(t, err)
	got := <-requests
	assert.Equal(t, "GET", got.method)
	assert.Equal(t, "zeta=1&alpha=ada", got.query)

	result, err := Execute(ctx, client, file.Requests["create"], vars)
	require.NoError(t, err)
	assert.Equal(t, 201, result.Response.StatusCode)
	got = <-requests
	assert.JSONEq(t, `{"name":"ada"}`, got.body)

	_, err = Execute(ctx, client, file.Requests["strict"], vars)
	var rejection *http.ResponseRejection
	require.ErrorAs(t, err, &rejection)
	<-requests

	_, err = Execute(ctx, client, file.Requests["purge"], vars)
	require.NoError(t, err)
	got = <-requests
	assert.Equal(t, "DELETE", got.method)
	assert.Equal(t, "null", got.body)

	_, err = Execute(ctx, client, Request{Method: "PATCH", URL: server.URL}, vars)
	assert.Error(t, err)
}
