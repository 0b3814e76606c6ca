package validator

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/strider/http"
	"github.com/wesleyorama2/strider/pkg/jsonschema"
)

func result(status int, raw string, body any) *http.Result {
	return &http.Result{
		Response: &http.Response{StatusCode: status, RawBody: []byte(raw)},
		Body:     body,
	}
}

func TestStatus(t *testing.T) {
	v := Status(200, 201)

	assert.NoError(t, v.Validate(result(201, "", "")))

	err := v.Validate(result(404, "", ""))
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "status", failure.Check)
	assert.Contains(t, err.Error(), "404")
}

func TestSuccess(t *testing.T) {
	v := Success()
	assert.NoError(t, v.Validate(result(204, "", "")))
	assert.Error(t, v.Validate(result(302, "", "")))
	assert.Error(t, v.Validate(result(500, "", "")))
}

func TestJSON(t *testing.T) {
	v := JSON()

	assert.NoError(t, v.Validate(result(200, `{"a":1}`, map[string]any{"a": float64(1)})))
	assert.NoError(t, v.Validate(result(200, ` "quoted" `, "quoted")))
	assert.Error(t, v.Validate(result(200, "plain text", "plain text")))
	assert.Error(t, v.Validate(result(200, `"foo" not json "bar"`, `"foo" not json "bar"`)))
	assert.Error(t, v.Validate(result(200, "", "")))
}

func TestSchema(t *testing.T) {
	schema, err := jsonschema.Compile(`{"type":"object","required":["id"]}`)
	require.NoError(t, err)
	v := Schema(schema)

	assert.NoError(t, v.Validate(result(200, `{"id":1}`, map[string]any{"id": float64(1)})))

	err = v.Validate(result(200, `{}`, map[string]any{}))
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "schema", failure.Check)
}

func TestJSONPath(t *testing.T) {
	raw := `{"user":{"id":42,"name":"ada"},"tags":["a","b"]}`

	assert.NoError(t, JSONPath("$.user.id", "42").Validate(result(200, raw, nil)))
	assert.NoError(t, JSONPath("$.tags[1]", "b").Validate(result(200, raw, nil)))

	err := JSONPath("$.user.name", "bob").Validate(result(200, raw, nil))
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "$.user.name", failure.Path)
	assert.Contains(t, err.Error(), `got "ada"`)

	assert.Error(t, JSONPath("$.missing", "x").Validate(result(200, raw, nil)))
	assert.Error(t, JSONPath("$.a", "x").Validate(result(200, "not json", "not json")))
}

func TestAll(t *testing.T) {
	raw := `{"id":1}`

	assert.NoError(t, All().Validate(result(500, raw, nil)))
	assert.NoError(t, All(nil, Success()).Validate(result(200, raw, nil)))

	err := All(
		Success(),
		JSONPaths(map[string]string{"$.id": "2", "$.name": "x"}),
	).Validate(result(500, raw, nil))

	var failures []*Failure
	for _, e := range flatten(err) {
		var f *Failure
		if errors.As(e, &f) {
			failures = append(failures, f)
		}
	}
	require.Len(t, failures, 3)
	assert.Equal(t, "status", failures[0].Check)
	assert.Equal(t, "$.id", failures[1].Path)
	assert.Equal(t, "$.name", failures[2].Path)
}

// flatten unwraps nested errors.Join results.
func flatten(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}

func TestValidatorWithClient(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(nethttp.StatusNotFound)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client, err := http.NewClient(http.WithResponseValidator(All(
		Success(),
		JSONPath("$.status", "ok"),
	)))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), server.URL+"/ok", nil)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), server.URL+"/missing", nil)
	var rejection *http.ResponseRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, 404, rejection.Result.Response.StatusCode)
	var failure *Failure
	assert.ErrorAs(t, err, &failure)
}
