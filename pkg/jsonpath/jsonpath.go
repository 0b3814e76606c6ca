// Package jsonpath extracts values from response bodies with a small
// JSONPath dialect ($.a.b, $.items[0].id, $['key']) evaluated by gjson.
package jsonpath

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Lookup evaluates path against body. body may be raw JSON text ([]byte or
// string) or an already decoded value, which is re-encoded first.
func Lookup(body any, path string) (gjson.Result, error) {
	if path == "" {
		return gjson.Result{}, fmt.Errorf("empty JSONPath expression")
	}

	doc, err := document(body)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.Valid(doc) {
		return gjson.Result{}, fmt.Errorf("body is not valid JSON")
	}

	result := gjson.Get(doc, toGjsonPath(path))
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("path not found: %s", path)
	}
	return result, nil
}

// Extract returns the value at path as a string. JSON null is "null";
// objects and arrays come back as their raw JSON.
func Extract(body any, path string) (string, error) {
	result, err := Lookup(body, path)
	if err != nil {
		return "", err
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ExtractMultiple extracts every named path. Values that could be extracted
// are returned even when others fail.
func ExtractMultiple(body any, paths map[string]string) (map[string]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSONPath expressions provided")
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(paths))
	var failures []string
	for _, name := range names {
		value, err := Extract(body, paths[name])
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = value
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

func document(body any) (string, error) {
	switch v := body.(type) {
	case nil:
		return "null", nil
	case string:
		if v == "" {
			return "", fmt.Errorf("empty JSON document")
		}
		return v, nil
	case []byte:
		if len(v) == 0 {
			return "", fmt.Errorf("empty JSON document")
		}
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encoding body: %w", err)
		}
		return string(encoded), nil
	}
}

// toGjsonPath converts $.users[0].name into users.0.name.
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	var sb strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c != '[' {
			sb.WriteByte(c)
			continue
		}

		end := strings.IndexByte(path[i:], ']')
		if end < 0 {
			sb.WriteString(path[i:])
			break
		}
		segment := strings.Trim(path[i+1:i+end], `'"`)
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(escape(segment))
		i += end
	}
	return sb.String()
}

// escape protects gjson's path metacharacters inside a bracketed key.
func escape(segment string) string {
	var sb strings.Builder
	for _, r := range segment {
		switch r {
		case '.', '*', '?', '|', '#', '@':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
