package config

import (
	"strings"

	"github.com/wesleyorama2/strider/http"
)

// ProcessVariables replaces every {{name}} in input with its value.
// Unknown placeholders are left as-is.
func ProcessVariables(input string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(input, "{{") {
		return input
	}

	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ProcessValue applies ProcessVariables to every string inside v, including
// keys and values of nested mappings and elements of arrays. Other values
// are returned unchanged.
func ProcessValue(v any, vars map[string]string) any {
	switch t := v.(type) {
	case string:
		return ProcessVariables(t, vars)
	case *http.Params:
		if t == nil {
			return t
		}
		out := http.NewParams()
		for _, key := range t.Keys() {
			value, _ := t.Get(key)
			out.Set(ProcessVariables(key, vars), ProcessValue(value, vars))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, value := range t {
			out[ProcessVariables(key, vars)] = ProcessValue(value, vars)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, value := range t {
			out[i] = ProcessValue(value, vars)
		}
		return out
	default:
		return v
	}
}

// MergeVariables merges variable maps in order; later maps win.
func MergeVariables(maps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, m := range maps {
		for key, value := range m {
			result[key] = value
		}
	}
	return result
}
