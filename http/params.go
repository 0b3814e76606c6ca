package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Params is a mapping of query or form parameters that remembers the order
// in which keys were first set. Keys are unique; setting an existing key
// replaces its value in place.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams builds Params from alternating key/value pairs.
//
//	p := http.NewParams("a", 1, "b", 2) // a=1&b=2
//
// It panics if kv has odd length or a key is not a string, like a malformed
// composite literal would fail to compile.
func NewParams(kv ...any) *Params {
	if len(kv)%2 != 0 {
		panic("http: NewParams called with an odd number of arguments")
	}
	p := &Params{}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("http: NewParams key %d is %T, not string", i/2, kv[i]))
		}
		p.Set(key, kv[i+1])
	}
	return p
}

// Set stores value under key.
func (p *Params) Set(key string, value any) *Params {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of keys.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Encode renders the parameters as "k=v&k2=v2" in insertion order.
//
// Strings are used as-is, numbers and booleans are formatted, nil becomes an
// empty value, arrays repeat the key once per element and nested mappings
// are JSON-encoded.
func (p *Params) Encode() (string, error) {
	if p.Len() == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, key := range p.keys {
		values, err := stringifyParam(p.values[key])
		if err != nil {
			return "", validationErrorf("params", "%s: %v", key, err)
		}
		for _, v := range values {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(key))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(v))
		}
	}
	return sb.String(), nil
}

// ParamsFrom checks that value is an accepted parameter mapping and converts
// it to *Params.
//
// Accepted: nil, *Params, Params, url.Values and any map with string keys.
// Plain Go maps carry no order and are taken in sorted key order.
// Arrays, slices and scalars are refused with a *ValidationError. A nil or
// empty mapping yields nil, meaning "no parameters".
func ParamsFrom(value any) (*Params, error) {
	var p *Params
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *Params:
		p = v
	case Params:
		p = &v
	case map[string]any:
		p = &Params{}
		for _, key := range sortedKeys(v) {
			p.Set(key, v[key])
		}
	case map[string]string:
		p = &Params{}
		for _, key := range sortedKeys(v) {
			p.Set(key, v[key])
		}
	case url.Values:
		p = &Params{}
		for _, key := range sortedKeys(v) {
			vals := v[key]
			if len(vals) == 1 {
				p.Set(key, vals[0])
				continue
			}
			p.Set(key, append([]string(nil), vals...))
		}
	default:
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
			p = paramsFromMap(rv)
			break
		}
		if ShapeOf(value) == ShapeArray {
			return nil, validationErrorf("params", "must be a mapping, not an array")
		}
		return nil, validationErrorf("params", "must be a mapping, got %T", value)
	}

	if p.Len() == 0 {
		return nil, nil
	}
	return p, nil
}

// paramsFromMap copies any string-keyed map in sorted key order.
func paramsFromMap(rv reflect.Value) *Params {
	values := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		values[iter.Key().String()] = iter.Value().Interface()
	}
	p := &Params{}
	for _, key := range sortedKeys(values) {
		p.Set(key, values[key])
	}
	return p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringifyParam(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{""}, nil
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []byte:
		return []string{string(val)}, nil
	case bool:
		return []string{strconv.FormatBool(val)}, nil
	case json.Number:
		return []string{val.String()}, nil
	case float64:
		return []string{strconv.FormatFloat(val, 'f', -1, 64)}, nil
	case float32:
		return []string{strconv.FormatFloat(float64(val), 'f', -1, 32)}, nil
	}

	switch ShapeOf(v) {
	case ShapeNull:
		return []string{""}, nil
	case ShapeNumber, ShapeBool, ShapeString:
		return []string{fmt.Sprint(reflect.Indirect(reflect.ValueOf(v)).Interface())}, nil
	case ShapeArray:
		rv := reflect.Indirect(reflect.ValueOf(v))
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := stringifyParam(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, elem...)
		}
		return out, nil
	case ShapeMapping:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return []string{string(b)}, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}
