package http

import (
	"encoding"
	"encoding/json"
	"math"
	"reflect"
)

// Shape classifies a Go value by the JSON value it encodes to.
type Shape int

const (
	// ShapeInvalid marks values that have no JSON representation.
	ShapeInvalid Shape = iota
	ShapeNull
	ShapeBool
	ShapeNumber
	ShapeString
	ShapeArray
	ShapeMapping
)

// String returns the lower-case name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeBool:
		return "boolean"
	case ShapeNumber:
		return "number"
	case ShapeString:
		return "string"
	case ShapeArray:
		return "array"
	case ShapeMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// Serializable reports whether values of this shape may be sent as a JSON body.
func (s Shape) Serializable() bool {
	return s != ShapeInvalid
}

var (
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	rawMessageType    = reflect.TypeOf(json.RawMessage(nil))
	jsonNumberType    = reflect.TypeOf(json.Number(""))
	bytesType         = reflect.TypeOf([]byte(nil))
)

// ShapeOf returns the shape of v.
//
// Pointers and interfaces are followed; a nil pointer is null. Structs and maps
// with string, integer or text-marshaling keys are mappings. A []byte is a
// string because encoding/json emits it as base64 text.
func ShapeOf(v any) Shape {
	if v == nil {
		return ShapeNull
	}
	return shapeOfValue(reflect.ValueOf(v))
}

func shapeOfValue(rv reflect.Value) Shape {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return ShapeNull
		}
		rv = rv.Elem()
	}

	switch rv.Type() {
	case rawMessageType:
		if rv.IsNil() {
			return ShapeNull
		}
		if !json.Valid(rv.Bytes()) {
			return ShapeInvalid
		}
		return shapeOfRaw(rv.Bytes())
	case bytesType:
		if rv.IsNil() {
			return ShapeNull
		}
		return ShapeString
	case jsonNumberType:
		if _, err := json.Number(rv.String()).Float64(); err != nil {
			return ShapeInvalid
		}
		return ShapeNumber
	}

	switch rv.Kind() {
	case reflect.Bool:
		return ShapeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ShapeNumber
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ShapeInvalid
		}
		return ShapeNumber
	case reflect.String:
		return ShapeString
	case reflect.Slice:
		if rv.IsNil() {
			return ShapeNull
		}
		return ShapeArray
	case reflect.Array:
		return ShapeArray
	case reflect.Map:
		if !validMapKey(rv.Type().Key()) {
			return ShapeInvalid
		}
		if rv.IsNil() {
			return ShapeNull
		}
		return ShapeMapping
	case reflect.Struct:
		return ShapeMapping
	default:
		// chan, func, complex, unsafe pointer
		return ShapeInvalid
	}
}

func validMapKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return t.Implements(textMarshalerType)
}

// shapeOfRaw classifies an already valid JSON document by its first byte.
func shapeOfRaw(b []byte) Shape {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return ShapeMapping
		case '[':
			return ShapeArray
		case '"':
			return ShapeString
		case 't', 'f':
			return ShapeBool
		case 'n':
			return ShapeNull
		default:
			return ShapeNumber
		}
	}
	return ShapeInvalid
}
