package http

// Body is a request body that is either absent or holds a JSON value.
//
// The zero Body means "not supplied". JSONBody(nil) is supplied and encodes
// as the JSON literal null, which is distinct from omitting the body.
type Body struct {
	value    any
	supplied bool
}

// NoBody is the unsupplied body.
var NoBody = Body{}

// JSONBody returns a supplied body holding v.
func JSONBody(v any) Body {
	return Body{value: v, supplied: true}
}

// Supplied reports whether the body was given.
func (b Body) Supplied() bool {
	return b.supplied
}

// Value returns the held value, or nil for an unsupplied body.
func (b Body) Value() any {
	return b.value
}

// Shape returns the shape of the held value. An unsupplied body is invalid.
func (b Body) Shape() Shape {
	if !b.supplied {
		return ShapeInvalid
	}
	return ShapeOf(b.value)
}
