package http

import (
	"math"
	"reflect"
	"time"
)

// MaxSafeInteger is the largest integer that survives a round trip through an
// IEEE 754 double without loss.
const MaxSafeInteger = 1<<53 - 1

// maxDurationMsecs is the largest millisecond count time.Duration can hold.
const maxDurationMsecs = math.MaxInt64 / int64(time.Millisecond)

// ValidateTimeout checks a millisecond timeout.
//
// A nil value means "not supplied" and yields a zero duration with no error.
// Otherwise the value must be an integer, or a float with no fractional part,
// in the range [1, MaxSafeInteger]. Strings and every other type are refused.
// Values beyond what time.Duration can hold saturate to the largest Duration.
// The label names the offending input in the returned *ValidationError.
func ValidateTimeout(value any, label string) (time.Duration, error) {
	if value == nil {
		return 0, nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, nil
		}
		rv = rv.Elem()
	}

	var ms int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		ms = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > MaxSafeInteger {
			return 0, validationErrorf(label, "must be a positive safe integer, got %d", u)
		}
		ms = int64(u)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > MaxSafeInteger || f < 1 {
			return 0, validationErrorf(label, "must be a positive safe integer, got %v", f)
		}
		ms = int64(f)
	default:
		return 0, validationErrorf(label, "must be a positive safe integer, got %T", value)
	}

	if ms < 1 || ms > MaxSafeInteger {
		return 0, validationErrorf(label, "must be a positive safe integer, got %d", ms)
	}
	if ms > maxDurationMsecs {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ValidateSerializable checks that body was supplied and holds a value that
// can be sent as JSON: a mapping, array, string, boolean, number or null.
func ValidateSerializable(body Body) error {
	if !body.Supplied() {
		return validationErrorf("body", "a value is required (use JSONBody(nil) for null)")
	}
	if shape := body.Shape(); !shape.Serializable() {
		return validationErrorf("body", "unsupported value of type %T", body.Value())
	}
	return nil
}
