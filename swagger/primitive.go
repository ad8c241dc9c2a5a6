package swagger

import (
	"reflect"
)

// PrimitiveSchema maps a primitive type to its fixed type and format.
// Types without a dedicated mapping are described as a bare string.
//
// See: https://swagger.io/specification/v2/#data-types
func PrimitiveSchema(t reflect.Type) *Schema {
	switch t {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case uuidType:
		return &Schema{Type: "string", Format: "uuid"}
	case jsonNumberType:
		return &Schema{Type: "number", Format: "double"}
	}

	if isTextScalar(t) {
		return &Schema{Type: "string"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Schema{Type: "integer", Format: integerFormat(t.Kind())}

	case reflect.Float32:
		return &Schema{Type: "number", Format: "float"}

	case reflect.Float64:
		return &Schema{Type: "number", Format: "double"}

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
	}

	return &Schema{Type: "string"}
}

// integerFormat returns int32 for kinds of 32 bits or less and int64 for
// the rest. int and uint are treated as 64-bit.
func integerFormat(k reflect.Kind) string {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return "int32"
	default:
		return "int64"
	}
}
