package swagger

import (
	"encoding"
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Category is the shape class of a Go type as seen by the schema engine.
type Category int

const (
	CategoryPrimitive Category = iota
	CategoryEnum
	CategoryNullable
	CategoryDictionary
	CategoryArray
	CategoryObject
	// CategoryAny covers types whose shape is not statically knowable.
	// They are described as an untyped object.
	CategoryAny
)

func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "primitive"
	case CategoryEnum:
		return "enum"
	case CategoryNullable:
		return "nullable"
	case CategoryDictionary:
		return "dictionary"
	case CategoryArray:
		return "array"
	case CategoryObject:
		return "object"
	default:
		return "any"
	}
}

// TypeInfo describes a classified type.
type TypeInfo struct {
	Type     reflect.Type
	Category Category

	// Elem is the wrapped type of a nullable, the element type of an array
	// or the value type of a dictionary.
	Elem reflect.Type

	// Key is the key type of a dictionary.
	Key reflect.Type

	// SelfReferencing is set for named containers whose element or value
	// type is the container itself, e.g. type Tree []Tree.
	SelfReferencing bool

	// Anonymous is set for unnamed struct types, which are described inline.
	Anonymous bool
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	uuidType          = reflect.TypeFor[uuid.UUID]()
	jsonNumberType    = reflect.TypeFor[json.Number]()
	rawMessageType    = reflect.TypeFor[json.RawMessage]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	httpRequestType   = reflect.TypeFor[http.Request]()
	httpResponseType  = reflect.TypeFor[http.Response]()
	httpHeaderType    = reflect.TypeFor[http.Header]()
)

// Classify reports the category of t. Untyped payloads are recognized
// first, then known primitives, enums and text scalars, then pointers
// (Go's nullable wrapper), dictionaries, arrays and finally objects. Maps
// are tested before slices so that no dictionary is ever described as an
// array.
func Classify(t reflect.Type, opts *SchemaOptions) TypeInfo {
	info := TypeInfo{Type: t}

	switch {
	case isEscapeHatch(t):
		info.Category = CategoryAny
		return info
	case isKnownPrimitive(t):
		info.Category = CategoryPrimitive
		return info
	case isEnum(t, opts):
		info.Category = CategoryEnum
		return info
	case isTextScalar(t):
		info.Category = CategoryPrimitive
		return info
	case t.Kind() == reflect.Pointer:
		info.Category = CategoryNullable
		info.Elem = t.Elem()
		return info
	}

	switch t.Kind() {
	case reflect.Interface:
		if opts.polymorphicBase(t) != nil {
			info.Category = CategoryObject
		} else {
			info.Category = CategoryAny
		}

	case reflect.Chan, reflect.Func, reflect.UnsafePointer,
		reflect.Complex64, reflect.Complex128, reflect.Invalid:
		info.Category = CategoryAny

	case reflect.Map:
		info.Category = CategoryDictionary
		info.Key = t.Key()
		info.Elem = t.Elem()
		info.SelfReferencing = selfReferencing(t)

	case reflect.Slice, reflect.Array:
		info.Category = CategoryArray
		info.Elem = t.Elem()
		info.SelfReferencing = selfReferencing(t)

	case reflect.Struct:
		info.Category = CategoryObject
		info.Anonymous = t.Name() == ""

	default:
		// Named scalars such as type UserID int64 or type Slug string.
		info.Category = CategoryPrimitive
	}

	if info.SelfReferencing {
		info.Category = CategoryObject
	}
	return info
}

// isKnownPrimitive reports whether t maps to a fixed primitive schema
// without looking at its declaration: the predeclared scalar types, []byte
// and the well-known library scalars.
func isKnownPrimitive(t reflect.Type) bool {
	switch t {
	case timeType, uuidType, jsonNumberType:
		return true
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && t.Elem().PkgPath() == "" {
		return true
	}
	if t.PkgPath() == "" && t.Name() != "" {
		switch t.Kind() {
		case reflect.Bool, reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
			reflect.Float32, reflect.Float64:
			return true
		}
	}
	return false
}

// isEscapeHatch reports whether t is an untyped payload that must not be
// walked for members.
func isEscapeHatch(t reflect.Type) bool {
	switch t {
	case rawMessageType, httpRequestType, httpResponseType, httpHeaderType:
		return true
	}
	if t.Kind() == reflect.Pointer {
		switch t.Elem() {
		case httpRequestType, httpResponseType:
			return true
		}
	}
	return false
}

// isTextScalar reports whether values of t are encoded as JSON strings
// through encoding.TextMarshaler.
func isTextScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return false
	}
	return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

func selfReferencing(t reflect.Type) bool {
	if t.Name() == "" {
		return false
	}
	elem := t.Elem()
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	return elem == t
}
