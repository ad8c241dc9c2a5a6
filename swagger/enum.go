package swagger

import (
	"fmt"
	"reflect"
)

// EnumMember is one named value of an enumerated type.
type EnumMember struct {
	Name  string
	Value any
}

// Enumerator can be implemented by integer or string types to list their
// members in declaration order.
//
//	func (Color) EnumMembers() []swagger.EnumMember {
//	    return []swagger.EnumMember{{"Red", Red}, {"Green", Green}, {"Blue", Blue}}
//	}
type Enumerator interface {
	EnumMembers() []EnumMember
}

var enumeratorType = reflect.TypeFor[Enumerator]()

func isEnum(t reflect.Type, opts *SchemaOptions) bool {
	if !enumKind(t.Kind()) {
		return false
	}
	if opts != nil && opts.enums != nil {
		if _, ok := opts.enums[t]; ok {
			return true
		}
	}
	return t.Implements(enumeratorType) || reflect.PointerTo(t).Implements(enumeratorType)
}

// enumMembers returns the members declared for t, validated against its
// underlying kind.
func enumMembers(t reflect.Type, opts *SchemaOptions) ([]EnumMember, error) {
	if opts != nil && opts.enums != nil {
		if members, ok := opts.enums[t]; ok {
			return members, nil
		}
	}

	var e Enumerator
	if t.Implements(enumeratorType) {
		e = reflect.Zero(t).Interface().(Enumerator)
	} else {
		e = reflect.New(t).Interface().(Enumerator)
	}
	members := e.EnumMembers()
	if err := validateEnumMembers(t, members); err != nil {
		return nil, err
	}
	return members, nil
}

func validateEnumMembers(t reflect.Type, members []EnumMember) error {
	if !enumKind(t.Kind()) {
		return fmt.Errorf("%w: %s is not an integer or string type", ErrInvalidEnum, typeString(t))
	}
	if len(members) == 0 {
		return fmt.Errorf("%w: %s has no members", ErrInvalidEnum, typeString(t))
	}
	for _, m := range members {
		if m.Name == "" {
			return fmt.Errorf("%w: %s has a member without a name", ErrInvalidEnum, typeString(t))
		}
		if _, ok := enumLiteral(t, m.Value); !ok {
			return fmt.Errorf("%w: %s member %s has value %v (%T)", ErrInvalidEnum, typeString(t), m.Name, m.Value, m.Value)
		}
	}
	return nil
}

// enumLiteral converts a member value to the literal written to the enum
// list: int64 or uint64 for integer kinds and string for string kinds.
func enumLiteral(t reflect.Type, value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	v := reflect.ValueOf(value)
	if t.Kind() == reflect.String {
		if v.Kind() != reflect.String {
			return nil, false
		}
		return v.String(), true
	}
	switch {
	case v.CanInt():
		return v.Int(), true
	case v.CanUint():
		return v.Uint(), true
	}
	return nil, false
}

func enumKind(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// EnumSchema maps an enumerated type to a primitive schema listing its
// members. Integer enums list their numeric values unless
// DescribeAllEnumsAsStrings is set, in which case the member names are
// listed as strings. String enums always list their string values.
func EnumSchema(t reflect.Type, members []EnumMember, opts *SchemaOptions) *Schema {
	if t.Kind() == reflect.String {
		s := &Schema{Type: "string", Enum: make([]any, 0, len(members))}
		for _, m := range members {
			v, _ := enumLiteral(t, m.Value)
			s.Enum = append(s.Enum, v)
		}
		return s
	}

	if opts != nil && opts.DescribeAllEnumsAsStrings {
		s := &Schema{Type: "string", Enum: make([]any, 0, len(members))}
		for _, m := range members {
			name := m.Name
			if opts.CamelCaseEnumStrings {
				name = CamelCase(name)
			}
			s.Enum = append(s.Enum, name)
		}
		return s
	}

	format := "int32"
	if k := t.Kind(); k == reflect.Int64 || k == reflect.Uint64 {
		format = "int64"
	}
	s := &Schema{Type: "integer", Format: format, Enum: make([]any, 0, len(members))}
	for _, m := range members {
		v, _ := enumLiteral(t, m.Value)
		s.Enum = append(s.Enum, v)
	}
	return s
}
