package swagger

import (
	"fmt"
	"reflect"
)

// PolymorphicType registers a base type with the property that
// discriminates its concrete subtypes.
//
// A struct base must be embedded by every subtype. An interface base must
// be implemented by every subtype (or a pointer to it). Subtypes of an
// interface base, and subtypes registered with DeclaredMembersOnly, are
// described as allOf the base reference and their own members.
//
// See: https://swagger.io/specification/v2/#composition-and-inheritance-polymorphism
type PolymorphicType struct {
	Base          reflect.Type
	Discriminator string
	SubTypes      []reflect.Type

	// DeclaredMembersOnly leaves members promoted from a struct base out
	// of the subtype definitions.
	DeclaredMembersOnly bool
}

func (p PolymorphicType) validate() error {
	if p.Base == nil {
		return ErrNilType
	}
	if p.Discriminator == "" {
		return fmt.Errorf("%w: base %s", ErrNoDiscriminator, typeString(p.Base))
	}

	switch p.Base.Kind() {
	case reflect.Struct, reflect.Interface:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidBaseType, typeString(p.Base))
	}

	for _, sub := range p.SubTypes {
		if sub == nil {
			return ErrNilType
		}
		if sub.Kind() != reflect.Struct {
			return fmt.Errorf("%w: %s is not a struct", ErrInvalidSubType, typeString(sub))
		}
		if sub == p.Base {
			return fmt.Errorf("%w: %s is its own base", ErrInvalidSubType, typeString(sub))
		}

		if p.Base.Kind() == reflect.Interface {
			if !sub.Implements(p.Base) && !reflect.PointerTo(sub).Implements(p.Base) {
				return fmt.Errorf("%w: %s does not implement %s", ErrInvalidSubType, typeString(sub), typeString(p.Base))
			}
			continue
		}
		if !embeds(sub, p.Base) {
			return fmt.Errorf("%w: %s does not embed %s", ErrInvalidSubType, typeString(sub), typeString(p.Base))
		}
	}
	return nil
}

// embeds reports whether sub has an embedded field of type base or *base.
func embeds(sub, base reflect.Type) bool {
	for i := range sub.NumField() {
		f := sub.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == base {
			return true
		}
	}
	return false
}

// composesBase reports whether subtype definitions of p reference their
// base through allOf instead of repeating its members.
func (p *PolymorphicType) composesBase() bool {
	return p.DeclaredMembersOnly || p.Base.Kind() == reflect.Interface
}
