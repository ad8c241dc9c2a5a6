package swagger

import (
	"fmt"
	"reflect"
)

// SchemaOptions is the immutable-during-generation configuration of the
// schema engine. Build it once at startup, then share it read-only between
// registries; registration methods must not be called once documents are
// being generated.
type SchemaOptions struct {
	// DescribeAllEnumsAsStrings lists enum member names with type "string"
	// instead of the numeric values.
	DescribeAllEnumsAsStrings bool

	// CamelCaseEnumStrings camel-cases member names in string mode.
	CamelCaseEnumStrings bool

	// UseFullTypeNames derives definition names from the package path and
	// the type name instead of the simple type name.
	UseFullTypeNames bool

	// SchemaIDSelector overrides definition naming entirely.
	SchemaIDSelector func(t reflect.Type) string

	// IgnoreObsoleteProperties drops deprecated members from object schemas.
	IgnoreObsoleteProperties bool

	// SchemaFilters are invoked, in order, for every emitted object schema.
	// Each factory is called once per registry.
	SchemaFilters []func() SchemaFilter

	typeMappings map[reflect.Type]func() *Schema
	enums        map[reflect.Type][]EnumMember
	polyBases    map[reflect.Type]*PolymorphicType
	polySubTypes map[reflect.Type]*PolymorphicType
}

// MapType registers a custom schema for t, bypassing inference. The
// factory is called for every use site and its result is copied, so it
// may return a shared value.
func (o *SchemaOptions) MapType(t reflect.Type, factory func() *Schema) *SchemaOptions {
	if o.typeMappings == nil {
		o.typeMappings = make(map[reflect.Type]func() *Schema)
	}
	o.typeMappings[t] = factory
	return o
}

// AddSchemaFilter appends a schema filter factory.
func (o *SchemaOptions) AddSchemaFilter(factory func() SchemaFilter) *SchemaOptions {
	o.SchemaFilters = append(o.SchemaFilters, factory)
	return o
}

// RegisterEnum declares the members of an enumerated type. Go cannot
// enumerate constants through reflection, so enums are either registered
// here or implement Enumerator.
func (o *SchemaOptions) RegisterEnum(t reflect.Type, members ...EnumMember) error {
	if t == nil {
		return ErrNilType
	}
	if err := validateEnumMembers(t, members); err != nil {
		return err
	}
	if o.enums == nil {
		o.enums = make(map[reflect.Type][]EnumMember)
	}
	o.enums[t] = members
	return nil
}

// RegisterPolymorphicType declares a base type, its discriminator property
// and its concrete subtypes. The registration is validated eagerly.
func (o *SchemaOptions) RegisterPolymorphicType(p PolymorphicType) error {
	if err := p.validate(); err != nil {
		return err
	}
	if o.polyBases == nil {
		o.polyBases = make(map[reflect.Type]*PolymorphicType)
		o.polySubTypes = make(map[reflect.Type]*PolymorphicType)
	}
	if _, exists := o.polyBases[p.Base]; exists {
		return fmt.Errorf("swagger: polymorphic base %s already registered", typeString(p.Base))
	}

	reg := p
	o.polyBases[p.Base] = &reg
	for _, sub := range p.SubTypes {
		o.polySubTypes[sub] = &reg
	}
	return nil
}

func (o *SchemaOptions) typeMapping(t reflect.Type) (func() *Schema, bool) {
	if o == nil || o.typeMappings == nil {
		return nil, false
	}
	f, ok := o.typeMappings[t]
	return f, ok
}

func (o *SchemaOptions) polymorphicBase(t reflect.Type) *PolymorphicType {
	if o == nil || o.polyBases == nil {
		return nil
	}
	return o.polyBases[t]
}

func (o *SchemaOptions) polymorphicSubType(t reflect.Type) *PolymorphicType {
	if o == nil || o.polySubTypes == nil {
		return nil
	}
	return o.polySubTypes[t]
}
