package swagger

import (
	"reflect"
	"slices"
)

// SchemaFilter post-processes an object schema once it is fully built.
type SchemaFilter interface {
	Apply(schema *Schema, ctx *SchemaFilterContext) error
}

// SchemaFilterContext describes the schema handed to a SchemaFilter.
type SchemaFilterContext struct {
	// Type is the Go type the schema describes.
	Type reflect.Type

	// Name is the definition name, or empty for an inline object.
	Name string

	// Members are the extracted properties the schema was built from.
	Members []Property

	// Registry lets the filter register further types.
	Registry *SchemaRegistry
}

// SchemaFilterFunc adapts a function to SchemaFilter.
type SchemaFilterFunc func(schema *Schema, ctx *SchemaFilterContext) error

func (f SchemaFilterFunc) Apply(schema *Schema, ctx *SchemaFilterContext) error {
	return f(schema, ctx)
}

// OperationFilter post-processes an assembled operation.
type OperationFilter interface {
	Apply(op *Operation, ctx *OperationFilterContext) error
}

// OperationFilterContext describes the operation handed to an
// OperationFilter.
type OperationFilterContext struct {
	Action   *Action
	Path     string
	Method   string
	Registry *SchemaRegistry
}

// OperationFilterFunc adapts a function to OperationFilter.
type OperationFilterFunc func(op *Operation, ctx *OperationFilterContext) error

func (f OperationFilterFunc) Apply(op *Operation, ctx *OperationFilterContext) error {
	return f(op, ctx)
}

// DocumentFilter post-processes a complete document.
type DocumentFilter interface {
	Apply(doc *Document, ctx *DocumentFilterContext) error
}

// DocumentFilterContext describes the document handed to a DocumentFilter.
type DocumentFilterContext struct {
	Version  string
	RootURL  string
	Actions  []*Action
	Registry *SchemaRegistry
}

// DocumentFilterFunc adapts a function to DocumentFilter.
type DocumentFilterFunc func(doc *Document, ctx *DocumentFilterContext) error

func (f DocumentFilterFunc) Apply(doc *Document, ctx *DocumentFilterContext) error {
	return f(doc, ctx)
}

// CamelCasePropertyNames camel-cases every property name of an object
// schema and its required list. A rename that would collide with an
// existing property is skipped.
func CamelCasePropertyNames() SchemaFilter {
	return SchemaFilterFunc(func(schema *Schema, _ *SchemaFilterContext) error {
		camelCaseProperties(schema)
		for _, part := range schema.AllOf {
			if part.Ref == "" {
				camelCaseProperties(part)
			}
		}
		return nil
	})
}

func camelCaseProperties(s *Schema) {
	for _, name := range s.Properties.Names() {
		camel := CamelCase(name)
		if camel == name || !s.Properties.Rename(name, camel) {
			continue
		}
		if i := slices.Index(s.Required, name); i >= 0 {
			s.Required[i] = camel
		}
		if s.Discriminator == name {
			s.Discriminator = camel
		}
	}
}

// NullableProperties marks non-reference properties backed by pointer
// fields with x-nullable.
func NullableProperties() SchemaFilter {
	return SchemaFilterFunc(func(schema *Schema, ctx *SchemaFilterContext) error {
		target := schema
		for _, part := range schema.AllOf {
			if part.Ref == "" {
				target = part
			}
		}

		for _, m := range ctx.Members {
			if m.Type.Kind() != reflect.Pointer {
				continue
			}
			prop, ok := target.Properties.Get(m.Name)
			if !ok {
				prop, ok = target.Properties.Get(CamelCase(m.Name))
			}
			if ok && prop.Ref == "" {
				prop.Nullable = true
			}
		}
		return nil
	})
}
