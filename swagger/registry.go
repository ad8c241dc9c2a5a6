package swagger

import (
	"fmt"
	"reflect"
	"slices"
)

// SchemaRegistry builds schemas for Go types and collects the named
// definitions they reference.
//
// Primitives, enums, arrays and dictionaries are described inline. Object
// types are never inlined: they are replaced by a $ref and queued, and the
// queue is drained breadth-first until every referenced definition exists.
// Each definition name is claimed by exactly one type; a second type
// computing the same name fails the generation with a
// *ConflictingSchemaIDError.
//
// A registry is scoped to one generation pass and is not safe for
// concurrent use.
type SchemaRegistry struct {
	opts      *SchemaOptions
	extractor Extractor
	filters   []SchemaFilter

	definitions map[string]*Schema
	claimed     map[string]reflect.Type
	queue       []pendingRef
	inlining    map[reflect.Type]bool
}

type pendingRef struct {
	name string
	typ  reflect.Type
}

// NewSchemaRegistry creates a registry. opts is shared read-only; docs may
// be nil.
func NewSchemaRegistry(opts *SchemaOptions, docs DocumentationProvider) *SchemaRegistry {
	if opts == nil {
		opts = &SchemaOptions{}
	}
	r := &SchemaRegistry{
		opts:        opts,
		extractor:   Extractor{Options: opts, Docs: docs},
		definitions: make(map[string]*Schema),
		claimed:     make(map[string]reflect.Type),
		inlining:    make(map[reflect.Type]bool),
	}
	for _, factory := range opts.SchemaFilters {
		r.filters = append(r.filters, factory())
	}
	return r
}

// Definitions returns the definitions built so far, keyed by name. The map
// is owned by the registry.
func (r *SchemaRegistry) Definitions() map[string]*Schema {
	return r.definitions
}

// Options returns the schema options the registry was created with.
func (r *SchemaRegistry) Options() *SchemaOptions {
	return r.opts
}

// GetOrRegister returns the inline schema of t and expands every object
// type it references, directly or transitively, into a definition. The
// returned schema is a $ref for object types.
//
// See: https://swagger.io/specification/v2/#definitions-object
func (r *SchemaRegistry) GetOrRegister(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, ErrNilType
	}
	s, err := r.inlineSchema(t)
	if err != nil {
		return nil, err
	}
	if err := r.drain(); err != nil {
		return nil, err
	}
	return s, nil
}

// drain expands queued references until the queue is empty.
func (r *SchemaRegistry) drain() error {
	for len(r.queue) > 0 {
		ref := r.queue[0]
		r.queue = r.queue[1:]

		if _, done := r.definitions[ref.name]; done {
			continue
		}
		s, err := r.definition(ref.typ, ref.name)
		if err != nil {
			return err
		}
		r.definitions[ref.name] = s
	}
	return nil
}

func (r *SchemaRegistry) inlineSchema(t reflect.Type) (*Schema, error) {
	if factory, ok := r.opts.typeMapping(t); ok {
		s := factory()
		if s == nil || (s.Type == "" && s.Ref == "") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTypeMapping, typeString(t))
		}
		return s.Clone(), nil
	}

	info := Classify(t, r.opts)
	switch info.Category {
	case CategoryPrimitive:
		return PrimitiveSchema(t), nil

	case CategoryEnum:
		members, err := enumMembers(t, r.opts)
		if err != nil {
			return nil, err
		}
		return EnumSchema(t, members, r.opts), nil

	case CategoryNullable:
		return r.inlineSchema(info.Elem)

	case CategoryAny:
		return &Schema{Type: "object"}, nil

	case CategoryDictionary, CategoryArray:
		if r.inlining[t] {
			// A named container reached again while it is being expanded:
			// cut the cycle with a definition.
			return r.reference(t)
		}
		return r.containerSchema(info)

	default:
		if info.Anonymous {
			return r.objectSchema(t, "")
		}
		return r.reference(t)
	}
}

func (r *SchemaRegistry) containerSchema(info TypeInfo) (*Schema, error) {
	if info.Type.Name() != "" {
		r.inlining[info.Type] = true
		defer delete(r.inlining, info.Type)
	}

	elem, err := r.inlineSchema(info.Elem)
	if err != nil {
		return nil, err
	}
	if info.Category == CategoryDictionary {
		return &Schema{Type: "object", AdditionalProperties: elem}, nil
	}
	return &Schema{Type: "array", Items: elem}, nil
}

// reference claims the definition name of t, queues t when it is new and
// returns a $ref to it. Registered subtypes of a polymorphic base are
// queued along with it.
func (r *SchemaRegistry) reference(t reflect.Type) (*Schema, error) {
	name := SchemaID(t, r.opts)
	if existing, ok := r.claimed[name]; ok {
		if existing != t {
			return nil, &ConflictingSchemaIDError{SchemaID: name, Existing: existing, Incoming: t}
		}
		return RefSchema(name), nil
	}

	r.claimed[name] = t
	r.queue = append(r.queue, pendingRef{name: name, typ: t})

	if p := r.opts.polymorphicBase(t); p != nil {
		for _, sub := range p.SubTypes {
			if _, err := r.reference(sub); err != nil {
				return nil, err
			}
		}
	}
	return RefSchema(name), nil
}

// definition builds the schema stored under name for t.
func (r *SchemaRegistry) definition(t reflect.Type, name string) (*Schema, error) {
	info := Classify(t, r.opts)

	switch {
	case info.SelfReferencing:
		if t.Kind() == reflect.Map {
			return &Schema{Type: "object", AdditionalProperties: RefSchema(name)}, nil
		}
		// A list of itself has no expandable shape.
		return &Schema{Type: "object"}, nil

	case info.Category == CategoryDictionary || info.Category == CategoryArray:
		return r.containerSchema(info)

	case t.Kind() == reflect.Interface:
		return r.interfaceBaseSchema(t, name)
	}

	return r.objectSchema(t, name)
}

// objectSchema builds the object schema of a struct type and runs the
// schema filters on it. name is empty for anonymous structs.
func (r *SchemaRegistry) objectSchema(t reflect.Type, name string) (*Schema, error) {
	members, err := r.extractor.Extract(t)
	if err != nil {
		return nil, err
	}

	s := &Schema{Type: "object"}
	if name != "" {
		s.Description = r.extractor.docs().TypeDoc(t).Text()
	}

	if len(members) > 0 {
		s.Properties = NewProperties()
	}
	for _, m := range members {
		ps, err := r.inlineSchema(m.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", typeString(t), m.FieldName, err)
		}
		applyConstraints(ps, m.Constraints)
		s.Properties.Set(m.Name, ps)
		if m.Required {
			s.Required = append(s.Required, m.Name)
		}
	}

	if p := r.opts.polymorphicBase(t); p != nil {
		if _, ok := s.Properties.Get(p.Discriminator); !ok {
			return nil, &DiscriminatorError{Base: t, Discriminator: p.Discriminator}
		}
		s.Discriminator = p.Discriminator
		if !slices.Contains(s.Required, p.Discriminator) {
			s.Required = append(s.Required, p.Discriminator)
		}
	}

	if p := r.opts.polymorphicSubType(t); p != nil && p.composesBase() {
		base, err := r.reference(p.Base)
		if err != nil {
			return nil, err
		}
		own := s
		s = &Schema{Description: own.Description, AllOf: []*Schema{base, own}}
		own.Description = ""
	}

	if err := r.applyFilters(s, t, name, members); err != nil {
		return nil, err
	}
	return s, nil
}

// interfaceBaseSchema describes a polymorphic interface base: an object
// carrying only its string discriminator.
func (r *SchemaRegistry) interfaceBaseSchema(t reflect.Type, name string) (*Schema, error) {
	p := r.opts.polymorphicBase(t)
	if p == nil {
		return &Schema{Type: "object"}, nil
	}

	s := &Schema{
		Type:          "object",
		Description:   r.extractor.docs().TypeDoc(t).Text(),
		Properties:    NewProperties(),
		Required:      []string{p.Discriminator},
		Discriminator: p.Discriminator,
	}
	s.Properties.Set(p.Discriminator, &Schema{Type: "string"})

	if err := r.applyFilters(s, t, name, nil); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SchemaRegistry) applyFilters(s *Schema, t reflect.Type, name string, members []Property) error {
	if len(r.filters) == 0 {
		return nil
	}
	ctx := &SchemaFilterContext{Type: t, Name: name, Members: members, Registry: r}
	for _, f := range r.filters {
		if err := f.Apply(s, ctx); err != nil {
			return fmt.Errorf("swagger: schema filter for %s: %w", typeString(t), err)
		}
	}
	return nil
}
