package swagger

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

// DefinitionsPrefix is the JSON pointer prefix of every $ref produced by
// the schema registry.
const DefinitionsPrefix = "#/definitions/"

// Kind is the shape of a Schema node.
type Kind int

const (
	KindPrimitive Kind = iota
	KindRef
	KindArray
	KindDictionary
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindArray:
		return "array"
	case KindDictionary:
		return "dictionary"
	case KindObject:
		return "object"
	default:
		return "primitive"
	}
}

// Schema is a Swagger 2.0 Schema Object, the subset of JSON Schema that
// Swagger 2.0 accepts. A node is a $ref, a primitive, an array, a
// dictionary (object with additionalProperties) or an object with
// properties; Kind reports which.
//
// See: https://swagger.io/specification/v2/#schema-object
type Schema struct {
	Ref string `json:"$ref,omitempty"`

	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`

	// Numeric constraints.
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty"`

	// String constraints.
	MaxLength *int   `json:"maxLength,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Array constraints.
	Items       *Schema `json:"items,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	Enum []any `json:"enum,omitempty"`

	// Object constraints. Required is nil, never empty, when no property
	// is required.
	Required             []string    `json:"required,omitempty"`
	Properties           *Properties `json:"properties,omitempty"`
	AdditionalProperties *Schema     `json:"additionalProperties,omitempty"`
	AllOf                []*Schema   `json:"allOf,omitempty"`
	Discriminator        string      `json:"discriminator,omitempty"`

	ReadOnly bool `json:"readOnly,omitempty"`
	Example  any  `json:"example,omitempty"`

	// Nullable is the x-nullable vendor extension.
	Nullable bool `json:"x-nullable,omitempty"`
}

// RefSchema returns a $ref node pointing at the named definition.
func RefSchema(name string) *Schema {
	return &Schema{Ref: DefinitionsPrefix + name}
}

// RefName returns the definition name a $ref node points at, or an empty
// string for any other node.
func (s *Schema) RefName() string {
	return strings.TrimPrefix(s.Ref, DefinitionsPrefix)
}

// Kind reports the shape of the node.
func (s *Schema) Kind() Kind {
	switch {
	case s.Ref != "":
		return KindRef
	case s.Type == "array":
		return KindArray
	case s.Type == "object" && s.AdditionalProperties != nil && s.Properties == nil:
		return KindDictionary
	case s.Type == "object" || s.Properties != nil || len(s.AllOf) > 0:
		return KindObject
	default:
		return KindPrimitive
	}
}

// Clone returns a deep copy of the schema tree. Enum, Default and Example
// values are shared.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = s.Items.Clone()
	c.AdditionalProperties = s.AdditionalProperties.Clone()
	c.Required = slices.Clone(s.Required)
	c.Enum = slices.Clone(s.Enum)
	if s.Properties != nil {
		c.Properties = NewProperties()
		for name, p := range s.Properties.All() {
			c.Properties.Set(name, p.Clone())
		}
	}
	if s.AllOf != nil {
		c.AllOf = make([]*Schema, len(s.AllOf))
		for i, sub := range s.AllOf {
			c.AllOf[i] = sub.Clone()
		}
	}
	return &c
}

// Properties is an insertion-ordered map of property name to schema.
// It marshals to a JSON object whose keys follow declaration order.
type Properties struct {
	names  []string
	values map[string]*Schema
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]*Schema)}
}

// Set stores the schema under name. A new name is appended; an existing
// name keeps its position.
func (p *Properties) Set(name string, s *Schema) {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = s
}

// Get returns the schema stored under name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.values[name]
	return s, ok
}

// Delete removes name from the map.
func (p *Properties) Delete(name string) {
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	p.names = slices.DeleteFunc(p.names, func(n string) bool { return n == name })
}

// Rename changes the key of a property in place. It reports false when
// oldName is absent or newName is already taken by another property.
func (p *Properties) Rename(oldName, newName string) bool {
	s, ok := p.values[oldName]
	if !ok {
		return false
	}
	if oldName == newName {
		return true
	}
	if _, taken := p.values[newName]; taken {
		return false
	}
	delete(p.values, oldName)
	p.values[newName] = s
	p.names[slices.Index(p.names, oldName)] = newName
	return true
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns the property names in declaration order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.names)
}

// All iterates properties in declaration order.
func (p *Properties) All() iter.Seq2[string, *Schema] {
	return func(yield func(string, *Schema) bool) {
		if p == nil {
			return
		}
		for _, name := range p.names {
			if !yield(name, p.values[name]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the properties as a JSON object in declaration order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.values[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("swagger: properties must be a JSON object")
	}

	p.names = nil
	p.values = make(map[string]*Schema)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("swagger: invalid property key %v", tok)
		}
		var s Schema
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		p.Set(name, &s)
	}
	_, err = dec.Token()
	return err
}
