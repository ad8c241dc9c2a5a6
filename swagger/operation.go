package swagger

import (
	"reflect"
	"regexp"
	"slices"
	"strconv"
)

// pathVarRegexp matches path template variables in the form {name}.
var pathVarRegexp = regexp.MustCompile(`\{([^}:]+)(?::[^}]*)?\}`)

// buildOperation converts an action into an Operation Object.
//
// See: https://swagger.io/specification/v2/#operation-object
func (g *Generator) buildOperation(reg *SchemaRegistry, a *Action) (*Operation, error) {
	op := &Operation{
		Tags:        slices.Clone(a.Tags),
		OperationID: a.OperationID,
		Summary:     a.Summary,
		Description: a.Description,
		Consumes:    slices.Clone(a.Consumes),
		Produces:    slices.Clone(a.Produces),
		Deprecated:  a.Obsolete,
		Security:    cloneSecurity(a.Security),
	}
	if len(op.Tags) == 0 {
		if group := g.cfg.GroupActionsBy(a); group != "" {
			op.Tags = []string{group}
		}
	}
	if op.OperationID == "" && a.Name != "" {
		op.OperationID = a.FriendlyID()
	}

	if g.cfg.Docs != nil && a.Handler != nil {
		doc := g.cfg.Docs.FuncDoc(a.Handler)
		if op.Summary == "" {
			op.Summary = doc.Summary
		}
		if op.Description == "" {
			op.Description = doc.Description
		}
		if doc.Deprecated {
			op.Deprecated = true
		}
	}

	params, err := g.buildParameters(reg, a)
	if err != nil {
		return nil, err
	}
	op.Parameters = params

	responses, err := buildResponses(reg, a)
	if err != nil {
		return nil, err
	}
	op.Responses = responses

	return op, nil
}

// buildParameters converts declared parameters and adds a string parameter
// for every path variable that is not declared.
//
// See: https://swagger.io/specification/v2/#parameter-object
func (g *Generator) buildParameters(reg *SchemaRegistry, a *Action) ([]*Parameter, error) {
	var params []*Parameter
	declaredPath := make(map[string]bool)

	for _, ap := range a.Parameters {
		if ap.Type == nil {
			ap.Type = reflect.TypeFor[string]()
		}

		switch {
		case ap.In == InBody:
			s, err := reg.GetOrRegister(ap.Type)
			if err != nil {
				return nil, err
			}
			name := ap.Name
			if name == "" {
				name = "body"
			}
			params = append(params, &Parameter{
				Name:        name,
				In:          InBody,
				Description: ap.Description,
				Required:    ap.Required,
				Schema:      s,
			})

		case ap.In == InQuery && g.isQueryObject(ap.Type):
			flattened, err := g.queryObjectParameters(reg, ap.Type)
			if err != nil {
				return nil, err
			}
			params = append(params, flattened...)

		default:
			c := Constraints{Format: ap.Format, Pattern: ap.Pattern}
			p, err := simpleParameter(reg, ap.Name, ap.In, ap.Type, ap.Required, ap.Description, c)
			if err != nil {
				return nil, err
			}
			if ap.In == InPath {
				declaredPath[ap.Name] = true
			}
			params = append(params, p)
		}
	}

	for _, m := range pathVarRegexp.FindAllStringSubmatch(a.Path, -1) {
		name := m[1]
		if declaredPath[name] {
			continue
		}
		params = append(params, &Parameter{Name: name, In: InPath, Required: true, Type: "string"})
	}

	return params, nil
}

// isQueryObject reports whether a query parameter type is a struct whose
// fields are the actual query parameters.
func (g *Generator) isQueryObject(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if _, mapped := g.cfg.Schema.typeMapping(t); mapped {
		return false
	}
	return t.Kind() == reflect.Struct && Classify(t, &g.cfg.Schema).Category == CategoryObject
}

// queryObjectParameters flattens a query object into one parameter per
// field, named after its gorilla/schema `schema` tag.
func (g *Generator) queryObjectParameters(reg *SchemaRegistry, t reflect.Type) ([]*Parameter, error) {
	props, err := Extractor{Options: &g.cfg.Schema, Docs: g.cfg.Docs, NameTag: "schema"}.Extract(t)
	if err != nil {
		return nil, err
	}

	params := make([]*Parameter, 0, len(props))
	for _, prop := range props {
		p, err := simpleParameter(reg, prop.Name, InQuery, prop.Type, prop.Required, prop.Constraints.Description, prop.Constraints)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// simpleParameter describes a non-body parameter inline. Path parameters
// are always required. Arrays in query and form parameters use the
// "multi" collection format; values that cannot be expressed without a
// schema are described as strings.
func simpleParameter(reg *SchemaRegistry, name, in string, t reflect.Type, required bool, description string, c Constraints) (*Parameter, error) {
	s, err := reg.GetOrRegister(t)
	if err != nil {
		return nil, err
	}
	s = s.Clone()
	applyConstraints(s, c)

	p := &Parameter{
		Name:        name,
		In:          in,
		Description: description,
		Required:    required || in == InPath,
	}

	switch s.Kind() {
	case KindArray:
		p.Type = "array"
		p.Items = itemsFromSchema(s.Items)
		if in == InQuery || in == InFormData {
			p.CollectionFormat = "multi"
		}
		p.MinItems, p.MaxItems, p.UniqueItems = s.MinItems, s.MaxItems, s.UniqueItems

	case KindPrimitive:
		p.Type = s.Type
		p.Format = s.Format
		p.Enum = s.Enum
		p.Default = s.Default
		p.Pattern = s.Pattern
		p.Minimum, p.ExclusiveMinimum = s.Minimum, s.ExclusiveMinimum
		p.Maximum, p.ExclusiveMaximum = s.Maximum, s.ExclusiveMaximum
		p.MinLength, p.MaxLength = s.MinLength, s.MaxLength
		p.MultipleOf = s.MultipleOf

	default:
		p.Type = "string"
	}
	return p, nil
}

// itemsFromSchema converts an array element schema to an Items Object.
//
// See: https://swagger.io/specification/v2/#items-object
func itemsFromSchema(s *Schema) *Items {
	if s == nil {
		return &Items{Type: "string"}
	}
	switch s.Kind() {
	case KindArray:
		return &Items{Type: "array", Items: itemsFromSchema(s.Items)}
	case KindPrimitive:
		if s.Type == "" || s.Type == "object" {
			return &Items{Type: "string"}
		}
		return &Items{Type: s.Type, Format: s.Format, Enum: s.Enum}
	default:
		return &Items{Type: "string"}
	}
}

// buildResponses returns the declared responses, or a single success
// response: 200 with the response type, or 204 when there is none.
//
// See: https://swagger.io/specification/v2/#responses-object
func buildResponses(reg *SchemaRegistry, a *Action) (map[string]*Response, error) {
	declared := a.Responses
	if len(declared) == 0 {
		if a.ResponseType != nil {
			declared = []ActionResponse{{StatusCode: 200, Type: a.ResponseType}}
		} else {
			declared = []ActionResponse{{StatusCode: 204}}
		}
	}

	responses := make(map[string]*Response, len(declared))
	for _, ar := range declared {
		key := "default"
		if ar.StatusCode != 0 {
			key = strconv.Itoa(ar.StatusCode)
		}

		resp := &Response{Description: ar.Description, Headers: CloneHeaders(ar.Headers)}
		if resp.Description == "" {
			resp.Description = defaultResponseDescription(ar.StatusCode)
		}
		if ar.Type != nil {
			s, err := reg.GetOrRegister(ar.Type)
			if err != nil {
				return nil, err
			}
			resp.Schema = s
		}
		responses[key] = resp
	}
	return responses, nil
}
