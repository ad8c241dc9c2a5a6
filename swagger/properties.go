package swagger

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Property is one serializable member of an object type.
type Property struct {
	// Name is the serialized name.
	Name string

	// FieldName is the Go field name.
	FieldName string

	Type reflect.Type

	// Index is the field index sequence for reflect.Value.FieldByIndex.
	Index []int

	Required bool
	Obsolete bool

	Constraints Constraints
}

// Extractor enumerates the serializable members of struct types.
type Extractor struct {
	Options *SchemaOptions
	Docs    DocumentationProvider

	// NameTag is the struct tag holding serialized names. Defaults to
	// "json"; "schema" reads gorilla/schema names for query objects.
	NameTag string
}

// ExtractProperties returns the serializable members of t in declaration
// order, reading names from `json` tags.
func ExtractProperties(t reflect.Type, opts *SchemaOptions) ([]Property, error) {
	return Extractor{Options: opts}.Extract(t)
}

type fieldCandidate struct {
	prop   Property
	tagged bool
}

// Extract returns the serializable members of t in declaration order.
//
// Exported fields are members unless tagged "-". Embedded structs without
// a tag name are flattened, and a field promoted from a deeper level is
// hidden by a shallower one of the same name the way encoding/json does
// it. A struct embedded twice at the same depth makes its fields
// ambiguous, and they are dropped. Fields of an embedded polymorphic base are skipped when the subtype
// is registered with DeclaredMembersOnly. Obsolete members are dropped only
// when SchemaOptions.IgnoreObsoleteProperties is set.
func (e Extractor) Extract(t reflect.Type) ([]Property, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, typeString(t))
	}

	var skipBase reflect.Type
	if p := e.Options.polymorphicSubType(t); p != nil && p.DeclaredMembersOnly {
		skipBase = p.Base
	}

	// count is how many times typ is embedded at this depth. Fields of a
	// type embedded more than once are recorded twice so that
	// dominantFields drops them as ambiguous.
	type level struct {
		typ   reflect.Type
		index []int
		count int
	}

	var candidates []fieldCandidate
	visited := map[reflect.Type]bool{}
	next := []level{{typ: t, count: 1}}

	for len(next) > 0 {
		current := next
		next = nil
		nextPos := map[reflect.Type]int{}

		for _, lv := range current {
			if visited[lv.typ] {
				continue
			}
			visited[lv.typ] = true

			for i := range lv.typ.NumField() {
				sf := lv.typ.Field(i)
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}

				if sf.Anonymous {
					if !sf.IsExported() && ft.Kind() != reflect.Struct {
						continue
					}
				} else if !sf.IsExported() {
					continue
				}

				nameTag := sf.Tag.Get(e.nameTag())
				if nameTag == "-" {
					continue
				}
				name, _, _ := strings.Cut(nameTag, ",")

				index := append(slices.Clone(lv.index), i)

				if sf.Anonymous && name == "" && ft.Kind() == reflect.Struct {
					if skipBase != nil && ft == skipBase {
						continue
					}
					if pos, ok := nextPos[ft]; ok {
						next[pos].count++
						continue
					}
					nextPos[ft] = len(next)
					next = append(next, level{typ: ft, index: index, count: 1})
					continue
				}
				if !sf.IsExported() {
					continue
				}

				tags := parseMemberTags(sf)
				if tags.ignored {
					continue
				}

				prop := Property{
					Name:        name,
					FieldName:   sf.Name,
					Type:        sf.Type,
					Index:       index,
					Required:    tags.required,
					Obsolete:    tags.deprecated,
					Constraints: tags.constraints,
				}
				if prop.Name == "" {
					prop.Name = sf.Name
				}

				doc := e.docs().FieldDoc(lv.typ, sf)
				if doc.Deprecated {
					prop.Obsolete = true
				}
				if prop.Constraints.Description == "" {
					prop.Constraints.Description = doc.Text()
				}

				candidates = append(candidates, fieldCandidate{prop: prop, tagged: name != ""})
				if lv.count > 1 {
					candidates = append(candidates, candidates[len(candidates)-1])
				}
			}
		}
	}

	props := dominantFields(candidates)
	if e.Options != nil && e.Options.IgnoreObsoleteProperties {
		props = slices.DeleteFunc(props, func(p Property) bool { return p.Obsolete })
	}
	return props, nil
}

func (e Extractor) nameTag() string {
	if e.NameTag == "" {
		return "json"
	}
	return e.NameTag
}

func (e Extractor) docs() DocumentationProvider {
	if e.Docs == nil {
		return noDocs{}
	}
	return e.Docs
}

// dominantFields resolves name conflicts between candidates and returns the
// survivors ordered by field index. The shallowest field wins; at equal
// depth a single tagged field wins; otherwise every field of that name is
// dropped.
func dominantFields(candidates []fieldCandidate) []Property {
	byName := make(map[string][]fieldCandidate)
	for _, c := range candidates {
		byName[c.prop.Name] = append(byName[c.prop.Name], c)
	}

	var props []Property
	for _, group := range byName {
		if p, ok := dominantField(group); ok {
			props = append(props, p)
		}
	}

	slices.SortFunc(props, func(a, b Property) int {
		return slices.Compare(a.Index, b.Index)
	})
	return props
}

func dominantField(group []fieldCandidate) (Property, bool) {
	if len(group) == 1 {
		return group[0].prop, true
	}

	depth := len(group[0].prop.Index)
	for _, c := range group[1:] {
		depth = min(depth, len(c.prop.Index))
	}

	var shallow []fieldCandidate
	for _, c := range group {
		if len(c.prop.Index) == depth {
			shallow = append(shallow, c)
		}
	}
	if len(shallow) == 1 {
		return shallow[0].prop, true
	}

	var tagged []fieldCandidate
	for _, c := range shallow {
		if c.tagged {
			tagged = append(tagged, c)
		}
	}
	if len(tagged) == 1 {
		return tagged[0].prop, true
	}
	return Property{}, false
}
