package swagger

import (
	"reflect"
	"strconv"
	"strings"
)

// Constraints are the validation and documentation facts declared on a
// member through its `validate` and `swagger` struct tags. Nil pointers and
// empty strings mean the constraint is absent.
type Constraints struct {
	Title       string
	Description string
	Format      string
	Pattern     string

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64

	MinLength *int
	MaxLength *int
	MinItems  *int
	MaxItems  *int

	UniqueItems bool
	ReadOnly    bool

	// Enum, Default and Example hold raw tag text. They are converted to
	// typed literals once the schema type of the member is known.
	Enum    []string
	Default *string
	Example *string
}

// memberTags is the outcome of reading the tags of one struct field.
type memberTags struct {
	constraints Constraints
	required    bool
	deprecated  bool
	ignored     bool
}

// limitKind selects how numeric validator limits apply to a field.
type limitKind int

const (
	limitValue limitKind = iota
	limitLength
	limitItems
	limitNone
)

func limitKindOf(t reflect.Type) limitKind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if isKnownPrimitive(t) && t.Kind() == reflect.Slice {
		return limitLength
	}
	switch t.Kind() {
	case reflect.String:
		return limitLength
	case reflect.Slice, reflect.Array:
		return limitItems
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return limitValue
	}
	return limitNone
}

// parseMemberTags reads the `validate` tag (go-playground/validator
// vocabulary) followed by the `swagger` tag, so that explicit swagger keys
// win over inferred ones.
func parseMemberTags(field reflect.StructField) memberTags {
	var m memberTags
	applyValidateTag(&m, field.Tag.Get("validate"), limitKindOf(field.Type))
	applySwaggerTag(&m, field.Tag.Get("swagger"))
	return m
}

// applyValidateTag projects validator rules onto schema constraints.
// Rules after "dive" describe container elements and are not projected.
// Alternatives joined with "|" and cross-field rules are ignored.
//
// See: https://pkg.go.dev/github.com/go-playground/validator/v10#hdr-Baked_In_Validators_and_Tags
func applyValidateTag(m *memberTags, tag string, kind limitKind) {
	if tag == "" || tag == "-" {
		return
	}

	c := &m.constraints
	for rule := range strings.SplitSeq(tag, ",") {
		if rule == "dive" || rule == "keys" {
			return
		}
		if strings.Contains(rule, "|") {
			continue
		}
		key, value, _ := strings.Cut(rule, "=")

		switch key {
		case "required":
			m.required = true
		case "min", "gte":
			setLimit(c, kind, value, true, false)
		case "max", "lte":
			setLimit(c, kind, value, false, false)
		case "gt":
			setLimit(c, kind, value, true, true)
		case "lt":
			setLimit(c, kind, value, false, true)
		case "len":
			setLimit(c, kind, value, true, false)
			setLimit(c, kind, value, false, false)
		case "oneof":
			c.Enum = strings.Fields(value)
		case "email":
			c.Format = "email"
		case "url", "uri", "http_url":
			c.Format = "uri"
		case "uuid", "uuid4", "uuid7":
			c.Format = "uuid"
		case "hostname", "fqdn":
			c.Format = "hostname"
		case "ipv4":
			c.Format = "ipv4"
		case "ipv6":
			c.Format = "ipv6"
		case "datetime":
			c.Format = "date-time"
		case "unique":
			if kind == limitItems {
				c.UniqueItems = true
			}
		case "alpha":
			c.Pattern = "^[a-zA-Z]+$"
		case "alphanum":
			c.Pattern = "^[a-zA-Z0-9]+$"
		case "numeric":
			c.Pattern = "^[-+]?[0-9]+(?:\\.[0-9]+)?$"
		}
	}
}

// setLimit stores a lower or upper bound. Exclusive bounds on lengths and
// item counts are shifted by one since Swagger only has inclusive forms
// for them.
func setLimit(c *Constraints, kind limitKind, value string, lower, exclusive bool) {
	switch kind {
	case limitValue:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return
		}
		if lower {
			c.Minimum, c.ExclusiveMinimum = &v, exclusive
		} else {
			c.Maximum, c.ExclusiveMaximum = &v, exclusive
		}

	case limitLength, limitItems:
		n, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		if exclusive {
			if lower {
				n++
			} else {
				n--
			}
		}
		if kind == limitLength {
			if lower {
				c.MinLength = &n
			} else {
				c.MaxLength = &n
			}
			return
		}
		if lower {
			c.MinItems = &n
		} else {
			c.MaxItems = &n
		}
	}
}

// applySwaggerTag parses the `swagger` struct tag. Keys are separated by
// commas; "pattern=" consumes the remainder of the tag so that expressions
// may contain commas.
//
//	Name string `swagger:"description=Display name,minLength=1,example=Widget"`
//	Code string `swagger:"required,pattern=^[A-Z]{2,3}$"`
func applySwaggerTag(m *memberTags, tag string) {
	if tag == "" {
		return
	}
	if tag == "-" {
		m.ignored = true
		return
	}

	c := &m.constraints
	for tag != "" {
		var part string
		if strings.HasPrefix(tag, "pattern=") {
			part, tag = tag, ""
		} else {
			part, tag, _ = strings.Cut(tag, ",")
		}

		key, value, hasValue := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if hasValue && key != "pattern" {
			value = strings.TrimSpace(value)
		}

		switch key {
		case "required":
			m.required = true
		case "deprecated":
			m.deprecated = true
		case "description":
			c.Description = value
		case "title":
			c.Title = value
		case "format":
			c.Format = value
		case "pattern":
			c.Pattern = value
		case "example":
			c.Example = &value
		case "default":
			c.Default = &value
		case "enum":
			c.Enum = strings.Split(value, "|")
		case "minimum":
			c.Minimum = parseFloatPtr(value)
		case "maximum":
			c.Maximum = parseFloatPtr(value)
		case "exclusiveMinimum":
			c.ExclusiveMinimum = true
		case "exclusiveMaximum":
			c.ExclusiveMaximum = true
		case "multipleOf":
			c.MultipleOf = parseFloatPtr(value)
		case "minLength":
			c.MinLength = parseIntPtr(value)
		case "maxLength":
			c.MaxLength = parseIntPtr(value)
		case "minItems":
			c.MinItems = parseIntPtr(value)
		case "maxItems":
			c.MaxItems = parseIntPtr(value)
		case "uniqueItems":
			c.UniqueItems = true
		case "readOnly":
			c.ReadOnly = true
		}
	}
}

func parseFloatPtr(value string) *float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntPtr(value string) *int {
	v, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &v
}

// applyConstraints folds member constraints into a property schema. Only
// optional fields are written; the schema's type and shape never change,
// and $ref nodes are left untouched.
func applyConstraints(s *Schema, c Constraints) {
	if s == nil || s.Ref != "" {
		return
	}

	if c.Title != "" {
		s.Title = c.Title
	}
	if c.Description != "" {
		s.Description = c.Description
	}
	if c.Format != "" && s.Type != "array" && s.Type != "object" {
		s.Format = c.Format
	}
	if c.Pattern != "" {
		s.Pattern = c.Pattern
	}
	if c.Minimum != nil {
		s.Minimum = c.Minimum
		s.ExclusiveMinimum = c.ExclusiveMinimum
	}
	if c.Maximum != nil {
		s.Maximum = c.Maximum
		s.ExclusiveMaximum = c.ExclusiveMaximum
	}
	if c.MultipleOf != nil {
		s.MultipleOf = c.MultipleOf
	}
	if c.MinLength != nil {
		s.MinLength = c.MinLength
	}
	if c.MaxLength != nil {
		s.MaxLength = c.MaxLength
	}
	if c.MinItems != nil {
		s.MinItems = c.MinItems
	}
	if c.MaxItems != nil {
		s.MaxItems = c.MaxItems
	}
	if c.UniqueItems {
		s.UniqueItems = true
	}
	if c.ReadOnly {
		s.ReadOnly = true
	}

	if len(c.Enum) > 0 {
		target := s
		if s.Type == "array" && s.Items != nil && s.Items.Ref == "" {
			target = s.Items
		}
		target.Enum = make([]any, len(c.Enum))
		for i, v := range c.Enum {
			target.Enum[i] = parseLiteral(target.Type, v)
		}
	}
	if c.Default != nil {
		s.Default = parseLiteral(s.Type, *c.Default)
	}
	if c.Example != nil {
		s.Example = parseLiteral(s.Type, *c.Example)
	}
}

// parseLiteral converts tag text to a value of the given schema type,
// falling back to the raw string.
func parseLiteral(schemaType, value string) any {
	switch schemaType {
	case "integer":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return value
}
