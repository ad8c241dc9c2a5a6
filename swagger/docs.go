package swagger

import (
	"reflect"
)

// Doc is the documentation attached to a declaration.
type Doc struct {
	Summary     string
	Description string
	Deprecated  bool
}

// Text returns the summary followed by the description.
func (d Doc) Text() string {
	switch {
	case d.Summary == "":
		return d.Description
	case d.Description == "":
		return d.Summary
	default:
		return d.Summary + "\n\n" + d.Description
	}
}

// DocumentationProvider looks up declaration documentation, typically
// source comments. Lookups that find nothing return the zero Doc.
type DocumentationProvider interface {
	// TypeDoc documents a named type.
	TypeDoc(t reflect.Type) Doc

	// FieldDoc documents a field declared directly in owner.
	FieldDoc(owner reflect.Type, field reflect.StructField) Doc

	// FuncDoc documents a handler function or method value.
	FuncDoc(fn any) Doc
}

type noDocs struct{}

func (noDocs) TypeDoc(reflect.Type) Doc                       { return Doc{} }
func (noDocs) FieldDoc(reflect.Type, reflect.StructField) Doc { return Doc{} }
func (noDocs) FuncDoc(any) Doc                                { return Doc{} }
