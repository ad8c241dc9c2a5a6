package swagger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Configuration errors.
var (
	// ErrNoDiscriminator is returned when a polymorphic type is registered
	// without a discriminator property name.
	ErrNoDiscriminator = errors.New("swagger: discriminator must be set before subtypes are registered")

	// ErrInvalidBaseType is returned when a polymorphic base is neither a
	// struct nor an interface.
	ErrInvalidBaseType = errors.New("swagger: polymorphic base must be a struct or interface type")

	// ErrInvalidSubType is returned when a registered subtype does not embed
	// (struct base) or implement (interface base) its base type.
	ErrInvalidSubType = errors.New("swagger: invalid polymorphic subtype")

	// ErrInvalidTypeMapping is returned when a custom type mapping produces
	// a schema with neither a type nor a $ref.
	ErrInvalidTypeMapping = errors.New("swagger: custom type mapping must set type or $ref")

	// ErrInvalidEnum is returned when enum members cannot be represented
	// as literal values of the enum's underlying kind.
	ErrInvalidEnum = errors.New("swagger: invalid enum members")

	// ErrNilType is returned when a nil reflect.Type is passed to the registry.
	ErrNilType = errors.New("swagger: type must not be nil")

	// ErrNotStruct is returned when members are requested for a type that
	// is not a struct.
	ErrNotStruct = errors.New("swagger: type is not a struct")
)

// Generation errors.
var (
	// ErrUnknownVersion is returned when a document is requested for an API
	// version that is not configured.
	ErrUnknownVersion = errors.New("swagger: unknown api version")

	// ErrNoActionProvider is returned when a generator has no action source.
	ErrNoActionProvider = errors.New("swagger: action provider must not be nil")
)

// ConflictingSchemaIDError is returned when two distinct types compute the
// same definition name.
type ConflictingSchemaIDError struct {
	SchemaID string
	Existing reflect.Type
	Incoming reflect.Type
}

func (e *ConflictingSchemaIDError) Error() string {
	return fmt.Sprintf(
		"swagger: conflicting schema ids: duplicate schema id %q detected for types %s and %s; "+
			"set SchemaOptions.UseFullTypeNames or provide a SchemaIDSelector",
		e.SchemaID, typeString(e.Existing), typeString(e.Incoming))
}

// DiscriminatorError is returned when a polymorphic base struct does not
// expose its discriminator as a property.
type DiscriminatorError struct {
	Base          reflect.Type
	Discriminator string
}

func (e *DiscriminatorError) Error() string {
	return fmt.Sprintf("swagger: polymorphic base %s has no property %q to use as discriminator",
		typeString(e.Base), e.Discriminator)
}

// ConflictingActionsError is returned when more than one action maps to the
// same path and method and no resolver is configured.
type ConflictingActionsError struct {
	Path    string
	Method  string
	Actions []*Action
}

func (e *ConflictingActionsError) Error() string {
	ids := make([]string, len(e.Actions))
	for i, a := range e.Actions {
		ids[i] = a.FriendlyID()
	}
	return fmt.Sprintf(
		"swagger: multiple operations with path %q and method %q (%s); "+
			"set Config.ResolveConflictingActions to choose one",
		e.Path, e.Method, strings.Join(ids, ", "))
}

// typeString renders a type with its package path so that two types sharing
// a simple name are distinguishable in error messages.
func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
