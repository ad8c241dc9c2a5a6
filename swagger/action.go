package swagger

import (
	"net/http"
	"reflect"
)

// Action is the reflected metadata of one HTTP endpoint.
type Action struct {
	// Method is the HTTP method in upper case.
	Method string

	// Path is the path template relative to the API root, with
	// parameters written as {name}.
	Path string

	// Controller groups related actions; it is the default tag.
	Controller string

	// Name identifies the action within its controller.
	Name string

	OperationID string
	Summary     string
	Description string
	Tags        []string

	// Version is the API version the action belongs to. Empty means every
	// version.
	Version string

	Obsolete bool
	Hidden   bool

	Parameters []ActionParameter

	// ResponseType is the type written on success. Nil means no body.
	ResponseType reflect.Type

	// Responses, when set, replace the default success response.
	Responses []ActionResponse

	Consumes []string
	Produces []string
	Security []SecurityRequirement

	// Handler is the function or method serving the action. It is used to
	// look up source documentation.
	Handler any
}

// ActionParameter describes one input of an action.
type ActionParameter struct {
	Name string

	// In is one of InPath, InQuery, InHeader, InBody or InFormData.
	In string

	Type        reflect.Type
	Required    bool
	Description string

	// Format overrides the format inferred from Type.
	Format string

	// Pattern constrains string values.
	Pattern string
}

// ActionResponse describes one declared response of an action.
type ActionResponse struct {
	StatusCode  int
	Description string

	// Type is the body type. Nil means no body.
	Type    reflect.Type
	Headers map[string]*Header
}

// FriendlyID identifies the action in diagnostics.
func (a *Action) FriendlyID() string {
	if a.Controller != "" && a.Name != "" {
		return a.Controller + "_" + a.Name
	}
	if a.Name != "" {
		return a.Name
	}
	return a.Method + " " + a.Path
}

// ActionProvider lists the actions of an API.
type ActionProvider interface {
	Actions() []*Action
}

// StaticActions is an ActionProvider over a fixed list.
type StaticActions []*Action

func (s StaticActions) Actions() []*Action {
	return s
}

// defaultResponseDescription returns the standard reason phrase for a status
// code, or "Default response" for the 0 (default) code.
func defaultResponseDescription(code int) string {
	if code == 0 {
		return "Default response"
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Response"
}
