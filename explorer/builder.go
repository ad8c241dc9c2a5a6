package explorer

import (
	"net/http"
	"reflect"
	"slices"

	"github.com/vitalvas/swagdoc/swagger"
)

// ActionBuilder provides a fluent API for attaching documentation
// metadata to a registered handler.
type ActionBuilder struct {
	action    swagger.Action
	vars      []pathVar
	params    []swagger.ActionParameter
	responses []swagger.ActionResponse
}

func newActionBuilder(method string, parsed parsedPattern, handler http.Handler, defaults *groupDefaults) *ActionBuilder {
	b := &ActionBuilder{
		action: swagger.Action{
			Method:  method,
			Path:    parsed.docPath,
			Handler: handler,
		},
		vars: parsed.vars,
	}
	if defaults != nil {
		defaults.apply(b)
	}
	return b
}

// Controller sets the controller the action belongs to. It is the default
// operation tag and the first half of the default operation id.
func (b *ActionBuilder) Controller(name string) *ActionBuilder {
	b.action.Controller = name
	return b
}

// Name sets the action name. With a controller it forms the default
// operation id <Controller>_<Name>.
func (b *ActionBuilder) Name(name string) *ActionBuilder {
	b.action.Name = name
	return b
}

// OperationID sets an explicit operation id.
func (b *ActionBuilder) OperationID(id string) *ActionBuilder {
	b.action.OperationID = id
	return b
}

// Summary sets the operation summary.
func (b *ActionBuilder) Summary(s string) *ActionBuilder {
	b.action.Summary = s
	return b
}

// Description sets the operation description.
func (b *ActionBuilder) Description(d string) *ActionBuilder {
	b.action.Description = d
	return b
}

// Tags adds tags to the operation. Explicit tags replace the controller
// tag.
func (b *ActionBuilder) Tags(tags ...string) *ActionBuilder {
	b.action.Tags = append(b.action.Tags, tags...)
	return b
}

// Version restricts the action to one API version.
func (b *ActionBuilder) Version(v string) *ActionBuilder {
	b.action.Version = v
	return b
}

// Deprecated marks the action obsolete.
func (b *ActionBuilder) Deprecated() *ActionBuilder {
	b.action.Obsolete = true
	return b
}

// Hidden leaves the action out of every document. The handler is still
// served.
func (b *ActionBuilder) Hidden() *ActionBuilder {
	b.action.Hidden = true
	return b
}

// Consumes sets the request media types.
func (b *ActionBuilder) Consumes(types ...string) *ActionBuilder {
	b.action.Consumes = types
	return b
}

// Produces sets the response media types.
func (b *ActionBuilder) Produces(types ...string) *ActionBuilder {
	b.action.Produces = types
	return b
}

// Security sets the security requirements of the action. Call with no
// arguments to mark the action public.
func (b *ActionBuilder) Security(reqs ...swagger.SecurityRequirement) *ActionBuilder {
	if reqs == nil {
		reqs = []swagger.SecurityRequirement{}
	}
	b.action.Security = reqs
	return b
}

// PathParam documents a path variable, replacing the description derived
// from its macro. v is a sample value or a reflect.Type.
func (b *ActionBuilder) PathParam(name string, v any, description string) *ActionBuilder {
	return b.param(swagger.ActionParameter{Name: name, In: swagger.InPath, Type: typeOf(v), Required: true, Description: description})
}

// QueryParam documents a single query parameter.
func (b *ActionBuilder) QueryParam(name string, v any, required bool, description string) *ActionBuilder {
	return b.param(swagger.ActionParameter{Name: name, In: swagger.InQuery, Type: typeOf(v), Required: required, Description: description})
}

// Query documents a struct whose fields, named by their gorilla/schema
// `schema` tags, are the query parameters.
func (b *ActionBuilder) Query(v any) *ActionBuilder {
	return b.param(swagger.ActionParameter{In: swagger.InQuery, Type: typeOf(v)})
}

// Header documents a request header.
func (b *ActionBuilder) Header(name string, v any, required bool, description string) *ActionBuilder {
	return b.param(swagger.ActionParameter{Name: name, In: swagger.InHeader, Type: typeOf(v), Required: required, Description: description})
}

// FormParam documents a form field.
func (b *ActionBuilder) FormParam(name string, v any, required bool, description string) *ActionBuilder {
	return b.param(swagger.ActionParameter{Name: name, In: swagger.InFormData, Type: typeOf(v), Required: required, Description: description})
}

// Request documents the required request body.
func (b *ActionBuilder) Request(body any) *ActionBuilder {
	return b.param(swagger.ActionParameter{Name: "body", In: swagger.InBody, Type: typeOf(body), Required: true})
}

func (b *ActionBuilder) param(p swagger.ActionParameter) *ActionBuilder {
	if p.Name != "" {
		b.params = slices.DeleteFunc(b.params, func(q swagger.ActionParameter) bool {
			return q.Name == p.Name && q.In == p.In
		})
	}
	b.params = append(b.params, p)
	return b
}

// Returns sets the success response body. It is documented as 200 unless
// explicit responses are declared.
func (b *ActionBuilder) Returns(body any) *ActionBuilder {
	b.action.ResponseType = typeOf(body)
	return b
}

// Response declares a response for the status code, replacing an earlier
// declaration (including a group default) for the same code. Pass a nil
// body for responses without content. Status code 0 is the default
// response.
func (b *ActionBuilder) Response(statusCode int, body any) *ActionBuilder {
	r := b.response(statusCode)
	r.Type = typeOf(body)
	return b
}

// DefaultResponse declares the catch-all response.
func (b *ActionBuilder) DefaultResponse(body any) *ActionBuilder {
	return b.Response(0, body)
}

// ResponseDescription sets the description of a declared response.
func (b *ActionBuilder) ResponseDescription(statusCode int, desc string) *ActionBuilder {
	b.response(statusCode).Description = desc
	return b
}

// ResponseHeader adds a header to the response for the status code.
func (b *ActionBuilder) ResponseHeader(statusCode int, name string, h *swagger.Header) *ActionBuilder {
	r := b.response(statusCode)
	if r.Headers == nil {
		r.Headers = make(map[string]*swagger.Header)
	}
	r.Headers[name] = h
	return b
}

// response returns the declared response for the status code, adding it
// when missing.
func (b *ActionBuilder) response(statusCode int) *swagger.ActionResponse {
	for i := range b.responses {
		if b.responses[i].StatusCode == statusCode {
			return &b.responses[i]
		}
	}
	b.responses = append(b.responses, swagger.ActionResponse{StatusCode: statusCode})
	return &b.responses[len(b.responses)-1]
}

// build returns a snapshot of the action. Path variables with a macro and
// no explicit PathParam are documented from the macro. When responses are
// declared without a success code, the Returns type is added as 200.
func (b *ActionBuilder) build() *swagger.Action {
	a := b.action
	a.Tags = slices.Clone(b.action.Tags)
	a.Consumes = slices.Clone(b.action.Consumes)
	a.Produces = slices.Clone(b.action.Produces)
	a.Security = slices.Clone(b.action.Security)
	a.Parameters = slices.Clone(b.action.Parameters)

	declared := make(map[string]bool)
	for _, p := range b.params {
		if p.In == swagger.InPath {
			declared[p.Name] = true
		}
	}

	for _, v := range b.vars {
		if v.macro == nil || declared[v.name] {
			continue
		}
		p := swagger.ActionParameter{Name: v.name, In: swagger.InPath, Type: v.macro.typ, Required: true, Format: v.macro.format}
		if v.macro.typ.Kind() == reflect.String && v.macro.format == "" {
			p.Pattern = "^" + v.macro.pattern + "$"
		}
		a.Parameters = append(a.Parameters, p)
	}
	a.Parameters = append(a.Parameters, b.params...)

	if len(b.responses) > 0 {
		a.Responses = slices.Clone(b.responses)
		for i := range a.Responses {
			a.Responses[i].Headers = swagger.CloneHeaders(a.Responses[i].Headers)
		}
		if a.ResponseType != nil && !slices.ContainsFunc(a.Responses, isSuccess) {
			a.Responses = slices.Insert(a.Responses, 0, swagger.ActionResponse{StatusCode: http.StatusOK, Type: a.ResponseType})
		}
	}
	return &a
}

func isSuccess(r swagger.ActionResponse) bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// typeOf accepts a sample value or a reflect.Type.
func typeOf(v any) reflect.Type {
	switch v := v.(type) {
	case nil:
		return nil
	case reflect.Type:
		return v
	default:
		return reflect.TypeOf(v)
	}
}
