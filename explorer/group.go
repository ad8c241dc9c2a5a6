package explorer

import (
	"net/http"
	"slices"
	"strings"

	"github.com/vitalvas/swagdoc/swagger"
)

// groupDefaults holds the metadata a Group applies to every action it
// registers.
type groupDefaults struct {
	controller  string
	version     string
	tags        []string
	deprecated  bool
	security    []swagger.SecurityRequirement
	securitySet bool // distinguishes nil (inherit) from empty (public)
	consumes    []string
	produces    []string
	responses   []swagger.ActionResponse
}

func (d *groupDefaults) apply(b *ActionBuilder) {
	b.action.Controller = d.controller
	b.action.Version = d.version
	b.action.Tags = slices.Clone(d.tags)
	b.action.Obsolete = d.deprecated
	if d.securitySet {
		b.action.Security = slices.Clone(d.security)
	}
	b.action.Consumes = slices.Clone(d.consumes)
	b.action.Produces = slices.Clone(d.produces)
	b.responses = slices.Clone(d.responses)
}

// Group registers actions that share a controller, a path prefix and
// documentation defaults. Defaults are copied when an action is
// registered, so changing a group affects only later registrations.
type Group struct {
	explorer *Explorer
	prefix   string
	defaults groupDefaults
}

// Group returns a group of actions belonging to controller.
func (e *Explorer) Group(controller string) *Group {
	return &Group{explorer: e, defaults: groupDefaults{controller: controller}}
}

// Prefix sets the path prefix prepended to every pattern of the group.
func (g *Group) Prefix(prefix string) *Group {
	g.prefix = strings.TrimSuffix(prefix, "/")
	return g
}

// Version restricts the group's actions to one API version.
func (g *Group) Version(v string) *Group {
	g.defaults.version = v
	return g
}

// Tags appends tags to the group defaults.
func (g *Group) Tags(tags ...string) *Group {
	g.defaults.tags = append(g.defaults.tags, tags...)
	return g
}

// Deprecated marks all actions of the group obsolete.
func (g *Group) Deprecated() *Group {
	g.defaults.deprecated = true
	return g
}

// Security sets the group-level security requirements. Call with no
// arguments to mark the group public.
func (g *Group) Security(reqs ...swagger.SecurityRequirement) *Group {
	if reqs == nil {
		reqs = []swagger.SecurityRequirement{}
	}
	g.defaults.security = reqs
	g.defaults.securitySet = true
	return g
}

// Consumes sets the request media types of the group.
func (g *Group) Consumes(types ...string) *Group {
	g.defaults.consumes = types
	return g
}

// Produces sets the response media types of the group.
func (g *Group) Produces(types ...string) *Group {
	g.defaults.produces = types
	return g
}

// Response adds a shared response for the status code. An action-level
// Response for the same code overrides it.
func (g *Group) Response(statusCode int, body any) *Group {
	g.response(statusCode).Type = typeOf(body)
	return g
}

// ResponseDescription sets the description of a shared response.
func (g *Group) ResponseDescription(statusCode int, desc string) *Group {
	g.response(statusCode).Description = desc
	return g
}

func (g *Group) response(statusCode int) *swagger.ActionResponse {
	for i := range g.defaults.responses {
		if g.defaults.responses[i].StatusCode == statusCode {
			return &g.defaults.responses[i]
		}
	}
	g.defaults.responses = append(g.defaults.responses, swagger.ActionResponse{StatusCode: statusCode})
	return &g.defaults.responses[len(g.defaults.responses)-1]
}

// Handle registers handler under the group prefix.
func (g *Group) Handle(method, pattern string, handler http.Handler) *ActionBuilder {
	return g.explorer.handle(method, g.prefix+pattern, handler, &g.defaults)
}

// HandleFunc registers a handler function under the group prefix.
func (g *Group) HandleFunc(method, pattern string, fn func(http.ResponseWriter, *http.Request)) *ActionBuilder {
	return g.explorer.handle(method, g.prefix+pattern, http.HandlerFunc(fn), &g.defaults)
}
