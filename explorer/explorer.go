package explorer

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/vitalvas/swagdoc/swagger"
)

// MiddlewareFunc wraps an http.Handler.
type MiddlewareFunc func(http.Handler) http.Handler

// Explorer registers HTTP handlers on a net/http ServeMux and records the
// metadata of every registration as a swagger.Action.
//
// It implements http.Handler, so it can be registered to serve requests,
// and swagger.ActionProvider, so it can be handed to a swagger.Generator:
//
//	e := explorer.New()
//	e.HandleFunc(http.MethodGet, "/products/{id:int}", getProduct).
//		Name("Get").
//		Returns(Product{})
//	gen, err := swagger.NewGenerator(e, swagger.Config{})
type Explorer struct {
	mux         *http.ServeMux
	middlewares []MiddlewareFunc

	// handler is the mux wrapped in the middleware chain, built on the
	// first request.
	handler http.Handler
	once    sync.Once

	mu       sync.RWMutex
	builders []*ActionBuilder
}

// New returns an empty explorer.
func New() *Explorer {
	return &Explorer{mux: http.NewServeMux()}
}

// Use appends middleware to the chain wrapping every request. Middleware
// must be added before the first request is served.
func (e *Explorer) Use(mwf ...MiddlewareFunc) {
	e.middlewares = append(e.middlewares, mwf...)
}

// Handle registers handler for method and pattern and returns a builder
// for the action's metadata.
//
// Patterns follow net/http ServeMux syntax with typed variables:
// {name:macro} where macro is one of uuid, int, float, slug, alpha,
// alphanum, date, hex or domain, or a regular expression. A request whose
// variable does not match its macro gets 404 Not Found.
//
// Handle panics on an empty method or an invalid pattern, as ServeMux does
// for conflicting registrations.
func (e *Explorer) Handle(method, pattern string, handler http.Handler) *ActionBuilder {
	return e.handle(method, pattern, handler, nil)
}

// HandleFunc registers a handler function for method and pattern.
func (e *Explorer) HandleFunc(method, pattern string, fn func(http.ResponseWriter, *http.Request)) *ActionBuilder {
	return e.handle(method, pattern, http.HandlerFunc(fn), nil)
}

func (e *Explorer) handle(method, pattern string, handler http.Handler, defaults *groupDefaults) *ActionBuilder {
	if method == "" {
		panic("explorer: method must not be empty")
	}
	if handler == nil {
		panic("explorer: nil handler")
	}

	parsed, err := parsePattern(pattern)
	if err != nil {
		panic(err)
	}

	method = strings.ToUpper(method)
	b := newActionBuilder(method, parsed, handler, defaults)

	e.mux.Handle(fmt.Sprintf("%s %s", method, parsed.muxPath), &route{vars: parsed.vars, handler: handler})

	e.mu.Lock()
	e.builders = append(e.builders, b)
	e.mu.Unlock()

	return b
}

// ServeHTTP dispatches the request to the matching registered handler.
func (e *Explorer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.once.Do(func() {
		var h http.Handler = e.mux
		for i := len(e.middlewares) - 1; i >= 0; i-- {
			h = e.middlewares[i](h)
		}
		e.handler = h
	})
	e.handler.ServeHTTP(w, r)
}

// Actions returns the metadata of every registered handler in
// registration order.
func (e *Explorer) Actions() []*swagger.Action {
	e.mu.RLock()
	defer e.mu.RUnlock()

	actions := make([]*swagger.Action, len(e.builders))
	for i, b := range e.builders {
		actions[i] = b.build()
	}
	return actions
}

// route enforces path variable macros before calling the handler.
type route struct {
	vars    []pathVar
	handler http.Handler
}

func (rt *route) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, v := range rt.vars {
		if v.macro != nil && !v.macro.matcher.MatchString(r.PathValue(v.name)) {
			http.NotFound(w, r)
			return
		}
	}
	rt.handler.ServeHTTP(w, r)
}
