// Package explorer registers HTTP handlers and records their documentation
// metadata for the swagger document generator.
//
// An Explorer wraps a net/http ServeMux. Every registration returns an
// ActionBuilder whose fluent methods describe the action: its name,
// parameters, request body and responses.
//
//	e := explorer.New()
//
//	products := e.Group("Products").Prefix("/api/products")
//	products.Response(http.StatusNotFound, ErrorResponse{})
//
//	products.HandleFunc(http.MethodGet, "/{id:int}", getProduct).
//		Name("Get").
//		Summary("Get a product").
//		Returns(Product{})
//
//	products.HandleFunc(http.MethodGet, "", listProducts).
//		Name("List").
//		Query(ProductQuery{}).
//		Returns(Page[Product]{})
//
// # Path Macros
//
// Path variables may carry a macro that both constrains the value at
// request time and types the documented parameter:
//
//	{id:int}      integer (int64)
//	{id:uuid}     string, format uuid
//	{v:float}     number (double)
//	{d:date}      string, format date
//	{h:domain}    string, format hostname
//	{s:slug}      string with pattern
//	{s:alpha}     string with pattern
//	{s:alphanum}  string with pattern
//	{s:hex}       string with pattern
//
// Any other macro text is compiled as a regular expression. A request
// whose variable does not match gets 404 Not Found.
//
// # Groups
//
// A Group shares a controller, a path prefix, a version and default
// responses between actions. Action-level settings override group
// defaults.
package explorer
