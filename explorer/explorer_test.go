package explorer

import (
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/swagdoc/swagger"
)

type book struct {
	ID    int64  `json:"id"`
	Title string `json:"title" validate:"required"`
}

type bookQuery struct {
	Author string `schema:"author"`
	Limit  int32  `schema:"limit"`
}

type apiError struct {
	Message string `json:"message"`
}

func echo(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, r.PathValue("id"))
}

func TestExplorerServe(t *testing.T) {
	e := New()
	e.HandleFunc(http.MethodGet, "/books/{id:int}", echo)
	e.HandleFunc(http.MethodGet, "/tokens/{id:uuid}", echo)
	e.HandleFunc(http.MethodGet, "/plain/{id}", echo)

	id := uuid.NewString()
	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"int match", http.MethodGet, "/books/42", http.StatusOK, "42"},
		{"int mismatch", http.MethodGet, "/books/abc", http.StatusNotFound, ""},
		{"uuid match", http.MethodGet, "/tokens/" + id, http.StatusOK, id},
		{"uuid mismatch", http.MethodGet, "/tokens/123", http.StatusNotFound, ""},
		{"no macro", http.MethodGet, "/plain/anything", http.StatusOK, "anything"},
		{"wrong method", http.MethodPost, "/books/42", http.StatusMethodNotAllowed, ""},
		{"unknown path", http.MethodGet, "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			e.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestExplorerMiddleware(t *testing.T) {
	var order []string
	mw := func(name string) MiddlewareFunc {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	e := New()
	e.Use(mw("outer"), mw("inner"))
	e.HandleFunc(http.MethodGet, "/ping", func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestExplorerRegistrationPanics(t *testing.T) {
	e := New()
	assert.Panics(t, func() { e.HandleFunc("", "/a", echo) })
	assert.Panics(t, func() { e.Handle(http.MethodGet, "/a", nil) })
	assert.Panics(t, func() { e.HandleFunc(http.MethodGet, "a", echo) })
	assert.Panics(t, func() { e.HandleFunc(http.MethodGet, "/a/{id:(}", echo) })

	e.HandleFunc(http.MethodGet, "/dup", echo)
	assert.Panics(t, func() { e.HandleFunc(http.MethodGet, "/dup", echo) })
}

func TestActions(t *testing.T) {
	e := New()
	e.HandleFunc(http.MethodGet, "/books/{id:int}", echo).
		Controller("Books").
		Name("Get").
		Summary("Get a book").
		Returns(book{})
	e.HandleFunc("post", "/books", echo).
		Controller("Books").
		Name("Create").
		Request(&book{}).
		Response(http.StatusCreated, book{}).
		Response(http.StatusBadRequest, apiError{}).
		ResponseDescription(http.StatusBadRequest, "Invalid book").
		ResponseHeader(http.StatusCreated, "Location", &swagger.Header{Type: "string"})
	e.HandleFunc(http.MethodGet, "/slugs/{slug:slug}/{day:date}", echo).
		PathParam("day", "", "Publication day").
		Hidden()

	actions := e.Actions()
	require.Len(t, actions, 3)

	t.Run("macro typed path parameter", func(t *testing.T) {
		get := actions[0]
		assert.Equal(t, http.MethodGet, get.Method)
		assert.Equal(t, "/books/{id}", get.Path)
		assert.Equal(t, "Books", get.Controller)
		assert.Equal(t, "Get a book", get.Summary)
		assert.Equal(t, reflect.TypeFor[book](), get.ResponseType)
		assert.Equal(t, []swagger.ActionParameter{
			{Name: "id", In: swagger.InPath, Type: reflect.TypeFor[int64](), Required: true},
		}, get.Parameters)
		assert.NotNil(t, get.Handler)
	})

	t.Run("body and responses", func(t *testing.T) {
		create := actions[1]
		assert.Equal(t, http.MethodPost, create.Method)
		assert.Equal(t, []swagger.ActionParameter{
			{Name: "body", In: swagger.InBody, Type: reflect.TypeFor[*book](), Required: true},
		}, create.Parameters)

		require.Len(t, create.Responses, 2)
		assert.Equal(t, http.StatusCreated, create.Responses[0].StatusCode)
		assert.Contains(t, create.Responses[0].Headers, "Location")
		assert.Equal(t, swagger.ActionResponse{
			StatusCode:  http.StatusBadRequest,
			Description: "Invalid book",
			Type:        reflect.TypeFor[apiError](),
		}, create.Responses[1])
	})

	t.Run("explicit path parameter wins over macro", func(t *testing.T) {
		slugs := actions[2]
		assert.True(t, slugs.Hidden)
		require.Len(t, slugs.Parameters, 2)
		assert.Equal(t, swagger.ActionParameter{
			Name: "slug", In: swagger.InPath, Type: reflect.TypeFor[string](), Required: true,
			Pattern: "^[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*$",
		}, slugs.Parameters[0])
		assert.Equal(t, "day", slugs.Parameters[1].Name)
		assert.Equal(t, "Publication day", slugs.Parameters[1].Description)
	})

	t.Run("snapshots are independent", func(t *testing.T) {
		actions[0].Tags = append(actions[0].Tags, "mutated")
		assert.Empty(t, e.Actions()[0].Tags)

		actions[1].Responses[0].Headers["X-Request-ID"] = &swagger.Header{Type: "string"}
		actions[1].Responses[0].Headers["Location"].Format = "uri"
		headers := e.Actions()[1].Responses[0].Headers
		assert.Len(t, headers, 1)
		assert.Empty(t, headers["Location"].Format)
	})
}

func TestGroup(t *testing.T) {
	e := New()
	g := e.Group("Books").
		Prefix("/api/v2/").
		Version("v2").
		Tags("library").
		Produces("application/json").
		Response(http.StatusNotFound, apiError{}).
		ResponseDescription(http.StatusNotFound, "Book not found")

	g.HandleFunc(http.MethodGet, "/books/{id:int}", echo).Name("Get").Returns(book{})
	g.HandleFunc(http.MethodDelete, "/books/{id:int}", echo).
		Name("Delete").
		Response(http.StatusNotFound, nil).
		Response(http.StatusNoContent, nil)

	g.Deprecated().Security()
	g.HandleFunc(http.MethodGet, "/legacy", echo).Name("Legacy")

	actions := e.Actions()
	require.Len(t, actions, 3)

	get := actions[0]
	assert.Equal(t, "/api/v2/books/{id}", get.Path)
	assert.Equal(t, "Books", get.Controller)
	assert.Equal(t, "v2", get.Version)
	assert.Equal(t, []string{"library"}, get.Tags)
	assert.Equal(t, []string{"application/json"}, get.Produces)
	assert.Equal(t, []swagger.ActionResponse{
		{StatusCode: http.StatusOK, Type: reflect.TypeFor[book]()},
		{StatusCode: http.StatusNotFound, Description: "Book not found", Type: reflect.TypeFor[apiError]()},
	}, get.Responses)
	assert.False(t, get.Obsolete)
	assert.Nil(t, get.Security)

	del := actions[1]
	require.Len(t, del.Responses, 2)
	assert.Nil(t, del.Responses[0].Type, "action response overrides the group default")
	assert.Equal(t, "Book not found", del.Responses[0].Description)

	legacy := actions[2]
	assert.True(t, legacy.Obsolete)
	assert.Equal(t, []swagger.SecurityRequirement{}, legacy.Security)

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/books/7", nil))
	assert.Equal(t, "7", w.Body.String())
}

func TestExplorerGeneratesDocument(t *testing.T) {
	e := New()
	books := e.Group("Books").Prefix("/books").Response(http.StatusNotFound, apiError{})
	books.HandleFunc(http.MethodGet, "", echo).Name("List").Query(bookQuery{}).Returns([]book{})
	books.HandleFunc(http.MethodGet, "/{id:int}", echo).Name("Get").Returns(book{}).Response(http.StatusOK, book{})
	e.HandleFunc(http.MethodGet, "/tokens/{token:uuid}", echo).Name("Token")

	gen, err := swagger.NewGenerator(e, swagger.Config{})
	require.NoError(t, err)

	doc, err := gen.Generate("https://api.example.com", "v1")
	require.NoError(t, err)

	list := doc.Paths["/books"].Get
	require.NotNil(t, list)
	assert.Equal(t, "Books_List", list.OperationID)
	assert.Equal(t, []string{"Books"}, list.Tags)
	require.Len(t, list.Parameters, 2)
	assert.Equal(t, "author", list.Parameters[0].Name)
	assert.Equal(t, "limit", list.Parameters[1].Name)
	assert.Contains(t, list.Responses, "404")
	assert.Equal(t, &swagger.Schema{Type: "array", Items: swagger.RefSchema("book")}, list.Responses["200"].Schema)

	get := doc.Paths["/books/{id}"].Get
	require.NotNil(t, get)
	assert.Equal(t, &swagger.Parameter{Name: "id", In: swagger.InPath, Required: true, Type: "integer", Format: "int64"}, get.Parameters[0])
	assert.Equal(t, swagger.RefSchema("book"), get.Responses["200"].Schema)
	assert.Equal(t, swagger.RefSchema("apiError"), get.Responses["404"].Schema)

	token := doc.Paths["/tokens/{token}"].Get
	require.NotNil(t, token)
	assert.Equal(t, "uuid", token.Parameters[0].Format)
	assert.Equal(t, "string", token.Parameters[0].Type)

	assert.Contains(t, doc.Definitions, "book")
	assert.Contains(t, doc.Definitions, "apiError")
	assert.True(t, strings.HasPrefix(doc.Host, "api.example.com"))
}
