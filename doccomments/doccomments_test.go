package doccomments

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/swagdoc/doccomments/internal/sample"
	"github.com/vitalvas/swagdoc/swagger"
)

const samplePkg = "github.com/vitalvas/swagdoc/doccomments/internal/sample"

func parseComment(t *testing.T, src string) *ast.CommentGroup {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "x.go", "package x\n\n"+src+"\nfunc F() {}\n", parser.ParseComments)
	require.NoError(t, err)
	return file.Decls[0].(*ast.FuncDecl).Doc
}

func TestParseDoc(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want swagger.Doc
	}{
		{"none", "", swagger.Doc{}},
		{"summary", "// F does things.", swagger.Doc{Summary: "F does things."}},
		{
			"wrapped summary",
			"// F does things\n// across lines.",
			swagger.Doc{Summary: "F does things across lines."},
		},
		{
			"description",
			"// F does things.\n//\n// First detail.\n//\n// Second detail.",
			swagger.Doc{Summary: "F does things.", Description: "First detail.\n\nSecond detail."},
		},
		{
			"deprecated",
			"// F does things.\n//\n// Deprecated: use G.",
			swagger.Doc{Summary: "F does things.", Deprecated: true},
		},
		{"only deprecated", "// Deprecated: gone.", swagger.Doc{Deprecated: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cg *ast.CommentGroup
			if tt.src != "" {
				cg = parseComment(t, tt.src)
			}
			assert.Equal(t, tt.want, parseDoc(cg))
		})
	}
}

func TestFuncKey(t *testing.T) {
	tests := map[string]string{
		"example.com/api.List":                     "example.com/api.List",
		"example.com/api.(*Handlers).Get-fm":       "example.com/api.Handlers.Get",
		"example.com/api.Handlers.Get-fm":          "example.com/api.Handlers.Get",
		"example.com/api.(*Page[...]).Items-fm":    "example.com/api.Page.Items",
		"example.com/v2/api.Register.func1":        "example.com/v2/api.Register.func1",
		"main.handler":                             "main.handler",
		"github.com/acme/x.(*Server).ServeHTTP-fm": "github.com/acme/x.Server.ServeHTTP",
	}

	for symbol, want := range tests {
		t.Run(symbol, func(t *testing.T) {
			assert.Equal(t, want, funcKey(symbol))
		})
	}
}

func TestAddFile(t *testing.T) {
	src := `package shop

// Cart holds items.
type Cart struct {
	// Items in the cart.
	Items []string
	Total int // Total in cents.
	A, B  int
}

type (
	// Coupon is a discount.
	Coupon struct{}
)

// Page is a generic page.
type Page[T any] struct{}

// Add puts an item in the cart.
func (c *Cart) Add() {}

// Len returns the number of items.
func (p Page[T]) Len() int { return 0 }
`
	file, err := parser.ParseFile(token.NewFileSet(), "shop.go", src, parser.ParseComments)
	require.NoError(t, err)

	p := New()
	p.AddFile("example.com/shop", file)

	assert.Equal(t, "Cart holds items.", p.types["example.com/shop.Cart"].Summary)
	assert.Equal(t, "Coupon is a discount.", p.types["example.com/shop.Coupon"].Summary)
	assert.Equal(t, "Page is a generic page.", p.types["example.com/shop.Page"].Summary)
	assert.Equal(t, "Items in the cart.", p.fields["example.com/shop.Cart.Items"].Summary)
	assert.Equal(t, "Total in cents.", p.fields["example.com/shop.Cart.Total"].Summary)
	assert.Contains(t, p.fields, "example.com/shop.Cart.B")
	assert.Equal(t, "Add puts an item in the cart.", p.funcs["example.com/shop.Cart.Add"].Summary)
	assert.Equal(t, "Len returns the number of items.", p.funcs["example.com/shop.Page.Len"].Summary)
}

func TestLoad(t *testing.T) {
	p, err := Load(context.Background(), "", samplePkg)
	require.NoError(t, err)

	t.Run("types and fields", func(t *testing.T) {
		book := reflect.TypeFor[sample.Book]()
		assert.Equal(t, swagger.Doc{Summary: "Book is a published work.", Description: "Books are identified by ISBN."}, p.TypeDoc(book))
		assert.Equal(t, p.TypeDoc(book), p.TypeDoc(reflect.TypeFor[*sample.Book]()))

		field := func(name string) reflect.StructField {
			f, ok := book.FieldByName(name)
			require.True(t, ok)
			return f
		}
		assert.Equal(t, "ISBN is the international standard book number.", p.FieldDoc(book, field("ISBN")).Summary)
		assert.Equal(t, "Title as printed on the cover.", p.FieldDoc(book, field("Title")).Summary)
		assert.True(t, p.FieldDoc(book, field("Name")).Deprecated)
	})

	t.Run("handlers", func(t *testing.T) {
		h := &sample.Handlers{}

		get := p.FuncDoc(http.HandlerFunc(h.Get))
		assert.Equal(t, "Get returns one book.", get.Summary)
		assert.Equal(t, "The book is looked up by ISBN.", get.Description)

		list := p.FuncDoc(sample.List)
		assert.Equal(t, "List returns every book.", list.Summary)
		assert.True(t, list.Deprecated)

		assert.Equal(t, "ServeHTTP renders the shelf.", p.FuncDoc(sample.Shelf{}).Summary)
		assert.Equal(t, swagger.Doc{}, p.FuncDoc(nil))
		assert.Equal(t, swagger.Doc{}, p.FuncDoc(func() {}))
	})

	t.Run("feeds the schema registry", func(t *testing.T) {
		reg := swagger.NewSchemaRegistry(nil, p)
		_, err := reg.GetOrRegister(reflect.TypeFor[sample.Book]())
		require.NoError(t, err)

		def := reg.Definitions()["Book"]
		assert.Equal(t, "Book is a published work.\n\nBooks are identified by ISBN.", def.Description)
		isbn, _ := def.Properties.Get("isbn")
		assert.Equal(t, "ISBN is the international standard book number.", isbn.Description)
	})

	t.Run("no patterns", func(t *testing.T) {
		_, err := Load(context.Background(), "")
		assert.Error(t, err)
	})
}
