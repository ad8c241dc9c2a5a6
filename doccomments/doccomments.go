// Package doccomments documents schemas and operations from Go doc
// comments.
//
// A Provider indexes the doc comments of type, field, function and method
// declarations in a set of packages loaded with golang.org/x/tools/go/packages,
// and implements swagger.DocumentationProvider on top of that index:
//
//	docs, err := doccomments.Load(ctx, "", "github.com/acme/api/...")
//	if err != nil {
//		return err
//	}
//	cfg := swagger.Config{Docs: docs}
//
// The first paragraph of a comment becomes the summary and the remaining
// paragraphs the description. A paragraph starting with "Deprecated:"
// marks the declaration deprecated and is dropped from the text.
package doccomments

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"runtime"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/vitalvas/swagdoc/swagger"
)

const deprecatedPrefix = "Deprecated:"

// Provider is an index of doc comments keyed by qualified declaration
// name. It is read-only once loaded.
type Provider struct {
	types  map[string]swagger.Doc
	fields map[string]swagger.Doc
	funcs  map[string]swagger.Doc
}

// New returns an empty provider.
func New() *Provider {
	return &Provider{
		types:  make(map[string]swagger.Doc),
		fields: make(map[string]swagger.Doc),
		funcs:  make(map[string]swagger.Doc),
	}
}

// Load parses the packages matching patterns, resolved relative to dir
// (the current directory when empty), and indexes their doc comments.
func Load(ctx context.Context, dir string, patterns ...string) (*Provider, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("doccomments: no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("doccomments: failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("doccomments: no packages found")
	}

	p := New()
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("doccomments: package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
		for _, file := range pkg.Syntax {
			p.AddFile(pkg.PkgPath, file)
		}
	}
	return p, nil
}

// AddFile indexes the declarations of a parsed file of package pkgPath.
// The file must be parsed with comments.
func (p *Provider) AddFile(pkgPath string, file *ast.File) {
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				continue
			}
			for _, spec := range decl.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(decl.Specs) == 1 {
					doc = decl.Doc
				}
				key := pkgPath + "." + ts.Name.Name
				p.types[key] = parseDoc(doc)

				if st, ok := ts.Type.(*ast.StructType); ok {
					p.addFields(key, st)
				}
			}

		case *ast.FuncDecl:
			key := pkgPath + "." + decl.Name.Name
			if decl.Recv != nil && len(decl.Recv.List) > 0 {
				key = pkgPath + "." + receiverName(decl.Recv.List[0].Type) + "." + decl.Name.Name
			}
			p.funcs[key] = parseDoc(decl.Doc)
		}
	}
}

func (p *Provider) addFields(typeKey string, st *ast.StructType) {
	for _, field := range st.Fields.List {
		doc := field.Doc
		if doc == nil {
			doc = field.Comment
		}
		for _, name := range field.Names {
			p.fields[typeKey+"."+name.Name] = parseDoc(doc)
		}
	}
}

// receiverName returns the base type name of a method receiver.
func receiverName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

// TypeDoc documents a named type. Instantiated generic types share the
// documentation of their generic declaration.
func (p *Provider) TypeDoc(t reflect.Type) swagger.Doc {
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	return p.types[typeKey(t)]
}

// FieldDoc documents a field declared directly in owner.
func (p *Provider) FieldDoc(owner reflect.Type, field reflect.StructField) swagger.Doc {
	return p.fields[typeKey(owner)+"."+field.Name]
}

// FuncDoc documents a handler. Functions and method values are resolved
// through the runtime symbol table; other handlers are documented by
// their ServeHTTP method, falling back to their type.
func (p *Provider) FuncDoc(fn any) swagger.Doc {
	if fn == nil {
		return swagger.Doc{}
	}

	v := reflect.ValueOf(fn)
	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return swagger.Doc{}
		}
		f := runtime.FuncForPC(v.Pointer())
		if f == nil {
			return swagger.Doc{}
		}
		return p.funcs[funcKey(f.Name())]
	}

	t := v.Type()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if doc, ok := p.funcs[typeKey(t)+".ServeHTTP"]; ok && doc != (swagger.Doc{}) {
		return doc
	}
	return p.types[typeKey(t)]
}

// typeKey returns the index key of a named type, without type arguments.
func typeKey(t reflect.Type) string {
	name, _, _ := strings.Cut(t.Name(), "[")
	return t.PkgPath() + "." + name
}

// funcKey converts a runtime symbol name such as
// "example.com/api.(*Handlers).Get-fm" to its index key
// "example.com/api.Handlers.Get".
func funcKey(symbol string) string {
	symbol = strings.TrimSuffix(symbol, "-fm")

	slash := strings.LastIndex(symbol, "/")
	dot := strings.Index(symbol[slash+1:], ".")
	if dot < 0 {
		return symbol
	}
	dot += slash + 1

	pkg, rest := symbol[:dot], symbol[dot+1:]
	rest = strings.NewReplacer("(*", "", "(", "", ")", "").Replace(rest)
	if i := strings.Index(rest, "[...]"); i >= 0 {
		rest = rest[:i] + rest[i+len("[...]"):]
	}
	return pkg + "." + rest
}

// parseDoc splits a comment into summary, description and deprecation.
func parseDoc(cg *ast.CommentGroup) swagger.Doc {
	if cg == nil {
		return swagger.Doc{}
	}

	var doc swagger.Doc
	var paragraphs []string
	for _, para := range strings.Split(strings.TrimSpace(cg.Text()), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if strings.HasPrefix(para, deprecatedPrefix) {
			doc.Deprecated = true
			continue
		}
		paragraphs = append(paragraphs, para)
	}

	if len(paragraphs) == 0 {
		return doc
	}
	doc.Summary = strings.Join(strings.Fields(paragraphs[0]), " ")
	doc.Description = strings.Join(paragraphs[1:], "\n\n")
	return doc
}
