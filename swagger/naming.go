package swagger

import (
	"reflect"
	"strings"
	"unicode"
)

// SchemaID returns the definition name of t under the naming policy of
// opts: the SchemaIDSelector when set, otherwise the friendly type name,
// qualified by the package path when UseFullTypeNames is set.
func SchemaID(t reflect.Type, opts *SchemaOptions) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if opts != nil && opts.SchemaIDSelector != nil {
		return opts.SchemaIDSelector(t)
	}
	full := opts != nil && opts.UseFullTypeNames
	return friendlyTypeName(t, full)
}

// friendlyTypeName renders a type name with generic arguments in brackets,
// each argument named the same way: Page[Widget], Pair[string,Widget],
// Page[Array[Widget]], Index[Map[string,Widget]].
func friendlyTypeName(t reflect.Type, full bool) string {
	if t.Name() == "" {
		switch t.Kind() {
		case reflect.Pointer:
			return friendlyTypeName(t.Elem(), full)
		case reflect.Slice, reflect.Array:
			return "Array[" + friendlyTypeName(t.Elem(), full) + "]"
		case reflect.Map:
			return "Map[" + friendlyTypeName(t.Key(), full) + "," + friendlyTypeName(t.Elem(), full) + "]"
		case reflect.Struct, reflect.Interface:
			return "Object"
		default:
			return t.String()
		}
	}

	name := friendlyName(t.Name(), full)
	if full && t.PkgPath() != "" {
		name = qualifier(t.PkgPath()) + "." + name
	}
	return name
}

// friendlyName rewrites a reflect type name. Generic arguments in reflect
// names carry their full package path, e.g.
// "Page[github.com/acme/shop.Widget]".
func friendlyName(name string, full bool) string {
	base, rest, generic := strings.Cut(name, "[")
	if !generic {
		return base
	}
	args := splitTypeArgs(strings.TrimSuffix(rest, "]"))
	for i, arg := range args {
		args[i] = friendlyArg(arg, full)
	}
	return base + "[" + strings.Join(args, ",") + "]"
}

// friendlyArg names one generic argument as printed by reflect.
func friendlyArg(arg string, full bool) string {
	switch {
	case strings.HasPrefix(arg, "*"):
		return friendlyArg(arg[1:], full)

	case strings.HasPrefix(arg, "[]"):
		return "Array[" + friendlyArg(arg[2:], full) + "]"

	case strings.HasPrefix(arg, "["):
		if end := strings.IndexByte(arg, ']'); end > 0 {
			return "Array[" + friendlyArg(arg[end+1:], full) + "]"
		}

	case strings.HasPrefix(arg, "map["):
		if end := matchingBracket(arg, 3); end > 0 {
			return "Map[" + friendlyArg(arg[4:end], full) + "," + friendlyArg(arg[end+1:], full) + "]"
		}

	case strings.HasPrefix(arg, "interface {"), strings.HasPrefix(arg, "struct {"):
		return "Object"
	}

	// Qualified, possibly generic, name: path/to/pkg.Name[Args].
	qualified, rest, generic := strings.Cut(arg, "[")
	pkg, simple := "", qualified
	if dot := strings.LastIndexByte(qualified, '.'); dot >= 0 {
		pkg, simple = qualified[:dot], qualified[dot+1:]
	}

	name := simple
	if generic {
		name = friendlyName(simple+"["+rest, full)
	}
	if full && pkg != "" {
		name = qualifier(pkg) + "." + name
	}
	return name
}

// splitTypeArgs splits a comma separated argument list at bracket depth 0.
func splitTypeArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i := range len(s) {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:])
}

// matchingBracket returns the index of the ']' closing the '[' at open.
func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// qualifier turns a package path into a dotted definition-name prefix
// (e.g., "github.com/acme/shop" -> "github.com.acme.shop").
func qualifier(pkgPath string) string {
	return strings.ReplaceAll(pkgPath, "/", ".")
}

// CamelCase lower-cases the leading upper-case run of s, keeping the last
// capital of an acronym that starts the next word: "Name" -> "name",
// "ID" -> "id", "HTTPCode" -> "httpCode".
func CamelCase(s string) string {
	r := []rune(s)
	for i := range r {
		if !unicode.IsUpper(r[i]) {
			break
		}
		if i > 0 && i+1 < len(r) && !unicode.IsUpper(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}
