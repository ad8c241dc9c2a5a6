package explorer

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// varMatcher validates a single path variable value.
// *regexp.Regexp satisfies this interface.
type varMatcher interface {
	MatchString(string) bool
	String() string
}

// lengthMatcher wraps a regexp with an additional maximum length constraint.
type lengthMatcher struct {
	re     *regexp.Regexp
	maxLen int
}

func (m *lengthMatcher) MatchString(s string) bool {
	return len(s) <= m.maxLen && m.re.MatchString(s)
}

func (m *lengthMatcher) String() string {
	return m.re.String()
}

// macro is a named path variable constraint. typ and format describe the
// documented parameter; pattern is documented only for string macros
// without a format.
type macro struct {
	pattern string
	matcher varMatcher
	typ     reflect.Type
	format  string
}

// patternMacros maps macro names to their compiled patterns.
// Used in path variable definitions: {name:macro}.
var patternMacros = func() map[string]macro {
	str := reflect.TypeFor[string]()
	raw := map[string]struct {
		pattern string
		typ     reflect.Type
		format  string
	}{
		"uuid":     {`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`, reflect.TypeFor[uuid.UUID](), ""},
		"int":      {`[0-9]+`, reflect.TypeFor[int64](), ""},
		"float":    {`[0-9]*\.?[0-9]+`, reflect.TypeFor[float64](), ""},
		"slug":     {`[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`, str, ""},
		"alpha":    {`[a-zA-Z]+`, str, ""},
		"alphanum": {`[a-zA-Z0-9]+`, str, ""},
		"date":     {`[0-9]{4}-[0-9]{2}-[0-9]{2}`, str, "date"},
		"hex":      {`[0-9a-fA-F]+`, str, ""},
		// RFC 1035/1123: labels 1-63 chars, total up to 253 chars.
		"domain": {`(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`, str, "hostname"},
	}

	maxLengths := map[string]int{
		"domain": 253,
	}

	m := make(map[string]macro, len(raw))
	for name, def := range raw {
		re := regexp.MustCompile(fmt.Sprintf("^%s$", def.pattern))

		var matcher varMatcher
		if maxLen, ok := maxLengths[name]; ok {
			matcher = &lengthMatcher{re: re, maxLen: maxLen}
		} else {
			matcher = re
		}

		m[name] = macro{
			pattern: def.pattern,
			matcher: matcher,
			typ:     def.typ,
			format:  def.format,
		}
	}

	return m
}()

// expandMacro resolves a macro name or, failing that, compiles the text
// as a custom regular expression typed as a plain string.
func expandMacro(text string) (macro, error) {
	if m, ok := patternMacros[text]; ok {
		return m, nil
	}

	re, err := regexp.Compile(fmt.Sprintf("^(?:%s)$", text))
	if err != nil {
		return macro{}, fmt.Errorf("explorer: invalid path variable pattern %q: %w", text, err)
	}
	pattern := text
	if strings.Contains(text, "|") {
		pattern = "(?:" + text + ")"
	}
	return macro{pattern: pattern, matcher: re, typ: reflect.TypeFor[string]()}, nil
}

// pathVar is a path variable declared in a pattern.
type pathVar struct {
	name  string
	macro *macro
}

// parsedPattern is a registration pattern split into the ServeMux form,
// the documented form and its variables.
type parsedPattern struct {
	muxPath string
	docPath string
	vars    []pathVar
}

// parsePattern parses a path with {name}, {name:macro}, {name...} and {$}
// segments. Macros are stripped from the ServeMux path and enforced by
// the explorer instead.
func parsePattern(path string) (parsedPattern, error) {
	if !strings.HasPrefix(path, "/") {
		return parsedPattern{}, fmt.Errorf("explorer: pattern %q must start with '/'", path)
	}

	var p parsedPattern
	var muxPath, docPath strings.Builder
	seen := make(map[string]bool)

	for i := 0; i < len(path); {
		if path[i] != '{' {
			muxPath.WriteByte(path[i])
			docPath.WriteByte(path[i])
			i++
			continue
		}

		end := matchingBrace(path, i)
		if end < 0 {
			return parsedPattern{}, fmt.Errorf("explorer: unbalanced braces in pattern %q", path)
		}
		body := path[i+1 : end]
		i = end + 1

		if body == "$" {
			muxPath.WriteString("{$}")
			continue
		}

		name, constraint, hasConstraint := strings.Cut(body, ":")
		rest := strings.HasSuffix(name, "...")
		name = strings.TrimSuffix(name, "...")
		if name == "" {
			return parsedPattern{}, fmt.Errorf("explorer: empty variable name in pattern %q", path)
		}
		if seen[name] {
			return parsedPattern{}, fmt.Errorf("explorer: duplicate variable %q in pattern %q", name, path)
		}
		seen[name] = true

		v := pathVar{name: name}
		if hasConstraint {
			m, err := expandMacro(constraint)
			if err != nil {
				return parsedPattern{}, err
			}
			v.macro = &m
		}
		p.vars = append(p.vars, v)

		if rest {
			muxPath.WriteString("{" + name + "...}")
		} else {
			muxPath.WriteString("{" + name + "}")
		}
		docPath.WriteString("{" + name + "}")
	}

	p.muxPath = muxPath.String()
	p.docPath = docPath.String()
	return p, nil
}

// matchingBrace returns the index of the brace closing the one at open,
// or -1.
func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
