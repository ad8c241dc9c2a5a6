package explorer

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMacros(t *testing.T) {
	tests := []struct {
		macro string
		valid []string
		bad   []string
	}{
		{"int", []string{"0", "42"}, []string{"-1", "4.2", "x"}},
		{"uuid", []string{uuid.NewString()}, []string{"123", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"}},
		{"float", []string{"1.5", ".5", "3"}, []string{"1.", "a"}},
		{"slug", []string{"my-post", "a1"}, []string{"-x", "a--b", "a_b"}},
		{"alpha", []string{"abc"}, []string{"ab1"}},
		{"alphanum", []string{"ab1"}, []string{"ab-1"}},
		{"date", []string{"2024-01-31"}, []string{"2024-1-31"}},
		{"hex", []string{"deadBEEF"}, []string{"xyz"}},
		{"domain", []string{"example.com", "a.b.c"}, []string{"-bad.com", "a..b"}},
	}

	for _, tt := range tests {
		t.Run(tt.macro, func(t *testing.T) {
			m, err := expandMacro(tt.macro)
			require.NoError(t, err)
			for _, v := range tt.valid {
				assert.True(t, m.matcher.MatchString(v), v)
			}
			for _, v := range tt.bad {
				assert.False(t, m.matcher.MatchString(v), v)
			}
		})
	}

	t.Run("domain length", func(t *testing.T) {
		m, _ := expandMacro("domain")
		long := ""
		for len(long) < 250 {
			long += "abcdefghi."
		}
		assert.False(t, m.matcher.MatchString(long+"comm"))
	})

	t.Run("macro types", func(t *testing.T) {
		assert.Equal(t, reflect.TypeFor[int64](), patternMacros["int"].typ)
		assert.Equal(t, reflect.TypeFor[uuid.UUID](), patternMacros["uuid"].typ)
		assert.Equal(t, reflect.TypeFor[float64](), patternMacros["float"].typ)
		assert.Equal(t, "date", patternMacros["date"].format)
		assert.Equal(t, "hostname", patternMacros["domain"].format)
	})
}

func TestExpandMacroCustom(t *testing.T) {
	m, err := expandMacro("[A-Z]{3}")
	require.NoError(t, err)
	assert.True(t, m.matcher.MatchString("EUR"))
	assert.False(t, m.matcher.MatchString("EURO"))
	assert.Equal(t, reflect.TypeFor[string](), m.typ)

	alt, err := expandMacro("red|green")
	require.NoError(t, err)
	assert.Equal(t, "(?:red|green)", alt.pattern)
	assert.False(t, alt.matcher.MatchString("redgreen"))

	_, err = expandMacro("[")
	assert.Error(t, err)
}

func TestParsePattern(t *testing.T) {
	tests := []struct {
		pattern string
		muxPath string
		docPath string
		vars    []string
	}{
		{"/products", "/products", "/products", nil},
		{"/products/{id:int}", "/products/{id}", "/products/{id}", []string{"id"}},
		{"/users/{user}/posts/{slug:slug}", "/users/{user}/posts/{slug}", "/users/{user}/posts/{slug}", []string{"user", "slug"}},
		{"/rates/{code:[A-Z]{3}}", "/rates/{code}", "/rates/{code}", []string{"code"}},
		{"/files/{path...}", "/files/{path...}", "/files/{path}", []string{"path"}},
		{"/{$}", "/{$}", "/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := parsePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.muxPath, p.muxPath)
			assert.Equal(t, tt.docPath, p.docPath)

			var names []string
			for _, v := range p.vars {
				names = append(names, v.name)
			}
			assert.Equal(t, tt.vars, names)
		})
	}

	for _, bad := range []string{"products", "/a/{id", "/a/{}", "/a/{id}/{id}", "/a/{id:[}"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := parsePattern(bad)
			assert.Error(t, err)
		})
	}
}
