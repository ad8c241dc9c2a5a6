package swagger

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaKind(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		want   Kind
	}{
		{"ref", RefSchema("Widget"), KindRef},
		{"primitive", &Schema{Type: "string"}, KindPrimitive},
		{"array", &Schema{Type: "array", Items: &Schema{Type: "string"}}, KindArray},
		{"dictionary", &Schema{Type: "object", AdditionalProperties: &Schema{Type: "string"}}, KindDictionary},
		{"object", &Schema{Type: "object"}, KindObject},
		{"composed", &Schema{AllOf: []*Schema{RefSchema("Base")}}, KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schema.Kind())
		})
	}
}

func TestRefSchema(t *testing.T) {
	s := RefSchema("Page[Widget]")
	assert.Equal(t, "#/definitions/Page[Widget]", s.Ref)
	assert.Equal(t, "Page[Widget]", s.RefName())
	assert.Equal(t, "", (&Schema{Type: "string"}).RefName())
}

func TestProperties(t *testing.T) {
	newProps := func() *Properties {
		p := NewProperties()
		p.Set("zeta", &Schema{Type: "string"})
		p.Set("alpha", &Schema{Type: "integer"})
		p.Set("mid", &Schema{Type: "boolean"})
		return p
	}

	t.Run("insertion order", func(t *testing.T) {
		p := newProps()
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Names())
		assert.Equal(t, 3, p.Len())

		p.Set("alpha", &Schema{Type: "number"})
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Names())
		s, ok := p.Get("alpha")
		require.True(t, ok)
		assert.Equal(t, "number", s.Type)
	})

	t.Run("delete", func(t *testing.T) {
		p := newProps()
		p.Delete("alpha")
		p.Delete("missing")
		assert.Equal(t, []string{"zeta", "mid"}, p.Names())
		_, ok := p.Get("alpha")
		assert.False(t, ok)
	})

	t.Run("rename keeps position", func(t *testing.T) {
		p := newProps()
		assert.True(t, p.Rename("alpha", "beta"))
		assert.Equal(t, []string{"zeta", "beta", "mid"}, p.Names())
		assert.False(t, p.Rename("beta", "mid"))
		assert.False(t, p.Rename("missing", "x"))
		assert.True(t, p.Rename("mid", "mid"))
	})

	t.Run("nil receiver", func(t *testing.T) {
		var p *Properties
		assert.Equal(t, 0, p.Len())
		assert.Nil(t, p.Names())
		_, ok := p.Get("x")
		assert.False(t, ok)
		for range p.All() {
			t.Fatal("unexpected property")
		}
	})

	t.Run("marshal keeps order", func(t *testing.T) {
		data, err := json.Marshal(&Schema{Type: "object", Properties: newProps()})
		require.NoError(t, err)
		assert.Equal(t,
			`{"type":"object","properties":{"zeta":{"type":"string"},"alpha":{"type":"integer"},"mid":{"type":"boolean"}}}`,
			string(data))
	})

	t.Run("unmarshal keeps order", func(t *testing.T) {
		var s Schema
		err := json.Unmarshal([]byte(`{"type":"object","properties":{"b":{"type":"string"},"a":{"$ref":"#/definitions/A"}}}`), &s)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, s.Properties.Names())
		a, _ := s.Properties.Get("a")
		assert.Equal(t, "A", a.RefName())
	})

	t.Run("unmarshal rejects non objects", func(t *testing.T) {
		var p Properties
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
	})
}

func TestSchemaClone(t *testing.T) {
	minLen := 1
	orig := &Schema{
		Type:       "object",
		Required:   []string{"a"},
		Properties: NewProperties(),
		AllOf:      []*Schema{RefSchema("Base")},
	}
	orig.Properties.Set("a", &Schema{Type: "array", Items: &Schema{Type: "string", MinLength: &minLen}})

	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Required[0] = "b"
	c.AllOf[0].Ref = "changed"
	a, _ := c.Properties.Get("a")
	a.Items.Type = "integer"
	c.Properties.Set("extra", &Schema{Type: "string"})

	assert.Equal(t, []string{"a"}, orig.Required)
	assert.Equal(t, "#/definitions/Base", orig.AllOf[0].Ref)
	origA, _ := orig.Properties.Get("a")
	assert.Equal(t, "string", origA.Items.Type)
	assert.Equal(t, 1, orig.Properties.Len())

	assert.Nil(t, (*Schema)(nil).Clone())
}

func TestSchemaJSONOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(&Schema{Type: "integer", Format: "int32"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"integer","format":"int32"}`, string(data))

	zero := 0.0
	data, err = json.Marshal(&Schema{Type: "number", Minimum: &zero, Nullable: true})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"number","minimum":0,"x-nullable":true}`, string(data))
}
