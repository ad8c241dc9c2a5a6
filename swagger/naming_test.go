package swagger

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitalvas/swagdoc/swagger/internal/fixture/alpha"
)

func TestSchemaID(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"simple", reflect.TypeFor[Widget](), "Widget"},
		{"pointer", reflect.TypeFor[*Widget](), "Widget"},
		{"generic", reflect.TypeFor[Page[Widget]](), "Page[Widget]"},
		{"generic pointer argument", reflect.TypeFor[Page[*Widget]](), "Page[Widget]"},
		{"generic slice argument", reflect.TypeFor[Page[[]Widget]](), "Page[Array[Widget]]"},
		{"generic array argument", reflect.TypeFor[Page[[2]Widget]](), "Page[Array[Widget]]"},
		{"generic map argument", reflect.TypeFor[Page[map[string]Widget]](), "Page[Map[string,Widget]]"},
		{"generic nested", reflect.TypeFor[Page[Pair[int32, Widget]]](), "Page[Pair[int32,Widget]]"},
		{"generic foreign package", reflect.TypeFor[Page[alpha.Item]](), "Page[Item]"},
		{"generic builtin", reflect.TypeFor[Pair[string, int]](), "Pair[string,int]"},
		{"generic any", reflect.TypeFor[Page[any]](), "Page[Object]"},
		{"unnamed slice", reflect.TypeFor[[]Widget](), "Array[Widget]"},
		{"unnamed map", reflect.TypeFor[map[string][]int](), "Map[string,Array[int]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SchemaID(tt.typ, nil))
		})
	}
}

func TestSchemaIDFullNames(t *testing.T) {
	opts := &SchemaOptions{UseFullTypeNames: true}

	t.Run("named type", func(t *testing.T) {
		assert.Equal(t, "github.com.vitalvas.swagdoc.swagger.internal.fixture.alpha.Item",
			SchemaID(reflect.TypeFor[alpha.Item](), opts))
	})

	t.Run("generic arguments are qualified", func(t *testing.T) {
		assert.Equal(t,
			"github.com.vitalvas.swagdoc.swagger.Page[github.com.vitalvas.swagdoc.swagger.internal.fixture.alpha.Item]",
			SchemaID(reflect.TypeFor[Page[alpha.Item]](), opts))
	})

	t.Run("builtin arguments stay short", func(t *testing.T) {
		assert.Equal(t, "github.com.vitalvas.swagdoc.swagger.Pair[string,int]",
			SchemaID(reflect.TypeFor[Pair[string, int]](), opts))
	})
}

func TestSchemaIDSelector(t *testing.T) {
	opts := &SchemaOptions{
		UseFullTypeNames: true,
		SchemaIDSelector: func(t reflect.Type) string { return "custom" },
	}
	assert.Equal(t, "custom", SchemaID(reflect.TypeFor[*Widget](), opts))
}

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"Name":     "name",
		"name":     "name",
		"ID":       "id",
		"Id":       "id",
		"HTTPCode": "httpCode",
		"URLs":     "urLs",
		"A":        "a",
		"X1":       "x1",
		"_Private": "_Private",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, CamelCase(in))
		})
	}
}
