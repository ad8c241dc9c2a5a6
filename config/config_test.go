package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/swagdoc/swagger"
)

const fullConfig = `
server:
  listen: 127.0.0.1:9090
  read_timeout: 5s
  shutdown_timeout: 1m
  cors:
    allowed_origins: ["https://*.example.com"]
    expose_headers: [X-Request-ID]
log:
  level: DEBUG
  format: json
api:
  base_path: /api
  schemes: [https]
  produces: [application/json]
  describe_all_enums_as_strings: true
  camel_case_enum_strings: true
  camel_case_properties: true
  nullable_properties: true
  ignore_obsolete_actions: true
  doc_comments:
    - ./internal/...
  versions:
    - name: v1
      title: Catalog API
      description: Products and orders.
      contact:
        name: API Team
        email: api@example.com
      license:
        name: MIT
    - name: v2
      title: Catalog API
      version: 2.0.0
ui:
  base_path: /docs
  doc_expansion: none
  submit_methods: [GET, POST]
  cache_documents: true
  oauth2:
    client_id: catalog-ui
    use_pkce: true
  extra_options:
    filter: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swagdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "/swagger", cfg.UI.BasePath)
	assert.True(t, cfg.UI.Enabled)
	assert.Len(t, cfg.API.Versions, 1)
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Listen)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "default kept")
	assert.Equal(t, time.Minute, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"https://*.example.com"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, []string{"X-Request-ID"}, cfg.Server.CORS.ExposeHeaders)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	require.Len(t, cfg.API.Versions, 2)
	assert.Equal(t, "v1", cfg.API.Versions[0].Version, "version defaults to name")
	assert.Equal(t, "2.0.0", cfg.API.Versions[1].Version)
	assert.Equal(t, []string{"./internal/..."}, cfg.API.DocComments)

	assert.Equal(t, []string{"get", "post"}, cfg.UI.SubmitMethods)
	assert.True(t, cfg.UI.Enabled, "default kept")
	assert.Equal(t, map[string]any{"filter": true}, cfg.UI.ExtraOptions)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server:\n  port: 80\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "field port not found")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server: [\n"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{"listen", func(c *Config) { c.Server.Listen = "localhost" }, "server.listen"},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }, "server.read_timeout"},
		{"shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
		{"cors method", func(c *Config) { c.Server.CORS.AllowedMethods = []string{"get"} }, "server.cors.allowed_methods[0]"},
		{"cors max age", func(c *Config) { c.Server.CORS.MaxAge = -1 }, "server.cors.max_age"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"no versions", func(c *Config) { c.API.Versions = nil }, "api.versions"},
		{"duplicate versions", func(c *Config) {
			c.API.Versions = append(c.API.Versions, VersionConfig{Name: "v1", Title: "Again"})
		}, "api.versions"},
		{"version title", func(c *Config) { c.API.Versions[0].Title = "" }, "api.versions[0].title"},
		{"version name", func(c *Config) { c.API.Versions[0].Name = "v1/beta" }, "api.versions[0].name"},
		{"contact email", func(c *Config) {
			c.API.Versions[0].Contact = &ContactConfig{Email: "nobody"}
		}, "api.versions[0].contact.email"},
		{"scheme", func(c *Config) { c.API.Schemes = []string{"ftp"} }, "api.schemes[0]"},
		{"api base path", func(c *Config) { c.API.BasePath = "api" }, "api.base_path"},
		{"ui base path", func(c *Config) { c.UI.BasePath = "" }, "ui.base_path"},
		{"doc expansion", func(c *Config) { c.UI.DocExpansion = "all" }, "ui.doc_expansion"},
		{"submit method", func(c *Config) { c.UI.SubmitMethods = []string{"trace"} }, "ui.submit_methods[0]"},
		{"validator url", func(c *Config) { c.UI.ValidatorURL = "not a url" }, "ui.validator_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field+":")
		})
	}

	t.Run("reports every violation", func(t *testing.T) {
		cfg := Default()
		cfg.Log.Level = "trace"
		cfg.Log.Format = "xml"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, 1, strings.Count(err.Error(), "log.level:"))
		assert.Equal(t, 1, strings.Count(err.Error(), "log.format:"))
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cfg := Default()
		cfg.Log = LogConfig{Level: "warn", Format: "json"}

		var buf bytes.Buffer
		logger := cfg.NewLogger(&buf)
		logger.Info("hidden")
		logger.Warn("shown", "key", "value")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "shown", record["msg"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("text", func(t *testing.T) {
		cfg := Default()
		cfg.Log.Level = "debug"

		var buf bytes.Buffer
		cfg.NewLogger(&buf).Debug("details", "n", 1)
		assert.Contains(t, buf.String(), "level=DEBUG msg=details n=1")
	})
}

func TestSwaggerConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	sc := cfg.SwaggerConfig()
	require.NoError(t, sc.Validate())

	require.Len(t, sc.Versions, 2)
	assert.Equal(t, swagger.VersionInfo{
		Version: "v1",
		Info: swagger.Info{
			Title:       "Catalog API",
			Description: "Products and orders.",
			Version:     "v1",
			Contact:     &swagger.Contact{Name: "API Team", Email: "api@example.com"},
			License:     &swagger.License{Name: "MIT"},
		},
	}, sc.Versions[0])
	assert.Equal(t, []string{"https"}, sc.Schemes)
	assert.Equal(t, []string{"application/json"}, sc.Produces)
	assert.True(t, sc.IgnoreObsoleteActions)
	assert.True(t, sc.Schema.DescribeAllEnumsAsStrings)
	assert.True(t, sc.Schema.CamelCaseEnumStrings)
	assert.Len(t, sc.Schema.SchemaFilters, 2)
}

func TestSwaggerUIConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	ui := cfg.SwaggerUIConfig(nil)
	assert.Equal(t, "/docs", ui.BasePath)
	assert.Equal(t, "/api", ui.APIBasePath)
	assert.Equal(t, "none", ui.DocExpansion)
	assert.Equal(t, []string{"get", "post"}, ui.SubmitMethods)
	assert.True(t, ui.CacheDocuments)
	assert.Equal(t, "catalog-ui", ui.OAuth2.ClientID)
	assert.True(t, ui.OAuth2.UsePKCE)
	assert.Equal(t, true, ui.ExtraOptions["filter"])
}
