// Package config loads the swagdoc YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/swagdoc/swagger"
	"github.com/vitalvas/swagdoc/swaggerui"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the swagdoc configuration file.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	API    APIConfig    `yaml:"api"`
	UI     UIConfig     `yaml:"ui"`
}

type ServerConfig struct {
	Listen          string        `yaml:"listen" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	CORS            CORSConfig    `yaml:"cors"`
}

// CORSConfig enables cross-origin access when AllowedOrigins is set.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" validate:"dive,required"`
	AllowedMethods []string `yaml:"allowed_methods" validate:"dive,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS"`
	AllowedHeaders []string `yaml:"allowed_headers" validate:"dive,required"`
	ExposeHeaders  []string `yaml:"expose_headers" validate:"dive,required"`
	MaxAge         int      `yaml:"max_age" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type APIConfig struct {
	// BasePath is the path the API is served under, e.g. "/api".
	BasePath string          `yaml:"base_path" validate:"omitempty,startswith=/"`
	Versions []VersionConfig `yaml:"versions" validate:"required,min=1,unique=Name,dive"`
	Schemes  []string        `yaml:"schemes" validate:"dive,oneof=http https ws wss"`
	Consumes []string        `yaml:"consumes"`
	Produces []string        `yaml:"produces"`

	DescribeAllEnumsAsStrings bool `yaml:"describe_all_enums_as_strings"`
	CamelCaseEnumStrings      bool `yaml:"camel_case_enum_strings"`
	CamelCaseProperties       bool `yaml:"camel_case_properties"`
	NullableProperties        bool `yaml:"nullable_properties"`
	UseFullTypeNames          bool `yaml:"use_full_type_names"`
	IgnoreObsoleteActions     bool `yaml:"ignore_obsolete_actions"`
	IgnoreObsoleteProperties  bool `yaml:"ignore_obsolete_properties"`

	// DocComments lists package patterns whose doc comments document
	// schemas and operations.
	DocComments []string `yaml:"doc_comments"`
}

type VersionConfig struct {
	Name           string         `yaml:"name" validate:"required,excludesall=/?#"`
	Title          string         `yaml:"title" validate:"required"`
	Version        string         `yaml:"version"`
	Description    string         `yaml:"description"`
	TermsOfService string         `yaml:"terms_of_service" validate:"omitempty,url"`
	Contact        *ContactConfig `yaml:"contact"`
	License        *LicenseConfig `yaml:"license"`
}

type ContactConfig struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url" validate:"omitempty,url"`
	Email string `yaml:"email" validate:"omitempty,email"`
}

type LicenseConfig struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"omitempty,url"`
}

type UIConfig struct {
	Enabled        bool           `yaml:"enabled"`
	BasePath       string         `yaml:"base_path" validate:"startswith=/"`
	Title          string         `yaml:"title"`
	DocExpansion   string         `yaml:"doc_expansion" validate:"oneof=list full none"`
	SubmitMethods  []string       `yaml:"submit_methods" validate:"omitempty,dive,oneof=get put post delete options head patch"`
	ValidatorURL   string         `yaml:"validator_url" validate:"omitempty,url"`
	DistURL        string         `yaml:"dist_url" validate:"omitempty,url"`
	CacheDocuments bool           `yaml:"cache_documents"`
	OAuth2         OAuth2Config   `yaml:"oauth2"`
	ExtraOptions   map[string]any `yaml:"extra_options"`
}

type OAuth2Config struct {
	ClientID                    string            `yaml:"client_id"`
	ClientSecret                string            `yaml:"client_secret"`
	Realm                       string            `yaml:"realm"`
	AppName                     string            `yaml:"app_name"`
	ScopeSeparator              string            `yaml:"scope_separator"`
	Scopes                      []string          `yaml:"scopes"`
	AdditionalQueryStringParams map[string]string `yaml:"additional_query_string_params"`
	UsePKCE                     bool              `yaml:"use_pkce"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		API: APIConfig{
			Versions: []VersionConfig{{Name: "v1", Title: "API", Version: "v1"}},
		},
		UI: UIConfig{
			Enabled:      true,
			BasePath:     "/swagger",
			DocExpansion: "list",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a YAML configuration from r over the defaults and
// validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parsing: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.API.Versions {
		if c.API.Versions[i].Version == "" {
			c.API.Versions[i].Version = c.API.Versions[i].Name
		}
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	for i, m := range c.UI.SubmitMethods {
		c.UI.SubmitMethods[i] = strings.ToLower(m)
	}
	for i, m := range c.Server.CORS.AllowedMethods {
		c.Server.CORS.AllowedMethods[i] = strings.ToUpper(m)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field constraint and reports all violations.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs[i] = fmt.Sprintf("%s: failed %q", field, rule)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// NewLogger builds a text or JSON slog logger writing to w at the
// configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SwaggerConfig converts the api section into a generator configuration.
// Documentation providers and type registrations are added by the caller.
func (c *Config) SwaggerConfig() swagger.Config {
	api := c.API

	cfg := swagger.Config{
		Schemes:               api.Schemes,
		Consumes:              api.Consumes,
		Produces:              api.Produces,
		IgnoreObsoleteActions: api.IgnoreObsoleteActions,
		Schema: swagger.SchemaOptions{
			DescribeAllEnumsAsStrings: api.DescribeAllEnumsAsStrings,
			CamelCaseEnumStrings:      api.CamelCaseEnumStrings,
			UseFullTypeNames:          api.UseFullTypeNames,
			IgnoreObsoleteProperties:  api.IgnoreObsoleteProperties,
		},
	}

	for _, v := range api.Versions {
		info := swagger.Info{
			Title:          v.Title,
			Description:    v.Description,
			TermsOfService: v.TermsOfService,
			Version:        v.Version,
		}
		if v.Contact != nil {
			info.Contact = &swagger.Contact{Name: v.Contact.Name, URL: v.Contact.URL, Email: v.Contact.Email}
		}
		if v.License != nil {
			info.License = &swagger.License{Name: v.License.Name, URL: v.License.URL}
		}
		cfg.Versions = append(cfg.Versions, swagger.VersionInfo{Version: v.Name, Info: info})
	}

	if api.CamelCaseProperties {
		cfg.Schema.AddSchemaFilter(swagger.CamelCasePropertyNames)
	}
	if api.NullableProperties {
		cfg.Schema.AddSchemaFilter(swagger.NullableProperties)
	}

	return cfg
}

// SwaggerUIConfig converts the ui section into a swaggerui configuration.
func (c *Config) SwaggerUIConfig(logger *slog.Logger) swaggerui.Config {
	ui := c.UI
	return swaggerui.Config{
		BasePath:      ui.BasePath,
		Title:         ui.Title,
		DocExpansion:  ui.DocExpansion,
		SubmitMethods: ui.SubmitMethods,
		ValidatorURL:  ui.ValidatorURL,
		DistURL:       ui.DistURL,
		OAuth2: swaggerui.OAuth2Config{
			ClientID:                    ui.OAuth2.ClientID,
			ClientSecret:                ui.OAuth2.ClientSecret,
			Realm:                       ui.OAuth2.Realm,
			AppName:                     ui.OAuth2.AppName,
			ScopeSeparator:              ui.OAuth2.ScopeSeparator,
			Scopes:                      ui.OAuth2.Scopes,
			AdditionalQueryStringParams: ui.OAuth2.AdditionalQueryStringParams,
			UsePKCE:                     ui.OAuth2.UsePKCE,
		},
		ExtraOptions:   ui.ExtraOptions,
		CacheDocuments: ui.CacheDocuments,
		APIBasePath:    c.API.BasePath,
		Logger:         logger,
	}
}
