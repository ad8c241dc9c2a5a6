package swagger

import (
	"fmt"
)

// VersionInfo describes one documented API version.
type VersionInfo struct {
	// Version is the document key, e.g. "v1".
	Version string
	Info    Info
}

// Config is the generator configuration. It is built once at startup and
// is read-only while documents are generated.
type Config struct {
	// Versions lists the documented API versions. Defaults to a single
	// "v1" version titled "API".
	Versions []VersionInfo

	// Schemes overrides the schemes derived from the root URL.
	Schemes []string

	Consumes []string
	Produces []string

	// Schema configures the schema engine.
	Schema SchemaOptions

	// Docs supplies source documentation. Optional.
	Docs DocumentationProvider

	// IgnoreObsoleteActions leaves obsolete actions out of the document.
	IgnoreObsoleteActions bool

	// GroupActionsBy returns the tag of an action. Defaults to the
	// action's controller.
	GroupActionsBy func(a *Action) string

	// VersionSelector reports whether an action belongs to a version.
	// Defaults to matching Action.Version, with an empty version matching
	// every document.
	VersionSelector func(a *Action, version string) bool

	// ResolveConflictingActions picks one action when several share a
	// path and method. Without it such conflicts fail generation.
	ResolveConflictingActions func(actions []*Action) *Action

	SecurityDefinitions map[string]*SecurityScheme
	Security            []SecurityRequirement

	// Tags adds descriptions to operation tags.
	Tags []Tag

	// OperationFilters and DocumentFilters are instantiated once per
	// generated document and run in order.
	OperationFilters []func() OperationFilter
	DocumentFilters  []func() DocumentFilter
}

// AddOperationFilter appends an operation filter factory.
func (c *Config) AddOperationFilter(factory func() OperationFilter) *Config {
	c.OperationFilters = append(c.OperationFilters, factory)
	return c
}

// AddDocumentFilter appends a document filter factory.
func (c *Config) AddDocumentFilter(factory func() DocumentFilter) *Config {
	c.DocumentFilters = append(c.DocumentFilters, factory)
	return c
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Versions))
	for _, v := range c.Versions {
		if v.Version == "" {
			return fmt.Errorf("swagger: version name must not be empty")
		}
		if seen[v.Version] {
			return fmt.Errorf("swagger: duplicate version %q", v.Version)
		}
		seen[v.Version] = true
	}
	for i, f := range c.Schema.SchemaFilters {
		if f == nil {
			return fmt.Errorf("swagger: schema filter %d is nil", i)
		}
	}
	for i, f := range c.OperationFilters {
		if f == nil {
			return fmt.Errorf("swagger: operation filter %d is nil", i)
		}
	}
	for i, f := range c.DocumentFilters {
		if f == nil {
			return fmt.Errorf("swagger: document filter %d is nil", i)
		}
	}
	for name, scheme := range c.SecurityDefinitions {
		switch scheme.Type {
		case "basic", "apiKey", "oauth2":
		default:
			return fmt.Errorf("swagger: security definition %q has invalid type %q", name, scheme.Type)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Versions) == 0 {
		c.Versions = []VersionInfo{{Version: "v1", Info: Info{Title: "API", Version: "v1"}}}
	}
	for i := range c.Versions {
		if c.Versions[i].Info.Version == "" {
			c.Versions[i].Info.Version = c.Versions[i].Version
		}
	}
	if c.GroupActionsBy == nil {
		c.GroupActionsBy = func(a *Action) string { return a.Controller }
	}
	if c.VersionSelector == nil {
		c.VersionSelector = func(a *Action, version string) bool {
			return a.Version == "" || a.Version == version
		}
	}
}
