package swagger

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Generator assembles Swagger 2.0 documents from the actions of an API.
// It holds no mutable state: every Generate call builds its own schema
// registry and filter instances, so a Generator may be shared between
// goroutines.
type Generator struct {
	actions ActionProvider
	cfg     Config
}

// NewGenerator validates cfg and returns a generator over actions.
func NewGenerator(actions ActionProvider, cfg Config) (*Generator, error) {
	if actions == nil {
		return nil, ErrNoActionProvider
	}
	cfg.Versions = slices.Clone(cfg.Versions)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{actions: actions, cfg: cfg}, nil
}

// Versions returns the configured version names in declaration order.
func (g *Generator) Versions() []string {
	names := make([]string, len(g.cfg.Versions))
	for i, v := range g.cfg.Versions {
		names[i] = v.Version
	}
	return names
}

// VersionInfo returns the metadata of a configured version.
func (g *Generator) VersionInfo(version string) (VersionInfo, bool) {
	for _, v := range g.cfg.Versions {
		if v.Version == version {
			return v, true
		}
	}
	return VersionInfo{}, false
}

// Generate builds the document of one API version. rootURL is the absolute
// URL the API is served under; it supplies host, basePath and schemes and
// may be empty.
//
// Generation either succeeds completely or returns an error: unknown
// versions, conflicting schema ids, conflicting actions and filter errors
// all abort it.
//
// See: https://swagger.io/specification/v2/#swagger-object
func (g *Generator) Generate(rootURL, version string) (*Document, error) {
	vi, ok := g.VersionInfo(version)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}

	doc := &Document{
		Swagger:             "2.0",
		Info:                cloneInfo(vi.Info),
		Consumes:            slices.Clone(g.cfg.Consumes),
		Produces:            slices.Clone(g.cfg.Produces),
		Paths:               make(map[string]*PathItem),
		SecurityDefinitions: cloneSecurityDefinitions(g.cfg.SecurityDefinitions),
		Security:            cloneSecurity(g.cfg.Security),
	}
	if err := g.applyRootURL(doc, rootURL); err != nil {
		return nil, err
	}

	reg := NewSchemaRegistry(&g.cfg.Schema, g.cfg.Docs)

	opFilters := make([]OperationFilter, len(g.cfg.OperationFilters))
	for i, factory := range g.cfg.OperationFilters {
		opFilters[i] = factory()
	}

	actions := g.selectActions(version)
	grouped := groupActions(actions)

	paths := make([]string, 0, len(grouped))
	for path := range grouped {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		byMethod := grouped[path]
		methods := make([]string, 0, len(byMethod))
		for method := range byMethod {
			methods = append(methods, method)
		}
		slices.Sort(methods)

		item := &PathItem{}
		for _, method := range methods {
			a, err := g.resolveConflicts(path, method, byMethod[method])
			if err != nil {
				return nil, err
			}

			op, err := g.buildOperation(reg, a)
			if err != nil {
				return nil, fmt.Errorf("swagger: %s %s: %w", method, path, err)
			}

			ctx := &OperationFilterContext{Action: a, Path: path, Method: method, Registry: reg}
			for _, f := range opFilters {
				if err := f.Apply(op, ctx); err != nil {
					return nil, fmt.Errorf("swagger: operation filter for %s %s: %w", method, path, err)
				}
			}

			assignOperation(item, method, op)
		}
		doc.Paths[path] = item
	}

	doc.Definitions = reg.Definitions()
	doc.Tags = g.mergeTags(doc.Paths)

	dctx := &DocumentFilterContext{Version: version, RootURL: rootURL, Actions: actions, Registry: reg}
	for _, factory := range g.cfg.DocumentFilters {
		if err := factory().Apply(doc, dctx); err != nil {
			return nil, fmt.Errorf("swagger: document filter: %w", err)
		}
	}

	return doc, nil
}

func (g *Generator) applyRootURL(doc *Document, rootURL string) error {
	if err := doc.setRootURL(rootURL); err != nil {
		return err
	}
	if len(g.cfg.Schemes) > 0 {
		doc.Schemes = slices.Clone(g.cfg.Schemes)
	}
	return nil
}

// WithRootURL returns a shallow copy of d served from rootURL. Host and
// base path come from the URL; its scheme is used only when d lists no
// schemes. Everything else is shared with d, so the copy must not be
// modified.
func (d *Document) WithRootURL(rootURL string) (*Document, error) {
	c := *d
	schemes := d.Schemes
	if err := c.setRootURL(rootURL); err != nil {
		return nil, err
	}
	if len(schemes) > 0 {
		c.Schemes = schemes
	}
	return &c, nil
}

func (d *Document) setRootURL(rootURL string) error {
	if rootURL == "" {
		return nil
	}
	u, err := url.Parse(rootURL)
	if err != nil {
		return fmt.Errorf("swagger: invalid root url %q: %w", rootURL, err)
	}
	d.Host = u.Host
	if base := strings.TrimSuffix(u.Path, "/"); base != "" {
		d.BasePath = base
	}
	if u.Scheme != "" {
		d.Schemes = []string{u.Scheme}
	}
	return nil
}

// selectActions returns the actions documented under version.
func (g *Generator) selectActions(version string) []*Action {
	var selected []*Action
	for _, a := range g.actions.Actions() {
		if a.Hidden {
			continue
		}
		if a.Obsolete && g.cfg.IgnoreObsoleteActions {
			continue
		}
		if !g.cfg.VersionSelector(a, version) {
			continue
		}
		selected = append(selected, a)
	}
	return selected
}

// groupActions indexes actions by normalized path and lower-case method.
func groupActions(actions []*Action) map[string]map[string][]*Action {
	grouped := make(map[string]map[string][]*Action)
	for _, a := range actions {
		path := normalizePath(a.Path)
		method := strings.ToLower(a.Method)
		if grouped[path] == nil {
			grouped[path] = make(map[string][]*Action)
		}
		grouped[path][method] = append(grouped[path][method], a)
	}
	return grouped
}

func (g *Generator) resolveConflicts(path, method string, actions []*Action) (*Action, error) {
	if len(actions) == 1 {
		return actions[0], nil
	}
	if g.cfg.ResolveConflictingActions != nil {
		if a := g.cfg.ResolveConflictingActions(actions); a != nil {
			return a, nil
		}
	}
	return nil, &ConflictingActionsError{Path: path, Method: strings.ToUpper(method), Actions: actions}
}

// mergeTags collects operation tags, adding the descriptions configured in
// Config.Tags. The result is sorted by name.
func (g *Generator) mergeTags(paths map[string]*PathItem) []Tag {
	known := make(map[string]Tag, len(g.cfg.Tags))
	for _, tag := range g.cfg.Tags {
		known[tag.Name] = tag
	}

	seen := make(map[string]bool)
	var tags []Tag
	for _, item := range paths {
		for _, op := range item.Operations() {
			for _, name := range op.Tags {
				if seen[name] {
					continue
				}
				seen[name] = true
				if tag, ok := known[name]; ok {
					tags = append(tags, tag)
				} else {
					tags = append(tags, Tag{Name: name})
				}
			}
		}
	}

	slices.SortFunc(tags, func(a, b Tag) int {
		return strings.Compare(a.Name, b.Name)
	})
	return tags
}

// assignOperation stores op in the path item field matching method.
func assignOperation(item *PathItem, method string, op *Operation) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodHead:
		item.Head = op
	case http.MethodOptions:
		item.Options = op
	}
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
