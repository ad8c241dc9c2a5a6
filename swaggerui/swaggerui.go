package swaggerui

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/schema"

	"github.com/vitalvas/swagdoc/swagger"
)

const (
	defaultBasePath = "/swagger"
	defaultDistURL  = "https://unpkg.com/swagger-ui-dist@5"
	indexFile       = "index.html"
)

var (
	// ErrNoGenerator is returned by New when no document source is given.
	ErrNoGenerator = errors.New("swaggerui: generator must not be nil")

	// ErrNoIndexTemplate is returned by New when the asset file system does
	// not contain an index.html template.
	ErrNoIndexTemplate = errors.New("swaggerui: assets must contain index.html")

	// ErrInvalidDocExpansion is returned by New for an unknown docExpansion mode.
	ErrInvalidDocExpansion = errors.New("swaggerui: doc expansion must be one of list, full or none")
)

// Generator produces swagger documents. *swagger.Generator implements it.
type Generator interface {
	Versions() []string
	VersionInfo(version string) (swagger.VersionInfo, bool)
	Generate(rootURL, version string) (*swagger.Document, error)
}

// OAuth2Config holds the OAuth2 client settings passed to ui.initOAuth.
//
// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/oauth2/
type OAuth2Config struct {
	ClientID                    string            `json:"clientId,omitempty"`
	ClientSecret                string            `json:"clientSecret,omitempty"`
	Realm                       string            `json:"realm,omitempty"`
	AppName                     string            `json:"appName,omitempty"`
	ScopeSeparator              string            `json:"scopeSeparator,omitempty"`
	Scopes                      []string          `json:"scopes,omitempty"`
	AdditionalQueryStringParams map[string]string `json:"additionalQueryStringParams,omitempty"`
	UsePKCE                     bool              `json:"usePkceWithAuthorizationCodeGrant,omitempty"`
}

func (c *OAuth2Config) empty() bool {
	return c.ClientID == "" && c.ClientSecret == "" && c.Realm == "" && c.AppName == "" &&
		len(c.Scopes) == 0 && len(c.AdditionalQueryStringParams) == 0 && !c.UsePKCE
}

// Config configures the handler returned by New.
type Config struct {
	// BasePath is the path prefix of every endpoint (default: "/swagger").
	BasePath string

	// Title overrides the page title (default: info.title of the first version).
	Title string

	// DocExpansion controls the initial expansion of operations:
	// "list" (default), "full" or "none".
	DocExpansion string

	// SubmitMethods lists the HTTP methods "Try it out" is enabled for.
	// Nil enables every method; an empty slice disables the feature.
	SubmitMethods []string

	// ValidatorURL is the online validator badge URL. Empty disables it.
	ValidatorURL string

	OAuth2 OAuth2Config

	// ExtraOptions are merged into the SwaggerUIBundle options and win over
	// the options above.
	//
	// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
	ExtraOptions map[string]any

	// DistURL is where the swagger-ui-dist bundle is loaded from.
	DistURL string

	// Assets replaces the embedded UI assets. It must contain an index.html
	// html/template.
	Assets fs.FS

	// CacheDocuments keeps one generated document per version. Cached
	// documents are generated without a root URL; host, basePath and
	// schemes are set per request on a copy.
	CacheDocuments bool

	// APIBasePath is appended to the request origin to form the root URL
	// of documents. Ignored when RootURL is set.
	APIBasePath string

	// RootURL derives the document root URL from a request.
	RootURL func(r *http.Request) string

	Logger *slog.Logger
}

// Handler serves swagger documents and the swagger-ui pages.
type Handler struct {
	gen      Generator
	cfg      Config
	mux      *http.ServeMux
	index    *template.Template
	decoder  *schema.Decoder
	logger   *slog.Logger
	mu       sync.RWMutex
	cache    map[string]*swagger.Document
	pageOnce sync.Once
	page     []byte
	pageErr  error
}


type docsQuery struct {
	Format string `schema:"format"`
	Pretty bool   `schema:"pretty"`
}

// New returns a handler serving, under cfg.BasePath:
//
//	<base>, <base>/          redirect to <base>/ui/index.html
//	<base>/docs/{version}    document as JSON, or YAML with ?format=yaml
//	<base>/ui/index.html     templated swagger-ui page
//	<base>/ui/<asset>        static UI assets
func New(gen Generator, cfg Config) (*Handler, error) {
	if gen == nil {
		return nil, ErrNoGenerator
	}

	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")
	if cfg.BasePath == "/" {
		cfg.BasePath = defaultBasePath
	}
	if cfg.DistURL == "" {
		cfg.DistURL = defaultDistURL
	}
	cfg.DistURL = strings.TrimRight(cfg.DistURL, "/")

	switch cfg.DocExpansion {
	case "":
		cfg.DocExpansion = "list"
	case "list", "full", "none":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDocExpansion, cfg.DocExpansion)
	}

	assets := cfg.Assets
	if assets == nil {
		sub, err := fs.Sub(embeddedAssets, "assets")
		if err != nil {
			return nil, fmt.Errorf("swaggerui: failed to open embedded assets: %w", err)
		}
		assets = sub
	}

	if _, err := fs.Stat(assets, indexFile); err != nil {
		return nil, ErrNoIndexTemplate
	}
	index, err := template.ParseFS(assets, indexFile)
	if err != nil {
		return nil, fmt.Errorf("swaggerui: failed to parse index template: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	h := &Handler{
		gen:     gen,
		cfg:     cfg,
		mux:     http.NewServeMux(),
		index:   index,
		decoder: decoder,
		logger:  logger,
		cache:   make(map[string]*swagger.Document),
	}

	base := cfg.BasePath
	h.mux.HandleFunc("GET "+base, h.redirect)
	h.mux.HandleFunc("GET "+base+"/{$}", h.redirect)
	h.mux.HandleFunc("GET "+base+"/docs/{version}", h.serveDocs)
	h.mux.HandleFunc("GET "+base+"/ui/{$}", h.serveIndex)
	h.mux.HandleFunc("GET "+base+"/ui/"+indexFile, h.serveIndex)
	h.mux.Handle("GET "+base+"/ui/", http.StripPrefix(base+"/ui", http.FileServerFS(&assetFS{fs: assets})))

	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.cfg.BasePath+"/ui/"+indexFile, http.StatusMovedPermanently)
}

func (h *Handler) serveDocs(w http.ResponseWriter, r *http.Request) {
	var query docsQuery
	if err := h.decoder.Decode(&query, r.URL.Query()); err != nil {
		http.Error(w, "invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	var encode func(*swagger.Document) ([]byte, error)
	var contentType string
	switch strings.ToLower(query.Format) {
	case "", "json":
		encode, contentType = func(doc *swagger.Document) ([]byte, error) {
			return EncodeJSON(doc, query.Pretty)
		}, "application/json"
	case "yaml", "yml":
		encode, contentType = EncodeYAML, "application/x-yaml"
	default:
		http.Error(w, fmt.Sprintf("unsupported format %q", query.Format), http.StatusBadRequest)
		return
	}

	version := r.PathValue("version")
	doc, err := h.document(h.rootURL(r), version)
	if err != nil {
		if errors.Is(err, swagger.ErrUnknownVersion) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to generate document",
			slog.String("version", version),
			slog.Any("error", err),
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := encode(doc)
	if err != nil {
		h.logger.Error("failed to encode document",
			slog.String("version", version),
			slog.String("format", contentType),
			slog.Any("error", err),
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) document(rootURL, version string) (*swagger.Document, error) {
	if !h.cfg.CacheDocuments {
		return h.gen.Generate(rootURL, version)
	}

	h.mu.RLock()
	doc, ok := h.cache[version]
	h.mu.RUnlock()
	if !ok {
		var err error
		doc, err = h.gen.Generate("", version)
		if err != nil {
			return nil, err
		}

		h.mu.Lock()
		if cached, ok := h.cache[version]; ok {
			doc = cached
		} else {
			h.cache[version] = doc
		}
		h.mu.Unlock()
	}
	return doc.WithRootURL(rootURL)
}

// rootURL returns the absolute URL the API is reached at for r.
func (h *Handler) rootURL(r *http.Request) string {
	if h.cfg.RootURL != nil {
		return h.cfg.RootURL(r)
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme, _, _ = strings.Cut(proto, ",")
		scheme = strings.TrimSpace(scheme)
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host, _, _ = strings.Cut(fwd, ",")
		host = strings.TrimSpace(host)
	}

	u := url.URL{Scheme: scheme, Host: host, Path: h.cfg.APIBasePath}
	return u.String()
}

type discoveryURL struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type indexData struct {
	Title   string
	DistURL string
	Options map[string]any
	OAuth2  *OAuth2Config
}

func (h *Handler) serveIndex(w http.ResponseWriter, _ *http.Request) {
	h.pageOnce.Do(func() {
		var buf bytes.Buffer
		h.pageErr = h.index.Execute(&buf, h.indexData())
		h.page = buf.Bytes()
	})
	if h.pageErr != nil {
		h.logger.Error("failed to render index page", slog.Any("error", h.pageErr))
		http.Error(w, "failed to render index page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.page)
}

func (h *Handler) indexData() indexData {
	versions := h.gen.Versions()
	urls := make([]discoveryURL, 0, len(versions))
	title := h.cfg.Title
	for _, v := range versions {
		name := v
		if info, ok := h.gen.VersionInfo(v); ok && info.Info.Title != "" {
			name = v + " - " + info.Info.Title
			if title == "" {
				title = info.Info.Title
			}
		}
		urls = append(urls, discoveryURL{URL: h.cfg.BasePath + "/docs/" + url.PathEscape(v), Name: name})
	}
	if title == "" {
		title = "Swagger UI"
	}

	options := map[string]any{
		"urls":                     urls,
		"docExpansion":             h.cfg.DocExpansion,
		"deepLinking":              true,
		"displayOperationId":       false,
		"validatorUrl":             nil,
		"supportedSubmitMethods":   supportedSubmitMethods(h.cfg.SubmitMethods),
		"persistAuthorization":     false,
		"showExtensions":           false,
		"defaultModelsExpandDepth": 1,
	}
	if h.cfg.ValidatorURL != "" {
		options["validatorUrl"] = h.cfg.ValidatorURL
	}
	if len(urls) == 1 {
		options["url"] = urls[0].URL
		delete(options, "urls")
	}
	for k, v := range h.cfg.ExtraOptions {
		options[k] = v
	}

	data := indexData{Title: title, DistURL: h.cfg.DistURL, Options: options}
	if !h.cfg.OAuth2.empty() {
		oauth := h.cfg.OAuth2
		data.OAuth2 = &oauth
	}
	return data
}

func supportedSubmitMethods(methods []string) []string {
	if methods == nil {
		return []string{"get", "put", "post", "delete", "options", "head", "patch"}
	}
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = strings.ToLower(m)
	}
	return out
}

// EncodeJSON renders doc as JSON, indented when pretty is set.
func EncodeJSON(doc *swagger.Document, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
