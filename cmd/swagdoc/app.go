package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vitalvas/swagdoc/config"
	"github.com/vitalvas/swagdoc/doccomments"
	"github.com/vitalvas/swagdoc/explorer"
	"github.com/vitalvas/swagdoc/internal/catalog"
	"github.com/vitalvas/swagdoc/middleware"
	"github.com/vitalvas/swagdoc/swagger"
	"github.com/vitalvas/swagdoc/swaggerui"
)

// app holds everything built from a configuration.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	explorer  *explorer.Explorer
	generator *swagger.Generator
	ui        *swaggerui.Handler
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	e := explorer.New()
	e.Use(
		middleware.RequestID(middleware.RequestIDConfig{}),
		middleware.Logging(logger),
		middleware.Recovery(middleware.RecoveryConfig{Logger: logger}),
	)
	catalog.New(catalog.NewStore(), logger).Register(e)

	sc := cfg.SwaggerConfig()
	if err := catalog.Configure(&sc); err != nil {
		return nil, err
	}

	if len(cfg.API.DocComments) > 0 {
		docs, err := doccomments.Load(ctx, "", cfg.API.DocComments...)
		if err != nil {
			return nil, fmt.Errorf("loading doc comments: %w", err)
		}
		sc.Docs = docs
	}

	gen, err := swagger.NewGenerator(e, sc)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, explorer: e, generator: gen}
	if cfg.UI.Enabled {
		a.ui, err = swaggerui.New(gen, cfg.SwaggerUIConfig(logger))
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

// handler routes the UI under its base path and the API under the
// configured API base path.
func (a *app) handler() (http.Handler, error) {
	mux := http.NewServeMux()

	if a.ui != nil {
		ui := middleware.CacheControl(
			middleware.CacheControlRule{ContentType: "application/json", Value: "no-cache"},
			middleware.CacheControlRule{ContentType: "application/x-yaml", Value: "no-cache"},
			middleware.CacheControlRule{ContentType: "text/html", Value: "no-cache"},
			middleware.CacheControlRule{ContentType: "text/css", Value: "public, max-age=3600"},
			middleware.CacheControlRule{ContentType: "image/", Value: "public, max-age=86400"},
		)(a.ui)

		base := strings.TrimSuffix(a.cfg.UI.BasePath, "/")
		mux.Handle(base, ui)
		mux.Handle(base+"/", ui)
	}

	apiBase := strings.TrimSuffix(a.cfg.API.BasePath, "/")
	if apiBase == "" {
		mux.Handle("/", a.explorer)
	} else {
		mux.Handle(apiBase+"/", http.StripPrefix(apiBase, a.explorer))
	}

	cors := a.cfg.Server.CORS
	if len(cors.AllowedOrigins) == 0 {
		return mux, nil
	}
	mw, err := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cors.AllowedOrigins,
		AllowedMethods: cors.AllowedMethods,
		AllowedHeaders: cors.AllowedHeaders,
		ExposeHeaders:  cors.ExposeHeaders,
		MaxAge:         cors.MaxAge,
	})
	if err != nil {
		return nil, err
	}
	return mw(mux), nil
}
