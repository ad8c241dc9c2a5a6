package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrNoCORSOrigins        = errors.New("cors: at least one allowed origin is required")
	ErrInvalidOriginPattern = errors.New("cors: origin pattern contains multiple wildcards")
)

// CORSConfig configures the CORS middleware behaviour.
type CORSConfig struct {
	// AllowedOrigins lists the origins allowed to make cross-origin
	// requests. "*" allows any origin. An entry may hold one wildcard,
	// e.g. "https://*.example.com".
	AllowedOrigins []string

	// AllowedMethods defaults to GET, HEAD and OPTIONS.
	AllowedMethods []string

	// AllowedHeaders is returned on preflight. "*" echoes the requested
	// headers.
	AllowedHeaders []string

	ExposeHeaders []string

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the
	// header.
	MaxAge int
}

type originPattern struct {
	prefix string
	suffix string
}

// CORS returns a middleware that answers preflight requests itself and
// adds the Access-Control-* headers to responses for allowed origins.
// Requests from other origins pass through without CORS headers.
func CORS(cfg CORSConfig) (func(http.Handler) http.Handler, error) {
	if len(cfg.AllowedOrigins) == 0 {
		return nil, ErrNoCORSOrigins
	}

	anyOrigin := slices.Contains(cfg.AllowedOrigins, "*")
	var exact []string
	var patterns []originPattern
	for _, o := range cfg.AllowedOrigins {
		lower := strings.ToLower(o)
		prefix, suffix, found := strings.Cut(lower, "*")
		switch {
		case lower == "*":
		case !found:
			exact = append(exact, lower)
		case strings.Contains(suffix, "*"):
			return nil, ErrInvalidOriginPattern
		default:
			patterns = append(patterns, originPattern{prefix: prefix, suffix: suffix})
		}
	}

	allowed := func(origin string) bool {
		if anyOrigin {
			return true
		}
		origin = strings.ToLower(origin)
		if slices.Contains(exact, origin) {
			return true
		}
		return slices.ContainsFunc(patterns, func(p originPattern) bool {
			return len(origin) >= len(p.prefix)+len(p.suffix) &&
				strings.HasPrefix(origin, p.prefix) &&
				strings.HasSuffix(origin, p.suffix)
		})
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	}
	allowMethods := strings.Join(methods, ",")
	headersWildcard := slices.Contains(cfg.AllowedHeaders, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !anyOrigin {
				w.Header().Add("Vary", "Origin")
			}
			if origin == "" || !allowed(origin) {
				next.ServeHTTP(w, r)
				return
			}

			if anyOrigin {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Methods", allowMethods)
				switch {
				case headersWildcard:
					if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
						h.Set("Access-Control-Allow-Headers", requested)
					}
				case len(cfg.AllowedHeaders) > 0:
					h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ","))
				}
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if len(cfg.ExposeHeaders) > 0 {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ","))
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}
