package middleware

import (
	"net/http"
	"strings"
)

// CacheControlRule maps a Content-Type prefix to a Cache-Control value.
type CacheControlRule struct {
	ContentType string
	Value       string
}

// CacheControl returns a middleware that sets Cache-Control from the
// first rule whose prefix matches the response Content-Type. A header
// set by the handler is kept.
func CacheControl(rules ...CacheControlRule) func(http.Handler) http.Handler {
	normalized := make([]CacheControlRule, len(rules))
	for i, rule := range rules {
		normalized[i] = CacheControlRule{ContentType: strings.ToLower(rule.ContentType), Value: rule.Value}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&cacheControlWriter{ResponseWriter: w, rules: normalized}, r)
		})
	}
}

type cacheControlWriter struct {
	http.ResponseWriter
	rules       []CacheControlRule
	wroteHeader bool
}

func (cw *cacheControlWriter) WriteHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.wroteHeader = true

	h := cw.Header()
	if h.Get("Cache-Control") == "" {
		ct := strings.ToLower(h.Get("Content-Type"))
		for _, rule := range cw.rules {
			if strings.HasPrefix(ct, rule.ContentType) {
				h.Set("Cache-Control", rule.Value)
				break
			}
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *cacheControlWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *cacheControlWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
