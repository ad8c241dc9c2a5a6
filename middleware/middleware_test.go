package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	uuidV4Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	uuidV7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

// newTestLogger returns a JSON logger writing to buf.
func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// records decodes the JSON log lines written to buf.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantCode  int
		wantPanic bool
	}{
		{
			name: "no panic passes through",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "panic returns 500",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic("something went wrong")
			},
			wantCode:  http.StatusInternalServerError,
			wantPanic: true,
		},
		{
			name: "panic with integer value",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic(42)
			},
			wantCode:  http.StatusInternalServerError,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			var logged any

			h := Recovery(RecoveryConfig{
				Logger:  newTestLogger(&buf),
				LogFunc: func(_ *http.Request, err any) { logged = err },
			})(tt.handler)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if !tt.wantPanic {
				assert.Nil(t, logged)
				assert.Empty(t, buf.String())
				return
			}

			assert.NotNil(t, logged)
			assert.Contains(t, w.Body.String(), http.StatusText(http.StatusInternalServerError))

			recs := records(t, &buf)
			require.Len(t, recs, 1)
			assert.Equal(t, "ERROR", recs[0]["level"])
			assert.Equal(t, "panic recovered", recs[0]["msg"])
			assert.Equal(t, "/test", recs[0]["path"])
			assert.NotContains(t, recs[0], "stack")
		})
	}

	t.Run("stack and request id", func(t *testing.T) {
		var buf bytes.Buffer
		h := RequestID(RequestIDConfig{GenerateFunc: func(*http.Request) string { return "req-1" }})(
			Recovery(RecoveryConfig{Logger: newTestLogger(&buf), Stack: true})(
				http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
			),
		)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		recs := records(t, &buf)
		require.Len(t, recs, 1)
		assert.Equal(t, "req-1", recs[0]["request_id"])
		assert.Contains(t, recs[0]["stack"], "goroutine")
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		h := Recovery(RecoveryConfig{Logger: newTestLogger(&bytes.Buffer{})})(
			http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic(http.ErrAbortHandler) }),
		)

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name           string
		config         RequestIDConfig
		incomingHeader string
		headerName     string
		wantHeader     string
		wantGenerated  bool
	}{
		{
			name:          "generates UUID v4 by default",
			wantGenerated: true,
		},
		{
			name:           "does not trust incoming by default",
			incomingHeader: "existing-id",
			wantGenerated:  true,
		},
		{
			name:           "trusts incoming when configured",
			config:         RequestIDConfig{TrustIncoming: true},
			incomingHeader: "existing-id",
			wantHeader:     "existing-id",
		},
		{
			name:          "generates when trust incoming but no header",
			config:        RequestIDConfig{TrustIncoming: true},
			wantGenerated: true,
		},
		{
			name:       "custom generate func",
			config:     RequestIDConfig{GenerateFunc: func(_ *http.Request) string { return "custom-id" }},
			wantHeader: "custom-id",
		},
		{
			name:       "custom header name",
			config:     RequestIDConfig{HeaderName: "X-Trace-ID", GenerateFunc: func(_ *http.Request) string { return "trace-123" }},
			headerName: "X-Trace-ID",
			wantHeader: "trace-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.headerName
			if header == "" {
				header = DefaultRequestIDHeader
			}

			var fromContext, fromRequest string
			h := RequestID(tt.config)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				fromContext = RequestIDFromContext(r.Context())
				fromRequest = r.Header.Get(header)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incomingHeader != "" {
				req.Header.Set(header, tt.incomingHeader)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			got := w.Header().Get(header)
			if tt.wantGenerated {
				assert.Regexp(t, uuidV4Regex, got)
			} else {
				assert.Equal(t, tt.wantHeader, got)
			}
			assert.Equal(t, got, fromContext)
			assert.Equal(t, got, fromRequest)
		})
	}

	t.Run("empty id is not propagated", func(t *testing.T) {
		var fromContext string
		h := RequestID(RequestIDConfig{GenerateFunc: func(*http.Request) string { return "" }})(
			http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				fromContext = RequestIDFromContext(r.Context())
			}),
		)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, w.Header().Get(DefaultRequestIDHeader))
		assert.Empty(t, fromContext)
	})

	t.Run("generators", func(t *testing.T) {
		assert.Regexp(t, uuidV4Regex, GenerateUUIDv4(nil))
		a, b := GenerateUUIDv7(nil), GenerateUUIDv7(nil)
		assert.Regexp(t, uuidV7Regex, a)
		assert.NotEqual(t, a, b)
	})
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantCode  float64
		wantBytes float64
		wantLevel string
	}{
		{
			name:      "implicit ok",
			handler:   func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("hello")) },
			wantCode:  200,
			wantBytes: 5,
			wantLevel: "INFO",
		},
		{
			name:      "no body",
			handler:   func(http.ResponseWriter, *http.Request) {},
			wantCode:  200,
			wantLevel: "INFO",
		},
		{
			name:      "client error",
			handler:   func(w http.ResponseWriter, _ *http.Request) { http.NotFound(w, nil) },
			wantCode:  404,
			wantBytes: 19,
			wantLevel: "INFO",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.WriteHeader(http.StatusOK)
			},
			wantCode:  502,
			wantLevel: "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := Logging(newTestLogger(&buf))(tt.handler)
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/items", nil))

			recs := records(t, &buf)
			require.Len(t, recs, 1)
			rec := recs[0]
			assert.Equal(t, "request completed", rec["msg"])
			assert.Equal(t, tt.wantLevel, rec["level"])
			assert.Equal(t, "POST", rec["method"])
			assert.Equal(t, "/items", rec["path"])
			assert.Equal(t, tt.wantCode, rec["status"])
			assert.Equal(t, tt.wantBytes, rec["bytes"])
			assert.Contains(t, rec, "duration")
		})
	}
}
