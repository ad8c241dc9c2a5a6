package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger receives an error record for every recovered panic.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// LogFunc is an optional callback invoked with the request and the
	// recovered value, in addition to the log record.
	LogFunc func(r *http.Request, err any)

	// Stack adds the goroutine stack to the log record.
	Stack bool
}

// Recovery returns a middleware that recovers from panics in downstream
// handlers. When a panic occurs it logs the recovered value and returns
// 500 Internal Server Error to the client.
//
// http.ErrAbortHandler is re-panicked so the server can abort the
// response as usual.
func Recovery(cfg RecoveryConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				attrs := []any{
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				}
				if id := RequestIDFromContext(r.Context()); id != "" {
					attrs = append(attrs, slog.String("request_id", id))
				}
				if cfg.Stack {
					attrs = append(attrs, slog.String("stack", string(debug.Stack())))
				}
				logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				if cfg.LogFunc != nil {
					cfg.LogFunc(r, err)
				}

				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
