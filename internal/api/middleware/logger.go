package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/silver-potato-kebab/trade-tracker/internal/logging"
)

var sanitize = strings.NewReplacer("\n", "", "\r", "").Replace

// Logger logs one structured line per request with its status and duration.
// Requests are traced when tracing is enabled.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := logging.StartSpan(r.Context(), sanitize(r.Method)+" "+sanitize(r.URL.Path))
		defer span.End()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		// Method and path are user supplied; CR/LF are stripped before logging.
		args := []any{
			"method", sanitize(r.Method),
			"path", sanitize(r.URL.Path),
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := chimiddleware.GetReqID(ctx); id != "" {
			args = append(args, "request_id", id)
		}

		switch {
		case wrapped.statusCode >= http.StatusInternalServerError:
			logging.Error(ctx, "HTTP request", args...)
		case wrapped.statusCode >= http.StatusBadRequest:
			logging.Warn(ctx, "HTTP request", args...)
		default:
			logging.Info(ctx, "HTTP request", args...)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
