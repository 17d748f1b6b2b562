package middleware

import (
	"net/http"
	"time"

	"github.com/735726032/openai-SenseVoice/logger"
)

// Transcribing long recordings is expected to take a while; only requests
// beyond this are flagged.
const slowRequest = time.Minute

// RequestLogger logs one line per request at a level chosen by status.
// Probe endpoints are not logged.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health", "/ready", "/alive", "/version":
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			status := rec.Status()
			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, status,
				logger.FieldDuration, elapsed.Milliseconds(),
				"request_bytes", r.ContentLength,
				"response_bytes", rec.bytes,
			)
			if elapsed > slowRequest {
				fields["slow"] = true
			}

			l := log.WithContext(r.Context())
			switch {
			case status >= http.StatusInternalServerError:
				l.Error("Request completed", fields)
			case status >= http.StatusBadRequest:
				l.Warn("Request completed", fields)
			default:
				l.Info("Request completed", fields)
			}
		})
	}
}
