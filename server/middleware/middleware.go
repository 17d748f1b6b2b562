package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/735726032/openai-SenseVoice/errors"
)

// Middleware wraps an http.Handler. Server-level middleware runs for every
// route mounted on the mux, not only the Gin engine.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// writeError renders an AppError in the OpenAI error envelope.
func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	for k, v := range appErr.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}
