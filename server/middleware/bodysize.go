package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/735726032/openai-SenseVoice/errors"
	"github.com/735726032/openai-SenseVoice/util"
)

// DefaultMaxBodySize applies when the configured size cannot be parsed.
const DefaultMaxBodySize = 100 * 1024 * 1024

// BodySizeLimit restricts the request body to maxSize (e.g. "100MB").
// Requests that declare a larger Content-Length are rejected up front;
// streamed bodies fail on read with *http.MaxBytesError, see BodyTooLarge.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, errors.RequestTooLarge(util.FormatSize(limit)))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// BodyTooLarge maps a body read failure caused by BodySizeLimit to a 413
// AppError. It returns nil for any other error.
func BodyTooLarge(err error) *errors.AppError {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.RequestTooLarge(util.FormatSize(maxErr.Limit))
	}
	// Some readers flatten the error to its message.
	if err != nil && strings.Contains(err.Error(), "http: request body too large") {
		return errors.RequestTooLarge("configured")
	}
	return nil
}
