package middleware

import "net/http"

// responseRecorder remembers the first status code and counts body bytes
// for the request log.
type responseRecorder struct {
	http.ResponseWriter
	code  int
	bytes int64
}

func (rr *responseRecorder) WriteHeader(code int) {
	if rr.code == 0 {
		rr.code = code
	}
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if rr.code == 0 {
		rr.code = http.StatusOK
	}
	n, err := rr.ResponseWriter.Write(b)
	rr.bytes += int64(n)
	return n, err
}

// Status is the code sent to the client, 200 when the handler wrote nothing.
func (rr *responseRecorder) Status() int {
	if rr.code == 0 {
		return http.StatusOK
	}
	return rr.code
}

// Flush keeps streaming responses working through the recorder.
func (rr *responseRecorder) Flush() {
	_ = http.NewResponseController(rr.ResponseWriter).Flush()
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rr *responseRecorder) Unwrap() http.ResponseWriter {
	return rr.ResponseWriter
}
