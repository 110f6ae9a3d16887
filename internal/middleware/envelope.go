package middleware

import (
	"net/http"
	"strings"
)

// envelopeWriter rewrites plain-text 404/405 responses generated by
// http.ServeMux into the JSON error envelope. Handler-written errors
// already carry an application/json content type and pass through.
type envelopeWriter struct {
	http.ResponseWriter
	intercepted bool
}

func (w *envelopeWriter) WriteHeader(status int) {
	if status != http.StatusNotFound && status != http.StatusMethodNotAllowed {
		w.ResponseWriter.WriteHeader(status)
		return
	}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		w.ResponseWriter.WriteHeader(status)
		return
	}

	w.intercepted = true
	if status == http.StatusMethodNotAllowed {
		writeError(w.ResponseWriter, status, "validation_error", "method not allowed")
		return
	}
	writeError(w.ResponseWriter, status, "not_found", "resource not found")
}

// Write drops the mux's plain-text body once the envelope has been sent.
func (w *envelopeWriter) Write(b []byte) (int, error) {
	if w.intercepted {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

func (w *envelopeWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// ErrorEnvelope guarantees the JSON error envelope on responses the router
// produces itself, such as unknown paths and unsupported methods.
func ErrorEnvelope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&envelopeWriter{ResponseWriter: w}, r)
	})
}
