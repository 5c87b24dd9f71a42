package middleware

import "net/http"

// DefaultMaxBodySize caps request bodies at 1MB; webhook payloads and event
// listings are far below that.
const DefaultMaxBodySize int64 = 1 << 20

// RequestSize wraps request bodies with http.MaxBytesReader so oversized
// payloads fail with 413 instead of being buffered.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
