package middleware

import (
	"log/slog"
	"net/http"
)

// Standard wraps next with the middleware every command serves behind.
// Order: RequestID → Recovery → next, so panic logs carry the request id.
func Standard(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequestID(logger)(Recovery(logger)(next))
	}
}
