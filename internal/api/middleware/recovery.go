package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hugh/go-taskboard/internal/api/dto"
)

// Recovery turns a panic in a handler into a 500 response. If the handler
// had already started its response, the panic is only logged.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
					"response_started", wrapped.wroteHeader,
				)
				if wrapped.wroteHeader {
					return
				}
				writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
