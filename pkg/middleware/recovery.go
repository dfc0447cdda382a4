package middleware

import (
	"net/http"
	"runtime/debug"

	"buffet/pkg/logger"
)

// Recovery turns a handler panic into a 500 and logs the stack with the request id.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("Handler panicked",
					"request_id", RequestIDFromContext(r.Context()),
					"panic", rec,
					"route", r.Method+" "+r.URL.Path,
					"user_id", principalID(r),
					"stack", string(debug.Stack()),
				)
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func principalID(r *http.Request) string {
	if p, ok := PrincipalFromContext(r.Context()); ok {
		return p.UserID
	}
	return ""
}
