package middleware

import (
	"net/http"
)

const (
	CORSAllowHeaders = "authorization, x-client-info, apikey, content-type, idempotency-key, x-request-id"
	CORSAllowMethods = "GET, POST, PUT, PATCH, OPTIONS"
)

// CORS answers preflight requests with "ok" and stamps every response with
// the allowed origin.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigin)
			h.Set("Access-Control-Allow-Headers", CORSAllowHeaders)
			h.Set("Access-Control-Allow-Methods", CORSAllowMethods)
			if allowedOrigin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
