package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// slowRouteFactor stretches the deadline for routes that stream whole collections.
const slowRouteFactor = 4

type deadlineWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	expired bool
	started bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired || dw.started {
		return
	}
	dw.started = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	dw.started = true
	return dw.ResponseWriter.Write(b)
}

// expire marks the writer dead and reports whether nothing was sent yet.
func (dw *deadlineWriter) expire() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.expired = true
	return !dw.started
}

// RequestTimeout bounds each request by timeout, or by slowRouteFactor times
// timeout for paths under one of slowPrefixes. A handler that has not written
// anything by the deadline is answered with 503.
func RequestTimeout(timeout time.Duration, slowPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := timeout
			for _, p := range slowPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					limit = timeout * slowRouteFactor
					break
				}
			}

			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
						return
					}
					close(done)
				}()
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				if dw.expire() {
					writeJSONError(w, http.StatusServiceUnavailable, "Request timeout")
				}
			}
		})
	}
}
