package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"buffet/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const (
	IdempotencyHeader       = "Idempotency-Key"
	idempotencyReplayHeader = "Idempotent-Replayed"
	idempotencyKeyPrefix    = "buffet:idempotency:"
)

// IdempotencyStore keeps the first successful response per scoped key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool)
	Set(ctx context.Context, key string, response *CachedResponse)
	Stop()
}

type CachedResponse struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
	StoredAt   time.Time   `json:"stored_at"`
}

// RedisIdempotencyStore shares replays across every instance behind the load balancer.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, ttl: ttl, log: log}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	raw, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Idempotency lookup failed", "error", err)
		}
		return nil, false
	}
	var cached CachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, response *CachedResponse) {
	response.StoredAt = time.Now()
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, idempotencyKeyPrefix+key, raw, s.ttl).Err(); err != nil {
		s.log.Warn("Idempotency store failed", "error", err)
	}
}

func (s *RedisIdempotencyStore) Stop() {}

// InMemoryIdempotencyStore is the single-instance fallback when Redis is not configured.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]*CachedResponse
	ttl     time.Duration
	stopCh  chan struct{}
	once    sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]*CachedResponse),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	go s.sweep(10 * time.Minute)
	return s
}

func (s *InMemoryIdempotencyStore) Get(_ context.Context, key string) (*CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(cached.StoredAt) > s.ttl {
		delete(s.entries, key)
		return nil, false
	}
	return cached, true
}

func (s *InMemoryIdempotencyStore) Set(_ context.Context, key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	response.StoredAt = time.Now()
	s.entries[key] = response
}

func (s *InMemoryIdempotencyStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, cached := range s.entries {
				if now.Sub(cached.StoredAt) > s.ttl {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

// Idempotency replays the first 2xx response for a repeated Idempotency-Key
// so a double-submitted reservation is only created once. Keys are scoped to
// the caller and route.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || r.Method == http.MethodGet || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			key = r.Method + " " + r.URL.Path + " " + clientKey(r) + " " + key

			if cached, ok := store.Get(r.Context(), key); ok {
				replay(w, cached)
				return
			}

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			if cw.status >= 200 && cw.status < 300 {
				store.Set(r.Context(), key, &CachedResponse{
					StatusCode: cw.status,
					Headers:    w.Header().Clone(),
					Body:       cw.buf.Bytes(),
				})
			}
		})
	}
}

func replay(w http.ResponseWriter, cached *CachedResponse) {
	for name, values := range cached.Headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set(idempotencyReplayHeader, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}
