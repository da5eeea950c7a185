package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	redisrepo "github.com/iho/ledgerform/internal/adapter/repository/redis"
	"github.com/iho/ledgerform/internal/usecase"
)

// IdempotencyKeyHeader is the header name for idempotency keys.
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyMiddleware handles request idempotency using Redis.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. Stored
// responses expire after ttl.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// storedResponse is what a replay needs. HTML fragments, redirects and JSON
// share the middleware, so the replayed headers travel with the body.
type storedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

var replayedHeaders = []string{"Content-Type", "Location", "HX-Redirect"}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Check if we have a cached response
		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			if cached == nil || redisrepo.IsPending(cached) {
				http.Error(w, "request with this idempotency key is in progress", http.StatusConflict)
				return
			}

			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err != nil {
				http.Error(w, "idempotency replay failed", http.StatusInternalServerError)
				return
			}

			for k, v := range stored.Headers {
				w.Header().Set(k, v)
			}
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(stored.Status)
			w.Write(stored.Body)
			return
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Store response for future idempotent requests
		if recorder.statusCode >= 200 && recorder.statusCode < 400 {
			stored := storedResponse{
				Status:  recorder.statusCode,
				Headers: make(map[string]string),
				Body:    recorder.body.Bytes(),
			}
			for _, h := range replayedHeaders {
				if v := w.Header().Get(h); v != "" {
					stored.Headers[h] = v
				}
			}

			data, err := json.Marshal(stored)
			if err == nil {
				m.store.Update(r.Context(), key, data, m.ttl)
			}
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
