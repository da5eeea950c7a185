package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/ledgerform/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
		label      string
	}{
		{
			name:       "labels by route pattern",
			method:     http.MethodGet,
			path:       "/lancamentos/01HX/editar/",
			statusCode: http.StatusTeapot,
			label:      "/lancamentos/{id}/editar/",
		},
		{
			name:       "static route",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
			label:      "/health",
		},
		{
			name:       "unrouted request",
			method:     http.MethodGet,
			path:       "/nope",
			statusCode: http.StatusNotFound,
			label:      "unmatched",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.NewWithRegistry(prometheus.NewRegistry())

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			r := chi.NewRouter()
			r.Use(Metrics(m))
			r.Get("/lancamentos/{id}/editar/", next)
			r.Post("/health", next)
			r.NotFound(next)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.label, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}
