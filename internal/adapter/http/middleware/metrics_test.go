package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes posting path",
			method:     http.MethodGet,
			path:       "/api/v1/gl/postings/01ABC123",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			normalized := normalizePath(tc.path)
			counter := httpRequestsTotal.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "posting path",
			input:    "/api/v1/gl/postings/01ABC123",
			expected: "/api/v1/gl/postings/:id",
		},
		{
			name:     "posting reverse path",
			input:    "/api/v1/gl/postings/01ABC123/reverse",
			expected: "/api/v1/gl/postings/:id/reverse",
		},
		{
			name:     "account path with suffix",
			input:    "/api/v1/gl/accounts/01ABC123/entries",
			expected: "/api/v1/gl/accounts/:id/entries",
		},
		{
			name:     "account code lookup",
			input:    "/api/v1/gl/accounts/code/1110",
			expected: "/api/v1/gl/accounts/code/:code",
		},
		{
			name:     "seed is not an id",
			input:    "/api/v1/gl/accounts/seed",
			expected: "/api/v1/gl/accounts/seed",
		},
		{
			name:     "float adjust path",
			input:    "/api/v1/floats/01XYZ789/adjust",
			expected: "/api/v1/floats/:id/adjust",
		},
		{
			name:     "reconciliation report is not an id",
			input:    "/api/v1/reconciliation/report",
			expected: "/api/v1/reconciliation/report",
		},
		{
			name:     "reconciliation repair path",
			input:    "/api/v1/reconciliation/01XYZ789/repair",
			expected: "/api/v1/reconciliation/:id/repair",
		},
		{
			name:     "audit resource path",
			input:    "/api/v1/audit/resource/gl_transaction/01ABC",
			expected: "/api/v1/audit/resource/:type/:id",
		},
		{
			name:     "non-matching path",
			input:    "/health",
			expected: "/health",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
