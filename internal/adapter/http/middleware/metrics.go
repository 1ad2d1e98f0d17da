
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metrics middleware records HTTP metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses resource IDs so the path label stays low
// cardinality. /api/v1/gl/postings/01ABC -> /api/v1/gl/postings/:id.
func normalizePath(path string) string {
	const prefix = "/api/v1/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}

	segs := strings.Split(path[len(prefix):], "/")
	switch segs[0] {
	case "gl":
		if len(segs) < 3 || segs[2] == "" {
			break
		}
		switch segs[1] {
		case "postings":
			segs[2] = ":id"
		case "accounts":
			switch segs[2] {
			case "seed":
			case "code":
				if len(segs) > 3 && segs[3] != "" {
					segs[3] = ":code"
				}
			default:
				segs[2] = ":id"
			}
		}
	case "floats", "mappings":
		if len(segs) > 1 && segs[1] != "" {
			segs[1] = ":id"
		}
	case "reconciliation":
		if len(segs) > 1 && segs[1] != "" && segs[1] != "report" {
			segs[1] = ":id"
		}
	case "audit":
		if len(segs) > 3 && segs[1] == "resource" {
			segs[2] = ":type"
			segs[3] = ":id"
		}
	}

	return prefix + strings.Join(segs, "/")
}
