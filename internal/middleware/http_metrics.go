package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// normalizePath converts paths with dynamic segments to route patterns to
// prevent cardinality explosion in metrics. /creators/abc123/dashboard
// becomes /creators/{id}/dashboard.
func normalizePath(path string) string {
	staticRoutes := map[string]bool{
		"/":        true,
		"/health":  true,
		"/ready":   true,
		"/metrics": true,
	}
	if staticRoutes[path] {
		return path
	}

	if strings.HasPrefix(path, "/creators/") {
		parts := strings.Split(path, "/")
		// /creators/{id}/dashboard, /creators/{id}/popular
		if len(parts) == 4 && (parts[3] == "dashboard" || parts[3] == "popular") {
			return "/creators/{id}/" + parts[3]
		}
		// /creators/{id}/followers/top
		if len(parts) == 5 && parts[3] == "followers" && parts[4] == "top" {
			return "/creators/{id}/followers/top"
		}
		if len(parts) == 3 && parts[2] != "" {
			return "/creators/{id}"
		}
	}

	if strings.HasPrefix(path, "/games/") {
		parts := strings.Split(path, "/")
		// /games/{id}/analytics
		if len(parts) == 4 && parts[3] == "analytics" {
			return "/games/{id}/analytics"
		}
		if len(parts) == 3 && parts[2] != "" {
			return "/games/{id}"
		}
	}

	// Unknown patterns pass through unchanged so new routes keep metrics.
	return path
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code
// and response size.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int64
	wroteHeader bool
}

// WriteHeader captures the status code before writing it.
func (mrw *metricsResponseWriter) WriteHeader(code int) {
	if mrw.wroteHeader {
		return
	}
	mrw.statusCode = code
	mrw.wroteHeader = true
	mrw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size and writes the data.
func (mrw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := mrw.ResponseWriter.Write(b)
	mrw.size += int64(n)
	return n, err
}

// HTTPMetrics records request duration, counts, and response sizes.
// Health check endpoints are excluded to avoid noise.
func HTTPMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/ready" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			mrw := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(mrw, r)

			path := normalizePath(r.URL.Path)
			status := strconv.Itoa(mrw.statusCode)
			metrics.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			metrics.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.httpResponseSize.WithLabelValues(r.Method, path).Observe(float64(mrw.size))
		})
	}
}
