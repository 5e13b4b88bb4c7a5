package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/metrics"
	"github.com/fightpath/fightpath/internal/observability"
)

// responseWriter captures the status code and body size of a response
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// EndpointPattern returns the chi route pattern, or a coarse bucket for
// requests that did not match a route.
func EndpointPattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	path := r.URL.Path
	switch {
	case path == "/health" || strings.HasPrefix(path, "/health/"):
		return "/health/*"
	case path == "/version", path == "/metrics", path == "/":
		return path
	case strings.HasPrefix(path, "/v1/reports/"):
		return "/v1/reports/*"
	default:
		return "/unknown"
	}
}

// RequestMetrics records request metrics and logs each completed request
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if observability.TelemetrySystem == nil && observability.ServerLogger == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		requestSize := r.ContentLength
		if requestSize < 0 {
			requestSize, _ = strconv.ParseInt(r.Header.Get("Content-Length"), 10, 64)
		}

		next.ServeHTTP(wrapped, r)

		record := metrics.HTTPRequest{
			Method:       r.Method,
			Endpoint:     EndpointPattern(r),
			Status:       wrapped.statusCode,
			Duration:     time.Since(start),
			RequestSize:  requestSize,
			ResponseSize: wrapped.bytesWritten,
		}
		metrics.RecordHTTPRequest(record)

		if observability.ServerLogger != nil {
			observability.ServerLogger.Info("HTTP request completed",
				zap.String("method", record.Method),
				zap.String("path", r.URL.Path),
				zap.String("endpoint", record.Endpoint),
				zap.Int("status", record.Status),
				zap.Duration("duration", record.Duration),
				zap.Int64("request_size", record.RequestSize),
				zap.Int64("response_size", record.ResponseSize),
				zap.String("requestID", GetRequestID(r.Context())),
			)
		}
	})
}
