package metrics

import (
	"strconv"
	"time"

	"github.com/fightpath/fightpath/internal/observability"
)

// HTTP metric names
const (
	HTTPRequestsTotal     = "http_requests_total"
	HTTPRequestDuration   = "http_request_duration_ms"
	HTTPRequestSizeBytes  = "http_request_size_bytes"
	HTTPResponseSizeBytes = "http_response_size_bytes"
	HTTPErrorsTotal       = "http_errors_total"
)

// HTTPRequest describes one completed request. Endpoint must be a route
// pattern, never a raw path.
type HTTPRequest struct {
	Method       string
	Endpoint     string
	Status       int
	Duration     time.Duration
	RequestSize  int64
	ResponseSize int64
}

// RecordHTTPRequest emits the request counter, latency, sizes and, for
// 4xx/5xx responses, the error counter.
func RecordHTTPRequest(req HTTPRequest) {
	if observability.TelemetrySystem == nil {
		return
	}

	labels := map[string]string{
		"method":   req.Method,
		"endpoint": req.Endpoint,
		"status":   strconv.Itoa(req.Status),
	}
	sizeLabels := map[string]string{
		"method":   req.Method,
		"endpoint": req.Endpoint,
	}

	_ = observability.TelemetrySystem.Counter(HTTPRequestsTotal, 1, labels)
	_ = observability.TelemetrySystem.Histogram(HTTPRequestDuration, req.Duration, labels)
	_ = observability.TelemetrySystem.Gauge(HTTPRequestSizeBytes, float64(req.RequestSize), sizeLabels)
	_ = observability.TelemetrySystem.Gauge(HTTPResponseSizeBytes, float64(req.ResponseSize), sizeLabels)

	if req.Status < 400 {
		return
	}
	errorType := "client_error"
	if req.Status >= 500 {
		errorType = "server_error"
	}
	_ = observability.TelemetrySystem.Counter(HTTPErrorsTotal, 1, map[string]string{
		"method":     req.Method,
		"endpoint":   req.Endpoint,
		"status":     strconv.Itoa(req.Status),
		"error_type": errorType,
	})
}
