package metrics

import (
	"time"

	"github.com/fightpath/fightpath/internal/observability"
)

// Application-level metric names. The exporter namespace adds the
// fightpath_ prefix.
var (
	// Query client metrics
	QueriesTotal         = "queries_total"
	QueryDuration        = "query_duration_ms"
	QuotaRemainingPoints = "quota_remaining_points"
	QuotaWaitsTotal      = "quota_waits_total"
	QuotaWaitDuration    = "quota_wait_duration_ms"

	// Ingestion metrics
	EventPagesTotal = "event_pages_total"
	EventsTotal     = "events_total"
	KeyframesTotal  = "keyframes_total"

	// Fight cache metrics
	CacheLookupsTotal = "fight_cache_lookups_total"

	// Server lifecycle metrics
	ServerStartTime = "server_start_time_seconds"
)

// RecordQuery records one remote query with its outcome
func RecordQuery(query string, status string, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(
		QueriesTotal,
		1,
		map[string]string{
			"query":  query,
			"status": status,
		},
	)
	_ = observability.TelemetrySystem.Histogram(
		QueryDuration,
		duration,
		map[string]string{
			"query": query,
		},
	)
}

// RecordQuota records the remaining budget and any wait it caused
func RecordQuota(remaining float64, wait time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Gauge(QuotaRemainingPoints, remaining, nil)

	if wait > 0 {
		_ = observability.TelemetrySystem.Counter(QuotaWaitsTotal, 1, nil)
		_ = observability.TelemetrySystem.Histogram(QuotaWaitDuration, wait, nil)
	}
}

// RecordEventPage records a fetched page of events
func RecordEventPage(events int) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(EventPagesTotal, 1, nil)
	_ = observability.TelemetrySystem.Counter(EventsTotal, float64(events), nil)
}

// RecordKeyframes records the keyframes kept after ingestion
func RecordKeyframes(count int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(KeyframesTotal, float64(count), nil)
	}
}

// RecordCacheLookup records a fight cache hit or miss
func RecordCacheLookup(kind string, hit bool) {
	if observability.TelemetrySystem == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	_ = observability.TelemetrySystem.Counter(
		CacheLookupsTotal,
		1,
		map[string]string{
			"kind":   kind,
			"result": result,
		},
	)
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}
