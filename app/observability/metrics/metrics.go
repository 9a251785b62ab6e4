package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	AIRequestsTotal       metric.Int64Counter
	AIFallbacksTotal      metric.Int64Counter
	AIRequestDuration     metric.Float64Histogram
	PlaceSearchesTotal    metric.Int64Counter
	JourneyFlushesTotal   metric.Int64Counter
	JourneyPointsRecorded metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripWeave")
		var err error
		m := &AppMetrics{}

		m.AIRequestsTotal, err = meter.Int64Counter(
			"ai_requests_total",
			metric.WithDescription("Total number of text-generation requests issued"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_requests_total: %v", err)
		}

		m.AIFallbacksTotal, err = meter.Int64Counter(
			"ai_fallbacks_total",
			metric.WithDescription("Total number of AI calls that degraded to a deterministic fallback"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_fallbacks_total: %v", err)
		}

		m.AIRequestDuration, err = meter.Float64Histogram(
			"ai_request_duration_seconds",
			metric.WithDescription("Duration of text-generation requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_request_duration_seconds: %v", err)
		}

		m.PlaceSearchesTotal, err = meter.Int64Counter(
			"place_searches_total",
			metric.WithDescription("Total number of place text-search calls"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_searches_total: %v", err)
		}

		m.JourneyFlushesTotal, err = meter.Int64Counter(
			"journey_flushes_total",
			metric.WithDescription("Total number of journey path batches persisted"),
			metric.WithUnit("{flush}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create journey_flushes_total: %v", err)
		}

		m.JourneyPointsRecorded, err = meter.Int64Counter(
			"journey_points_recorded_total",
			metric.WithDescription("Total number of GPS points recorded"),
			metric.WithUnit("{point}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create journey_points_recorded_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metric instruments, or nil before InitAppMetrics.
func Get() *AppMetrics {
	return appMetrics
}
