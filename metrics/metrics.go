package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intercept outcomes.
const (
	OutcomeRewritten   = "rewritten"
	OutcomePassthrough = "passthrough"
	OutcomeError       = "error"
)

// Enrichment lookup outcomes.
const (
	LookupFound    = "found"
	LookupEmpty    = "empty"
	LookupError    = "error"
	LookupRejected = "rejected"
)

var (
	// PayloadsIntercepted counts upstream JSON bodies by outcome
	PayloadsIntercepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvtube_payloads_intercepted_total",
		Help: "Total number of upstream payloads seen by the rewriter",
	}, []string{"outcome"})

	// InterceptDuration observes how long a rewrite takes, including the
	// enrichment await window
	InterceptDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tvtube_intercept_duration_seconds",
		Help:    "Time spent rewriting a payload",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	// AdsRemoved counts ad items dropped from collections and reel lists
	AdsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvtube_ads_removed_total",
		Help: "Total number of ad items removed",
	})

	// ShelvesDropped counts shorts shelves removed from home sections
	ShelvesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvtube_shelves_dropped_total",
		Help: "Total number of shorts shelves removed",
	})

	// ThumbnailsUpgraded counts thumbnail sets replaced by a single high-res entry
	ThumbnailsUpgraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvtube_thumbnails_upgraded_total",
		Help: "Total number of thumbnail sets upgraded",
	})

	// LongPressInjected counts tiles that received a long-press menu
	LongPressInjected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvtube_long_press_injected_total",
		Help: "Total number of long-press menus added to tiles",
	})

	// OverlayActionsInjected counts skip actions written into the player overlay
	OverlayActionsInjected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvtube_overlay_actions_injected_total",
		Help: "Total number of skip actions injected into the player overlay",
	})

	// EnrichmentLookups counts crowd branding lookups by outcome
	EnrichmentLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvtube_enrichment_lookups_total",
		Help: "Total number of crowd branding lookups",
	}, []string{"outcome"})

	// EnrichmentUpdatesApplied counts asynchronous tile updates applied to payloads
	EnrichmentUpdatesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvtube_enrichment_updates_applied_total",
		Help: "Total number of asynchronous tile updates applied",
	})

	// CircuitBreakerState tracks the current state of circuit breakers
	// 0=closed, 1=open, 2=half-open
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvtube_circuit_breaker_state",
		Help: "Current state of circuit breaker (0=closed, 1=open, 2=half-open)",
	}, []string{"name"})

	// CircuitBreakerTrips tracks how many times a circuit breaker transitioned to OPEN
	CircuitBreakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvtube_circuit_breaker_trips_total",
		Help: "Total number of times circuit breaker transitioned to OPEN state",
	}, []string{"name"})

	// HealthCheckFailures tracks health check failures
	HealthCheckFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvtube_health_check_failures_total",
		Help: "Total number of health check failures",
	})
)

// SetCircuitBreakerState updates the circuit breaker state metric
// state should be one of: "CLOSED" (0), "OPEN" (1), "HALF-OPEN" (2)
func SetCircuitBreakerState(name, state string) {
	var value float64
	switch state {
	case "CLOSED":
		value = 0
	case "OPEN":
		value = 1
	case "HALF-OPEN":
		value = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(value)
	if state == "OPEN" {
		CircuitBreakerTrips.WithLabelValues(name).Inc()
	}
}

// RecordIntercept records the outcome and duration of one payload rewrite
func RecordIntercept(outcome string, elapsed time.Duration) {
	PayloadsIntercepted.WithLabelValues(outcome).Inc()
	if outcome != OutcomePassthrough {
		InterceptDuration.Observe(elapsed.Seconds())
	}
}

// RecordLookup increments the enrichment lookup counter for an outcome
func RecordLookup(outcome string) {
	EnrichmentLookups.WithLabelValues(outcome).Inc()
}

// RecordUpdateApplied increments the applied update counter
func RecordUpdateApplied() {
	EnrichmentUpdatesApplied.Inc()
}

// RecordRewrite adds the per-payload counts produced by one pipeline run
func RecordRewrite(ads, shelves, thumbnails, longPress, overlay int) {
	AdsRemoved.Add(float64(ads))
	ShelvesDropped.Add(float64(shelves))
	ThumbnailsUpgraded.Add(float64(thumbnails))
	LongPressInjected.Add(float64(longPress))
	OverlayActionsInjected.Add(float64(overlay))
}

// RecordHealthCheckFailure increments the health check failure counter
func RecordHealthCheckFailure() {
	HealthCheckFailures.Inc()
}
