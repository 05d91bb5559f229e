package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// scrape fetches the default registry through the Prometheus handler.
func scrape(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(promhttp.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

func TestMetricsEndpoint(t *testing.T) {
	RecordIntercept(OutcomeRewritten, 3*time.Millisecond)
	RecordIntercept(OutcomePassthrough, 0)
	RecordLookup(LookupFound)
	RecordUpdateApplied()
	RecordRewrite(2, 1, 4, 3, 1)
	SetCircuitBreakerState("init", "CLOSED")
	RecordHealthCheckFailure()

	output := scrape(t)

	expectedMetrics := []string{
		`tvtube_payloads_intercepted_total{outcome="rewritten"}`,
		`tvtube_payloads_intercepted_total{outcome="passthrough"}`,
		"tvtube_intercept_duration_seconds_bucket",
		"tvtube_ads_removed_total",
		"tvtube_shelves_dropped_total",
		"tvtube_thumbnails_upgraded_total",
		"tvtube_long_press_injected_total",
		"tvtube_overlay_actions_injected_total",
		`tvtube_enrichment_lookups_total{outcome="found"}`,
		"tvtube_enrichment_updates_applied_total",
		"tvtube_circuit_breaker_state",
		"tvtube_health_check_failures_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(output, metric) {
			t.Errorf("Expected metric %s not found in output", metric)
		}
	}
}

func TestCircuitBreakerStateValues(t *testing.T) {
	tests := []struct {
		state string
		value string
	}{
		{"CLOSED", "0"},
		{"OPEN", "1"},
		{"HALF-OPEN", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			SetCircuitBreakerState("test-cb", tt.state)

			expectedLine := `tvtube_circuit_breaker_state{name="test-cb"} ` + tt.value
			if output := scrape(t); !strings.Contains(output, expectedLine) {
				t.Errorf("Expected to find %s in output for state %s", expectedLine, tt.state)
			}
		})
	}

	if output := scrape(t); !strings.Contains(output, `tvtube_circuit_breaker_trips_total{name="test-cb"} 1`) {
		t.Error("Expected one trip to be recorded for the OPEN transition")
	}
}
