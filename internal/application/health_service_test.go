package application

import (
	"context"
	"errors"
	"testing"
)

// mockUpstream implements driven.Upstream for testing.
type mockUpstream struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockUpstream) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func TestHealthService_Check(t *testing.T) {
	failing := func(ctx context.Context) error { return errors.New("boom") }

	tests := []struct {
		name         string
		upstreamPing func(ctx context.Context) error
		brandingPing func(ctx context.Context) error
		wantStatus   string
		wantUpstream string
		wantBranding string
	}{
		{
			name:         "all healthy",
			wantStatus:   "ok",
			wantUpstream: "ok",
			wantBranding: "ok",
		},
		{
			name:         "upstream down",
			upstreamPing: failing,
			wantStatus:   "degraded",
			wantUpstream: "error",
			wantBranding: "ok",
		},
		{
			name:         "branding circuit open",
			brandingPing: failing,
			wantStatus:   "degraded",
			wantUpstream: "ok",
			wantBranding: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHealthService(
				&mockUpstream{pingFunc: tt.upstreamPing},
				&mockBrandingService{pingFunc: tt.brandingPing},
			)

			got := svc.Check(context.Background())

			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Upstream.Status != tt.wantUpstream {
				t.Errorf("Upstream.Status = %q, want %q", got.Upstream.Status, tt.wantUpstream)
			}
			if got.Branding.Status != tt.wantBranding {
				t.Errorf("Branding.Status = %q, want %q", got.Branding.Status, tt.wantBranding)
			}
			if got.Upstream.Status == "error" && got.Upstream.Error != "boom" {
				t.Errorf("Upstream.Error = %q, want boom", got.Upstream.Error)
			}
		})
	}
}
