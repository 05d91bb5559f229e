package driven

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUpstreamHTTPAdapter_Ping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "client error still reachable", status: http.StatusNotFound},
		{name: "server error", status: http.StatusServiceUnavailable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					t.Errorf("method = %s, want HEAD", r.Method)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			adapter := NewUpstreamHTTPAdapter(server.URL, time.Second, discardLogger())
			err := adapter.Ping(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Ping() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		adapter := NewUpstreamHTTPAdapter(url, time.Second, discardLogger())
		if err := adapter.Ping(context.Background()); err == nil {
			t.Error("expected an error for a closed server")
		}
	})
}
