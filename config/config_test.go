package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Verify defaults
	if cfg.HTTP.Address != "127.0.0.1" {
		t.Errorf("Expected HTTP.Address to be 127.0.0.1, got %s", cfg.HTTP.Address)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("Expected HTTP.Port to be 8080, got %s", cfg.HTTP.Port)
	}
	if cfg.Upstream.URL != "https://www.youtube.com" {
		t.Errorf("Expected Upstream.URL to be https://www.youtube.com, got %s", cfg.Upstream.URL)
	}
	if cfg.Branding.URL != "https://sponsor.ajay.app" {
		t.Errorf("Expected Branding.URL to be https://sponsor.ajay.app, got %s", cfg.Branding.URL)
	}
	if cfg.Branding.CacheTTL != 30*time.Minute {
		t.Errorf("Expected Branding.CacheTTL to be 30m, got %v", cfg.Branding.CacheTTL)
	}
	if cfg.Branding.MaxConcurrent != 8 {
		t.Errorf("Expected Branding.MaxConcurrent to be 8, got %d", cfg.Branding.MaxConcurrent)
	}
	if cfg.Settings.File != "settings.yaml" {
		t.Errorf("Expected Settings.File to be settings.yaml, got %s", cfg.Settings.File)
	}
	if cfg.Logging.WebhookURL != "" {
		t.Error("Expected webhook to be disabled by default")
	}
	if cfg.ListenAddr() != "127.0.0.1:8080" {
		t.Errorf("Expected ListenAddr to be 127.0.0.1:8080, got %s", cfg.ListenAddr())
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "missing upstream URL",
			mutate:  func(cfg *Config) { cfg.Upstream.URL = "" },
			wantErr: "Upstream URL",
		},
		{
			name:    "relative upstream URL",
			mutate:  func(cfg *Config) { cfg.Upstream.URL = "/youtube" },
			wantErr: "Upstream URL",
		},
		{
			name:    "non-http branding URL",
			mutate:  func(cfg *Config) { cfg.Branding.URL = "ftp://example.com" },
			wantErr: "Branding URL",
		},
		{
			name:    "zero branding cache TTL",
			mutate:  func(cfg *Config) { cfg.Branding.CacheTTL = 0 },
			wantErr: "cache TTL",
		},
		{
			name:   "zero await window",
			mutate: func(cfg *Config) { cfg.Branding.AwaitWindow = 0 },
		},
		{
			name:    "negative await window",
			mutate:  func(cfg *Config) { cfg.Branding.AwaitWindow = -time.Second },
			wantErr: "await window",
		},
		{
			name:    "empty settings file",
			mutate:  func(cfg *Config) { cfg.Settings.File = "" },
			wantErr: "Settings file",
		},
		{
			name:    "invalid webhook URL",
			mutate:  func(cfg *Config) { cfg.Logging.WebhookURL = "not a url" },
			wantErr: "webhook",
		},
		{
			name:    "invalid resilience config",
			mutate:  func(cfg *Config) { cfg.Resilience.CBTimeout = 0 },
			wantErr: "Resilience config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Port = ""
	cfg.Upstream.URL = ""
	cfg.Segments.MaxVideos = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"HTTP port", "Upstream URL", "Segments max videos"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `http:
  address: "0.0.0.0"
  port: "9090"
upstream:
  url: "http://upstream.local"
  timeout: "3s"
branding:
  url: "http://branding.local"
  cache_ttl: "2h"
  max_concurrent: 2
  await_window: "0s"
settings:
  file: "/etc/tvtube/settings.yaml"
logging:
  webhook_url: "https://discord.example/api/webhooks/1/abc"
resilience:
  rewrite_max_body_size: 1048576
  cb_failure_threshold: 3
  cb_timeout: "20s"
  log_level: "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.HTTP.Address != "0.0.0.0" {
		t.Errorf("Expected HTTP.Address to be 0.0.0.0, got %s", cfg.HTTP.Address)
	}
	if cfg.Upstream.URL != "http://upstream.local" {
		t.Errorf("Expected Upstream.URL to be http://upstream.local, got %s", cfg.Upstream.URL)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("Expected Upstream.Timeout to be 3s, got %v", cfg.Upstream.Timeout)
	}
	if cfg.Branding.CacheTTL != 2*time.Hour {
		t.Errorf("Expected Branding.CacheTTL to be 2h, got %v", cfg.Branding.CacheTTL)
	}
	if cfg.Branding.AwaitWindow != 0 {
		t.Errorf("Expected Branding.AwaitWindow to be 0, got %v", cfg.Branding.AwaitWindow)
	}
	if cfg.Branding.ThumbnailURL == "" {
		t.Error("Expected unset fields to keep their defaults")
	}
	if cfg.Settings.File != "/etc/tvtube/settings.yaml" {
		t.Errorf("Expected Settings.File to be /etc/tvtube/settings.yaml, got %s", cfg.Settings.File)
	}
	if cfg.Resilience.RewriteMaxBodySize != 1048576 {
		t.Errorf("Expected RewriteMaxBodySize to be 1MB, got %d", cfg.Resilience.RewriteMaxBodySize)
	}
	if cfg.Resilience.CBHalfOpenRequests != 1 {
		t.Errorf("Expected CBHalfOpenRequests to keep its default, got %d", cfg.Resilience.CBHalfOpenRequests)
	}
	if cfg.Resilience.LogLevel != "DEBUG" {
		t.Errorf("Expected log level to be DEBUG, got %s", cfg.Resilience.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Loaded config should be valid, got: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"HTTP_ADDRESS":          "192.168.1.1",
		"HTTP_PORT":             "9999",
		"UPSTREAM_URL":          "http://custom-upstream:8443",
		"UPSTREAM_TIMEOUT":      "4s",
		"BRANDING_URL":          "http://custom-branding",
		"BRANDING_CACHE_TTL":    "1h",
		"BRANDING_AWAIT_WINDOW": "0s",
		"SETTINGS_FILE":         "relative/settings.yaml",
		"LOG_WEBHOOK_URL":       "https://discord.example/api/webhooks/1/abc",
		"LOG_LEVEL":             "warn",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg := Default()
	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	if cfg.HTTP.Address != "192.168.1.1" {
		t.Errorf("Expected HTTP.Address to be 192.168.1.1, got %s", cfg.HTTP.Address)
	}
	if cfg.HTTP.Port != "9999" {
		t.Errorf("Expected HTTP.Port to be 9999, got %s", cfg.HTTP.Port)
	}
	if cfg.Upstream.URL != "http://custom-upstream:8443" {
		t.Errorf("Expected Upstream.URL override, got %s", cfg.Upstream.URL)
	}
	if cfg.Upstream.Timeout != 4*time.Second {
		t.Errorf("Expected Upstream.Timeout to be 4s, got %v", cfg.Upstream.Timeout)
	}
	if cfg.Branding.URL != "http://custom-branding" {
		t.Errorf("Expected Branding.URL override, got %s", cfg.Branding.URL)
	}
	if cfg.Branding.CacheTTL != time.Hour {
		t.Errorf("Expected Branding.CacheTTL to be 1h, got %v", cfg.Branding.CacheTTL)
	}
	if cfg.Branding.AwaitWindow != 0 {
		t.Errorf("Expected Branding.AwaitWindow to be 0, got %v", cfg.Branding.AwaitWindow)
	}
	if !filepath.IsAbs(cfg.Settings.File) || !strings.HasSuffix(cfg.Settings.File, "relative/settings.yaml") {
		t.Errorf("Expected absolute settings path, got %s", cfg.Settings.File)
	}
	if cfg.Logging.WebhookURL != "https://discord.example/api/webhooks/1/abc" {
		t.Errorf("Expected webhook override, got %s", cfg.Logging.WebhookURL)
	}
	if cfg.Resilience.LogLevel != "WARN" {
		t.Errorf("Expected LogLevel to be WARN, got %s", cfg.Resilience.LogLevel)
	}
}

func TestApplyEnvOverrides_InvalidValues(t *testing.T) {
	tests := []struct {
		envVar string
		value  string
	}{
		{"UPSTREAM_TIMEOUT", "soon"},
		{"BRANDING_CACHE_SIZE", "-1"},
		{"BRANDING_AWAIT_WINDOW", "-1s"},
		{"CB_TIMEOUT", "never"},
	}

	for _, tt := range tests {
		t.Run(tt.envVar, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := applyEnvOverrides(Default())
			if err == nil {
				t.Fatalf("Expected error for %s=%s, got nil", tt.envVar, tt.value)
			}
			if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("Error should mention %s, got: %v", tt.envVar, err)
			}
		})
	}
}

func TestValidateSettingsFile(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "empty path", path: "", wantErr: true},
		{name: "absolute path", path: "/etc/settings.yaml", wantErr: false},
		{name: "relative path", path: "settings.yaml", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateSettingsFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSettingsFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !filepath.IsAbs(got) {
				t.Errorf("validateSettingsFile() = %s, want absolute path", got)
			}
		})
	}
}

func TestLoadWithMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/non/existent/config.yaml")
	t.Setenv("UPSTREAM_URL", "http://127.0.0.1:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error when config file is missing: %v", err)
	}

	if cfg.HTTP.Address != "127.0.0.1" {
		t.Errorf("Expected default HTTP.Address, got %s", cfg.HTTP.Address)
	}
	if cfg.Upstream.URL != "http://127.0.0.1:9000" {
		t.Errorf("Expected env override of Upstream.URL, got %s", cfg.Upstream.URL)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("http: [not, a, map"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv("CONFIG_FILE", configPath)

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on a malformed config file")
	}
}
