package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// HTTP server settings
	HTTP struct {
		Address      string        `yaml:"address"`
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"http"`

	// Proxied TV-client API
	Upstream struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"upstream"`

	// Crowd branding (title and thumbnail) lookups
	Branding struct {
		URL           string        `yaml:"url"`
		ThumbnailURL  string        `yaml:"thumbnail_url"`
		Timeout       time.Duration `yaml:"timeout"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
		CacheSize     int           `yaml:"cache_size"`
		MaxConcurrent int           `yaml:"max_concurrent"`
		AwaitWindow   time.Duration `yaml:"await_window"`
	} `yaml:"branding"`

	// Annotation segment cache
	Segments struct {
		MaxVideos int `yaml:"max_videos"`
	} `yaml:"segments"`

	// Policy toggles file, hot reloaded
	Settings struct {
		File string `yaml:"file"`
	} `yaml:"settings"`

	// Log side channel
	Logging struct {
		WebhookURL      string `yaml:"webhook_url"`
		WebhookUsername string `yaml:"webhook_username"`
	} `yaml:"logging"`

	// Resilience settings (embedded)
	Resilience ResilienceConfig `yaml:"resilience"`
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	// Validate HTTP settings
	if c.HTTP.Address == "" {
		errors = append(errors, "HTTP address is required")
	}
	if c.HTTP.Port == "" {
		errors = append(errors, "HTTP port is required")
	}
	if c.HTTP.ReadTimeout <= 0 {
		errors = append(errors, "HTTP read timeout must be positive")
	}
	if c.HTTP.WriteTimeout <= 0 {
		errors = append(errors, "HTTP write timeout must be positive")
	}

	// Validate upstream settings
	if err := validateURL(c.Upstream.URL); err != nil {
		errors = append(errors, fmt.Sprintf("Upstream URL: %v", err))
	}
	if c.Upstream.Timeout <= 0 {
		errors = append(errors, "Upstream timeout must be positive")
	}

	// Validate branding settings
	if err := validateURL(c.Branding.URL); err != nil {
		errors = append(errors, fmt.Sprintf("Branding URL: %v", err))
	}
	if err := validateURL(c.Branding.ThumbnailURL); err != nil {
		errors = append(errors, fmt.Sprintf("Branding thumbnail URL: %v", err))
	}
	if c.Branding.Timeout <= 0 {
		errors = append(errors, "Branding timeout must be positive")
	}
	if c.Branding.CacheTTL <= 0 {
		errors = append(errors, "Branding cache TTL must be positive")
	}
	if c.Branding.CacheSize <= 0 {
		errors = append(errors, "Branding cache size must be positive")
	}
	if c.Branding.MaxConcurrent <= 0 {
		errors = append(errors, "Branding max concurrent lookups must be positive")
	}
	if c.Branding.AwaitWindow < 0 {
		errors = append(errors, "Branding await window cannot be negative")
	}

	if c.Segments.MaxVideos <= 0 {
		errors = append(errors, "Segments max videos must be positive")
	}

	if c.Settings.File == "" {
		errors = append(errors, "Settings file is required")
	}

	if c.Logging.WebhookURL != "" {
		if err := validateURL(c.Logging.WebhookURL); err != nil {
			errors = append(errors, fmt.Sprintf("Logging webhook URL: %v", err))
		}
	}

	// Validate resilience config
	if err := c.Resilience.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("Resilience config: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// validateURL requires an absolute http(s) URL
func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	// HTTP defaults
	cfg.HTTP.Address = "127.0.0.1"
	cfg.HTTP.Port = "8080"
	cfg.HTTP.ReadTimeout = 15 * time.Second
	cfg.HTTP.WriteTimeout = 30 * time.Second

	// Upstream defaults
	cfg.Upstream.URL = "https://www.youtube.com"
	cfg.Upstream.Timeout = 10 * time.Second

	// Branding defaults
	cfg.Branding.URL = "https://sponsor.ajay.app"
	cfg.Branding.ThumbnailURL = "https://dearrow-thumb.ajay.app/api/v1/getThumbnail"
	cfg.Branding.Timeout = 5 * time.Second
	cfg.Branding.CacheTTL = 30 * time.Minute
	cfg.Branding.CacheSize = 5000
	cfg.Branding.MaxConcurrent = 8
	cfg.Branding.AwaitWindow = 750 * time.Millisecond

	cfg.Segments.MaxVideos = 64

	cfg.Settings.File = "settings.yaml"

	cfg.Logging.WebhookUsername = "Console Logger"

	// Resilience defaults
	cfg.Resilience = *DefaultResilienceConfig()

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from a file (if provided) and applies environment variable overrides
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	// Try to load from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		// File doesn't exist, use defaults
		cfg = Default()
	}

	// Apply environment variable overrides
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	parser := &envParser{}

	// HTTP settings
	parser.parseString("HTTP_ADDRESS", &cfg.HTTP.Address)
	parser.parseString("HTTP_PORT", &cfg.HTTP.Port)
	parser.parseDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	parser.parseDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)

	// Upstream settings
	parser.parseString("UPSTREAM_URL", &cfg.Upstream.URL)
	parser.parseDuration("UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout)

	// Branding settings
	parser.parseString("BRANDING_URL", &cfg.Branding.URL)
	parser.parseString("BRANDING_THUMBNAIL_URL", &cfg.Branding.ThumbnailURL)
	parser.parseDuration("BRANDING_TIMEOUT", &cfg.Branding.Timeout)
	parser.parseDuration("BRANDING_CACHE_TTL", &cfg.Branding.CacheTTL)
	parser.parseInt("BRANDING_CACHE_SIZE", &cfg.Branding.CacheSize)
	parser.parseInt("BRANDING_MAX_CONCURRENT", &cfg.Branding.MaxConcurrent)
	if val := os.Getenv("BRANDING_AWAIT_WINDOW"); val != "" {
		// Zero is allowed and disables waiting
		duration, err := time.ParseDuration(val)
		if err != nil || duration < 0 {
			parser.errors = append(parser.errors, "BRANDING_AWAIT_WINDOW: must be a non-negative duration")
		} else {
			cfg.Branding.AwaitWindow = duration
		}
	}

	parser.parseInt("SEGMENTS_MAX_VIDEOS", &cfg.Segments.MaxVideos)

	// Settings file, normalized to an absolute path for the watcher
	if val := os.Getenv("SETTINGS_FILE"); val != "" {
		absPath, err := validateSettingsFile(val)
		if err != nil {
			parser.errors = append(parser.errors, fmt.Sprintf("SETTINGS_FILE: %v", err))
		} else {
			cfg.Settings.File = absPath
		}
	}

	// Logging side channel
	parser.parseString("LOG_WEBHOOK_URL", &cfg.Logging.WebhookURL)
	parser.parseString("LOG_WEBHOOK_USERNAME", &cfg.Logging.WebhookUsername)

	if len(parser.errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(parser.errors, "\n  - "))
	}

	// Resilience settings
	if err := cfg.Resilience.applyEnv(); err != nil {
		return fmt.Errorf("failed to load resilience config: %w", err)
	}

	return nil
}

// validateSettingsFile validates and normalizes the settings file path
func validateSettingsFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("settings file cannot be empty")
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path for settings file: %w", err)
		}
		return absPath, nil
	}

	return path, nil
}

// Print outputs the configuration to stdout
func (c *Config) Print() {
	fmt.Printf("httpAddress: %v\n", c.HTTP.Address)
	fmt.Printf("httpPort: %v\n", c.HTTP.Port)
	fmt.Printf("upstreamUrl: %v\n", c.Upstream.URL)
	fmt.Printf("upstreamTimeout: %v\n", c.Upstream.Timeout)
	fmt.Printf("brandingUrl: %v\n", c.Branding.URL)
	fmt.Printf("brandingThumbnailUrl: %v\n", c.Branding.ThumbnailURL)
	fmt.Printf("brandingCacheTTL: %v\n", c.Branding.CacheTTL)
	fmt.Printf("brandingMaxConcurrent: %v\n", c.Branding.MaxConcurrent)
	fmt.Printf("brandingAwaitWindow: %v\n", c.Branding.AwaitWindow)
	fmt.Printf("segmentsMaxVideos: %v\n", c.Segments.MaxVideos)
	fmt.Printf("settingsFile: %v\n", c.Settings.File)
	fmt.Printf("logWebhook: %v\n", c.Logging.WebhookURL != "")
	fmt.Printf("rewriteMaxBodySize: %v bytes\n", c.Resilience.RewriteMaxBodySize)
	fmt.Printf("logLevel: %v\n", c.Resilience.LogLevel)
}

// ListenAddr returns the host:port the HTTP server binds to
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.HTTP.Address, c.HTTP.Port)
}
