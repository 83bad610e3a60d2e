// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/joho/godotenv"
)

// Wire codecs accepted by the scheduling back-end
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// DefaultEChartsURL is where the HTML renderer downloads its chart library from
const DefaultEChartsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// Config holds application configuration
type Config struct {
	APIURL          string        // Scheduling back-end base URL
	DefaultBucket   domain.Bucket // Bucket every widget starts on
	FetchTimeout    time.Duration
	Codec           string // json or msgpack
	AssignmentKind  charts.Kind
	AssignmentTitle string
	ExportDir       string // Always absolute
	EChartsURL      string
	LogLevel        string
	LogFile         string // TUI log destination; stdout belongs to the program
	MaxWidth        int    // 0 = use the whole terminal
	MaxHeight       int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	bucket, err := domain.ParseBucket(getEnv("SCHEDBOARD_DEFAULT_WEEK", string(domain.DefaultBucket)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SCHEDBOARD_DEFAULT_WEEK: %w", err)
	}

	kind, err := charts.ParseKind(getEnv("SCHEDBOARD_ASSIGNMENT_KIND", string(charts.KindBar)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SCHEDBOARD_ASSIGNMENT_KIND: %w", err)
	}

	exportDir, err := filepath.Abs(getEnv("SCHEDBOARD_EXPORT_DIR", "./export"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export directory path: %w", err)
	}

	cfg := &Config{
		APIURL:          strings.TrimRight(getEnv("SCHEDBOARD_API_URL", "http://localhost:8080"), "/"),
		DefaultBucket:   bucket,
		FetchTimeout:    getEnvAsDuration("SCHEDBOARD_FETCH_TIMEOUT", 10*time.Second),
		Codec:           strings.ToLower(getEnv("SCHEDBOARD_CODEC", CodecJSON)),
		AssignmentKind:  kind,
		AssignmentTitle: getEnv("SCHEDBOARD_ASSIGNMENT_TITLE", charts.DefaultAssignmentTitle),
		ExportDir:       exportDir,
		EChartsURL:      getEnv("SCHEDBOARD_ECHARTS_URL", DefaultEChartsURL),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", "schedboard.log"),
		MaxWidth:        getEnvAsInt("MAX_WIDTH", 0),
		MaxHeight:       getEnvAsInt("MAX_HEIGHT", 0),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: must be an absolute http(s) URL", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API URL %q: unsupported scheme %s", c.APIURL, u.Scheme)
	}
	if !c.DefaultBucket.IsValid() {
		return fmt.Errorf("invalid default bucket %q", c.DefaultBucket)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.Codec != CodecJSON && c.Codec != CodecMsgpack {
		return fmt.Errorf("invalid codec %q (must be %s or %s)", c.Codec, CodecJSON, CodecMsgpack)
	}
	if !c.AssignmentKind.IsValid() {
		return fmt.Errorf("invalid assignment chart kind %q", c.AssignmentKind)
	}
	if c.MaxWidth < 0 || c.MaxHeight < 0 {
		return fmt.Errorf("max width/height cannot be negative")
	}
	return nil
}

// AssignmentPlan returns the unassigned-work plan with the configured kind and title
func (c *Config) AssignmentPlan() charts.Plan {
	return charts.MustPlanFor(charts.FamilyAssignment).
		WithKind(c.AssignmentKind).
		WithTitle(c.AssignmentTitle)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// bare numbers are seconds
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
