// Package config turns the merged flag, environment and file settings into a
// validated Config.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"cardctl/internal/logger"

	"github.com/spf13/viper"
)

// Keys shared by the CLI flags, the TRELLO_ environment and the config file.
const (
	KeyURL          = "url"
	KeyTimeout      = "timeout"
	KeyRateLimit    = "rate_limit"
	KeyRateBurst    = "rate_burst"
	KeyLabelLimit   = "label_limit"
	KeyColorSeed    = "color_seed"
	KeyStrictLabels = "strict_labels"
	KeyLogLevel     = "log_level"
	KeyOTELEndpoint = "otel_endpoint"
	KeyMetricsFile  = "metrics_file"
	KeyJournalDSN   = "journal_dsn"
)

// Config holds all configuration values for a run.
type Config struct {
	// Base URL of the board service API
	APIURL string

	// Per-request HTTP timeout
	Timeout time.Duration

	// Requests per second and burst sent to the API; 0 disables pacing
	RateLimit float64
	RateBurst int

	// How many board labels are fetched before matching names
	LabelLimit int

	// Seed for label colors; 0 seeds from the clock
	ColorSeed uint64

	// Create only the label names that are not on the board
	StrictLabels bool

	LogLevel slog.Level

	// OTLP gRPC collector address; empty disables tracing
	OTELEndpoint string

	// node-exporter textfile to write metrics into; empty disables it
	MetricsFile string

	// PostgreSQL connection string for the run journal; empty disables it
	JournalDSN string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyURL, "https://api.trello.com/1")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyRateLimit, 10.0)
	v.SetDefault(KeyRateBurst, 10)
	v.SetDefault(KeyLabelLimit, 50)
	v.SetDefault(KeyColorSeed, 0)
	v.SetDefault(KeyStrictLabels, false)
	v.SetDefault(KeyLogLevel, "warn")
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	apiURL := v.GetString(KeyURL)
	if u, err := url.Parse(apiURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s: %q", KeyURL, apiURL)
	}

	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid %s: must be positive, got %v", KeyTimeout, v.Get(KeyTimeout))
	}

	rateLimit := v.GetFloat64(KeyRateLimit)
	if rateLimit < 0 {
		return nil, fmt.Errorf("invalid %s: must not be negative, got %v", KeyRateLimit, rateLimit)
	}

	rateBurst := v.GetInt(KeyRateBurst)
	if rateBurst < 1 {
		return nil, fmt.Errorf("invalid %s: must be at least 1, got %d", KeyRateBurst, rateBurst)
	}

	labelLimit := v.GetInt(KeyLabelLimit)
	if labelLimit < 1 {
		return nil, fmt.Errorf("invalid %s: must be at least 1, got %d", KeyLabelLimit, labelLimit)
	}

	level, err := logger.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}

	return &Config{
		APIURL:       apiURL,
		Timeout:      timeout,
		RateLimit:    rateLimit,
		RateBurst:    rateBurst,
		LabelLimit:   labelLimit,
		ColorSeed:    v.GetUint64(KeyColorSeed),
		StrictLabels: v.GetBool(KeyStrictLabels),
		LogLevel:     level,
		OTELEndpoint: v.GetString(KeyOTELEndpoint),
		MetricsFile:  v.GetString(KeyMetricsFile),
		JournalDSN:   v.GetString(KeyJournalDSN),
	}, nil
}
