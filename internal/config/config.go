package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrMissingCredentials is returned by Validate when a required API credential is unset.
var ErrMissingCredentials = errors.New("missing required credentials")

type Config struct {
	Environment       string
	LogLevel          zerolog.Level
	HTTPTimeout       time.Duration
	MapboxBaseURL     string
	MBTABaseURL       string
	MapboxToken       string
	MBTAAPIKey        string
	EnablePredictions bool
	DisplayTimeZone   string
	ListenAddr        string
	SentryDSN         string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithCredentials sets the Mapbox token and the MBTA API key
func WithCredentials(mapboxToken, mbtaAPIKey string) Option {
	return func(c *Config) {
		c.MapboxToken = mapboxToken
		c.MBTAAPIKey = mbtaAPIKey
	}
}

// WithBaseURLs overrides the upstream endpoints. Empty values keep the defaults.
func WithBaseURLs(mapbox, mbta string) Option {
	return func(c *Config) {
		if mapbox != "" {
			c.MapboxBaseURL = strings.TrimRight(mapbox, "/")
		}
		if mbta != "" {
			c.MBTABaseURL = strings.TrimRight(mbta, "/")
		}
	}
}

func WithPredictions(enabled bool) Option {
	return func(c *Config) {
		c.EnablePredictions = enabled
	}
}

func WithDisplayTimeZone(tz string) Option {
	return func(c *Config) {
		c.DisplayTimeZone = tz
	}
}

func WithListenAddr(addr string) Option {
	return func(c *Config) {
		c.ListenAddr = addr
	}
}

func WithSentryDSN(dsn string) Option {
	return func(c *Config) {
		c.SentryDSN = dsn
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:       "production",
		LogLevel:          zerolog.InfoLevel,
		HTTPTimeout:       10 * time.Second,
		MapboxBaseURL:     "https://api.mapbox.com",
		MBTABaseURL:       "https://api-v3.mbta.com",
		EnablePredictions: true,
		DisplayTimeZone:   "America/New_York",
		ListenAddr:        ":5001",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Validate checks that both upstream credentials are present. Callers treat
// an error here as fatal at startup.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.MapboxToken) == "" {
		missing = append(missing, "MAPBOX_TOKEN")
	}
	if strings.TrimSpace(c.MBTAAPIKey) == "" {
		missing = append(missing, "MBTA_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is not set, check your environment or .env file",
			ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive, got %s", c.HTTPTimeout)
	}

	return nil
}

// IsDevelopment returns true for local and development environments
func (c *Config) IsDevelopment() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// Location returns the time zone used for displaying arrival times,
// falling back to UTC when the zone database does not know the name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimeZone)
	if err != nil {
		log.Warn().Err(err).Str("tz", c.DisplayTimeZone).Msg("Unknown display time zone, using UTC")
		return time.UTC
	}
	return loc
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		log.Logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}
}

// LoadFromEnv loads configuration from environment variables. A .env file in
// the working directory is read first; variables already set in the
// environment win over the file.
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithCredentials(os.Getenv("MAPBOX_TOKEN"), os.Getenv("MBTA_API_KEY")),
		WithBaseURLs(os.Getenv("MAPBOX_BASE_URL"), os.Getenv("MBTA_BASE_URL")),
		WithPredictions(getBoolEnvOrDefault("ENABLE_PREDICTIONS", true)),
		WithDisplayTimeZone(getEnvOrDefault("DISPLAY_TIME_ZONE", "America/New_York")),
		WithListenAddr(getEnvOrDefault("LISTEN_ADDR", ":5001")),
		WithSentryDSN(os.Getenv("SENTRY_DSN")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warn().Str("key", key).Msg("Invalid duration in environment variable, using default")
	}
	return defaultValue
}

func getBoolEnvOrDefault(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Warn().Str("key", key).Msg("Invalid boolean in environment variable, using default")
	}
	return defaultValue
}
