package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port            string
	Env             string
	ShutdownTimeout time.Duration

	// Frontend (CORS allow-list, comma-separated)
	FrontendURL string

	// Suggest endpoint
	MaxBodyBytes      int64
	ValidateResponses bool

	// Telemetry (empty RedisURL keeps events in the log)
	TelemetryEnabled bool
	RedisURL         string
	TelemetryChannel string
}

// fileConfig mirrors the optional YAML file named by CONFIG_FILE. Values
// from the file replace the built-in defaults; environment variables
// replace both.
type fileConfig struct {
	Port                   string `yaml:"port"`
	Env                    string `yaml:"env"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	FrontendURL            string `yaml:"frontend_url"`
	MaxBodyBytes           int    `yaml:"max_body_bytes"`
	ValidateResponses      bool   `yaml:"validate_responses"`
	TelemetryEnabled       bool   `yaml:"telemetry_enabled"`
	RedisURL               string `yaml:"redis_url"`
	TelemetryChannel       string `yaml:"telemetry_channel"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Port:                   "8080",
		Env:                    "development",
		ShutdownTimeoutSeconds: 30,
		FrontendURL:            "http://localhost:3000",
		MaxBodyBytes:           1 << 20,
		ValidateResponses:      true,
		TelemetryEnabled:       true,
		TelemetryChannel:       "suggest:telemetry",
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	fc, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", fc.Port),
		Env:               getEnvOrDefault("ENV", fc.Env),
		ShutdownTimeout:   time.Duration(getEnvAsIntOrDefault("SHUTDOWN_TIMEOUT_SECONDS", fc.ShutdownTimeoutSeconds)) * time.Second,
		FrontendURL:       getEnvOrDefault("FRONTEND_URL", fc.FrontendURL),
		MaxBodyBytes:      int64(getEnvAsIntOrDefault("MAX_BODY_BYTES", fc.MaxBodyBytes)),
		ValidateResponses: getEnvAsBoolOrDefault("VALIDATE_RESPONSES", fc.ValidateResponses),
		TelemetryEnabled:  getEnvAsBoolOrDefault("TELEMETRY_ENABLED", fc.TelemetryEnabled),
		RedisURL:          getEnvOrDefault("REDIS_URL", fc.RedisURL),
		TelemetryChannel:  getEnvOrDefault("TELEMETRY_CHANNEL", fc.TelemetryChannel),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	fc := defaultFileConfig()
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return fc, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.Newf("invalid port %q", c.Port)
	}
	if c.MaxBodyBytes <= 0 {
		return errors.Newf("max body bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.Newf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if c.TelemetryEnabled && c.RedisURL != "" && strings.TrimSpace(c.TelemetryChannel) == "" {
		return errors.New("telemetry channel is required when REDIS_URL is set")
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
