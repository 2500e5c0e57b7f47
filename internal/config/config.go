package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the localmaps API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Storage    StorageConfig    `yaml:"storage"`
	Places     PlacesConfig     `yaml:"places"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StorageConfig holds account and favorites storage settings.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis, sqlite (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	SQLitePath       string   `yaml:"sqlite_path"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// PlacesConfig holds places-search provider settings.
type PlacesConfig struct {
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	DefaultRadiusMeters int    `yaml:"default_radius_meters"`
	TimeoutSec          int    `yaml:"timeout_sec"`
}

// ClassifierConfig holds the generative classifier settings (OpenAI-compatible API).
type ClassifierConfig struct {
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"`
	Model       string       `yaml:"model"`
	Temperature float32      `yaml:"temperature"`
	TimeoutSec  int          `yaml:"timeout_sec"`
	CacheTTLSec int          `yaml:"cache_ttl_sec"` // 0 = cache disabled
	Budget      BudgetConfig `yaml:"budget"`
}

// BudgetConfig caps classifier token spend per UTC day and month. 0 = unlimited.
type BudgetConfig struct {
	DailyTokens   int64  `yaml:"daily_tokens"`
	MonthlyTokens int64  `yaml:"monthly_tokens"`
	Action        string `yaml:"action"` // warn, reject (default: reject)
}

// Enabled reports whether any limit is set.
func (b BudgetConfig) Enabled() bool { return b.DailyTokens > 0 || b.MonthlyTokens > 0 }

// AuthConfig holds session settings.
type AuthConfig struct {
	SessionTTLHours int `yaml:"session_ttl_hours"`
	BcryptCost      int `yaml:"bcrypt_cost"`
}

// RateLimitConfig holds per-client search throttling.
type RateLimitConfig struct {
	SearchPerMinute int `yaml:"search_per_minute"` // 0 = unlimited
	Burst           int `yaml:"burst"`
}

// Storage drivers.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Provider defaults.
const (
	DefaultPlacesBaseURL     = "https://maps.googleapis.com/maps/api/place"
	DefaultClassifierBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultClassifierModel   = "gemini-2.0-flash"
)

// Load reads configuration from a YAML file by environment name (local, dev, docker, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 40
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverValkey
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/localmaps.db"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
	if c.Places.BaseURL == "" {
		c.Places.BaseURL = DefaultPlacesBaseURL
	}
	if c.Places.DefaultRadiusMeters <= 0 {
		c.Places.DefaultRadiusMeters = 5000
	}
	if c.Places.TimeoutSec <= 0 {
		c.Places.TimeoutSec = 10
	}
	if c.Classifier.BaseURL == "" {
		c.Classifier.BaseURL = DefaultClassifierBaseURL
	}
	if c.Classifier.Model == "" {
		c.Classifier.Model = DefaultClassifierModel
	}
	if c.Classifier.TimeoutSec <= 0 {
		c.Classifier.TimeoutSec = 15
	}
	if c.Classifier.Budget.Action == "" {
		c.Classifier.Budget.Action = "reject"
	}
	if c.Auth.SessionTTLHours <= 0 {
		c.Auth.SessionTTLHours = 7 * 24
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 10
	}
	if c.RateLimit.SearchPerMinute > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = c.RateLimit.SearchPerMinute
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case DriverValkey, DriverRedis:
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for driver %q", c.Storage.Driver)
		}
	case DriverSQLite:
		// sqlite_path has a default
	default:
		return fmt.Errorf("storage.driver must be \"valkey\", \"redis\" or \"sqlite\", got %q", c.Storage.Driver)
	}
	if c.Places.DefaultRadiusMeters > 50000 {
		return fmt.Errorf("places.default_radius_meters must be at most 50000, got %d", c.Places.DefaultRadiusMeters)
	}
	if c.Classifier.Temperature < 0 || c.Classifier.Temperature > 2 {
		return fmt.Errorf("classifier.temperature must be between 0 and 2, got %v", c.Classifier.Temperature)
	}
	if c.Classifier.CacheTTLSec < 0 {
		return fmt.Errorf("classifier.cache_ttl_sec must not be negative, got %d", c.Classifier.CacheTTLSec)
	}
	if c.Classifier.Budget.DailyTokens < 0 || c.Classifier.Budget.MonthlyTokens < 0 {
		return fmt.Errorf("classifier.budget limits must not be negative")
	}
	switch c.Classifier.Budget.Action {
	case "warn", "reject":
	default:
		return fmt.Errorf("classifier.budget.action must be \"warn\" or \"reject\", got %q", c.Classifier.Budget.Action)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if c.RateLimit.SearchPerMinute < 0 {
		return fmt.Errorf("rate_limit.search_per_minute must not be negative, got %d", c.RateLimit.SearchPerMinute)
	}
	return nil
}

// PlacesTimeout returns the places call deadline.
func (c *Config) PlacesTimeout() time.Duration {
	return time.Duration(c.Places.TimeoutSec) * time.Second
}

// ClassifierTimeout returns the classifier call deadline.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.Classifier.TimeoutSec) * time.Second
}

// SessionTTL returns how long a login session stays valid.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
