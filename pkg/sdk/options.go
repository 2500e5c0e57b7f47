package localmaps

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	placesKey     string
	placesBaseURL string

	classifierKey     string
	classifierBaseURL string
	model             string
	temperature       float32

	searchTimeout   time.Duration
	classifyTimeout time.Duration

	cacheDriver   string // "valkey" or "redis", empty disables the cache
	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	dailyTokens   int64
	monthlyTokens int64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPlaces sets the places provider API key.
func WithPlaces(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.placesKey = apiKey
	})
}

// WithPlacesBaseURL overrides the places endpoint root.
func WithPlacesBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.placesBaseURL = u
	})
}

// WithClassifier sets the OpenAI-compatible classifier key and model.
// An empty model keeps the default.
func WithClassifier(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.classifierKey = apiKey
		if model != "" {
			c.model = model
		}
	})
}

// WithClassifierBaseURL overrides the chat-completions endpoint root.
func WithClassifierBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.classifierBaseURL = u
	})
}

// WithTemperature sets the classifier sampling temperature. Default: 0.
func WithTemperature(t float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.temperature = t
	})
}

// WithTimeouts sets per-call deadlines for the places search and the
// classifier. Defaults: 10s and 15s.
func WithTimeouts(search, classify time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchTimeout = search
		c.classifyTimeout = classify
	})
}

// WithValkeyCache caches classifier answers in Valkey for ttl.
func WithValkeyCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithRedisCache caches classifier answers in Redis for ttl.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithClassifierBudget caps classifier tokens per UTC day and month
// (0 = unlimited). Once spent, searches return unfiltered results. With a
// cache configured the counters survive restarts.
func WithClassifierBudget(dailyTokens, monthlyTokens int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokens = dailyTokens
		c.monthlyTokens = monthlyTokens
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
