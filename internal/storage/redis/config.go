package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// QuestionTTL expires question lists; zero keeps them forever
	QuestionTTL time.Duration

	// Instrument enables OpenTelemetry tracing/metrics and command logging
	Instrument bool
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		QuestionTTL:  0,
		Instrument:   false,
	}
}
