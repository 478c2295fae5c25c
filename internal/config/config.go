package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TRIVIA_HTTP_PORT
const EnvPrefix = "TRIVIA"

// Config is the server configuration
type Config struct {
	HTTP struct {
		Host            string
		Port            int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	Log struct {
		Level string // debug|info|warn|error
	}

	Storage struct {
		Type  string // memory|redis
		Redis struct {
			URL          string
			PoolSize     int
			MinIdleConns int
			QuestionTTL  time.Duration
			Instrument   bool
		}
	}

	Questions struct {
		BankPath     string
		Reload       bool // Replace a bank already in storage
		FetchTimeout time.Duration
	}

	Session struct {
		RevealDelay time.Duration
	}
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	var c Config
	c.HTTP.Port = 8080
	c.HTTP.ReadTimeout = 15 * time.Second
	c.HTTP.ShutdownTimeout = 10 * time.Second
	c.Log.Level = "info"
	c.Storage.Type = "memory"
	c.Storage.Redis.URL = "redis://localhost:6379/0"
	c.Storage.Redis.PoolSize = 10
	c.Storage.Redis.MinIdleConns = 2
	c.Questions.BankPath = "data/questions.json"
	c.Questions.FetchTimeout = 60 * time.Second
	c.Session.RevealDelay = 2500 * time.Millisecond
	return c
}

// Load fills config, which must be a pointer to a struct, from its current
// values, then the file (if any), then TRIVIA_* environment variables
func Load(file string, config any) error {
	v := viper.New()
	m := make(map[string]any)

	if err := mapstructure.Decode(config, &m); err != nil {
		return fmt.Errorf("mapstructure: %w", err)
	}

	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("merge config map: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config from file %s: %w", file, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return nil
}

// LogLevel parses the configured log level, defaulting to info
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the values Load cannot
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	if c.Session.RevealDelay <= 0 {
		return fmt.Errorf("reveal delay must be positive, got %s", c.Session.RevealDelay)
	}
	return nil
}
