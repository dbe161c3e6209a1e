package config

import (
	"errors"
	"fmt"
	"os"
	"realm-warp/internal/constants"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	EnvDev         = "DEV"
	ConfigFileVar  = "CONFIG_FILE"
	EnvironmentVar = "ENV"
	localhost      = "localhost"
)

type Config struct {
	Env      string         `koanf:"env"`
	Database DatabaseConfig `koanf:"database"`
	Riot     RiotConfig     `koanf:"riot"`
	Tracker  TrackerConfig  `koanf:"tracker"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type RiotConfig struct {
	APIKey string `koanf:"api_key" validate:"required"`

	// RateLimiterHost and RateLimiterPort address an HTTP proxy that every
	// upstream request is forwarded through. Empty host disables it.
	RateLimiterHost string `koanf:"rate_limiter_host"`
	RateLimiterPort int    `koanf:"rate_limiter_port" validate:"required_with=RateLimiterHost,max=65535"`

	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int     `koanf:"burst" validate:"min=1"`
	Breaker           bool    `koanf:"breaker"`
	BaseURL           string  `koanf:"base_url"`
}

// ProxyAddr returns host:port of the rate limiter proxy, or "".
func (r RiotConfig) ProxyAddr() string {
	if r.RateLimiterHost == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", r.RateLimiterHost, r.RateLimiterPort)
}

type TrackerConfig struct {
	Interval       time.Duration `koanf:"interval" validate:"min=1s"`
	Concurrency    int           `koanf:"concurrency" validate:"min=1,max=32"`
	AccountTimeout time.Duration `koanf:"account_timeout" validate:"min=1s"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: "realm_warp.db"},
		Riot: RiotConfig{
			RequestsPerSecond: constants.RiotRequestsPerSecond,
			Burst:             constants.RiotBurst,
			Breaker:           true,
		},
		Tracker: TrackerConfig{
			Interval:       constants.DefaultPollInterval,
			Concurrency:    constants.DefaultConcurrency,
			AccountTimeout: constants.DefaultAccountTimeout,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load layers defaults, an optional YAML file and the environment.
// Environment keys use "__" as the section delimiter: RIOT__API_KEY sets
// riot.api_key.
func Load() (*Config, error) {
	// a missing .env is fine, the environment is authoritative
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(key string) string {
	if key == EnvironmentVar {
		return "env"
	}
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(key, "__", "."))
}

// applyEnv points the store and proxy at the local machine in development.
func (c *Config) applyEnv() {
	if !strings.EqualFold(c.Env, EnvDev) {
		return
	}
	if c.Riot.RateLimiterHost != "" {
		c.Riot.RateLimiterHost = localhost
	}
}

func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Env, EnvDev)
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid configuration: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
