package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Data       DataConfig       `yaml:"data"`
	Model      ModelConfig      `yaml:"model"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Prediction PredictionConfig `yaml:"prediction"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port            string        `yaml:"port"`
	GinMode         string        `yaml:"gin_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	TopN            int           `yaml:"top_n"`
}

// DataConfig locates the incident table
type DataConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
}

// ModelConfig locates the model bundle directory
type ModelConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig locates the prediction history store. An empty path
// disables history.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds the HS256 secret for the history endpoint
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// PredictionConfig bounds the year accepted by the prediction form
type PredictionConfig struct {
	MinYear     int `yaml:"min_year"`
	MaxYear     int `yaml:"max_year"`
	DefaultYear int `yaml:"default_year"`
}

// RateLimitConfig limits requests per client IP; Requests 0 disables it
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultJWTSecret is the placeholder secret of the built-in configuration.
// Release mode refuses to start with it.
const DefaultJWTSecret = "your-secret-key-change-in-production"

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			GinMode:         "release",
			ShutdownTimeout: 10 * time.Second,
			TopN:            10,
		},
		Data:     DataConfig{Path: "./data/crime_data.csv", Delimiter: ","},
		Model:    ModelConfig{Dir: "./models"},
		Database: DatabaseConfig{Path: "./data/predictions.db"},
		Auth:     AuthConfig{JWTSecret: DefaultJWTSecret},
		Prediction: PredictionConfig{
			MinYear:     2020,
			MaxYear:     2030,
			DefaultYear: 2025,
		},
		RateLimit: RateLimitConfig{Requests: 120, Window: time.Minute},
		Log:       LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
		return nil
	}

	str("PORT", &c.Server.Port)
	str("GIN_MODE", &c.Server.GinMode)
	str("DATA_PATH", &c.Data.Path)
	str("CSV_DELIMITER", &c.Data.Delimiter)
	str("MODEL_DIR", &c.Model.Dir)
	str("DB_PATH", &c.Database.Path)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	return errors.Join(
		dur("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout),
		num("TOP_N", &c.Server.TopN),
		num("PREDICTION_MIN_YEAR", &c.Prediction.MinYear),
		num("PREDICTION_MAX_YEAR", &c.Prediction.MaxYear),
		num("PREDICTION_DEFAULT_YEAR", &c.Prediction.DefaultYear),
		num("RATE_LIMIT_REQUESTS", &c.RateLimit.Requests),
		dur("RATE_LIMIT_WINDOW", &c.RateLimit.Window),
	)
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Server.TopN < 1 {
		errs = append(errs, errors.New("server.top_n must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if utf8.RuneCountInString(c.Data.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter))
	}
	p := c.Prediction
	if p.MinYear > p.MaxYear {
		errs = append(errs, fmt.Errorf("prediction.min_year %d exceeds max_year %d", p.MinYear, p.MaxYear))
	}
	if p.DefaultYear < p.MinYear || p.DefaultYear > p.MaxYear {
		errs = append(errs, fmt.Errorf("prediction.default_year %d outside [%d, %d]", p.DefaultYear, p.MinYear, p.MaxYear))
	}
	if c.RateLimit.Requests < 0 {
		errs = append(errs, errors.New("rate_limit.requests must not be negative"))
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit.window must be positive"))
	}
	switch strings.ToLower(c.Server.GinMode) {
	case "release":
		if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret {
			errs = append(errs, errors.New("auth.jwt_secret must be set to a non-default value in release mode"))
		}
	case "debug", "test":
	default:
		errs = append(errs, fmt.Errorf("server.gin_mode %q is not one of debug, release, test", c.Server.GinMode))
	}
	return errors.Join(errs...)
}

// DelimiterRune returns the CSV delimiter as a rune
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Data.Delimiter)
	return r
}
