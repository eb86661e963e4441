// Package config loads service configuration from an optional YAML file,
// an optional .env file and the process environment, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tphummel/homekeep/internal/idgen"
)

// ErrMissingToken is returned when no API token is configured.
var ErrMissingToken = errors.New("API_TOKEN environment variable is required")

// Config holds service settings.
type Config struct {
	APIToken string `yaml:"api_token"`
	DBPath   string `yaml:"db_path"`
	Port     string `yaml:"port"`

	// IDScheme selects record id generation: "local" or "uuid".
	IDScheme string `yaml:"id_scheme"`

	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`

	// PreviewTasks is how many tasks a seed result previews.
	PreviewTasks int `yaml:"preview_tasks"`
}

func defaults() Config {
	return Config{
		DBPath:          "./homekeep.db",
		Port:            "8080",
		IDScheme:        idgen.SchemeLocal,
		RateLimitPerSec: 10,
		RateLimitBurst:  20,
		PreviewTasks:    3,
	}
}

// Load builds the configuration. The YAML file named by CONFIG_PATH and a
// .env file in the working directory are both optional.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIToken == "" {
		return nil, ErrMissingToken
	}
	if _, err := idgen.ForScheme(cfg.IDScheme); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerSec <= 0 {
		return nil, fmt.Errorf("rate limit per second must be positive, got %v", cfg.RateLimitPerSec)
	}
	if cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit burst must be positive, got %d", cfg.RateLimitBurst)
	}
	if cfg.PreviewTasks <= 0 {
		cfg.PreviewTasks = 3
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ID_SCHEME"); v != "" {
		cfg.IDScheme = v
	}
	if v := os.Getenv("RATE_LIMIT_PER_SEC"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_SEC: %w", err)
		}
		cfg.RateLimitPerSec = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = n
	}
	return nil
}
