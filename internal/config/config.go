package config

import (
	"log/slog"
	"os"

	"github.com/AdamBeresnev/tournament-store/internal/datadir"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration of the tournament server. The store
// packages never read it; cmd/web hands them plain values.
type Config struct {
	Addr         string `yaml:"addr" env:"TOURNEY_ADDR"`
	AppName      string `yaml:"app_name" env:"TOURNEY_APP_NAME"`
	StoreDir     string `yaml:"store_root" env:"TOURNEY_STORE_ROOT"`
	LogLevel     string `yaml:"log_level" env:"TOURNEY_LOG_LEVEL"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" env:"TOURNEY_MAX_BODY_BYTES"`
	OTelEndpoint string `yaml:"otel_endpoint" env:"TOURNEY_OTEL_ENDPOINT"`
}

func Default() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		AppName:      datadir.DefaultAppName,
		LogLevel:     "info",
		MaxBodyBytes: 32 << 20,
	}
}

// Load starts from Default, applies the YAML file named by
// TOURNEY_CONFIG_PATH if set, then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TOURNEY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, errors.Newf("max body bytes must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse config file")
	}
	return nil
}

// StoreRoot is the explicit store directory if one is configured, otherwise
// <user config dir>/<app name>/CurrentTournaments.
func (c Config) StoreRoot() string {
	if c.StoreDir != "" {
		return c.StoreDir
	}
	return datadir.ResolveRoot(datadir.DefaultAppDataDir(), c.AppName)
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "log level %q", c.LogLevel)
	}
	return level, nil
}
