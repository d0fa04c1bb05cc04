// Package config loads the server's runtime configuration: a YAML file with
// env-var overrides on top. Provider credentials live in the settings
// package, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/janekbaraniewski/usagedeck/internal/settings"
)

type Config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	SessionDBPath   string        `yaml:"session_db_path"`
	SettingsPath    string        `yaml:"settings_path"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
	SessionLifetime time.Duration `yaml:"session_lifetime"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":8080",
		SessionDBPath:   filepath.Join(settings.ConfigDir(), "sessions.db"),
		SettingsPath:    settings.Path(),
		RefreshInterval: 5 * time.Minute,
		ProviderTimeout: 10 * time.Second,
		SessionLifetime: 24 * time.Hour,
	}
}

func ConfigPath() string {
	return filepath.Join(settings.ConfigDir(), "config.yaml")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom layers: defaults, then the YAML file if present, then env vars.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5 * time.Minute
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 10 * time.Second
	}
	if cfg.SessionLifetime <= 0 {
		cfg.SessionLifetime = 24 * time.Hour
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	if addr := os.Getenv("USAGEDECK_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if path := os.Getenv("USAGEDECK_SESSION_DB"); path != "" {
		cfg.SessionDBPath = path
	}
	if path := os.Getenv("USAGEDECK_SETTINGS_PATH"); path != "" {
		cfg.SettingsPath = path
	}
	if raw := os.Getenv("USAGEDECK_REFRESH_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.RefreshInterval = d
		}
	}
	if raw := os.Getenv("USAGEDECK_PROVIDER_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.ProviderTimeout = d
		}
	}
	if raw := os.Getenv("USAGEDECK_SESSION_LIFETIME"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SessionLifetime = d
		}
	}
}
