package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type APIConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Pages          int    `json:"pages"`
}

type UIConfig struct {
	WindowMonths           int `json:"window_months"`
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
}

type Config struct {
	API APIConfig `json:"api"`
	UI  UIConfig  `json:"ui"`
}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
			Pages:          5,
		},
		UI: UIConfig{
			WindowMonths:           12,
			RefreshIntervalSeconds: 0,
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "salescope")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "salescope")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	defaults := DefaultConfig()
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = defaults.API.TimeoutSeconds
	}
	if cfg.API.Pages <= 0 {
		cfg.API.Pages = defaults.API.Pages
	}
	if cfg.UI.WindowMonths <= 0 {
		cfg.UI.WindowMonths = defaults.UI.WindowMonths
	}
	if cfg.UI.RefreshIntervalSeconds < 0 {
		cfg.UI.RefreshIntervalSeconds = 0
	}

	return cfg, nil
}
