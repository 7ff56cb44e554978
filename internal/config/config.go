package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Dimming DimmingConfig `yaml:"dimming"`
	Overlay OverlayConfig `yaml:"overlay"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

type EngineConfig struct {
	// PollIntervalMS is how often the focus sampler queries the OS for the
	// frontmost window position.
	PollIntervalMS int `yaml:"poll_interval_ms"`
	// HotplugEveryTicks runs display re-enumeration every Nth sampler tick.
	HotplugEveryTicks int `yaml:"hotplug_every_ticks"`
	// SampleTimeoutMS bounds a single focus query so a stuck OS call (e.g.
	// a permission dialog) never stalls the loop.
	SampleTimeoutMS int `yaml:"sample_timeout_ms"`
}

type DimmingConfig struct {
	Enabled bool    `yaml:"enabled"`
	Opacity float64 `yaml:"opacity"`
}

type OverlayConfig struct {
	// HelperCommand is the external program spawned once per dimmed display.
	// It receives the display geometry and opacity as flags and reads
	// opacity updates from stdin.
	HelperCommand string   `yaml:"helper_command"`
	HelperArgs    []string `yaml:"helper_args"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			PollIntervalMS:    500,
			HotplugEveryTicks: 10,
			SampleTimeoutMS:   5000,
		},
		Dimming: DimmingConfig{
			Enabled: true,
			Opacity: 0.7,
		},
		Overlay: OverlayConfig{
			HelperCommand: "quickdim-overlay",
		},
		Server: ServerConfig{
			Address: "127.0.0.1:8227",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        defaultLogDir(),
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(configDir, "quickdim"), nil
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from disk, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil // return defaults if we can't determine path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // no config file, use defaults
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses a config document over the defaults and validates it.
func LoadFromBytes(data []byte) (Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Init creates a default config file if one doesn't exist.
func Init() (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}
