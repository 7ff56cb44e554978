package config

import (
	"fmt"
	"strings"
)

// Validate enforces required values and sane engine tuning.
func Validate(cfg Config) error {
	if cfg.Engine.PollIntervalMS <= 0 {
		return fmt.Errorf("engine.poll_interval_ms must be greater than 0")
	}

	if cfg.Engine.HotplugEveryTicks <= 0 {
		return fmt.Errorf("engine.hotplug_every_ticks must be greater than 0")
	}

	if cfg.Engine.SampleTimeoutMS <= 0 {
		return fmt.Errorf("engine.sample_timeout_ms must be greater than 0")
	}

	if cfg.Dimming.Opacity < 0.0 || cfg.Dimming.Opacity > 1.0 {
		return fmt.Errorf("dimming.opacity must be between 0.0 and 1.0")
	}

	if cfg.Overlay.HelperCommand == "" {
		return fmt.Errorf("overlay.helper_command is required")
	}

	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	return validateLogging(cfg.Logging)
}

func validateLogging(logging LoggingConfig) error {
	switch strings.ToLower(logging.Level) {
	case "error", "warn", "info", "debug":
		// valid
	default:
		return fmt.Errorf("logging.level must be one of error, warn, info, debug")
	}

	if logging.MaxSizeMB <= 0 {
		return fmt.Errorf("logging.max_size_mb must be greater than 0")
	}

	if logging.MaxBackups <= 0 {
		return fmt.Errorf("logging.max_backups must be greater than 0")
	}

	if strings.TrimSpace(logging.Dir) == "" {
		return fmt.Errorf("logging.dir is required")
	}

	return nil
}
