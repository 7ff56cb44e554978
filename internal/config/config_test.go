package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Engine
	if cfg.Engine.PollIntervalMS != 500 {
		t.Errorf("Engine.PollIntervalMS: got %d, want 500", cfg.Engine.PollIntervalMS)
	}
	if cfg.Engine.HotplugEveryTicks != 10 {
		t.Errorf("Engine.HotplugEveryTicks: got %d, want 10", cfg.Engine.HotplugEveryTicks)
	}
	if cfg.Engine.SampleTimeoutMS != 5000 {
		t.Errorf("Engine.SampleTimeoutMS: got %d, want 5000", cfg.Engine.SampleTimeoutMS)
	}

	// Dimming
	if cfg.Dimming.Enabled != true {
		t.Errorf("Dimming.Enabled: got %v, want true", cfg.Dimming.Enabled)
	}
	if cfg.Dimming.Opacity != 0.7 {
		t.Errorf("Dimming.Opacity: got %v, want 0.7", cfg.Dimming.Opacity)
	}

	// Overlay
	if cfg.Overlay.HelperCommand != "quickdim-overlay" {
		t.Errorf("Overlay.HelperCommand: got %q, want %q", cfg.Overlay.HelperCommand, "quickdim-overlay")
	}

	// Server
	if cfg.Server.Address != "127.0.0.1:8227" {
		t.Errorf("Server.Address: got %q, want %q", cfg.Server.Address, "127.0.0.1:8227")
	}

	// Logging
	if cfg.Logging.Enabled != true {
		t.Errorf("Logging.Enabled: got %v, want true", cfg.Logging.Enabled)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("Logging.MaxSizeMB: got %d, want 10", cfg.Logging.MaxSizeMB)
	}
}

func TestLoadFromBytes_PartialOverride(t *testing.T) {
	doc := `
dimming:
  opacity: 0.4
server:
  address: "127.0.0.1:9999"
`
	cfg, err := LoadFromBytes([]byte(doc))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	if cfg.Dimming.Opacity != 0.4 {
		t.Errorf("Dimming.Opacity: got %v, want 0.4", cfg.Dimming.Opacity)
	}
	if cfg.Server.Address != "127.0.0.1:9999" {
		t.Errorf("Server.Address: got %q, want %q", cfg.Server.Address, "127.0.0.1:9999")
	}
	// Untouched sections keep their defaults.
	if cfg.Engine.PollIntervalMS != 500 {
		t.Errorf("Engine.PollIntervalMS: got %d, want default 500", cfg.Engine.PollIntervalMS)
	}
	if cfg.Dimming.Enabled != true {
		t.Errorf("Dimming.Enabled: got %v, want default true", cfg.Dimming.Enabled)
	}
}

func TestLoadFromBytes_InvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("dimming: ["))
	if err == nil {
		t.Fatal("expected parse error for invalid YAML")
	}
}

func TestLoadFromBytes_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"opacity too high", "dimming:\n  opacity: 1.5\n", "opacity"},
		{"opacity negative", "dimming:\n  opacity: -0.1\n", "opacity"},
		{"zero poll interval", "engine:\n  poll_interval_ms: 0\n", "poll_interval_ms"},
		{"bad log level", "logging:\n  level: chatty\n", "level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected validation error for %q", tc.doc)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}
