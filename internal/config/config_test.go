package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Address != "0.0.0.0:9999" {
		t.Errorf("expected default address 0.0.0.0:9999, got %s", cfg.Server.Address)
	}
	if cfg.Presenter.Enabled {
		t.Errorf("expected presenter disabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Introspect.PingInterval.Duration() != 30*time.Second {
		t.Errorf("expected ping_interval 30s, got %s", cfg.Introspect.PingInterval.Duration())
	}
}

func TestLoadValidConfig(t *testing.T) {
	yaml := `
server:
  address: "0.0.0.0:7777"
presenter:
  enabled: true
  address: "127.0.0.1:6000"
globals:
  version_overrides:
    xdg_wm_base: 6
logging:
  level: "debug"
  format: "json"
  output: "stdout"
introspect:
  enabled: true
  address: "127.0.0.1:6100"
  ping_interval: "10s"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "winpipe.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Address != "0.0.0.0:7777" {
		t.Errorf("expected address 0.0.0.0:7777, got %s", cfg.Server.Address)
	}
	if !cfg.Presenter.Enabled || cfg.Presenter.Address != "127.0.0.1:6000" {
		t.Errorf("expected presenter enabled at 127.0.0.1:6000, got %+v", cfg.Presenter)
	}
	if cfg.Globals.VersionOverrides["xdg_wm_base"] != 6 {
		t.Errorf("expected xdg_wm_base override 6, got %d", cfg.Globals.VersionOverrides["xdg_wm_base"])
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Introspect.PingInterval.Duration() != 10*time.Second {
		t.Errorf("expected ping_interval 10s, got %s", cfg.Introspect.PingInterval.Duration())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/winpipe.yaml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestValidateMissingServerAddress(t *testing.T) {
	cfg := Default()
	cfg.Server.Address = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty server.address")
	}
}

func TestValidatePresenterEnabledWithoutAddress(t *testing.T) {
	cfg := Default()
	cfg.Presenter.Enabled = true
	cfg.Presenter.Address = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for presenter enabled without address")
	}
}

func TestValidateBadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid logging.level")
	}
}

func TestValidateIntrospectEnabledWithoutAddress(t *testing.T) {
	cfg := Default()
	cfg.Introspect.Enabled = true
	cfg.Introspect.Address = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for introspect enabled without address")
	}
}
