// Package config loads and validates winpipe's YAML configuration: a
// Default/Load/Validate shape with a YAML-string Duration type, covering
// the settings a display-protocol bridge actually needs (listen address,
// presenter address, global-version overrides, logging, and the
// introspection endpoints).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete winpipe server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Presenter  PresenterConfig  `yaml:"presenter"`
	Globals    GlobalsConfig    `yaml:"globals"`
	Logging    LogConfig        `yaml:"logging"`
	Introspect IntrospectConfig `yaml:"introspect"`
}

// ServerConfig configures the inbound display-protocol listener.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// PresenterConfig configures the outbound pixel-forwarding channel.
// When Enabled is false, connections never dial a presenter; callers
// above internal/presenter should skip forwarding entirely rather than
// calling SendFrame against a disconnected client.
type PresenterConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// GlobalsConfig lets deployments override individual advertised global
// versions without touching the canonical interface set or order —
// internal/registry.New enforces that invariant regardless of what is
// supplied here.
type GlobalsConfig struct {
	VersionOverrides map[string]uint32 `yaml:"version_overrides"`
}

// LogConfig configures log/slog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stdout, stderr
}

// IntrospectConfig configures the optional observability surface: the
// health/metrics HTTP endpoints and the websocket live-trace feed.
type IntrospectConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Address      string   `yaml:"address"`
	HealthPath   string   `yaml:"health_path"`
	MetricsPath  string   `yaml:"metrics_path"`
	TracePath    string   `yaml:"trace_path"`
	PingInterval Duration `yaml:"ping_interval"`
}

// Duration is a time.Duration that supports YAML string unmarshaling
// ("30s", "2m").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads config from a YAML file, applying defaults for missing
// values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Presenter.Enabled && c.Presenter.Address == "" {
		return fmt.Errorf("presenter.address is required when presenter is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Introspect.Enabled && c.Introspect.Address == "" {
		return fmt.Errorf("introspect.address is required when introspect is enabled")
	}
	return nil
}
