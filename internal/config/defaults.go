package config

import "time"

// Default returns a Config with sensible defaults: listen on the
// protocol's conventional port 9999 (spec.md §6), no presenter
// configured, and introspection disabled until explicitly turned on.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "0.0.0.0:9999",
		},
		Presenter: PresenterConfig{
			Enabled: false,
			Address: "127.0.0.1:9998",
		},
		Globals: GlobalsConfig{
			VersionOverrides: map[string]uint32{},
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Introspect: IntrospectConfig{
			Enabled:      false,
			Address:      "127.0.0.1:9997",
			HealthPath:   "/healthz",
			MetricsPath:  "/metrics",
			TracePath:    "/ws/trace",
			PingInterval: Duration(30 * time.Second),
		},
	}
}
