package config

import "time"

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath" validate:"omitempty,startswith=/"`
}

type ServerConfig struct {
	Addr         string        `config:"addr" validate:"required"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

type LoggingConfig struct {
	Level  string `config:"level" validate:"oneof=debug info warn error"`
	Format string `config:"format" validate:"oneof=text json tint"`
	// Capture is the buffer size for captured log records. Zero disables capture.
	Capture int `config:"capture" validate:"min=0"`
}

// LifecycleConfig tunes how the app waits for its plugins.
type LifecycleConfig struct {
	PollInterval    time.Duration `config:"pollInterval" validate:"gt=0"`
	ReadyTimeout    time.Duration `config:"readyTimeout" validate:"min=0"`
	ShutdownTimeout time.Duration `config:"shutdownTimeout" validate:"gt=0"`
}

// PluginsConfig selects entries of the default plugin group.
type PluginsConfig struct {
	Disabled []string `config:"disabled"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Server        ServerConfig        `config:"server"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
	Logging       LoggingConfig       `config:"logging"`
	Lifecycle     LifecycleConfig     `config:"lifecycle"`
	Plugins       PluginsConfig       `config:"plugins"`
}
