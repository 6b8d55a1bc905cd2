package config

import "context"

// ConfigSource supplies configuration data as a nested string-keyed map.
type ConfigSource interface {
	// Load returns a fresh copy of the source's data. It must honor ctx and
	// be safe for concurrent use.
	Load(ctx context.Context) (map[string]any, error)

	// Watch sends on ch whenever the source changes, until ctx is done.
	// Sources that cannot detect changes return nil immediately. Watch must
	// not close ch.
	Watch(ctx context.Context, ch chan<- Event) error

	// Name identifies the source in errors and logs: "file", "env", "cli", ...
	Name() string
}

// Event describes a configuration change.
type Event struct {
	// ChangedKeys lists the dotted field paths whose values differ,
	// e.g. "Server.Addr".
	ChangedKeys []string

	OldConfig any
	NewConfig any
}
