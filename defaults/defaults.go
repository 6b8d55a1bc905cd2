// Package defaults bundles the standard plugins into one group.
package defaults

import (
	"errors"
	"io"

	"github.com/skekre98/keel/actuator"
	"github.com/skekre98/keel/config"
	"github.com/skekre98/keel/core"
	"github.com/skekre98/keel/diagnostics"
	"github.com/skekre98/keel/logging"
	"github.com/skekre98/keel/web"
)

const GroupName = "defaults"

// Group is the default plugin group: config, log, diagnostics, web and
// actuator, in that order. Entries named in Config.Plugins.Disabled keep their
// position but are not built. The actuator adds web back if web is
// disabled on its own.
type Group struct {
	Config  *config.Root
	Manager *config.Manager
	// LogWriter overrides where the log plugin writes.
	LogWriter io.Writer
}

func (d Group) Group() (*core.GroupBuilder, error) {
	cfg := d.Config
	if cfg == nil {
		return nil, errors.New("default plugins need a config root")
	}

	g := core.NewGroup(GroupName)
	entries := []struct {
		name string
		ctor core.Constructor
	}{
		{"config", func() core.Plugin { return &config.Plugin{Root: cfg, Manager: d.Manager} }},
		{"log", func() core.Plugin {
			return &logging.Plugin{
				Options: logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Writer: d.LogWriter},
				Capture: cfg.Logging.Capture,
			}
		}},
		{diagnostics.Name, func() core.Plugin { return &diagnostics.Plugin{} }},
		{web.Name, func() core.Plugin { return web.Plugin() }},
		{actuator.Name, func() core.Plugin { return actuator.Plugin() }},
	}
	for _, e := range entries {
		if err := g.Add(e.name, e.ctor); err != nil {
			return nil, err
		}
	}

	for _, name := range cfg.Plugins.Disabled {
		if err := g.Disable(name); err != nil {
			return nil, err
		}
	}
	if !cfg.Observability.Metrics.Enabled {
		if err := g.Disable(diagnostics.Name); err != nil {
			return nil, err
		}
	}
	return g, nil
}
