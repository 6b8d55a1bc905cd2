package config

import (
	"context"
	"log/slog"

	"github.com/skekre98/keel/core"
)

// Plugin publishes the loaded configuration as a shared *Root resource and
// logs configuration changes while the app runs.
type Plugin struct {
	Root    *Root
	Manager *Manager

	events chan Event
	done   chan struct{}
}

func (p *Plugin) Name() string { return "config" }

func (p *Plugin) Build(app *core.App) error {
	core.Put[*Root](app.Container, p.Root)
	if p.Manager != nil {
		core.Put[*Manager](app.Container, p.Manager)
	}
	return nil
}

func (p *Plugin) Start(_ context.Context, app *core.App) error {
	if p.Manager == nil {
		return nil
	}
	p.events = make(chan Event, 8)
	p.done = make(chan struct{})
	p.Manager.Subscribe(p.events)

	go func() {
		for {
			select {
			case <-p.done:
				return
			case evt := <-p.events:
				app.Logger.Info("config changed", slog.Any("keys", evt.ChangedKeys))
			}
		}
	}()
	return nil
}

func (p *Plugin) Stop(_ context.Context, _ *core.App) error {
	if p.Manager == nil {
		return nil
	}
	if p.done != nil {
		close(p.done)
	}
	p.Manager.Close()
	return nil
}
