package logging

import (
	"log/slog"

	"github.com/skekre98/keel/core"
)

// Plugin installs the app logger. With Capture > 0 it also queues log
// records into a *CapturedRecords resource that other plugins can drain.
type Plugin struct {
	Options
	Capture int
	// CustomHandler, if set, wraps the handler built from Options.
	CustomHandler func(slog.Handler) slog.Handler
}

func (p *Plugin) Name() string { return "log" }

func (p *Plugin) Build(app *core.App) error {
	h := NewHandler(p.Options)
	if p.CustomHandler != nil {
		h = p.CustomHandler(h)
	}
	if p.Capture > 0 {
		var captured *CapturedRecords
		h, captured = NewCaptureHandler(h, p.Capture)
		core.Put[*CapturedRecords](app.Container, captured)
	}

	logger := slog.New(h)
	app.Logger = logger.With("app_id", app.ID)
	core.Put[*slog.Logger](app.Container, app.Logger)
	return nil
}
