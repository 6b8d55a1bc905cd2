package core_test

import (
	"io"
	"log/slog"

	"github.com/skekre98/keel/core"
)

// trace records hook calls across plugins as "<hook>:<name>".
type trace struct {
	calls []string
}

func (t *trace) add(hook, name string) { t.calls = append(t.calls, hook+":"+name) }

func (t *trace) only(hook string) []string {
	var out []string
	for _, c := range t.calls {
		if len(c) > len(hook) && c[:len(hook)+1] == hook+":" {
			out = append(out, c[len(hook)+1:])
		}
	}
	return out
}

// testPlugin implements every optional hook.
type testPlugin struct {
	name     string
	multi    bool
	ready    bool
	buildErr error
	onBuild  func(app *core.App) error
	finishFn func(app *core.App) error
	readyFn  func(app *core.App) bool
	t        *trace
}

func newPlugin(t *trace, name string) *testPlugin {
	return &testPlugin{name: name, ready: true, t: t}
}

func (p *testPlugin) Name() string   { return p.name }
func (p *testPlugin) IsUnique() bool { return !p.multi }

func (p *testPlugin) Build(app *core.App) error {
	p.t.add("build", p.name)
	if p.onBuild != nil {
		if err := p.onBuild(app); err != nil {
			return err
		}
	}
	return p.buildErr
}

func (p *testPlugin) Ready(app *core.App) bool {
	p.t.add("ready", p.name)
	if p.readyFn != nil {
		return p.readyFn(app)
	}
	return p.ready
}

func (p *testPlugin) Finish(app *core.App) error {
	p.t.add("finish", p.name)
	if p.finishFn != nil {
		return p.finishFn(app)
	}
	return nil
}

func (p *testPlugin) Cleanup(*core.App) error {
	p.t.add("cleanup", p.name)
	return nil
}

func newTestApp() *core.App {
	return core.NewApp(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func names(app *core.App) []string {
	var out []string
	for _, p := range app.Plugins() {
		out = append(out, p.Name)
	}
	return out
}

// bare has no optional methods.
type bare struct{}

func (bare) Build(*core.App) error { return nil }

type generic[T any] struct{}

func (generic[T]) Build(*core.App) error { return nil }
