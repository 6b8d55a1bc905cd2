package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// App owns the plugin registry and drives it through the lifecycle
// Adding -> Ready -> Finished -> Cleaned.
//
// An App is not safe for concurrent use: plugins are added and lifecycle
// hooks run on a single goroutine, one at a time.
type App struct {
	ID        string
	Container Container
	Logger    *slog.Logger

	registry  registry
	state     PluginsState
	inHook    bool
	observers []func(Event)
}

func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &App{
		ID:        id,
		Container: NewContainer(),
		Logger:    logger.With("app_id", id),
		registry:  newRegistry(),
	}
}

// State returns the current lifecycle state.
func (a *App) State() PluginsState { return a.state }

// IsPluginAdded reports whether a plugin with this name finished its Build.
func (a *App) IsPluginAdded(name string) bool {
	return a.registry.contains(name)
}

// GetPlugin returns the first registered plugin with this name. A plugin
// whose Build is still running is not returned.
func (a *App) GetPlugin(name string) (Plugin, bool) {
	e := a.registry.get(name)
	if e == nil {
		return nil, false
	}
	return e.plugin, true
}

// PluginsOf returns every registered plugin of type T, in registration order.
func PluginsOf[T any](a *App) []T {
	var out []T
	for _, e := range a.registry.entries {
		if e.slot != slotOccupied {
			continue
		}
		if p, ok := e.plugin.(T); ok {
			out = append(out, p)
		}
	}
	return out
}

// PluginInfo describes a registry entry.
type PluginInfo struct {
	Name   string `json:"name"`
	Unique bool   `json:"unique"`
	Status string `json:"status"`
}

// Plugins returns the registry in registration order.
func (a *App) Plugins() []PluginInfo {
	out := make([]PluginInfo, 0, a.registry.len())
	for _, e := range a.registry.entries {
		out = append(out, PluginInfo{Name: e.name, Unique: e.unique, Status: e.slot.String()})
	}
	return out
}

// PendingPlugins returns the names of plugins that currently report not ready.
func (a *App) PendingPlugins() []string {
	var pending []string
	for _, e := range a.registry.snapshot() {
		if e.slot != slotOccupied || !isReady(e.plugin, a) {
			pending = append(pending, e.name)
		}
	}
	return pending
}

// AdvanceIfReady polls every plugin's Ready hook once and moves the app from
// Adding to Ready if all of them report true in this poll. It never blocks;
// callers poll again on their own schedule. In any other state it only
// returns the state.
func (a *App) AdvanceIfReady() PluginsState {
	if a.state != StateAdding || a.inHook {
		return a.state
	}
	if a.pollReady() {
		a.setState(StateReady)
	}
	return a.state
}

func (a *App) pollReady() bool {
	a.inHook = true
	defer func() { a.inHook = false }()
	for _, e := range a.registry.snapshot() {
		if e.slot != slotOccupied || !isReady(e.plugin, a) {
			return false
		}
	}
	return true
}

// Finish calls Finish on every plugin once, in registration order. Every hook
// runs even if an earlier one fails; the first error is returned. The app is
// Finished afterwards either way.
func (a *App) Finish() error {
	return a.runPhase("finish", StateReady, StateFinished, func(p Plugin) error {
		if f, ok := p.(Finisher); ok {
			return f.Finish(a)
		}
		return nil
	})
}

// Cleanup calls Cleanup on every plugin once, in registration order, with the
// same error handling as Finish.
func (a *App) Cleanup() error {
	return a.runPhase("cleanup", StateFinished, StateCleaned, func(p Plugin) error {
		if c, ok := p.(Cleaner); ok {
			return c.Cleanup(a)
		}
		return nil
	})
}

func (a *App) runPhase(op string, want, next PluginsState, hook func(Plugin) error) error {
	if a.inHook {
		return fmt.Errorf("%s: %w", op, ErrHookInProgress)
	}
	if a.state != want {
		return &PhaseError{Op: op, Have: a.state, Want: want}
	}

	firstErr := a.runHooks(op, hook)
	a.setState(next)
	return firstErr
}

// runHooks calls hook for every built plugin. A panicking hook leaves the
// phase unfinished but does not block later phase calls.
func (a *App) runHooks(op string, hook func(Plugin) error) error {
	a.inHook = true
	defer func() { a.inHook = false }()

	var firstErr error
	for _, e := range a.registry.snapshot() {
		if e.slot != slotOccupied {
			continue
		}
		if err := hook(e.plugin); err != nil && firstErr == nil {
			firstErr = &HookError{Hook: op, Name: e.name, Err: err}
		}
	}
	return firstErr
}

func (a *App) setState(s PluginsState) {
	if s <= a.state {
		return
	}
	a.state = s
	a.Logger.Info("plugins state changed", "state", s.String(), "plugins", a.registry.len())
	a.emit(Event{Kind: EventStateChanged})
}

// RunOptions controls App.Run.
type RunOptions struct {
	// PollInterval is how often Ready hooks are polled. Defaults to 10ms.
	PollInterval time.Duration
	// ReadyTimeout bounds the wait for every plugin to be ready. Zero waits
	// until ctx is done.
	ReadyTimeout time.Duration
	// ShutdownTimeout bounds stopping services. Defaults to 15s.
	ShutdownTimeout time.Duration
	// Signals ends the run when received. Defaults to SIGINT and SIGTERM.
	Signals []os.Signal
}

// Run drives the whole lifecycle: it polls until every plugin is ready, runs
// Finish and Cleanup, starts services in registration order, waits for ctx
// or a signal, then stops services in reverse order.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Millisecond
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	if len(opts.Signals) == 0 {
		opts.Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	// 1) Wait until ready
	if err := a.WaitReady(ctx, opts.PollInterval, opts.ReadyTimeout); err != nil {
		return err
	}

	// 2) Finish + cleanup. Services may hold resources acquired in Finish, so
	// all of them are stopped when a phase fails.
	services := PluginsOf[Service](a)
	if err := a.Finish(); err != nil {
		return errors.Join(err, a.stopServices(services, opts.ShutdownTimeout))
	}
	if err := a.Cleanup(); err != nil {
		return errors.Join(err, a.stopServices(services, opts.ShutdownTimeout))
	}

	// 3) Start services in order
	started := make([]Service, 0, len(services))
	var startErr error
	for _, s := range services {
		a.Logger.Info("starting service", "plugin", shortName(PluginName(s.(Plugin))))
		if err := s.Start(ctx, a); err != nil {
			startErr = fmt.Errorf("start %s: %w", PluginName(s.(Plugin)), err)
			break
		}
		started = append(started, s)
	}

	// 4) Wait for signal, then stop in reverse order
	if startErr == nil {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, opts.Signals...)
		select {
		case <-ctx.Done():
		case <-stop:
		}
		signal.Stop(stop)
	}

	stopErr := a.stopServices(started, opts.ShutdownTimeout)
	if startErr != nil {
		return startErr
	}
	return stopErr
}

// stopServices stops services in reverse order within timeout and returns the
// first error.
func (a *App) stopServices(services []Service, timeout time.Duration) error {
	// give services time to shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var firstErr error
	for i := len(services) - 1; i >= 0; i-- {
		s := services[i]
		a.Logger.Info("stopping service", "plugin", shortName(PluginName(s.(Plugin))))
		if err := s.Stop(shutdownCtx, a); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WaitReady calls AdvanceIfReady every interval until the app is ready, ctx
// is done or timeout (if positive) expires. The error names the plugins that
// were still not ready.
func (a *App) WaitReady(ctx context.Context, interval, timeout time.Duration) error {
	if a.AdvanceIfReady() != StateAdding {
		return nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			err := ctx.Err()
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("plugins not ready: %s: %w", strings.Join(a.PendingPlugins(), ", "), err)
			}
			return err
		case <-ticker.C:
			if a.AdvanceIfReady() != StateAdding {
				return nil
			}
		}
	}
}
