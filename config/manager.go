package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Manager loads configuration from ordered sources, binds it into the
// caller's struct and notifies subscribers when a reload changes it.
//
// A reload is all or nothing: if any source, decode or validation step fails
// the current configuration is left untouched. All methods are safe for
// concurrent use.
type Manager struct {
	sources []ConfigSource
	config  any
	binder  *Binder
	logger  *slog.Logger

	mu   sync.RWMutex
	subs []chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configures a Manager.
type Options struct {
	// AutoReload starts a watcher per source and reloads on change.
	AutoReload bool

	// Logger receives reload failures from watchers. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewManager is NewManagerContext with context.Background().
func NewManager(cfg any, opts Options, sources ...ConfigSource) (*Manager, error) {
	return NewManagerContext(context.Background(), cfg, opts, sources...)
}

// NewManagerContext loads cfg (a pointer to a struct) from sources. Later
// sources override earlier ones. Watchers started for AutoReload live until
// ctx is done or Close is called.
func NewManagerContext(ctx context.Context, cfg any, opts Options, sources ...ConfigSource) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		sources: sources,
		config:  cfg,
		binder:  NewBinder(),
		logger:  logger,
	}

	if err := m.Reload(ctx); err != nil {
		return nil, err
	}

	if opts.AutoReload {
		m.ctx, m.cancel = context.WithCancel(context.WithoutCancel(ctx))
		m.startWatchers(ctx)
	}
	return m, nil
}

// Reload merges every source, binds and validates the result on a fresh
// value and only then swaps it into the managed struct. Subscribers are
// notified when anything changed.
func (m *Manager) Reload(ctx context.Context) error {
	merged := map[string]any{}
	for _, src := range m.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		MergeMaps(merged, vals)
	}

	typ := reflect.TypeOf(m.config).Elem()
	newCfg := reflect.New(typ).Interface()
	if err := m.binder.Bind(merged, newCfg); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	oldCfg := reflect.New(typ).Interface()
	reflect.ValueOf(oldCfg).Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(newCfg).Elem())
	m.mu.Unlock()

	if !reflect.DeepEqual(oldCfg, newCfg) {
		m.notify(diffEvent(oldCfg, newCfg))
	}
	return nil
}

// Subscribe registers ch for change events. Sends never block: when ch is
// full the event is dropped, so ch should be buffered. The Manager never
// closes ch.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

// Close stops the watchers and waits for them to exit.
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) startWatchers(parent context.Context) {
	context.AfterFunc(parent, m.cancel)
	for _, src := range m.sources {
		ch := make(chan Event, 1)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.watch(m.ctx, src, ch)
		}()
	}
}

func (m *Manager) watch(ctx context.Context, src ConfigSource, ch chan Event) {
	watchDone := make(chan error, 1)
	go func() { watchDone <- src.Watch(ctx, ch) }()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-watchDone:
			if err != nil && ctx.Err() == nil {
				m.logger.Warn("config watch stopped", "source", src.Name(), "error", err)
			}
			// Watch may return immediately for sources without change
			// notifications; keep draining ch until ctx ends.
			watchDone = nil
		case <-ch:
			if err := m.Reload(ctx); err != nil {
				m.logger.Error("config reload failed", "source", src.Name(), "error", err)
			}
		}
	}
}
