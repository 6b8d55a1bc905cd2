package core

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

// Set is an ordered collection of things Add accepts: plugins, functions,
// groups and nested sets. Its members are admitted depth-first, left to right.
type Set []any

type policy int

const (
	// strict fails on duplicates.
	strict policy = iota
	// idempotent skips duplicates.
	idempotent
)

// Add admits plugins, groups and sets in order. Each plugin's Build runs
// before the next item is looked at.
//
// Accepted items:
//   - Plugin (a type implementing both Plugin and PluginGroup is a Plugin)
//   - func(*App) error and func(*App)
//   - PluginGroup and *GroupBuilder
//   - Set or []any, recursively
//
// Add stops at the first error. Plugins admitted before it stay registered.
// Adding a unique plugin twice fails with a *DuplicatePluginError.
func (a *App) Add(items ...any) error {
	return a.admitAll(items, strict)
}

// AddIfNew is Add, except duplicates of unique plugins are skipped instead of
// failing. The skipped plugin's Build is not called. Other failures do not
// stop the remaining items; they are returned joined.
func (a *App) AddIfNew(items ...any) error {
	return a.admitAll(items, idempotent)
}

// MustAdd is Add for startup code that treats a configuration mistake as fatal.
func (a *App) MustAdd(items ...any) *App {
	if err := a.Add(items...); err != nil {
		panic(err)
	}
	return a
}

func (a *App) admitAll(items []any, pol policy) error {
	if a.state != StateAdding {
		return fmt.Errorf("%w (state %s)", ErrAdmissionClosed, a.state)
	}
	if a.inHook {
		return fmt.Errorf("add: %w", ErrHookInProgress)
	}
	var errs []error
	for _, item := range items {
		if err := a.admit(item, pol); err != nil {
			if pol == strict {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) admit(item any, pol policy) error {
	switch v := item.(type) {
	case nil:
		return fmt.Errorf("%w: <nil>", ErrUnsupportedPlugin)
	case Set:
		return a.admitAll(v, pol)
	case []any:
		return a.admitAll(v, pol)
	case Plugin:
		return a.register(v, pol)
	case func(*App) error:
		return a.register(PluginFunc(v), pol)
	case func(*App):
		return a.register(simpleFunc(v), pol)
	case PluginGroup:
		return a.admitGroup(v, pol)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedPlugin, item)
	}
}

func (a *App) admitGroup(pg PluginGroup, pol policy) error {
	g, err := pg.Group()
	if err != nil {
		return fmt.Errorf("resolve plugin group %s: %w", typeName(reflect.TypeOf(pg)), err)
	}
	plugins, err := g.Build()
	if err != nil {
		return err
	}
	a.Logger.Debug("adding plugin group", "group", g.Name(), "plugins", len(plugins))
	var errs []error
	for _, p := range plugins {
		if err := a.register(p, pol); err != nil {
			gerr := &GroupError{Op: "admit", Group: g.Name(), Name: PluginName(p), Err: err}
			if pol == strict {
				return gerr
			}
			errs = append(errs, gerr)
		}
	}
	return errors.Join(errs...)
}

// register runs p's Build inside a placeholder slot and then stores it.
func (a *App) register(p Plugin, pol policy) error {
	name := PluginName(p)
	unique := IsUnique(p)

	if a.registry.isBuilding(name) {
		a.registry.markReentered(name)
		err := &ReentrantBuildError{Name: name}
		a.emit(Event{Kind: EventPluginFailed, Plugin: name, Err: err})
		return err
	}
	if unique && a.registry.hasUnique(name) {
		if pol == idempotent {
			a.Logger.Info("skip duplicate plugin", "plugin", name)
			a.emit(Event{Kind: EventPluginSkipped, Plugin: name})
			return nil
		}
		err := &DuplicatePluginError{Name: name}
		a.emit(Event{Kind: EventPluginFailed, Plugin: name, Err: err})
		return err
	}

	e := a.registry.reserve(name, unique)
	built := false
	defer func() {
		// Build panicked: free the slot before the panic leaves.
		if !built && e.slot == slotPlaceholder {
			a.registry.drop(e)
		}
	}()

	a.Logger.Debug("building plugin", "plugin", shortName(name))
	if err := p.Build(a); err != nil {
		built = true
		a.registry.drop(e)
		berr := &BuildError{Name: name, Err: err}
		a.emit(Event{Kind: EventPluginFailed, Plugin: name, Err: berr})
		return berr
	}
	built = true
	if e.reentered {
		// Build swallowed the error of registering itself again.
		a.registry.drop(e)
		err := &ReentrantBuildError{Name: name}
		a.emit(Event{Kind: EventPluginFailed, Plugin: name, Err: err})
		return err
	}
	a.registry.fill(e, p)
	a.emit(Event{Kind: EventPluginAdded, Plugin: name})
	return nil
}

// simpleFunc is a build function that cannot fail.
type simpleFunc func(app *App)

func (f simpleFunc) Build(app *App) error {
	f(app)
	return nil
}

func (f simpleFunc) Name() string {
	if fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer()); fn != nil {
		return fn.Name()
	}
	return "core.simpleFunc"
}
