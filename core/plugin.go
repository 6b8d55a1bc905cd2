package core

import (
	"context"
	"reflect"
	"runtime"
	"strings"
)

// Plugin is a unit of configuration that participates in the app lifecycle.
//
// Build runs immediately when the plugin is admitted. Everything else is
// optional and discovered through the capability interfaces below.
type Plugin interface {
	Build(app *App) error
}

// Readier reports whether a plugin finished its setup. Plugins that don't
// implement it are always ready.
type Readier interface {
	Ready(app *App) bool
}

// Finisher runs once every registered plugin is ready.
type Finisher interface {
	Finish(app *App) error
}

// Cleaner runs after every plugin has finished.
type Cleaner interface {
	Cleanup(app *App) error
}

// Namer overrides the name used for duplicate detection and diagnostics.
type Namer interface {
	Name() string
}

// Uniquer lets a plugin opt out of duplicate detection by returning false.
type Uniquer interface {
	IsUnique() bool
}

// Service is implemented by plugins owning long-running work such as servers.
// App.Run starts services after cleanup and stops them in reverse order. If
// Finish or Cleanup fails, Run calls Stop on every service without Start, so
// Stop must handle a service that never started.
type Service interface {
	Start(ctx context.Context, app *App) error
	Stop(ctx context.Context, app *App) error
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc func(app *App) error

func (f PluginFunc) Build(app *App) error { return f(app) }

// Name returns the symbol of the wrapped function.
func (f PluginFunc) Name() string {
	if f == nil {
		return "core.PluginFunc(nil)"
	}
	if fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer()); fn != nil {
		return fn.Name()
	}
	return "core.PluginFunc"
}

// PluginName returns the plugin's name. Plugins without a Name method are
// identified by their package path and type name, so two instances of the
// same type collide while instantiations of a generic type with different
// type arguments do not.
func PluginName(p Plugin) string {
	if n, ok := p.(Namer); ok {
		return n.Name()
	}
	return typeName(reflect.TypeOf(p))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.Name()
}

// IsUnique reports whether p may be registered at most once.
func IsUnique(p Plugin) bool {
	if u, ok := p.(Uniquer); ok {
		return u.IsUnique()
	}
	return true
}

func isReady(p Plugin, app *App) bool {
	if r, ok := p.(Readier); ok {
		return r.Ready(app)
	}
	return true
}

// shortName trims the package path, for log lines.
func shortName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
