package core

// EventKind identifies what happened in an Event.
type EventKind int

const (
	// EventPluginAdded - a plugin finished Build and is registered.
	EventPluginAdded EventKind = iota
	// EventPluginSkipped - AddIfNew skipped a duplicate.
	EventPluginSkipped
	// EventPluginFailed - admission of a plugin failed.
	EventPluginFailed
	// EventStateChanged - the app moved to a new lifecycle state.
	EventStateChanged
)

func (k EventKind) String() string {
	switch k {
	case EventPluginAdded:
		return "plugin_added"
	case EventPluginSkipped:
		return "plugin_skipped"
	case EventPluginFailed:
		return "plugin_failed"
	case EventStateChanged:
		return "state_changed"
	default:
		return "unknown"
	}
}

// Event describes a registry or lifecycle change.
type Event struct {
	Kind EventKind
	// Plugin is empty for EventStateChanged.
	Plugin string
	State  PluginsState
	Err    error
}

// Observe registers fn to be called synchronously for every event, in the
// order observers were added. Observers must not add plugins.
func (a *App) Observe(fn func(Event)) {
	a.observers = append(a.observers, fn)
}

func (a *App) emit(evt Event) {
	evt.State = a.state
	for _, fn := range a.observers {
		fn(evt)
	}
}
