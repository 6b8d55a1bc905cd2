package core

// PluginsState is the lifecycle phase of an App. It only moves forward.
type PluginsState int

const (
	// StateAdding - plugins are being added.
	StateAdding PluginsState = iota

	// StateReady - every plugin reported ready in the same poll.
	StateReady

	// StateFinished - Finish ran for every plugin.
	StateFinished

	// StateCleaned - Cleanup ran for every plugin.
	StateCleaned
)

// String returns a string representation of the state.
func (s PluginsState) String() string {
	switch s {
	case StateAdding:
		return "adding"
	case StateReady:
		return "ready"
	case StateFinished:
		return "finished"
	case StateCleaned:
		return "cleaned"
	default:
		return "unknown"
	}
}

// slotState tracks a single registry entry.
type slotState int

const (
	slotEmpty slotState = iota
	// slotPlaceholder holds the position while the plugin's Build runs.
	slotPlaceholder
	slotOccupied
)

func (s slotState) String() string {
	switch s {
	case slotEmpty:
		return "empty"
	case slotPlaceholder:
		return "building"
	case slotOccupied:
		return "added"
	default:
		return "unknown"
	}
}
