package core

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicatePlugin is matched by DuplicatePluginError.
	ErrDuplicatePlugin = errors.New("plugin was already added in application")

	// ErrReentrantBuild is matched by ReentrantBuildError.
	ErrReentrantBuild = errors.New("plugin added from within its own build")

	// ErrAnchorNotFound is returned by group edits naming a missing anchor entry.
	ErrAnchorNotFound = errors.New("anchor entry not found in group")

	// ErrEntryNotFound is returned by group edits naming a missing entry.
	ErrEntryNotFound = errors.New("entry not found in group")

	// ErrGroupConsumed is returned when a group builder is used after Build.
	ErrGroupConsumed = errors.New("group already built")

	// ErrGroupSelf is returned when a group builder is added to itself.
	ErrGroupSelf = errors.New("group cannot be added to itself")

	// ErrUnsupportedPlugin is returned when Add is given something that is
	// neither a plugin, a group nor a Set.
	ErrUnsupportedPlugin = errors.New("value is not a plugin, group or set")

	// ErrInvalidPhase is matched by PhaseError.
	ErrInvalidPhase = errors.New("invalid lifecycle phase")

	// ErrAdmissionClosed is returned when plugins are added after the app
	// left the adding state.
	ErrAdmissionClosed = errors.New("plugins can only be added while the app is adding")

	// ErrHookInProgress is returned when a lifecycle phase is entered from
	// inside one of its own hooks.
	ErrHookInProgress = errors.New("lifecycle hook already running")
)

// DuplicatePluginError reports a unique plugin admitted twice.
type DuplicatePluginError struct {
	Name string
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("error adding plugin %s: %v", e.Name, ErrDuplicatePlugin)
}

func (e *DuplicatePluginError) Unwrap() error { return ErrDuplicatePlugin }

// ReentrantBuildError reports a plugin registering a plugin with its own name
// while its Build hook is still running.
type ReentrantBuildError struct {
	Name string
}

func (e *ReentrantBuildError) Error() string {
	return fmt.Sprintf("error adding plugin %s: %v", e.Name, ErrReentrantBuild)
}

func (e *ReentrantBuildError) Unwrap() error { return ErrReentrantBuild }

// BuildError wraps an error returned by a plugin's Build hook.
type BuildError struct {
	Name string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build plugin %s: %v", e.Name, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// HookError wraps an error returned by a Finish or Cleanup hook.
type HookError struct {
	Hook string
	Name string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s plugin %s: %v", e.Hook, e.Name, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// GroupError reports a failed edit or admission of a plugin group.
type GroupError struct {
	// Op is the builder operation: "add_before", "set", "admit", ...
	Op    string
	Group string
	// Name is the entry (or anchor) the operation referred to.
	Name string
	Err  error
}

func (e *GroupError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("group %s: %s: %v", e.Group, e.Op, e.Err)
	}
	return fmt.Sprintf("group %s: %s %q: %v", e.Group, e.Op, e.Name, e.Err)
}

func (e *GroupError) Unwrap() error { return e.Err }

// PhaseError reports a lifecycle operation called in the wrong state.
type PhaseError struct {
	Op   string
	Have PluginsState
	Want PluginsState
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: app is %s, want %s", e.Op, e.Have, e.Want)
}

func (e *PhaseError) Unwrap() error { return ErrInvalidPhase }
