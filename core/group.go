package core

import "slices"

// Constructor creates the plugin for a group entry.
type Constructor func() Plugin

// PluginGroup is a named bundle of plugins admitted together.
type PluginGroup interface {
	Group() (*GroupBuilder, error)
}

type groupEntry struct {
	ctor    Constructor
	enabled bool
}

// GroupBuilder collects the entries of a plugin group. Entries are named, kept
// in an explicit order that can be edited relative to other entries, and can
// be disabled without losing their position.
//
// A builder is single use: once Build is called every other method returns
// ErrGroupConsumed.
type GroupBuilder struct {
	name    string
	order   []string
	entries map[string]*groupEntry
	built   bool
}

// NewGroup returns an empty builder for the group called name.
func NewGroup(name string) *GroupBuilder {
	return &GroupBuilder{
		name:    name,
		entries: make(map[string]*groupEntry),
	}
}

// Name returns the group name.
func (g *GroupBuilder) Name() string { return g.name }

// Group lets a builder be used wherever a PluginGroup is expected.
func (g *GroupBuilder) Group() (*GroupBuilder, error) { return g, nil }

// Add appends an entry. Adding a name that is already present replaces its
// constructor and keeps its position and enabled flag.
func (g *GroupBuilder) Add(name string, ctor Constructor) error {
	if err := g.usable("add", name); err != nil {
		return err
	}
	if e, ok := g.entries[name]; ok {
		e.ctor = ctor
		return nil
	}
	g.order = append(g.order, name)
	g.entries[name] = &groupEntry{ctor: ctor, enabled: true}
	return nil
}

// AddBefore inserts an entry right before anchor. An entry that already
// exists is moved.
func (g *GroupBuilder) AddBefore(anchor, name string, ctor Constructor) error {
	return g.insertAt("add_before", anchor, name, ctor, 0)
}

// AddAfter inserts an entry right after anchor. An entry that already exists
// is moved.
func (g *GroupBuilder) AddAfter(anchor, name string, ctor Constructor) error {
	return g.insertAt("add_after", anchor, name, ctor, 1)
}

func (g *GroupBuilder) insertAt(op, anchor, name string, ctor Constructor, offset int) error {
	if err := g.usable(op, name); err != nil {
		return err
	}
	if _, ok := g.entries[anchor]; !ok {
		return &GroupError{Op: op, Group: g.name, Name: anchor, Err: ErrAnchorNotFound}
	}
	if anchor == name {
		g.entries[name].ctor = ctor
		return nil
	}

	e, ok := g.entries[name]
	if ok {
		e.ctor = ctor
		g.order = slices.DeleteFunc(g.order, func(n string) bool { return n == name })
	} else {
		e = &groupEntry{ctor: ctor, enabled: true}
		g.entries[name] = e
	}
	i := slices.Index(g.order, anchor) + offset
	g.order = slices.Insert(g.order, i, name)
	return nil
}

// Set replaces the constructor of an existing entry.
func (g *GroupBuilder) Set(name string, ctor Constructor) error {
	if err := g.usable("set", name); err != nil {
		return err
	}
	e, ok := g.entries[name]
	if !ok {
		return &GroupError{Op: "set", Group: g.name, Name: name, Err: ErrEntryNotFound}
	}
	e.ctor = ctor
	return nil
}

// SetEnabled marks an entry to be kept or skipped by Build.
func (g *GroupBuilder) SetEnabled(name string, enabled bool) error {
	if err := g.usable("set_enabled", name); err != nil {
		return err
	}
	e, ok := g.entries[name]
	if !ok {
		return &GroupError{Op: "set_enabled", Group: g.name, Name: name, Err: ErrEntryNotFound}
	}
	e.enabled = enabled
	return nil
}

func (g *GroupBuilder) Enable(name string) error  { return g.SetEnabled(name, true) }
func (g *GroupBuilder) Disable(name string) error { return g.SetEnabled(name, false) }

// Remove deletes an entry.
func (g *GroupBuilder) Remove(name string) error {
	if err := g.usable("remove", name); err != nil {
		return err
	}
	if _, ok := g.entries[name]; !ok {
		return &GroupError{Op: "remove", Group: g.name, Name: name, Err: ErrEntryNotFound}
	}
	delete(g.entries, name)
	g.order = slices.DeleteFunc(g.order, func(n string) bool { return n == name })
	return nil
}

// AddGroup appends every entry of other, enabled flags included, following
// the same rules as Add. other is consumed.
func (g *GroupBuilder) AddGroup(other *GroupBuilder) error {
	if err := g.usable("add_group", other.name); err != nil {
		return err
	}
	if other == g {
		return &GroupError{Op: "add_group", Group: g.name, Name: g.name, Err: ErrGroupSelf}
	}
	if other.built {
		return &GroupError{Op: "add_group", Group: other.name, Err: ErrGroupConsumed}
	}
	other.built = true
	for _, name := range other.order {
		src := other.entries[name]
		if e, ok := g.entries[name]; ok {
			e.ctor = src.ctor
			e.enabled = src.enabled
			continue
		}
		g.order = append(g.order, name)
		g.entries[name] = &groupEntry{ctor: src.ctor, enabled: src.enabled}
	}
	return nil
}

// Contains reports whether the group has an entry called name.
func (g *GroupBuilder) Contains(name string) bool {
	_, ok := g.entries[name]
	return ok
}

// Enabled reports whether the entry exists and is enabled.
func (g *GroupBuilder) Enabled(name string) bool {
	e, ok := g.entries[name]
	return ok && e.enabled
}

// Names returns every entry name in order, disabled entries included.
func (g *GroupBuilder) Names() []string {
	return slices.Clone(g.order)
}

// Build constructs the enabled entries in order and consumes the builder.
func (g *GroupBuilder) Build() ([]Plugin, error) {
	if g.built {
		return nil, &GroupError{Op: "build", Group: g.name, Err: ErrGroupConsumed}
	}
	g.built = true

	plugins := make([]Plugin, 0, len(g.order))
	for _, name := range g.order {
		e := g.entries[name]
		if !e.enabled {
			continue
		}
		var p Plugin
		if e.ctor != nil {
			p = e.ctor()
		}
		if p == nil {
			return nil, &GroupError{Op: "build", Group: g.name, Name: name, Err: ErrUnsupportedPlugin}
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func (g *GroupBuilder) usable(op, name string) error {
	if g.built {
		return &GroupError{Op: op, Group: g.name, Name: name, Err: ErrGroupConsumed}
	}
	return nil
}
