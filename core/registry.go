package core

import "slices"

// entry is one registry slot. The slot stays a placeholder while the
// plugin's Build runs so that lookups treat it as not yet available.
type entry struct {
	name   string
	unique bool
	slot   slotState
	plugin Plugin
	// reentered is set when Build tried to register the same name again.
	reentered bool
}

// registry keeps plugins in registration order. It is owned by a single App
// and only mutated from the goroutine driving that App.
type registry struct {
	entries []*entry
	// unique indexes entries of plugins that declared themselves unique.
	unique map[string]*entry
	// building counts placeholder slots per name.
	building map[string]int
}

func newRegistry() registry {
	return registry{
		unique:   make(map[string]*entry),
		building: make(map[string]int),
	}
}

func (r *registry) isBuilding(name string) bool {
	return r.building[name] > 0
}

func (r *registry) hasUnique(name string) bool {
	_, ok := r.unique[name]
	return ok
}

// reserve appends a placeholder slot for name.
func (r *registry) reserve(name string, unique bool) *entry {
	e := &entry{name: name, unique: unique, slot: slotPlaceholder}
	r.entries = append(r.entries, e)
	if unique {
		r.unique[name] = e
	}
	r.building[name]++
	return e
}

// fill turns a placeholder into a usable entry.
func (r *registry) fill(e *entry, p Plugin) {
	e.plugin = p
	e.slot = slotOccupied
	r.release(e.name)
}

// drop removes e, keeping the relative order of every other entry.
func (r *registry) drop(e *entry) {
	if e.slot == slotPlaceholder {
		r.release(e.name)
	}
	if i := slices.Index(r.entries, e); i >= 0 {
		r.entries = slices.Delete(r.entries, i, i+1)
	}
	if r.unique[e.name] == e {
		delete(r.unique, e.name)
	}
	e.slot = slotEmpty
	e.plugin = nil
}

// markReentered flags every placeholder called name.
func (r *registry) markReentered(name string) {
	for _, e := range r.entries {
		if e.name == name && e.slot == slotPlaceholder {
			e.reentered = true
		}
	}
}

func (r *registry) release(name string) {
	if r.building[name] <= 1 {
		delete(r.building, name)
		return
	}
	r.building[name]--
}

// contains reports whether a fully built plugin with this name exists.
func (r *registry) contains(name string) bool {
	return r.get(name) != nil
}

// get returns the first built entry with this name.
func (r *registry) get(name string) *entry {
	for _, e := range r.entries {
		if e.name == name && e.slot == slotOccupied {
			return e
		}
	}
	return nil
}

// snapshot returns the entries as they are now; hooks may append to the
// registry while the caller walks the copy.
func (r *registry) snapshot() []*entry {
	return slices.Clone(r.entries)
}

func (r *registry) len() int { return len(r.entries) }
