package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nop struct{}

func (nop) Build(*App) error { return nil }

func TestRegistry_PlaceholderLifecycle(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	e := r.reserve("a", true)

	assert.Equal(t, slotPlaceholder, e.slot)
	assert.True(t, r.isBuilding("a"))
	assert.True(t, r.hasUnique("a"))
	assert.False(t, r.contains("a"), "placeholder is not available")

	r.fill(e, nop{})
	assert.Equal(t, slotOccupied, e.slot)
	assert.False(t, r.isBuilding("a"))
	assert.True(t, r.contains("a"))
}

func TestRegistry_DropKeepsOrder(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	var entries []*entry
	for _, n := range []string{"a", "b", "c", "d"} {
		e := r.reserve(n, true)
		r.fill(e, nop{})
		entries = append(entries, e)
	}

	r.drop(entries[1])

	var got []string
	for _, e := range r.entries {
		got = append(got, e.name)
	}
	assert.Equal(t, []string{"a", "c", "d"}, got)
	assert.False(t, r.hasUnique("b"))
	assert.Equal(t, slotEmpty, entries[1].slot)
}

func TestRegistry_NonUniqueNotIndexed(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	first := r.reserve("m", false)
	second := r.reserve("m", false)
	assert.False(t, r.hasUnique("m"))

	r.fill(first, nop{})
	assert.True(t, r.isBuilding("m"), "second slot still building")
	r.fill(second, nop{})
	assert.False(t, r.isBuilding("m"))
	assert.Equal(t, 2, r.len())
}

func TestApp_BuildPanicFreesSlot(t *testing.T) {
	t.Parallel()

	app := NewApp(nil)
	assert.Panics(t, func() {
		_ = app.Add(PluginFunc(func(*App) error { panic("boom") }))
	})
	assert.Equal(t, 0, app.registry.len())
	assert.Empty(t, app.registry.building)
}

func TestSlotState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "building", slotPlaceholder.String())
	assert.Equal(t, "added", slotOccupied.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "cleaned", StateCleaned.String())
}
