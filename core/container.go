package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Container holds the resources plugins share with each other. Plugins put
// resources in during Build and read them in later hooks.
//
// Lifecycle hooks run on one goroutine, but resources are also read from
// goroutines started by services (HTTP handlers), so access is locked.
type Container interface {
	Set(key any, val any)
	Get(key any) (any, bool)
	MustGet(key any) any
	Delete(key any) (any, bool)
}

type container struct {
	mu  sync.RWMutex
	reg map[any]any
}

func NewContainer() Container {
	return &container{reg: make(map[any]any)}
}

func (c *container) Set(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg[key] = val
}

func (c *container) Get(key any) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.reg[key]
	return v, ok
}

func (c *container) MustGet(key any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	panic(fmt.Errorf("container: missing resource %v (%T)", key, key))
}

func (c *container) Delete(key any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.reg[key]
	delete(c.reg, key)
	return v, ok
}

// TypeKey is the key under which Put stores a resource of type T.
type TypeKey[T any] struct{}

func Put[T any](c Container, v T) { c.Set(TypeKey[T]{}, v) }

// Get returns the resource of type T and panics if it is missing.
func Get[T any](c Container) T {
	raw := c.MustGet(TypeKey[T]{})
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Errorf("container: wrong type. have=%T want=%v", raw, reflect.TypeFor[T]()))
	}
	return v
}

// Lookup is Get without the panic.
func Lookup[T any](c Container) (T, bool) {
	raw, ok := c.Get(TypeKey[T]{})
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// Take removes the resource of type T and returns it. Cleanup hooks use it
// to move build-time resources out of the app.
func Take[T any](c Container) (T, bool) {
	raw, ok := c.Delete(TypeKey[T]{})
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
