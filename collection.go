package ipc

import "github.com/kesdev/go-ipc/internal/registry"

// HandlerFunc implements one registered function, receiving decoded
// arguments and returning reply values or an error.
type HandlerFunc = registry.HandlerFunc

// Collection is a named group of functions a Server exposes, analogous
// to a remote class. Functions may be overloaded by parameter kind: two
// registrations under the same name with different kinds coexist.
type Collection struct {
	inner *registry.Collection
}

// NewCollection creates an empty Collection under name.
func NewCollection(name string) *Collection {
	return &Collection{inner: registry.NewCollection(name)}
}

// Register adds a function overload to the collection, keyed by name and
// the kinds of its parameters. kinds may be nil for a zero-argument
// function.
func (c *Collection) Register(name string, kinds []Kind, handler HandlerFunc) {
	c.inner.Register(name, kinds, handler)
}

// Name returns the collection's name, as seen by a caller's Call.
func (c *Collection) Name() string { return c.inner.Name }
