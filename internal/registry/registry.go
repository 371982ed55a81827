// Package registry implements the name -> handler lookup a connection
// pump consults when it receives a FunctionCall: a class holds named,
// overload-aware functions, keyed by a mangled signature so "add(i32,i32)"
// and "add(f64,f64)" can coexist.
package registry

import (
	"fmt"
	"sync"

	"github.com/kesdev/go-ipc/internal/wire"
)

// HandlerFunc implements one registered function. It receives the
// arguments already decoded and returns the reply values, or an error
// whose message becomes the FunctionReply's error string.
type HandlerFunc func(args []wire.Value) ([]wire.Value, error)

// Descriptor is one registered overload of a function.
type Descriptor struct {
	Name           string
	ParameterKinds []wire.Kind
	UniqueID       string
	Handler        HandlerFunc
}

// Collection is a named group of functions, mirroring a remote "class".
type Collection struct {
	Name      string
	functions map[string]*Descriptor // keyed by UniqueID
}

// NewCollection creates an empty collection under name.
func NewCollection(name string) *Collection {
	return &Collection{Name: name, functions: make(map[string]*Descriptor)}
}

// Register adds a function overload to the collection. It overwrites any
// existing registration with the same name and parameter kinds.
func (c *Collection) Register(name string, kinds []wire.Kind, handler HandlerFunc) {
	id := wire.UniqueID(name, kinds)
	c.functions[id] = &Descriptor{Name: name, ParameterKinds: kinds, UniqueID: id, Handler: handler}
}

// Lookup resolves a function call by name and the kinds of its actual
// arguments, returning the matching overload or false if none exists.
func (c *Collection) Lookup(name string, kinds []wire.Kind) (*Descriptor, bool) {
	d, ok := c.functions[wire.UniqueID(name, kinds)]
	return d, ok
}

// Registry holds every collection a server exposes. A collection may be
// added after Serve has started, so lookups and Add share a mutex rather
// than assuming the map is only ever populated before the accept loop
// runs.
type Registry struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{collections: make(map[string]*Collection)}
}

// Add registers a collection, replacing any previous collection of the
// same name.
func (r *Registry) Add(c *Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[c.Name] = c
}

// Collection returns a previously added collection by name.
func (r *Registry) Collection(name string) (*Collection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collections[name]
	return c, ok
}

// Dispatch resolves and invokes the handler named by call, recovering
// from a handler panic and turning it into an error so one misbehaving
// function cannot take down the pump that is driving it.
func Dispatch(r *Registry, call wire.FunctionCall) (values []wire.Value, err error) {
	class, ok := r.Collection(call.ClassName)
	if !ok {
		return nil, fmt.Errorf("Class '%s' is not registered.", call.ClassName)
	}
	kinds := wire.KindsOf(call.Arguments)
	desc, ok := class.Lookup(call.FunctionName, kinds)
	if !ok {
		return nil, fmt.Errorf("Function '%s' not found in class '%s'.", call.FunctionName, call.ClassName)
	}

	defer func() {
		if p := recover(); p != nil {
			values = nil
			err = fmt.Errorf("handler for %q panicked: %v", desc.UniqueID, p)
		}
	}()
	return desc.Handler(call.Arguments)
}
