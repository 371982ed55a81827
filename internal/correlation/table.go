// Package correlation tracks outstanding calls by uid between the moment
// a FunctionCall is sent and the moment its FunctionReply arrives,
// generalizing a fixed-size per-tag state table into a map keyed by the
// unbounded uid a connection allocates.
package correlation

import (
	"sync"

	"github.com/kesdev/go-ipc/internal/wire"
)

// Handler is invoked with the reply for a call once it arrives, or with
// a synthetic reply if the connection is dropped before one arrives.
type Handler func(reply wire.FunctionReply)

// Table maps an in-flight call's uid to the handler waiting on its reply.
// The mutex guards only the map; handlers always run after it is
// released, so a slow or panicking handler cannot stall Insert/Take for
// unrelated uids.
type Table struct {
	mu      sync.Mutex
	pending map[uint64]Handler
}

// New creates an empty correlation table.
func New() *Table {
	return &Table{pending: make(map[uint64]Handler)}
}

// Insert records a handler for uid. It is an error at the call site to
// reuse a uid that is still pending; Insert silently overwrites, matching
// the assumption that uid allocation never repeats while a call is live.
func (t *Table) Insert(uid uint64, h Handler) {
	t.mu.Lock()
	t.pending[uid] = h
	t.mu.Unlock()
}

// Take removes and returns the handler for uid, if any, so a reply is
// delivered to exactly one waiter even under concurrent delivery
// attempts.
func (t *Table) Take(uid uint64) (Handler, bool) {
	t.mu.Lock()
	h, ok := t.pending[uid]
	if ok {
		delete(t.pending, uid)
	}
	t.mu.Unlock()
	return h, ok
}

// Remove discards a pending call without invoking its handler, used when
// a caller cancels a call before any reply can arrive.
func (t *Table) Remove(uid uint64) {
	t.mu.Lock()
	delete(t.pending, uid)
	t.mu.Unlock()
}

// Len reports the number of calls currently in flight.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Drain removes every pending call and invokes each handler with a
// synthetic Null reply carrying msg, used when the underlying connection
// is lost and no further real replies will ever arrive.
func (t *Table) Drain(msg string) {
	t.mu.Lock()
	handlers := make(map[uint64]Handler, len(t.pending))
	for uid, h := range t.pending {
		handlers[uid] = h
	}
	t.pending = make(map[uint64]Handler)
	t.mu.Unlock()

	for uid, h := range handlers {
		h(wire.FunctionReply{UID: uid, Values: []wire.Value{wire.NullWithText(msg)}})
	}
}
