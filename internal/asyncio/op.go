// Package asyncio provides the submit/wait/cancel primitive the
// connection pump uses to overlap a pipe's read and write sides without
// blocking one on the other.
//
// Go has no portable equivalent of OVERLAPPED I/O or io_uring SQE/CQE
// submission, so each outstanding operation is backed by one goroutine
// performing a single blocking Read or Write and reporting completion on
// a channel. This mirrors the "submit once, wait on a handle, read a
// Result" contract used elsewhere for kernel-assisted async I/O, with the
// kernel ring replaced by a goroutine.
package asyncio

import (
	"sync/atomic"
)

// Kind identifies which half of a connection an Op performs.
type Kind int

const (
	KindRead Kind = iota
	KindWrite
)

// Result is the outcome of a completed Op.
type Result struct {
	N   int
	Err error
}

// Op represents one outstanding read or write. It is created by Submit
// and is valid from the moment Submit returns it; it becomes
// complete exactly once, after which Done is closed and Result is safe
// to read.
type Op struct {
	kind Kind
	done chan struct{}

	result         atomic.Value // Result
	cancelled      atomic.Bool
	callbackCalled atomic.Bool
	callback       func(Result)
}

// Submit starts work in its own goroutine and returns an Op handle
// immediately. work is expected to perform exactly one blocking call
// (net.Conn.Read, net.Conn.Write, ...) and return its outcome. callback,
// if non-nil, runs exactly once when the operation completes, after
// Done is closed; nil means fire-and-forget, the caller only observes
// the result via Wait or WaitAny.
func Submit(kind Kind, callback func(Result), work func() Result) *Op {
	op := &Op{
		kind:     kind,
		done:     make(chan struct{}),
		callback: callback,
	}
	go func() {
		r := work()
		op.result.Store(r)
		close(op.done)
		op.callOnce(r)
	}()
	return op
}

// Kind reports whether this Op is a read or a write.
func (op *Op) Kind() Kind { return op.kind }

// Done returns a channel that is closed when the operation completes.
func (op *Op) Done() <-chan struct{} { return op.done }

// IsComplete reports whether the operation has finished.
func (op *Op) IsComplete() bool {
	select {
	case <-op.done:
		return true
	default:
		return false
	}
}

// IsValid reports whether this Op was constructed by Submit. Nothing
// invalidates an Op: it stays valid after completion and after its
// callback has run, so repeated IsComplete/Result polling is allowed.
func (op *Op) IsValid() bool { return op.done != nil }

// Result returns the operation's outcome. It must only be called after
// Done has been observed closed (or via Wait/WaitAny).
func (op *Op) Result() Result {
	v := op.result.Load()
	if v == nil {
		return Result{}
	}
	return v.(Result)
}

// Wait blocks until the operation completes and returns its result.
func (op *Op) Wait() Result {
	<-op.done
	return op.Result()
}

// Cancel marks the Op as cancelled. Go's blocking I/O cannot be
// interrupted in place; the caller must close the underlying connection
// to actually unblock the goroutine performing work. Cancel's effect is
// to suppress the completion callback if it has not already fired, so a
// cancelled-then-completed-anyway op does not surprise the pump.
func (op *Op) Cancel() {
	op.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called on this Op.
func (op *Op) Cancelled() bool { return op.cancelled.Load() }

func (op *Op) callOnce(r Result) {
	if op.cancelled.Load() {
		return
	}
	if op.callback == nil {
		return
	}
	if op.callbackCalled.CompareAndSwap(false, true) {
		op.callback(r)
	}
}

// WaitAny blocks until at least one of ops completes and returns its
// index. It panics if ops is empty, mirroring the teacher's fail-fast
// stance on programmer error over silent no-ops.
func WaitAny(ops []*Op) int {
	if len(ops) == 0 {
		panic("asyncio: WaitAny called with no ops")
	}
	if len(ops) == 1 {
		<-ops[0].done
		return 0
	}
	selected := make(chan int, len(ops))
	for i, op := range ops {
		i, op := i, op
		go func() {
			<-op.done
			select {
			case selected <- i:
			default:
			}
		}()
	}
	return <-selected
}
