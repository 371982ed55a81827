package ipc

import (
	"context"

	"github.com/kesdev/go-ipc/internal/pump"
)

// Conn is one connected endpoint's call surface, shared by Client (the
// dialing side) and the handle a Server's OnConnect/OnDisconnect hooks
// receive for the accepting side. Either side may call into the other
// over the same connection.
type Conn struct {
	p *pump.Pump
}

// Call issues a call and blocks for its reply.
func (c *Conn) Call(ctx context.Context, class, function string, args []Value) ([]Value, error) {
	values, err := c.p.Call(ctx, class, function, args)
	if err != nil {
		return values, WrapError("Call", err)
	}
	return values, nil
}

// CallAsync issues a call without waiting for its reply; it returns once
// the call frame has been written to the endpoint. callback, if non-nil,
// runs once the reply (or a synthetic disconnect/cancel reply) arrives.
func (c *Conn) CallAsync(class, function string, args []Value, callback func([]Value, error)) (uid uint64, err error) {
	return c.p.CallAsync(class, function, args, callback)
}

// CallSynchronous issues a call and blocks for its reply, reporting via
// CallStatus whether it completed, timed out, or was cancelled.
func (c *Conn) CallSynchronous(ctx context.Context, class, function string, args []Value) ([]Value, CallStatus, error) {
	values, status, err := c.p.CallSynchronous(ctx, class, function, args)
	if err != nil {
		err = WrapError("CallSynchronous", err)
	}
	return values, status, err
}

// Cancel abandons a call issued with CallAsync before its reply arrives.
func (c *Conn) Cancel(uid uint64) { c.p.Cancel(uid) }

// Authenticate sends an Authenticate handshake and blocks for the peer's
// reply.
func (c *Conn) Authenticate(ctx context.Context, name, password string) (bool, error) {
	ok, err := c.p.Authenticate(ctx, name, password)
	if err != nil {
		return false, WrapError("Authenticate", err)
	}
	return ok, nil
}

// PendingCalls reports how many calls issued over this connection are
// still awaiting a reply.
func (c *Conn) PendingCalls() int { return c.p.PendingCalls() }

// CallStatus discriminates why CallSynchronous returned.
type CallStatus = pump.CallStatus

const (
	StatusOK        = pump.StatusOK
	StatusTimedOut  = pump.StatusTimedOut
	StatusCancelled = pump.StatusCancelled
)
