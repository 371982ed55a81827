// Package pump drives one connected endpoint: it reads frames, routes
// FunctionCall envelopes into the registry and FunctionReply envelopes
// into the correlation table, and exposes Call/CallAsync/CallSynchronous
// for the local side to issue calls of its own. It is the generalization
// of a per-queue fetch/own/commit state machine to a per-connection
// read/dispatch/write cycle over a byte stream instead of a descriptor
// ring.
package pump

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kesdev/go-ipc/internal/asyncio"
	"github.com/kesdev/go-ipc/internal/constants"
	"github.com/kesdev/go-ipc/internal/correlation"
	"github.com/kesdev/go-ipc/internal/logging"
	"github.com/kesdev/go-ipc/internal/metrics"
	"github.com/kesdev/go-ipc/internal/registry"
	"github.com/kesdev/go-ipc/internal/transport"
	"github.com/kesdev/go-ipc/internal/wire"
)

// CallStatus discriminates why CallSynchronous returned, so a reply
// carrying zero values cannot be confused with a cancelled or timed-out
// call.
type CallStatus int

const (
	StatusOK CallStatus = iota
	StatusTimedOut
	StatusCancelled
)

func (s CallStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimedOut:
		return "timed-out"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrLostConnection is the error wrapped into every pending call's
// synthetic reply when the underlying connection drops.
var ErrLostConnection = errors.New("Lost IPC Connection")

// ErrNotAuthenticated is returned to a caller whose FunctionCall arrives
// before a required Authenticate handshake succeeds.
var ErrNotAuthenticated = errors.New("not authenticated")

// Pump owns one connected endpoint for its lifetime.
type Pump struct {
	ep  transport.Endpoint
	reg *registry.Registry
	log *logging.Logger
	met *metrics.Metrics

	corr    *correlation.Table
	nextUID atomic.Uint64
	writeMu sync.Mutex

	// RequireAuth gates FunctionCall dispatch on a prior successful
	// Authenticate handshake when true.
	RequireAuth bool
	// OnAuthenticate decides whether an incoming Authenticate handshake
	// succeeds. A nil value accepts every handshake.
	OnAuthenticate func(name, password string) bool
	authenticated  atomic.Bool
	authReplyCh    chan wire.AuthenticateReply

	// WatchdogInterval and WatchdogFunc let CallSynchronous report that
	// it is still waiting, for callers that want to detect a frozen
	// peer without abandoning the call outright.
	WatchdogInterval time.Duration
	WatchdogFunc     func()

	// OnDisconnect, if set, runs once when Serve returns.
	OnDisconnect func()

	// traceID identifies this connection in log fields. It is never
	// sent on the wire; the correlation table's uid stays the sole
	// wire-level identifier.
	traceID string
}

// New creates a Pump over an already-connected endpoint. reg may be nil
// for a pump that only issues calls and never serves any.
func New(ep transport.Endpoint, reg *registry.Registry, log *logging.Logger, met *metrics.Metrics) *Pump {
	if log == nil {
		log = logging.Default()
	}
	return &Pump{
		ep:          ep,
		reg:         reg,
		log:         log,
		met:         met,
		corr:        correlation.New(),
		authReplyCh: make(chan wire.AuthenticateReply, 1),
		traceID:     uuid.NewString(),
	}
}

// Serve reads frames until the connection fails or ctx is cancelled,
// dispatching each one by its envelope tag. It always returns a non-nil
// error: io.EOF/a transport error on a clean or unclean close, or ctx's
// error if cancelled.
func (p *Pump) Serve(ctx context.Context) error {
	p.log.Debug("connection started", "trace_id", p.traceID)
	defer p.shutdown()

	frames := make(chan []byte)
	errs := make(chan error, 1)
	go func() {
		for {
			var payload []byte
			op := asyncio.Submit(asyncio.KindRead, nil, func() asyncio.Result {
				buf, err := wire.ReadFrame(p.ep)
				payload = buf
				return asyncio.Result{N: len(buf), Err: err}
			})
			if res := op.Wait(); res.Err != nil {
				errs <- res.Err
				return
			}
			select {
			case frames <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			p.ep.Close()
			return ctx.Err()
		case err := <-errs:
			return err
		case payload := <-frames:
			p.route(payload)
		}
	}
}

func (p *Pump) route(payload []byte) {
	tag, err := wire.PeekTag(payload)
	if err != nil {
		p.log.Warn("dropping unreadable frame", "error", err)
		return
	}
	switch tag {
	case wire.TagFunctionCall:
		call, err := wire.DeserializeFunctionCall(payload)
		if err != nil {
			p.log.Warn("dropping malformed function call", "error", err)
			return
		}
		p.handleCall(call)
	case wire.TagFunctionReply:
		reply, err := wire.DeserializeFunctionReply(payload)
		if err != nil {
			p.log.Warn("dropping malformed function reply", "error", err)
			return
		}
		if h, ok := p.corr.Take(reply.UID); ok {
			p.updatePendingMetric()
			h(reply)
		}
	case wire.TagAuthenticate:
		auth, err := wire.DeserializeAuthenticate(payload)
		if err != nil {
			p.log.Warn("dropping malformed authenticate", "error", err)
			return
		}
		p.handleAuthenticate(auth)
	case wire.TagAuthenticateReply:
		reply, err := wire.DeserializeAuthenticateReply(payload)
		if err != nil {
			p.log.Warn("dropping malformed authenticate reply", "error", err)
			return
		}
		select {
		case p.authReplyCh <- reply:
		default:
		}
	default:
		p.log.Warn("dropping frame with unknown envelope tag", "tag", tag)
	}
}

func (p *Pump) handleCall(call wire.FunctionCall) {
	if p.RequireAuth && !p.authenticated.Load() {
		p.writeReply(wire.FunctionReply{UID: call.UID, Error: ErrNotAuthenticated.Error()})
		return
	}
	if p.reg == nil {
		p.writeReply(wire.FunctionReply{UID: call.UID, Error: "no registry configured"})
		return
	}

	start := time.Now()
	values, err := registry.Dispatch(p.reg, call)
	elapsed := time.Since(start)

	reply := wire.FunctionReply{UID: call.UID, Values: values}
	if err != nil {
		reply.Error = err.Error()
	}
	if p.met != nil {
		p.met.RecordCall(call.ClassName, call.FunctionName, elapsed.Seconds(), err)
	}
	p.writeReply(reply)
}

func (p *Pump) handleAuthenticate(auth wire.Authenticate) {
	ok := true
	if p.OnAuthenticate != nil {
		ok = p.OnAuthenticate(auth.Name, auth.Password)
	}
	p.authenticated.Store(ok)
	p.writeFrame(wire.SerializeAuthenticateReply(wire.AuthenticateReply{Auth: ok}))
}

func (p *Pump) writeReply(reply wire.FunctionReply) {
	p.writeFrame(wire.SerializeFunctionReply(reply))
}

func (p *Pump) writeFrame(buf []byte) {
	if err := p.writeFrameErr(buf); err != nil {
		p.log.Warn("write failed", "error", err)
	}
}

func (p *Pump) writeFrameErr(buf []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	op := asyncio.Submit(asyncio.KindWrite, nil, func() asyncio.Result {
		err := wire.WriteFrame(p.ep, buf)
		return asyncio.Result{N: len(buf), Err: err}
	})
	return op.Wait().Err
}

func (p *Pump) shutdown() {
	p.log.Debug("connection ended", "trace_id", p.traceID)
	p.corr.Drain(ErrLostConnection.Error())
	p.updatePendingMetric()
	if p.met != nil {
		p.met.RecordDisconnect()
	}
	if p.OnDisconnect != nil {
		p.OnDisconnect()
	}
}

// updatePendingMetric syncs the PendingCalls gauge to the correlation
// table's current size after every insert, take, or drain.
func (p *Pump) updatePendingMetric() {
	if p.met != nil {
		p.met.PendingCalls.Set(float64(p.corr.Len()))
	}
}

// Call issues a FunctionCall and blocks for its FunctionReply, returning
// an error built from the reply's Error string on failure.
func (p *Pump) Call(ctx context.Context, class, function string, args []wire.Value) ([]wire.Value, error) {
	values, status, err := p.callWithWatchdog(ctx, class, function, args, 0, nil)
	if status == StatusTimedOut && err == nil {
		err = ctx.Err()
	}
	return values, err
}

// CallAsync issues a FunctionCall without waiting for its reply. It does
// wait for the call frame to be written to the endpoint: there is no
// outbound queue, so it returns only once that write has completed or
// failed. callback, if non-nil, is invoked from the Serve goroutine when
// the reply arrives.
func (p *Pump) CallAsync(class, function string, args []wire.Value, callback func([]wire.Value, error)) (uid uint64, err error) {
	uid = p.nextUID.Add(1)
	if callback != nil {
		p.corr.Insert(uid, func(reply wire.FunctionReply) {
			if reply.Error != "" {
				callback(reply.Values, errors.New(reply.Error))
				return
			}
			callback(reply.Values, nil)
		})
		p.updatePendingMetric()
	}
	call := wire.FunctionCall{UID: uid, ClassName: class, FunctionName: function, Arguments: args}
	if werr := p.writeFrameErr(wire.SerializeFunctionCall(call)); werr != nil {
		p.corr.Remove(uid)
		p.updatePendingMetric()
		return uid, werr
	}
	return uid, nil
}

// CallSynchronous issues a FunctionCall and blocks for its reply,
// reporting via CallStatus whether the call actually completed, timed
// out, or was cancelled instead of overloading a nil/empty values slice.
// If ctx carries no deadline, DefaultSyncCallTimeout bounds the wait.
func (p *Pump) CallSynchronous(ctx context.Context, class, function string, args []wire.Value) ([]wire.Value, CallStatus, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, constants.DefaultSyncCallTimeout)
		defer cancel()
	}
	return p.callWithWatchdog(ctx, class, function, args, p.WatchdogInterval, p.WatchdogFunc)
}

func (p *Pump) callWithWatchdog(ctx context.Context, class, function string, args []wire.Value, watchdogInterval time.Duration, watchdogFunc func()) ([]wire.Value, CallStatus, error) {
	uid := p.nextUID.Add(1)
	replyCh := make(chan wire.FunctionReply, 1)
	p.corr.Insert(uid, func(reply wire.FunctionReply) { replyCh <- reply })
	p.updatePendingMetric()

	call := wire.FunctionCall{UID: uid, ClassName: class, FunctionName: function, Arguments: args}
	if err := p.writeFrameErr(wire.SerializeFunctionCall(call)); err != nil {
		p.corr.Remove(uid)
		p.updatePendingMetric()
		return nil, StatusCancelled, err
	}

	var tickerC <-chan time.Time
	if watchdogInterval > 0 && watchdogFunc != nil {
		ticker := time.NewTicker(watchdogInterval)
		defer ticker.Stop()
		tickerC = ticker.C
	}

	for {
		select {
		case reply := <-replyCh:
			if reply.Error != "" {
				return reply.Values, StatusOK, errors.New(reply.Error)
			}
			return reply.Values, StatusOK, nil
		case <-ctx.Done():
			p.corr.Remove(uid)
			p.updatePendingMetric()
			return nil, StatusTimedOut, nil
		case <-tickerC:
			watchdogFunc()
		}
	}
}

// Cancel abandons a call issued with CallAsync before its reply arrives.
// Any callback registered for uid is invoked with ErrLostConnection-style
// semantics via a synthetic Null reply rather than left to fire later.
func (p *Pump) Cancel(uid uint64) {
	if h, ok := p.corr.Take(uid); ok {
		p.updatePendingMetric()
		h(wire.FunctionReply{UID: uid, Values: []wire.Value{wire.NullWithText("Cancelled")}})
	}
}

// Authenticate sends an Authenticate handshake and blocks for the
// server's AuthenticateReply.
func (p *Pump) Authenticate(ctx context.Context, name, password string) (bool, error) {
	if err := p.writeFrameErr(wire.SerializeAuthenticate(wire.Authenticate{Name: name, Password: password})); err != nil {
		return false, err
	}
	select {
	case reply := <-p.authReplyCh:
		return reply.Auth, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// PendingCalls reports how many calls this pump has issued and is still
// awaiting a reply for.
func (p *Pump) PendingCalls() int { return p.corr.Len() }
