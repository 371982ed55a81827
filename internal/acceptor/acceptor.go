// Package acceptor runs a listener's accept loop, promoting each
// connected endpoint to its own supervised pump goroutine. It
// generalizes provisioning N queue runners for one device at startup and
// tearing them all down together to provisioning one pump per accepted
// connection and tearing down the whole backlog on shutdown.
package acceptor

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kesdev/go-ipc/internal/logging"
	"github.com/kesdev/go-ipc/internal/metrics"
	"github.com/kesdev/go-ipc/internal/pump"
	"github.com/kesdev/go-ipc/internal/registry"
	"github.com/kesdev/go-ipc/internal/transport"
)

// Acceptor owns one listening name and every pump it has spawned for it.
type Acceptor struct {
	name     string
	listener transport.Listener
	reg      *registry.Registry
	log      *logging.Logger
	met      *metrics.Metrics

	RequireAuth      bool
	OnAuthenticate   func(name, password string) bool
	WatchdogInterval time.Duration
	WatchdogFunc     func()

	// OnConnect and OnDisconnect, if set, run on every accepted
	// connection's promotion to and teardown from a pump.
	OnConnect    func(*pump.Pump)
	OnDisconnect func(*pump.Pump)
}

// New binds a listener at name and prepares an Acceptor for it.
func New(name string, reg *registry.Registry, log *logging.Logger, met *metrics.Metrics) (*Acceptor, error) {
	l, err := transport.Listen(name)
	if err != nil {
		return nil, err
	}
	return &Acceptor{name: name, listener: l, reg: reg, log: log, met: met}, nil
}

// Name returns the listening name this Acceptor was created with.
func (a *Acceptor) Name() string { return a.name }

// Serve runs the accept loop until ctx is cancelled, waiting for every
// spawned pump to finish before returning. A single connection's error
// never aborts the loop, and neither does an Accept error: it is logged
// and Accept is called again. Only ctx cancellation ends the loop.
func (a *Acceptor) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			ep, err := a.listener.Accept(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.log.Warn("accept failed", "name", a.name, "error", err)
				continue
			}

			p := pump.New(ep, a.reg, a.log, a.met)
			p.RequireAuth = a.RequireAuth
			p.OnAuthenticate = a.OnAuthenticate
			p.WatchdogInterval = a.WatchdogInterval
			p.WatchdogFunc = a.WatchdogFunc
			if a.OnConnect != nil {
				a.OnConnect(p)
			}
			onDisconnect := a.OnDisconnect
			p.OnDisconnect = func() {
				if onDisconnect != nil {
					onDisconnect(p)
				}
			}

			g.Go(func() error {
				if err := p.Serve(gctx); err != nil && gctx.Err() == nil {
					a.log.Debug("connection ended", "name", a.name, "error", err)
				}
				return nil
			})
		}
	})

	<-gctx.Done()
	a.listener.Close()
	return g.Wait()
}

// Close closes the underlying listener without waiting for in-flight
// connections. It does not end Serve, which returns only once its ctx is
// cancelled.
func (a *Acceptor) Close() error {
	return a.listener.Close()
}
