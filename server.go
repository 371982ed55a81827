package ipc

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kesdev/go-ipc/internal/acceptor"
	"github.com/kesdev/go-ipc/internal/logging"
	"github.com/kesdev/go-ipc/internal/metrics"
	"github.com/kesdev/go-ipc/internal/pump"
	"github.com/kesdev/go-ipc/internal/registry"
)

// Server listens for connections on a named pipe/FIFO pair and serves
// every registered Collection to each connected client.
type Server struct {
	a   *acceptor.Acceptor
	reg *registry.Registry
}

type serverConfig struct {
	log              *Logger
	registerer       prometheus.Registerer
	requireAuth      bool
	authFunc         func(name, password string) bool
	watchdogInterval time.Duration
	watchdogFunc     func()
	onConnect        func(*Conn)
	onDisconnect     func(*Conn)
}

// ServerOption configures a Server at construction time.
type ServerOption func(*serverConfig)

// WithLogger attaches a non-default Logger to the server and every pump
// it spawns.
func WithLogger(l *Logger) ServerOption {
	return func(c *serverConfig) { c.log = l }
}

// WithMetricsRegisterer registers the server's Prometheus collectors
// against reg instead of the global DefaultRegisterer.
func WithMetricsRegisterer(reg prometheus.Registerer) ServerOption {
	return func(c *serverConfig) { c.registerer = reg }
}

// RequireAuth rejects any FunctionCall from a connection that has not
// completed an Authenticate handshake accepted by authFunc.
func RequireAuth(authFunc func(name, password string) bool) ServerOption {
	return func(c *serverConfig) {
		c.requireAuth = true
		c.authFunc = authFunc
	}
}

// WithWatchdog arms a periodic callback on every connection's outgoing
// synchronous calls, invoked every interval while a reply is still
// outstanding.
func WithWatchdog(interval time.Duration, fn func()) ServerOption {
	return func(c *serverConfig) {
		c.watchdogInterval = interval
		c.watchdogFunc = fn
	}
}

// OnConnect registers a hook invoked once per accepted connection, given
// a Conn the server side can use to call back into that connection.
func OnConnect(fn func(*Conn)) ServerOption {
	return func(c *serverConfig) { c.onConnect = fn }
}

// OnDisconnect registers a hook invoked once a connection's Serve loop
// returns, for any reason.
func OnDisconnect(fn func(*Conn)) ServerOption {
	return func(c *serverConfig) { c.onDisconnect = fn }
}

// NewServer binds a listener at name and prepares it to serve reg to
// every accepted connection. reg may be nil for a server that only
// issues calls to connections via OnConnect/OnDisconnect hooks.
func NewServer(name string, reg *Collection, opts ...ServerOption) (*Server, error) {
	cfg := &serverConfig{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.log
	if log == nil {
		log = logging.Default()
	}

	r := registry.New()
	if reg != nil {
		r.Add(reg.inner)
	}

	a, err := acceptor.New(name, r, log, metrics.New(cfg.registerer))
	if err != nil {
		return nil, WrapError("NewServer", err)
	}
	a.RequireAuth = cfg.requireAuth
	a.OnAuthenticate = cfg.authFunc
	a.WatchdogInterval = cfg.watchdogInterval
	a.WatchdogFunc = cfg.watchdogFunc
	if cfg.onConnect != nil {
		a.OnConnect = func(p *pump.Pump) { cfg.onConnect(&Conn{p: p}) }
	}
	if cfg.onDisconnect != nil {
		a.OnDisconnect = func(p *pump.Pump) { cfg.onDisconnect(&Conn{p: p}) }
	}

	return &Server{a: a, reg: r}, nil
}

// Register exposes an additional Collection to every connection this
// Server serves, including connections already being served. It mirrors
// the single-Collection argument to NewServer and may be called any
// number of times, before or after Serve starts.
func (s *Server) Register(coll *Collection) {
	s.reg.Add(coll.inner)
}

// Serve runs the accept loop until ctx is cancelled, returning once every
// spawned connection has wound down.
func (s *Server) Serve(ctx context.Context) error {
	return s.a.Serve(ctx)
}

// Close closes the underlying listener without waiting for in-flight
// connections. It does not end Serve, which returns only once its ctx is
// cancelled.
func (s *Server) Close() error {
	return s.a.Close()
}

// Name returns the listening name this Server was created with.
func (s *Server) Name() string { return s.a.Name() }
