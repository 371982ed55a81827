package ipc

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kesdev/go-ipc/internal/logging"
	"github.com/kesdev/go-ipc/internal/metrics"
	"github.com/kesdev/go-ipc/internal/pump"
	"github.com/kesdev/go-ipc/internal/registry"
	"github.com/kesdev/go-ipc/internal/transport"
)

// Client dials a Server's named pipe/FIFO pair and issues calls against
// it. A Client may also expose a Collection of its own, so the server
// side can call back into it over the same connection.
type Client struct {
	*Conn
	cancel context.CancelFunc
	done   chan error
}

type clientConfig struct {
	log              *Logger
	registerer       prometheus.Registerer
	reg              *Collection
	watchdogInterval time.Duration
	watchdogFunc     func()
	dialTimeout      time.Duration
}

// ClientOption configures a Client at Dial time.
type ClientOption func(*clientConfig)

// WithClientLogger attaches a non-default Logger to the client's pump.
func WithClientLogger(l *Logger) ClientOption {
	return func(c *clientConfig) { c.log = l }
}

// WithClientMetricsRegisterer registers the client's Prometheus
// collectors against reg instead of the global DefaultRegisterer.
func WithClientMetricsRegisterer(reg prometheus.Registerer) ClientOption {
	return func(c *clientConfig) { c.registerer = reg }
}

// ServesCollection exposes coll to the server over this connection, so a
// server-side OnConnect hook can call back into the client.
func ServesCollection(coll *Collection) ClientOption {
	return func(c *clientConfig) { c.reg = coll }
}

// WithClientWatchdog arms a periodic callback on this client's outgoing
// synchronous calls, invoked every interval while a reply is still
// outstanding.
func WithClientWatchdog(interval time.Duration, fn func()) ClientOption {
	return func(c *clientConfig) {
		c.watchdogInterval = interval
		c.watchdogFunc = fn
	}
}

// WithDialTimeout bounds how long Dial waits to connect before giving up.
func WithDialTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) { c.dialTimeout = d }
}

// Dial connects to a Server listening at name and starts serving the
// connection in the background until ctx is cancelled or Close is
// called.
func Dial(ctx context.Context, name string, opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{registerer: prometheus.DefaultRegisterer, dialTimeout: DefaultDialTimeout}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.log
	if log == nil {
		log = logging.Default()
	}

	dialCtx, dialCancel := context.WithTimeout(ctx, cfg.dialTimeout)
	defer dialCancel()
	ep, err := transport.Dial(dialCtx, name)
	if err != nil {
		return nil, WrapError("Dial", err)
	}

	var reg *registry.Registry
	if cfg.reg != nil {
		reg = registry.New()
		reg.Add(cfg.reg.inner)
	}

	p := pump.New(ep, reg, log, metrics.New(cfg.registerer))
	p.WatchdogInterval = cfg.watchdogInterval
	p.WatchdogFunc = cfg.watchdogFunc

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- p.Serve(serveCtx) }()

	return &Client{Conn: &Conn{p: p}, cancel: cancel, done: done}, nil
}

// Close stops serving the connection and closes the underlying endpoint.
func (c *Client) Close() error {
	c.cancel()
	if err := <-c.done; err != nil && err != context.Canceled {
		return WrapError("Close", err)
	}
	return nil
}
