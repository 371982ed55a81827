// Package transport provides the platform-specific duplex byte-stream
// endpoint (Windows named pipe, POSIX FIFO pair) that frames are read
// from and written to. It mirrors the small-interface-plus-swappable-
// platform-backend shape used for storage backends, so the pump and
// acceptor packages above it never import a platform build tag directly.
package transport

import (
	"context"
	"io"
)

// Endpoint is one connected duplex channel between a client and server.
type Endpoint interface {
	io.ReadWriteCloser

	// IsConnected reports whether the endpoint still believes its peer
	// is reachable. It does not perform I/O; a subsequent Read/Write may
	// still fail even when IsConnected returns true.
	IsConnected() bool
}

// Listener accepts successive connections on one named endpoint.
type Listener interface {
	// Accept blocks until a client connects or ctx is cancelled.
	Accept(ctx context.Context) (Endpoint, error)
	Close() error
	Name() string
}

// Listen creates a listener bound to name. On Windows this is a named
// pipe at \\.\pipe\<name>; on POSIX platforms it is a pair of FIFOs
// derived from name.
func Listen(name string) (Listener, error) {
	return newListener(name)
}

// Dial connects to a listener created with Listen(name) from another
// process (or the same one).
func Dial(ctx context.Context, name string) (Endpoint, error) {
	return newDialer(ctx, name)
}
