//go:build !windows

package transport

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// POSIX has no named-pipe primitive with Windows' per-client-instance
// semantics, so a listener is backed by one FIFO pair (<name>-req,
// <name>-rep) that is reopened for each successive Accept. There is no
// multi-instance backlog: one listening name maps to one FIFO pair.
func fifoPaths(name string) (req, rep string) {
	return name + "-req", name + "-rep"
}

type unixListener struct {
	name     string
	req, rep string
	closed   atomic.Bool
}

func newListener(name string) (Listener, error) {
	req, rep := fifoPaths(name)
	for _, p := range []string{req, rep} {
		_ = unix.Unlink(p)
		if err := unix.Mkfifo(p, 0o600); err != nil {
			return nil, fmt.Errorf("transport: mkfifo %q: %w", p, err)
		}
	}
	return &unixListener{name: name, req: req, rep: rep}, nil
}

func (ul *unixListener) Accept(ctx context.Context) (Endpoint, error) {
	if ul.closed.Load() {
		return nil, fmt.Errorf("transport: listener %q closed", ul.name)
	}

	type opened struct {
		ep  *unixEndpoint
		err error
	}
	resultCh := make(chan opened, 1)
	go func() {
		readFile, err := os.OpenFile(ul.req, os.O_RDONLY, 0)
		if err != nil {
			resultCh <- opened{err: fmt.Errorf("transport: open %q: %w", ul.req, err)}
			return
		}
		writeFile, err := os.OpenFile(ul.rep, os.O_WRONLY, 0)
		if err != nil {
			readFile.Close()
			resultCh <- opened{err: fmt.Errorf("transport: open %q: %w", ul.rep, err)}
			return
		}
		resultCh <- opened{ep: &unixEndpoint{r: readFile, w: writeFile}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-resultCh:
		return r.ep, r.err
	}
}

func (ul *unixListener) Close() error {
	ul.closed.Store(true)
	_ = unix.Unlink(ul.req)
	_ = unix.Unlink(ul.rep)
	return nil
}

func (ul *unixListener) Name() string { return ul.name }

func newDialer(ctx context.Context, name string) (Endpoint, error) {
	req, rep := fifoPaths(name)

	type opened struct {
		ep  *unixEndpoint
		err error
	}
	resultCh := make(chan opened, 1)
	go func() {
		writeFile, err := os.OpenFile(req, os.O_WRONLY, 0)
		if err != nil {
			resultCh <- opened{err: fmt.Errorf("transport: dial %q: %w", req, err)}
			return
		}
		readFile, err := os.OpenFile(rep, os.O_RDONLY, 0)
		if err != nil {
			writeFile.Close()
			resultCh <- opened{err: fmt.Errorf("transport: dial %q: %w", rep, err)}
			return
		}
		resultCh <- opened{ep: &unixEndpoint{r: readFile, w: writeFile}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-resultCh:
		return r.ep, r.err
	}
}

type unixEndpoint struct {
	r, w   *os.File
	closed atomic.Bool
}

func (e *unixEndpoint) Read(p []byte) (int, error)  { return e.r.Read(p) }
func (e *unixEndpoint) Write(p []byte) (int, error) { return e.w.Write(p) }

func (e *unixEndpoint) Close() error {
	e.closed.Store(true)
	rerr := e.r.Close()
	werr := e.w.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

func (e *unixEndpoint) IsConnected() bool { return !e.closed.Load() }
