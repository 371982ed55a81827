//go:build windows

package transport

import (
	"context"
	"fmt"
	"sync/atomic"

	winio "github.com/Microsoft/go-winio"
)

func pipePath(name string) string {
	return `\\.\pipe\` + name
}

type windowsListener struct {
	name string
	l    *winio.PipeListener
}

func newListener(name string) (Listener, error) {
	l, err := winio.ListenPipe(pipePath(name), &winio.PipeConfig{
		MessageMode:      false,
		InputBufferSize:  64 * 1024,
		OutputBufferSize: 64 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: listen %q: %w", name, err)
	}
	return &windowsListener{name: name, l: l}, nil
}

func (wl *windowsListener) Accept(ctx context.Context) (Endpoint, error) {
	type acceptResult struct {
		conn *windowsEndpoint
		err  error
	}
	resultCh := make(chan acceptResult, 1)
	go func() {
		c, err := wl.l.Accept()
		if err != nil {
			resultCh <- acceptResult{err: fmt.Errorf("transport: accept %q: %w", wl.name, err)}
			return
		}
		resultCh <- acceptResult{conn: &windowsEndpoint{conn: c}}
	}()

	select {
	case <-ctx.Done():
		wl.l.Close()
		return nil, ctx.Err()
	case r := <-resultCh:
		return r.conn, r.err
	}
}

func (wl *windowsListener) Close() error { return wl.l.Close() }
func (wl *windowsListener) Name() string { return wl.name }

func newDialer(ctx context.Context, name string) (Endpoint, error) {
	c, err := winio.DialPipeContext(ctx, pipePath(name))
	if err != nil {
		return nil, fmt.Errorf("transport: dial %q: %w", name, err)
	}
	return &windowsEndpoint{conn: c}, nil
}

type windowsEndpoint struct {
	conn   winioConn
	closed atomic.Bool
}

// winioConn captures the subset of net.Conn both winio.PipeListener.Accept
// and winio.DialPipeContext return, so windowsEndpoint need not depend on
// the concrete type.
type winioConn interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

func (e *windowsEndpoint) Read(p []byte) (int, error) { return e.conn.Read(p) }
func (e *windowsEndpoint) Write(p []byte) (int, error) { return e.conn.Write(p) }
func (e *windowsEndpoint) Close() error {
	e.closed.Store(true)
	return e.conn.Close()
}
func (e *windowsEndpoint) IsConnected() bool { return !e.closed.Load() }
