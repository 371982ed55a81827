package ipc

import "io"

// MockEndpoint is an in-memory transport.Endpoint backed by an io.Pipe,
// a stand-in for a real named pipe or FIFO in tests. Client and Server
// do not accept an Endpoint: Dial and NewServer always open a real pipe
// or FIFO. It implements the same minimal surface
// internal/transport.Endpoint requires: Read, Write, Close, IsConnected.
type MockEndpoint struct {
	r *io.PipeReader
	w *io.PipeWriter
}

// NewMockEndpointPair returns two MockEndpoints wired to each other: a
// write on one is a read on the other, in both directions.
func NewMockEndpointPair() (a, b *MockEndpoint) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	return &MockEndpoint{r: r1, w: w2}, &MockEndpoint{r: r2, w: w1}
}

func (m *MockEndpoint) Read(p []byte) (int, error)  { return m.r.Read(p) }
func (m *MockEndpoint) Write(p []byte) (int, error) { return m.w.Write(p) }

func (m *MockEndpoint) Close() error {
	m.r.Close()
	return m.w.Close()
}

// IsConnected always reports true; MockEndpoint has no separate
// connected/disconnected state, only open and closed.
func (m *MockEndpoint) IsConnected() bool { return true }
