//go:build !windows

package transport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testName(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "go-ipc-test")
}

func TestFIFOAcceptDialRoundTrip(t *testing.T) {
	name := testName(t)
	l, err := Listen(name)
	require.NoError(t, err)
	defer l.Close()

	serverCh := make(chan Endpoint, 1)
	errCh := make(chan error, 1)
	go func() {
		ep, err := l.Accept(context.Background())
		if err != nil {
			errCh <- err
			return
		}
		serverCh <- ep
	}()

	clientCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := Dial(clientCtx, name)
	require.NoError(t, err)
	defer client.Close()

	var server Endpoint
	select {
	case server = <-serverCh:
	case err := <-errCh:
		t.Fatalf("accept failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
	defer server.Close()

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	_, err = server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	_, err = server.Write([]byte("pong"))
	require.NoError(t, err)
	_, err = client.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf))
}

func TestListenCreatesFIFOFiles(t *testing.T) {
	name := testName(t)
	l, err := Listen(name)
	require.NoError(t, err)
	defer l.Close()

	req, rep := fifoPaths(name)
	for _, p := range []string{req, rep} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeNamedPipe)
	}
}

func TestAcceptRespectsContextCancellation(t *testing.T) {
	name := testName(t)
	l, err := Listen(name)
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Accept(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
