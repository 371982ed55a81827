//go:build !windows

package ipc

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServerName(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "go-ipc-server-test")
}

func buildCalculator() *Collection {
	calc := NewCollection("Calculator")
	calc.Register("add", []Kind{KindInt32, KindInt32}, func(args []Value) ([]Value, error) {
		return []Value{Int32Value(args[0].Int32() + args[1].Int32())}, nil
	})
	calc.Register("ping", nil, func(args []Value) ([]Value, error) {
		return []Value{StringValue("pong")}, nil
	})
	return calc
}

func TestServerClientCallRoundTrip(t *testing.T) {
	name := testServerName(t)
	server, err := NewServer(name, buildCalculator())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve(ctx) }()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	client, err := Dial(dialCtx, name)
	require.NoError(t, err)
	defer client.Close()

	values, err := client.Call(context.Background(), "Calculator", "add", []Value{Int32Value(10), Int32Value(32)})
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, int32(42), values[0].Int32())

	cancel()
	select {
	case <-serveDone:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerRequireAuthRejectsUnauthenticatedClient(t *testing.T) {
	name := testServerName(t)
	server, err := NewServer(name, buildCalculator(), RequireAuth(func(user, pass string) bool {
		return user == "obs" && pass == "secret"
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Serve(ctx)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	client, err := Dial(dialCtx, name)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Call(context.Background(), "Calculator", "ping", nil)
	assert.Error(t, err)

	ok, err := client.Authenticate(context.Background(), "obs", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	values, err := client.Call(context.Background(), "Calculator", "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", values[0].String())
}

func TestServerOnConnectCallsBackIntoClient(t *testing.T) {
	name := testServerName(t)
	clientColl := NewCollection("Greeter")
	clientColl.Register("hello", nil, func(args []Value) ([]Value, error) {
		return []Value{StringValue("hi from client")}, nil
	})

	var mu sync.Mutex
	var greeting string
	greeted := make(chan struct{})

	server, err := NewServer(name, buildCalculator(), OnConnect(func(c *Conn) {
		go func() {
			values, err := c.Call(context.Background(), "Greeter", "hello", nil)
			if err == nil && len(values) == 1 {
				mu.Lock()
				greeting = values[0].String()
				mu.Unlock()
			}
			close(greeted)
		}()
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Serve(ctx)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	client, err := Dial(dialCtx, name, ServesCollection(clientColl))
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-greeted:
	case <-time.After(5 * time.Second):
		t.Fatal("server never called back into client")
	}

	mu.Lock()
	assert.Equal(t, "hi from client", greeting)
	mu.Unlock()
}

func TestServerRegisterAddsCollectionAtRuntime(t *testing.T) {
	name := testServerName(t)
	server, err := NewServer(name, buildCalculator())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Serve(ctx)

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	client, err := Dial(dialCtx, name)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Call(context.Background(), "Greeter", "hello", nil)
	assert.Error(t, err)

	greeter := NewCollection("Greeter")
	greeter.Register("hello", nil, func(args []Value) ([]Value, error) {
		return []Value{StringValue("hi")}, nil
	})
	server.Register(greeter)

	values, err := client.Call(context.Background(), "Greeter", "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", values[0].String())
}
