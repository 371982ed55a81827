// Package ipc implements a bidirectional request/reply RPC runtime over
// named pipes (Windows) and FIFO pairs (POSIX), modeled on OBS Studio's
// process-local IPC library. A Server exposes one or more Collections of
// named, overload-aware functions; a Client dials the server's listening
// name and issues Call/CallAsync/CallSynchronous against it. Either side
// may expose a Collection of its own, so a server's OnConnect hook can
// call back into a connected client over the same connection.
package ipc
