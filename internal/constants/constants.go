// Package constants holds default tunables shared across the runtime:
// timeouts, polling intervals, and the wire-format safety bounds.
package constants

import "time"

const (
	// DefaultSyncCallTimeout bounds how long CallSynchronous waits for a
	// reply before reporting StatusTimedOut when the caller supplies no
	// deadline of its own.
	DefaultSyncCallTimeout = 5 * time.Second

	// DefaultWatchdogInterval is an interval callers may pass to
	// WithWatchdog or WithClientWatchdog. Nothing applies it
	// automatically: CallSynchronous runs no watchdog unless both an
	// interval and a callback have been set.
	DefaultWatchdogInterval = 1 * time.Second

	// DefaultAcceptPollInterval is exported for callers; no listener or
	// acceptor in this module reads it. Accept does not poll: it waits
	// on ctx cancellation and on the pending open directly.
	DefaultAcceptPollInterval = 20 * time.Millisecond

	// DefaultDialTimeout bounds how long Dial waits for a listener to
	// accept a pending connection attempt.
	DefaultDialTimeout = 5 * time.Second
)

// MaxElementCount and MaxByteLength mirror internal/wire's decode safety
// bounds so callers outside that package can reference the same limits
// without importing it directly.
const (
	MaxElementCount = 1 << 20
	MaxByteLength   = 64 << 20
)
