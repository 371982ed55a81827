package ipc

import "github.com/kesdev/go-ipc/internal/constants"

// Re-exported defaults for the public API.
const (
	DefaultSyncCallTimeout    = constants.DefaultSyncCallTimeout
	DefaultWatchdogInterval   = constants.DefaultWatchdogInterval
	DefaultAcceptPollInterval = constants.DefaultAcceptPollInterval
	DefaultDialTimeout        = constants.DefaultDialTimeout

	MaxElementCount = constants.MaxElementCount
	MaxByteLength   = constants.MaxByteLength
)
