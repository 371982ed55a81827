package ipc

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/kesdev/go-ipc/internal/wire"
)

// Error represents a structured go-ipc error with context and errno
// mapping.
type Error struct {
	Op    string        // Operation that failed (e.g., "Dial", "Call", "Accept")
	Name  string        // Listener/connection name (empty if not applicable)
	Code  Code          // High-level error category
	Errno syscall.Errno // Underlying OS errno (0 if not applicable)
	Msg   string        // Human-readable message
	Inner error         // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Name != "" {
		parts = append(parts, fmt.Sprintf("name=%s", e.Name))
	}
	if e.Errno != 0 {
		parts = append(parts, fmt.Sprintf("errno=%d", e.Errno))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if len(parts) > 0 {
		return fmt.Sprintf("ipc: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("ipc: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Inner }

// Is provides errors.Is support keyed on error Code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// Code is the error taxonomy every transport, codec, and dispatch path
// maps its outcome onto.
type Code string

const (
	CodeSuccess           Code = "Success"
	CodePending           Code = "Pending"
	CodeInvalidBuffer     Code = "InvalidBuffer"
	CodeBufferTooSmall    Code = "BufferTooSmall"
	CodeBufferTooLarge    Code = "BufferTooLarge"
	CodeMoreData          Code = "MoreData"
	CodeTimedOut          Code = "TimedOut"
	CodeDisconnected      Code = "Disconnected"
	CodeTooMuchData       Code = "TooMuchData"
	CodeConnected         Code = "Connected"
	CodeBufferOverflow    Code = "BufferOverflow"
	CodeAbandoned         Code = "Abandoned"
	CodeDecodeError       Code = "DecodeError"
	CodeProtocolError     Code = "ProtocolError"
	CodeUnknownFunction   Code = "UnknownFunction"
	CodeUnknownCollection Code = "UnknownCollection"
	CodeError             Code = "Error"
)

// NewError creates a new structured error.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewErrorWithErrno creates a new structured error carrying an OS errno.
func NewErrorWithErrno(op string, code Code, errno syscall.Errno) *Error {
	return &Error{Op: op, Code: code, Errno: errno, Msg: errno.Error()}
}

// NewConnectionError creates a new error scoped to a named connection.
func NewConnectionError(op, name string, code Code, msg string) *Error {
	return &Error{Op: op, Name: name, Code: code, Msg: msg}
}

// WrapError wraps an existing error with go-ipc context.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if ie, ok := inner.(*Error); ok {
		return &Error{Op: op, Name: ie.Name, Code: ie.Code, Errno: ie.Errno, Msg: ie.Msg, Inner: ie.Inner}
	}

	if errno, ok := inner.(syscall.Errno); ok {
		return &Error{Op: op, Code: mapErrnoToCode(errno), Errno: errno, Msg: errno.Error(), Inner: inner}
	}

	return &Error{Op: op, Code: classifyError(inner), Msg: inner.Error(), Inner: inner}
}

// classifyError maps a codec or dispatch error raised deeper in the stack
// onto the taxonomy, falling back to the generic Error code.
func classifyError(err error) Code {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe), errors.Is(err, syscall.EPIPE):
		return CodeDisconnected
	case errors.Is(err, wire.ErrTooLarge):
		return CodeBufferTooLarge
	case errors.Is(err, wire.ErrDecode):
		return CodeDecodeError
	case strings.HasPrefix(err.Error(), "Function '") && strings.Contains(err.Error(), "' not found in class '"):
		return CodeUnknownFunction
	case strings.HasPrefix(err.Error(), "Class '") && strings.HasSuffix(err.Error(), "' is not registered."):
		return CodeUnknownCollection
	default:
		return CodeError
	}
}

// mapErrnoToCode applies the OS-errno-to-taxonomy mapping.
func mapErrnoToCode(errno syscall.Errno) Code {
	switch errno {
	case syscall.ENOENT, syscall.EPIPE, syscall.ECONNRESET:
		return CodeDisconnected
	case syscall.EINVAL, syscall.E2BIG:
		return CodeInvalidBuffer
	case syscall.EACCES, syscall.EPERM:
		return CodeError
	case syscall.ETIMEDOUT:
		return CodeTimedOut
	default:
		return CodeError
	}
}

// IsCode checks if an error matches a specific error code.
func IsCode(err error, code Code) bool {
	var ipcErr *Error
	if errors.As(err, &ipcErr) {
		return ipcErr.Code == code
	}
	return false
}

// IsErrno checks if an error matches a specific errno.
func IsErrno(err error, errno syscall.Errno) bool {
	var ipcErr *Error
	if errors.As(err, &ipcErr) {
		return ipcErr.Errno == errno
	}
	return false
}
