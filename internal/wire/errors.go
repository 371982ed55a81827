package wire

import "errors"

// ErrDecode is returned (wrapped) whenever Deserialize* encounters a
// malformed or out-of-bounds encoding.
var ErrDecode = errors.New("decode error")

// ErrTooLarge is returned when a declared length or element count exceeds
// the safety bounds below.
var ErrTooLarge = errors.New("decode error: value exceeds safety bound")

const (
	// MaxElementCount bounds the number of elements in an argument/value array.
	MaxElementCount = 1 << 20
	// MaxByteLength bounds the length of a single String/Binary payload.
	MaxByteLength = 64 << 20
)
