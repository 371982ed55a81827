package ipc

import "github.com/kesdev/go-ipc/internal/wire"

// Value is a tagged argument or return value exchanged over a call.
// The zero Value is Null.
type Value = wire.Value

// Kind discriminates a Value's payload type.
type Kind = wire.Kind

const (
	KindNull    = wire.KindNull
	KindFloat32 = wire.KindFloat32
	KindFloat64 = wire.KindFloat64
	KindInt32   = wire.KindInt32
	KindInt64   = wire.KindInt64
	KindUInt32  = wire.KindUInt32
	KindUInt64  = wire.KindUInt64
	KindString  = wire.KindString
	KindBinary  = wire.KindBinary
)

func Null() Value                   { return wire.Null() }
func Float32Value(v float32) Value  { return wire.Float32Value(v) }
func Float64Value(v float64) Value  { return wire.Float64Value(v) }
func Int32Value(v int32) Value      { return wire.Int32Value(v) }
func Int64Value(v int64) Value      { return wire.Int64Value(v) }
func UInt32Value(v uint32) Value    { return wire.UInt32Value(v) }
func UInt64Value(v uint64) Value    { return wire.UInt64Value(v) }
func StringValue(s string) Value    { return wire.StringValue(s) }
func BinaryValue(b []byte) Value    { return wire.BinaryValue(b) }
