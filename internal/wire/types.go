// Package wire implements the on-wire value codec and message envelopes
// used by the IPC engine.
package wire

// Kind is the discriminant of a Value's payload, in the enumeration order
// used on the wire.
type Kind byte

const (
	KindNull Kind = iota
	KindFloat32
	KindFloat64
	KindInt32
	KindInt64
	KindUInt32
	KindUInt64
	KindString
	KindBinary
)

// code returns the mangled-name code for this kind.
func (k Kind) code() string {
	switch k {
	case KindNull:
		return "N0"
	case KindFloat32:
		return "F4"
	case KindFloat64:
		return "F8"
	case KindInt32:
		return "I4"
	case KindInt64:
		return "I8"
	case KindUInt32:
		return "U4"
	case KindUInt64:
		return "U8"
	case KindString:
		return "PS"
	case KindBinary:
		return "PB"
	default:
		return "??"
	}
}

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindUInt32:
		return "UInt32"
	case KindUInt64:
		return "UInt64"
	case KindString:
		return "String"
	case KindBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Value is a tagged union over the fixed set of kinds. Exactly one
// payload field is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	f32 float32
	f64 float64
	i32 int32
	i64 int64
	u32 uint32
	u64 uint64
	buf []byte // String (UTF-8 unvalidated) or Binary (opaque)
}

// Null returns the zero value of kind Null.
func Null() Value { return Value{Kind: KindNull} }

// NullWithText returns a Null-kind value that carries a string payload.
// Used for synthetic replies (disconnect, cancel) where
// callers expect to find diagnostic text in a Null value's string form.
func NullWithText(msg string) Value {
	return Value{Kind: KindNull, buf: []byte(msg)}
}

func Float32Value(v float32) Value { return Value{Kind: KindFloat32, f32: v} }
func Float64Value(v float64) Value { return Value{Kind: KindFloat64, f64: v} }
func Int32Value(v int32) Value     { return Value{Kind: KindInt32, i32: v} }
func Int64Value(v int64) Value     { return Value{Kind: KindInt64, i64: v} }
func UInt32Value(v uint32) Value   { return Value{Kind: KindUInt32, u32: v} }
func UInt64Value(v uint64) Value   { return Value{Kind: KindUInt64, u64: v} }

func StringValue(s string) Value {
	return Value{Kind: KindString, buf: []byte(s)}
}

func BinaryValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{Kind: KindBinary, buf: cp}
}

func (v Value) Float32() float32 { return v.f32 }
func (v Value) Float64() float64 { return v.f64 }
func (v Value) Int32() int32     { return v.i32 }
func (v Value) Int64() int64     { return v.i64 }
func (v Value) UInt32() uint32   { return v.u32 }
func (v Value) UInt64() uint64   { return v.u64 }

// String returns the String/Binary/Null byte payload decoded as text.
// For a Null value this is the synthetic error/diagnostic text, if any.
func (v Value) String() string { return string(v.buf) }

// Bytes returns the raw Binary/String byte payload.
func (v Value) Bytes() []byte { return v.buf }

// Equal reports whether two values carry the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindFloat32:
		return v.f32 == o.f32
	case KindFloat64:
		return v.f64 == o.f64
	case KindInt32:
		return v.i32 == o.i32
	case KindInt64:
		return v.i64 == o.i64
	case KindUInt32:
		return v.u32 == o.u32
	case KindUInt64:
		return v.u64 == o.u64
	case KindString, KindBinary, KindNull:
		return string(v.buf) == string(o.buf)
	default:
		return false
	}
}

// FunctionCall is the envelope a caller sends to invoke a remote
// procedure.
type FunctionCall struct {
	UID          uint64
	ClassName    string
	FunctionName string
	Arguments    []Value
}

// FunctionReply is the envelope returned in response to a FunctionCall.
// An empty Error string means success.
type FunctionReply struct {
	UID    uint64
	Values []Value
	Error  string
}

// Authenticate is the optional, non-cryptographic handshake envelope a
// client may send before issuing calls.
type Authenticate struct {
	Name     string
	Password string
}

// AuthenticateReply answers an Authenticate envelope.
type AuthenticateReply struct {
	Auth bool
}

// KindsOf returns the parameter-kind vector for a list of values, used to
// compute a mangled unique id.
func KindsOf(values []Value) []Kind {
	kinds := make([]Kind, len(values))
	for i, v := range values {
		kinds[i] = v.Kind
	}
	return kinds
}

// UniqueID computes the mangled signature "name_codes" for a function
// name and its parameter kinds, giving overloads on parameter kind a
// distinct registry key.
func UniqueID(name string, kinds []Kind) string {
	id := name + "_"
	for _, k := range kinds {
		id += k.code()
	}
	return id
}
