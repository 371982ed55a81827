package wire

import (
	"encoding/binary"
	"fmt"
)

// Size returns the exact number of bytes Serialize will write for this
// value.
func (v Value) Size() int {
	switch v.Kind {
	case KindNull:
		return 1 + 4 + len(v.buf) // kind + length + optional text
	case KindFloat32, KindInt32, KindUInt32:
		return 1 + 4
	case KindFloat64, KindInt64, KindUInt64:
		return 1 + 8
	case KindString, KindBinary:
		return 1 + 4 + len(v.buf)
	default:
		return 1
	}
}

// Serialize writes the value into buf starting at off and returns the new
// offset. buf must already be sized via Size.
func (v Value) Serialize(buf []byte, off int) int {
	buf[off] = byte(v.Kind)
	off++
	switch v.Kind {
	case KindNull:
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(v.buf)))
		off += 4
		off += copy(buf[off:], v.buf)
	case KindFloat32:
		binary.LittleEndian.PutUint32(buf[off:off+4], f32bits(v.f32))
		off += 4
	case KindFloat64:
		binary.LittleEndian.PutUint64(buf[off:off+8], f64bits(v.f64))
		off += 8
	case KindInt32:
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(v.i32))
		off += 4
	case KindInt64:
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(v.i64))
		off += 8
	case KindUInt32:
		binary.LittleEndian.PutUint32(buf[off:off+4], v.u32)
		off += 4
	case KindUInt64:
		binary.LittleEndian.PutUint64(buf[off:off+8], v.u64)
		off += 8
	case KindString, KindBinary:
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(v.buf)))
		off += 4
		off += copy(buf[off:], v.buf)
	}
	return off
}

// DeserializeValue is the inverse of Serialize. It fails with ErrDecode
// when the discriminant is out of range or a declared length overruns
// buf, and with ErrTooLarge when a length exceeds the safety bound.
func DeserializeValue(buf []byte, off int) (Value, int, error) {
	if off >= len(buf) {
		return Value{}, off, fmt.Errorf("%w: truncated value header", ErrDecode)
	}
	kind := Kind(buf[off])
	off++

	switch kind {
	case KindNull:
		return deserializeLenPrefixed(buf, off, kind)
	case KindFloat32:
		if off+4 > len(buf) {
			return Value{}, off, fmt.Errorf("%w: truncated Float32", ErrDecode)
		}
		return Float32Value(f32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))), off + 4, nil
	case KindFloat64:
		if off+8 > len(buf) {
			return Value{}, off, fmt.Errorf("%w: truncated Float64", ErrDecode)
		}
		return Float64Value(f64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))), off + 8, nil
	case KindInt32:
		if off+4 > len(buf) {
			return Value{}, off, fmt.Errorf("%w: truncated Int32", ErrDecode)
		}
		return Int32Value(int32(binary.LittleEndian.Uint32(buf[off : off+4]))), off + 4, nil
	case KindInt64:
		if off+8 > len(buf) {
			return Value{}, off, fmt.Errorf("%w: truncated Int64", ErrDecode)
		}
		return Int64Value(int64(binary.LittleEndian.Uint64(buf[off : off+8]))), off + 8, nil
	case KindUInt32:
		if off+4 > len(buf) {
			return Value{}, off, fmt.Errorf("%w: truncated UInt32", ErrDecode)
		}
		return UInt32Value(binary.LittleEndian.Uint32(buf[off : off+4])), off + 4, nil
	case KindUInt64:
		if off+8 > len(buf) {
			return Value{}, off, fmt.Errorf("%w: truncated UInt64", ErrDecode)
		}
		return UInt64Value(binary.LittleEndian.Uint64(buf[off : off+8])), off + 8, nil
	case KindString, KindBinary:
		return deserializeLenPrefixed(buf, off, kind)
	default:
		return Value{}, off, fmt.Errorf("%w: unknown kind discriminant %d", ErrDecode, kind)
	}
}

func deserializeLenPrefixed(buf []byte, off int, kind Kind) (Value, int, error) {
	if off+4 > len(buf) {
		return Value{}, off, fmt.Errorf("%w: truncated length prefix", ErrDecode)
	}
	n := binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4
	if n > MaxByteLength {
		return Value{}, off, fmt.Errorf("%w: length %d", ErrTooLarge, n)
	}
	if off+int(n) > len(buf) {
		return Value{}, off, fmt.Errorf("%w: declared length %d overruns buffer", ErrDecode, n)
	}
	payload := buf[off : off+int(n)]
	off += int(n)
	switch kind {
	case KindNull:
		return NullWithText(string(payload)), off, nil
	case KindBinary:
		return BinaryValue(payload), off, nil
	default:
		return StringValue(string(payload)), off, nil
	}
}

// sizeValues / serializeValues / deserializeValues implement the
// u64-count-prefixed array encoding used for FunctionCall.Arguments and
// FunctionReply.Values.

func sizeValues(values []Value) int {
	n := 8
	for _, v := range values {
		n += v.Size()
	}
	return n
}

func serializeValues(values []Value, buf []byte, off int) int {
	binary.LittleEndian.PutUint64(buf[off:off+8], uint64(len(values)))
	off += 8
	for _, v := range values {
		off = v.Serialize(buf, off)
	}
	return off
}

func deserializeValues(buf []byte, off int) ([]Value, int, error) {
	if off+8 > len(buf) {
		return nil, off, fmt.Errorf("%w: truncated array count", ErrDecode)
	}
	count := binary.LittleEndian.Uint64(buf[off : off+8])
	off += 8
	if count > MaxElementCount {
		return nil, off, fmt.Errorf("%w: array count %d", ErrTooLarge, count)
	}
	values := make([]Value, 0, count)
	for i := uint64(0); i < count; i++ {
		v, next, err := DeserializeValue(buf, off)
		if err != nil {
			return nil, off, err
		}
		off = next
		values = append(values, v)
	}
	return values, off, nil
}

// sizeString / serializeString / deserializeString encode a bare string
// field the same way a String value's payload is encoded, without the
// leading kind byte: envelope fields are typed by position, not tagged,
// so they reuse the String wire layout minus the discriminant.

func sizeString(s string) int { return 4 + len(s) }

func serializeString(s string, buf []byte, off int) int {
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(s)))
	off += 4
	off += copy(buf[off:], s)
	return off
}

func deserializeString(buf []byte, off int) (string, int, error) {
	if off+4 > len(buf) {
		return "", off, fmt.Errorf("%w: truncated string length", ErrDecode)
	}
	n := binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4
	if n > MaxByteLength {
		return "", off, fmt.Errorf("%w: length %d", ErrTooLarge, n)
	}
	if off+int(n) > len(buf) {
		return "", off, fmt.Errorf("%w: declared length %d overruns buffer", ErrDecode, n)
	}
	s := string(buf[off : off+int(n)])
	off += int(n)
	return s, off, nil
}
