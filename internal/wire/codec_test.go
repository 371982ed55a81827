package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, v Value) {
	t.Helper()
	buf := make([]byte, v.Size())
	end := v.Serialize(buf, 0)
	assert.Equal(t, len(buf), end)

	got, off, err := DeserializeValue(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf), off)
	assert.True(t, v.Equal(got), "expected %v, got %v", v, got)
}

func TestValueRoundTrip(t *testing.T) {
	roundTrip(t, Null())
	roundTrip(t, NullWithText("Lost IPC Connection"))
	roundTrip(t, Float32Value(3.5))
	roundTrip(t, Float64Value(-2.25))
	roundTrip(t, Int32Value(-7))
	roundTrip(t, Int64Value(1<<40))
	roundTrip(t, UInt32Value(42))
	roundTrip(t, UInt64Value(1 << 63))
	roundTrip(t, StringValue("hello world"))
	roundTrip(t, StringValue(""))
	roundTrip(t, BinaryValue([]byte{0, 1, 2, 255, 254}))
	roundTrip(t, BinaryValue(nil))
}

func TestDeserializeValueTruncated(t *testing.T) {
	buf := []byte{byte(KindInt64), 1, 2, 3}
	_, _, err := DeserializeValue(buf, 0)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDeserializeValueUnknownKind(t *testing.T) {
	buf := []byte{0xFE}
	_, _, err := DeserializeValue(buf, 0)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDeserializeValueLengthOverrunsBuffer(t *testing.T) {
	buf := make([]byte, 5)
	buf[0] = byte(KindString)
	buf[1], buf[2], buf[3], buf[4] = 0xFF, 0xFF, 0xFF, 0x00 // declares 16MB, buffer has 0 left
	_, _, err := DeserializeValue(buf, 0)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDeserializeValueTooLarge(t *testing.T) {
	buf := make([]byte, 5)
	buf[0] = byte(KindBinary)
	buf[1], buf[2], buf[3], buf[4] = 0xFF, 0xFF, 0xFF, 0xFF // ~4GiB, exceeds MaxByteLength
	_, _, err := DeserializeValue(buf, 0)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestValuesArrayRoundTrip(t *testing.T) {
	values := []Value{Int32Value(1), StringValue("two"), Float64Value(3.0)}
	buf := make([]byte, sizeValues(values))
	end := serializeValues(values, buf, 0)
	assert.Equal(t, len(buf), end)

	got, off, err := deserializeValues(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf), off)
	require.Len(t, got, len(values))
	for i := range values {
		assert.True(t, values[i].Equal(got[i]))
	}
}

func TestValuesArrayEmpty(t *testing.T) {
	buf := make([]byte, sizeValues(nil))
	serializeValues(nil, buf, 0)
	got, _, err := deserializeValues(buf, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUniqueIDMangling(t *testing.T) {
	id := UniqueID("add", []Kind{KindInt32, KindInt32})
	assert.Equal(t, "add_I4I4", id)

	overload := UniqueID("add", []Kind{KindFloat64, KindFloat64})
	assert.NotEqual(t, id, overload)

	noArgs := UniqueID("ping", nil)
	assert.Equal(t, "ping_", noArgs)
}
