package correlation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesdev/go-ipc/internal/wire"
)

func TestInsertTakeDeliversReply(t *testing.T) {
	table := New()
	var got wire.FunctionReply
	table.Insert(1, func(r wire.FunctionReply) { got = r })

	h, ok := table.Take(1)
	require.True(t, ok)
	h(wire.FunctionReply{UID: 1, Values: []wire.Value{wire.Int32Value(9)}})

	assert.Equal(t, uint64(1), got.UID)
	assert.Equal(t, int32(9), got.Values[0].Int32())
}

func TestTakeIsOneShot(t *testing.T) {
	table := New()
	table.Insert(5, func(wire.FunctionReply) {})

	_, ok := table.Take(5)
	require.True(t, ok)
	_, ok = table.Take(5)
	assert.False(t, ok)
}

func TestRemoveDiscardsWithoutInvoking(t *testing.T) {
	table := New()
	called := false
	table.Insert(2, func(wire.FunctionReply) { called = true })
	table.Remove(2)

	_, ok := table.Take(2)
	assert.False(t, ok)
	assert.False(t, called)
}

func TestDrainDeliversSyntheticReplyToEveryPending(t *testing.T) {
	table := New()
	var mu sync.Mutex
	received := make(map[uint64]string)
	for uid := uint64(1); uid <= 3; uid++ {
		uid := uid
		table.Insert(uid, func(r wire.FunctionReply) {
			mu.Lock()
			received[uid] = r.Values[0].String()
			mu.Unlock()
		})
	}

	table.Drain("Lost IPC Connection")

	assert.Equal(t, 0, table.Len())
	require.Len(t, received, 3)
	for _, msg := range received {
		assert.Equal(t, "Lost IPC Connection", msg)
	}
}

func TestLenTracksPendingCount(t *testing.T) {
	table := New()
	assert.Equal(t, 0, table.Len())
	table.Insert(1, func(wire.FunctionReply) {})
	table.Insert(2, func(wire.FunctionReply) {})
	assert.Equal(t, 2, table.Len())
	table.Remove(1)
	assert.Equal(t, 1, table.Len())
}
