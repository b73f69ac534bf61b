package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastAndUnsubscribe(t *testing.T) {
	h := NewHub()
	id1, ch1 := h.Subscribe()
	_, ch2 := h.Subscribe()
	require.Equal(t, 2, h.Count())

	h.Broadcast([]byte("a"))
	assert.Equal(t, []byte("a"), <-ch1)
	assert.Equal(t, []byte("a"), <-ch2)

	h.Unsubscribe(id1)
	_, ok := <-ch1
	assert.False(t, ok, "channel closed on unsubscribe")
	assert.Equal(t, 1, h.Count())

	h.Unsubscribe(id1)
	h.Unsubscribe(999)
	assert.Equal(t, 1, h.Count())
}

func TestHub_BroadcastDoesNotBlock(t *testing.T) {
	h := NewHub()
	_, ch := h.Subscribe()

	for range subscriberBuffer + 10 {
		h.Broadcast([]byte("x"))
	}

	assert.Len(t, ch, subscriberBuffer)
	assert.Equal(t, uint64(10), h.Dropped())
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	_, ch := h.Subscribe()

	h.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, h.Count())
}
