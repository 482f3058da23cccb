package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(10, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(10, nil)
	require.NoError(t, err)
	other, err := hub.Register(20, nil)
	require.NoError(t, err)

	assert.True(t, hub.IsOnline(10))
	assert.False(t, hub.IsOnline(30))

	hub.Broadcast(10, `{"type":"ping"}`)

	assert.Len(t, clientA.Send, 1)
	assert.Len(t, clientB.Send, 1)
	assert.Len(t, other.Send, 0)
}

func TestHub_BroadcastToAbsentUserIsNoop(t *testing.T) {
	hub := NewHub()
	// No connections registered; publish must neither block nor fail.
	hub.Broadcast(42, `{"type":"ping"}`)
}

func TestHub_UnregisterRemovesConnection(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(5, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(5))

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(5))

	// Unregistering twice is harmless.
	hub.UnregisterClient(client)
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(1, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(1, nil)
	assert.Error(t, err)

	// Other users are unaffected.
	_, err = hub.Register(2, nil)
	assert.NoError(t, err)
}

func TestClient_TrySendDropsWhenFull(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(1, nil)
	require.NoError(t, err)

	for i := 0; i < cap(client.Send); i++ {
		client.Send <- []byte("fill")
	}

	// Must not block even though the buffer is full.
	client.TrySend([]byte("overflow"))
	assert.Len(t, client.Send, cap(client.Send))
}
