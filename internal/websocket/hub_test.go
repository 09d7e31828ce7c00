package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHub(t *testing.T) {
	hub := NewHub(slog.Default())
	require.NotNil(t, hub)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	client := &Client{hub: hub, send: make(chan []byte, 16), logger: slog.Default()}
	hub.register <- client

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)

	// send channel must be closed after unregister.
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	client := &Client{hub: hub, send: make(chan []byte, 16), logger: slog.Default()}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Broadcast(TypeBatch, map[string]int{"predictions": 42})

	select {
	case payload := <-client.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		assert.Equal(t, TypeBatch, env.Type)
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}
}

func TestHub_StartIdempotent(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	hub.Start()
	hub.Stop()
	hub.Stop()
}
