package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsEvents(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := &Client{Hub: h, Send: make(chan []byte, 1)}
	h.Register <- client

	h.Notify(EventArtworkCreated, "a1")

	select {
	case data := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, EventArtworkCreated, event.Type)
		assert.Equal(t, "a1", event.ID)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	h.Unregister <- client
	select {
	case _, ok := <-client.Send:
		assert.False(t, ok, "channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestNotifyNilHub(t *testing.T) {
	var h *Hub
	h.Notify(EventStoreReset, "")
}
