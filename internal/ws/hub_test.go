package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyFansOutToAllUserConnections(t *testing.T) {
	h := NewHub()

	a := &Client{userID: 1, send: make(chan []byte, 1), hub: h}
	b := &Client{userID: 1, send: make(chan []byte, 1), hub: h}
	other := &Client{userID: 2, send: make(chan []byte, 1), hub: h}
	h.register(a)
	h.register(b)
	h.register(other)

	h.Notify(1, Notification{Type: TypeLevelUp, Payload: map[string]int{"level": 3}})

	assert.Equal(t, 2, h.Connected(1))
	for _, c := range []*Client{a, b} {
		var n Notification
		require.NoError(t, json.Unmarshal(<-c.send, &n))
		assert.Equal(t, TypeLevelUp, n.Type)
	}
	assert.Empty(t, other.send)
}

func TestNotifySkipsFullBuffers(t *testing.T) {
	h := NewHub()
	c := &Client{userID: 1, send: make(chan []byte), hub: h}
	h.register(c)

	// unbuffered channel with no reader must not block Notify
	h.Notify(1, Notification{Type: TypeRewardUnlocked})
}

func TestUnregisterDropsEmptyUserEntry(t *testing.T) {
	h := NewHub()
	c := &Client{userID: 1, send: make(chan []byte, 1), hub: h}
	h.register(c)
	h.unregister(c)

	assert.Equal(t, 0, h.Connected(1))
	h.Notify(1, Notification{Type: TypeLevelUp})
}
