package websocket

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub() *Hub {
	return NewHub(nil, log.Default())
}

func testClient(userID string, races ...string) *Client {
	return &Client{
		send:   make(chan []byte, 10),
		userID: userID,
		races:  append([]string(nil), races...),
	}
}

func TestHub_RegisterClientIndexesByRaceAndUser(t *testing.T) {
	h := testHub()
	c := testClient("user-1", "race-1")

	h.registerClient(c)

	assert.Same(t, c, h.users["user-1"])
	assert.True(t, h.races["race-1"][c])
}

func TestHub_BroadcastRaceUpdateReachesOnlySubscribedClients(t *testing.T) {
	h := testHub()
	subscribed := testClient("user-1", "race-1")
	other := testClient("user-2", "race-2")
	h.registerClient(subscribed)
	h.registerClient(other)

	h.broadcastMessage(&Message{Type: "race_result_updated", RaceID: "race-1", Data: "payload"})

	select {
	case msg := <-subscribed.send:
		assert.Contains(t, string(msg), "race_result_updated")
	default:
		t.Fatal("expected subscribed client to receive a message")
	}

	select {
	case <-other.send:
		t.Fatal("unsubscribed client should not receive race-1 updates")
	default:
	}
}

func TestHub_SubscribeAndUnsubscribeFromRace(t *testing.T) {
	h := testHub()
	c := testClient("user-1")
	h.registerClient(c)

	h.SubscribeToRace(c, "race-9")
	require.Contains(t, c.races, "race-9")
	_, present := h.races["race-9"][c]
	require.True(t, present)

	h.UnsubscribeFromRace(c, "race-9")
	assert.NotContains(t, c.races, "race-9")
	_, present = h.races["race-9"]
	assert.False(t, present)
}

func TestHub_UnregisterClientRemovesFromAllRaces(t *testing.T) {
	h := testHub()
	c := testClient("user-1", "race-1", "race-2")
	h.registerClient(c)

	h.unregisterClient(c)

	assert.Empty(t, h.races["race-1"])
	assert.Empty(t, h.races["race-2"])
	_, exists := h.users["user-1"]
	assert.False(t, exists)
}

func TestHub_SendToUserTargetsOneClientOnly(t *testing.T) {
	h := testHub()
	a := testClient("user-a")
	b := testClient("user-b")
	h.registerClient(a)
	h.registerClient(b)

	h.broadcastMessage(&Message{Type: "notification", UserID: "user-a", Data: "hi"})

	select {
	case <-a.send:
	default:
		t.Fatal("expected user-a to receive the message")
	}
	select {
	case <-b.send:
		t.Fatal("user-b should not receive user-a's message")
	default:
	}
}
