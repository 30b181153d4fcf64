package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func (h *Hub) clientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// A client that stops draining its buffer is evicted exactly once: the hub
// may hit the slow-client path on several deliveries, but only the
// unregister loop closes the channel.
func TestSlowClientEvictedWithoutDoubleClose(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	userID := uuid.New()
	client := &Client{UserID: userID, Send: make(chan []byte, 1)}

	h.register <- client
	waitFor(t, func() bool { return h.clientCount(userID) == 1 })

	note := Notification{Id: uuid.New(), Type: "APPOINTMENT_CONFIRMED", Title: "Appointment confirmed", CreatedAt: time.Now()}

	h.Broadcast(note) // fills the buffer
	h.Broadcast(note) // buffer full, client is handed to unregister
	waitFor(t, func() bool { return h.clientCount(userID) == 0 })

	// Further fan-out after eviction must not touch the closed channel.
	h.Broadcast(note)
	h.Send(userID, note)

	if _, ok := <-client.Send; !ok {
		t.Fatal("expected the buffered message before the close")
	}
	if _, ok := <-client.Send; ok {
		t.Fatal("expected the channel to be closed after eviction")
	}
}

// Two stalled devices of the same user are both evicted cleanly.
func TestSendEvictsAllStalledDevices(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	userID := uuid.New()
	first := &Client{UserID: userID, Send: make(chan []byte)}
	second := &Client{UserID: userID, Send: make(chan []byte)}

	h.register <- first
	h.register <- second
	waitFor(t, func() bool { return h.clientCount(userID) == 2 })

	note := Notification{Id: uuid.New(), Type: "INVOICE_PAID", Title: "Invoice paid", CreatedAt: time.Now()}
	h.Send(userID, note)
	waitFor(t, func() bool { return h.clientCount(userID) == 0 })

	if _, ok := <-first.Send; ok {
		t.Fatal("expected the first channel closed")
	}
	if _, ok := <-second.Send; ok {
		t.Fatal("expected the second channel closed")
	}
}
