package websocket

import (
	"encoding/json"
	"log/slog"
	"testing"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, householdID int64) *Client {
	return &Client{
		hub:         hub,
		householdID: householdID,
		send:        make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, 1)
	c2 := mockClient(hub, 2)

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, 1)
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcastScopedToHousehold(t *testing.T) {
	hub := NewHub(slog.Default())

	same := mockClient(hub, 1)
	other := mockClient(hub, 2)
	hub.Register(same)
	hub.Register(other)

	hub.Broadcast(1, NewMessage("event", "created", 42, nil))

	select {
	case data := <-same.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Type != "event_created" {
			t.Errorf("type = %q, want event_created", msg.Type)
		}
		if msg.ID != 42 {
			t.Errorf("id = %d, want 42", msg.ID)
		}
	default:
		t.Fatal("expected message for same-household client")
	}

	select {
	case <-other.send:
		t.Fatal("message leaked to another household")
	default:
	}
}

func TestBroadcastSkipsFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, 1)
	hub.Register(c)

	for i := 0; i < sendBufferSize+5; i++ {
		hub.Broadcast(1, NewMessage("todo", "updated", int64(i), nil))
	}

	if got := len(c.send); got != sendBufferSize {
		t.Fatalf("buffered = %d, want %d", got, sendBufferSize)
	}
}
