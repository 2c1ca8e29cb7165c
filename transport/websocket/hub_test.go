package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/collect-game/game/engine"
	"github.com/wricardo/collect-game/game/grid"
	"github.com/wricardo/collect-game/game/loop"
)

func testView(t *testing.T) loop.View {
	t.Helper()
	g, err := grid.Parse([]string{"0C", "0E"})
	if err != nil {
		t.Fatalf("Failed to parse grid: %v", err)
	}
	return loop.View{
		Snapshot: engine.Snapshot{
			MapName:   "test",
			Grid:      g,
			Cols:      2,
			Rows:      2,
			Player:    grid.Position{X: 0, Y: 1},
			Moves:     3,
			Remaining: 1,
			Status:    engine.StatusPlaying,
			Version:   4,
		},
		Frame:  42,
		Notice: "reset failed",
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(sessionID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients in %s, got %d", want, sessionID, hub.ClientCount(sessionID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if cap(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected buffered broadcast channel, got cap %d", cap(hub.broadcast))
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register channels are nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "abcd",
		send:      make(chan []byte, 256),
	}
	hub.registerClient(client)

	if !hub.sessions["abcd"][client] {
		t.Error("Client was not registered in session")
	}
	if hub.ClientCount("ABCD") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("ABCD"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	sessionID := "multi"

	client1 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	hub.registerClient(client1)
	hub.registerClient(client2)

	hub.unregisterClient(client1)
	if hub.ClientCount(sessionID) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", hub.ClientCount(sessionID))
	}
	if _, ok := <-client1.send; ok {
		t.Error("Expected client1 send channel to be closed")
	}

	hub.unregisterClient(client2)
	if _, exists := hub.sessions[sessionID]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}

	// Second unregister is a no-op
	hub.unregisterClient(client2)
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "abcd", send: make(chan []byte, 256)}
	other := &Client{hub: hub, sessionID: "ffff", send: make(chan []byte, 256)}
	hub.registerClient(client)
	hub.registerClient(other)

	hub.Publish("AbCd", testView(t))
	hub.broadcastMessage(<-hub.broadcast)

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %q", EventStateUpdate, message.Event)
		}
		if message.State == nil || message.State.Player != (grid.Position{X: 0, Y: 1}) {
			t.Fatalf("Snapshot not correctly transmitted: %+v", message.State)
		}
		if message.State.Remaining != 1 || message.State.Grid.String() != "0C\n0E" {
			t.Errorf("Unexpected snapshot contents: %+v", message.State)
		}
		if message.Frame != 42 || message.Notice != "reset failed" {
			t.Errorf("Unexpected frame/notice: %d %q", message.Frame, message.Notice)
		}
	default:
		t.Error("No message delivered to session client")
	}

	select {
	case <-other.send:
		t.Error("Client of another session received the update")
	default:
	}
}

func TestHubSlowClientDropped(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(client)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: "ping"})

	if hub.ClientCount("slow") != 0 {
		t.Error("Expected slow client to be unregistered")
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	view := testView(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.Publish("full", view)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no hub running")
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected %d queued messages, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()
	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" || message.Event != "custom-event" {
			t.Errorf("Unexpected message: %+v", message)
		}
		if message.Data != "test-data" {
			t.Errorf("Expected data 'test-data', got %v", message.Data)
		}
	default:
		t.Error("No broadcast message queued")
	}
}

func newWSServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := startHub(t)
	server := newWSServer(t, hub)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws01"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	waitForClients(t, hub, "ws01", 1)

	conn.Close()
	waitForClients(t, hub, "ws01", 0)
}

func TestWebSocketStateUpdate(t *testing.T) {
	hub := startHub(t)
	server := newWSServer(t, hub)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws02"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "ws02", 1)

	hub.Publish("WS02", testView(t))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.SessionID != "WS02" {
		t.Errorf("Expected session ID WS02, got %s", message.SessionID)
	}
	if message.State == nil || message.State.Moves != 3 || message.State.Status != engine.StatusPlaying {
		t.Errorf("Unexpected state: %+v", message.State)
	}
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	server := newWSServer(t, hub)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws03"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "ws03", 1)

	cancel()
	<-hub.done

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to close when the hub stops")
	}
	if hub.ClientCount("ws03") != 0 {
		t.Error("Expected no clients after stop")
	}
}
