// Package websocket streams live game state to browser and tool clients.
//
// The package uses a hub-and-spoke model where a central Hub owns all
// WebSocket connections. Each connection gets a read goroutine and a write
// goroutine; the hub goroutine alone adds, removes and feeds clients.
//
// Message Protocol:
//
// Clients only listen. Every message is one JSON object per frame:
//
//	{"session_id": "ab12", "event": "state_update", "state": {...}, "frame": 120}
//
// state carries the engine snapshot (grid rows, player, enemies, moves,
// remaining, status). notice is set while the last reset of the session
// failed.
//
// Session Integration:
//
// Clients pick a session with the ?session= query parameter. Session IDs are
// matched case-insensitively. Hub.Publish has the session observer signature,
// so it can be registered directly on the session manager:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	sessions := session.NewManager(cfg, session.WithObserver(hub.Publish))
//
// Publish never blocks the simulation loop that calls it. When the hub falls
// behind, updates are dropped; the next state change carries a full
// snapshot, so clients catch up.
package websocket
