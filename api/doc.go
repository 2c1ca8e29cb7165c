// Package api provides the HTTP REST API for the collect game server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"map": "level1"}, empty for the default map)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N&map=NAME)
//   - GET /api/sessions/{id} - Get a session with its game state
//   - DELETE /api/sessions/{id} - Stop and remove a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - One move ({"direction": "up", "reset": false})
//   - POST /api/sessions/{id}/bulk-move - Several moves ({"moves": ["up", "left"]})
//   - POST /api/sessions/{id}/reset - Reload the session's map
//
// Maps:
//   - GET /api/maps - List valid maps
//   - GET /api/maps/{name} - Map layout and reachability warnings
//
// Other:
//   - GET /health, GET /api/health - Liveness check
//   - GET /ws?session={id} - WebSocket stream of state updates
//
// Errors are returned as {"error": "..."}. Unknown sessions and maps map to
// 404, invalid directions and malformed bodies to 400.
//
// Usage:
//
//	svc := service.NewGameService(sessions, maps)
//	server := api.NewServer(svc, hub)
//	http.ListenAndServe(":8080", server)
package api
