// Package mcp exposes the collect game to AI agents as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes a REST request against
// the game server and the JSON response is rendered as text for the agent.
// Nothing is kept in the client itself.
//
// Tools:
//   - create_session, list_sessions, list_maps
//   - game_state, move, bulk_move, reset_game
//   - describe_cell, game_instructions
//
// The game keeps running between calls: enemies step on their own, so an
// agent should re-read game_state before planning.
//
// Serving:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// over stdin/stdout
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
//
//	// or as a JSON-RPC endpoint next to the REST API
//	mux.Handle("/mcp", client.HTTPHandler())
package mcp
