// Package session provides in-memory session management for the collect game server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - One running simulation loop per session
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session carries a loop.Loop whose Run goroutine is started on
// Create and stopped on Delete, expiry or Close.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated with
// cryptographic randomness. Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager(engine.DefaultConfig(),
//		session.WithObserver(hub.Publish),
//	)
//	defer manager.Close()
//
//	sess, err := manager.Create("", "level1", "maps/level1.txt")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := sess.Loop.Submit(ctx, loop.Move(engine.Up))
//
// Sessions live only in memory; nothing is written to disk.
package session
