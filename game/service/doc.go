// Package service provides the business logic layer for the collect game server.
//
// The service package implements:
//   - Multi-session game management
//   - Map discovery and inspection
//   - Move processing, single and bulk
//   - Decision aids for remote players (possible moves, 3x3 view, threat level)
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// MapManager resolves map names to validated map files.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Every session owns a simulation loop running on its own
// goroutine, so enemies keep wandering between requests. The service never
// touches an engine directly: commands go through loop.Submit and state is
// read from the loop's published snapshot.
//
// Usage:
//
//	sessionMgr := session.NewManager(engine.DefaultConfig())
//	mapMgr, _ := config.NewManager("maps")
//	gameService := service.NewGameService(sessionMgr, mapMgr)
//
//	info, err := gameService.CreateSession(ctx, "level1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "up", false)
package service
