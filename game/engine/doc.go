// Package engine provides the core game logic for the collect game.
//
// The engine package implements the game mechanics including:
//   - Grid-based player movement with wall and boundary blocking
//   - Collectible pickup and the remaining-items count
//   - Enemy wandering (a periodic, random single-step walk)
//   - Collision, victory and game over detection
//   - Level reset from the original map file
//
// Core Types:
//
// GameEngine owns a GameState (grid, player, enemies, status) and applies
// move commands and ticks to it. Snapshot is a deep, read-only copy that
// renderers and network layers consume. Config carries the tuning values
// (tick rate, enemy step delay, ...) and Picker is the injectable random
// source used by enemies.
//
// Usage:
//
//	eng, err := engine.NewEngine("map.txt", engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome := eng.Move(engine.Right)
//	eng.Tick()
//	snap := eng.Snapshot()
//
// Game Rules:
//
// The player walks on floor, collectible and exit cells. Stepping on a
// collectible picks it up. Reaching an exit with nothing left to collect
// wins the level; sharing a cell with an enemy, either after a player move
// or after the enemies step, ends it. Both outcomes are terminal until Reset.
//
// A GameEngine is not safe for concurrent use; one goroutine owns it (see
// package loop).
package engine
