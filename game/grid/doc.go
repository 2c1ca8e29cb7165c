// Package grid provides the typed board model for the collect game.
//
// A Grid is a rectangular array of Symbols (floor, wall, collectible, exit).
// Player and enemy start markers never appear in a Grid: they are extracted
// by the level loader before the board is built. The number of collectibles
// left is maintained incrementally by SetTile so Remaining is O(1) and always
// equals Count(Collectible).
package grid
