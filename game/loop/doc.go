// Package loop runs the fixed-rate simulation around an engine.
//
// Each frame drains queued input (moves, restart, reset, quit) in arrival
// order, ticks the enemies and advances the presentational animation
// counter. The desktop client calls Step from its own update callback; the
// server runs one Loop per session with Run and reaches it through Submit.
// Either way a single goroutine owns the engine and everyone else reads the
// published View.
package loop
