package loop

import "github.com/wricardo/collect-game/game/assets"

// Animator advances per-kind frame indices every delay ticks.
// It is purely presentational and ignores the game status.
type Animator struct {
	delay  int
	timer  int
	frames map[assets.Kind]int
	index  map[assets.Kind]int
}

// NewAnimator creates an animator for the player and enemy kinds, one frame each
func NewAnimator(delay int) *Animator {
	if delay < 1 {
		delay = 1
	}
	a := &Animator{
		delay:  delay,
		frames: make(map[assets.Kind]int),
		index:  make(map[assets.Kind]int),
	}
	a.SetFrames(assets.Player, 1)
	a.SetFrames(assets.Enemy, 1)
	return a
}

// SetFrames sets how many frames kind cycles through
func (a *Animator) SetFrames(kind assets.Kind, n int) {
	if n < 1 {
		n = 1
	}
	a.frames[kind] = n
	a.index[kind] %= n
}

// Advance counts one tick
func (a *Animator) Advance() {
	a.timer++
	if a.timer < a.delay {
		return
	}
	a.timer = 0
	for kind, n := range a.frames {
		a.index[kind] = (a.index[kind] + 1) % n
	}
}

// Frame returns the current frame index of kind
func (a *Animator) Frame(kind assets.Kind) int {
	return a.index[kind]
}

// Reset rewinds every kind to frame zero
func (a *Animator) Reset() {
	a.timer = 0
	for kind := range a.index {
		a.index[kind] = 0
	}
}

// Indices returns a copy of the current frame indices
func (a *Animator) Indices() map[assets.Kind]int {
	out := make(map[assets.Kind]int, len(a.index))
	for kind, i := range a.index {
		out[kind] = i
	}
	return out
}
