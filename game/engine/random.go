package engine

import (
	"math/rand/v2"
	"time"
)

// Picker chooses one of n options, returning an index in [0, n)
type Picker interface {
	Pick(n int) int
}

// RandPicker is a Picker backed by a seeded PCG source
type RandPicker struct {
	rng *rand.Rand
}

// NewRandPicker returns a Picker seeded with seed, or with the current time
// when seed is zero
func NewRandPicker(seed int64) *RandPicker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandPicker{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))}
}

// Pick returns a uniformly distributed index in [0, n)
func (p *RandPicker) Pick(n int) int {
	return p.rng.IntN(n)
}

// SequencePicker replays a fixed list of choices, wrapping around at the end.
// Useful for scripted enemy movement.
type SequencePicker struct {
	choices []int
	next    int
}

// NewSequencePicker returns a Picker that yields choices in order
func NewSequencePicker(choices ...int) *SequencePicker {
	return &SequencePicker{choices: choices}
}

// Pick returns the next scripted choice, reduced modulo n
func (p *SequencePicker) Pick(n int) int {
	if len(p.choices) == 0 {
		return 0
	}
	c := p.choices[p.next%len(p.choices)]
	p.next++
	if c < 0 {
		c = -c
	}
	return c % n
}
