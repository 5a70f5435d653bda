package app

import (
	"math/rand"
	"sync"
	"time"
)

var (
	heartbeatColors     = []string{"#3b82f6", "#8b5cf6", "#06b6d4", "#10b981"}
	heartbeatAnimations = []string{"pulse", "bounce", "spin", "wiggle"}
)

// Palette picks decorative color/animation pairs for heartbeat messages.
// It is independent of the threshold table.
type Palette struct {
	colors     []string
	animations []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPalette returns the heartbeat palette driven by a generator seeded with seed.
func NewPalette(seed int64) *Palette {
	return &Palette{
		colors:     heartbeatColors,
		animations: heartbeatAnimations,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// NewRandomPalette seeds from the wall clock.
func NewRandomPalette() *Palette {
	return NewPalette(time.Now().UnixNano())
}

// Pick returns a color and an animation chosen independently.
func (p *Palette) Pick() (color, animation string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.colors[p.rng.Intn(len(p.colors))], p.animations[p.rng.Intn(len(p.animations))]
}
