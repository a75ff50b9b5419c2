package scanner

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// StepSource yields the progress increment for one tick.
type StepSource interface {
	Next() float64
}

// UniformSteps draws increments uniformly from [Min, Max).
type UniformSteps struct {
	min, max float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformSteps returns a source seeded with seed.
func NewUniformSteps(minStep, maxStep float64, seed uint64) *UniformSteps {
	return &UniformSteps{
		min: minStep,
		max: maxStep,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // cosmetic jitter only
	}
}

// Next implements StepSource.
func (u *UniformSteps) Next() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.min + u.rng.Float64()*(u.max-u.min)
}

// NewSeed reads a seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// FixedSteps returns the same increment on every tick.
type FixedSteps float64

// Next implements StepSource.
func (f FixedSteps) Next() float64 { return float64(f) }
