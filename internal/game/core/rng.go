package core

import (
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
)

// Rng is the game's deterministic random stream. The generator state is
// part of GameState: two games created with the same seed and fed the same
// actions draw identical values, which is what makes replay and simulation
// search possible. Serialization captures the generator state exactly.
type Rng struct {
	seed uint64
	pcg  *mrand.PCG
	rand *mrand.Rand
}

// NewRng returns a stream seeded with the given value.
func NewRng(seed uint64) *Rng {
	pcg := mrand.NewPCG(seed, seed)
	return &Rng{seed: seed, pcg: pcg, rand: mrand.New(pcg)}
}

// Seed returns the seed the stream was created with.
func (r *Rng) Seed() uint64 {
	return r.seed
}

// IntN returns a uniform value in [0, n).
func (r *Rng) IntN(n int) int {
	return r.rand.IntN(n)
}

// Shuffle pseudo-randomizes the order of n elements.
func (r *Rng) Shuffle(n int, swap func(i, j int)) {
	r.rand.Shuffle(n, swap)
}

// Sample picks k distinct indices out of n in selection order.
func (r *Rng) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices[:k]
}

// MarshalState captures the seed and generator state.
func (r *Rng) MarshalState() ([]byte, error) {
	state, err := r.pcg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal rng: %w", err)
	}
	out := make([]byte, 8+len(state))
	binary.BigEndian.PutUint64(out, r.seed)
	copy(out[8:], state)
	return out, nil
}

// UnmarshalRngState restores a stream captured by MarshalState.
func UnmarshalRngState(data []byte) (*Rng, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("unmarshal rng: short data (%d bytes)", len(data))
	}
	r := NewRng(binary.BigEndian.Uint64(data))
	if err := r.pcg.UnmarshalBinary(data[8:]); err != nil {
		return nil, fmt.Errorf("unmarshal rng: %w", err)
	}
	return r, nil
}
