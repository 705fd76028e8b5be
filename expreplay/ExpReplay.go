// Package expreplay implements a fixed-capacity experience replay
// buffer which is sampled uniformly at random.
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/replaydqn/timestep"
	"golang.org/x/exp/rand"
)

// Config implements a specific configuration of a Buffer
type Config struct {
	Capacity   int // Maximum number of stored transitions
	SampleSize int // Batch size drawn by learners
}

// Validate checks that a Config describes a valid Buffer
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("validate: capacity must be >= 1 \n\thave(%v)",
			c.Capacity)
	}
	if c.SampleSize < 1 {
		return fmt.Errorf("validate: sample size must be >= 1 \n\thave(%v)",
			c.SampleSize)
	}
	if c.SampleSize > c.Capacity {
		return fmt.Errorf("validate: cannot have sample size (%v) > "+
			"capacity (%v)", c.SampleSize, c.Capacity)
	}
	return nil
}

// Create creates and returns the Buffer described by the Config
func (c Config) Create(seed uint64) (*Buffer, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return New(c.Capacity, seed)
}

// Buffer is a cyclic store of transitions. Until the buffer is full,
// pushed transitions are appended. Once full, each push overwrites the
// oldest stored transition.
//
// The buffer is an arena: the backing slice is allocated once at
// construction and a write cursor tracks the next slot to overwrite.
// Sampling draws arena indices, so samples share storage with the
// buffer and must not be modified.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	items  []timestep.Transition
	cursor int

	// order is a permutation of [0, len(items)) which sampling
	// partially shuffles in place. Any permutation works as the
	// starting point of a partial Fisher-Yates shuffle, so it never
	// needs to be reset.
	order []int

	rng *rand.Rand
}

// New returns a new Buffer which holds at most capacity transitions.
// The seed determines the random sampling of the buffer.
func New(capacity int, seed uint64) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("new: capacity must be >= 1 \n\thave(%v)",
			capacity)
	}

	return &Buffer{
		items: make([]timestep.Transition, 0, capacity),
		order: make([]int, 0, capacity),
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Push adds a transition to the buffer, overwriting the oldest
// transition if the buffer is at capacity.
func (b *Buffer) Push(t timestep.Transition) {
	if len(b.items) < cap(b.items) {
		b.order = append(b.order, len(b.items))
		b.items = append(b.items, t)
	} else {
		b.items[b.cursor] = t
	}

	// The cursor advances on every push, even while filling, so that
	// once full it always points at the oldest transition
	b.cursor = (b.cursor + 1) % cap(b.items)
}

// Sample returns n transitions drawn uniformly at random without
// replacement from the buffer. Sampling more transitions than are
// stored is an error.
func (b *Buffer) Sample(n int) ([]timestep.Transition, error) {
	if n < 0 {
		return nil, &ExpReplayError{Op: "sample", Err: errNegativeSampleSize}
	}
	if n > 0 && len(b.items) == 0 {
		return nil, &ExpReplayError{Op: "sample", Err: errEmptyCache}
	}
	if n > len(b.items) {
		return nil, &ExpReplayError{
			Op:  "sample",
			Err: fmt.Errorf("%w \n\twant(<=%v)\n\thave(%v)",
				errInsufficientSamples, len(b.items), n),
		}
	}

	size := len(b.items)
	batch := make([]timestep.Transition, n)
	for i := 0; i < n; i++ {
		j := i + b.rng.Intn(size-i)
		b.order[i], b.order[j] = b.order[j], b.order[i]
		batch[i] = b.items[b.order[i]]
	}

	return batch, nil
}

// Len returns the current number of transitions in the buffer
func (b *Buffer) Len() int {
	return len(b.items)
}

// Capacity returns the maximum number of transitions the buffer holds
func (b *Buffer) Capacity() int {
	return cap(b.items)
}

// Cursor returns the index of the slot that the next push will write
// to once the buffer is full
func (b *Buffer) Cursor() int {
	return b.cursor
}

// At returns the transition stored in slot i of the arena. Slots carry
// no ordering guarantee and At is meant for inspection only.
func (b *Buffer) At(i int) timestep.Transition {
	return b.items[i]
}

// String returns the string representation of the buffer
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer | Size: %v  |  Capacity: %v  |  Cursor: %v",
		b.Len(), b.Capacity(), b.cursor)
}
