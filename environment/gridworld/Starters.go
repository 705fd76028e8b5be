package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SingleStart implements a Starter which always starts the agent at
// the same position
type SingleStart struct {
	state *mat.VecDense
}

// NewSingleStart returns a Starter at position (x, y) in a gridworld
// of r rows and c columns
func NewSingleStart(x, y, r, c int) (*SingleStart, error) {
	if x < 0 || x >= c {
		return nil, fmt.Errorf("newSingleStart: x = %v ∉ [0, %v)", x, c)
	} else if y < 0 || y >= r {
		return nil, fmt.Errorf("newSingleStart: y = %v ∉ [0, %v)", y, r)
	}

	return &SingleStart{cToV(x, y, r, c)}, nil
}

// Start returns the one-hot starting state
func (s *SingleStart) Start() *mat.VecDense {
	return mat.VecDenseCopyOf(s.state)
}
