// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/replaydqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end. If End returns true, it has set
// the StepType of the argument TimeStep to timestep.Last.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme, starting state distribution, and
// episode termination of some environment
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking action in state and
	// transitioning to nextState
	GetReward(state *mat.VecDense, action int, nextState *mat.VecDense) float64
}

// Environment implements a simulated environment with discrete actions.
//
// Environments are synchronous: Step returns as soon as the next
// TimeStep is computed. Step returns the next TimeStep, whether the
// episode is done, and any error encountered. Once an episode is done,
// Reset must be called before the next call to Step.
type Environment interface {
	Reset() (timestep.TimeStep, error)
	Step(action int) (timestep.TimeStep, bool, error)
	ObservationSpec() Spec
	ActionSpec() Spec
}
