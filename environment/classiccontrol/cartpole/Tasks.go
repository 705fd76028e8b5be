package cartpole

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	FailAngle    float64 = 12 * 2 * math.Pi / 360
	FailPosition float64 = 2.4
)

// Balance implements the classic control Cartpole Balance task. In this
// Task, the goal of the agent is to balance the pole on the cart in
// an upright position for as long as possible.
//
// The reward is +1 for every timestep, including the step on which the
// pole falls.
//
// Episodes end after a step limit, after the pole has fallen beyond
// some angle threshold θ, or after the cart has left the track.
type Balance struct {
	env.Starter
	stepLimiter  env.StepLimit
	stateLimiter *env.IntervalLimit
}

// NewBalance creates and returns a new Balance task. A non-positive
// episodeSteps disables the step limit.
func NewBalance(s env.Starter, episodeSteps int, failAngle,
	failPosition float64) (*Balance, error) {
	if failAngle <= 0 || failPosition <= 0 {
		return nil, fmt.Errorf("newbalance: fail angle (%v) and position "+
			"(%v) must be positive", failAngle, failPosition)
	}
	stepLimiter := env.NewStepLimit(episodeSteps)

	legal := []r1.Interval{
		{Min: -failPosition, Max: failPosition},
		{Min: -failAngle, Max: failAngle},
	}
	stateLimiter, err := env.NewIntervalLimit(legal, []int{0, 2},
		ts.TerminalStateReached)
	if err != nil {
		return nil, fmt.Errorf("newbalance: %w", err)
	}

	return &Balance{s, stepLimiter, stateLimiter}, nil
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true. Otherwise,
// the function does not adjust the TimeStep and returns false.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.stateLimiter.End(t); end {
		return true
	}
	return b.stepLimiter.End(t)
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState.
func (b *Balance) GetReward(_ *mat.VecDense, _ int, _ *mat.VecDense) float64 {
	return 1.0
}
