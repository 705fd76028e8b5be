package mountaincar

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/replaydqn/environment"
	"github.com/samuelfneumann/replaydqn/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	GoalPosition float64 = 0.5
)

// Goal implements the goal reaching task of Mountain Car. The reward is
// -1 on every step until the car reaches the goal position, where the
// episode ends with a reward of 0.
type Goal struct {
	environment.Starter
	goalEnder *environment.IntervalLimit
	stepEnder environment.StepLimit
	goalX     float64 // x position of goal
}

// NewGoal returns a new Goal task. A non-positive episodeSteps disables
// the step limit.
func NewGoal(s environment.Starter, episodeSteps int, goalX float64) (*Goal,
	error) {
	if goalX <= MinPosition || goalX > MaxPosition {
		return nil, fmt.Errorf("newgoal: goal position %v ∉ (%v, %v]", goalX,
			MinPosition, MaxPosition)
	}

	interval := []r1.Interval{{Min: math.Inf(-1), Max: goalX}}
	goalEnder, err := environment.NewIntervalLimit(interval, []int{0},
		timestep.TerminalStateReached)
	if err != nil {
		return nil, fmt.Errorf("newgoal: %w", err)
	}
	return &Goal{s, goalEnder, environment.NewStepLimit(episodeSteps),
		goalX}, nil
}

// GetReward returns the reward for transitioning to nextState
func (g *Goal) GetReward(_ *mat.VecDense, _ int,
	nextState *mat.VecDense) float64 {
	if nextState.AtVec(0) >= g.goalX {
		return 0.0
	}
	return -1.0
}

// End ends the episode at the goal or the step limit
func (g *Goal) End(t *timestep.TimeStep) bool {
	if end := g.goalEnder.End(t); end {
		return true
	}
	return g.stepEnder.End(t)
}
