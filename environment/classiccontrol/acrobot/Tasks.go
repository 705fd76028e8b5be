package acrobot

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// GoalHeight is the default height, above the fixed base, that the tip
// of the second link must reach
const GoalHeight float64 = LinkLength1

// SwingUp implements the classic control Acrobot task where the agent
// must swing the tip of the second link above some set height.
//
// The task is a cost-to-goal task: a reward of -1 is given on all
// timesteps except for the timestep which transitions the tip above
// the goal height, on which a reward of 0 is given.
//
// Episodes end when the tip swings above the goal height or a step
// limit is reached.
type SwingUp struct {
	env.Starter
	stepLimiter env.StepLimit
	goalHeight  float64
}

// NewSwingUp returns a new SwingUp task. A non-positive episodeSteps
// disables the step limit.
func NewSwingUp(s env.Starter, episodeSteps int, goalHeight float64) (
	*SwingUp, error) {
	if goalHeight < 0 || goalHeight > LinkLength1+LinkLength2 {
		return nil, fmt.Errorf("newswingup: goal height %v is unreachable",
			goalHeight)
	}
	return &SwingUp{s, env.NewStepLimit(episodeSteps), goalHeight}, nil
}

// height returns the height of the tip of the second link above the
// fixed base
func height(state *mat.VecDense) float64 {
	theta1, theta2 := state.AtVec(0), state.AtVec(1)
	return -LinkLength1*math.Cos(theta1) - LinkLength2*math.Cos(theta1+theta2)
}

// AtGoal returns whether state is a goal state
func (s *SwingUp) AtGoal(state *mat.VecDense) bool {
	return height(state) > s.goalHeight
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true.
func (s *SwingUp) End(t *ts.TimeStep) bool {
	if s.AtGoal(t.Observation) {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return s.stepLimiter.End(t)
}

// GetReward returns the reward for transitioning to nextState
func (s *SwingUp) GetReward(_ *mat.VecDense, _ int,
	nextState *mat.VecDense) float64 {
	if s.AtGoal(nextState) {
		return 0.0
	}
	return -1.0
}
