package gridworld

import (
	"fmt"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Goal represents the task of reaching one of a set of goal positions
// in a GridWorld. Episodes end when a goal is entered or a step limit
// is reached.
type Goal struct {
	env.Starter
	goals          map[int]struct{} // flattened goal indices
	r, c           int
	timeStepReward float64
	goalReward     float64
	stepLimit      env.StepLimit
}

// NewGoal creates and returns a new Goal task with goals at positions
// (x[i], y[i]), given that the gridworld has r rows and c columns. A
// reward of tr is given on each timestep which does not enter a goal,
// and gr on a timestep which does. A non-positive cutoff disables the
// step limit.
func NewGoal(s env.Starter, x, y []int, r, c int, tr, gr float64,
	cutoff int) (*Goal, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("newGoal: x length (%v) != y length (%v)",
			len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("newGoal: at least one goal is required")
	}

	goals := make(map[int]struct{}, len(x))
	for i := range x {
		if x[i] < 0 || x[i] >= c {
			return nil, fmt.Errorf("newGoal: x[%v] = %v ∉ [0, %v)", i, x[i],
				c)
		} else if y[i] < 0 || y[i] >= r {
			return nil, fmt.Errorf("newGoal: y[%v] = %v ∉ [0, %v)", i, y[i],
				r)
		}
		goals[cToInd(x[i], y[i], c)] = struct{}{}
	}

	return &Goal{
		Starter:        s,
		goals:          goals,
		r:              r,
		c:              c,
		timeStepReward: tr,
		goalReward:     gr,
		stepLimit:      env.NewStepLimit(cutoff),
	}, nil
}

// AtGoal returns whether the one-hot state is at a goal position
func (g *Goal) AtGoal(state mat.Vector) bool {
	if state.Len() != g.r*g.c {
		return false
	}
	ind, ok := vToInd(state)
	if !ok {
		return false
	}
	_, atGoal := g.goals[ind]
	return atGoal
}

// GetReward returns the reward for transitioning to nextState
func (g *Goal) GetReward(_ *mat.VecDense, _ int,
	nextState *mat.VecDense) float64 {
	if g.AtGoal(nextState) {
		return g.goalReward
	}
	return g.timeStepReward
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true.
func (g *Goal) End(t *ts.TimeStep) bool {
	if g.AtGoal(t.Observation) {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return g.stepLimit.End(t)
}

// Min returns the minimum reward attainable in the Task
func (g *Goal) Min() float64 {
	return floats.Min([]float64{g.timeStepReward, g.goalReward})
}

// Max returns the maximum reward attainable in the Task
func (g *Goal) Max() float64 {
	return floats.Max([]float64{g.timeStepReward, g.goalReward})
}
