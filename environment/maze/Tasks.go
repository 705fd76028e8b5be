package maze

import (
	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"github.com/samuelfneumann/gomaze"
	"gonum.org/v1/gonum/mat"
)

const (
	TimeStepReward float64 = -1.0
	TerminalReward float64 = 0
)

// Solve implements the task of navigating from the maze start cell to
// the maze goal cell. A reward of -1 is given on every timestep except
// the one which enters the goal, on which a reward of 0 is given.
//
// Episodes end when the goal is reached or a step limit is reached.
// Solve must be registered with a maze before use, which New does.
type Solve struct {
	maze      *gomaze.Maze
	stepLimit env.StepLimit
}

// NewSolve returns a new Solve task. A non-positive cutoff disables
// the step limit.
func NewSolve(cutoff int) *Solve {
	return &Solve{stepLimit: env.NewStepLimit(cutoff)}
}

// Register links the task to the maze it is solving
func (s *Solve) Register(m *gomaze.Maze) {
	s.maze = m
}

// Start returns the maze start cell as an (x, y) position
func (s *Solve) Start() *mat.VecDense {
	row, col := s.maze.Start()
	return mat.NewVecDense(Features, []float64{float64(col), float64(row)})
}

// AtGoal returns whether the (x, y) position state is the goal cell
func (s *Solve) AtGoal(state *mat.VecDense) bool {
	if state.Len() != Features {
		return false
	}
	row, col := s.maze.Goal()
	return int(state.AtVec(0)) == col && int(state.AtVec(1)) == row
}

// GetReward returns the reward for transitioning to nextState
func (s *Solve) GetReward(_ *mat.VecDense, _ int,
	nextState *mat.VecDense) float64 {
	if s.AtGoal(nextState) {
		return TerminalReward
	}
	return TimeStepReward
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true.
func (s *Solve) End(t *ts.TimeStep) bool {
	if s.AtGoal(t.Observation) {
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return s.stepLimit.End(t)
}
