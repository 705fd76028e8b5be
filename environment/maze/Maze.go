// Package maze implements randomly generated maze environments using
// GoMaze
package maze

import (
	"fmt"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"github.com/samuelfneumann/gomaze"
	"gonum.org/v1/gonum/mat"
)

const (
	// Passing a negative start or goal position to gomaze places the
	// start in the top left cell and the goal in the bottom right cell
	DefaultStartRow int = -1
	DefaultStartCol int = -1
	DefaultGoalRow  int = -1
	DefaultGoalCol  int = -1

	DefaultRows int = 5
	DefaultCols int = 5

	Features int = 2
)

// registrar is a Task which must know the underlying maze layout
type registrar interface {
	Register(*gomaze.Maze)
}

// Maze implements a 2D maze environment. The walls of the maze are
// generated by a gomaze.Initer when the Maze is constructed and stay
// fixed throughout its lifetime.
//
// State features are the (column, row) position of the agent:
//
//	[x, y]
//
// Actions are discrete:
//
//	Action	Meaning
//	  0		Move north
//	  1		Move south
//	  2		Move west
//	  3		Move east
//
// Moves into walls leave the agent in place.
type Maze struct {
	env.Task
	maze *gomaze.Maze

	lastStep ts.TimeStep
	done     bool
}

// New returns a new Maze of dimensions rows ⨉ cols with walls generated
// by init. If t needs the maze layout, such as the Solve task, it is
// registered with the new maze. Reset must be called to start the
// first episode.
func New(t env.Task, rows, cols int, init gomaze.Initer) (*Maze, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("new: illegal maze dimensions (%v, %v)", rows,
			cols)
	}

	m, err := gomaze.NewMaze(rows, cols, DefaultGoalRow, DefaultGoalCol,
		DefaultStartRow, DefaultStartCol, init, false)
	if err != nil {
		return nil, fmt.Errorf("new: could not create maze: %w", err)
	}

	if r, ok := t.(registrar); ok {
		r.Register(m)
	}

	return &Maze{Task: t, maze: m, done: true}, nil
}

// Dims returns the rows and columns of the maze
func (m *Maze) Dims() (int, int) {
	return m.maze.Rows(), m.maze.Cols()
}

// Reset resets the environment and places the agent at the starting
// position given by the environment Starter
func (m *Maze) Reset() (ts.TimeStep, error) {
	start := m.Start()
	if start.Len() != Features {
		return ts.TimeStep{}, fmt.Errorf("reset: illegal start length "+
			"\n\twant(%v) \n\thave(%v)", Features, start.Len())
	}

	m.maze.Reset()
	col, row := int(start.AtVec(0)), int(start.AtVec(1))
	if col < 0 || col >= m.maze.Cols() || row < 0 || row >= m.maze.Rows() {
		return ts.TimeStep{}, fmt.Errorf("reset: start (%v, %v) outside "+
			"maze", col, row)
	}
	if err := m.maze.SetCell(col, row); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	obs := m.maze.Obs()
	m.lastStep = ts.New(ts.First, 0, mat.NewVecDense(len(obs), obs), 0)
	m.done = false
	return m.lastStep, nil
}

// Step takes one environmental step given action action and returns
// the next state as a timestep.TimeStep and a bool indicating whether
// or not the episode has ended
func (m *Maze) Step(action int) (ts.TimeStep, bool, error) {
	if m.done {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"the environment must be reset")
	}
	if action < 0 || action >= gomaze.Actions {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ [0, %v]", action, gomaze.Actions-1)
	}

	pos, _, _, err := m.maze.Step(action)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}
	newState := mat.NewVecDense(len(pos), pos)

	reward := m.GetReward(m.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, newState, m.lastStep.Number+1)

	m.End(&nextStep)

	m.lastStep = nextStep
	m.done = nextStep.Last()
	return nextStep, m.done, nil
}

// ActionSpec returns the action specification of the environment
func (m *Maze) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(gomaze.Actions)
}

// ObservationSpec returns the observation specification of the
// environment
func (m *Maze) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(Features, nil)
	lowerBound := mat.NewVecDense(Features, nil)
	upperBound := mat.NewVecDense(Features, []float64{
		float64(m.maze.Cols() - 1),
		float64(m.maze.Rows() - 1),
	})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// String returns the maze layout with the agent position marked
func (m *Maze) String() string {
	return m.maze.String()
}
