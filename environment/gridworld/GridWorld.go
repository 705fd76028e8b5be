// Package gridworld implements 2D gridworld environments
package gridworld

import (
	"fmt"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Discrete actions
const (
	Left int = iota
	Right
	Up
	Down
	Actions
)

// GridWorld implements an open gridworld of r rows and c columns with
// no internal walls.
//
// A gridworld is represented as a flattened r ⨉ c matrix. Observations
// are one-hot encodings of the agent position in this matrix, where
// position (x, y) is at index y*c + x. Moves off the grid leave the
// agent in place.
type GridWorld struct {
	env.Task
	r, c int

	position int
	lastStep ts.TimeStep
	done     bool
}

// New returns a new GridWorld with r rows, c columns, and task t.
// Reset must be called to start the first episode.
func New(r, c int, t env.Task) (*GridWorld, error) {
	if r < 1 || c < 1 {
		return nil, fmt.Errorf("new: illegal gridworld dimensions (%v, %v)",
			r, c)
	}
	return &GridWorld{Task: t, r: r, c: c, done: true}, nil
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.r, g.c
}

// Coordinates returns the (x, y) position of the agent
func (g *GridWorld) Coordinates() (int, int) {
	return indToC(g.position, g.c)
}

// Reset resets the environment and places the agent at a starting
// position drawn from the environment Starter
func (g *GridWorld) Reset() (ts.TimeStep, error) {
	start := g.Start()
	if start.Len() != g.r*g.c {
		return ts.TimeStep{}, fmt.Errorf("reset: illegal start length "+
			"\n\twant(%v) \n\thave(%v)", g.r*g.c, start.Len())
	}
	ind, ok := vToInd(start)
	if !ok {
		return ts.TimeStep{}, fmt.Errorf("reset: start state is not one-hot")
	}

	g.position = ind
	g.lastStep = ts.New(ts.First, 0, g.observation(), 0)
	g.done = false
	return g.lastStep, nil
}

// Step takes one environmental step given action action and returns
// the next state as a timestep.TimeStep and a bool indicating whether
// or not the episode has ended
func (g *GridWorld) Step(action int) (ts.TimeStep, bool, error) {
	if g.done {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"the environment must be reset")
	}

	x, y := g.Coordinates()
	switch action {
	case Left:
		x = max(x-1, 0)
	case Right:
		x = min(x+1, g.c-1)
	case Up:
		y = min(y+1, g.r-1)
	case Down:
		y = max(y-1, 0)
	default:
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ [0, %v]", action, Actions-1)
	}
	g.position = cToInd(x, y, g.c)

	newState := g.observation()
	reward := g.GetReward(g.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, newState, g.lastStep.Number+1)

	g.End(&nextStep)

	g.lastStep = nextStep
	g.done = nextStep.Last()
	return nextStep, g.done, nil
}

// ActionSpec returns the action specification of the environment
func (g *GridWorld) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(Actions)
}

// ObservationSpec returns the observation specification of the
// environment
func (g *GridWorld) ObservationSpec() env.Spec {
	features := g.r * g.c
	shape := mat.NewVecDense(features, nil)
	lowerBound := mat.NewVecDense(features, nil)
	upperBound := mat.NewVecDense(features, nil)
	for i := 0; i < features; i++ {
		upperBound.SetVec(i, 1.0)
	}

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// String implements the fmt.Stringer interface
func (g *GridWorld) String() string {
	x, y := g.Coordinates()
	return fmt.Sprintf("GridWorld  |  At: (%v, %v)  |  Bounds: (%v, %v)", x, y,
		g.r, g.c)
}

func (g *GridWorld) observation() *mat.VecDense {
	obs := mat.NewVecDense(g.r*g.c, nil)
	obs.SetVec(g.position, 1.0)
	return obs
}

func cToInd(x, y, c int) int {
	return y*c + x
}

func indToC(ind, c int) (int, int) {
	y := ind / c
	return ind - y*c, y
}

// cToV returns the one-hot encoding of position (x, y) in a gridworld
// of r rows and c columns
func cToV(x, y, r, c int) *mat.VecDense {
	v := mat.NewVecDense(r*c, nil)
	v.SetVec(cToInd(x, y, c), 1.0)
	return v
}

// vToInd returns the index of the single non-zero element of v and
// whether v is one-hot
func vToInd(v mat.Vector) (int, bool) {
	ind := -1
	for i := 0; i < v.Len(); i++ {
		switch v.AtVec(i) {
		case 0.0:
		case 1.0:
			if ind >= 0 {
				return -1, false
			}
			ind = i
		default:
			return -1, false
		}
	}
	return ind, ind >= 0
}
