// Package cartpole implements the Cartpole classic control environment
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
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	TotalMass      float64 = CartMass + PoleMass
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Discrete Actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 1

	Features int = 4
)

// Cartpole implements the classic control environment Cartpole. In
// this environment, a pole is attached to a cart, which can move
// horizontally. The agent must keep the pole upright for as long as
// possible.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity.
//
// Actions are discrete and consist of the force applied to the cart:
//
//	Action	Meaning
//	  0		Push left
//	  1		Push right
type Cartpole struct {
	env.Task
	lastStep ts.TimeStep
	done     bool

	gravity        float64
	forceMag       float64
	poleMass       float64
	halfPoleLength float64
	cartMass       float64
	dt             float64
}

// New constructs a new Cartpole environment. Reset must be called to
// start the first episode.
func New(t env.Task) *Cartpole {
	return &Cartpole{
		Task:           t,
		done:           true,
		gravity:        Gravity,
		forceMag:       ForceMag,
		poleMass:       PoleMass,
		halfPoleLength: HalfPoleLength,
		cartMass:       CartMass,
		dt:             Dt,
	}
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (c *Cartpole) Reset() (ts.TimeStep, error) {
	state := c.Start()
	if state.Len() != Features {
		return ts.TimeStep{}, fmt.Errorf("reset: starting state should have "+
			"%v features \n\thave(%v)", Features, state.Len())
	}

	c.lastStep = ts.New(ts.First, 0, state, 0)
	c.done = false

	return c.lastStep, nil
}

// ActionSpec returns the action specification of the environment
func (c *Cartpole) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(MaxDiscreteAction + 1)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Cartpole) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(Features, nil)
	inf := math.Inf(1)

	lowerBound := mat.NewVecDense(Features, []float64{-inf, -inf, -inf, -inf})
	upperBound := mat.NewVecDense(Features, []float64{inf, inf, inf, inf})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// Step takes one environmental step given action a and returns the next
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended
func (c *Cartpole) Step(a int) (ts.TimeStep, bool, error) {
	if c.done {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"the environment must be reset")
	}
	if a < MinDiscreteAction || a > MaxDiscreteAction {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ (0, 1)", a)
	}

	// Get state variables
	state := c.lastStep.Observation
	x, xDot := state.AtVec(0), state.AtVec(1)
	th, thDot := state.AtVec(2), state.AtVec(3)

	force := c.forceMag
	if a == 0 {
		force = -c.forceMag
	}

	// Calculate physical variables to determine next state
	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	totalMass := c.poleMass + c.cartMass
	poleMassLength := c.poleMass * c.halfPoleLength

	temp := (force + poleMassLength*thDot*thDot*sinTheta) / totalMass
	thAcc := (c.gravity*sinTheta - cosTheta*temp) / (c.halfPoleLength *
		(4.0/3.0 - c.poleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/totalMass

	// Update state variables using Euler kinematic integration
	x += c.dt * xDot
	xDot += c.dt * xAcc
	th += c.dt * thDot
	thDot += c.dt * thAcc

	// Create the new timestep
	newState := mat.NewVecDense(Features, []float64{x, xDot, th, thDot})
	reward := c.GetReward(state, a, newState)
	nextStep := ts.New(ts.Mid, reward, newState, c.lastStep.Number+1)

	// Check if the step ends the episode
	c.End(&nextStep)

	c.lastStep = nextStep
	c.done = nextStep.Last()
	return nextStep, c.done, nil
}

// String implements the fmt.Stringer interface
func (c *Cartpole) String() string {
	if c.lastStep.Observation == nil {
		return "Cartpole  |  not started"
	}
	msg := "Cartpole  |  Position: %v  | Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	state := c.lastStep.Observation
	position, speed := state.AtVec(0), state.AtVec(1)
	angle, velocity := state.AtVec(2), state.AtVec(3)

	return fmt.Sprintf(msg, position, speed, angle, velocity)
}

// StartBounds returns the bounds of the default starting state
// distribution, with each feature drawn uniformly from [-0.05, 0.05]
func StartBounds() []r1.Interval {
	bounds := make([]r1.Interval, Features)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -0.05, Max: 0.05}
	}
	return bounds
}
