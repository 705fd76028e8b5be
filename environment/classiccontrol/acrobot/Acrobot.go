// Package acrobot implements the Acrobot classic control environment
package acrobot

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"github.com/samuelfneumann/replaydqn/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	Dt float64 = 0.2 // seconds between state updates

	// Physical constants
	LinkLength1 float64 = 1.0 // Metres, length of link 1
	LinkLength2 float64 = 1.0 // Metres, length of link 2
	LinkMass1   float64 = 1.0 // Kg, mass of link 1
	LinkMass2   float64 = 1.0 // Kg, mass of link 2
	LinkCOMPos1 float64 = 0.5 // Metres, centre of mass link 1
	LinkCOMPos2 float64 = 0.5 // Metres, centre of mass link 2
	LinkMOI     float64 = 1.0 // Moments of inertia for both links
	MaxVel1     float64 = 4 * math.Pi
	MaxVel2     float64 = 9 * math.Pi
	Gravity     float64 = 9.8
	MaxTorque   float64 = 1.0

	// Discrete actions
	MinDiscreteAction int = 0 // Applies -MaxTorque
	MaxDiscreteAction int = 2 // Applies MaxTorque

	Features int = 4
)

// Acrobot implements the classic control environment Acrobot. In this
// environment, a double linked pendulum hangs from a fixed base, and
// torque can be applied to the joint between the two links to swing the
// pendulum around.
//
// State features are the angle of the first link measured from the
// negative y-axis, the angle of the second link relative to the first,
// and the angular velocity of each link:
//
//	[θ1, θ2, θ̇1, θ̇2]
//
// Angles are wrapped to [-π, π] and angular velocities are clipped to
// [-MaxVel1, MaxVel1] and [-MaxVel2, MaxVel2].
//
// Actions are discrete and consist of the torque applied to the joint:
//
//	Action	Meaning
//	  0		Torque of -1
//	  1		No torque
//	  2		Torque of +1
type Acrobot struct {
	env.Task
	lastStep ts.TimeStep
	done     bool

	angleBounds     r1.Interval
	velocity1Bounds r1.Interval
	velocity2Bounds r1.Interval
}

// New constructs a new Acrobot environment. Reset must be called to
// start the first episode.
func New(t env.Task) *Acrobot {
	return &Acrobot{
		Task:            t,
		done:            true,
		angleBounds:     r1.Interval{Min: -math.Pi, Max: math.Pi},
		velocity1Bounds: r1.Interval{Min: -MaxVel1, Max: MaxVel1},
		velocity2Bounds: r1.Interval{Min: -MaxVel2, Max: MaxVel2},
	}
}

// validateState returns an error if state is not a legal Acrobot state
func (a *Acrobot) validateState(state *mat.VecDense) error {
	if l := state.Len(); l != Features {
		return fmt.Errorf("illegal state length \n\twant(%v) \n\thave(%v)",
			Features, l)
	}
	bounds := []r1.Interval{a.angleBounds, a.angleBounds, a.velocity1Bounds,
		a.velocity2Bounds}
	for i, b := range bounds {
		if v := state.AtVec(i); v < b.Min || v > b.Max {
			return fmt.Errorf("state feature %v = %v out of bounds [%v, %v]",
				i, v, b.Min, b.Max)
		}
	}
	return nil
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (a *Acrobot) Reset() (ts.TimeStep, error) {
	state := a.Start()
	if err := a.validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	a.lastStep = ts.New(ts.First, 0, state, 0)
	a.done = false
	return a.lastStep, nil
}

// ActionSpec returns the action specification of the environment
func (a *Acrobot) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(MaxDiscreteAction + 1)
}

// ObservationSpec returns the observation specification of the
// environment
func (a *Acrobot) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(Features, nil)
	lowerBound := mat.NewVecDense(Features, []float64{-math.Pi, -math.Pi,
		-MaxVel1, -MaxVel2})
	upperBound := mat.NewVecDense(Features, []float64{math.Pi, math.Pi,
		MaxVel1, MaxVel2})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// Step takes one environmental step given action action and returns
// the next state as a timestep.TimeStep and a bool indicating whether
// or not the episode has ended
func (a *Acrobot) Step(action int) (ts.TimeStep, bool, error) {
	if a.done {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"the environment must be reset")
	}
	if action < MinDiscreteAction || action > MaxDiscreteAction {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ [%v, %v]", action, MinDiscreteAction, MaxDiscreteAction)
	}
	torque := float64(action-1) * MaxTorque

	state := a.lastStep.Observation
	next := rk4(state.RawVector().Data, torque, Dt)

	// Ensure state stays in an acceptable range
	next[0] = floatutils.Wrap(next[0], a.angleBounds)
	next[1] = floatutils.Wrap(next[1], a.angleBounds)
	next[2] = floatutils.ClipInterval(next[2], a.velocity1Bounds)
	next[3] = floatutils.ClipInterval(next[3], a.velocity2Bounds)

	newState := mat.NewVecDense(Features, next)
	reward := a.GetReward(state, action, newState)
	nextStep := ts.New(ts.Mid, reward, newState, a.lastStep.Number+1)

	a.End(&nextStep)

	a.lastStep = nextStep
	a.done = nextStep.Last()
	return nextStep, a.done, nil
}

// String implements the fmt.Stringer interface
func (a *Acrobot) String() string {
	if a.lastStep.Observation == nil {
		return "Acrobot  |  not started"
	}
	state := a.lastStep.Observation
	return fmt.Sprintf("Acrobot  |  θ1: %v  |  θ2: %v  |  θ̇1: %v  |  θ̇2: %v",
		state.AtVec(0), state.AtVec(1), state.AtVec(2), state.AtVec(3))
}

// dsDt returns the time derivative of state s = [θ1, θ2, θ̇1, θ̇2] when
// torque is applied to the joint, following the dynamics of Sutton and
// Barto's Reinforcement Learning: An Introduction
func dsDt(s []float64, torque float64) []float64 {
	m1, m2 := LinkMass1, LinkMass2
	l1 := LinkLength1
	lc1, lc2 := LinkCOMPos1, LinkCOMPos2
	i1, i2 := LinkMOI, LinkMOI
	g := Gravity

	theta1, theta2 := s[0], s[1]
	dtheta1, dtheta2 := s[2], s[3]

	d1 := m1*lc1*lc1 + m2*(l1*l1+lc2*lc2+2*l1*lc2*math.Cos(theta2)) + i1 + i2
	d2 := m2*(lc2*lc2+l1*lc2*math.Cos(theta2)) + i2

	phi2 := m2 * lc2 * g * math.Cos(theta1+theta2-math.Pi/2.0)
	phi1 := -m2*l1*lc2*dtheta2*dtheta2*math.Sin(theta2) -
		2*m2*l1*lc2*dtheta2*dtheta1*math.Sin(theta2) +
		(m1*lc1+m2*l1)*g*math.Cos(theta1-math.Pi/2.0) + phi2

	ddtheta2 := (torque + d2/d1*phi1 -
		m2*l1*lc2*dtheta1*dtheta1*math.Sin(theta2) - phi2) /
		(m2*lc2*lc2 + i2 - d2*d2/d1)
	ddtheta1 := -(d2*ddtheta2 + phi1) / d1

	return []float64{dtheta1, dtheta2, ddtheta1, ddtheta2}
}

// rk4 integrates the Acrobot dynamics for dt seconds from state s with
// constant torque using 4-th order Runge-Kutta
func rk4(s []float64, torque, dt float64) []float64 {
	shifted := func(k []float64, h float64) []float64 {
		out := make([]float64, len(s))
		for i := range s {
			out[i] = s[i] + h*k[i]
		}
		return out
	}

	k1 := dsDt(s, torque)
	k2 := dsDt(shifted(k1, dt/2), torque)
	k3 := dsDt(shifted(k2, dt/2), torque)
	k4 := dsDt(shifted(k3, dt), torque)

	next := make([]float64, len(s))
	for i := range s {
		next[i] = s[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}

// StartBounds returns the bounds of the default starting state
// distribution, with each feature drawn uniformly from [-0.1, 0.1]
func StartBounds() []r1.Interval {
	bounds := make([]r1.Interval, Features)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -0.1, Max: 0.1}
	}
	return bounds
}
