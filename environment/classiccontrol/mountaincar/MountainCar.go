// Package mountaincar implements the discrete action classic control
// environment "Mountain Car"
package mountaincar

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
	MinPosition float64 = -1.2
	MaxPosition float64 = 0.6
	MaxSpeed    float64 = 0.07
	Power       float64 = 0.0015 // Engine power
	Gravity     float64 = 0.0025

	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2

	Features int = 2
)

// MountainCar implements the classic control Mountain Car environment.
// In this environment, the agent controls a car in a valley between two
// hills. The car is underpowered and cannot drive up the hill unless
// it rocks back and forth from hill to hill, using its momentum to
// gradually climb higher.
//
// State features consist of the x position of the car and its velocity.
// Upon reaching the minimum position while moving left, the velocity of
// the car is set to 0.
//
// Actions are discrete and determine in which direction to apply full
// accelerating force to the car:
//
//	Action	Meaning
//	  0		Accelerate left
//	  1		Do nothing
//	  2		Accelerate right
type MountainCar struct {
	env.Task
	positionBounds r1.Interval
	speedBounds    r1.Interval
	lastStep       ts.TimeStep
	done           bool
}

// New creates a new Mountain Car environment with the argument task.
// Reset must be called to start the first episode.
func New(t env.Task) *MountainCar {
	return &MountainCar{
		Task:           t,
		positionBounds: r1.Interval{Min: MinPosition, Max: MaxPosition},
		speedBounds:    r1.Interval{Min: -MaxSpeed, Max: MaxSpeed},
		done:           true,
	}
}

// ObservationSpec returns the observation specification of the
// environment
func (m *MountainCar) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(Features, nil)
	lowerBound := mat.NewVecDense(Features, []float64{m.positionBounds.Min,
		m.speedBounds.Min})
	upperBound := mat.NewVecDense(Features, []float64{m.positionBounds.Max,
		m.speedBounds.Max})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// ActionSpec returns the action specification of the environment
func (m *MountainCar) ActionSpec() env.Spec {
	return env.NewDiscreteActionSpec(MaxDiscreteAction + 1)
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (m *MountainCar) Reset() (ts.TimeStep, error) {
	state := m.Start()
	if err := m.validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	m.lastStep = ts.New(ts.First, 0, state, 0)
	m.done = false
	return m.lastStep, nil
}

// Step takes one environmental step given action a and returns the next
// timestep and a bool indicating whether or not the episode has ended
func (m *MountainCar) Step(a int) (ts.TimeStep, bool, error) {
	if m.done {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"the environment must be reset")
	}
	if a < MinDiscreteAction || a > MaxDiscreteAction {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action %v "+
			"∉ (0, 1, 2)", a)
	}

	force := float64(a - 1)
	state := m.lastStep.Observation
	position, velocity := state.AtVec(0), state.AtVec(1)

	velocity += force*Power - Gravity*math.Cos(3*position)
	velocity = floatutils.Clip(velocity, m.speedBounds.Min, m.speedBounds.Max)

	position += velocity
	position = floatutils.Clip(position, m.positionBounds.Min,
		m.positionBounds.Max)

	// Inelastic collision with the left wall
	if position <= m.positionBounds.Min && velocity < 0 {
		velocity = 0
	}

	newState := mat.NewVecDense(Features, []float64{position, velocity})
	reward := m.GetReward(state, a, newState)
	nextStep := ts.New(ts.Mid, reward, newState, m.lastStep.Number+1)

	m.End(&nextStep)

	m.lastStep = nextStep
	m.done = nextStep.Last()
	return nextStep, m.done, nil
}

// String implements the fmt.Stringer interface
func (m *MountainCar) String() string {
	if m.lastStep.Observation == nil {
		return "Mountain Car  |  not started"
	}
	str := "Mountain Car  |  Position: %v  |  Speed: %v"
	state := m.lastStep.Observation
	return fmt.Sprintf(str, state.AtVec(0), state.AtVec(1))
}

func (m *MountainCar) validateState(s *mat.VecDense) error {
	if s.Len() != Features {
		return fmt.Errorf("state should have %v features \n\thave(%v)",
			Features, s.Len())
	}

	position := s.AtVec(0)
	if position < m.positionBounds.Min || position > m.positionBounds.Max {
		return fmt.Errorf("illegal position %v ∉ [%v, %v]", position,
			m.positionBounds.Min, m.positionBounds.Max)
	}

	speed := s.AtVec(1)
	if speed < m.speedBounds.Min || speed > m.speedBounds.Max {
		return fmt.Errorf("illegal speed %v ∉ [%v, %v]", speed,
			m.speedBounds.Min, m.speedBounds.Max)
	}
	return nil
}

// StartBounds returns the bounds of the default starting state
// distribution: position in [-0.6, -0.4] with zero velocity
func StartBounds() []r1.Interval {
	return []r1.Interval{{Min: -0.6, Max: -0.4}, {Min: 0, Max: 0}}
}
