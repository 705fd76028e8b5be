package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NextState is the state following a transition. It is either Final,
// when the episode ended on the transition, or Continuing.
type NextState interface {
	isNextState()
}

// Final marks a transition on which the episode ended. A Final next
// state has no continuation value.
type Final struct{}

func (Final) isNextState() {}

// Continuing holds the state the environment moved to when the
// episode did not end on the transition.
type Continuing struct {
	State *mat.VecDense
}

func (Continuing) isNextState() {}

// Transition is a single (state, action, next state, reward) tuple
// of experience.
//
// Transitions are treated as immutable once constructed. Neither the
// state nor the next state vectors should be modified after a
// Transition is built from them.
type Transition struct {
	State  *mat.VecDense
	Action int
	Next   NextState
	Reward float64
}

// NewTransition returns a Transition which moved to nextState
func NewTransition(state *mat.VecDense, action int, reward float64,
	nextState *mat.VecDense) Transition {
	return Transition{
		State:  state,
		Action: action,
		Next:   Continuing{State: nextState},
		Reward: reward,
	}
}

// NewFinalTransition returns a Transition on which the episode ended
func NewFinalTransition(state *mat.VecDense, action int,
	reward float64) Transition {
	return Transition{
		State:  state,
		Action: action,
		Next:   Final{},
		Reward: reward,
	}
}

// Final returns whether the episode ended on the transition
func (t Transition) Final() bool {
	_, ok := t.Next.(Final)
	return ok
}

// NextState returns the next state of a non-final transition. The
// boolean is false if the transition is final.
func (t Transition) NextState() (*mat.VecDense, bool) {
	if c, ok := t.Next.(Continuing); ok {
		return c.State, true
	}
	return nil, false
}

// Validate checks that a Transition is well formed for a state space
// with the given number of features and an action space of numActions
// actions.
func (t Transition) Validate(features, numActions int) error {
	if t.State == nil {
		return fmt.Errorf("validate: nil state")
	}
	if t.State.Len() != features {
		return fmt.Errorf("validate: invalid state size \n\twant(%v)"+
			"\n\thave(%v)", features, t.State.Len())
	}
	if t.Action < 0 || t.Action >= numActions {
		return fmt.Errorf("validate: action %v not in [0, %v)", t.Action,
			numActions)
	}

	switch next := t.Next.(type) {
	case Final:
	case Continuing:
		if next.State == nil || next.State.Len() != features {
			return fmt.Errorf("validate: invalid next state")
		}
	default:
		return fmt.Errorf("validate: next state must be Final or Continuing")
	}
	return nil
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | Action: %v  |  Reward: %.2f  |  "+
		"Final: %v", t.Action, t.Reward, t.Final())
}
