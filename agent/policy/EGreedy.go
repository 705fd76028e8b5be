// Package policy implements action selection policies for agents with
// discrete actions
package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/replaydqn/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// ActionValuer computes the value of each action in a state without
// tracking gradients
type ActionValuer interface {
	ActionValues(state []float64) ([]float64, error)
}

// Schedule describes an exponentially decaying exploration rate. After
// n action selections the probability of acting randomly is
//
//	End + (Start - End) * exp(-n / Decay)
type Schedule struct {
	Start float64
	End   float64
	Decay float64
}

// Threshold returns the exploration rate after steps selections
func (s Schedule) Threshold(steps int) float64 {
	return s.End + (s.Start-s.End)*math.Exp(-float64(steps)/s.Decay)
}

// Validate returns an error if the Schedule is invalid. The rate may
// stay constant but never grow, so Start must be at least End.
func (s Schedule) Validate() error {
	if s.Start < 0 || s.Start > 1 || s.End < 0 || s.End > 1 {
		return fmt.Errorf("epsilon start (%v) and end (%v) must be in [0, 1]",
			s.Start, s.End)
	}
	if s.Start < s.End {
		return fmt.Errorf("epsilon start (%v) cannot be less than end (%v)",
			s.Start, s.End)
	}
	if s.Decay <= 0 {
		return fmt.Errorf("epsilon decay must be positive \n\thave(%v)",
			s.Decay)
	}
	return nil
}

// EGreedy implements an ε-greedy policy whose ε decays with the number
// of actions it has selected. Greedy actions are the first action of
// maximum value.
//
// The count of selections belongs to the EGreedy value; it is never
// reset and advances exactly once per call to SelectAction in training
// mode. In evaluation mode, actions are always greedy and the count
// does not advance.
type EGreedy struct {
	schedule   Schedule
	valuer     ActionValuer
	numActions int
	steps      int
	rng        *rand.Rand
	eval       bool
}

// NewEGreedy constructs a new EGreedy policy selecting between
// numActions actions, using valuer to compute action values
func NewEGreedy(schedule Schedule, valuer ActionValuer, numActions int,
	seed uint64) (*EGreedy, error) {
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("newegreedy: %w", err)
	}
	if numActions < 1 {
		return nil, fmt.Errorf("newegreedy: at least one action is " +
			"required")
	}
	if valuer == nil {
		return nil, fmt.Errorf("newegreedy: valuer cannot be nil")
	}

	return &EGreedy{
		schedule:   schedule,
		valuer:     valuer,
		numActions: numActions,
		rng:        rand.New(rand.NewSource(seed)),
	}, nil
}

// SelectAction selects an action in state
func (e *EGreedy) SelectAction(state *mat.VecDense) (int, error) {
	if e.eval {
		return e.Greedy(state)
	}

	threshold := e.schedule.Threshold(e.steps)
	e.steps++

	if e.rng.Float64() > threshold {
		return e.Greedy(state)
	}
	return e.rng.Intn(e.numActions), nil
}

// Greedy returns the greedy action in state. State may be a strided
// view, such as a matrix column.
func (e *EGreedy) Greedy(state *mat.VecDense) (int, error) {
	values, err := e.valuer.ActionValues(mat.Col(nil, 0, state))
	if err != nil {
		return 0, fmt.Errorf("greedy: could not compute action values: %w",
			err)
	}
	if len(values) != e.numActions {
		return 0, fmt.Errorf("greedy: expected %v action values \n\t"+
			"have(%v)", e.numActions, len(values))
	}
	return floatutils.Argmax(values), nil
}

// Steps returns the number of actions selected in training mode
func (e *EGreedy) Steps() int {
	return e.steps
}

// Epsilon returns the probability of the next selection being random
func (e *EGreedy) Epsilon() float64 {
	if e.eval {
		return 0
	}
	return e.schedule.Threshold(e.steps)
}

// Schedule returns the exploration schedule
func (e *EGreedy) Schedule() Schedule {
	return e.schedule
}

// NumActions returns the number of actions the policy selects between
func (e *EGreedy) NumActions() int {
	return e.numActions
}

// Eval sets the policy to evaluation mode
func (e *EGreedy) Eval() {
	e.eval = true
}

// Train sets the policy to training mode
func (e *EGreedy) Train() {
	e.eval = false
}

// IsEval indicates if in evaluation mode
func (e *EGreedy) IsEval() bool {
	return e.eval
}
