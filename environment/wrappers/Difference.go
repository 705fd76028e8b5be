package wrappers

import (
	"fmt"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Difference wraps an environment so that the observed state is the
// elementwise difference between the two most recent observations of
// the wrapped environment. The first state of each episode is the zero
// vector, since its two most recent observations are identical.
type Difference struct {
	env.Environment
	last *mat.VecDense
}

// NewDifference returns a new Difference environment wrapper
func NewDifference(e env.Environment) *Difference {
	return &Difference{Environment: e}
}

// Reset resets the environment to some starting state
func (d *Difference) Reset() (ts.TimeStep, error) {
	step, err := d.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	d.last = mat.VecDenseCopyOf(step.Observation)
	step.Observation = mat.NewVecDense(d.last.Len(), nil)
	return step, nil
}

// Step takes one environmental step given some action
func (d *Difference) Step(action int) (ts.TimeStep, bool, error) {
	if d.last == nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: the environment " +
			"must be reset")
	}

	step, done, err := d.Environment.Step(action)
	if err != nil {
		return ts.TimeStep{}, done, err
	}

	current := step.Observation
	if current.Len() != d.last.Len() {
		return ts.TimeStep{}, true, fmt.Errorf("step: observation has %v "+
			"features, expected %v", current.Len(), d.last.Len())
	}

	diff := mat.NewVecDense(current.Len(), nil)
	diff.SubVec(current, d.last)

	d.last = mat.VecDenseCopyOf(current)
	step.Observation = diff
	return step, done, nil
}

// ObservationSpec returns the observation specification of the
// differenced observations. Each bound is the widest possible
// difference of the wrapped environment's bounds.
func (d *Difference) ObservationSpec() env.Spec {
	spec := d.Environment.ObservationSpec()
	features := spec.Features()

	lower := mat.NewVecDense(features, nil)
	lower.SubVec(spec.LowerBound, spec.UpperBound)
	upper := mat.NewVecDense(features, nil)
	upper.SubVec(spec.UpperBound, spec.LowerBound)

	return env.NewSpec(spec.Shape, env.Observation, lower, upper,
		env.Continuous)
}
