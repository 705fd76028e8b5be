// Package wrappers implements environment wrappers which change the
// state representation that agents observe
package wrappers

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Representation derives a state representation from a raw
// observation. Representations must be pure: the same observation
// always produces the same representation, and the observation is
// never modified.
type Representation func(obs *mat.VecDense) (*mat.VecDense, error)

// Derived wraps an environment and replaces each observation with the
// representation derived from it
type Derived struct {
	env.Environment
	repr     Representation
	features int
}

// NewDerived returns a new Derived environment wrapper. The features
// argument is the number of features in each derived representation.
func NewDerived(e env.Environment, repr Representation,
	features int) (*Derived, error) {
	if repr == nil {
		return nil, fmt.Errorf("newderived: representation cannot be nil")
	}
	if features < 1 {
		return nil, fmt.Errorf("newderived: features must be positive "+
			"\n\thave(%v)", features)
	}
	return &Derived{e, repr, features}, nil
}

// Reset resets the environment to some starting state
func (d *Derived) Reset() (ts.TimeStep, error) {
	step, err := d.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	if step.Observation, err = d.derive(step.Observation); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	return step, nil
}

// Step takes one environmental step given some action
func (d *Derived) Step(action int) (ts.TimeStep, bool, error) {
	step, done, err := d.Environment.Step(action)
	if err != nil {
		return ts.TimeStep{}, done, err
	}

	if step.Observation, err = d.derive(step.Observation); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}
	return step, done, nil
}

// ObservationSpec returns the observation specification of the derived
// representation, which is unbounded
func (d *Derived) ObservationSpec() env.Spec {
	lower := make([]float64, d.features)
	upper := make([]float64, d.features)
	for i := range lower {
		lower[i] = math.Inf(-1)
		upper[i] = math.Inf(1)
	}

	return env.NewSpec(
		mat.NewVecDense(d.features, nil),
		env.Observation,
		mat.NewVecDense(d.features, lower),
		mat.NewVecDense(d.features, upper),
		env.Continuous,
	)
}

func (d *Derived) derive(obs *mat.VecDense) (*mat.VecDense, error) {
	repr, err := d.repr(obs)
	if err != nil {
		return nil, fmt.Errorf("could not derive representation: %w", err)
	}
	if repr.Len() != d.features {
		return nil, fmt.Errorf("representation has %v features, expected %v",
			repr.Len(), d.features)
	}
	return repr, nil
}

// Scaled returns a Representation which divides each feature i by
// scales[i]
func Scaled(scales []float64) (Representation, error) {
	for i, s := range scales {
		if s == 0 {
			return nil, fmt.Errorf("scaled: scale %v is zero", i)
		}
	}
	inverse := make([]float64, len(scales))
	for i, s := range scales {
		inverse[i] = 1 / s
	}
	factors := mat.NewVecDense(len(inverse), inverse)

	return func(obs *mat.VecDense) (*mat.VecDense, error) {
		if obs.Len() != factors.Len() {
			return nil, fmt.Errorf("scaled: observation has %v features, "+
				"expected %v", obs.Len(), factors.Len())
		}
		out := mat.NewVecDense(obs.Len(), nil)
		out.MulElemVec(obs, factors)
		return out, nil
	}, nil
}
