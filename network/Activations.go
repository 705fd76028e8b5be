package network

import (
	"encoding/json"
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
)

type activationType string

const (
	relu     activationType = "relu"
	identity activationType = "identity"
	tanh     activationType = "tanh"
)

// Activation represents an activation function. Each Activation can be
// added to a computational graph or applied directly to a float, the
// latter being used by detached (gradient-free) forward passes.
type Activation struct {
	activationType
	f      func(x *G.Node) (*G.Node, error)
	scalar func(x float64) float64
}

// fwd adds the Activation to the computational graph
func (a *Activation) fwd(x *G.Node) (*G.Node, error) {
	return a.f(x)
}

// apply applies the Activation to a single value
func (a *Activation) apply(x float64) float64 {
	return a.scalar(x)
}

// String implements the Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// IsIdentity returns whether or not the Activation is the identity
// function.
func (a *Activation) IsIdentity() bool {
	return a.activationType == identity
}

// MarshalJSON implements the json.Marshaler interface
func (a *Activation) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a.activationType))
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (a *Activation) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	act, err := ActivationFromName(name)
	if err != nil {
		return fmt.Errorf("unmarshaljson: %w", err)
	}
	*a = *act
	return nil
}

// ActivationFromName returns the Activation with the given name
func ActivationFromName(name string) (*Activation, error) {
	switch activationType(name) {
	case relu:
		return ReLU(), nil
	case identity:
		return Identity(), nil
	case tanh:
		return TanH(), nil
	}
	return nil, fmt.Errorf("illegal Activation type %q", name)
}

// Identity returns an identity *Activation
func Identity() *Activation {
	return &Activation{
		activationType: identity,
		f: func(x *G.Node) (*G.Node, error) {
			return x, nil
		},
		scalar: func(x float64) float64 { return x },
	}
}

// ReLU returns a ReLU *Activation
func ReLU() *Activation {
	return &Activation{
		activationType: relu,
		f:              G.Rectify,
		scalar:         func(x float64) float64 { return math.Max(x, 0) },
	}
}

// TanH returns a tanh *Activation
func TanH() *Activation {
	return &Activation{
		activationType: tanh,
		f:              G.Tanh,
		scalar:         math.Tanh,
	}
}
