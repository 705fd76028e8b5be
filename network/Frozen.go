package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Frozen is a feed forward network evaluated without a computational
// graph. Its outputs are plain matrices with no derivative
// information, so a Frozen network can never receive gradients.
//
// Frozen networks are used as target networks: their weights change
// only through Load, which replaces all weights at once.
type Frozen struct {
	params      Parameters
	activations []*Activation
	features    int
	outputs     int
}

// NewFrozen returns a Frozen network with a copy of the given
// Parameters. There must be one Activation per layer.
func NewFrozen(p Parameters, activations []*Activation) (*Frozen, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("newfrozen: %w", err)
	}
	if len(activations) != len(p)/2 {
		return nil, fmt.Errorf("newfrozen: invalid number of activations "+
			"\n\twant(%v)\n\thave(%v)", len(p)/2, len(activations))
	}

	features, _ := p[0].Dims()
	_, outputs := p[len(p)-1].Dims()

	return &Frozen{
		params:      p.Clone(),
		activations: append([]*Activation{}, activations...),
		features:    features,
		outputs:     outputs,
	}, nil
}

// Forward returns the network's outputs for each row of states. The
// states matrix must have at least one row and Features() columns.
func (f *Frozen) Forward(states mat.Matrix) *mat.Dense {
	if _, c := states.Dims(); c != f.features {
		panic(fmt.Sprintf("forward: invalid number of features \n\twant(%v)"+
			"\n\thave(%v)", f.features, c))
	}
	return forward(f.params, f.activations, states)
}

// Parameters returns a copy of the network's weights
func (f *Frozen) Parameters() Parameters {
	return f.params.Clone()
}

// Load replaces all weights of the network with a copy of p. The copy
// is made before the weights are swapped, so no mix of old and new
// weights is ever used by Forward.
func (f *Frozen) Load(p Parameters) error {
	if err := f.params.SameShape(p); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	f.params = p.Clone()
	return nil
}

// Features returns the number of features in a single input
func (f *Frozen) Features() int {
	return f.features
}

// Outputs returns the number of outputs of the network
func (f *Frozen) Outputs() int {
	return f.outputs
}
