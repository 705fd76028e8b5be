package network

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Parameters is an ordered snapshot of the weights of a feed forward
// network. For each layer, the weight matrix (inputs x outputs) is
// followed by the bias row vector (1 x outputs).
type Parameters []*mat.Dense

// Clone returns a deep copy of the Parameters
func (p Parameters) Clone() Parameters {
	clone := make(Parameters, len(p))
	for i := range p {
		clone[i] = mat.DenseCopyOf(p[i])
	}
	return clone
}

// Equal returns whether two sets of Parameters are exactly equal
func (p Parameters) Equal(other Parameters) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !mat.Equal(p[i], other[i]) {
			return false
		}
	}
	return true
}

// SameShape returns an error if two sets of Parameters do not describe
// networks of the same architecture
func (p Parameters) SameShape(other Parameters) error {
	if len(p) != len(other) {
		return fmt.Errorf("invalid number of parameters \n\twant(%v)"+
			"\n\thave(%v)", len(p), len(other))
	}
	for i := range p {
		r, c := p[i].Dims()
		or, oc := other[i].Dims()
		if r != or || c != oc {
			return fmt.Errorf("invalid shape for parameter %v \n\twant(%v, "+
				"%v)\n\thave(%v, %v)", i, r, c, or, oc)
		}
	}
	return nil
}

// validate checks that the Parameters describe a chain of layers
func (p Parameters) validate() error {
	if len(p) == 0 || len(p)%2 != 0 {
		return fmt.Errorf("parameters must hold a weight and bias per layer")
	}
	for l := 0; l < len(p)/2; l++ {
		w, b := p[2*l], p[2*l+1]
		_, outputs := w.Dims()
		br, bc := b.Dims()
		if br != 1 || bc != outputs {
			return fmt.Errorf("layer %v: bias shape (%v, %v) does not match "+
				"%v outputs", l, br, bc, outputs)
		}
		if l > 0 {
			_, prevOutputs := p[2*(l-1)].Dims()
			if inputs, _ := w.Dims(); inputs != prevOutputs {
				return fmt.Errorf("layer %v: %v inputs does not match %v "+
					"outputs of previous layer", l, inputs, prevOutputs)
			}
		}
	}
	return nil
}

// Encode writes the Parameters to w using gob
func (p Parameters) Encode(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode([]*mat.Dense(p)); err != nil {
		return fmt.Errorf("encode: could not encode parameters: %w", err)
	}
	return nil
}

// DecodeParameters reads gob encoded Parameters from r
func DecodeParameters(r io.Reader) (Parameters, error) {
	var p []*mat.Dense
	dec := gob.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decodeparameters: could not decode "+
			"parameters: %w", err)
	}
	return Parameters(p), nil
}

// Save saves the Parameters to filename
func (p Parameters) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %w", err)
	}
	defer file.Close()

	if err := p.Encode(file); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// LoadParameters loads Parameters saved with Parameters.Save
func LoadParameters(filename string) (Parameters, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadparameters: could not open file: %w", err)
	}
	defer file.Close()

	return DecodeParameters(file)
}

// forward computes a detached forward pass of the network described by
// params and activations on the rows of x. No derivative information is
// computed or retained.
func forward(params Parameters, activations []*Activation,
	x mat.Matrix) *mat.Dense {
	in := x
	var out *mat.Dense

	for l := 0; l < len(params)/2; l++ {
		w, b := params[2*l], params[2*l+1]
		rows, _ := in.Dims()
		_, cols := w.Dims()

		out = mat.NewDense(rows, cols, nil)
		out.Mul(in, w)

		bias := b.RawRowView(0)
		act := activations[l]
		for i := 0; i < rows; i++ {
			row := out.RawRowView(i)
			for j := range row {
				row[j] = act.apply(row[j] + bias[j])
			}
		}
		in = out
	}
	return out
}
