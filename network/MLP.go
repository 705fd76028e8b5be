// Package network implements the function approximators used to
// estimate action values. Trainable networks are built with Gorgonia,
// while detached (gradient-free) evaluation is performed with Gonum.
package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MLP implements a multi-layered perceptron with one output per
// predicted value. Given an environment with N actions, an MLP
// with N outputs predicts the value of each action.
//
// An MLP populates a gorgonia.ExprGraph with its forward pass on a
// batch of inputs but does not have a VM of its own. To train the MLP,
// the graph should be extended with a loss, compiled into a VM, and
// run after setting the input with SetInput().
//
// The MLP can also be evaluated on a single input without running any
// VM using ActionValues(). This path reads the current weights
// directly and never computes or stores gradients.
type MLP struct {
	g          *G.ExprGraph
	layers     []*fcLayer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	hiddenSizes []int
	activations []*Activation // One per layer, including the output layer

	learnables G.Nodes

	prediction *G.Node
	predVal    G.Value
}

// NewMLP creates and returns a new multi-layered perceptron with
// outputs output nodes. The graph parameter g is populated with the
// MLP's forward pass on a batch of batch inputs, each with features
// features.
//
// The MLP has len(hiddenSizes) + 1 layers. For index i, hiddenSizes[i]
// is the number of nodes in hidden layer i and activations[i] is the
// activation function of hidden layer i. A final linear layer with no
// activation is always added so that the network has outputs outputs.
// Every layer has a bias unit. The parameter init determines the
// weight initialization scheme, and biases are initialized to zero.
//
// It is easy to create a linear function approximator by setting
// hiddenSizes and activations to empty slices.
func NewMLP(features, batch, outputs int, g *G.ExprGraph, hiddenSizes []int,
	init G.InitWFn, activations []*Activation) (*MLP, error) {
	if len(hiddenSizes) != len(activations) {
		msg := "newmlp: invalid number of activations\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}
	if features < 1 || batch < 1 || outputs < 1 {
		return nil, fmt.Errorf("newmlp: features (%v), batch (%v), and "+
			"outputs (%v) must be positive", features, batch, outputs)
	}
	for i, size := range hiddenSizes {
		if size < 1 {
			return nil, fmt.Errorf("newmlp: hidden layer %v must have a "+
				"positive size \n\thave(%v)", i, size)
		}
	}

	// Copy so appending the output layer never aliases caller slices
	sizes := append(append([]int{}, hiddenSizes...), outputs)
	acts := append(append([]*Activation{}, activations...), Identity())

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	layers := make([]*fcLayer, len(sizes))
	inputs := features
	for i := range sizes {
		layers[i] = newFCLayer(g, inputs, sizes[i], init, acts[i],
			fmt.Sprintf("L%v", i))
		inputs = sizes[i]
	}

	net := &MLP{
		g:           g,
		layers:      layers,
		input:       input,
		numOutputs:  outputs,
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: sizes[:len(sizes)-1],
		activations: acts,
	}

	if _, err := net.fwd(input); err != nil {
		return nil, fmt.Errorf("newmlp: could not compute forward pass: %w",
			err)
	}

	return net, nil
}

// fwd performs the forward pass of the MLP on the input node
func (m *MLP) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %w"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)

	return pred, nil
}

// Graph returns the computational graph of the MLP
func (m *MLP) Graph() *G.ExprGraph {
	return m.g
}

// BatchSize returns the batch size of inputs to the MLP
func (m *MLP) BatchSize() int {
	return m.batchSize
}

// Features returns the number of features in a single input
func (m *MLP) Features() int {
	return m.numInputs
}

// Outputs returns the number of outputs from the network
func (m *MLP) Outputs() int {
	return m.numOutputs
}

// HiddenSizes returns the sizes of the hidden layers
func (m *MLP) HiddenSizes() []int {
	return append([]int{}, m.hiddenSizes...)
}

// Activations returns the activation of each layer, including the
// identity activation of the output layer
func (m *MLP) Activations() []*Activation {
	return append([]*Activation{}, m.activations...)
}

// SetInput sets the value of the input node before running the forward
// pass. The input should be a batch of inputs in row major order.
func (m *MLP) SetInput(input []float64) error {
	if len(input) != m.numInputs*m.batchSize {
		return fmt.Errorf("setinput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", m.numInputs*m.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(m.input.Shape()...),
	)
	return G.Let(m.input, inputTensor)
}

// Prediction returns the node of the computational graph that stores
// the output of the MLP, of shape (batch, outputs)
func (m *MLP) Prediction() *G.Node {
	return m.prediction
}

// Output returns the output of the MLP computed on the last run of the
// computational graph
func (m *MLP) Output() G.Value {
	return m.predVal
}

// Learnables returns the learnable nodes of the MLP, ordered in the
// same way as Parameters
func (m *MLP) Learnables() G.Nodes {
	// Lazy instantiation
	if m.learnables == nil {
		learnables := make(G.Nodes, 0, 2*len(m.layers))
		for _, l := range m.layers {
			learnables = append(learnables, l.weights, l.bias)
		}
		m.learnables = learnables
	}
	return m.learnables
}

// Model returns the learnables nodes with their gradients
func (m *MLP) Model() []G.ValueGrad {
	return G.NodesToValueGrads(m.Learnables())
}

// views returns Gonum matrices which share memory with the current
// values of the learnables. Views observe every subsequent update and
// must not be modified.
func (m *MLP) views() (Parameters, error) {
	learnables := m.Learnables()
	views := make(Parameters, len(learnables))

	for i, node := range learnables {
		value, ok := node.Value().(*tensor.Dense)
		if !ok {
			return nil, fmt.Errorf("learnable %v has no dense value",
				node.Name())
		}
		shape := value.Shape()
		views[i] = mat.NewDense(shape[0], shape[1],
			value.Data().([]float64))
	}
	return views, nil
}

// Parameters returns a snapshot of the current weights of the MLP
func (m *MLP) Parameters() (Parameters, error) {
	views, err := m.views()
	if err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}
	return views.Clone(), nil
}

// SetParameters sets the weights of the MLP to the given Parameters,
// which must have been taken from a network of the same architecture.
// Weights are copied in place so any compiled VM keeps its bindings.
func (m *MLP) SetParameters(p Parameters) error {
	views, err := m.views()
	if err != nil {
		return fmt.Errorf("setparameters: %w", err)
	}
	if err := views.SameShape(p); err != nil {
		return fmt.Errorf("setparameters: %w", err)
	}

	for i := range views {
		views[i].Copy(p[i])
	}
	return nil
}

// ActionValues returns the network's outputs for a single input. The
// computation is detached: it does not touch the computational graph
// or any gradient.
func (m *MLP) ActionValues(input []float64) ([]float64, error) {
	if len(input) != m.numInputs {
		return nil, fmt.Errorf("actionvalues: invalid input size \n\t"+
			"want(%v)\n\thave(%v)", m.numInputs, len(input))
	}

	views, err := m.views()
	if err != nil {
		return nil, fmt.Errorf("actionvalues: %w", err)
	}
	x := mat.NewDense(1, m.numInputs, input)

	out := forward(views, m.activations, x)
	return append([]float64{}, out.RawRowView(0)...), nil
}

// Freeze returns a detached copy of the MLP's current weights which can
// evaluate any number of inputs without a computational graph.
func (m *MLP) Freeze() (*Frozen, error) {
	p, err := m.Parameters()
	if err != nil {
		return nil, fmt.Errorf("freeze: %w", err)
	}
	return NewFrozen(p, m.Activations())
}
