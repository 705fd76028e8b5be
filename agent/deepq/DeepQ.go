// Package deepq implements the deep Q-learning algorithm with an
// experience replay buffer and a target network
package deepq

import (
	"fmt"

	"github.com/samuelfneumann/replaydqn/agent/policy"
	env "github.com/samuelfneumann/replaydqn/environment"
	"github.com/samuelfneumann/replaydqn/expreplay"
	"github.com/samuelfneumann/replaydqn/network"
	"github.com/samuelfneumann/replaydqn/solver"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"github.com/samuelfneumann/replaydqn/utils/floatutils"
	"github.com/samuelfneumann/replaydqn/utils/op"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GradientClip is the bound on the magnitude of each gradient element
// applied before every update
const GradientClip float64 = 1.0

// evaluator computes the action values of a batch of states without
// tracking gradients
type evaluator interface {
	Forward(states mat.Matrix) *mat.Dense
}

// DeepQ implements the deep Q-learning algorithm (DQN).
//
// The policy network is trained on batches sampled uniformly from an
// experience replay buffer, using the Huber loss of the TD error. The
// update target is computed by a target network which has no
// computational graph, so no gradient can flow through it. The target
// network only changes when SyncTarget is called.
//
// Actions are selected ε-greedily with respect to the policy network,
// with ε decaying with the number of actions selected.
type DeepQ struct {
	policyNet *network.MLP
	vm        G.VM
	solver    *solver.Solver

	target *network.Frozen

	behaviour *policy.EGreedy
	replay    *expreplay.Buffer

	// Input nodes of the training graph
	selectedActions *G.Node // One-hot actions taken in the batch
	expected        *G.Node // Update targets r + γ max Q(s', a')

	cost    *G.Node
	costVal G.Value
	loss    float64

	numActions int
	features   int
	batchSize  int
	discount   float64

	gradientSteps int
}

// New creates and returns a new DeepQ agent
func New(e env.Environment, config Config, seed uint64) (*DeepQ, error) {
	// Ensure the environment has discrete actions enumerated from 0
	numActions, err := e.ActionSpec().NumActions()
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	features := e.ObservationSpec().Features()
	batchSize := config.BatchSize()

	g := G.NewGraph()
	policyNet, err := network.NewMLP(features, batchSize, numActions, g,
		config.PolicyLayers, config.InitWFn.InitWFn(), config.Activations)
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy network: %w",
			err)
	}

	// Action selected in each sampled state. This is needed to compute
	// the loss using the correct action value since the network outputs
	// N action values, one for each environmental action
	selectedActions := G.NewMatrix(g, tensor.Float64,
		G.WithShape(batchSize, numActions), G.WithName("actionSelected"),
		G.WithInit(G.Zeroes()))
	expected := G.NewVector(g, tensor.Float64, G.WithShape(batchSize),
		G.WithName("expected"), G.WithInit(G.Zeroes()))

	predicted, err := op.Gather(policyNet.Prediction(), selectedActions)
	if err != nil {
		return nil, fmt.Errorf("new: could not select action values: %w", err)
	}

	// Compute the mean Huber loss of the TD error
	delta := G.Must(G.Sub(predicted, expected))
	losses, err := op.HuberLoss(delta)
	if err != nil {
		return nil, fmt.Errorf("new: could not compute loss: %w", err)
	}
	cost := G.Must(G.Mean(losses))

	if _, err := G.Grad(cost, policyNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %w", err)
	}

	s, err := config.Solver.Clone()
	if err != nil {
		return nil, fmt.Errorf("new: could not create solver: %w", err)
	}

	// The target network starts as a copy of the policy network
	target, err := policyNet.Freeze()
	if err != nil {
		return nil, fmt.Errorf("new: could not create target network: %w",
			err)
	}

	replay, err := config.ExpReplay.Create(seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create experience replay "+
			"buffer: %w", err)
	}

	behaviour, err := policy.NewEGreedy(config.Exploration, policyNet,
		numActions, seed+1)
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour policy: %w",
			err)
	}

	d := &DeepQ{
		policyNet:       policyNet,
		solver:          s,
		target:          target,
		behaviour:       behaviour,
		replay:          replay,
		selectedActions: selectedActions,
		expected:        expected,
		cost:            cost,
		numActions:      numActions,
		features:        features,
		batchSize:       batchSize,
		discount:        config.Discount,
	}
	G.Read(d.cost, &d.costVal)

	// Compile the graph into a VM after all nodes have been added
	d.vm = G.NewTapeMachine(g, G.BindDualValues(policyNet.Learnables()...))

	return d, nil
}

// SelectAction returns the action selected by the behaviour policy in
// state. In evaluation mode the greedy action is returned.
func (d *DeepQ) SelectAction(state *mat.VecDense) (int, error) {
	if state.Len() != d.features {
		return 0, fmt.Errorf("selectaction: invalid number of features "+
			"\n\twant(%v)\n\thave(%v)", d.features, state.Len())
	}
	return d.behaviour.SelectAction(state)
}

// Observe adds a transition to the replay buffer
func (d *DeepQ) Observe(t ts.Transition) error {
	if err := t.Validate(d.features, d.numActions); err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	d.replay.Push(t)
	return nil
}

// Step performs one update of the policy network on a batch sampled
// from the replay buffer. Step is a no-op until the buffer holds at
// least one batch of transitions.
func (d *DeepQ) Step() error {
	if d.replay.Len() < d.batchSize {
		return nil
	}

	batch, err := d.replay.Sample(d.batchSize)
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	states := make([]float64, d.batchSize*d.features)
	actions := make([]float64, d.batchSize*d.numActions)
	for i, t := range batch {
		row := states[i*d.features : (i+1)*d.features]
		for j := range row {
			row[j] = t.State.AtVec(j)
		}
		actions[i*d.numActions+t.Action] = 1.0
	}

	// Update targets. The next state values come from the target
	// network and are constants with respect to the update.
	expected := nextStateValues(batch, d.target, d.features)
	for i, t := range batch {
		expected[i] = t.Reward + d.discount*expected[i]
	}

	if err := d.policyNet.SetInput(states); err != nil {
		return fmt.Errorf("step: could not set policy input: %w", err)
	}
	actionsTensor := tensor.New(
		tensor.WithShape(d.batchSize, d.numActions),
		tensor.WithBacking(actions),
	)
	if err := G.Let(d.selectedActions, actionsTensor); err != nil {
		return fmt.Errorf("step: could not set selected actions: %w", err)
	}
	expectedTensor := tensor.New(
		tensor.WithShape(d.batchSize),
		tensor.WithBacking(expected),
	)
	if err := G.Let(d.expected, expectedTensor); err != nil {
		return fmt.Errorf("step: could not set update targets: %w", err)
	}

	// Run the learning step
	defer d.vm.Reset()
	if err := d.vm.RunAll(); err != nil {
		return fmt.Errorf("step: could not run the training graph: %w", err)
	}
	d.loss = d.costVal.Data().(float64)

	if err := clipGradients(d.policyNet.Learnables(), GradientClip); err != nil {
		return fmt.Errorf("step: %w", err)
	}
	if err := d.solver.Step(d.policyNet.Model()); err != nil {
		return fmt.Errorf("step: could not update weights: %w", err)
	}
	d.gradientSteps++

	return nil
}

// nextStateValues returns, for each transition in batch, the maximum
// action value of the next state under the evaluator. Final
// transitions have a next state value of 0. Only the next states of
// non-final transitions are evaluated, in batch order.
func nextStateValues(batch []ts.Transition, target evaluator,
	features int) []float64 {
	values := make([]float64, len(batch))

	nonFinal := make([]int, 0, len(batch))
	for i, t := range batch {
		if !t.Final() {
			nonFinal = append(nonFinal, i)
		}
	}
	if len(nonFinal) == 0 {
		return values
	}

	next := mat.NewDense(len(nonFinal), features, nil)
	for row, i := range nonFinal {
		state, _ := batch[i].NextState()
		for j := 0; j < features; j++ {
			next.Set(row, j, state.AtVec(j))
		}
	}

	actionValues := target.Forward(next)
	for row, i := range nonFinal {
		values[i], _ = floatutils.MaxSlice(actionValues.RawRowView(row))
	}
	return values
}

// clipGradients clips each element of the gradients of nodes to
// [-bound, bound] in place
func clipGradients(nodes G.Nodes, bound float64) error {
	for _, n := range nodes {
		grad, err := n.Grad()
		if err != nil {
			return fmt.Errorf("clipgradients: node %v has no gradient: %w",
				n.Name(), err)
		}
		data, ok := grad.Data().([]float64)
		if !ok {
			return fmt.Errorf("clipgradients: node %v has gradient of "+
				"type %T", n.Name(), grad.Data())
		}
		floatutils.ClipSlice(data, -bound, bound)
	}
	return nil
}

// SyncTarget replaces the weights of the target network with a copy of
// the current weights of the policy network
func (d *DeepQ) SyncTarget() error {
	params, err := d.policyNet.Parameters()
	if err != nil {
		return fmt.Errorf("synctarget: %w", err)
	}
	if err := d.target.Load(params); err != nil {
		return fmt.Errorf("synctarget: %w", err)
	}
	return nil
}

// Loss returns the loss of the most recent update
func (d *DeepQ) Loss() float64 {
	return d.loss
}

// GradientSteps returns the number of updates performed
func (d *DeepQ) GradientSteps() int {
	return d.gradientSteps
}

// Epsilon returns the current probability of selecting a random action
func (d *DeepQ) Epsilon() float64 {
	return d.behaviour.Epsilon()
}

// Steps returns the number of actions selected in training mode
func (d *DeepQ) Steps() int {
	return d.behaviour.Steps()
}

// ReplayLen returns the number of transitions in the replay buffer
func (d *DeepQ) ReplayLen() int {
	return d.replay.Len()
}

// PolicyParameters returns a copy of the policy network's weights
func (d *DeepQ) PolicyParameters() (network.Parameters, error) {
	return d.policyNet.Parameters()
}

// TargetParameters returns a copy of the target network's weights
func (d *DeepQ) TargetParameters() network.Parameters {
	return d.target.Parameters()
}

// Save saves the policy network's weights to filename
func (d *DeepQ) Save(filename string) error {
	params, err := d.policyNet.Parameters()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return params.Save(filename)
}

// Load loads policy network weights saved with Save and synchronizes
// the target network with them
func (d *DeepQ) Load(filename string) error {
	params, err := network.LoadParameters(filename)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := d.policyNet.SetParameters(params); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return d.SyncTarget()
}

// Eval sets the agent into evaluation mode
func (d *DeepQ) Eval() {
	d.behaviour.Eval()
}

// Train sets the agent into training mode
func (d *DeepQ) Train() {
	d.behaviour.Train()
}

// IsEval indicates if the agent is in evaluation mode
func (d *DeepQ) IsEval() bool {
	return d.behaviour.IsEval()
}

// Close releases the resources of the agent's VM
func (d *DeepQ) Close() error {
	return d.vm.Close()
}
