package deepq

import (
	"fmt"

	"github.com/samuelfneumann/replaydqn/agent"
	"github.com/samuelfneumann/replaydqn/agent/policy"
	env "github.com/samuelfneumann/replaydqn/environment"
	"github.com/samuelfneumann/replaydqn/expreplay"
	"github.com/samuelfneumann/replaydqn/initwfn"
	"github.com/samuelfneumann/replaydqn/network"
	"github.com/samuelfneumann/replaydqn/solver"
)

// Config implements a configuration for a DeepQ agent
type Config struct {
	PolicyLayers []int                 // Hidden layer sizes in neural net
	Activations  []*network.Activation // Activation of each hidden layer
	Solver       *solver.Solver        // Solver for learning weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn

	// Decaying ε of the behaviour policy
	Exploration policy.Schedule

	Discount float64

	// Experience replay parameters. The sample size is the batch size
	// of each update.
	ExpReplay expreplay.Config
}

// DefaultConfig returns a Config with the default hyperparameters:
// batches of 128 transitions from a buffer of 10000, a discount of
// 0.999, ε decaying from 0.9 to 0.05 with a time constant of 200
// selections, and RMSProp with a step size of 0.01.
func DefaultConfig() Config {
	rmsprop, err := solver.NewDefaultRMSProp(0.01, 1)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: %v", err))
	}
	initFn, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		panic(fmt.Sprintf("defaultconfig: %v", err))
	}

	return Config{
		PolicyLayers: []int{64, 64},
		Activations:  []*network.Activation{network.ReLU(), network.ReLU()},
		Solver:       rmsprop,
		InitWFn:      initFn,
		Exploration:  policy.Schedule{Start: 0.9, End: 0.05, Decay: 200},
		Discount:     0.999,
		ExpReplay:    expreplay.Config{Capacity: 10000, SampleSize: 128},
	}
}

// BatchSize returns the batch size of the agent constructed using this
// Config
func (c Config) BatchSize() int {
	return c.ExpReplay.SampleSize
}

// Validate checks a Config to ensure it is a valid configuration of a
// DeepQ agent.
func (c Config) Validate() error {
	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers),
			len(c.Activations))
	}
	for i, act := range c.Activations {
		if act == nil {
			return fmt.Errorf("validate: activation %v is nil", i)
		}
	}

	if c.Solver == nil {
		return fmt.Errorf("validate: a solver is required")
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: a weight initializer is required")
	}

	if c.Discount <= 0 || c.Discount >= 1 {
		return fmt.Errorf("validate: discount must be in (0, 1) \n\t"+
			"have(%v)", c.Discount)
	}

	if err := c.Exploration.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := c.ExpReplay.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	return nil
}

// CreateAgent creates a new DeepQ agent based on the configuration
func (c Config) CreateAgent(e env.Environment, seed uint64) (agent.Agent,
	error) {
	return New(e, c, seed)
}
