// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/replaydqn/agent/deepq"
	"github.com/samuelfneumann/replaydqn/environment/envconfig"
)

// Config represents a configuration of an experiment, which trains a
// DeepQ agent for a number of episodes
type Config struct {
	Episodes             int
	TargetUpdateInterval int // Episodes between target synchronizations
	LogWindow            int // Episodes in the logged mean episode length

	EnvConf   envconfig.Config
	AgentConf deepq.Config
}

// DefaultConfig returns the default experiment: 50 episodes of
// Cartpole, synchronizing the target network every 10 episodes
func DefaultConfig() Config {
	return Config{
		Episodes:             50,
		TargetUpdateInterval: 10,
		LogWindow:            100,
		EnvConf: envconfig.NewConfig(envconfig.Cartpole, envconfig.Balance,
			500, false),
		AgentConf: deepq.DefaultConfig(),
	}
}

// Validate checks a Config to ensure it is a valid configuration of an
// experiment
func (c Config) Validate() error {
	if c.Episodes < 1 {
		return fmt.Errorf("validate: episodes must be positive \n\thave(%v)",
			c.Episodes)
	}
	if c.TargetUpdateInterval < 1 {
		return fmt.Errorf("validate: target update interval must be "+
			"positive \n\thave(%v)", c.TargetUpdateInterval)
	}
	if c.LogWindow < 1 {
		return fmt.Errorf("validate: log window must be positive \n\t"+
			"have(%v)", c.LogWindow)
	}
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := c.AgentConf.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// Create creates the environment, agent, and Scheduler of the
// experiment. The environment is seeded with seed and the agent with
// seed+1.
func (c Config) Create(seed uint64, logger zerolog.Logger) (*Scheduler,
	*deepq.DeepQ, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, fmt.Errorf("create: %w", err)
	}

	e, err := c.EnvConf.Create(seed)
	if err != nil {
		return nil, nil, fmt.Errorf("create: could not create "+
			"environment: %w", err)
	}

	a, err := deepq.New(e, c.AgentConf, seed+1)
	if err != nil {
		return nil, nil, fmt.Errorf("create: could not create agent: %w", err)
	}

	s, err := NewScheduler(e, a, c.Episodes, c.TargetUpdateInterval,
		c.LogWindow, logger)
	if err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("create: %w", err)
	}
	return s, a, nil
}
