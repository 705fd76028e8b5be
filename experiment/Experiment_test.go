package experiment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/replaydqn/expreplay"
	"github.com/samuelfneumann/replaydqn/network"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	require.Equal(t, 50, c.Episodes)
	require.Equal(t, 10, c.TargetUpdateInterval)
	require.Equal(t, 128, c.AgentConf.BatchSize())

	data, err := json.Marshal(c)
	require.NoError(t, err)
	var decoded Config
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, decoded.Validate())
	require.Equal(t, c.EnvConf, decoded.EnvConf)
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	c.Episodes = 0
	require.Error(t, c.Validate())

	c = DefaultConfig()
	c.TargetUpdateInterval = 0
	require.Error(t, c.Validate())

	c = DefaultConfig()
	c.AgentConf.Discount = 2
	require.Error(t, c.Validate())
}

func TestCreateAndRun(t *testing.T) {
	c := DefaultConfig()
	c.Episodes = 3
	c.TargetUpdateInterval = 2
	c.AgentConf.PolicyLayers = []int{8}
	c.AgentConf.Activations = []*network.Activation{network.ReLU()}
	c.AgentConf.ExpReplay = expreplay.Config{Capacity: 10000, SampleSize: 8}

	s, a, err := c.Create(1, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, TrainingComplete, s.State())
	require.Equal(t, s.TotalSteps(), a.Steps())
	require.Equal(t, s.TotalSteps(), a.ReplayLen())
	require.Equal(t, s.TotalSteps()-7, a.GradientSteps())

	// The target was last synchronized after episode 2, the final episode
	policy, err := a.PolicyParameters()
	require.NoError(t, err)
	require.True(t, policy.Equal(a.TargetParameters()))
}
