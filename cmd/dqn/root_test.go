package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/replaydqn/experiment"
	"github.com/samuelfneumann/replaydqn/network"
	"github.com/stretchr/testify/require"
)

const smallConfig = `{
	"Episodes": 2,
	"AgentConf": {
		"PolicyLayers": [8],
		"Activations": ["tanh"],
		"ExpReplay": {"Capacity": 1000, "SampleSize": 4}
	}
}`

func writeConfig(t *testing.T) string {
	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, []byte(smallConfig), 0o644))
	return filename
}

func run(t *testing.T, args ...string) (string, error) {
	t.Cleanup(func() { configFile, logLevel = "", "info" })

	cmd := rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "config", "--config", writeConfig(t))
	require.NoError(t, err)

	var c experiment.Config
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	require.Equal(t, 2, c.Episodes)
	require.Equal(t, 10, c.TargetUpdateInterval)
	require.Equal(t, []int{8}, c.AgentConf.PolicyLayers)
	require.Equal(t, 4, c.AgentConf.BatchSize())
	require.Equal(t, 0.999, c.AgentConf.Discount)
}

func TestConfigCommandInvalid(t *testing.T) {
	_, err := run(t, "config", "--config", "missing.json")
	require.Error(t, err)
}

func TestTrainCommand(t *testing.T) {
	dir := t.TempDir()
	weights := filepath.Join(dir, "weights.bin")

	_, err := run(t, "train", "--config", writeConfig(t), "--episodes", "2",
		"--log-level", "error", "--save", weights, "--checkpoint-every", "1",
		"--lengths", filepath.Join(dir, "lengths.bin"))
	require.NoError(t, err)

	params, err := network.LoadParameters(weights)
	require.NoError(t, err)
	require.Len(t, params, 4)

	for _, name := range []string{"weights.bin.1.ckpt", "weights.bin.2.ckpt",
		"lengths.bin"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
}

func TestTrainTimestampCheckpoints(t *testing.T) {
	dir := t.TempDir()
	weights := filepath.Join(dir, "weights.bin")

	_, err := run(t, "train", "--config", writeConfig(t), "--episodes", "2",
		"--log-level", "error", "--save", weights, "--checkpoint-every", "1",
		"--checkpoint-naming", "timestamp")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "weights.bin.1.ckpt"))
	require.True(t, os.IsNotExist(err))

	checkpoints, err := filepath.Glob(filepath.Join(dir, "weights.bin.*.ckpt"))
	require.NoError(t, err)
	require.Len(t, checkpoints, 2)
	for _, ckpt := range checkpoints {
		params, err := network.LoadParameters(ckpt)
		require.NoError(t, err)
		require.Len(t, params, 4)
	}
}

func TestTrainCheckpointNamingInvalid(t *testing.T) {
	_, err := run(t, "train", "--config", writeConfig(t), "--episodes", "1",
		"--log-level", "error", "--save", filepath.Join(t.TempDir(), "w.bin"),
		"--checkpoint-every", "1", "--checkpoint-naming", "random")
	require.Error(t, err)
}
