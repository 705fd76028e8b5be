package tracker

import (
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/replaydqn/timestep"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// episode returns the TimeSteps of an episode with the given rewards
func episode(rewards ...float64) []ts.TimeStep {
	obs := mat.NewVecDense(1, nil)
	steps := []ts.TimeStep{ts.New(ts.First, 0, obs, 0)}
	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		steps = append(steps, ts.New(stepType, r, obs, i+1))
	}
	return steps
}

func TestEpisodeLengthAndReturn(t *testing.T) {
	dir := t.TempDir()
	lengths := NewEpisodeLength(filepath.Join(dir, "lengths.bin"))
	returns := NewReturn(filepath.Join(dir, "returns.bin"))

	for _, ep := range [][]float64{{1, 1, 1}, {-1, 2}} {
		for _, step := range episode(ep...) {
			lengths.Track(step)
			returns.Track(step)
		}
	}
	// An unfinished episode is not recorded
	for _, step := range episode(5, 5)[:2] {
		lengths.Track(step)
		returns.Track(step)
	}

	require.Equal(t, []float64{3, 2}, lengths.Data())
	require.Equal(t, []float64{3, 1}, returns.Data())

	require.NoError(t, lengths.Save())
	require.NoError(t, returns.Save())

	data, err := LoadData(filepath.Join(dir, "lengths.bin"))
	require.NoError(t, err)
	require.Equal(t, []float64{3, 2}, data)

	data, err = LoadData(filepath.Join(dir, "returns.bin"))
	require.NoError(t, err)
	require.Equal(t, []float64{3, 1}, data)

	_, err = LoadData(filepath.Join(dir, "missing.bin"))
	require.Error(t, err)
}

func TestWindow(t *testing.T) {
	_, err := NewWindow(0)
	require.Error(t, err)

	w, err := NewWindow(3)
	require.NoError(t, err)
	require.Equal(t, 0.0, w.Mean())

	w.Add(1)
	w.Add(2)
	require.Equal(t, 1.5, w.Mean())

	w.Add(3)
	w.Add(10)
	require.Equal(t, 3, w.Len())
	require.Equal(t, []float64{2, 3, 10}, w.Values())
	require.Equal(t, 5.0, w.Mean())
}
