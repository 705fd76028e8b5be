package environment

import (
	"testing"

	"github.com/samuelfneumann/replaydqn/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(3)

	step := timestep.New(timestep.Mid, 1, mat.NewVecDense(1, nil), 2)
	require.False(t, limit.End(&step))
	require.True(t, step.Mid())

	step.Number = 3
	require.True(t, limit.End(&step))
	require.True(t, step.Last())
	require.Equal(t, timestep.Timeout, step.EndType())

	unbounded := NewStepLimit(0)
	step = timestep.New(timestep.Mid, 1, mat.NewVecDense(1, nil), 1e6)
	require.False(t, unbounded.End(&step))
}

func TestIntervalLimit(t *testing.T) {
	_, err := NewIntervalLimit([]r1.Interval{{Min: -1, Max: 1}}, nil,
		timestep.TerminalStateReached)
	require.Error(t, err)

	limit, err := NewIntervalLimit(
		[]r1.Interval{{Min: -1, Max: 1}},
		[]int{1},
		timestep.TerminalStateReached,
	)
	require.NoError(t, err)

	inside := timestep.New(timestep.Mid, 0,
		mat.NewVecDense(2, []float64{100, 0.5}), 1)
	require.False(t, limit.End(&inside))

	outside := timestep.New(timestep.Mid, 0,
		mat.NewVecDense(2, []float64{0, -1.5}), 1)
	require.True(t, limit.End(&outside))
	require.True(t, outside.Last())
	require.Equal(t, timestep.TerminalStateReached, outside.EndType())
}

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: -0.05, Max: 0.05}, {Min: 1, Max: 2}}
	starter, err := NewUniformStarter(bounds, 3)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		state := starter.Start()
		require.Equal(t, 2, state.Len())
		for j, b := range bounds {
			assert.GreaterOrEqual(t, state.AtVec(j), b.Min)
			assert.LessOrEqual(t, state.AtVec(j), b.Max)
		}
	}

	_, err = NewUniformStarter(nil, 3)
	require.Error(t, err)
	_, err = NewUniformStarter([]r1.Interval{{Min: 1, Max: 0}}, 3)
	require.Error(t, err)
}

func TestNumActions(t *testing.T) {
	n, err := NewDiscreteActionSpec(2).NumActions()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	continuous := NewSpec(mat.NewVecDense(1, nil), Action,
		mat.NewVecDense(1, []float64{-1}), mat.NewVecDense(1, []float64{1}),
		Continuous)
	_, err = continuous.NumActions()
	require.Error(t, err)

	observation := NewSpec(mat.NewVecDense(1, nil), Observation,
		mat.NewVecDense(1, nil), mat.NewVecDense(1, []float64{1}), Discrete)
	_, err = observation.NumActions()
	require.Error(t, err)

	shifted := NewSpec(mat.NewVecDense(1, nil), Action,
		mat.NewVecDense(1, []float64{1}), mat.NewVecDense(1, []float64{3}),
		Discrete)
	_, err = shifted.NumActions()
	require.Error(t, err)
}
