package acrobot

import (
	"math"
	"testing"

	env "github.com/samuelfneumann/replaydqn/environment"
	ts "github.com/samuelfneumann/replaydqn/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newAcrobot(t *testing.T, steps int) *Acrobot {
	s, err := env.NewUniformStarter(StartBounds(), 1)
	require.NoError(t, err)
	task, err := NewSwingUp(s, steps, GoalHeight)
	require.NoError(t, err)
	return New(task)
}

func TestStepRequiresReset(t *testing.T) {
	a := newAcrobot(t, 10)
	_, _, err := a.Step(1)
	require.Error(t, err)

	_, err = a.Reset()
	require.NoError(t, err)
	_, _, err = a.Step(3)
	require.Error(t, err)
}

func TestSpecs(t *testing.T) {
	a := newAcrobot(t, 10)
	n, err := a.ActionSpec().NumActions()
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, Features, a.ObservationSpec().Features())
}

func TestRestingStateIsStable(t *testing.T) {
	a := New(&SwingUp{
		Starter:     constStarter{},
		stepLimiter: env.NewStepLimit(5),
		goalHeight:  GoalHeight,
	})
	_, err := a.Reset()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		step, done, err := a.Step(1)
		require.NoError(t, err)
		require.Equal(t, -1.0, step.Reward)
		for j := 0; j < Features; j++ {
			assert.InDelta(t, 0.0, step.Observation.AtVec(j), 1e-12)
		}
		require.Equal(t, i == 4, done)
		if done {
			require.Equal(t, ts.Timeout, step.EndType())
		}
	}
}

func TestStepLimitAndBounds(t *testing.T) {
	a := newAcrobot(t, 200)
	_, err := a.Reset()
	require.NoError(t, err)

	done := false
	steps := 0
	for !done {
		var step ts.TimeStep
		step, done, err = a.Step(2 * (steps / 5 % 2))
		require.NoError(t, err)
		steps++

		obs := step.Observation
		require.LessOrEqual(t, math.Abs(obs.AtVec(0)), math.Pi)
		require.LessOrEqual(t, math.Abs(obs.AtVec(1)), math.Pi)
		require.LessOrEqual(t, math.Abs(obs.AtVec(2)), MaxVel1)
		require.LessOrEqual(t, math.Abs(obs.AtVec(3)), MaxVel2)
	}
	require.LessOrEqual(t, steps, 200)
}

func TestSwingUpGoal(t *testing.T) {
	task, err := NewSwingUp(constStarter{}, 0, GoalHeight)
	require.NoError(t, err)

	up := mat.NewVecDense(Features, []float64{math.Pi, 0, 0, 0})
	require.True(t, task.AtGoal(up))
	require.Equal(t, 0.0, task.GetReward(nil, 0, up))

	step := ts.New(ts.Mid, 0, up, 3)
	require.True(t, task.End(&step))
	require.Equal(t, ts.TerminalStateReached, step.EndType())

	down := mat.NewVecDense(Features, nil)
	require.False(t, task.AtGoal(down))
	require.Equal(t, -1.0, task.GetReward(nil, 0, down))

	_, err = NewSwingUp(constStarter{}, 0, 3)
	require.Error(t, err)
}

type constStarter struct{}

func (constStarter) Start() *mat.VecDense {
	return mat.NewVecDense(Features, nil)
}
