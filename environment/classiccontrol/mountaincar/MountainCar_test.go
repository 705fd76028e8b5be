package mountaincar

import (
	"testing"

	"github.com/samuelfneumann/replaydqn/environment"
	"github.com/samuelfneumann/replaydqn/timestep"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type fixedStarter []float64

func (f fixedStarter) Start() *mat.VecDense {
	return mat.NewVecDense(len(f), append([]float64{}, f...))
}

func TestGoalReached(t *testing.T) {
	task, err := NewGoal(fixedStarter{0.49, 0.07}, 0, GoalPosition)
	require.NoError(t, err)
	m := New(task)

	_, err = m.Reset()
	require.NoError(t, err)

	step, done, err := m.Step(2)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, 0.0, step.Reward)
	require.Equal(t, timestep.TerminalStateReached, step.EndType())
}

func TestRewardAndCutoff(t *testing.T) {
	starter, err := environment.NewUniformStarter(StartBounds(), 1)
	require.NoError(t, err)
	task, err := NewGoal(starter, 3, GoalPosition)
	require.NoError(t, err)
	m := New(task)

	_, err = m.Reset()
	require.NoError(t, err)

	var step timestep.TimeStep
	var done bool
	for i := 0; i < 3; i++ {
		step, done, err = m.Step(1)
		require.NoError(t, err)
		require.Equal(t, -1.0, step.Reward)
	}
	require.True(t, done)
	require.Equal(t, timestep.Timeout, step.EndType())
}

func TestLeftWall(t *testing.T) {
	task, err := NewGoal(fixedStarter{MinPosition, -0.05}, 0, GoalPosition)
	require.NoError(t, err)
	m := New(task)
	_, err = m.Reset()
	require.NoError(t, err)

	step, _, err := m.Step(0)
	require.NoError(t, err)
	require.Equal(t, MinPosition, step.Observation.AtVec(0))
	require.Equal(t, 0.0, step.Observation.AtVec(1))
}

func TestValidation(t *testing.T) {
	_, err := NewGoal(fixedStarter{0, 0}, 0, 5)
	require.Error(t, err)

	task, err := NewGoal(fixedStarter{2, 0}, 0, GoalPosition)
	require.NoError(t, err)
	m := New(task)
	_, err = m.Reset()
	require.Error(t, err)

	_, _, err = m.Step(0)
	require.Error(t, err)

	n, err := m.ActionSpec().NumActions()
	require.NoError(t, err)
	require.Equal(t, 3, n)
}
