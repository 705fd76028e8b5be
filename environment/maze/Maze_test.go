package maze

import (
	"testing"

	ts "github.com/samuelfneumann/replaydqn/timestep"
	"github.com/samuelfneumann/gomaze"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// corridor returns a 1 ⨉ 2 maze, whose only passage joins the start
// cell (0, 0) to the goal cell (1, 0)
func corridor(t *testing.T, cutoff int) *Maze {
	m, err := New(NewSolve(cutoff), 1, 2, gomaze.NewBacktracking(1))
	require.NoError(t, err)
	return m
}

func TestStepRequiresReset(t *testing.T) {
	m := corridor(t, 10)
	_, _, err := m.Step(3)
	require.Error(t, err)

	_, err = m.Reset()
	require.NoError(t, err)
	_, _, err = m.Step(gomaze.Actions)
	require.Error(t, err)
	_, _, err = m.Step(-1)
	require.Error(t, err)
}

func TestSpecs(t *testing.T) {
	m, err := New(NewSolve(10), 3, 4, gomaze.NewWilson(1))
	require.NoError(t, err)

	n, err := m.ActionSpec().NumActions()
	require.NoError(t, err)
	require.Equal(t, gomaze.Actions, n)

	obs := m.ObservationSpec()
	require.Equal(t, Features, obs.Features())
	require.Equal(t, 3.0, obs.UpperBound.AtVec(0))
	require.Equal(t, 2.0, obs.UpperBound.AtVec(1))

	_, err = New(NewSolve(10), 0, 4, gomaze.NewWilson(1))
	require.Error(t, err)
}

func TestSolveReachesGoal(t *testing.T) {
	m := corridor(t, 10)
	first, err := m.Reset()
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, first.Observation.RawVector().Data)

	// North is a wall
	step, done, err := m.Step(0)
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, TimeStepReward, step.Reward)
	require.Equal(t, []float64{0, 0}, step.Observation.RawVector().Data)

	step, done, err = m.Step(3)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, TerminalReward, step.Reward)
	require.Equal(t, []float64{1, 0}, step.Observation.RawVector().Data)
	require.Equal(t, ts.TerminalStateReached, step.EndType())

	_, _, err = m.Step(2)
	require.Error(t, err)

	// Reset returns the agent to the start cell
	first, err = m.Reset()
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, first.Observation.RawVector().Data)
}

func TestSolveStepLimit(t *testing.T) {
	m := corridor(t, 2)
	_, err := m.Reset()
	require.NoError(t, err)

	_, done, err := m.Step(0)
	require.NoError(t, err)
	require.False(t, done)

	step, done, err := m.Step(2)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, TimeStepReward, step.Reward)
	require.Equal(t, ts.Timeout, step.EndType())
}

func TestRandomWalkStaysInMaze(t *testing.T) {
	m, err := New(NewSolve(500), DefaultRows, DefaultCols,
		gomaze.NewBacktracking(3))
	require.NoError(t, err)
	_, err = m.Reset()
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	done := false
	for !done {
		var step ts.TimeStep
		step, done, err = m.Step(rng.Intn(gomaze.Actions))
		require.NoError(t, err)

		x, y := step.Observation.AtVec(0), step.Observation.AtVec(1)
		require.GreaterOrEqual(t, x, 0.0)
		require.Less(t, x, float64(DefaultCols))
		require.GreaterOrEqual(t, y, 0.0)
		require.Less(t, y, float64(DefaultRows))
		require.LessOrEqual(t, step.Number, 500)
	}
}
