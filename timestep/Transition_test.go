package timestep

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestTransitionNextState(t *testing.T) {
	state := mat.NewVecDense(2, []float64{1, 2})
	next := mat.NewVecDense(2, []float64{3, 4})

	cont := NewTransition(state, 1, 0.5, next)
	require.False(t, cont.Final())
	got, ok := cont.NextState()
	require.True(t, ok)
	require.Same(t, next, got)

	final := NewFinalTransition(state, 0, 1.0)
	require.True(t, final.Final())
	got, ok = final.NextState()
	require.False(t, ok)
	require.Nil(t, got)
}

func TestTransitionValidate(t *testing.T) {
	state := mat.NewVecDense(2, nil)

	require.NoError(t, NewFinalTransition(state, 1, 0).Validate(2, 2))
	require.NoError(t, NewTransition(state, 0, 0, state).Validate(2, 2))

	require.Error(t, NewFinalTransition(state, 2, 0).Validate(2, 2))
	require.Error(t, NewFinalTransition(state, 0, 0).Validate(3, 2))
	require.Error(t, NewTransition(state, 0, 0, nil).Validate(2, 2))

	missing := Transition{State: state, Action: 0}
	require.Error(t, missing.Validate(2, 2))
}

func TestSetEndOnlyOnLast(t *testing.T) {
	mid := New(Mid, 0, nil, 1)
	mid.SetEnd(Timeout)
	require.Equal(t, Unknown, mid.EndType())

	last := New(Last, 0, nil, 2)
	last.SetEnd(Timeout)
	require.Equal(t, Timeout, last.EndType())
}
