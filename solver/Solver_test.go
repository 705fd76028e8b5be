package solver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolverJSON(t *testing.T) {
	solvers := []func() (*Solver, error){
		func() (*Solver, error) { return NewDefaultRMSProp(0.01, 1) },
		func() (*Solver, error) { return NewDefaultAdam(1e-3, 1) },
		func() (*Solver, error) { return NewVanilla(0.1, 1) },
	}

	for _, create := range solvers {
		s, err := create()
		require.NoError(t, err)
		require.NotNil(t, s.Solver)

		data, err := json.Marshal(s)
		require.NoError(t, err)

		var decoded Solver
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, s.Type, decoded.Type)
		assert.Equal(t, s.Config, decoded.Config)
		assert.NotNil(t, decoded.Solver)
	}
}

func TestSolverUnmarshalUnknownType(t *testing.T) {
	var s Solver
	err := json.Unmarshal([]byte(`{"Type": "SGDR", "Config": {}}`), &s)
	require.Error(t, err)
}

func TestSolverValidation(t *testing.T) {
	_, err := NewDefaultRMSProp(0, 1)
	require.Error(t, err)

	_, err = NewRMSProp(0.01, 1e-8, 1.5, 1)
	require.Error(t, err)

	_, err = NewDefaultAdam(0.01, 0)
	require.Error(t, err)

	_, err = NewAdam(0.01, 1e-8, 1, 0.999, 1)
	require.Error(t, err)

	_, err = NewVanilla(-1, 1)
	require.Error(t, err)

	var s Solver
	err = json.Unmarshal([]byte(`{"Type": "RMSProp", "Config": `+
		`{"StepSize": -1, "Rho": 0.9, "Batch": 1}}`), &s)
	require.Error(t, err)
}

func TestSolverClone(t *testing.T) {
	s, err := NewDefaultRMSProp(0.01, 1)
	require.NoError(t, err)

	clone, err := s.Clone()
	require.NoError(t, err)
	assert.Equal(t, s.Config, clone.Config)
	assert.NotSame(t, s, clone)
}
