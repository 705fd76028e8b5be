package network

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
)

func newTestMLP(t *testing.T, batch int) *MLP {
	t.Helper()
	g := G.NewGraph()
	net, err := NewMLP(4, batch, 2, g, []int{8, 5}, G.GlorotU(1.0),
		[]*Activation{ReLU(), TanH()})
	require.NoError(t, err)
	return net
}

func TestNewMLPValidation(t *testing.T) {
	g := G.NewGraph()

	_, err := NewMLP(4, 1, 2, g, []int{8}, G.GlorotU(1.0), nil)
	require.Error(t, err)

	_, err = NewMLP(0, 1, 2, g, []int{8}, G.GlorotU(1.0),
		[]*Activation{ReLU()})
	require.Error(t, err)

	_, err = NewMLP(4, 1, 2, g, []int{0}, G.GlorotU(1.0),
		[]*Activation{ReLU()})
	require.Error(t, err)
}

func TestMLPShape(t *testing.T) {
	net := newTestMLP(t, 3)

	require.Equal(t, 4, net.Features())
	require.Equal(t, 2, net.Outputs())
	require.Equal(t, 3, net.BatchSize())
	require.Equal(t, []int{8, 5}, net.HiddenSizes())
	require.Len(t, net.Learnables(), 6)
	require.Equal(t, []int{3, 2}, []int(net.Prediction().Shape()))

	acts := net.Activations()
	require.Len(t, acts, 3)
	require.True(t, acts[2].IsIdentity())
}

func TestActionValuesMatchGraph(t *testing.T) {
	net := newTestMLP(t, 1)
	input := []float64{0.1, -0.4, 0.7, 2.0}

	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()
	require.NoError(t, net.SetInput(input))
	require.NoError(t, vm.RunAll())

	values, err := net.ActionValues(input)
	require.NoError(t, err)
	require.InDeltaSlice(t, net.Output().Data().([]float64), values, 1e-10)

	_, err = net.ActionValues([]float64{1})
	require.Error(t, err)
}

func TestSetInputValidation(t *testing.T) {
	net := newTestMLP(t, 2)
	require.Error(t, net.SetInput(make([]float64, 4)))
	require.NoError(t, net.SetInput(make([]float64, 8)))
}

func TestSetParameters(t *testing.T) {
	src := newTestMLP(t, 1)
	dst := newTestMLP(t, 1)

	// Independently initialized networks have different weights
	p, err := src.Parameters()
	require.NoError(t, err)
	q, err := dst.Parameters()
	require.NoError(t, err)
	require.False(t, p.Equal(q))

	require.NoError(t, dst.SetParameters(p))
	q, err = dst.Parameters()
	require.NoError(t, err)
	require.True(t, p.Equal(q))

	// Parameters are snapshots and must not alias the network
	p[0].Set(0, 0, 1234)
	q, err = dst.Parameters()
	require.NoError(t, err)
	require.NotEqual(t, 1234.0, q[0].At(0, 0))

	bad := p[:len(p)-2]
	require.Error(t, dst.SetParameters(bad))
}

func TestFreeze(t *testing.T) {
	net := newTestMLP(t, 1)
	frozen, err := net.Freeze()
	require.NoError(t, err)
	require.Equal(t, 4, frozen.Features())
	require.Equal(t, 2, frozen.Outputs())

	states := mat.NewDense(3, 4, []float64{
		0.1, 0.2, 0.3, 0.4,
		-1, 0, 1, 2,
		0, 0, 0, 0,
	})
	out := frozen.Forward(states)
	r, c := out.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)

	for i := 0; i < 3; i++ {
		values, err := net.ActionValues(states.RawRowView(i))
		require.NoError(t, err)
		require.InDeltaSlice(t, values, out.RawRowView(i), 1e-10)
	}

	// Changing the live network leaves the frozen copy untouched
	before := frozen.Parameters()
	p, err := net.Parameters()
	require.NoError(t, err)
	for _, m := range p {
		m.Scale(2, m)
	}
	require.NoError(t, net.SetParameters(p))
	require.True(t, before.Equal(frozen.Parameters()))

	require.NoError(t, frozen.Load(p))
	require.True(t, p.Equal(frozen.Parameters()))
}

func TestFrozenValidation(t *testing.T) {
	net := newTestMLP(t, 1)
	p, err := net.Parameters()
	require.NoError(t, err)

	_, err = NewFrozen(p, []*Activation{ReLU()})
	require.Error(t, err)

	_, err = NewFrozen(p[:3], []*Activation{ReLU(), TanH()})
	require.Error(t, err)

	frozen, err := NewFrozen(p, net.Activations())
	require.NoError(t, err)
	require.Error(t, frozen.Load(p[:4]))

	wide, err := NewMLP(4, 1, 3, G.NewGraph(), []int{8, 5}, G.GlorotU(1.0),
		[]*Activation{ReLU(), TanH()})
	require.NoError(t, err)
	wideParams, err := wide.Parameters()
	require.NoError(t, err)
	require.Error(t, frozen.Load(wideParams))
}

func TestParametersEncode(t *testing.T) {
	net := newTestMLP(t, 1)
	p, err := net.Parameters()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Encode(&buf))

	decoded, err := DecodeParameters(&buf)
	require.NoError(t, err)
	require.True(t, p.Equal(decoded))
}

func TestActivationJSON(t *testing.T) {
	acts := []*Activation{ReLU(), TanH(), Identity()}
	data, err := json.Marshal(acts)
	require.NoError(t, err)
	assert.JSONEq(t, `["relu", "tanh", "identity"]`, string(data))

	var decoded []*Activation
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, 3.0, decoded[0].apply(3))
	assert.Equal(t, 0.0, decoded[0].apply(-3))
	assert.True(t, decoded[2].IsIdentity())

	require.Error(t, json.Unmarshal([]byte(`["sigmoid"]`), &decoded))
}
