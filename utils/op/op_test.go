package op

import (
	"testing"

	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func vector(g *G.ExprGraph, name string, values []float64) *G.Node {
	return G.NewVector(g, tensor.Float64, G.WithShape(len(values)),
		G.WithName(name), G.WithValue(tensor.New(
			tensor.WithBacking(values),
			tensor.WithShape(len(values)),
		)))
}

func TestHuberLoss(t *testing.T) {
	g := G.NewGraph()
	delta := vector(g, "delta", []float64{0.5, 2, -2, 1, 0, -0.25})

	loss, err := HuberLoss(delta)
	require.NoError(t, err)
	var lossVal G.Value
	G.Read(loss, &lossVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	want := []float64{0.125, 1.5, 1.5, 0.5, 0, 0.03125}
	require.InDeltaSlice(t, want, lossVal.Data().([]float64), 1e-12)
}

func TestHuberLossGradient(t *testing.T) {
	g := G.NewGraph()
	delta := vector(g, "delta", []float64{0.5, 2, -2, -0.5})

	loss, err := HuberLoss(delta)
	require.NoError(t, err)
	cost := G.Must(G.Sum(loss))
	_, err = G.Grad(cost, delta)
	require.NoError(t, err)

	vm := G.NewTapeMachine(g, G.BindDualValues(delta))
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	grad, err := delta.Grad()
	require.NoError(t, err)

	// The gradient of the Huber loss is the error clipped to [-1, 1]
	want := []float64{0.5, 1, -1, -0.5}
	require.InDeltaSlice(t, want, grad.Data().([]float64), 1e-12)
}

func TestGather(t *testing.T) {
	g := G.NewGraph()
	values := G.NewMatrix(g, tensor.Float64, G.WithShape(2, 3),
		G.WithName("values"), G.WithValue(tensor.New(
			tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6}),
			tensor.WithShape(2, 3),
		)))
	mask := G.NewMatrix(g, tensor.Float64, G.WithShape(2, 3),
		G.WithName("mask"), G.WithValue(tensor.New(
			tensor.WithBacking([]float64{0, 0, 1, 1, 0, 0}),
			tensor.WithShape(2, 3),
		)))

	selected, err := Gather(values, mask)
	require.NoError(t, err)
	var selectedVal G.Value
	G.Read(selected, &selectedVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	require.Equal(t, []float64{3, 4}, selectedVal.Data().([]float64))
}
