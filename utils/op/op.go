// Package op provides extended Gorgonia graph operations used to
// build losses for action-value networks.
package op

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// MinConst returns the elementwise minimum of a node and a constant c,
// built from differentiable primitives:
//
//	min(x, c) = (x + c - |x - c|) / 2
func MinConst(x *G.Node, c float64) (*G.Node, error) {
	cNode := G.NewConstant(c)
	half := G.NewConstant(0.5)

	diff, err := G.Sub(x, cNode)
	if err != nil {
		return nil, err
	}
	abs, err := G.Abs(diff)
	if err != nil {
		return nil, err
	}
	sum, err := G.Add(x, cNode)
	if err != nil {
		return nil, err
	}
	min, err := G.Sub(sum, abs)
	if err != nil {
		return nil, err
	}
	return G.Mul(min, half)
}

// HuberLoss adds the elementwise Huber (smooth L1) loss of the errors
// delta to the graph, with a threshold of 1:
//
//	loss(δ) = 0.5δ²      if |δ| <= 1
//	loss(δ) = |δ| - 0.5  otherwise
//
// With q = min(|δ|, 1) this is loss(δ) = 0.5q² + |δ| - q.
func HuberLoss(delta *G.Node) (*G.Node, error) {
	abs, err := G.Abs(delta)
	if err != nil {
		return nil, fmt.Errorf("huberloss: %w", err)
	}

	quad, err := MinConst(abs, 1.0)
	if err != nil {
		return nil, fmt.Errorf("huberloss: %w", err)
	}
	linear := G.Must(G.Sub(abs, quad))

	loss := G.Must(G.Square(quad))
	loss = G.Must(G.Mul(loss, G.NewConstant(0.5)))
	return G.Add(loss, linear)
}

// Gather selects a single column from each row of values. The mask
// must be a one-hot matrix of the same shape as values, and the result
// is a vector with one entry per row.
func Gather(values, mask *G.Node) (*G.Node, error) {
	selected, err := G.HadamardProd(values, mask)
	if err != nil {
		return nil, fmt.Errorf("gather: %w", err)
	}
	return G.Sum(selected, 1)
}
