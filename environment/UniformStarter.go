package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box
type UniformStarter struct {
	features int
	rand     *distmv.Uniform
}

// NewUniformStarter returns a starter which samples each feature i
// uniformly from bounds[i]
func NewUniformStarter(bounds []r1.Interval, seed uint64) (*UniformStarter,
	error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("newuniformstarter: at least one bound " +
			"is required")
	}
	for i, b := range bounds {
		if b.Min > b.Max {
			return nil, fmt.Errorf("newuniformstarter: bound %v has min %v "+
				"> max %v", i, b.Min, b.Max)
		}
	}

	source := rand.NewSource(seed)
	return &UniformStarter{len(bounds), distmv.NewUniform(bounds, source)}, nil
}

// Start returns a new starting state
func (u *UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}
