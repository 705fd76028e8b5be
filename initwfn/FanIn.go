package initwfn

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// FanInUniformConfig implements a configuration of a seeded weight
// initializer which draws weights uniformly from
// [-Gain/√fanIn, Gain/√fanIn]. Weight matrices are assumed to be of
// shape (inputs, outputs), so the fan in is the first dimension.
//
// Each InitWFn created from the same config draws the same sequence of
// weights, which makes network initialization reproducible.
type FanInUniformConfig struct {
	Gain float64
	Seed uint64
}

// NewFanInUniform returns a new seeded fan in uniform weight
// initializer
func NewFanInUniform(gain float64, seed uint64) (*InitWFn, error) {
	return newInitWFn(FanInUniformConfig{Gain: gain, Seed: seed})
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (f FanInUniformConfig) Type() Type { return FanInUniform }

// Validate returns an error if the gain is not positive
func (f FanInUniformConfig) Validate() error { return validateGain(f.Gain) }

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn. The returned InitWFn keeps its own source, so successive
// layers receive different weights.
func (f FanInUniformConfig) Create() G.InitWFn {
	rng := rand.New(rand.NewSource(f.Seed))

	return func(dt tensor.Dtype, s ...int) interface{} {
		size := tensor.Shape(s).TotalSize()
		fanIn := 1
		if len(s) > 0 && s[0] > 0 {
			fanIn = s[0]
		}
		limit := f.Gain / math.Sqrt(float64(fanIn))

		switch dt {
		case tensor.Float64:
			weights := make([]float64, size)
			for i := range weights {
				weights[i] = (2*rng.Float64() - 1) * limit
			}
			return weights

		case tensor.Float32:
			weights := make([]float32, size)
			for i := range weights {
				weights[i] = float32((2*rng.Float64() - 1) * limit)
			}
			return weights

		default:
			panic(fmt.Sprintf("fanInUniform: dtype %v not supported", dt))
		}
	}
}
