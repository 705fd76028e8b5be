// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Wrap wraps value around interval so that values exceeding
// interval.Max re-enter at interval.Min and vice versa. The result is
// in [interval.Min, interval.Max).
func Wrap(value float64, interval r1.Interval) float64 {
	width := interval.Max - interval.Min
	wrapped := math.Mod(value-interval.Min, width)
	if wrapped < 0 {
		wrapped += width
	}
	return wrapped + interval.Min
}

// ClipSlice clips each element of values to [min, max] in place
func ClipSlice(values []float64, min, max float64) {
	for i := range values {
		values[i] = Clip(values[i], min, max)
	}
}

// MaxSlice gets the maximum value and indices of the maximum values in
// a slice of float64.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i := 1; i < len(values); i++ {
		value := values[i]
		if value > max {
			max = value
			indices = []int{i}
		} else if value == max {
			indices = append(indices, i)
		}
	}
	return
}

// Argmax returns the index of the maximum value in values, breaking
// ties by the lowest index.
func Argmax(values []float64) int {
	index := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[index] {
			index = i
		}
	}
	return index
}

// Huber returns the Huber (smooth L1) loss of the error delta with a
// threshold of 1: 0.5δ² when |δ| <= 1 and |δ| - 0.5 otherwise.
func Huber(delta float64) float64 {
	abs := math.Abs(delta)
	if abs <= 1.0 {
		return 0.5 * delta * delta
	}
	return abs - 0.5
}

// Min calculates and returns the minimum float64 in a list
func Min(floats ...float64) float64 {
	min := floats[0]
	for _, val := range floats {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum float64 in a list
func Max(floats ...float64) float64 {
	max := floats[0]
	for _, val := range floats {
		if val > max {
			max = val
		}
	}
	return max
}
