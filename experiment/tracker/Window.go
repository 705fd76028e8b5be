package tracker

import (
	"fmt"

	"github.com/gammazero/deque"
)

// Window keeps the most recent values of a series, up to a fixed
// size, along with their running sum
type Window struct {
	values *deque.Deque[float64]
	size   int
	sum    float64
}

// NewWindow returns a new Window holding at most size values
func NewWindow(size int) (*Window, error) {
	if size < 1 {
		return nil, fmt.Errorf("newwindow: size must be positive \n\t"+
			"have(%v)", size)
	}
	return &Window{values: deque.New[float64](size), size: size}, nil
}

// Add adds a value to the window, dropping the oldest value if the
// window is full
func (w *Window) Add(v float64) {
	if w.values.Len() == w.size {
		w.sum -= w.values.PopFront()
	}
	w.values.PushBack(v)
	w.sum += v
}

// Mean returns the mean of the values in the window, or 0 if the
// window is empty
func (w *Window) Mean() float64 {
	if w.values.Len() == 0 {
		return 0
	}
	return w.sum / float64(w.values.Len())
}

// Len returns the number of values in the window
func (w *Window) Len() int {
	return w.values.Len()
}

// Size returns the maximum number of values in the window
func (w *Window) Size() int {
	return w.size
}

// Values returns the values in the window from oldest to newest
func (w *Window) Values() []float64 {
	values := make([]float64, w.values.Len())
	for i := range values {
		values[i] = w.values.At(i)
	}
	return values
}
