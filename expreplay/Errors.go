package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

var errEmptyCache = errors.New("cache empty")

var errInsufficientSamples = errors.New("sample size exceeds number of " +
	"stored transitions")

var errNegativeSampleSize = errors.New("sample size must be >= 0")

// IsInsufficientSamples returns whether or not an error reports that
// there are insufficient samples in the buffer to draw the requested
// number of samples. An empty buffer always has insufficient samples.
func IsInsufficientSamples(err error) bool {
	return errors.Is(err, errInsufficientSamples) ||
		errors.Is(err, errEmptyCache)
}

// IsEmptyBuffer returns whether or not an error reports that a
// replay buffer is empty.
func IsEmptyBuffer(err error) bool {
	return errors.Is(err, errEmptyCache)
}
