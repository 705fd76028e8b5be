package tracker

import (
	ts "github.com/samuelfneumann/replaydqn/timestep"
)

// EpisodeLength tracks and saves the number of steps taken in each
// episode of an experiment.
//
// An episode must finish for this Tracker to record its length.
type EpisodeLength struct {
	lengths  []float64
	filename string
}

// NewEpisodeLength creates and returns a new *EpisodeLength Tracker
// which saves to filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track records the length of the episode when step is the last step
// of an episode
func (e *EpisodeLength) Track(step ts.TimeStep) {
	if step.Last() {
		e.lengths = append(e.lengths, float64(step.Number))
	}
}

// Data returns the lengths of all finished episodes
func (e *EpisodeLength) Data() []float64 {
	return append([]float64{}, e.lengths...)
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.lengths)
}
