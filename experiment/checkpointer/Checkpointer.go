// Package checkpointer implements functionality for saving objects
// periodically during an experiment
package checkpointer

// Saver is an object that can save itself to a file
type Saver interface {
	Save(filename string) error
}

// Checkpointer checkpoints/saves objects based on the number of
// episodes completed in an experiment
type Checkpointer interface {
	Checkpoint(episodes int) error
}
