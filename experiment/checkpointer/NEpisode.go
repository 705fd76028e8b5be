package checkpointer

import "fmt"

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	object   Saver

	// filename returns the filename to save the object in on each
	// checkpoint.
	//
	// If each checkpoint should be saved in a separate file with an
	// incremented number as a suffix (e.g. file1.bin, ..., fileK.bin),
	// then use FilenameEnumerator. To suffix files with their creation
	// time instead, use FileTimer:
	//
	//	n, err := NewNEpisode(10, object, FileTimer("filename.", ".bin"))
	filename func() string
}

// NewNEpisode returns a checkpointer that saves object every n
// completed episodes
func NewNEpisode(n int, object Saver, filename func() string) (Checkpointer,
	error) {
	if n < 1 {
		return nil, fmt.Errorf("newnepisode: interval must be positive \n\t"+
			"have(%v)", n)
	}
	if object == nil || filename == nil {
		return nil, fmt.Errorf("newnepisode: object and filename are required")
	}
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the tracked object if episodes is a positive
// multiple of the checkpoint interval
func (n *nEpisode) Checkpoint(episodes int) error {
	if episodes > 0 && episodes%n.interval == 0 {
		if err := n.object.Save(n.filename()); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}
