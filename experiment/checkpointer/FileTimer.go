package checkpointer

import (
	"fmt"
	"time"
)

// fileTimer names files by the time they are created
type fileTimer struct {
	name      string
	extension string
	now       func() time.Time
	last      int64
}

// filename returns a filename with the current Unix time in
// nanoseconds as a suffix. Suffixes strictly increase, even when the
// clock does not advance between calls.
func (f *fileTimer) filename() string {
	stamp := f.now().UnixNano()
	if stamp <= f.last {
		stamp = f.last + 1
	}
	f.last = stamp
	return fmt.Sprintf("%v%v%v", f.name, stamp, f.extension)
}

// FileTimer returns a function which will return filenames with the
// number of nanoseconds since January 1, 1970 as a suffix. Like
// FilenameEnumerator, the filename parameter is the full filename with
// its path, while the extension parameter determines the file
// extension, including the leading dot.
func FileTimer(filename, extension string) func() string {
	timer := fileTimer{name: filename, extension: extension, now: time.Now}

	return timer.filename
}
