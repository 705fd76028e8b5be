// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar implements a progress bar which is safe for concurrent
// use. Increment may be called from any goroutine, and once Display is
// called the bar is redrawn in the background until Close is called.
type ProgressBar struct {
	mu sync.Mutex

	out io.Writer

	// width determines the number of characters wide that the progress
	// bar should be
	width int

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress     int
	currentProgress int

	startTime   time.Time
	updateEvery time.Duration

	displaying bool
	closed     bool
	closeEvent chan struct{}
	wg         sync.WaitGroup
}

// New returns a new progress bar that is width characters wide, writes
// to out, and reaches 100% after max Increment() calls. Once
// displayed, the bar is redrawn every updateEvery.
func New(out io.Writer, width, max int, updateEvery time.Duration) (
	*ProgressBar, error) {
	if width < 1 || max < 1 {
		return nil, fmt.Errorf("new: width (%v) and max (%v) must be positive",
			width, max)
	}
	if updateEvery <= 0 {
		return nil, fmt.Errorf("new: update interval must be positive")
	}
	return &ProgressBar{
		out:         out,
		width:       width,
		maxProgress: max,
		startTime:   time.Now(),
		updateEvery: updateEvery,
		closeEvent:  make(chan struct{}),
	}, nil
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the number of Increment() calls counted so far
func (p *ProgressBar) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentProgress
}

// String renders the current state of the progress bar
func (p *ProgressBar) String() string {
	p.mu.Lock()
	current, elapsed := p.currentProgress, time.Since(p.startTime)
	p.mu.Unlock()

	var bar strings.Builder
	bar.WriteString("|")

	filled := current * p.width / p.maxProgress
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))

	fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]",
		float64(current)/float64(p.maxProgress)*100,
		elapsed.Truncate(time.Second))
	return bar.String()
}

// draw writes the progress bar over the current terminal line
func (p *ProgressBar) draw() {
	fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.String())
}

// Display starts redrawing the progress bar in the background. It
// should only be called once.
func (p *ProgressBar) Display() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.displaying || p.closed {
		return
	}
	p.displaying = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		tick := time.NewTicker(p.updateEvery)
		defer tick.Stop()

		for {
			select {
			case <-tick.C:
				p.draw()
			case <-p.closeEvent:
				return
			}
		}
	}()
}

// Close stops redrawing the progress bar, draws it a final time, and
// moves to the next line
func (p *ProgressBar) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("close: close on closed progress bar")
	}
	p.closed = true
	displaying := p.displaying
	close(p.closeEvent)
	p.mu.Unlock()

	p.wg.Wait()
	if displaying {
		p.draw()
		fmt.Fprintln(p.out)
	}
	return nil
}
