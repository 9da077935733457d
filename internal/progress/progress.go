package progress

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// Bar renders a single-line progress bar. A nil *Bar is valid and renders
// nothing, so callers never need to check whether progress is enabled.
type Bar struct {
	label       string
	total       int64
	current     int64
	width       int
	writer      io.Writer
	mu          sync.Mutex
	currentDirs map[string]bool
	lastUpdate  time.Time
}

func New(w io.Writer, label string, total int64) *Bar {
	return &Bar{
		label:       label,
		total:       total,
		width:       40,
		writer:      w,
		currentDirs: make(map[string]bool),
	}
}

// Increment marks one item done. relPath is the /-separated path of the item;
// its directory is shown next to the bar.
func (b *Bar) Increment(relPath string) {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++
	if dir := path.Dir(relPath); dir != "." {
		b.currentDirs[dir] = true
	}

	// Update at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
		clear(b.currentDirs)
	}
}

// render must be called with mu already locked
func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	percent := float64(b.current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(b.current) / float64(b.total))

	if filledWidth > b.width {
		filledWidth = b.width
	}

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	dirs := make([]string, 0, len(b.currentDirs))
	for dir := range b.currentDirs {
		dirs = append(dirs, path.Base(dir))
	}
	sort.Strings(dirs)

	var dirDisplay string
	if len(dirs) > 0 {
		if len(dirs) > 3 {
			dirDisplay = fmt.Sprintf(" | %s, %s, %s +%d more", dirs[0], dirs[1], dirs[2], len(dirs)-3)
		} else {
			dirDisplay = " | " + strings.Join(dirs, ", ")
		}
	}

	// Clear the line and write progress
	fmt.Fprintf(b.writer, "\r\033[K%s [%s] %3d%% (%d/%d)%s",
		b.label, bar, int(percent), b.current, b.total, dirDisplay)
}

func (b *Bar) Finish() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.total == 0 {
		return
	}
	b.current = b.total
	b.render()
	fmt.Fprintf(b.writer, "\n")
}

// Done returns the number of completed items.
func (b *Bar) Done() int64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
