package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Bar renders an in-place terminal progress line while leaves are being
// enumerated and hashed. Without a known total it degrades to a plain
// counter, which is what S3 listings get.
type Bar struct {
	mu         sync.Mutex
	total      int64
	current    int64
	width      int
	writer     io.Writer
	lastUpdate time.Time
}

func New() *Bar {
	return &Bar{
		width:  40,
		writer: os.Stderr,
	}
}

func (b *Bar) SetTotal(total int64) {
	b.mu.Lock()
	b.total = total
	b.mu.Unlock()
}

func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Redraw at most every 100ms to reduce flickering.
	now := time.Now()
	if now.Sub(b.lastUpdate) < 100*time.Millisecond && b.current != b.total {
		return
	}
	b.lastUpdate = now
	b.render()
}

// render must be called with mu held.
func (b *Bar) render() {
	if b.total <= 0 {
		fmt.Fprintf(b.writer, "\r\033[K%d files", b.current)
		return
	}

	filled := int(int64(b.width) * b.current / b.total)
	if filled > b.width {
		filled = b.width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", b.width-filled)

	fmt.Fprintf(b.writer, "\r\033[K[%s] %d/%d files", bar, b.current, b.total)
}

func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.render()
	fmt.Fprintln(b.writer)
}
