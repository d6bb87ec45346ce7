package ffmpeg

import (
	"bytes"
	"strings"
	"sync"
)

// stderrBuffer collects a child process's stderr. exec copies into it from
// its own goroutine, so reads may race with writes until Wait returns.
type stderrBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *stderrBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Text returns the collected output with surrounding whitespace trimmed.
func (b *stderrBuffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(b.buf.String())
}
