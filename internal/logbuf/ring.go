package logbuf

import (
	"strings"
	"sync"
)

// DefaultCapacity is the number of lines a pane keeps when no size is configured.
const DefaultCapacity = 50

// Ring is a thread-safe ring buffer that stores the last N lines of output.
// When full, appending a line evicts the oldest one.
type Ring struct {
	mu    sync.Mutex
	lines []string
	size  int
	pos   int
	full  bool
}

// New creates a ring buffer that stores the last n lines.
// A non-positive n selects DefaultCapacity.
func New(n int) *Ring {
	if n <= 0 {
		n = DefaultCapacity
	}
	return &Ring{
		lines: make([]string, n),
		size:  n,
	}
}

// Append adds one line at the tail, evicting the head if the ring is full.
func (r *Ring) Append(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines[r.pos] = line
	r.pos = (r.pos + 1) % r.size
	if r.pos == 0 {
		r.full = true
	}
}

// Lines returns all stored lines in order, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		result := make([]string, r.pos)
		copy(result, r.lines[:r.pos])
		return result
	}

	result := make([]string, r.size)
	copy(result, r.lines[r.pos:])
	copy(result[r.size-r.pos:], r.lines[:r.pos])
	return result
}

// Last returns the last n lines. If fewer lines exist, returns all of them.
func (r *Ring) Last(n int) []string {
	all := r.Lines()
	if n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Snapshot returns the buffered lines joined by newlines, oldest first.
// An empty ring yields the empty string.
func (r *Ring) Snapshot() string {
	return strings.Join(r.Lines(), "\n")
}

// Len returns the number of lines currently held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.full {
		return r.size
	}
	return r.pos
}

// Cap returns the maximum number of lines the ring holds.
func (r *Ring) Cap() int {
	return r.size
}
