package history

import "strings"

// DefaultMaxSize is the number of entries kept when no size is given.
const DefaultMaxSize = 50

// Navigator is what a prompt needs to walk through earlier lines.
// Previous moves towards older entries and Next towards newer ones. Both
// report false when there is nowhere to go; Next reports false when it
// steps past the newest entry, after which navigation starts over.
type Navigator interface {
	Previous() (string, bool)
	Next() (string, bool)
	Reset()
}

// History is an in-memory list of submitted lines, oldest first.
type History struct {
	entries []string
	maxSize int
	index   int // -1 means not navigating
}

// New returns an empty history keeping at most DefaultMaxSize entries.
func New() *History {
	return NewWithSize(DefaultMaxSize)
}

// NewWithSize returns an empty history keeping at most maxSize entries.
func NewWithSize(maxSize int) *History {
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}
	return &History{
		entries: make([]string, 0),
		maxSize: maxSize,
		index:   -1,
	}
}

// Add appends line, moving it to the newest position if it was already
// present. Blank lines are ignored. Navigation is reset.
func (h *History) Add(line string) {
	h.index = -1
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	for i, existing := range h.entries {
		if existing == line {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, line)

	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	return len(h.entries)
}

// Previous returns the next older entry.
func (h *History) Previous() (string, bool) {
	if h.index+1 >= len(h.entries) {
		return "", false
	}
	h.index++
	return h.entries[len(h.entries)-1-h.index], true
}

// Next returns the next newer entry.
func (h *History) Next() (string, bool) {
	if h.index < 0 {
		return "", false
	}
	h.index--
	if h.index < 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1-h.index], true
}

// Reset ends navigation so that Previous starts from the newest entry.
func (h *History) Reset() {
	h.index = -1
}
