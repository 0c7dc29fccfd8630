// Package buffer holds the single line being edited. Content is addressed
// in grapheme clusters so that the cursor never lands inside a
// multi-codepoint character such as an emoji sequence or a letter with
// combining marks.
package buffer

import (
	"strings"

	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/rivo/uniseg"
)

// Buffer is an editable line with a cursor. The cursor is a cluster index
// in [0, Len()].
type Buffer struct {
	text   string
	bounds []int // byte offset of every cluster start, plus len(text)
	cursor int
}

// New returns an empty buffer.
func New() *Buffer {
	b := &Buffer{}
	b.replace("", 0)
	return b
}

// NewString returns a buffer holding s with the cursor at the end.
func NewString(s string) *Buffer {
	b := &Buffer{}
	b.replace(s, len(s))
	return b
}

// String returns the full content.
func (b *Buffer) String() string {
	return b.text
}

// Len returns the number of grapheme clusters.
func (b *Buffer) Len() int {
	return len(b.bounds) - 1
}

// Cursor returns the cursor position in clusters.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// CursorOffset returns the cursor position in bytes.
func (b *Buffer) CursorOffset() int {
	return b.bounds[b.cursor]
}

// AtEnd reports whether the cursor sits after the last cluster.
func (b *Buffer) AtEnd() bool {
	return b.cursor == b.Len()
}

// IsEmpty reports whether the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return b.text == ""
}

// Before returns the content left of the cursor.
func (b *Buffer) Before() string {
	return b.text[:b.bounds[b.cursor]]
}

// After returns the content right of the cursor.
func (b *Buffer) After() string {
	return b.text[b.bounds[b.cursor]:]
}

// Clusters returns the content split into grapheme clusters.
func (b *Buffer) Clusters() []string {
	out := make([]string, 0, b.Len())
	for i := 0; i < b.Len(); i++ {
		out = append(out, b.text[b.bounds[i]:b.bounds[i+1]])
	}
	return out
}

// Set replaces the content and moves the cursor to the end.
func (b *Buffer) Set(s string) {
	b.replace(s, len(s))
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.replace("", 0)
}

// SetCursor moves the cursor to cluster index i, clamped to the buffer.
func (b *Buffer) SetCursor(i int) {
	b.cursor = max(0, min(i, b.Len()))
}

// Insert places g at the cursor and moves the cursor past it. g may hold
// any number of clusters. If g merges with the cluster before the cursor
// (a combining mark, for instance) the cursor ends up after the merged
// cluster.
func (b *Buffer) Insert(g string) {
	if g == "" {
		return
	}
	off := b.bounds[b.cursor]
	b.replace(b.text[:off]+g+b.text[off:], off+len(g))
}

// Delete removes the clusters between the cursor and the boundary rng away
// in direction dir. Deleting past either end is a no-op.
func (b *Buffer) Delete(dir actions.Direction, rng actions.Range) {
	off := b.bounds[b.cursor]
	target := b.target(dir, rng)
	if target == off {
		return
	}
	start, end := min(off, target), max(off, target)
	b.replace(b.text[:start]+b.text[end:], start)
}

// Move shifts the cursor to the boundary rng away in direction dir without
// touching the content.
func (b *Buffer) Move(dir actions.Direction, rng actions.Range) {
	b.cursor = b.snap(b.target(dir, rng))
}

// target returns the byte offset of the boundary reached from the cursor.
func (b *Buffer) target(dir actions.Direction, rng actions.Range) int {
	off := b.bounds[b.cursor]
	switch rng {
	case actions.Word:
		// Word boundaries can fall inside a cluster (a prepended mark, for
		// instance), so they are widened to the enclosing cluster.
		if dir == actions.Backward {
			return b.bounds[b.snapDown(PreviousWord(b.text, off))]
		}
		return b.bounds[b.snap(NextWord(b.text, off))]
	case actions.Line:
		if dir == actions.Backward {
			return 0
		}
		return len(b.text)
	default:
		if dir == actions.Backward {
			return b.bounds[max(b.cursor-1, 0)]
		}
		return b.bounds[min(b.cursor+1, b.Len())]
	}
}

// replace swaps in new content and places the cursor on the first cluster
// boundary at or after byte offset at.
func (b *Buffer) replace(text string, at int) {
	b.text = text
	b.bounds = b.bounds[:0]
	b.bounds = append(b.bounds, 0)

	rest, state, pos := text, -1, 0
	var cluster string
	for rest != "" {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		pos += len(cluster)
		b.bounds = append(b.bounds, pos)
	}
	b.cursor = b.snap(at)
}

// snap returns the index of the first cluster boundary at or after off.
func (b *Buffer) snap(off int) int {
	for i, bound := range b.bounds {
		if bound >= off {
			return i
		}
	}
	return b.Len()
}

// snapDown returns the index of the last cluster boundary at or before off.
func (b *Buffer) snapDown(off int) int {
	for i := len(b.bounds) - 1; i > 0; i-- {
		if b.bounds[i] <= off {
			return i
		}
	}
	return 0
}

// NextWord returns the byte offset of the start of the first non-blank word
// segment after off, or len(s) when there is none.
func NextWord(s string, off int) int {
	pos := 0
	rest, state := s, -1
	var word string
	for rest != "" {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if pos > off && !isBlank(word) {
			return pos
		}
		pos += len(word)
	}
	return len(s)
}

// PreviousWord returns the byte offset of the start of the last non-blank
// word segment before off, or 0 when there is none.
func PreviousWord(s string, off int) int {
	found := 0
	pos := 0
	rest, state := s, -1
	var word string
	for rest != "" && pos < off {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if !isBlank(word) {
			found = pos
		}
		pos += len(word)
	}
	return found
}

// WordEnd returns the byte offset just past the first non-blank word
// segment of s, including any blanks before it.
func WordEnd(s string) int {
	pos := 0
	rest, state := s, -1
	var word string
	for rest != "" {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		pos += len(word)
		if !isBlank(word) {
			return pos
		}
	}
	return len(s)
}

// FirstCluster returns the first grapheme cluster of s.
func FirstCluster(s string) string {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster
}

// ClusterCount returns the number of grapheme clusters in s.
func ClusterCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
