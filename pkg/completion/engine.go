// Package completion tracks the suggestion shown next to the line being
// edited. Suggested text is displayed as ghost text and only becomes part
// of the buffer when it is accepted.
package completion

import (
	"strings"

	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/buffer"
)

const noSelection = -1

// Engine holds the completion state of one prompt session. It reads the
// session's buffer and writes to it only in Accept.
type Engine struct {
	buf       *buffer.Buffer
	completer Candidates
	suggester Suggestions

	candidates []string
	stale      bool
	selected   int

	hint      string
	hintValid bool
}

// NewEngine returns an engine over buf. Either source may be nil. Without a
// suggester, cycling uses the completer's matches.
func NewEngine(buf *buffer.Buffer, completer Candidates, suggester Suggestions) *Engine {
	e := &Engine{buf: buf, completer: completer, suggester: suggester}
	e.Invalidate()
	return e
}

// Invalidate drops everything computed from the current line. It must be
// called after every change to the buffer.
func (e *Engine) Invalidate() {
	e.candidates = nil
	e.stale = true
	e.selected = noSelection
	e.hint = ""
	e.hintValid = false
}

// Cycle moves the selection through the candidates. Going forward from the
// last candidate, or backward from the first, clears the selection.
// It reports whether there was anything to cycle through.
func (e *Engine) Cycle(dir actions.Direction) bool {
	if e.stale {
		e.candidates = e.query(e.buf.String())
		e.stale = false
	}

	n := len(e.candidates)
	if n == 0 {
		e.selected = noSelection
		return false
	}

	switch {
	case dir == actions.Forward && e.selected == n-1:
		e.selected = noSelection
	case dir == actions.Forward:
		e.selected++
	case e.selected == noSelection:
		e.selected = n - 1
	default:
		e.selected--
	}
	return true
}

func (e *Engine) query(line string) []string {
	if e.suggester != nil {
		return e.suggester.Suggest(line)
	}
	if e.completer != nil {
		return e.completer.Match(line)
	}
	return nil
}

// Ghost returns the text displayed after the line. With a selection it is
// the part of the selected candidate beyond the line. Without one, and with
// the cursor at the end, it is the remainder of the completer's first match.
func (e *Engine) Ghost() string {
	line := e.buf.String()
	if e.selected != noSelection {
		if c := e.candidates[e.selected]; strings.HasPrefix(c, line) {
			return c[len(line):]
		}
		return ""
	}
	if !e.buf.AtEnd() {
		return ""
	}
	if !e.hintValid {
		e.hint = e.inlineHint(line)
		e.hintValid = true
	}
	return e.hint
}

func (e *Engine) inlineHint(line string) string {
	if e.completer == nil || line == "" {
		return ""
	}
	for _, m := range e.completer.Match(line) {
		if len(m) > len(line) && strings.HasPrefix(m, line) {
			return m[len(line):]
		}
	}
	return ""
}

// Accept commits the ghost text to the end of the buffer, the whole of it
// for actions.Line, through the first word for actions.Word and a single
// cluster for actions.Char. A selected candidate that does not extend the
// line replaces it. Accept reports whether the buffer changed.
func (e *Engine) Accept(rng actions.Range) bool {
	line := e.buf.String()
	if e.selected != noSelection {
		if selected := e.candidates[e.selected]; !strings.HasPrefix(selected, line) {
			e.buf.Set(selected)
			e.Invalidate()
			return true
		}
	}

	ghost := e.Ghost()
	if ghost == "" {
		return false
	}

	var text string
	switch rng {
	case actions.Line:
		text = ghost
	case actions.Word:
		text = ghost[:buffer.WordEnd(ghost)]
	default:
		text = buffer.FirstCluster(ghost)
	}

	e.buf.SetCursor(e.buf.Len())
	e.buf.Insert(text)
	e.Invalidate()
	return true
}

// Active reports whether a candidate is selected.
func (e *Engine) Active() bool {
	return e.selected != noSelection
}

// Selected returns the index of the selected candidate, or -1.
func (e *Engine) Selected() int {
	return e.selected
}

// Candidates returns the list being cycled, or nil before the first Cycle
// since the last change.
func (e *Engine) Candidates() []string {
	if e.stale {
		return nil
	}
	return append([]string(nil), e.candidates...)
}
