// Package cuiedit lets a gocui view read lines through a prompt session.
// The host application owns the gocui main loop; Editor only handles the
// keys that reach the input view.
package cuiedit

import (
	"strings"

	"github.com/awesome-gocui/gocui"
	"github.com/gdamore/tcell/v2"
	"github.com/kcaldas/promptline/pkg/events"
	"github.com/kcaldas/promptline/pkg/logging"
	"github.com/kcaldas/promptline/pkg/prompt"
	"github.com/kcaldas/promptline/pkg/terminal"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const (
	ghostStart = "\x1b[2m"
	ghostEnd   = "\x1b[0m"
)

// View is the part of *gocui.View the editor draws on.
type View interface {
	Clear()
	Write(p []byte) (int, error)
	SetCursor(x, y int) error
	Size() (int, int)
}

// Editor implements gocui.Editor on top of a prompt.Session.
type Editor struct {
	session *prompt.Session
	cfg     prompt.Config
	logger  logging.Logger

	scrollOffset int

	// OnSubmit receives every submitted line.
	OnSubmit func(line string)
	// OnCancel receives the partial line when the prompt is cancelled.
	OnCancel func(partial string)
	// OnFrame is called after every redraw, e.g. to show suggestions in
	// another view.
	OnFrame func(f prompt.Frame)
}

var _ gocui.Editor = (*Editor)(nil)

// New returns an editor reading lines configured by cfg.
func New(cfg prompt.Config) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewComponentLogger("cuiedit")
	}
	cfg.Logger = logger
	return &Editor{
		session: prompt.NewSession(cfg),
		cfg:     cfg,
		logger:  logger,
	}
}

// Session returns the session behind the editor.
func (e *Editor) Session() *prompt.Session {
	return e.session
}

// Edit handles a key press in the input view.
func (e *Editor) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	e.edit(v, key, ch, mod)
}

func (e *Editor) edit(v View, key gocui.Key, ch rune, mod gocui.Modifier) {
	ev, ok := terminal.Translate(tcell.Key(key), ch, tcell.ModMask(mod))
	if !ok {
		return
	}

	state, err := e.session.Feed(ev)
	if err != nil {
		logging.LogError(e.logger, "custom action failed", err)
	}

	switch state {
	case prompt.Submitted:
		line := e.session.Outcome().Text
		e.publish(events.LineSubmittedEvent{SessionID: e.session.ID(), Line: line, Events: e.session.EventCount()})
		if e.OnSubmit != nil {
			e.OnSubmit(line)
		}
		e.session.Reset()
	case prompt.Cancelled:
		partial := e.session.Buffer().String()
		e.publish(events.LineCancelledEvent{SessionID: e.session.ID(), Partial: partial, Events: e.session.EventCount()})
		if e.OnCancel != nil {
			e.OnCancel(partial)
		}
		e.session.Reset()
	}

	e.Render(v)
}

// SetLine replaces the line being edited.
func (e *Editor) SetLine(v View, line string) {
	e.session.Reset()
	e.session.Buffer().Set(line)
	e.scrollOffset = 0
	e.Render(v)
}

// Render draws the current line into v, scrolling horizontally to keep the
// cursor visible.
func (e *Editor) Render(v View) {
	f := e.session.Frame()
	if e.OnFrame != nil {
		e.OnFrame(f)
	}

	width, _ := v.Size()
	promptWidth := runewidth.StringWidth(f.Prompt)
	avail := width - promptWidth
	if avail <= 0 {
		return
	}

	cursor := runewidth.StringWidth(f.Before)
	if cursor < e.scrollOffset {
		e.scrollOffset = cursor
	} else if cursor >= e.scrollOffset+avail-1 {
		e.scrollOffset = cursor - avail + 2
		if e.scrollOffset < 0 {
			e.scrollOffset = 0
		}
	}

	v.Clear()
	visible := clip(f.Line, e.scrollOffset, avail)
	v.Write([]byte(f.Prompt + visible))

	used := runewidth.StringWidth(visible)
	if f.Ghost != "" && used < avail {
		ghost := clip(f.Ghost, 0, avail-used)
		v.Write([]byte(ghostStart + ghost + ghostEnd))
	}

	v.SetCursor(promptWidth+cursor-e.scrollOffset, 0)
}

func (e *Editor) publish(ev events.Event) {
	if e.cfg.Publisher != nil {
		events.PublishEvent(e.cfg.Publisher, ev)
	}
}

// clip returns the grapheme clusters of s between display columns from
// and from+width.
func clip(s string, from, width int) string {
	var sb strings.Builder
	col := 0
	state := -1
	var cluster string
	for s != "" {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		w := runewidth.StringWidth(cluster)
		if col >= from {
			if col+w > from+width {
				break
			}
			sb.WriteString(cluster)
		}
		col += w
	}
	return sb.String()
}
