// Package terminal runs prompts on a full-screen tcell display. Lines that
// have been read, and anything printed with Println, stay on screen above
// the prompt.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kcaldas/promptline/pkg/keys"
	"github.com/kcaldas/promptline/pkg/logging"
	"github.com/kcaldas/promptline/pkg/prompt"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultMaxSuggestions is the number of suggestion rows drawn below the
// prompt.
const DefaultMaxSuggestions = 5

var errNotOpen = errors.New("terminal is not open")

// Styles used when drawing.
type Styles struct {
	Prompt   tcell.Style
	Line     tcell.Style
	Ghost    tcell.Style
	Output   tcell.Style
	Option   tcell.Style
	Selected tcell.Style
}

func DefaultStyles() Styles {
	return Styles{
		Prompt:   tcell.StyleDefault.Bold(true),
		Line:     tcell.StyleDefault,
		Ghost:    tcell.StyleDefault.Dim(true),
		Output:   tcell.StyleDefault,
		Option:   tcell.StyleDefault.Dim(true),
		Selected: tcell.StyleDefault.Reverse(true),
	}
}

// Terminal is a prompt.Backend on a tcell screen. The screen is initialised
// by the first Open and kept until Fini, so one Terminal serves many
// ReadLine calls.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	styles Styles
	logger logging.Logger

	MaxSuggestions int

	started bool
	events  chan tcell.Event
	done    chan struct{}
	once    sync.Once

	transcript []string
	frame      prompt.Frame
	hasFrame   bool
}

// New returns a Terminal on the controlling terminal.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen returns a Terminal drawing on screen. The screen must not
// have been initialised yet.
func NewWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen:         screen,
		styles:         DefaultStyles(),
		logger:         logging.NewComponentLogger("terminal"),
		MaxSuggestions: DefaultMaxSuggestions,
		events:         make(chan tcell.Event),
		done:           make(chan struct{}),
	}
}

func (t *Terminal) SetStyles(styles Styles) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.styles = styles
}

func (t *Terminal) SetLogger(logger logging.Logger) {
	t.logger = logger
}

// Open initialises the screen on first use.
func (t *Terminal) Open(string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	t.screen.DisableMouse()
	t.started = true
	go t.poll()
	return nil
}

func (t *Terminal) poll() {
	defer close(t.events)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

// NextEvent returns the next key the prompt understands. Resizes redraw
// the screen; unknown keys are skipped.
func (t *Terminal) NextEvent(ctx context.Context) (keys.Event, error) {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if !started {
		return keys.Event{}, errNotOpen
	}

	for {
		select {
		case <-ctx.Done():
			return keys.Event{}, ctx.Err()
		case ev, ok := <-t.events:
			if !ok {
				return keys.Event{}, io.EOF
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if k, ok := Translate(ev.Key(), ev.Rune(), ev.Modifiers()); ok {
					return k, nil
				}
				t.logger.Debug("key ignored", "name", ev.Name())
			case *tcell.EventResize:
				w, h := ev.Size()
				t.logger.Debug("screen resized", "width", w, "height", h)
				t.mu.Lock()
				t.screen.Sync()
				t.draw()
				t.mu.Unlock()
			}
		}
	}
}

// Render draws f below the transcript.
func (t *Terminal) Render(f prompt.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return errNotOpen
	}
	t.frame = f
	t.hasFrame = true
	t.draw()
	return nil
}

// Close ends the current line. Unless erase is set the prompt and line are
// kept in the transcript. The screen stays initialised.
func (t *Terminal) Close(erase bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return errNotOpen
	}
	if t.hasFrame && !erase {
		t.transcript = append(t.transcript, t.frame.Prompt+t.frame.Line)
	}
	t.hasFrame = false
	t.draw()
	return nil
}

// Println adds text to the transcript.
func (t *Terminal) Println(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transcript = append(t.transcript, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
	if t.started {
		t.draw()
	}
}

// Transcript returns the lines kept above the prompt.
func (t *Terminal) Transcript() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.transcript...)
}

// Fini restores the terminal. The Terminal cannot be used afterwards.
func (t *Terminal) Fini() {
	t.once.Do(func() {
		close(t.done)
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.started {
			t.screen.Fini()
		}
	})
}

func (t *Terminal) draw() {
	s := t.screen
	s.Clear()
	_, height := s.Size()

	var options []string
	first := 0
	if t.hasFrame {
		options = t.frame.Suggestions
		if len(options) > t.MaxSuggestions {
			if t.frame.Selected >= t.MaxSuggestions {
				first = t.frame.Selected - t.MaxSuggestions + 1
			}
			options = options[first : first+t.MaxSuggestions]
		}
	}

	rows := height - len(options)
	if t.hasFrame {
		rows--
	}
	lines := t.transcript
	if rows < 0 {
		rows = 0
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}

	y := 0
	for _, line := range lines {
		t.drawText(0, y, line, t.styles.Output)
		y++
	}

	if !t.hasFrame {
		s.HideCursor()
		s.Show()
		return
	}

	f := t.frame
	x := t.drawText(0, y, f.Prompt, t.styles.Prompt)
	x = t.drawText(x, y, f.Line, t.styles.Line)
	if f.Ghost != "" {
		t.drawText(x, y, f.Ghost, t.styles.Ghost)
	}
	s.ShowCursor(runewidth.StringWidth(f.Prompt+f.Before), y)

	for i, option := range options {
		style := t.styles.Option
		if first+i == f.Selected {
			style = t.styles.Selected
		}
		t.drawText(2, y+1+i, option, style)
	}
	s.Show()
}

// drawText writes text one grapheme cluster per cell and returns the
// column after it.
func (t *Terminal) drawText(x, y int, text string, style tcell.Style) int {
	width, _ := t.screen.Size()
	state := -1
	var cluster string
	for text != "" {
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		w := runewidth.StringWidth(cluster)
		if x+w > width {
			break
		}
		runes := []rune(cluster)
		t.screen.SetContent(x, y, runes[0], runes[1:], style)
		if w == 0 {
			w = 1
		}
		x += w
	}
	return x
}
