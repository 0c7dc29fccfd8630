package prompt

import (
	"github.com/google/uuid"
	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/buffer"
	"github.com/kcaldas/promptline/pkg/completion"
	"github.com/kcaldas/promptline/pkg/keys"
	"github.com/kcaldas/promptline/pkg/logging"
)

// State is the lifecycle state of a session.
type State int

const (
	Editing State = iota
	Submitted
	Cancelled
)

func (s State) String() string {
	switch s {
	case Submitted:
		return "submitted"
	case Cancelled:
		return "cancelled"
	default:
		return "editing"
	}
}

// Outcome is the result of reading a line.
type Outcome struct {
	State State
	Text  string
}

// Value returns the submitted line. ok is false when the prompt was
// cancelled, which distinguishes it from submitting an empty line.
func (o Outcome) Value() (line string, ok bool) {
	return o.Text, o.State == Submitted
}

// Frame is everything a backend needs to draw the prompt.
type Frame struct {
	Prompt string
	Line   string
	// Cursor is the cursor position in grapheme clusters; Before is the
	// part of Line left of it.
	Cursor int
	Before string
	Ghost  string

	Suggestions []string
	Selected    int // index into Suggestions, -1 when none
	State       State
}

// Session applies actions to one line until it is submitted or cancelled.
// It never blocks, so it can be driven by Prompt.ReadLine or by a host UI
// that delivers key events itself.
type Session struct {
	id     string
	cfg    Config
	buf    *buffer.Buffer
	engine *completion.Engine
	logger logging.Logger

	state  State
	text   string
	events int

	navigating bool
	stash      string
}

// NewSession starts a session in the Editing state.
func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	s := &Session{cfg: cfg, buf: buffer.NewString(cfg.Initial)}
	s.engine = completion.NewEngine(s.buf, cfg.Completer, cfg.Suggester)
	s.begin()
	return s
}

func (s *Session) begin() {
	s.id = uuid.New().String()
	s.logger = s.cfg.Logger.With("session", s.id)
	s.state = Editing
	s.text = ""
	s.events = 0
	s.navigating = false
	s.stash = ""
}

// Reset discards the outcome and starts a new line from Config.Initial.
func (s *Session) Reset() {
	s.buf.Set(s.cfg.Initial)
	s.engine.Invalidate()
	if s.cfg.History != nil {
		s.cfg.History.Reset()
	}
	s.begin()
}

// ID identifies the current line in logs and events.
func (s *Session) ID() string {
	return s.id
}

// Buffer returns the line being edited.
func (s *Session) Buffer() *buffer.Buffer {
	return s.buf
}

func (s *Session) State() State {
	return s.state
}

// Outcome returns the result once the session has left Editing.
func (s *Session) Outcome() Outcome {
	return Outcome{State: s.state, Text: s.text}
}

// EventCount returns the number of events fed since the session started.
func (s *Session) EventCount() int {
	return s.events
}

// Feed resolves ev and applies the resulting action.
func (s *Session) Feed(ev keys.Event) (State, error) {
	s.events++
	a := s.cfg.Resolve(ev, s.buf.String())
	s.logger.Debug("key resolved", "key", ev.String(), "action", a.String())
	return s.Apply(a)
}

// Apply performs a single action. Once the session is submitted or
// cancelled further actions are ignored.
func (s *Session) Apply(a actions.Action) (State, error) {
	if s.state != Editing {
		return s.state, nil
	}

	switch a.Kind {
	case actions.KindInsertChar:
		s.buf.Insert(a.Text)
		s.edited()

	case actions.KindDelete:
		s.buf.Delete(a.Direction, a.Range)
		s.edited()

	case actions.KindMoveCursor:
		if a.Direction == actions.Forward && s.buf.AtEnd() && !s.cfg.DisableCompleteOnMove && s.engine.Ghost() != "" {
			s.complete(a.Range)
			break
		}
		s.buf.Move(a.Direction, a.Range)
		s.engine.Invalidate()

	case actions.KindComplete:
		s.complete(a.Range)

	case actions.KindCycleSuggestion:
		s.engine.Cycle(a.Direction)

	case actions.KindHistoryMove:
		s.navigate(a.Direction)

	case actions.KindSubmit:
		s.state = Submitted
		s.text = s.buf.String()
		s.logger.Debug("line submitted", "length", len(s.text))

	case actions.KindCancel:
		s.state = Cancelled
		s.logger.Debug("line cancelled")

	case actions.KindCustom:
		return s.state, s.runHandler(a.Name)
	}
	return s.state, nil
}

func (s *Session) complete(rng actions.Range) {
	if s.engine.Accept(rng) {
		s.endNavigation()
	}
}

func (s *Session) runHandler(name string) error {
	handler, ok := s.cfg.Handlers[name]
	if !ok {
		s.logger.Debug("no handler for custom action", "action", name)
		return nil
	}

	err := handler(s.buf)
	s.edited()
	if err != nil {
		s.logger.Warn("custom action failed", "action", name, "error", err)
		return &ActionError{Name: name, Err: err}
	}
	return nil
}

// edited is called after every change to the buffer content.
func (s *Session) edited() {
	s.engine.Invalidate()
	s.endNavigation()
}

func (s *Session) endNavigation() {
	if !s.navigating {
		return
	}
	s.navigating = false
	s.stash = ""
	if s.cfg.History != nil {
		s.cfg.History.Reset()
	}
}

// navigate replaces the line with a history entry. The line being edited
// when navigation started comes back after stepping past the newest entry.
func (s *Session) navigate(dir actions.Direction) {
	h := s.cfg.History
	if h == nil {
		return
	}

	if dir == actions.Backward {
		entry, ok := h.Previous()
		if !ok {
			return
		}
		if !s.navigating {
			s.stash = s.buf.String()
			s.navigating = true
		}
		s.buf.Set(entry)
		s.engine.Invalidate()
		return
	}

	if !s.navigating {
		return
	}
	if entry, ok := h.Next(); ok {
		s.buf.Set(entry)
	} else {
		s.buf.Set(s.stash)
		s.navigating = false
		s.stash = ""
	}
	s.engine.Invalidate()
}

// Frame returns what should currently be on screen.
func (s *Session) Frame() Frame {
	return Frame{
		Prompt:      s.cfg.Prompt,
		Line:        s.buf.String(),
		Cursor:      s.buf.Cursor(),
		Before:      s.buf.Before(),
		Ghost:       s.engine.Ghost(),
		Suggestions: s.engine.Candidates(),
		Selected:    s.engine.Selected(),
		State:       s.state,
	}
}
