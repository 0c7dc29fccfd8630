// Package prompt reads a single line from the user. A Session turns key
// events into edits of the line; a Prompt drives a Session from a Backend
// until the line is submitted or cancelled.
package prompt

import (
	"context"

	"github.com/kcaldas/promptline/pkg/events"
	"github.com/kcaldas/promptline/pkg/keys"
)

// Backend is the terminal a prompt runs on.
type Backend interface {
	// Open enters raw mode and prepares to draw a prompt.
	Open(prompt string) error
	// NextEvent blocks until a key arrives or ctx is done.
	NextEvent(ctx context.Context) (keys.Event, error)
	// Render draws f, replacing the previous frame.
	Render(f Frame) error
	// Close leaves raw mode. With erase set the prompt line is cleared.
	Close(erase bool) error
}

// Prompt reads lines from a backend. Each ReadLine starts a fresh
// session with the same configuration.
type Prompt struct {
	backend Backend
	cfg     Config
}

// New returns a prompt reading from backend.
func New(backend Backend, cfg Config) *Prompt {
	return &Prompt{backend: backend, cfg: cfg.withDefaults()}
}

// Config returns the configuration of p.
func (p *Prompt) Config() Config {
	return p.cfg
}

// ReadLine runs one prompt session. It returns when the line is submitted
// or cancelled, or with an *IOError when the backend fails. Custom action
// failures are logged and do not end the session.
func (p *Prompt) ReadLine(ctx context.Context) (out Outcome, err error) {
	s := NewSession(p.cfg)
	logger := s.logger

	if err := p.backend.Open(p.cfg.Prompt); err != nil {
		return Outcome{}, &IOError{Op: "open", Err: err}
	}
	defer func() {
		if closeErr := p.backend.Close(p.cfg.EraseAfterRead); closeErr != nil && err == nil {
			err = &IOError{Op: "close", Err: closeErr}
		}
	}()

	p.publish(events.SessionStartedEvent{SessionID: s.ID(), Prompt: p.cfg.Prompt})
	logger.Debug("session started")

	if err := p.backend.Render(s.Frame()); err != nil {
		return Outcome{}, &IOError{Op: "render", Err: err}
	}

	for {
		ev, err := p.backend.NextEvent(ctx)
		if err != nil {
			logger.Debug("read aborted", "error", err)
			return Outcome{}, &IOError{Op: "read", Err: err}
		}

		// Feed only fails for custom actions, which the session logs.
		state, _ := s.Feed(ev)

		if err := p.backend.Render(s.Frame()); err != nil {
			return Outcome{}, &IOError{Op: "render", Err: err}
		}

		switch state {
		case Submitted:
			out = s.Outcome()
			p.publish(events.LineSubmittedEvent{SessionID: s.ID(), Line: out.Text, Events: s.EventCount()})
			return out, nil
		case Cancelled:
			p.publish(events.LineCancelledEvent{SessionID: s.ID(), Partial: s.Buffer().String(), Events: s.EventCount()})
			return s.Outcome(), nil
		}
	}
}

func (p *Prompt) publish(e events.Event) {
	if p.cfg.Publisher != nil {
		events.PublishEvent(p.cfg.Publisher, e)
	}
}
