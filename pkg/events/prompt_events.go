package events

// SessionStartedEvent is published when a prompt starts reading a line.
type SessionStartedEvent struct {
	SessionID string
	Prompt    string
}

func (e SessionStartedEvent) Topic() string {
	return "prompt.session.started"
}

// LineSubmittedEvent is published when the user submits a line.
type LineSubmittedEvent struct {
	SessionID string
	Line      string
	Events    int // key events read during the session
}

func (e LineSubmittedEvent) Topic() string {
	return "prompt.line.submitted"
}

// LineCancelledEvent is published when the user cancels the prompt.
type LineCancelledEvent struct {
	SessionID string
	Partial   string // buffer content at the time of cancellation
	Events    int
}

func (e LineCancelledEvent) Topic() string {
	return "prompt.line.cancelled"
}

// BindingsLoadedEvent is published when a binding document is applied.
type BindingsLoadedEvent struct {
	Source string
	Count  int
}

func (e BindingsLoadedEvent) Topic() string {
	return "keymap.bindings.loaded"
}
