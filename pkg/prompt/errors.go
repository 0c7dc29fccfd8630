package prompt

import "fmt"

// IOError reports a failure of the terminal backend. The read loop stops
// at the first one.
type IOError struct {
	Op  string // "open", "read", "render" or "close"
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("prompt %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ActionError reports a failing custom action handler.
type ActionError struct {
	Name string
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %q: %v", e.Name, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
