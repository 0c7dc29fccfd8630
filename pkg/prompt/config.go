package prompt

import (
	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/buffer"
	"github.com/kcaldas/promptline/pkg/completion"
	"github.com/kcaldas/promptline/pkg/events"
	"github.com/kcaldas/promptline/pkg/history"
	"github.com/kcaldas/promptline/pkg/keymap"
	"github.com/kcaldas/promptline/pkg/keys"
	"github.com/kcaldas/promptline/pkg/logging"
)

// Handler runs a custom action against the line being edited.
type Handler func(buf *buffer.Buffer) error

// InterceptFunc sees every event before the binding table. Returning false
// lets the table resolve the event.
type InterceptFunc func(ev keys.Event, line string) (actions.Action, bool)

// Config collects the options of a prompt. Every field is optional.
type Config struct {
	// Prompt is written before the line.
	Prompt string
	// Initial is the content the line starts with.
	Initial string

	// Completer supplies the inline hint and, without a Suggester, the
	// candidates cycled with Tab.
	Completer completion.Candidates
	// Suggester supplies the candidates cycled with Tab.
	Suggester completion.Suggestions

	// Bindings defaults to an empty table, i.e. the built-in bindings.
	Bindings  *keymap.Table
	Intercept InterceptFunc
	Handlers  map[string]Handler

	History history.Navigator

	// EraseAfterRead clears the prompt line from the screen when reading ends.
	EraseAfterRead bool
	// DisableCompleteOnMove stops a forward move at the end of the line from
	// accepting the ghost text.
	DisableCompleteOnMove bool

	Logger    logging.Logger
	Publisher events.Publisher
}

func (c Config) withDefaults() Config {
	if c.Bindings == nil {
		c.Bindings = keymap.New()
	}
	if c.Logger == nil {
		c.Logger = logging.NewDisabledLogger()
	}
	return c
}

// Resolve maps ev to an action, asking Intercept first.
func (c Config) Resolve(ev keys.Event, line string) actions.Action {
	if c.Intercept != nil {
		if a, ok := c.Intercept(ev, line); ok {
			return a
		}
	}
	if c.Bindings == nil {
		return keymap.New().Resolve(ev)
	}
	return c.Bindings.Resolve(ev)
}
