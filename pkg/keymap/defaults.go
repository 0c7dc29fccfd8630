package keymap

import (
	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/keys"
)

// DefaultEntry is a compiled-in binding with a human-readable description.
type DefaultEntry struct {
	Event       keys.Event
	Action      actions.Action
	Description string
}

var defaultEntries = []DefaultEntry{
	{keys.Named(keys.KeyEnter), actions.Submit(), "Submit the line"},
	{keys.Ctrl('m'), actions.Submit(), "Submit the line"},
	{keys.Ctrl('d'), actions.Submit(), "Submit the line"},
	{keys.Named(keys.KeyEscape), actions.Cancel(), "Cancel the prompt"},
	{keys.Ctrl('c'), actions.Cancel(), "Cancel the prompt"},

	{keys.Named(keys.KeyTab), actions.CycleSuggestion(actions.Forward), "Next suggestion"},
	{keys.Named(keys.KeyTab).With(keys.ModShift), actions.CycleSuggestion(actions.Backward), "Previous suggestion"},

	{keys.Named(keys.KeyBackspace), actions.Delete(actions.Backward, actions.Char), "Delete the character before the cursor"},
	{keys.Named(keys.KeyDelete), actions.Delete(actions.Forward, actions.Char), "Delete the character under the cursor"},
	{keys.Ctrl('w'), actions.Delete(actions.Backward, actions.Word), "Delete to the start of the word"},
	{keys.Ctrl('j'), actions.Delete(actions.Backward, actions.Word), "Delete to the start of the word"},
	{keys.Ctrl('k'), actions.Delete(actions.Forward, actions.Word), "Delete to the start of the next word"},
	{keys.Ctrl('u'), actions.Delete(actions.Backward, actions.Line), "Delete to the start of the line"},
	{keys.Ctrl('h'), actions.Delete(actions.Backward, actions.Line), "Delete to the start of the line"},
	{keys.Ctrl('l'), actions.Delete(actions.Forward, actions.Line), "Delete to the end of the line"},

	{keys.Named(keys.KeyLeft), actions.MoveCursor(actions.Backward, actions.Char), "Move left"},
	{keys.Named(keys.KeyRight), actions.MoveCursor(actions.Forward, actions.Char), "Move right, accepting the hint at the end"},
	{keys.Ctrl('b'), actions.MoveCursor(actions.Backward, actions.Char), "Move left"},
	{keys.Ctrl('f'), actions.MoveCursor(actions.Forward, actions.Char), "Move right, accepting the hint at the end"},
	{keys.Named(keys.KeyLeft).With(keys.ModCtrl), actions.MoveCursor(actions.Backward, actions.Word), "Move to the previous word"},
	{keys.Named(keys.KeyRight).With(keys.ModCtrl), actions.MoveCursor(actions.Forward, actions.Word), "Move to the next word"},
	{keys.Alt('b'), actions.MoveCursor(actions.Backward, actions.Word), "Move to the previous word"},
	{keys.Alt('f'), actions.MoveCursor(actions.Forward, actions.Word), "Move to the next word"},
	{keys.Named(keys.KeyHome), actions.MoveCursor(actions.Backward, actions.Line), "Move to the start of the line"},
	{keys.Named(keys.KeyEnd), actions.MoveCursor(actions.Forward, actions.Line), "Move to the end of the line"},
	{keys.Ctrl('a'), actions.MoveCursor(actions.Backward, actions.Line), "Move to the start of the line"},
	{keys.Ctrl('e'), actions.MoveCursor(actions.Forward, actions.Line), "Move to the end of the line"},

	{keys.Named(keys.KeyUp), actions.HistoryMove(actions.Backward), "Previous history entry"},
	{keys.Named(keys.KeyDown), actions.HistoryMove(actions.Forward), "Next history entry"},
	{keys.Ctrl('p'), actions.HistoryMove(actions.Backward), "Previous history entry"},
	{keys.Ctrl('n'), actions.HistoryMove(actions.Forward), "Next history entry"},
}

var defaults = func() map[keys.Event]actions.Action {
	m := make(map[keys.Event]actions.Action, len(defaultEntries))
	for _, e := range defaultEntries {
		m[e.Event] = e.Action
	}
	return m
}()

// Default returns the compiled-in action for ev, if any. Printable keys
// have no entry here; they are handled by the fallback in Resolve.
func Default(ev keys.Event) (actions.Action, bool) {
	a, ok := defaults[ev]
	return a, ok
}

// Defaults returns a copy of the compiled-in bindings in display order.
func Defaults() []DefaultEntry {
	out := make([]DefaultEntry, len(defaultEntries))
	copy(out, defaultEntries)
	return out
}

// Fallback is the action for an event bound nowhere: printable characters
// are inserted, anything else is ignored.
func Fallback(ev keys.Event) actions.Action {
	if ev.IsPrintable() {
		return actions.InsertChar(string(ev.Rune))
	}
	return actions.Noop()
}
