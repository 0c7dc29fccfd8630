package actions

import (
	"fmt"
	"strings"
)

// Kind tags the variant held by an Action.
type Kind int

const (
	KindNoop Kind = iota
	KindInsertChar
	KindMoveCursor
	KindDelete
	KindComplete
	KindCycleSuggestion
	KindHistoryMove
	KindSubmit
	KindCancel
	KindCustom
)

var kindNames = map[Kind]string{
	KindNoop:            "noop",
	KindInsertChar:      "insert",
	KindMoveCursor:      "move",
	KindDelete:          "delete",
	KindComplete:        "complete",
	KindCycleSuggestion: "cycle",
	KindHistoryMove:     "history",
	KindSubmit:          "submit",
	KindCancel:          "cancel",
	KindCustom:          "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Range is the extent an action covers.
type Range int

const (
	Char Range = iota
	Word
	Line
)

func (r Range) String() string {
	switch r {
	case Word:
		return "word"
	case Line:
		return "line"
	default:
		return "char"
	}
}

// Action describes one editing step. Only the fields relevant to Kind are
// set; the zero value is a no-op.
type Action struct {
	Kind      Kind
	Text      string
	Direction Direction
	Range     Range
	Name      string
}

func Noop() Action { return Action{} }

// InsertChar inserts a grapheme cluster at the cursor.
func InsertChar(g string) Action {
	return Action{Kind: KindInsertChar, Text: g}
}

func MoveCursor(dir Direction, rng Range) Action {
	return Action{Kind: KindMoveCursor, Direction: dir, Range: rng}
}

func Delete(dir Direction, rng Range) Action {
	return Action{Kind: KindDelete, Direction: dir, Range: rng}
}

// Complete commits the visible ghost text up to rng.
func Complete(rng Range) Action {
	return Action{Kind: KindComplete, Range: rng}
}

func CycleSuggestion(dir Direction) Action {
	return Action{Kind: KindCycleSuggestion, Direction: dir}
}

func HistoryMove(dir Direction) Action {
	return Action{Kind: KindHistoryMove, Direction: dir}
}

func Submit() Action { return Action{Kind: KindSubmit} }

func Cancel() Action { return Action{Kind: KindCancel} }

// Custom names a handler registered with the prompt.
func Custom(name string) Action {
	return Action{Kind: KindCustom, Name: name}
}

// Normalize returns a in the form Parse produces. Custom names are trimmed.
func (a Action) Normalize() Action {
	if a.Kind == KindCustom {
		a.Name = strings.TrimSpace(a.Name)
	}
	return a
}

// Terminal reports whether applying a ends the prompt.
func (a Action) Terminal() bool {
	return a.Kind == KindSubmit || a.Kind == KindCancel
}

// Edits reports whether a may change the buffer content.
func (a Action) Edits() bool {
	switch a.Kind {
	case KindInsertChar, KindDelete, KindHistoryMove, KindCustom:
		return true
	}
	return false
}

// String renders the text form used by binding documents.
func (a Action) String() string {
	switch a.Kind {
	case KindInsertChar:
		return fmt.Sprintf("insert(%s)", a.Text)
	case KindMoveCursor, KindDelete:
		return fmt.Sprintf("%s(%s,%s)", a.Kind, a.Direction, a.Range)
	case KindComplete:
		return fmt.Sprintf("complete(%s)", a.Range)
	case KindCycleSuggestion, KindHistoryMove:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Direction)
	case KindCustom:
		return fmt.Sprintf("custom(%s)", a.Name)
	default:
		return a.Kind.String()
	}
}

// Parse reads the text form produced by Action.String.
func Parse(s string) (Action, error) {
	s = strings.TrimSpace(s)
	name, args, hasArgs, err := splitCall(s)
	if err != nil {
		return Action{}, err
	}

	switch strings.ToLower(name) {
	case "noop":
		return Noop(), noArgs(s, hasArgs)
	case "submit", "accept":
		return Submit(), noArgs(s, hasArgs)
	case "cancel":
		return Cancel(), noArgs(s, hasArgs)
	case "insert":
		if !hasArgs || args == "" {
			return Action{}, fmt.Errorf("action %q: insert needs a character", s)
		}
		return InsertChar(args), nil
	case "custom":
		if !hasArgs || strings.TrimSpace(args) == "" {
			return Action{}, fmt.Errorf("action %q: custom needs a name", s)
		}
		return Custom(strings.TrimSpace(args)), nil
	case "move", "delete":
		parts := strings.Split(args, ",")
		if !hasArgs || len(parts) != 2 {
			return Action{}, fmt.Errorf("action %q: expected (direction,range)", s)
		}
		dir, err := parseDirection(parts[0])
		if err != nil {
			return Action{}, fmt.Errorf("action %q: %w", s, err)
		}
		rng, err := parseRange(parts[1])
		if err != nil {
			return Action{}, fmt.Errorf("action %q: %w", s, err)
		}
		if strings.EqualFold(name, "move") {
			return MoveCursor(dir, rng), nil
		}
		return Delete(dir, rng), nil
	case "complete":
		if !hasArgs {
			return Complete(Line), nil
		}
		rng, err := parseRange(args)
		if err != nil {
			return Action{}, fmt.Errorf("action %q: %w", s, err)
		}
		return Complete(rng), nil
	case "cycle", "history":
		if !hasArgs {
			return Action{}, fmt.Errorf("action %q: expected (direction)", s)
		}
		dir, err := parseDirection(args)
		if err != nil {
			return Action{}, fmt.Errorf("action %q: %w", s, err)
		}
		if strings.EqualFold(name, "cycle") {
			return CycleSuggestion(dir), nil
		}
		return HistoryMove(dir), nil
	}
	return Action{}, fmt.Errorf("unknown action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// splitCall splits "name(args)" into its parts. The argument of insert is
// taken verbatim, so "insert())" yields ")".
func splitCall(s string) (name, args string, hasArgs bool, err error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, "", false, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", "", false, fmt.Errorf("action %q: unbalanced parentheses", s)
	}
	return s[:open], s[open+1 : len(s)-1], true, nil
}

func noArgs(s string, hasArgs bool) error {
	if hasArgs {
		return fmt.Errorf("action %q takes no arguments", s)
	}
	return nil
}

func parseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "fwd", "right":
		return Forward, nil
	case "backward", "bwd", "back", "left":
		return Backward, nil
	}
	return Forward, fmt.Errorf("unknown direction %q", s)
}

func parseRange(s string) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "char", "single":
		return Char, nil
	case "word":
		return Word, nil
	case "line":
		return Line, nil
	}
	return Char, fmt.Errorf("unknown range %q", s)
}
