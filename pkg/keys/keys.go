package keys

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key identifies a physical key. Printable characters and control letters
// use KeyRune with the character carried in Event.Rune.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyPgUp
	KeyPgDn
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifier is a set of modifier keys held during an event.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt

	ModNone Modifier = 0
)

var keyNames = map[Key]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyEscape:    "esc",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyInsert:    "insert",
	KeyPgUp:      "pgup",
	KeyPgDn:      "pgdn",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

// aliases accepted by Parse in addition to keyNames.
var keyAliases = map[string]Key{
	"return":   KeyEnter,
	"escape":   KeyEscape,
	"del":      KeyDelete,
	"bs":       KeyBackspace,
	"pageup":   KeyPgUp,
	"pagedown": KeyPgDn,
}

// runeNames spell out runes that cannot appear literally in the text form.
var runeNames = map[rune]string{
	' ': "space",
	'+': "plus",
}

func (k Key) String() string {
	if k == KeyRune {
		return "rune"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Event is a single decoded key press. It is a plain value and can be used
// as a map key.
type Event struct {
	Key  Key
	Rune rune
	Mod  Modifier
}

// Rune returns the event for an unmodified character.
func Rune(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// Ctrl returns the event for Ctrl plus a letter. Letters are normalised to
// lower case.
func Ctrl(r rune) Event {
	return Event{Key: KeyRune, Rune: unicode.ToLower(r), Mod: ModCtrl}
}

// Alt returns the event for Alt plus a character.
func Alt(r rune) Event {
	return Event{Key: KeyRune, Rune: r, Mod: ModAlt}
}

// Named returns the event for a non-character key without modifiers.
func Named(k Key) Event {
	return Event{Key: k}
}

// With returns a copy of e with mod added to its modifier set.
func (e Event) With(mod Modifier) Event {
	e.Mod |= mod
	return e.Normalize()
}

// Normalize returns e in the form Parse produces: a character held with
// Ctrl is lower case.
func (e Event) Normalize() Event {
	if e.Key == KeyRune && e.Mod&ModCtrl != 0 {
		e.Rune = unicode.ToLower(e.Rune)
	}
	return e
}

// Has reports whether every modifier in mod is held.
func (e Event) Has(mod Modifier) bool {
	return e.Mod&mod == mod
}

// IsPrintable reports whether e is a plain character that should be
// inserted into the line.
func (e Event) IsPrintable() bool {
	if e.Key != KeyRune || e.Mod&(ModCtrl|ModAlt) != 0 {
		return false
	}
	return unicode.IsPrint(e.Rune)
}

// String renders e in the text form used by binding documents, for example
// "ctrl+w", "shift+tab" or "alt+b".
func (e Event) String() string {
	var sb strings.Builder
	if e.Mod&ModCtrl != 0 {
		sb.WriteString("ctrl+")
	}
	if e.Mod&ModAlt != 0 {
		sb.WriteString("alt+")
	}
	if e.Mod&ModShift != 0 {
		sb.WriteString("shift+")
	}
	if e.Key != KeyRune {
		sb.WriteString(e.Key.String())
		return sb.String()
	}
	if name, ok := runeNames[e.Rune]; ok {
		sb.WriteString(name)
	} else {
		sb.WriteRune(e.Rune)
	}
	return sb.String()
}

// Parse reads the text form produced by Event.String. Modifier and key
// names are case-insensitive; a single character is taken literally.
func Parse(s string) (Event, error) {
	if s == "" {
		return Event{}, fmt.Errorf("empty key")
	}
	if s == "+" {
		return Rune('+'), nil
	}

	parts := strings.Split(s, "+")
	var ev Event
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(part) {
		case "ctrl", "c", "control":
			ev.Mod |= ModCtrl
		case "alt", "a", "meta", "m":
			ev.Mod |= ModAlt
		case "shift", "s":
			ev.Mod |= ModShift
		default:
			return Event{}, fmt.Errorf("unknown modifier %q in key %q", part, s)
		}
	}

	last := parts[len(parts)-1]
	if last == "" {
		return Event{}, fmt.Errorf("missing key name in %q", s)
	}
	if utf8.RuneCountInString(last) == 1 {
		r, _ := utf8.DecodeRuneInString(last)
		ev.Key = KeyRune
		ev.Rune = r
		if ev.Mod&ModCtrl != 0 {
			ev.Rune = unicode.ToLower(r)
		}
		return ev, nil
	}

	lower := strings.ToLower(last)
	for r, name := range runeNames {
		if name == lower {
			ev.Key = KeyRune
			ev.Rune = r
			return ev, nil
		}
	}
	if k, ok := keyAliases[lower]; ok {
		ev.Key = k
		return ev, nil
	}
	for k, name := range keyNames {
		if name == lower {
			ev.Key = k
			return ev, nil
		}
	}
	return Event{}, fmt.Errorf("unknown key %q", last)
}

// MustParse is like Parse but panics on error. Intended for tables of
// compiled-in keys.
func MustParse(s string) Event {
	ev, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ev
}

func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Event) UnmarshalText(text []byte) error {
	ev, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = ev
	return nil
}
