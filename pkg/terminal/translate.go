package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kcaldas/promptline/pkg/keys"
)

// Tab, Enter, Escape and Backspace2 share their codes with control
// letters, so they are looked up before the Ctrl+A..Ctrl+Z range.
var namedKeys = map[tcell.Key]keys.Key{
	tcell.KeyEnter:      keys.KeyEnter,
	tcell.KeyTab:        keys.KeyTab,
	tcell.KeyBackspace2: keys.KeyBackspace,
	tcell.KeyDelete:     keys.KeyDelete,
	tcell.KeyEscape:     keys.KeyEscape,
	tcell.KeyLeft:       keys.KeyLeft,
	tcell.KeyRight:      keys.KeyRight,
	tcell.KeyUp:         keys.KeyUp,
	tcell.KeyDown:       keys.KeyDown,
	tcell.KeyHome:       keys.KeyHome,
	tcell.KeyEnd:        keys.KeyEnd,
	tcell.KeyInsert:     keys.KeyInsert,
	tcell.KeyPgUp:       keys.KeyPgUp,
	tcell.KeyPgDn:       keys.KeyPgDn,
	tcell.KeyF1:         keys.KeyF1,
	tcell.KeyF2:         keys.KeyF2,
	tcell.KeyF3:         keys.KeyF3,
	tcell.KeyF4:         keys.KeyF4,
	tcell.KeyF5:         keys.KeyF5,
	tcell.KeyF6:         keys.KeyF6,
	tcell.KeyF7:         keys.KeyF7,
	tcell.KeyF8:         keys.KeyF8,
	tcell.KeyF9:         keys.KeyF9,
	tcell.KeyF10:        keys.KeyF10,
	tcell.KeyF11:        keys.KeyF11,
	tcell.KeyF12:        keys.KeyF12,
}

// Translate decodes a tcell key into a key event. It also accepts the
// encoding gocui uses, where a character arrives with key 0 and the space
// bar as key 32. The second result is false for keys with no equivalent.
func Translate(k tcell.Key, ch rune, mod tcell.ModMask) (keys.Event, bool) {
	alt := mod&tcell.ModAlt != 0

	switch {
	case k == tcell.KeyRune || (k == 0 && ch != 0):
		ev := keys.Rune(ch)
		if mod&tcell.ModCtrl != 0 {
			ev = ev.With(keys.ModCtrl)
		}
		if alt {
			ev = ev.With(keys.ModAlt)
		}
		return ev, true
	case k == ' ':
		return keys.Rune(' '), true
	case k == tcell.KeyBacktab:
		return keys.Named(keys.KeyTab).With(keys.ModShift), true
	}

	if named, ok := namedKeys[k]; ok {
		ev := keys.Named(named)
		if mod&tcell.ModShift != 0 {
			ev = ev.With(keys.ModShift)
		}
		if mod&tcell.ModCtrl != 0 && k > tcell.KeyRune {
			ev = ev.With(keys.ModCtrl)
		}
		if alt {
			ev = ev.With(keys.ModAlt)
		}
		return ev, true
	}

	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		ev := keys.Ctrl('a' + rune(k-tcell.KeyCtrlA))
		if alt {
			ev = ev.With(keys.ModAlt)
		}
		return ev, true
	case k == tcell.KeyCtrlSpace:
		return keys.Ctrl(' '), true
	}
	return keys.Event{}, false
}
