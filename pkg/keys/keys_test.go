package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventString(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{"plain rune", Rune('a'), "a"},
		{"space", Rune(' '), "space"},
		{"plus", Rune('+'), "plus"},
		{"ctrl letter", Ctrl('w'), "ctrl+w"},
		{"ctrl upper is lowered", Ctrl('W'), "ctrl+w"},
		{"alt letter", Alt('b'), "alt+b"},
		{"named", Named(KeyEnter), "enter"},
		{"shift tab", Named(KeyTab).With(ModShift), "shift+tab"},
		{"ctrl left", Named(KeyLeft).With(ModCtrl), "ctrl+left"},
		{"escape", Named(KeyEscape), "esc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.String())
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Event
	}{
		{"a", Rune('a')},
		{"+", Rune('+')},
		{"plus", Rune('+')},
		{"space", Rune(' ')},
		{"ctrl+w", Ctrl('w')},
		{"Ctrl+W", Ctrl('w')},
		{"C+k", Ctrl('k')},
		{"alt+f", Alt('f')},
		{"shift+tab", Named(KeyTab).With(ModShift)},
		{"Enter", Named(KeyEnter)},
		{"return", Named(KeyEnter)},
		{"escape", Named(KeyEscape)},
		{"f12", Named(KeyF12)},
		{"ctrl+alt+x", Event{Key: KeyRune, Rune: 'x', Mod: ModCtrl | ModAlt}},
		{"é", Rune('é')},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ev, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ev)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "hyper+a", "ctrl+", "ctrl+banana"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestStringParseAgree(t *testing.T) {
	events := []Event{
		Rune('x'), Rune(' '), Rune('+'), Ctrl('u'), Alt('b'),
		Named(KeyBackspace), Named(KeyDelete), Named(KeyHome), Named(KeyEnd),
		Named(KeyTab).With(ModShift), Named(KeyRight).With(ModCtrl),
	}
	for _, ev := range events {
		parsed, err := Parse(ev.String())
		require.NoError(t, err, ev.String())
		assert.Equal(t, ev, parsed)
	}
}

func TestIsPrintable(t *testing.T) {
	assert.True(t, Rune('a').IsPrintable())
	assert.True(t, Rune(' ').IsPrintable())
	assert.True(t, Rune('界').IsPrintable())
	assert.True(t, Rune('A').With(ModShift).IsPrintable())
	assert.False(t, Ctrl('a').IsPrintable())
	assert.False(t, Alt('a').IsPrintable())
	assert.False(t, Named(KeyEnter).IsPrintable())
	assert.False(t, Rune('\x07').IsPrintable())
}

func TestEventAsMapKey(t *testing.T) {
	m := map[Event]string{Ctrl('w'): "kill"}
	assert.Equal(t, "kill", m[Ctrl('W')])
	_, ok := m[Rune('w')]
	assert.False(t, ok)
}

func TestTextMarshaling(t *testing.T) {
	text, err := Ctrl('k').MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ctrl+k", string(text))

	var ev Event
	require.NoError(t, ev.UnmarshalText([]byte("alt+b")))
	assert.Equal(t, Alt('b'), ev)
	assert.Error(t, ev.UnmarshalText([]byte("nope+b")))
}
