package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsNoop(t *testing.T) {
	var a Action
	assert.Equal(t, Noop(), a)
	assert.Equal(t, KindNoop, a.Kind)
	assert.Equal(t, "noop", a.String())
}

func TestActionText(t *testing.T) {
	tests := []struct {
		action Action
		text   string
	}{
		{Noop(), "noop"},
		{Submit(), "submit"},
		{Cancel(), "cancel"},
		{InsertChar("x"), "insert(x)"},
		{InsertChar(")"), "insert())"},
		{InsertChar(" "), "insert( )"},
		{MoveCursor(Backward, Word), "move(backward,word)"},
		{MoveCursor(Forward, Char), "move(forward,char)"},
		{Delete(Forward, Line), "delete(forward,line)"},
		{Complete(Word), "complete(word)"},
		{CycleSuggestion(Backward), "cycle(backward)"},
		{HistoryMove(Forward), "history(forward)"},
		{Custom("paste"), "custom(paste)"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.action.String())

			parsed, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.action, parsed)
		})
	}
}

func TestParseLenient(t *testing.T) {
	tests := []struct {
		input    string
		expected Action
	}{
		{"  submit ", Submit()},
		{"accept", Submit()},
		{"Delete(Back, Single)", Delete(Backward, Char)},
		{"complete", Complete(Line)},
		{"custom( paste )", Custom("paste")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed)
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"jump",
		"submit(now)",
		"insert()",
		"insert",
		"move(forward)",
		"move(up,char)",
		"delete(forward,paragraph)",
		"cycle",
		"history(sideways)",
		"custom()",
		"move(forward,char",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestClassification(t *testing.T) {
	assert.True(t, Submit().Terminal())
	assert.True(t, Cancel().Terminal())
	assert.False(t, InsertChar("a").Terminal())

	assert.True(t, InsertChar("a").Edits())
	assert.True(t, Delete(Backward, Char).Edits())
	assert.True(t, HistoryMove(Backward).Edits())
	assert.False(t, MoveCursor(Forward, Char).Edits())
	assert.False(t, CycleSuggestion(Forward).Edits())
}

func TestUnmarshalText(t *testing.T) {
	var a Action
	require.NoError(t, a.UnmarshalText([]byte("delete(backward,word)")))
	assert.Equal(t, Delete(Backward, Word), a)

	err := a.UnmarshalText([]byte("bogus"))
	assert.Error(t, err)
	assert.Equal(t, Delete(Backward, Word), a, "failed decode must leave the action untouched")
}
