package cuiedit

import (
	"errors"
	"testing"

	"github.com/awesome-gocui/gocui"
	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/buffer"
	"github.com/kcaldas/promptline/pkg/completion"
	"github.com/kcaldas/promptline/pkg/keymap"
	"github.com/kcaldas/promptline/pkg/keys"
	"github.com/kcaldas/promptline/pkg/prompt"
	"github.com/stretchr/testify/assert"
)

// MockView records what the editor draws.
type MockView struct {
	buffer  string
	cursorX int
	cursorY int
	width   int
}

func NewMockView(width int) *MockView {
	return &MockView{width: width}
}

func (m *MockView) Clear() { m.buffer = "" }
func (m *MockView) Write(data []byte) (int, error) {
	m.buffer += string(data)
	return len(data), nil
}
func (m *MockView) SetCursor(x, y int) error {
	m.cursorX, m.cursorY = x, y
	return nil
}
func (m *MockView) Size() (int, int) { return m.width, 1 }

func typeText(e *Editor, v View, text string) {
	for _, r := range text {
		if r == ' ' {
			e.edit(v, gocui.KeySpace, 0, gocui.ModNone)
			continue
		}
		e.edit(v, 0, r, gocui.ModNone)
	}
}

func TestEditorTypesAndSubmits(t *testing.T) {
	var submitted []string
	e := New(prompt.Config{})
	e.OnSubmit = func(line string) { submitted = append(submitted, line) }
	v := NewMockView(40)

	typeText(e, v, "hello world")
	assert.Equal(t, "hello world", v.buffer)
	assert.Equal(t, 11, v.cursorX)

	e.edit(v, gocui.KeyEnter, 0, gocui.ModNone)
	assert.Equal(t, []string{"hello world"}, submitted)
	assert.Equal(t, "", v.buffer)
	assert.Equal(t, prompt.Editing, e.Session().State())
}

func TestEditorDeletesWordWithCtrlW(t *testing.T) {
	e := New(prompt.Config{})
	v := NewMockView(40)

	typeText(e, v, "git commit")
	e.edit(v, gocui.KeyCtrlW, 0, gocui.ModNone)
	assert.Equal(t, "git ", v.buffer)

	e.edit(v, gocui.KeyBackspace2, 0, gocui.ModNone)
	assert.Equal(t, "git", v.buffer)
}

func TestEditorDrawsGhostAndAcceptsIt(t *testing.T) {
	e := New(prompt.Config{Completer: completion.NewBasic(":write", ":quit")})
	v := NewMockView(40)

	typeText(e, v, ":w")
	assert.Equal(t, ":w"+ghostStart+"rite"+ghostEnd, v.buffer)
	assert.Equal(t, 2, v.cursorX)

	e.edit(v, gocui.KeyEnd, 0, gocui.ModNone)
	assert.Equal(t, ":write", v.buffer)
	assert.Equal(t, 6, v.cursorX)
}

func TestEditorCancel(t *testing.T) {
	var partial string
	cancelled := false
	e := New(prompt.Config{Prompt: "> "})
	e.OnCancel = func(p string) {
		cancelled = true
		partial = p
	}
	v := NewMockView(40)

	typeText(e, v, "abc")
	assert.Equal(t, "> abc", v.buffer)
	assert.Equal(t, 5, v.cursorX)

	e.edit(v, gocui.KeyEsc, 0, gocui.ModNone)
	assert.True(t, cancelled)
	assert.Equal(t, "abc", partial)
	assert.Equal(t, "> ", v.buffer)
}

func TestEditorCustomActionFailureKeepsEditing(t *testing.T) {
	bindings := keymap.New()
	bindings.Set(keys.Ctrl('v'), actions.Custom("paste"))
	e := New(prompt.Config{
		Bindings: bindings,
		Handlers: map[string]prompt.Handler{
			"paste": func(*buffer.Buffer) error { return errors.New("no clipboard") },
		},
	})
	v := NewMockView(40)

	typeText(e, v, "x")
	e.edit(v, gocui.KeyCtrlV, 0, gocui.ModNone)
	assert.Equal(t, "x", v.buffer)
	assert.Equal(t, prompt.Editing, e.Session().State())
}

func TestEditorScrollsLongLines(t *testing.T) {
	e := New(prompt.Config{})
	v := NewMockView(10)

	typeText(e, v, "abcdefghijklmno")
	assert.Equal(t, "hijklmno", v.buffer)
	assert.Equal(t, 8, v.cursorX)

	e.edit(v, gocui.KeyHome, 0, gocui.ModNone)
	assert.Equal(t, "abcdefghij", v.buffer)
	assert.Equal(t, 0, v.cursorX)
}

func TestEditorSetLine(t *testing.T) {
	var frames []prompt.Frame
	e := New(prompt.Config{})
	e.OnFrame = func(f prompt.Frame) { frames = append(frames, f) }
	v := NewMockView(40)

	e.SetLine(v, "preset")
	assert.Equal(t, "preset", v.buffer)
	assert.Equal(t, 6, v.cursorX)
	if assert.Len(t, frames, 1) {
		assert.Equal(t, "preset", frames[0].Line)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "cde", clip("abcdef", 2, 3))
	assert.Equal(t, "日", clip("日本", 0, 3))
	assert.Equal(t, "", clip("", 0, 5))
}
