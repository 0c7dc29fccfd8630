package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/awesome-gocui/gocui"
	"github.com/kcaldas/promptline/pkg/cuiedit"
	"github.com/kcaldas/promptline/pkg/events"
	"github.com/kcaldas/promptline/pkg/prompt"
)

const (
	viewOutput = "output"
	viewInput  = "input"
)

func runGocui(r *repl, publisher events.Publisher) error {
	g, err := gocui.NewGui(gocui.OutputNormal, true)
	if err != nil {
		return err
	}
	defer g.Close()

	quit := func() {
		g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
	}

	editor := cuiedit.New(r.promptConfig(publisher))
	editor.OnSubmit = func(line string) {
		if r.handle(line) {
			quit()
		}
	}
	editor.OnCancel = func(string) { quit() }
	editor.OnFrame = func(f prompt.Frame) {
		if v, err := g.View(viewInput); err == nil {
			v.Title = suggestionTitle(f)
		}
	}
	r.output = func(text string) {
		if v, err := g.View(viewOutput); err == nil {
			fmt.Fprintln(v, text)
		}
	}

	g.SetManagerFunc(func(g *gocui.Gui) error {
		maxX, maxY := g.Size()
		if v, err := g.SetView(viewOutput, 0, 0, maxX-1, maxY-4, 0); err != nil {
			if !errors.Is(err, gocui.ErrUnknownView) {
				return err
			}
			v.Autoscroll = true
			v.Wrap = true
		}
		if v, err := g.SetView(viewInput, 0, maxY-3, maxX-1, maxY-1, 0); err != nil {
			if !errors.Is(err, gocui.ErrUnknownView) {
				return err
			}
			v.Editable = true
			v.Wrap = false
			v.Editor = editor
			if _, err := g.SetCurrentView(viewInput); err != nil {
				return err
			}
			editor.Render(v)
		}
		return nil
	})

	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

// suggestionTitle lists the suggestions of f with the selected one in
// brackets.
func suggestionTitle(f prompt.Frame) string {
	if len(f.Suggestions) == 0 {
		return ""
	}
	parts := make([]string, len(f.Suggestions))
	for i, s := range f.Suggestions {
		if i == f.Selected {
			s = "[" + s + "]"
		}
		parts[i] = s
	}
	return " " + strings.Join(parts, " ") + " "
}
