package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/buffer"
	"github.com/kcaldas/promptline/pkg/completion"
	"github.com/kcaldas/promptline/pkg/config"
	"github.com/kcaldas/promptline/pkg/events"
	"github.com/kcaldas/promptline/pkg/history"
	"github.com/kcaldas/promptline/pkg/keymap"
	"github.com/kcaldas/promptline/pkg/keys"
	"github.com/kcaldas/promptline/pkg/logging"
	"github.com/kcaldas/promptline/pkg/prompt"
	"github.com/kcaldas/promptline/pkg/terminal"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const (
	uiTCell = "tcell"
	uiGocui = "gocui"
	uiPlain = "plain"

	actionPaste    = "paste"
	actionCopyLine = "copy-line"

	commandLeader = ":"
	debugLogFile  = "promptline-debug.log"
)

// Clipboard is the system clipboard used by the paste and copy-line
// actions.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type replCommand struct {
	description string
	run         func(r *repl, args []string) (quit bool)
}

// repl is the state shared by the lines of one REPL run.
type repl struct {
	settings  *config.Settings
	bindings  *keymap.Table
	history   *history.History
	clipboard Clipboard
	logger    logging.Logger
	commands  map[string]replCommand

	// output shows text to the user; each UI installs its own.
	output func(text string)
}

func newREPL(settings *config.Settings, bindings *keymap.Table, logger logging.Logger) *repl {
	r := &repl{
		settings:  settings,
		bindings:  bindings,
		history:   history.NewWithSize(settings.HistorySize),
		clipboard: systemClipboard{},
		logger:    logger,
		output:    func(string) {},
	}
	r.commands = map[string]replCommand{
		"help":     {"list commands", (*repl).showHelp},
		"history":  {"show submitted lines", (*repl).showHistory},
		"bindings": {"show the effective key bindings", (*repl).showBindings},
		"quit":     {"leave the REPL", func(*repl, []string) bool { return true }},
	}
	return r
}

func (r *repl) commandNames() []string {
	names := lo.Keys(r.commands)
	sort.Strings(names)
	return names
}

// promptConfig builds the prompt configuration for every line.
func (r *repl) promptConfig(publisher events.Publisher) prompt.Config {
	router := completion.NewRouter()
	router.Register(completion.NewCommands(commandLeader, r.commandNames))
	if len(r.settings.Candidates) > 0 {
		router.Register(completion.NewBasic(r.settings.Candidates...))
	}

	bindings := r.bindings.Clone()
	for ev, name := range map[keys.Event]string{
		keys.Ctrl('v'): actionPaste,
		keys.Ctrl('y'): actionCopyLine,
	} {
		if _, bound := bindings.Lookup(ev); !bound {
			bindings.Set(ev, actions.Custom(name))
		}
	}

	return prompt.Config{
		Prompt:    r.settings.Prompt,
		Completer: router,
		Suggester: router,
		Bindings:  bindings,
		History:   r.history,
		Handlers: map[string]prompt.Handler{
			actionPaste:    r.paste,
			actionCopyLine: r.copyLine,
		},
		EraseAfterRead: r.settings.EraseAfterRead,
		Logger:         r.logger,
		Publisher:      publisher,
	}
}

// handle runs a submitted line and reports whether the REPL should end.
func (r *repl) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, commandLeader) {
		r.history.Add(line)
		r.output(line)
		return false
	}

	fields := strings.Fields(strings.TrimPrefix(trimmed, commandLeader))
	if len(fields) == 0 {
		return r.showHelp(nil)
	}
	cmd, ok := r.commands[fields[0]]
	if !ok {
		r.output(fmt.Sprintf("unknown command %q, try %shelp", fields[0], commandLeader))
		return false
	}
	r.history.Add(trimmed)
	return cmd.run(r, fields[1:])
}

func (r *repl) showHelp([]string) bool {
	for _, name := range r.commandNames() {
		r.output(fmt.Sprintf("%s%-10s %s", commandLeader, name, r.commands[name].description))
	}
	return false
}

func (r *repl) showHistory([]string) bool {
	for i, entry := range r.history.Entries() {
		r.output(fmt.Sprintf("%3d  %s", i+1, entry))
	}
	return false
}

func (r *repl) showBindings([]string) bool {
	for _, b := range r.bindings.Effective() {
		r.output(fmt.Sprintf("%-14s %s", b.Event, b.Action))
	}
	return false
}

func (r *repl) paste(buf *buffer.Buffer) error {
	text, err := r.clipboard.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	text = strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")
	buf.Insert(text)
	return nil
}

func (r *repl) copyLine(buf *buffer.Buffer) error {
	if err := r.clipboard.WriteAll(buf.String()); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// watch logs prompt lifecycle events.
func (r *repl) watch(bus events.Subscriber) {
	bus.Subscribe(events.LineSubmittedEvent{}.Topic(), func(e interface{}) {
		if ev, ok := e.(events.LineSubmittedEvent); ok {
			r.logger.Debug("line submitted", "session", ev.SessionID, "keys", ev.Events)
		}
	})
	bus.Subscribe(events.LineCancelledEvent{}.Topic(), func(e interface{}) {
		if ev, ok := e.(events.LineCancelledEvent); ok {
			r.logger.Debug("line cancelled", "session", ev.SessionID, "partial", ev.Partial)
		}
	})
	bus.Subscribe(events.BindingsLoadedEvent{}.Topic(), func(e interface{}) {
		if ev, ok := e.(events.BindingsLoadedEvent); ok {
			r.logger.Info("bindings loaded", "source", ev.Source, "count", ev.Count)
		}
	})
}

func runREPL(cmd *cobra.Command, opts *rootOptions) error {
	mode := opts.ui
	switch mode {
	case uiTCell, uiGocui, uiPlain:
	default:
		return fmt.Errorf("unknown ui %q", mode)
	}
	if hasStdinInput() {
		mode = uiPlain
	}

	if mode != uiPlain {
		// The screen belongs to the prompt from here on.
		logger := logging.NewFileLoggerFromEnv(debugLogFile)
		if opts.verbose {
			logger.SetLevel(slog.LevelDebug)
		}
		logging.SetGlobalLogger(logger)
	}

	bindings, err := opts.loadBindings()
	if err != nil {
		return err
	}

	bus := events.NewEventBus()
	defer bus.Shutdown()

	r := newREPL(opts.settings, bindings, logging.NewComponentLogger("repl"))
	r.watch(bus)
	if opts.settings.Bindings != "" {
		events.PublishEvent(bus, events.BindingsLoadedEvent{Source: opts.settings.Bindings, Count: bindings.Len()})
	}

	switch mode {
	case uiPlain:
		out := cmd.OutOrStdout()
		r.output = func(text string) { fmt.Fprintln(out, text) }
		return readLines(cmd.InOrStdin(), r.handle)
	case uiGocui:
		return runGocui(r, bus)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return runTerminal(ctx, r, bus)
}

func runTerminal(ctx context.Context, r *repl, publisher events.Publisher) error {
	term, err := terminal.New()
	if err != nil {
		return err
	}
	defer term.Fini()

	r.output = term.Println
	return readLoop(ctx, prompt.New(term, r.promptConfig(publisher)), r)
}

// readLoop reads lines until one is cancelled or a command ends the REPL.
func readLoop(ctx context.Context, p *prompt.Prompt, r *repl) error {
	for {
		out, err := p.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		line, ok := out.Value()
		if !ok || r.handle(line) {
			return nil
		}
	}
}
