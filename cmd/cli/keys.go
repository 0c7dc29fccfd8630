package cli

import (
	"fmt"

	"github.com/kcaldas/promptline/pkg/keymap"
	"github.com/kcaldas/promptline/pkg/keys"
	"github.com/kcaldas/promptline/pkg/logging"
	"github.com/kcaldas/promptline/pkg/terminal"
	"github.com/spf13/cobra"
)

func newKeysCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Show how key presses are decoded and bound",
		Long:  `Prints every key press with the action it resolves to. Press Ctrl+C to stop.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.loadBindings()
			if err != nil {
				return err
			}

			logging.SetGlobalLogger(logging.NewFileLoggerFromEnv(debugLogFile))
			term, err := terminal.New()
			if err != nil {
				return err
			}
			defer term.Fini()
			if err := term.Open(""); err != nil {
				return err
			}

			term.Println("Press keys to see how they resolve. Ctrl+C stops.")
			for {
				ev, err := term.NextEvent(cmd.Context())
				if err != nil {
					return err
				}
				term.Println(describeKey(table, ev))
				if ev == keys.Ctrl('c') {
					return nil
				}
			}
		},
	}
}

// describeKey renders one line of the keys command output.
func describeKey(table *keymap.Table, ev keys.Event) string {
	action, source := table.ResolveWithSource(ev)
	return fmt.Sprintf("%-16s %-26s %s", ev, action, source)
}
