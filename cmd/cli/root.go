package cli

import (
	"fmt"

	"github.com/kcaldas/promptline/pkg/config"
	"github.com/kcaldas/promptline/pkg/keymap"
	"github.com/kcaldas/promptline/pkg/logging"
	"github.com/kcaldas/promptline/pkg/version"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags and what PersistentPreRunE derives
// from them.
type rootOptions struct {
	verbose      bool
	quiet        bool
	ui           string
	settingsPath string
	bindingsPath string

	settings *config.Settings
	logger   logging.Logger
}

// NewRootCommand builds the promptline command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "promptline",
		Short: "Interactive line editor",
		Long: `promptline reads lines with grapheme-aware editing, inline completion and
rebindable keys. Without a subcommand it starts a REPL that echoes every line.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.prepare()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output (debug level)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "quiet output (errors only)")
	cmd.PersistentFlags().StringVar(&opts.settingsPath, "settings", "", "settings file (default ~/.promptline/settings.yaml)")
	cmd.PersistentFlags().StringVar(&opts.bindingsPath, "bindings", "", "binding document overriding the settings file")
	cmd.Flags().StringVar(&opts.ui, "ui", uiTCell, "user interface (tcell, gocui or plain)")

	cmd.AddCommand(
		newBindingsCommand(opts),
		newKeysCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func (o *rootOptions) prepare() error {
	var logger logging.Logger
	if o.quiet {
		logger = logging.NewQuietLogger()
	} else if o.verbose {
		logger = logging.NewVerboseLogger()
	} else {
		logger = logging.NewDefaultLogger()
	}
	logging.SetGlobalLogger(logger)
	o.logger = logger

	m := config.NewConfigManager()
	path := o.settingsPath
	if path == "" {
		var err error
		if path, err = config.DefaultSettingsPath(m); err != nil {
			return err
		}
	}

	settings, err := config.LoadSettings(path, m)
	if err != nil {
		return err
	}
	if o.bindingsPath != "" {
		settings.Bindings = o.bindingsPath
	}
	o.settings = settings
	logger.Debug("settings loaded", "path", path, "bindings", settings.Bindings)
	return nil
}

// loadBindings returns the table configured by the settings, or an empty
// table when none is configured.
func (o *rootOptions) loadBindings() (*keymap.Table, error) {
	if o.settings == nil || o.settings.Bindings == "" {
		return keymap.New(), nil
	}
	table, err := keymap.LoadFile(o.settings.Bindings)
	if err != nil {
		return nil, fmt.Errorf("failed to load bindings: %w", err)
	}
	return table, nil
}
