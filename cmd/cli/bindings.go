package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/kcaldas/promptline/pkg/keymap"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func newBindingsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Inspect and convert key binding documents",
		Long: `Binding documents override the built-in key bindings. They are YAML or JSON:

  version: 1
  bindings:
    - key: tab
      action: submit
    - key: ctrl+j
      action: delete(backward,word)`,
	}

	cmd.AddCommand(
		newBindingsExportCommand(opts),
		newBindingsCheckCommand(),
		newBindingsDiffCommand(),
		newBindingsListCommand(opts),
	)
	return cmd
}

func newBindingsExportCommand(opts *rootOptions) *cobra.Command {
	var format string
	var all bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the configured bindings as a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := keymap.CodecByName(format)
			if err != nil {
				return err
			}
			table, err := opts.loadBindings()
			if err != nil {
				return err
			}
			if all {
				table = effectiveTable(table)
			}
			data, err := table.Export(codec)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml or json)")
	cmd.Flags().BoolVar(&all, "all", false, "include the built-in bindings")
	return cmd
}

func newBindingsCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a binding document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := keymap.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bindings ok\n", args[0], table.Len())
			return nil
		},
	}
}

func newBindingsDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two binding documents after normalising them",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, err := diffBindings(args[0], args[1])
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no differences")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}

func newBindingsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the effective bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.loadBindings()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tACTION\tSOURCE\tDESCRIPTION")
			for _, b := range table.Effective() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Event, b.Action, b.Source, b.Description)
			}
			return w.Flush()
		},
	}
}

// effectiveTable returns a table overriding every key the effective
// bindings of t mention.
func effectiveTable(t *keymap.Table) *keymap.Table {
	out := keymap.New()
	for _, b := range t.Effective() {
		out.Set(b.Event, b.Action)
	}
	return out
}

// diffBindings returns a unified diff of the normalised YAML exports of two
// binding documents, or "" when they bind the same keys to the same
// actions.
func diffBindings(pathA, pathB string) (string, error) {
	a, err := normalisedBindings(pathA)
	if err != nil {
		return "", err
	}
	b, err := normalisedBindings(pathB)
	if err != nil {
		return "", err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: pathA,
		ToFile:   pathB,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func normalisedBindings(path string) (string, error) {
	table, err := keymap.LoadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	data, err := table.Export(keymap.YAML)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
