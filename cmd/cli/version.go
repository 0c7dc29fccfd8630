package cli

import (
	"fmt"

	"github.com/kcaldas/promptline/pkg/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.GetInfo()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.ShortString())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
