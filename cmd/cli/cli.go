package cli

import (
	"fmt"
	"os"

	"github.com/kcaldas/promptline/pkg/config"
)

// Execute runs the CLI with all commands
func Execute() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	rootCmd := NewRootCommand()
	rootCmd.SetVersionTemplate("promptline version {{.Version}}\n")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
