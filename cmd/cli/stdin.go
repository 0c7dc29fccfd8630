package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// hasStdinInput checks if data is available from stdin (pipe or redirect)
func hasStdinInput() bool {
	return !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// readLines calls fn for every line of r until fn asks to stop or r is
// exhausted.
func readLines(r io.Reader, fn func(line string) (stop bool)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if fn(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return nil
}
