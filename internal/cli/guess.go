package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmarceau/croquis/pkg/formats"
)

// guessCommand creates the guess command, which prints the detected dialect
// of a treebank without converting it.
func (c *CLI) guessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guess [file]",
		Short: "Print the detected dialect of a treebank",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			data, err := readInput(input)
			if err != nil {
				return err
			}

			name, err := formats.Guess(strings.Split(string(data), "\n"))
			if err != nil {
				return err
			}
			// Bare name on stdout so the command composes in scripts.
			fmt.Println(string(name))
			return nil
		},
	}
}
