package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ImGajeed76/filehelper/pkg/filehelper"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/console"
	"github.com/spf13/cobra"
)

// resolveDelimiter returns the -d value. When it is missing a terminal user
// picks one against the first lines of h, and ":" is used otherwise.
func resolveDelimiter(h *filehelper.Helper, delimiter string) (string, error) {
	if delimiter != "" {
		return delimiter, nil
	}
	if !isTerminal(os.Stdin) {
		return ":", nil
	}

	sample, err := headLines(h, 5)
	if err != nil {
		return "", err
	}
	return console.SelectDelimiter(console.DelimiterOptions{Sample: sample})
}

// headLines reads up to n lines from the stream of h.
func headLines(h *filehelper.Helper, n int) ([]string, error) {
	var lines []string
	for range n {
		line, ok, err := h.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func newLinesCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lines <file>",
		Short: "Print every line of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			lines, err := h.ReadAllLines()
			if err != nil {
				return err
			}
			return Output(cmd.OutOrStdout(), lines, g.output)
		},
	}
}

func newMapCommand(g *globalOptions) *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "map <file>",
		Short: "Print a file as a key/value mapping",
		Long: `Print a file as a key/value mapping.

Every non-empty line is split on the first occurrence of the delimiter.
When a key repeats, the last value wins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			d, err := resolveDelimiter(h, delimiter)
			if err != nil {
				return err
			}
			m, err := h.ReadAllAsMap(d)
			if err != nil {
				return err
			}
			return Output(cmd.OutOrStdout(), mappingResult(m, g.output), g.output)
		},
	}
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "key/value delimiter")
	return cmd
}

func newIDMapCommand(g *globalOptions) *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "idmap <file>",
		Short: "Print a file as a mapping with integer keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			d, err := resolveDelimiter(h, delimiter)
			if err != nil {
				return err
			}
			m, err := h.ReadAllAsIDMap(d)
			if err != nil {
				return err
			}
			return Output(cmd.OutOrStdout(), mappingResult(m, g.output), g.output)
		},
	}
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "key/value delimiter")
	return cmd
}

func newReadCommand(g *globalOptions) *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Print the first characters of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			chunk, err := h.ReadN(length)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), string(chunk))
			return err
		},
	}
	cmd.Flags().IntVarP(&length, "chars", "n", filehelper.DefaultReadLength, "number of characters to read")
	return cmd
}

func newHeadCommand(g *globalOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "head <file>",
		Short: "Print the first lines of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("line count must be positive, got %d", count)
			}

			h, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			lines, err := headLines(h, count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "lines", "n", 10, "number of lines to print")
	return cmd
}
