package commands

import (
	"fmt"
	"os"

	"github.com/ImGajeed76/filehelper/pkg/filehelper"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/console"
	"github.com/spf13/cobra"
)

// replacePreviewLines is how much of the current content confirmReplace shows.
const replacePreviewLines = 3

// confirmReplace asks before truncating a non-empty file when interactive.
func confirmReplace(h *filehelper.Helper, file string, interactive bool) (bool, error) {
	if !interactive {
		return true, nil
	}
	head, err := headLines(h, replacePreviewLines+1)
	if err != nil {
		return false, err
	}
	if len(head) == 0 {
		return true, nil
	}

	more := len(head) > replacePreviewLines
	if more {
		head = head[:replacePreviewLines]
	}
	return console.YesNo(console.YesNoOptions{
		Prompt:      fmt.Sprintf("Replace the contents of %s?", file),
		DefaultYes:  false,
		YesText:     "Replace",
		NoText:      "Keep",
		Preview:     head,
		PreviewMore: more,
	})
}

func newWriteCommand(g *globalOptions) *cobra.Command {
	var (
		appendMode bool
		line       bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "write <file> <value>",
		Short: "Write a value to a file",
		Long: `Write a value to a file, replacing its contents unless --append is set.

With --line the value is followed by CRLF.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			if !appendMode && !yes {
				ok, err := confirmReplace(h, args[0], isTerminal(os.Stdin))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), console.Hint("aborted, file left unchanged"))
					return nil
				}
			}

			if line {
				_, err = h.WriteLine(args[1], appendMode)
			} else {
				_, err = h.Write(args[1], appendMode)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&appendMode, "append", "a", false, "append instead of replacing")
	cmd.Flags().BoolVarP(&line, "line", "l", false, "terminate the value with CRLF")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace without asking")
	return cmd
}

func newPutCommand(g *globalOptions) *cobra.Command {
	var (
		appendMode bool
		progress   bool
	)

	cmd := &cobra.Command{
		Use:   "put <file> <line>...",
		Short: "Write lines to a file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				bar       *console.ProgressBar
				configure []func(*filehelper.Options)
			)
			if progress {
				bar = console.NewProgressBar(console.ProgressOptions{
					Width:   40,
					Padding: 2,
					Output:  cmd.ErrOrStderr(),
				})
				defer bar.Close()
				configure = append(configure, func(o *filehelper.Options) {
					o.Progress = bar.Update
				})
			}

			h, err := g.open(cmd, args[0], configure...)
			if err != nil {
				return err
			}
			defer h.Close()

			if err := h.WriteLines(args[1:], appendMode); err != nil {
				return err
			}
			if bar == nil {
				return nil
			}
			if err := bar.Finish(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), console.Success(fmt.Sprintf("✓ wrote %d lines to %s", len(args)-1, args[0])))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&appendMode, "append", "a", false, "append instead of replacing")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar")
	return cmd
}
