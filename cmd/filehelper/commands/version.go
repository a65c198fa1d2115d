package commands

import (
	"fmt"
	"runtime"

	constants "github.com/ImGajeed76/filehelper/internal"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "filehelper %s (%s)\n", constants.Version, runtime.Version())
		},
	}
}
