package commands

import (
	"strconv"

	"github.com/ImGajeed76/filehelper/pkg/filehelper"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/console"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/path"
	"github.com/spf13/cobra"
)

// viewEntries loads the file as numbered lines, or as a mapping when
// delimiter is set.
func viewEntries(h *filehelper.Helper, delimiter string) ([]console.Entry, error) {
	if delimiter == "" {
		lines, err := h.ReadAllLines()
		if err != nil {
			return nil, err
		}
		entries := make([]console.Entry, len(lines))
		for i, line := range lines {
			entries[i] = console.Entry{Key: strconv.Itoa(i + 1), Value: line}
		}
		return entries, nil
	}

	m, err := h.ReadAllAsMap(delimiter)
	if err != nil {
		return nil, err
	}
	entries := make([]console.Entry, 0, m.Len())
	for k, v := range m.All() {
		entries = append(entries, console.Entry{Key: k, Value: v})
	}
	return entries, nil
}

func newViewCommand(g *globalOptions) *cobra.Command {
	var (
		delimiter string
		style     string
	)

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Browse a file interactively",
		Long: `Browse a file in a two-pane terminal view.

Without -d every line is an entry, keyed by its line number. With -d the
file is read as a key/value mapping. Type to filter, esc to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := g.open(cmd, args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			entries, err := viewEntries(h, delimiter)
			if err != nil {
				return err
			}
			return console.View(entries, console.ViewerOptions{
				Title: path.New(args[0]).Name(),
				Style: style,
			})
		},
	}
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "show the file as a mapping split on this delimiter")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light or notty")
	return cmd
}
