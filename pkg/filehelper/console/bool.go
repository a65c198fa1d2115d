package console

import (
	"fmt"
	"strings"

	constants "github.com/ImGajeed76/filehelper/internal"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// YesNoOptions configures YesNo.
type YesNoOptions struct {
	Prompt     string
	DefaultYes bool
	YesText    string
	NoText     string
	// Preview lines are shown in a box under the prompt, for example the
	// current head of a file that is about to be replaced.
	Preview []string
	// PreviewMore marks the preview as truncated.
	PreviewMore bool
}

func DefaultYesNoOptions() YesNoOptions {
	return YesNoOptions{
		Prompt:     "Confirm?",
		DefaultYes: true,
		YesText:    "Yes",
		NoText:     "No",
	}
}

var previewStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color(constants.Theme.TertiaryColor)).
	Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).
	Padding(0, 1)

// YesNo asks a yes/no question. y and n answer directly; enter takes the
// highlighted answer.
func YesNo(opts ...YesNoOptions) (bool, error) {
	options := DefaultYesNoOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	fmt.Print(clearScreen)
	m, err := tea.NewProgram(yesNoModel{options: options, yes: options.DefaultYes}).Run()
	if err != nil {
		return false, err
	}
	fmt.Print(clearScreen)

	final := m.(yesNoModel)
	if final.quitted {
		return false, ErrCancelled
	}
	return final.yes, nil
}

type yesNoModel struct {
	options YesNoOptions
	yes     bool
	quitted bool
}

func (m yesNoModel) Init() tea.Cmd {
	return nil
}

func (m yesNoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "right", "h", "l", "tab":
		m.yes = !m.yes
	case "y", "Y":
		m.yes = true
		return m, tea.Quit
	case "n", "N":
		m.yes = false
		return m, tea.Quit
	case "enter":
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.quitted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m yesNoModel) View() string {
	var b strings.Builder

	b.WriteString(promptStyle.Render(m.options.Prompt))
	b.WriteString("\n\n")

	if len(m.options.Preview) > 0 {
		body := strings.Join(m.options.Preview, "\n")
		if m.options.PreviewMore {
			body += "\n" + hintStyle.Render("…")
		}
		b.WriteString(previewStyle.Render(body))
		b.WriteString("\n\n")
	}

	yes, no := unselectedStyle, selectedStyle
	if m.yes {
		yes, no = selectedStyle, unselectedStyle
	}
	b.WriteString(yes.Render(m.options.YesText))
	b.WriteString("  ")
	b.WriteString(no.Render(m.options.NoText))
	b.WriteString("\n\n")

	b.WriteString(hintStyle.Render("(y/n, ←/→ and enter, esc to cancel)"))
	b.WriteString("\n")
	return b.String()
}
