package console

import (
	"errors"
	"fmt"
	"strings"

	constants "github.com/ImGajeed76/filehelper/internal"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultDelimiters are the key/value separators offered when none is given.
var DefaultDelimiters = []string{":", "=", ",", ";", "\t", " => "}

// DelimiterOptions configures SelectDelimiter.
type DelimiterOptions struct {
	Title string
	// Choices defaults to DefaultDelimiters.
	Choices []string
	// Sample lines are split with the highlighted delimiter as a preview.
	Sample []string
}

// SelectDelimiter asks which delimiter splits the sample lines into keys and
// values. The choice that splits most sample lines is highlighted first.
func SelectDelimiter(opts DelimiterOptions) (string, error) {
	model, err := newDelimiterModel(opts)
	if err != nil {
		return "", err
	}

	fmt.Print(clearScreen)
	m, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", err
	}
	fmt.Print(clearScreen)

	final := m.(delimiterModel)
	if final.quitted {
		return "", ErrCancelled
	}
	return final.choice(), nil
}

// DelimiterLabel is d as shown to the user. Whitespace delimiters are named.
func DelimiterLabel(d string) string {
	switch d {
	case "\t":
		return `\t (tab)`
	case " ":
		return `" " (space)`
	}
	return fmt.Sprintf("%q", d)
}

const maxPreviewLines = 5

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).
			Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.TertiaryColor))
)

type delimiterModel struct {
	title   string
	choices []string
	sample  []string
	// splits[i] counts the sample lines choices[i] splits
	splits  []int
	cursor  int
	quitted bool
}

func newDelimiterModel(opts DelimiterOptions) (delimiterModel, error) {
	choices := opts.Choices
	if len(choices) == 0 {
		choices = DefaultDelimiters
	}
	for _, c := range choices {
		if c == "" {
			return delimiterModel{}, errors.New("empty delimiter choice")
		}
	}
	title := opts.Title
	if title == "" {
		title = "Split lines on:"
	}

	var sample []string
	for _, line := range opts.Sample {
		if line != "" {
			sample = append(sample, line)
		}
		if len(sample) == maxPreviewLines {
			break
		}
	}

	m := delimiterModel{
		title:   title,
		choices: choices,
		sample:  sample,
		splits:  make([]int, len(choices)),
	}
	for i, c := range choices {
		for _, line := range sample {
			if strings.Contains(line, c) {
				m.splits[i]++
			}
		}
		if m.splits[i] > m.splits[m.cursor] {
			m.cursor = i
		}
	}
	return m, nil
}

func (m delimiterModel) choice() string {
	return m.choices[m.cursor]
}

func (m delimiterModel) Init() tea.Cmd {
	return nil
}

func (m delimiterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitted = true
			return m, tea.Quit
		case "enter":
			return m, tea.Quit
		case "up", "k", "shift+tab":
			m.cursor = (m.cursor + len(m.choices) - 1) % len(m.choices)
		case "down", "j", "tab":
			m.cursor = (m.cursor + 1) % len(m.choices)
		}
	}
	return m, nil
}

func (m delimiterModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, c := range m.choices {
		label := DelimiterLabel(c)
		if len(m.sample) > 0 {
			label = fmt.Sprintf("%-14s %d/%d lines", label, m.splits[i], len(m.sample))
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + label))
		} else {
			b.WriteString(itemStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	if len(m.sample) > 0 {
		b.WriteString("\n")
		b.WriteString(m.preview())
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ to move • enter to select • esc to cancel"))
	return b.String()
}

// preview renders the sample split on the highlighted delimiter.
func (m delimiterModel) preview() string {
	d := m.choice()
	var b strings.Builder
	for _, line := range m.sample {
		key, value, ok := strings.Cut(line, d)
		if !ok {
			b.WriteString(errorStyle.Render("  " + line + "  (no " + DelimiterLabel(d) + ")"))
		} else {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(key))
			b.WriteString(separatorStyle.Render(" │ "))
			b.WriteString(inputStyle.Render(value))
		}
		b.WriteString("\n")
	}
	return b.String()
}
