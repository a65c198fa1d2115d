package console

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user leaves a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("input cancelled")

// InputOptions configures Input.
type InputOptions struct {
	Prompt      string
	Regex       string
	RegexError  string
	Default     string
	Placeholder string
	CharLimit   int
	Width       int
	Required    bool
	// Secret hides the typed characters.
	Secret bool
	// Confirm asks for the value a second time and only accepts a match.
	// ConfirmPrompt is shown for the second entry.
	Confirm       bool
	ConfirmPrompt string
}

func DefaultInputOptions() InputOptions {
	return InputOptions{
		Prompt:        "Enter value:",
		ConfirmPrompt: "Repeat to confirm:",
		CharLimit:     156,
		Width:         20,
		RegexError:    "Input format is invalid",
	}
}

// PasswordOptions returns options for entering the SFTP password of account.
func PasswordOptions(account string) InputOptions {
	opts := DefaultInputOptions()
	opts.Prompt = fmt.Sprintf("Password for %s:", account)
	opts.ConfirmPrompt = "Repeat the password:"
	opts.CharLimit = 256
	opts.Width = 32
	opts.Required = true
	opts.Secret = true
	opts.Confirm = true
	return opts
}

// Input shows a single line prompt and returns the validated value.
func Input(opts ...InputOptions) (string, error) {
	options := DefaultInputOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	model, err := initialInputModel(options)
	if err != nil {
		return "", err
	}

	fmt.Print(clearScreen)
	m, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", err
	}
	fmt.Print(clearScreen)

	final := m.(inputModel)
	if final.quitted {
		return "", ErrCancelled
	}
	return final.textInput.Value(), nil
}

type inputModel struct {
	textInput textinput.Model
	options   InputOptions
	regex     *regexp.Regexp
	// first holds the value under confirmation; confirming is set meanwhile
	first      string
	confirming bool
	mismatch   bool
	quitted    bool
}

func initialInputModel(options InputOptions) (inputModel, error) {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = options.CharLimit
	ti.Width = options.Width
	ti.Prompt = ""
	ti.TextStyle = inputStyle
	ti.PlaceholderStyle = placeholderStyle
	ti.Placeholder = options.Placeholder
	ti.SetValue(options.Default)

	if options.Secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	m := inputModel{textInput: ti, options: options}
	if options.Regex != "" {
		re, err := regexp.Compile(options.Regex)
		if err != nil {
			return inputModel{}, fmt.Errorf("invalid input pattern: %w", err)
		}
		m.regex = re
	}
	return m, nil
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) validateInput(input string) (bool, string) {
	if m.options.Required && strings.TrimSpace(input) == "" {
		return false, "Input is required"
	}
	if m.regex != nil && input != "" && !m.regex.MatchString(input) {
		return false, m.options.RegexError
	}
	return true, ""
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitted = true
			return m, tea.Quit
		}
		m.mismatch = false
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// submit accepts the current value, moves on to the confirmation entry, or
// starts over when the confirmation does not match.
func (m inputModel) submit() (tea.Model, tea.Cmd) {
	value := m.textInput.Value()
	switch {
	case m.confirming && value == m.first:
		return m, tea.Quit
	case m.confirming:
		m.confirming, m.first, m.mismatch = false, "", true
		m.textInput.Reset()
		return m, nil
	}

	if valid, _ := m.validateInput(value); !valid {
		return m, nil
	}
	if !m.options.Confirm {
		return m, tea.Quit
	}
	m.confirming, m.first = true, value
	m.textInput.Reset()
	return m, nil
}

func (m inputModel) View() string {
	var b strings.Builder

	prompt := m.options.Prompt
	if m.confirming {
		prompt = m.options.ConfirmPrompt
	}
	b.WriteString(promptStyle.Render(prompt))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	value := m.textInput.Value()
	if m.mismatch {
		b.WriteString(errorStyle.Render("Entries did not match, try again"))
		b.WriteString("\n")
	} else if valid, msg := m.validateInput(value); !valid && value != "" && !m.confirming {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("(esc to cancel)"))
	b.WriteString("\n")
	return b.String()
}
