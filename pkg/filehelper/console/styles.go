// Package console holds the interactive terminal pieces of the filehelper
// command: prompts, a transfer progress bar and a file viewer.
package console

import (
	constants "github.com/ImGajeed76/filehelper/internal"
	"github.com/charmbracelet/lipgloss"
)

const clearScreen = "\033[H\033[2J"

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.ErrorColor)).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.TertiaryColor)).
			Italic(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(constants.Theme.TertiaryColor))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.TertiaryColor))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.SecondaryColor))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.SuccessColor))
)

// Success renders msg in the success color.
func Success(msg string) string {
	return successStyle.Render(msg)
}

// Error renders msg in the error color.
func Error(msg string) string {
	return errorStyle.Render(msg)
}

// Hint renders msg as a dim, italic hint.
func Hint(msg string) string {
	return hintStyle.Render(msg)
}
