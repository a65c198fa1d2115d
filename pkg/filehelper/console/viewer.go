package console

import (
	"fmt"
	"strings"

	"github.com/76creates/stickers/flexbox"
	constants "github.com/ImGajeed76/filehelper/internal"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var viewerStyles = struct {
	card       lipgloss.Style
	detailCard lipgloss.Style
	topBar     lipgloss.Style
	selected   lipgloss.Style
	key        lipgloss.Style
	search     lipgloss.Style
}{
	card: lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")),
	detailCard: lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(constants.Theme.PrimaryColor)),
	topBar: lipgloss.NewStyle().
		Padding(1).
		Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).
		Align(lipgloss.Center),
	selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
		Bold(true).
		Background(lipgloss.Color("236")),
	key: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.SecondaryColor)),
	search: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
		Italic(true),
}

// Entry is one row of the viewer: a line number and line, or a mapping key
// and value.
type Entry struct {
	Key   string
	Value string
}

type ViewerOptions struct {
	Title string
	// Style is a glamour style name. "auto" picks dark or light from the
	// terminal background.
	Style string
}

func DefaultViewerOptions() ViewerOptions {
	return ViewerOptions{
		Title: "filehelper",
		Style: "auto",
	}
}

// View shows entries in a two-pane browser: keys on the left, the selected
// value on the right. Typing filters the list.
func View(entries []Entry, opts ...ViewerOptions) error {
	options := DefaultViewerOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	_, err := tea.NewProgram(newViewerModel(entries, options), tea.WithAltScreen()).Run()
	return err
}

type viewerModel struct {
	entries []Entry
	visible []int // indexes into entries matching search
	search  string
	cursor  int
	offset  int
	// rows that fit in the list card
	maxEntries int

	fb         *flexbox.FlexBox
	topBar     *flexbox.Cell
	listCard   *flexbox.Cell
	detailCard *flexbox.Cell

	options  ViewerOptions
	renderer *glamour.TermRenderer
	cache    map[int]string
}

func newViewerModel(entries []Entry, options ViewerOptions) *viewerModel {
	topBar := flexbox.NewCell(1, 1).SetStyle(viewerStyles.topBar)
	listCard := flexbox.NewCell(1, 7).SetStyle(viewerStyles.card)
	detailCard := flexbox.NewCell(2, 7).SetStyle(viewerStyles.detailCard)

	fb := flexbox.New(0, 0)
	fb.AddRows([]*flexbox.Row{
		fb.NewRow().AddCells(topBar),
		fb.NewRow().AddCells(listCard, detailCard),
	})

	m := &viewerModel{
		entries:    entries,
		maxEntries: 10,
		fb:         fb,
		topBar:     topBar,
		listCard:   listCard,
		detailCard: detailCard,
		options:    options,
		cache:      make(map[int]string),
	}
	m.renderer = m.newRenderer(80)
	m.filter()
	return m
}

func (m *viewerModel) newRenderer(wrap int) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	if m.options.Style != "" && m.options.Style != "auto" {
		style = glamour.WithStandardStyle(m.options.Style)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(max(wrap, 20)))
	if err != nil {
		return nil
	}
	return r
}

func (m *viewerModel) Init() tea.Cmd {
	return nil
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.fb.SetWidth(msg.Width)
		m.fb.SetHeight(msg.Height)
		m.fb.ForceRecalculate()
		m.maxEntries = max(1, m.listCard.GetHeight()-6)
		m.renderer = m.newRenderer(m.detailCard.GetWidth() - 8)
		clear(m.cache)
		m.clampCursor()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *viewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		if m.search == "" {
			return m, tea.Quit
		}
		m.search = ""
		m.filter()
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyPgUp:
		m.move(-m.maxEntries)
	case tea.KeyPgDown:
		m.move(m.maxEntries)
	case tea.KeyBackspace:
		if m.search != "" {
			r := []rune(m.search)
			m.search = string(r[:len(r)-1])
			m.filter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.search += string(msg.Runes)
		m.filter()
	}
	return m, nil
}

// filter rebuilds the visible list from search and resets the selection.
func (m *viewerModel) filter() {
	m.visible = m.visible[:0]
	needle := strings.ToLower(m.search)
	for i, e := range m.entries {
		if needle == "" ||
			strings.Contains(strings.ToLower(e.Key), needle) ||
			strings.Contains(strings.ToLower(e.Value), needle) {
			m.visible = append(m.visible, i)
		}
	}
	m.cursor, m.offset = 0, 0
}

// move shifts the selection by delta, scrolling the window as needed.
func (m *viewerModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	pos := min(max(m.cursor+m.offset+delta, 0), len(m.visible)-1)
	switch {
	case pos < m.offset:
		m.offset = pos
	case pos >= m.offset+m.maxEntries:
		m.offset = pos - m.maxEntries + 1
	}
	m.cursor = pos - m.offset
}

func (m *viewerModel) clampCursor() {
	m.move(0)
}

// selected returns the index into entries of the current row, or -1.
func (m *viewerModel) selected() int {
	pos := m.cursor + m.offset
	if pos < 0 || pos >= len(m.visible) {
		return -1
	}
	return m.visible[pos]
}

func (m *viewerModel) detail(i int) string {
	if out, ok := m.cache[i]; ok {
		return out
	}

	e := m.entries[i]
	md := fmt.Sprintf("## %s\n\n```\n%s\n```\n", e.Key, e.Value)
	out := md
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			out = rendered
		}
	}
	m.cache[i] = out
	return out
}

func (m *viewerModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("%s - %s", m.options.Title, constants.Version))
	m.topBar.SetContent(title + "\n" + hintStyle.Render(fmt.Sprintf("%d of %d entries", len(m.visible), len(m.entries))))

	var list strings.Builder
	if m.search != "" {
		list.WriteString(viewerStyles.search.Render("search: " + m.search))
		list.WriteString("\n\n")
	}
	end := min(len(m.visible), m.offset+m.maxEntries)
	for row, i := range m.visible[m.offset:end] {
		key := m.entries[i].Key
		if row == m.cursor {
			list.WriteString(viewerStyles.selected.Render("▸ " + key))
		} else {
			list.WriteString(viewerStyles.key.Render("  " + key))
		}
		list.WriteString("\n")
	}
	list.WriteString("\n")
	list.WriteString(hintStyle.Render("↑/↓ move • type to search • esc to quit"))
	m.listCard.SetContent(list.String())

	if i := m.selected(); i >= 0 {
		m.detailCard.SetContent(m.detail(i))
	} else {
		m.detailCard.SetContent(hintStyle.Render("no matching entries"))
	}

	return m.fb.Render()
}
