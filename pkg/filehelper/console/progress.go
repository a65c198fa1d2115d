package console

import (
	"io"
	"os"
	"strings"
	"sync"

	constants "github.com/ImGajeed76/filehelper/internal"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	padding  = 2
	maxWidth = 80
)

type ProgressOptions struct {
	GradientColors []string
	Width          int
	Padding        int
	// Output receives the rendered bar. Defaults to os.Stderr so that
	// stdout stays clean for piped output.
	Output io.Writer
}

func DefaultProgressOptions() ProgressOptions {
	return ProgressOptions{
		GradientColors: constants.ProgressGradient[:],
		Width:          maxWidth,
		Padding:        padding,
		Output:         os.Stderr,
	}
}

// ProgressBar renders a bar in its own tea.Program until Finish or Close.
// Update matches the shape of filehelper.Options.Progress.
type ProgressBar struct {
	updateCh  chan progressMsg
	closeCh   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	err       error
}

type progressMsg struct {
	total int64
	count int64
}

type progressModel struct {
	progress progress.Model
	options  ProgressOptions
	percent  float64
	updateCh <-chan progressMsg
	closeCh  <-chan struct{}
}

func (m *progressModel) waitForUpdate() tea.Msg {
	select {
	case msg := <-m.updateCh:
		return msg
	case <-m.closeCh:
		return tea.QuitMsg{}
	}
}

func (m *progressModel) Init() tea.Cmd {
	return m.waitForUpdate
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-m.options.Padding*2-4, m.options.Width)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		m.percent = fraction(msg.total, msg.count)
		return m, tea.Batch(m.progress.SetPercent(m.percent), m.waitForUpdate)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	default:
		return m, nil
	}
}

func (m *progressModel) View() string {
	pad := strings.Repeat(" ", m.options.Padding)
	return "\n" + pad + m.progress.View() + "\n\n"
}

func fraction(total, count int64) float64 {
	if total <= 0 {
		return 0
	}
	return min(1, float64(count)/float64(total))
}

// NewProgressBar starts rendering an empty bar.
func NewProgressBar(opts ...ProgressOptions) *ProgressBar {
	options := DefaultProgressOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if len(options.GradientColors) < 2 {
		options.GradientColors = constants.ProgressGradient[:]
	}
	if options.Output == nil {
		options.Output = os.Stderr
	}

	b := &ProgressBar{
		updateCh: make(chan progressMsg),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	m := &progressModel{
		progress: progress.New(
			progress.WithGradient(options.GradientColors[0], options.GradientColors[1]),
			progress.WithWidth(options.Width),
		),
		options:  options,
		updateCh: b.updateCh,
		closeCh:  b.closeCh,
	}

	go func() {
		defer close(b.done)
		_, b.err = tea.NewProgram(m, tea.WithOutput(options.Output), tea.WithInput(nil)).Run()
	}()

	return b
}

// Update reports that count of total units are done. It is a no-op once the
// bar is closed.
func (b *ProgressBar) Update(total, count int64) {
	select {
	case <-b.closeCh:
	case <-b.done:
	case b.updateCh <- progressMsg{total: total, count: count}:
	}
}

// Finish fills the bar and closes it.
func (b *ProgressBar) Finish() error {
	b.Update(1, 1)
	return b.Close()
}

// Close stops the bar and waits for the program to exit. It is safe to call
// more than once.
func (b *ProgressBar) Close() error {
	b.closeOnce.Do(func() {
		close(b.closeCh)
	})
	<-b.done
	return b.err
}
