package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

// DefaultDuration is how long a toast stays on screen.
const DefaultDuration = time.Second

var (
	toastBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
	toastTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	toastHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Toast draws the message in a small box on a terminal and removes it after
// the display duration. It reads no input and never takes over the screen.
type Toast struct {
	out        io.Writer
	duration   time.Duration
	isTerminal func(io.Writer) bool
}

// NewToast creates a toast writing to out (os.Stderr when nil).
func NewToast(out io.Writer, duration time.Duration) *Toast {
	if out == nil {
		out = os.Stderr
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Toast{out: out, duration: duration, isTerminal: logging.IsTerminal}
}

// Notify implements Notifier. It returns ErrNoDisplay when the output is not
// a terminal.
func (t *Toast) Notify(ctx context.Context, message string) error {
	if !t.isTerminal(t.out) {
		return ErrNoDisplay
	}
	p := tea.NewProgram(newToastModel(message, t.duration),
		tea.WithOutput(t.out),
		tea.WithInput(nil),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running toast: %w", err)
	}
	return nil
}

type toastModel struct {
	message string
	timer   timer.Model
	done    bool
}

func newToastModel(message string, d time.Duration) toastModel {
	return toastModel{
		message: message,
		timer:   timer.NewWithInterval(d, 100*time.Millisecond),
	}
}

func (m toastModel) Init() tea.Cmd {
	return m.timer.Init()
}

func (m toastModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		if msg.ID != m.timer.ID() {
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m toastModel) View() string {
	if m.done {
		return ""
	}
	body := toastTitle.Render("crash") + "  " + m.message + "\n" +
		toastHint.Render("closing in "+m.timer.View())
	return toastBox.Render(body) + "\n"
}
