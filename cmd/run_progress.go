package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/vmsim/internal/adapters/script"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var busyTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

type stepStartedMsg struct {
	index int
	total int
	step  string
}

type scriptFinishedMsg struct {
	err error
}

// scriptProgressModel shows the step being played and, while a move is
// committing, the simulator's busy text.
type scriptProgressModel struct {
	spinner  spinner.Model
	busyText func() string
	current  string
	err      error
	done     bool
}

func newScriptProgressModel(total int, busyText func() string) scriptProgressModel {
	return scriptProgressModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		busyText: busyText,
		current:  fmt.Sprintf("Preparing %d steps", total),
	}
}

func (m scriptProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m scriptProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case stepStartedMsg:
		m.current = fmt.Sprintf("[%d/%d] %s", msg.index+1, msg.total, msg.step)
		return m, nil
	case scriptFinishedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m scriptProgressModel) View() string {
	if m.done {
		return ""
	}

	line := fmt.Sprintf("%s %s", m.spinner.View(), m.current)
	if m.busyText != nil {
		if busy := m.busyText(); busy != "" {
			line += "  " + busyTextStyle.Render(busy)
		}
	}

	return line
}

// playWithProgress runs play in the background and mirrors each step it
// reports on output until it returns.
func playWithProgress(
	ctx context.Context,
	output io.Writer,
	total int,
	busyText func() string,
	play func(context.Context, script.StepObserver) error,
) error {
	p := tea.NewProgram(
		newScriptProgressModel(total, busyText),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	go func() {
		err := play(ctx, func(index, total int, step script.Step) {
			p.Send(stepStartedMsg{index: index, total: total, step: step.String()})
		})
		p.Send(scriptFinishedMsg{err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(scriptProgressModel)
	if !ok {
		return fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return result.err
}
