// Package tui provides the interactive terminal board for the simulator.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/vmsim/internal/adapters/render/board"
	"github.com/bnema/vmsim/internal/application"
	"github.com/bnema/vmsim/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

var focusOrder = []domain.ContainerKind{
	domain.ContainerRAM,
	domain.ContainerVirtualMemory,
	domain.ContainerSecondaryStorage,
}

var modeChoices = []domain.Mode{domain.ModeFreestyle, domain.ModeChallenge}

// Simulator is the part of the simulation the board drives.
type Simulator interface {
	Snapshot() application.Snapshot
	ChooseMode(mode domain.Mode) error
	ChooseFreestyleCapacity(capacity int) error
	SelectLevel(index int) error
	StartSession() error
	AdvanceLevel() error
	ResetSession() error
	ReturnToMenu() error
	RequestMove(cmd application.MoveCommand) (*application.PendingMove, error)
	ToggleStatus(selector string) error
}

type moveCommittedMsg struct{}

// App is the bubbletea model for an interactive session.
type App struct {
	sim         Simulator
	snapshot    application.Snapshot
	board       board.Board
	spinner     spinner.Model
	focus       int
	cursor      int
	waiting     bool
	showHistory bool
	errText     string
}

func New(sim Simulator) *App {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return &App{
		sim:      sim,
		snapshot: sim.Snapshot(),
		board:    board.New(),
		spinner:  s,
	}
}

func (a *App) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(a, opts...)
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case moveCommittedMsg:
		a.waiting = false
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return a, tea.Quit
		}
		a.errText = ""
		cmd := a.handleKey(msg.String())
		a.refresh()
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(key string) tea.Cmd {
	switch a.snapshot.Phase {
	case domain.PhaseStart:
		a.handleChoice(key, len(modeChoices), func(i int) error {
			return a.sim.ChooseMode(modeChoices[i])
		})
		switch key {
		case "f":
			a.cursor = 0
			a.fail(a.sim.ChooseMode(domain.ModeFreestyle))
		case "c":
			a.cursor = 0
			a.fail(a.sim.ChooseMode(domain.ModeChallenge))
		}
		return nil

	case domain.PhaseModeSetup:
		options := a.snapshot.CapacityOptions
		a.handleChoice(key, len(options), func(i int) error {
			if err := a.sim.ChooseFreestyleCapacity(options[i]); err != nil {
				return err
			}
			return a.sim.StartSession()
		})
		if key == "esc" {
			a.fail(a.sim.ReturnToMenu())
		}
		return nil

	case domain.PhaseLevelSelect:
		a.handleChoice(key, a.snapshot.LevelCount, func(i int) error {
			if err := a.sim.SelectLevel(i); err != nil {
				return err
			}
			return a.sim.StartSession()
		})
		if key == "esc" {
			a.fail(a.sim.ReturnToMenu())
		}
		return nil
	}

	return a.handleBoardKey(key)
}

func (a *App) handleChoice(key string, count int, choose func(int) error) {
	switch key {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < count-1 {
			a.cursor++
		}
	case "enter":
		if a.cursor < count {
			chosen := a.cursor
			a.cursor = 0
			a.fail(choose(chosen))
		}
	}
}

func (a *App) handleBoardKey(key string) tea.Cmd {
	switch key {
	case "tab":
		a.focus = (a.focus + 1) % len(focusOrder)
		a.cursor = 0
	case "shift+tab":
		a.focus = (a.focus + len(focusOrder) - 1) % len(focusOrder)
		a.cursor = 0
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < a.focusedLen()-1 {
			a.cursor++
		}
	case "r":
		return a.move(domain.ContainerRAM)
	case "v":
		return a.move(domain.ContainerVirtualMemory)
	case "s":
		return a.move(domain.ContainerSecondaryStorage)
	case " ":
		if selector, ok := a.selected(); ok && focusOrder[a.focus] == domain.ContainerRAM {
			a.fail(a.sim.ToggleStatus(selector))
		}
	case "h":
		a.showHistory = !a.showHistory
	case "n":
		a.fail(a.sim.AdvanceLevel())
	case "x":
		a.cursor = 0
		a.fail(a.sim.ResetSession())
	case "esc":
		a.cursor = 0
		a.fail(a.sim.ReturnToMenu())
	}

	return nil
}

func (a *App) move(target domain.ContainerKind) tea.Cmd {
	selector, ok := a.selected()
	if !ok {
		return nil
	}

	pending, err := a.sim.RequestMove(application.MoveCommand{
		Program: selector,
		Source:  focusOrder[a.focus],
		Target:  target,
	})
	if err != nil {
		a.fail(err)
		return nil
	}

	a.waiting = true
	wait := func() tea.Msg {
		<-pending.Done()
		return moveCommittedMsg{}
	}

	return tea.Batch(a.spinner.Tick, wait)
}

// fail surfaces errors the simulator has not already reported through its message.
func (a *App) fail(err error) {
	if err == nil {
		return
	}

	var moveErr *domain.MoveError
	if errors.As(err, &moveErr) {
		return
	}

	a.errText = err.Error()
}

func (a *App) refresh() {
	a.snapshot = a.sim.Snapshot()
	if n := a.focusedLen(); a.snapshot.Phase == domain.PhaseRunning || a.snapshot.Phase == domain.PhaseComplete {
		if a.cursor >= n {
			a.cursor = max(n-1, 0)
		}
	}
}

func (a *App) focusedLen() int {
	switch focusOrder[a.focus] {
	case domain.ContainerRAM:
		return len(a.snapshot.RAM)
	case domain.ContainerVirtualMemory:
		return len(a.snapshot.VirtualMemory)
	default:
		return len(a.snapshot.SecondaryStorage)
	}
}

func (a *App) selected() (string, bool) {
	if a.cursor < 0 || a.cursor >= a.focusedLen() {
		return "", false
	}

	switch focusOrder[a.focus] {
	case domain.ContainerRAM:
		return a.snapshot.RAM[a.cursor].InstanceID, true
	case domain.ContainerVirtualMemory:
		return a.snapshot.VirtualMemory[a.cursor].InstanceID, true
	default:
		return string(a.snapshot.SecondaryStorage[a.cursor].ID), true
	}
}

func (a *App) View() string {
	opts := board.RenderOptions{Cursor: a.cursor, ShowHistory: a.showHistory}
	if a.snapshot.Phase == domain.PhaseRunning || a.snapshot.Phase == domain.PhaseComplete {
		opts.Focus = focusOrder[a.focus]
	}

	lines := []string{a.board.Draw(a.snapshot, opts)}
	if a.waiting {
		lines = append(lines, fmt.Sprintf("%s %s", a.spinner.View(), a.snapshot.BusyText))
	}
	if a.errText != "" {
		lines = append(lines, errorStyle.Render(a.errText))
	}
	lines = append(lines, "", helpStyle.Render(a.help()))

	return strings.Join(lines, "\n")
}

func (a *App) help() string {
	switch a.snapshot.Phase {
	case domain.PhaseStart:
		return "up/down select | enter choose | f freestyle | c challenge | q quit"
	case domain.PhaseModeSetup, domain.PhaseLevelSelect:
		return "up/down select | enter start | esc menu | q quit"
	default:
		return "tab focus | up/down select | r RAM | v virtual memory | s storage | space toggle | n next level | x reset | h history | esc menu | q quit"
	}
}
