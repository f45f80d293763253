package board

import (
	"errors"
	"io"

	"github.com/bnema/vmsim/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// Board draws simulator snapshots. Interactive programs build one and reuse
// its styles on every redraw.
type Board struct {
	styles styles
}

func New() Board {
	return Board{styles: newStyles()}
}

func (b Board) Draw(snapshot application.Snapshot, opts RenderOptions) string {
	return renderView(snapshot, opts, b.styles)
}

// frame is a program that shows a single board and exits on start.
type frame struct {
	board    Board
	snapshot application.Snapshot
	opts     RenderOptions
}

func (f frame) Init() tea.Cmd {
	return tea.Quit
}

func (f frame) Update(tea.Msg) (tea.Model, tea.Cmd) {
	return f, nil
}

func (f frame) View() string {
	return f.board.Draw(f.snapshot, f.opts)
}

// Render draws a snapshot once without attaching to a terminal.
func Render(snapshot application.Snapshot, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		frame{board: New(), snapshot: snapshot, opts: opts},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	last, ok := finalModel.(frame)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return last.View(), nil
}
