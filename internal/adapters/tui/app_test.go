package tui

import (
	"fmt"
	"testing"
	"time"

	"github.com/bnema/vmsim/internal/application"
	"github.com/bnema/vmsim/internal/domain"
	"github.com/bnema/vmsim/internal/ports/mocks"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boardCatalog() domain.Catalog {
	return domain.Catalog{
		Programs: []domain.Program{
			{ID: "os", Name: "Operating System", Size: 1, Removable: false, DefaultStatus: domain.StatusOpen},
			{ID: "browser", Name: "Web Browser", Size: 1, Removable: true},
			{ID: "word", Name: "Word Processor", Size: 2, Removable: true},
		},
		Levels: []domain.Level{
			{Capacity: 4, Name: "Boot Up", Sequence: []domain.ProgramID{"os", "browser"}},
			{Capacity: 4, Name: "Office", Sequence: []domain.ProgramID{"os", "word", "browser"}},
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)).Maybe()
	clock.EXPECT().After(mock.Anything).RunAndReturn(func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}).Maybe()

	next := 0
	sim, err := application.NewSimulatorFromCatalog(boardCatalog(), clock, application.Options{
		Delays: application.DefaultDelays(),
		NewInstanceID: func() string {
			next++
			return fmt.Sprintf("inst-%d", next)
		},
	})
	require.NoError(t, err)

	return New(sim)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// press sends keys and delivers any committed move back into the model.
func press(t *testing.T, app *App, keys ...string) {
	t.Helper()

	for _, key := range keys {
		_, cmd := app.Update(keyMsg(key))
		deliver(app, cmd)
	}
}

func deliver(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			deliver(app, sub)
		}
	case moveCommittedMsg:
		app.Update(msg)
	}
}

func TestChallengeLevelPlayedWithKeys(t *testing.T) {
	app := newTestApp(t)

	press(t, app, "c")
	assert.Equal(t, domain.PhaseLevelSelect, app.snapshot.Phase)

	press(t, app, "enter")
	require.Equal(t, domain.PhaseRunning, app.snapshot.Phase)
	assert.Equal(t, "Boot Up", app.snapshot.Level.Name)

	press(t, app, "tab", "tab")
	assert.Equal(t, domain.ContainerSecondaryStorage, focusOrder[app.focus])

	press(t, app, "r")
	assert.False(t, app.waiting)
	require.Len(t, app.snapshot.RAM, 1)
	assert.Equal(t, domain.ProgramID("os"), app.snapshot.RAM[0].ID())

	press(t, app, "down", "r")
	assert.Equal(t, domain.PhaseComplete, app.snapshot.Phase)
	assert.Equal(t, 2*application.PointsLoad, app.snapshot.Score)
	assert.Contains(t, app.View(), "Level complete! Advance to the next level.")

	press(t, app, "n")
	assert.Equal(t, domain.PhaseRunning, app.snapshot.Phase)
	assert.Equal(t, "Office", app.snapshot.Level.Name)
	assert.Zero(t, app.snapshot.Score)
}

func TestRejectedMoveShowsSimulatorMessage(t *testing.T) {
	app := newTestApp(t)

	press(t, app, "c", "down", "enter", "tab", "tab", "down", "r")

	assert.Empty(t, app.snapshot.RAM)
	assert.Empty(t, app.errText)
	assert.Contains(t, app.View(), "Out of order: load Operating System next.")
}

func TestToggleStatusFromRAMFocus(t *testing.T) {
	app := newTestApp(t)

	press(t, app, "f", "down", "enter")
	require.Equal(t, domain.PhaseRunning, app.snapshot.Phase)
	assert.Equal(t, 4, app.snapshot.Capacity)

	press(t, app, "tab", "tab", "r", "down", "r")
	require.Len(t, app.snapshot.RAM, 2)

	press(t, app, "tab", "down", " ")
	assert.Equal(t, domain.ContainerRAM, focusOrder[app.focus])
	assert.Equal(t, domain.StatusInactive, app.snapshot.RAM[1].Status)

	press(t, app, "v")
	assert.Len(t, app.snapshot.RAM, 1)
	require.Len(t, app.snapshot.VirtualMemory, 1)
	assert.Zero(t, app.cursor, "cursor clamps to the shorter list")
}

func TestPhaseErrorIsShownInline(t *testing.T) {
	app := newTestApp(t)

	press(t, app, "c", "enter", "n")

	assert.Contains(t, app.errText, domain.ErrInvalidPhase.Error())
	assert.Contains(t, app.View(), app.errText)

	press(t, app, "tab")
	assert.Empty(t, app.errText)
}

func TestEscReturnsToMenu(t *testing.T) {
	app := newTestApp(t)

	press(t, app, "c", "enter", "esc")

	assert.Equal(t, domain.PhaseStart, app.snapshot.Phase)
	assert.Contains(t, app.View(), "Choose a mode: freestyle or challenge.")
}

func TestQuitKeyQuits(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
