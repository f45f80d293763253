package script

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bnema/vmsim/internal/application"
	"github.com/bnema/vmsim/internal/domain"
	"github.com/bnema/vmsim/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func scriptCatalog() domain.Catalog {
	return domain.Catalog{
		Programs: []domain.Program{
			{ID: "os", Name: "Operating System", Size: 1, Removable: false, DefaultStatus: domain.StatusOpen},
			{ID: "browser", Name: "Web Browser", Size: 1, Removable: true},
			{ID: "word", Name: "Word Processor", Size: 2, Removable: true},
			{ID: "music", Name: "Music Player", Size: 1, Removable: true},
		},
		Levels: []domain.Level{
			{Capacity: 4, Name: "Make Room", Sequence: []domain.ProgramID{"os", "browser", "word", "music"}},
			{Capacity: 2, Name: "Last", Sequence: []domain.ProgramID{"os"}},
		},
	}
}

func newScriptSimulator(t *testing.T) *application.Simulator {
	t.Helper()

	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)).Maybe()
	clock.EXPECT().After(mock.Anything).RunAndReturn(func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}).Maybe()

	next := 0
	sim, err := application.NewSimulatorFromCatalog(scriptCatalog(), clock, application.Options{
		Delays: application.DefaultDelays(),
		NewInstanceID: func() string {
			next++
			return fmt.Sprintf("inst-%d", next)
		},
	})
	require.NoError(t, err)

	return sim
}

func runScript(t *testing.T, sim Simulator, source string) (Report, error) {
	t.Helper()

	steps, err := Parse(strings.NewReader(source))
	require.NoError(t, err)

	return Run(context.Background(), sim, steps)
}

func TestRunCompletesLevelWithSwap(t *testing.T) {
	sim := newScriptSimulator(t)

	report, err := runScript(t, sim, `mode challenge
level 1
start
move os storage ram
move browser storage ram
move word storage ram
move music storage ram
toggle browser
move browser ram vm
move music storage ram
advance
`)

	require.NoError(t, err)
	require.Len(t, report.Steps, 11)

	rejected := report.Steps[6]
	assert.False(t, rejected.Accepted)
	assert.Equal(t, domain.MoveErrorCapacityExceeded, rejected.Kind)
	assert.Contains(t, rejected.Rejection, "Music Player")

	loaded := report.Steps[9]
	assert.True(t, loaded.Accepted)
	assert.Equal(t, domain.PhaseComplete, loaded.Phase)
	assert.Equal(t, 4*application.PointsLoad+application.PointsSwap, loaded.Score)

	assert.Equal(t, domain.PhaseRunning, report.Final.Phase)
	assert.Equal(t, "Last", report.Final.Level.Name)
}

func TestRunRecordsRejectionsWithoutStopping(t *testing.T) {
	sim := newScriptSimulator(t)

	report, err := runScript(t, sim, `mode challenge
level 1
start
move browser storage ram
move os storage ram
`)

	require.NoError(t, err)
	require.Len(t, report.Steps, 5)
	assert.Equal(t, domain.MoveErrorOutOfOrder, report.Steps[3].Kind)
	assert.Equal(t, "Out of order: load Operating System next.", report.Steps[3].Rejection)
	assert.True(t, report.Steps[4].Accepted)
	assert.Len(t, report.Final.RAM, 1)
}

func TestRunFreestyle(t *testing.T) {
	sim := newScriptSimulator(t)

	report, err := runScript(t, sim, `mode freestyle
capacity 2
start
move os storage ram
move browser storage ram
move browser ram storage
`)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeFreestyle, report.Final.Mode)
	assert.Equal(t, 2, report.Final.Capacity)
	assert.Len(t, report.Final.RAM, 1)
	assert.Equal(t, 2*application.PointsLoad+application.PointsClose, report.Final.Score)
}

func TestRunAbortsOnPhaseError(t *testing.T) {
	sim := newScriptSimulator(t)

	report, err := runScript(t, sim, `mode challenge
start
move os storage ram
`)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPhase)
	assert.ErrorContains(t, err, "line 2 (start)")
	assert.Len(t, report.Steps, 1)
}

func TestRunAbortsOnUnknownLevel(t *testing.T) {
	sim := newScriptSimulator(t)

	_, err := runScript(t, sim, "mode challenge\nlevel 9\n")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	sim := newScriptSimulator(t)
	steps, err := Parse(strings.NewReader("mode challenge\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, sim, steps)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Steps)
}

func TestRunObservedReportsEachStepBeforeApplyingIt(t *testing.T) {
	sim := newScriptSimulator(t)
	steps, err := Parse(strings.NewReader("mode challenge\nlevel 1\nstart\nmove os storage ram\n"))
	require.NoError(t, err)

	var seen []string
	report, err := RunObserved(context.Background(), sim, steps, func(index, total int, step Step) {
		assert.Equal(t, len(steps), total)
		assert.Len(t, seen, index)
		if step.Intent == IntentMove {
			assert.Empty(t, sim.Snapshot().RAM, "observer runs before the move commits")
		}
		seen = append(seen, step.String())
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"mode challenge", "level 1", "start", "move os storage ram"}, seen)
	assert.Len(t, report.Final.RAM, 1)
}
