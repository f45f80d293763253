package board

import (
	"testing"

	"github.com/bnema/vmsim/internal/application"
	"github.com/bnema/vmsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	systemProgram  = domain.Program{ID: "os", Name: "Operating System", Size: 1, Removable: false, DefaultStatus: domain.StatusOpen}
	browserProgram = domain.Program{ID: "browser", Name: "Web Browser", Size: 1, Removable: true}
	wordProgram    = domain.Program{ID: "word", Name: "Word Processor", Size: 2, Removable: true}
)

func runningSnapshot() application.Snapshot {
	level := domain.Level{Capacity: 4, Name: "Getting Busy", Description: "Make room for the word processor.", Sequence: []domain.ProgramID{"os", "browser", "word"}}

	return application.Snapshot{
		Phase:      domain.PhaseRunning,
		Mode:       domain.ModeChallenge,
		LevelIndex: 1,
		LevelCount: 5,
		Level:      &level,
		Capacity:   4,
		RAM: []domain.PlacedProgram{
			{InstanceID: "inst-1", Program: systemProgram, Status: domain.StatusOpen},
			{InstanceID: "inst-2", Program: browserProgram, Status: domain.StatusInactive},
		},
		SecondaryStorage: []domain.Program{systemProgram, browserProgram, wordProgram},
		Queue:            []domain.ProgramID{"word"},
		Score:            20,
		Used:             2,
		UsagePercent:     50,
		Prompt:           "Load Word Processor into RAM.",
		Message:          "Web Browser is now inactive.",
	}
}

func TestRenderRunningSession(t *testing.T) {
	output, err := Render(runningSnapshot(), RenderOptions{BarWidth: 10})

	require.NoError(t, err)
	assert.Contains(t, output, "Virtual Memory Simulator")
	assert.Contains(t, output, "mode: challenge")
	assert.Contains(t, output, "level 2/5: Getting Busy")
	assert.Contains(t, output, "RAM: 2/4 used (50%)")
	assert.Contains(t, output, "[=====-----]")
	assert.Contains(t, output, "Score: 20")
	assert.Contains(t, output, "Operating System (1) open [pinned]")
	assert.Contains(t, output, "Web Browser (1) inactive")
	assert.Contains(t, output, "Virtual Memory")
	assert.Contains(t, output, "(empty)")
	assert.Contains(t, output, "Word Processor (2)")
	assert.Contains(t, output, "Queue: Word Processor")
	assert.Contains(t, output, "Load Word Processor into RAM.")
	assert.Contains(t, output, "Web Browser is now inactive.")
	assert.NotContains(t, output, "History")
}

func TestRenderBusyTextAndHistory(t *testing.T) {
	snapshot := runningSnapshot()
	snapshot.Busy = true
	snapshot.BusyText = "Loading Word Processor from secondary storage..."
	snapshot.History = []application.MoveRecord{
		{Program: "browser", Name: "Web Browser", Source: domain.ContainerSecondaryStorage, Target: domain.ContainerRAM, Points: application.PointsLoad},
	}

	output, err := Render(snapshot, RenderOptions{ShowHistory: true})

	require.NoError(t, err)
	assert.Contains(t, output, "Loading Word Processor from secondary storage...")
	assert.Contains(t, output, "History")
	assert.Contains(t, output, "Web Browser: Secondary Storage -> RAM (+10)")
}

func TestRenderFullRAMFillsBar(t *testing.T) {
	snapshot := runningSnapshot()
	snapshot.Used = 4
	snapshot.UsagePercent = 100

	output, err := Render(snapshot, RenderOptions{BarWidth: 8})

	require.NoError(t, err)
	assert.Contains(t, output, "RAM: 4/4 used (100%)")
	assert.Contains(t, output, "[========]")
}

func TestRenderFocusedCursorMarksRow(t *testing.T) {
	output := New().Draw(runningSnapshot(), RenderOptions{Focus: domain.ContainerRAM, Cursor: 1})

	assert.Contains(t, output, "> Web Browser (1) inactive")
	assert.NotContains(t, output, "> Operating System")
}

func TestRenderStartPhaseListsModes(t *testing.T) {
	output, err := Render(application.Snapshot{
		Phase:  domain.PhaseStart,
		Prompt: "Choose a mode: freestyle or challenge.",
	}, RenderOptions{Cursor: 1})

	require.NoError(t, err)
	assert.Contains(t, output, "phase: start")
	assert.Contains(t, output, "  freestyle")
	assert.Contains(t, output, "> challenge")
	assert.Contains(t, output, "Choose a mode: freestyle or challenge.")
	assert.NotContains(t, output, "Score:")
}

func TestRenderCapacityOptions(t *testing.T) {
	output := New().Draw(application.Snapshot{
		Phase:           domain.PhaseModeSetup,
		Mode:            domain.ModeFreestyle,
		CapacityOptions: []int{2, 4, 8},
	}, RenderOptions{})

	assert.Contains(t, output, "> 2 units")
	assert.Contains(t, output, "  8 units")
}

func TestRenderEmptyQueue(t *testing.T) {
	snapshot := runningSnapshot()
	snapshot.Phase = domain.PhaseComplete
	snapshot.Queue = nil

	output := New().Draw(snapshot, RenderOptions{})

	assert.Contains(t, output, "Queue: (empty)")
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, clampPercent(-5))
	assert.Equal(t, 42.0, clampPercent(42))
	assert.Equal(t, 100.0, clampPercent(150))
}
