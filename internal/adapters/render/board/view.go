package board

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/vmsim/internal/application"
	"github.com/bnema/vmsim/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 24

type RenderOptions struct {
	BarWidth    int
	Focus       domain.ContainerKind
	Cursor      int
	ShowHistory bool
}

func renderView(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Virtual Memory Simulator"),
		s.header.Render(headerLine(snapshot)),
	}

	switch snapshot.Phase {
	case domain.PhaseStart:
		lines = append(lines, renderChoices([]string{string(domain.ModeFreestyle), string(domain.ModeChallenge)}, opts.Cursor, s))
	case domain.PhaseModeSetup:
		choices := make([]string, 0, len(snapshot.CapacityOptions))
		for _, capacity := range snapshot.CapacityOptions {
			choices = append(choices, fmt.Sprintf("%d units", capacity))
		}
		lines = append(lines, renderChoices(choices, opts.Cursor, s))
	case domain.PhaseLevelSelect:
		choices := make([]string, 0, snapshot.LevelCount)
		for i := 0; i < snapshot.LevelCount; i++ {
			choices = append(choices, fmt.Sprintf("Level %d", i+1))
		}
		lines = append(lines, renderChoices(choices, opts.Cursor, s))
	default:
		lines = append(lines, renderSession(snapshot, opts, s)...)
	}

	lines = append(lines, "")
	if snapshot.Busy {
		lines = append(lines, s.busy.Render(snapshot.BusyText))
	}
	if snapshot.Prompt != "" {
		lines = append(lines, s.prompt.Render(snapshot.Prompt))
	}
	if snapshot.Message != "" {
		lines = append(lines, s.message.Render(snapshot.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(snapshot application.Snapshot) string {
	parts := []string{fmt.Sprintf("phase: %s", snapshot.Phase)}
	if snapshot.Mode != "" {
		parts = append(parts, fmt.Sprintf("mode: %s", snapshot.Mode))
	}
	if snapshot.Level != nil {
		parts = append(parts, fmt.Sprintf("level %d/%d: %s", snapshot.LevelIndex+1, snapshot.LevelCount, snapshot.Level.Name))
	}
	if snapshot.Capacity > 0 {
		parts = append(parts, fmt.Sprintf("RAM: %d units", snapshot.Capacity))
	}

	return strings.Join(parts, " | ")
}

func renderChoices(choices []string, cursor int, s styles) string {
	lines := make([]string, 0, len(choices))
	for i, choice := range choices {
		if i == cursor {
			lines = append(lines, s.selected.Render("> "+choice))
			continue
		}
		lines = append(lines, s.program.Render("  "+choice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(snapshot application.Snapshot, opts RenderOptions, s styles) []string {
	lines := []string{}
	if snapshot.Level != nil && snapshot.Level.Description != "" {
		lines = append(lines, s.header.Render(snapshot.Level.Description))
	}

	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}
	usage := lipgloss.JoinHorizontal(
		lipgloss.Top,
		fmt.Sprintf("RAM: %d/%d used (%.0f%%) ", snapshot.Used, snapshot.Capacity, snapshot.UsagePercent),
		renderUsageBar(snapshot.UsagePercent, width, s),
	)
	lines = append(lines, usage, s.score.Render(fmt.Sprintf("Score: %d", snapshot.Score)))

	storage := make([]string, 0, len(snapshot.SecondaryStorage))
	for _, program := range snapshot.SecondaryStorage {
		storage = append(storage, fmt.Sprintf("%s (%d)", program.Name, program.Size))
	}

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		renderPanel(domain.ContainerRAM, placedRows(snapshot.RAM, s), opts, s),
		" ",
		renderPanel(domain.ContainerVirtualMemory, placedRows(snapshot.VirtualMemory, s), opts, s),
		" ",
		renderPanel(domain.ContainerSecondaryStorage, storage, opts, s),
	)
	lines = append(lines, panels, renderQueue(snapshot, s))

	if opts.ShowHistory {
		lines = append(lines, renderHistory(snapshot.History, s))
	}

	return lines
}

func placedRows(programs []domain.PlacedProgram, s styles) []string {
	rows := make([]string, 0, len(programs))
	for _, placed := range programs {
		row := fmt.Sprintf("%s (%d) %s", placed.Program.Name, placed.Size(), placed.Status)
		switch {
		case !placed.Program.Removable:
			row = s.pinned.Render(row + " [pinned]")
		case placed.Status == domain.StatusInactive:
			row = s.inactive.Render(row)
		}
		rows = append(rows, row)
	}

	return rows
}

func renderPanel(kind domain.ContainerKind, rows []string, opts RenderOptions, s styles) string {
	content := []string{s.panelTitle.Render(kind.Label())}
	if len(rows) == 0 {
		content = append(content, s.empty.Render("(empty)"))
	}
	for i, row := range rows {
		if kind == opts.Focus && i == opts.Cursor {
			content = append(content, s.selected.Render("> ")+row)
			continue
		}
		content = append(content, "  "+row)
	}

	panel := s.panel
	if kind == opts.Focus {
		panel = s.panelFocus
	}

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func renderQueue(snapshot application.Snapshot, s styles) string {
	if len(snapshot.Queue) == 0 {
		return s.empty.Render("Queue: (empty)")
	}

	names := make([]string, 0, len(snapshot.Queue))
	for i, id := range snapshot.Queue {
		name := programName(snapshot.SecondaryStorage, id)
		if i == 0 {
			names = append(names, s.queueNext.Render(name))
			continue
		}
		names = append(names, s.queueRest.Render(name))
	}

	return "Queue: " + strings.Join(names, " -> ")
}

func renderHistory(history []application.MoveRecord, s styles) string {
	lines := []string{s.panelTitle.Render("History")}
	if len(history) == 0 {
		lines = append(lines, s.empty.Render("(no moves yet)"))
	}
	for _, record := range history {
		lines = append(lines, fmt.Sprintf("%s: %s -> %s (+%d)", record.Name, record.Source.Label(), record.Target.Label(), record.Points))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderUsageBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	filled := int(math.Round(float64(width) * used / 100.0))
	if filled > width {
		filled = width
	}

	fill := s.barFill
	if used >= 100 {
		fill = s.barFull
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func programName(programs []domain.Program, id domain.ProgramID) string {
	for _, program := range programs {
		if program.ID == id {
			return program.Name
		}
	}

	return string(id)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
