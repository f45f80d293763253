package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/vmsim/internal/domain"
	"github.com/bnema/vmsim/internal/ports"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type Options struct {
	Delays          Delays
	CapacityOptions []int
	NewSessionID    func() string
	NewInstanceID   func() string
}

func (o *Options) applyDefaults() {
	if len(o.CapacityOptions) == 0 {
		o.CapacityOptions = DefaultCapacityOptions
	}
	if o.NewSessionID == nil {
		o.NewSessionID = uuid.NewString
	}
	if o.NewInstanceID == nil {
		o.NewInstanceID = func() string { return ulid.Make().String() }
	}
}

// Simulator owns the containers, the task queue and the score. Every
// mutation happens under mu, and at most one delayed commit is in flight.
type Simulator struct {
	catalog domain.Catalog
	clock   ports.Clock
	opts    Options

	mu    sync.Mutex
	state sessionState
}

type sessionState struct {
	id         string
	mode       domain.Mode
	phase      domain.Phase
	levelIndex int
	capacity   int
	score      int
	ram        []domain.PlacedProgram
	vm         []domain.PlacedProgram
	storage    []domain.Program
	queue      domain.TaskQueue
	busy       bool
	busyText   string
	message    string
	history    []MoveRecord
}

func newSessionState() sessionState {
	return sessionState{phase: domain.PhaseStart, levelIndex: -1}
}

func NewSimulator(ctx context.Context, repo ports.CatalogRepository, clock ports.Clock, opts Options) (*Simulator, error) {
	catalog, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return NewSimulatorFromCatalog(catalog, clock, opts)
}

func NewSimulatorFromCatalog(catalog domain.Catalog, clock ports.Clock, opts Options) (*Simulator, error) {
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	opts.applyDefaults()

	return &Simulator{
		catalog: catalog,
		clock:   clock,
		opts:    opts,
		state:   newSessionState(),
	}, nil
}

func (s *Simulator) Catalog() domain.Catalog {
	return s.catalog
}

func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	snap := Snapshot{
		SessionID:        st.id,
		Phase:            st.phase,
		Mode:             st.mode,
		LevelIndex:       st.levelIndex,
		LevelCount:       len(s.catalog.Levels),
		Capacity:         st.capacity,
		CapacityOptions:  append([]int(nil), s.opts.CapacityOptions...),
		RAM:              append([]domain.PlacedProgram(nil), st.ram...),
		VirtualMemory:    append([]domain.PlacedProgram(nil), st.vm...),
		SecondaryStorage: append([]domain.Program(nil), st.storage...),
		Queue:            st.queue.Items(),
		Score:            st.score,
		Used:             domain.UsedCapacity(st.ram),
		Message:          st.message,
		Busy:             st.busy,
		BusyText:         st.busyText,
		History:          append([]MoveRecord(nil), st.history...),
	}
	snap.UsagePercent = domain.UsagePercent(snap.Used, snap.Capacity)

	if level, err := s.catalog.Level(st.levelIndex); err == nil {
		snap.Level = &level
	}
	if st.mode == domain.ModeChallenge && st.phase == domain.PhaseComplete {
		snap.CanAdvance = st.levelIndex+1 < len(s.catalog.Levels)
		snap.AllLevelsComplete = !snap.CanAdvance
	}
	snap.Prompt = s.prompt(snap)

	return snap
}

func (s *Simulator) prompt(snap Snapshot) string {
	switch snap.Phase {
	case domain.PhaseStart:
		return "Choose a mode: freestyle or challenge."
	case domain.PhaseModeSetup:
		if snap.Capacity == 0 {
			return "Choose how much RAM the computer has."
		}
		return fmt.Sprintf("RAM set to %d GB. Start the simulation when ready.", snap.Capacity)
	case domain.PhaseLevelSelect:
		if snap.Level == nil {
			return "Pick a level to play."
		}
		return fmt.Sprintf("Level %d selected: %s. Start when ready.", snap.LevelIndex+1, snap.Level.Name)
	case domain.PhaseRunning:
		if next, ok := snap.NextProgram(); ok {
			return fmt.Sprintf("Load %s into RAM.", s.displayName(next))
		}
		return "Move programs around freely."
	case domain.PhaseComplete:
		switch {
		case snap.Mode == domain.ModeFreestyle:
			return "Every program has been loaded. Keep exploring."
		case snap.CanAdvance:
			return "Level complete! Advance to the next level."
		default:
			return "All levels complete!"
		}
	default:
		return ""
	}
}

func (s *Simulator) displayName(id domain.ProgramID) string {
	program, err := s.catalog.Program(id)
	if err != nil {
		return string(id)
	}

	return program.Name
}

func (s *Simulator) record(program domain.Program, source, target domain.ContainerKind, points int) {
	s.state.score += points
	s.state.history = append(s.state.history, MoveRecord{
		At:      s.clock.Now(),
		Program: program.ID,
		Name:    program.Name,
		Source:  source,
		Target:  target,
		Points:  points,
	})
}

func (s *Simulator) reject(err *domain.MoveError) error {
	s.state.message = err.Error()
	return err
}
