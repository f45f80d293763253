package application

import (
	"fmt"
	"slices"

	"github.com/bnema/vmsim/internal/domain"
)

func (s *Simulator) ChooseMode(mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !mode.Valid() {
		return fmt.Errorf("unsupported mode %q", mode)
	}
	if s.state.phase != domain.PhaseStart {
		return fmt.Errorf("%w: choose mode from %s", domain.ErrInvalidPhase, s.state.phase)
	}

	s.state.mode = mode
	if mode == domain.ModeFreestyle {
		s.state.phase = domain.PhaseModeSetup
	} else {
		s.state.phase = domain.PhaseLevelSelect
	}
	s.state.message = ""

	return nil
}

func (s *Simulator) ChooseFreestyleCapacity(capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.phase != domain.PhaseModeSetup {
		return fmt.Errorf("%w: choose capacity from %s", domain.ErrInvalidPhase, s.state.phase)
	}
	if !slices.Contains(s.opts.CapacityOptions, capacity) {
		return fmt.Errorf("%w: %d (options %v)", domain.ErrCapacityNotAllowed, capacity, s.opts.CapacityOptions)
	}

	s.state.capacity = capacity
	return nil
}

func (s *Simulator) SelectLevel(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.phase != domain.PhaseLevelSelect {
		return fmt.Errorf("%w: select level from %s", domain.ErrInvalidPhase, s.state.phase)
	}
	if _, err := s.catalog.Level(index); err != nil {
		return fmt.Errorf("select level %d: %w", index+1, err)
	}

	s.state.levelIndex = index
	return nil
}

func (s *Simulator) StartSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.phase {
	case domain.PhaseModeSetup:
		if s.state.capacity == 0 {
			return fmt.Errorf("%w: choose a RAM capacity first", domain.ErrInvalidPhase)
		}
	case domain.PhaseLevelSelect:
		if s.state.levelIndex < 0 {
			return fmt.Errorf("%w: select a level first", domain.ErrInvalidPhase)
		}
	default:
		return fmt.Errorf("%w: start from %s", domain.ErrInvalidPhase, s.state.phase)
	}

	s.enterRunning()
	return nil
}

func (s *Simulator) AdvanceLevel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.mode != domain.ModeChallenge || s.state.phase != domain.PhaseComplete {
		return fmt.Errorf("%w: advance from %s", domain.ErrInvalidPhase, s.state.phase)
	}
	if s.state.levelIndex+1 >= len(s.catalog.Levels) {
		return domain.ErrNoMoreLevels
	}

	s.state.levelIndex++
	s.enterRunning()
	return nil
}

// ResetSession clears the running level and returns to level selection in
// challenge mode or to the start menu in freestyle.
func (s *Simulator) ResetSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.busy {
		return s.reject(&domain.MoveError{Kind: domain.MoveErrorBusy})
	}
	if s.state.phase != domain.PhaseRunning && s.state.phase != domain.PhaseComplete {
		return fmt.Errorf("%w: reset from %s", domain.ErrInvalidPhase, s.state.phase)
	}

	if s.state.mode == domain.ModeChallenge {
		levelIndex := s.state.levelIndex
		s.state = newSessionState()
		s.state.mode = domain.ModeChallenge
		s.state.phase = domain.PhaseLevelSelect
		s.state.levelIndex = levelIndex
		return nil
	}

	s.state = newSessionState()
	return nil
}

func (s *Simulator) ReturnToMenu() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.busy {
		return s.reject(&domain.MoveError{Kind: domain.MoveErrorBusy})
	}

	s.state = newSessionState()
	return nil
}

// enterRunning builds the containers and task queue for the chosen level or
// capacity. The caller holds mu.
func (s *Simulator) enterRunning() {
	st := &s.state
	st.id = s.opts.NewSessionID()
	st.ram = nil
	st.vm = nil
	st.score = 0
	st.history = nil
	st.busy = false
	st.busyText = ""
	st.message = ""

	if st.mode == domain.ModeChallenge {
		level := s.catalog.Levels[st.levelIndex]
		st.capacity = level.Capacity
		ids := level.UniquePrograms()
		st.storage = make([]domain.Program, 0, len(ids))
		for _, id := range ids {
			program, err := s.catalog.Program(id)
			if err != nil {
				continue
			}
			st.storage = append(st.storage, program)
		}
		st.queue = domain.NewTaskQueue(level.Sequence)
	} else {
		st.storage = s.catalog.ProgramsFitting(st.capacity)
		ids := make([]domain.ProgramID, 0, len(st.storage))
		for _, program := range st.storage {
			ids = append(ids, program.ID)
		}
		st.queue = domain.NewTaskQueue(ids)
	}

	st.phase = domain.PhaseRunning
}
