package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/vmsim/internal/domain"
)

// PendingMove resolves once a requested move has been committed. Moves that
// commit immediately are returned already resolved.
type PendingMove struct {
	Delay time.Duration
	done  chan struct{}
}

func resolvedMove() *PendingMove {
	done := make(chan struct{})
	close(done)
	return &PendingMove{done: done}
}

func (p *PendingMove) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the move is committed. Cancelling ctx stops waiting but
// never aborts the commit itself.
func (p *PendingMove) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestMove validates a move and either commits it or schedules the commit
// after the simulated latency. A rejected move returns *domain.MoveError and
// leaves every container untouched.
func (s *Simulator) RequestMove(cmd MoveCommand) (*PendingMove, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.busy {
		return nil, s.reject(&domain.MoveError{Kind: domain.MoveErrorBusy})
	}
	if !s.state.phase.AcceptsMoves(s.state.mode) {
		return nil, s.reject(&domain.MoveError{Kind: domain.MoveErrorNotRunning})
	}
	if !cmd.Source.Valid() || !cmd.Target.Valid() {
		return nil, s.reject(&domain.MoveError{
			Kind:   domain.MoveErrorInvalidRequest,
			Detail: fmt.Sprintf("unknown container in move %q -> %q", cmd.Source, cmd.Target),
		})
	}

	item, err := s.locate(cmd.Source, cmd.Program)
	if err != nil {
		return nil, s.reject(err)
	}
	if cmd.Source == cmd.Target {
		return nil, s.reject(&domain.MoveError{Kind: domain.MoveErrorInvalidSource, Program: item.Program.Name})
	}

	switch cmd.Target {
	case domain.ContainerRAM:
		return s.moveToRAM(item, cmd.Source)
	case domain.ContainerVirtualMemory:
		return s.moveToVirtualMemory(item, cmd.Source)
	default:
		return s.moveToSecondaryStorage(item, cmd.Source)
	}
}

func (s *Simulator) moveToRAM(item domain.PlacedProgram, source domain.ContainerKind) (*PendingMove, error) {
	program := item.Program
	capacity := s.state.capacity

	if program.Size > capacity {
		return nil, s.reject(capacityError(domain.CapacityHardLimit, program))
	}

	used := domain.UsedCapacity(s.state.ram)
	if used+program.Size > capacity {
		activeSize, inactiveSize := domain.PartitionBySwapability(s.state.ram)
		switch {
		case activeSize+program.Size > capacity:
			return nil, s.reject(capacityError(domain.CapacityUnsatisfiable, program))
		case inactiveSize > 0:
			return nil, s.reject(capacityError(domain.CapacityNeedsSwap, program))
		default:
			return nil, s.reject(capacityError(domain.CapacityNoInactiveToFree, program))
		}
	}

	if expected, ok := s.state.queue.Front(); ok && program.ID != expected {
		return nil, s.reject(&domain.MoveError{
			Kind:         domain.MoveErrorOutOfOrder,
			Program:      program.Name,
			Expected:     expected,
			ExpectedName: s.displayName(expected),
		})
	}

	if source == domain.ContainerSecondaryStorage {
		text := fmt.Sprintf("Loading %s from secondary storage...", program.Name)
		return s.schedule(s.opts.Delays.Load, text, func() {
			s.state.ram = append(s.state.ram, s.newInstance(program))
			s.record(program, source, domain.ContainerRAM, PointsLoad)
			s.state.message = fmt.Sprintf("%s loaded into RAM (+%d).", program.Name, PointsLoad)
			s.consumeTask()
		}), nil
	}

	text := fmt.Sprintf("Swapping %s back into RAM...", program.Name)
	return s.schedule(s.opts.Delays.SwapIn, text, func() {
		s.state.vm = removeInstance(s.state.vm, item.InstanceID)
		s.state.ram = append(s.state.ram, s.newInstance(program))
		s.record(program, source, domain.ContainerRAM, PointsSwap)
		s.state.message = fmt.Sprintf("%s swapped back into RAM (+%d).", program.Name, PointsSwap)
		if s.state.mode == domain.ModeChallenge {
			s.consumeTask()
		}
	}), nil
}

func (s *Simulator) moveToVirtualMemory(item domain.PlacedProgram, source domain.ContainerKind) (*PendingMove, error) {
	program := item.Program

	if source != domain.ContainerRAM {
		return nil, s.reject(&domain.MoveError{Kind: domain.MoveErrorInvalidSource, Program: program.Name})
	}
	if !program.Removable {
		return nil, s.reject(&domain.MoveError{Kind: domain.MoveErrorNotRemovable, Program: program.Name})
	}
	if item.Status == domain.StatusOpen {
		return nil, s.reject(&domain.MoveError{Kind: domain.MoveErrorMustBeInactiveFirst, Program: program.Name})
	}

	s.state.ram = removeInstance(s.state.ram, item.InstanceID)
	s.state.vm = append(s.state.vm, item)
	s.record(program, source, domain.ContainerVirtualMemory, PointsSwap)
	s.state.message = fmt.Sprintf("%s swapped out to virtual memory (+%d).", program.Name, PointsSwap)

	return resolvedMove(), nil
}

func (s *Simulator) moveToSecondaryStorage(item domain.PlacedProgram, source domain.ContainerKind) (*PendingMove, error) {
	program := item.Program

	if !program.Removable {
		return nil, s.reject(&domain.MoveError{Kind: domain.MoveErrorNotRemovable, Program: program.Name})
	}
	if source == domain.ContainerRAM && item.Status == domain.StatusInactive {
		return nil, s.reject(&domain.MoveError{Kind: domain.MoveErrorInactiveMustSwap, Program: program.Name})
	}

	text := fmt.Sprintf("Closing %s...", program.Name)
	return s.schedule(s.opts.Delays.Close, text, func() {
		if source == domain.ContainerRAM {
			s.state.ram = removeInstance(s.state.ram, item.InstanceID)
		} else {
			s.state.vm = removeInstance(s.state.vm, item.InstanceID)
		}
		s.record(program, source, domain.ContainerSecondaryStorage, PointsClose)
		s.state.message = fmt.Sprintf("%s closed (+%d).", program.Name, PointsClose)
	}), nil
}

// ToggleStatus flips a RAM-resident program between open and inactive.
// The operating system entry is left untouched.
func (s *Simulator) ToggleStatus(selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.busy {
		return s.reject(&domain.MoveError{Kind: domain.MoveErrorBusy})
	}
	if !s.state.phase.AcceptsMoves(s.state.mode) {
		return s.reject(&domain.MoveError{Kind: domain.MoveErrorNotRunning})
	}

	idx := findInstance(s.state.ram, selector)
	if idx < 0 {
		return s.reject(&domain.MoveError{
			Kind:   domain.MoveErrorInvalidRequest,
			Detail: fmt.Sprintf("%q is not in RAM", selector),
		})
	}

	placed := &s.state.ram[idx]
	if !placed.Program.Removable {
		return nil
	}

	placed.Status = placed.Status.Toggled()
	s.state.message = fmt.Sprintf("%s is now %s.", placed.Program.Name, placed.Status)

	return nil
}

// schedule marks the session busy and commits after delay. The caller holds mu.
func (s *Simulator) schedule(delay time.Duration, busyText string, commit func()) *PendingMove {
	s.state.busy = true
	s.state.busyText = busyText

	pending := &PendingMove{Delay: delay, done: make(chan struct{})}
	timer := s.clock.After(delay)

	go func() {
		<-timer

		s.mu.Lock()
		commit()
		s.state.busy = false
		s.state.busyText = ""
		s.mu.Unlock()

		close(pending.done)
	}()

	return pending
}

func (s *Simulator) consumeTask() {
	if !s.state.queue.Pop() {
		return
	}
	if s.state.queue.Empty() {
		s.state.phase = domain.PhaseComplete
	}
}

func (s *Simulator) newInstance(program domain.Program) domain.PlacedProgram {
	return domain.PlacedProgram{
		InstanceID: s.opts.NewInstanceID(),
		Program:    program,
		Status:     domain.StatusOpen,
	}
}

func (s *Simulator) locate(kind domain.ContainerKind, selector string) (domain.PlacedProgram, *domain.MoveError) {
	switch kind {
	case domain.ContainerSecondaryStorage:
		for _, program := range s.state.storage {
			if string(program.ID) == selector {
				return domain.PlacedProgram{Program: program, Status: program.DefaultStatus}, nil
			}
		}
	case domain.ContainerRAM:
		if idx := findInstance(s.state.ram, selector); idx >= 0 {
			return s.state.ram[idx], nil
		}
	case domain.ContainerVirtualMemory:
		if idx := findInstance(s.state.vm, selector); idx >= 0 {
			return s.state.vm[idx], nil
		}
	}

	return domain.PlacedProgram{}, &domain.MoveError{
		Kind:   domain.MoveErrorInvalidRequest,
		Detail: fmt.Sprintf("%q is not in %s", selector, kind.Label()),
	}
}

func capacityError(kind domain.CapacityKind, program domain.Program) *domain.MoveError {
	return &domain.MoveError{
		Kind:     domain.MoveErrorCapacityExceeded,
		Capacity: kind,
		Program:  program.Name,
	}
}

// findInstance matches an instance id first, then the first instance of a program id.
func findInstance(programs []domain.PlacedProgram, selector string) int {
	for i, p := range programs {
		if p.InstanceID == selector {
			return i
		}
	}
	for i, p := range programs {
		if string(p.Program.ID) == selector {
			return i
		}
	}

	return -1
}

func removeInstance(programs []domain.PlacedProgram, instanceID string) []domain.PlacedProgram {
	result := make([]domain.PlacedProgram, 0, len(programs))
	for _, p := range programs {
		if p.InstanceID == instanceID {
			continue
		}
		result = append(result, p)
	}

	return result
}
