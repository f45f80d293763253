package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/vmsim/internal/application"
	"github.com/bnema/vmsim/internal/domain"
)

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

// StepResult records how the simulator answered one step. Rejected moves
// are part of play and do not stop the run.
type StepResult struct {
	Line      int
	Step      string
	Accepted  bool
	Rejection string
	Kind      domain.MoveErrorKind
	Score     int
	Phase     domain.Phase
}

type Report struct {
	Steps []StepResult
	Final application.Snapshot
}

// StepObserver is told about each step just before it is applied. index is
// zero-based.
type StepObserver func(index, total int, step Step)

// Run executes steps in order, waiting for every delayed move to commit
// before the next step. Errors other than move rejections abort the run.
func Run(ctx context.Context, sim Simulator, steps []Step) (Report, error) {
	return RunObserved(ctx, sim, steps, nil)
}

// RunObserved is Run with a callback per step. A nil observer is allowed.
func RunObserved(ctx context.Context, sim Simulator, steps []Step, observe StepObserver) (Report, error) {
	report := Report{Steps: make([]StepResult, 0, len(steps))}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if observe != nil {
			observe(i, len(steps), step)
		}

		result := StepResult{Line: step.Line, Step: step.String(), Accepted: true}
		err := apply(ctx, sim, step)

		var moveErr *domain.MoveError
		switch {
		case errors.As(err, &moveErr):
			result.Accepted = false
			result.Rejection = moveErr.Error()
			result.Kind = moveErr.Kind
		case err != nil:
			return report, fmt.Errorf("line %d (%s): %w", step.Line, step, err)
		}

		snapshot := sim.Snapshot()
		result.Score = snapshot.Score
		result.Phase = snapshot.Phase
		report.Steps = append(report.Steps, result)
	}

	report.Final = sim.Snapshot()
	return report, nil
}

func apply(ctx context.Context, sim Simulator, step Step) error {
	switch step.Intent {
	case IntentMode:
		return sim.ChooseMode(domain.Mode(strings.ToLower(step.Args[0])))
	case IntentCapacity:
		capacity, err := step.number()
		if err != nil {
			return err
		}
		return sim.ChooseFreestyleCapacity(capacity)
	case IntentLevel:
		level, err := step.number()
		if err != nil {
			return err
		}
		return sim.SelectLevel(level - 1)
	case IntentStart:
		return sim.StartSession()
	case IntentMove:
		return move(ctx, sim, step.Args)
	case IntentToggle:
		return sim.ToggleStatus(step.Args[0])
	case IntentAdvance:
		return sim.AdvanceLevel()
	case IntentReset:
		return sim.ResetSession()
	case IntentMenu:
		return sim.ReturnToMenu()
	default:
		return fmt.Errorf("unknown intent %q", step.Intent)
	}
}

func move(ctx context.Context, sim Simulator, args []string) error {
	source, err := domain.ParseContainerKind(args[1])
	if err != nil {
		return err
	}
	target, err := domain.ParseContainerKind(args[2])
	if err != nil {
		return err
	}

	pending, err := sim.RequestMove(application.MoveCommand{Program: args[0], Source: source, Target: target})
	if err != nil {
		return err
	}

	return pending.Wait(ctx)
}
