// Package script drives a simulator from a line-oriented list of intents.
package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/vmsim/internal/domain"
)

type Intent string

const (
	IntentMode     Intent = "mode"
	IntentCapacity Intent = "capacity"
	IntentLevel    Intent = "level"
	IntentStart    Intent = "start"
	IntentMove     Intent = "move"
	IntentToggle   Intent = "toggle"
	IntentAdvance  Intent = "advance"
	IntentReset    Intent = "reset"
	IntentMenu     Intent = "menu"
)

var intentArity = map[Intent]int{
	IntentMode:     1,
	IntentCapacity: 1,
	IntentLevel:    1,
	IntentStart:    0,
	IntentMove:     3,
	IntentToggle:   1,
	IntentAdvance:  0,
	IntentReset:    0,
	IntentMenu:     0,
}

// Step is one parsed script line.
type Step struct {
	Line   int
	Intent Intent
	Args   []string
}

func (s Step) String() string {
	return strings.TrimSpace(string(s.Intent) + " " + strings.Join(s.Args, " "))
}

// Parse reads one intent per line. Blank lines and text after '#' are ignored.
func Parse(r io.Reader) ([]Step, error) {
	scanner := bufio.NewScanner(r)
	steps := []Step{}
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		step := Step{Line: lineNo, Intent: Intent(strings.ToLower(fields[0])), Args: fields[1:]}
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return steps, nil
}

func (s Step) validate() error {
	arity, ok := intentArity[s.Intent]
	if !ok {
		return fmt.Errorf("unknown intent %q", s.Intent)
	}
	if len(s.Args) != arity {
		return fmt.Errorf("%s expects %d argument(s), got %d", s.Intent, arity, len(s.Args))
	}

	switch s.Intent {
	case IntentMode:
		if !domain.Mode(strings.ToLower(s.Args[0])).Valid() {
			return fmt.Errorf("unsupported mode %q", s.Args[0])
		}
	case IntentCapacity, IntentLevel:
		if _, err := s.number(); err != nil {
			return err
		}
	case IntentMove:
		for _, raw := range s.Args[1:] {
			if _, err := domain.ParseContainerKind(raw); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s Step) number() (int, error) {
	n, err := strconv.Atoi(s.Args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s expects a positive number, got %q", s.Intent, s.Args[0])
	}

	return n, nil
}
