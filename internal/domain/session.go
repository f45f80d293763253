package domain

type Mode string

const (
	ModeFreestyle Mode = "freestyle"
	ModeChallenge Mode = "challenge"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeFreestyle, ModeChallenge:
		return true
	default:
		return false
	}
}

type Phase string

const (
	PhaseStart       Phase = "start"
	PhaseModeSetup   Phase = "mode_setup"
	PhaseLevelSelect Phase = "level_select"
	PhaseRunning     Phase = "running"
	PhaseComplete    Phase = "complete"
)

// AcceptsMoves reports whether a move request may be evaluated in this phase.
// Freestyle exploration continues after the queue drains.
func (p Phase) AcceptsMoves(mode Mode) bool {
	switch p {
	case PhaseRunning:
		return true
	case PhaseComplete:
		return mode == ModeFreestyle
	default:
		return false
	}
}

// TaskQueue is the required load order for the active level.
type TaskQueue struct {
	ids []ProgramID
}

func NewTaskQueue(ids []ProgramID) TaskQueue {
	copied := make([]ProgramID, len(ids))
	copy(copied, ids)
	return TaskQueue{ids: copied}
}

func (q TaskQueue) Len() int {
	return len(q.ids)
}

func (q TaskQueue) Empty() bool {
	return len(q.ids) == 0
}

func (q TaskQueue) Front() (ProgramID, bool) {
	if len(q.ids) == 0 {
		return "", false
	}

	return q.ids[0], true
}

// Pop consumes the front entry. It reports false when the queue was already empty.
func (q *TaskQueue) Pop() bool {
	if len(q.ids) == 0 {
		return false
	}

	q.ids = q.ids[1:]
	return true
}

func (q TaskQueue) Items() []ProgramID {
	items := make([]ProgramID, len(q.ids))
	copy(items, q.ids)
	return items
}
