package tracker

// State is the lifecycle state of a Tracker.
type State int

const (
	// StateIdle means no run has started yet.
	StateIdle State = iota

	// StateRunning means a run is in flight.
	StateRunning

	// StateCompleted means the last run checked every keyword and was saved.
	StateCompleted

	// StateFailed means the last run was cancelled or could not be saved.
	StateFailed
)

// String returns the state name used in logs and stored run records.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the tracker's progress.
type Status struct {
	State State

	// RunID is the ID of the current or last run. Empty while idle.
	RunID string

	// Current is the number of keywords processed so far, out of Total.
	Current int
	Total   int

	// Err is the error that ended the last run in StateFailed.
	Err error
}
