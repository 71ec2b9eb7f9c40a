package scheduler

// State represents the lifecycle state of one entity during validation.
type State int

const (
	// StateUnvalidated is the initial state before any work.
	StateUnvalidated State = iota

	// StateCreated means the backing artifact exists (possibly just created).
	StateCreated

	// StateChecked means correctness was computed at least once.
	StateChecked

	// StateRepairing means the artifact was incorrect and a repair is being
	// applied.
	StateRepairing

	// StateRechecked means correctness was recomputed after a repair.
	StateRechecked

	// StateCorrect is the successful terminal state.
	StateCorrect

	// StateFatal is the failing terminal state: the artifact remained
	// incorrect after a repair, or an I/O step failed.
	StateFatal
)

// String makes State satisfy the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateUnvalidated:
		return "Unvalidated"
	case StateCreated:
		return "Created"
	case StateChecked:
		return "Checked"
	case StateRepairing:
		return "Repairing"
	case StateRechecked:
		return "Rechecked"
	case StateCorrect:
		return "Correct"
	case StateFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Result records the outcome of validating one entity.
type Result struct {
	// Path is the resolved artifact path, identifying the entity.
	Path string

	// Priority is the tier the entity was validated in.
	Priority int

	// State is the terminal state the entity reached.
	State State

	// Created reports whether the artifact was created by this run.
	Created bool

	// Repaired reports whether a repair was applied.
	Repaired bool

	// OptedOut reports whether the artifact was skipped because the user
	// keeps it empty.
	OptedOut bool

	// Err is the fatal error, if any.
	Err error
}

// Run is the record of one reconciliation run.
type Run struct {
	// ID uniquely identifies the run in logs and reports.
	ID string

	// Results holds one entry per validated entity, tier by tier in
	// execution order.
	Results []Result
}

// Repaired returns how many entities were repaired during the run.
func (r *Run) Repaired() int {
	count := 0
	for _, res := range r.Results {
		if res.Repaired {
			count++
		}
	}
	return count
}
