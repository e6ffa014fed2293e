package eos

// Priority is a task's scheduling priority. Priorities are monotonically
// ordered; PriorityIdle is reserved for the built-in idle task but may also
// be assigned to user tasks that should only run when nothing else can.
type Priority uint8

const (
	// PriorityIdle is the lowest priority, held by the built-in idle task.
	PriorityIdle Priority = iota
	// PriorityLow is the lowest user priority.
	PriorityLow
	// PriorityMedium is the middle user priority.
	PriorityMedium
	// PriorityHigh is the highest user priority.
	PriorityHigh
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityIdle:
		return "idle"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "invalid"
	}
}

// waitKind discriminates what, if anything, a task is waiting for.
//
// State Machine (per task, paused composes orthogonally):
//
//	waitNone → waitTimed          [Delay]
//	waitNone → waitObject(token)  [blocking acquire/put/get, unavailable]
//	waitTimed → waitNone          [tick brings timeout to 0]
//	waitObject(token) → waitNone  [unblock(token) selected this task]
type waitKind uint8

const (
	// waitNone means the task is runnable.
	waitNone waitKind = iota
	// waitTimed means the task is blocked on a delay; timeout > 0 holds.
	waitTimed
	// waitObject means the task is blocked on the object identified by the
	// wait token (a semaphore or queue).
	waitObject
)

// waitState is the tagged wait variant stored in each task. The token is the
// blocking primitive's pointer identity; it is only meaningful for
// waitObject.
type waitState struct {
	token any
	kind  waitKind
}

// String returns a human-readable representation of the wait state.
func (w waitState) String() string {
	switch w.kind {
	case waitNone:
		return "runnable"
	case waitTimed:
		return "timed"
	case waitObject:
		return "blocked"
	default:
		return "invalid"
	}
}

func waitOn(token any) waitState { return waitState{kind: waitObject, token: token} }

func waitDelay() waitState { return waitState{kind: waitTimed} }
