package eos

// TaskConfig defines the configuration of a new task, for Kernel.NewTask.
type TaskConfig struct {
	// Entry is the task body. It must never return; the kernel has no task
	// deletion, and a returning entry parks the task permanently.
	Entry func()

	// Priority is the task's scheduling priority, at most PriorityHigh.
	Priority Priority

	// Stack optionally provides the stack memory. When nil, a stack of
	// StackWords words is allocated and owned by the task.
	Stack []uint32

	// StackWords is the stack size in words, used when Stack is nil.
	StackWords int

	// FP marks the task as using the floating-point coprocessor; its saved
	// frames carry the extended register set.
	FP bool

	// Name optionally labels the task in logs.
	Name string
}

// Task is a task control block. Task handles are stable for the life of the
// kernel; there is no task deletion.
type Task struct {
	// sp is the saved stack pointer: the word index of the frame top within
	// stack, valid while the task is not running.
	sp uint32

	// next links the circular task ring. There is no distinguished head.
	next *Task

	// stack is the task's stack memory, touched only by the task itself
	// while running and by the context-switch machinery while preempted.
	stack []uint32

	entry func()
	name  string

	// wait, timeout, and paused are the scheduling state, mutated only
	// under the critical section.
	wait    waitState
	timeout uint32
	paused  bool

	priority Priority
	fp       bool
	id       uint32
}

// Priority returns the task's (fixed) scheduling priority.
func (t *Task) Priority() Priority { return t.priority }

// Name returns the task's label, which may be empty.
func (t *Task) Name() string { return t.name }

// Paused reports whether the task is excluded from scheduling by Pause. The
// result is only stable when read from task context or while the kernel is
// quiescent, as with Kernel.Current.
func (t *Task) Paused() bool { return t.paused }

// runnable reports whether the scheduler may select the task. Callers hold
// the critical section.
func (t *Task) runnable() bool {
	return t.wait.kind == waitNone && !t.paused
}

// entryAddress returns the synthetic code address stored as the task's
// initial program counter.
func (t *Task) entryAddress() uint32 {
	return taskCodeBase + t.id*taskCodeStride
}

// NewTask creates a task and appends it to the task ring. The task starts
// runnable and not paused; it first runs on a subsequent scheduling pass,
// never from within this call. Tasks may be created both before the kernel
// runs and from task context.
func (k *Kernel) NewTask(cfg TaskConfig) (*Task, error) {
	if cfg.Entry == nil {
		return nil, ErrNilEntry
	}
	if cfg.Priority > PriorityHigh {
		return nil, ErrInvalidPriority
	}
	stack := cfg.Stack
	if stack == nil {
		if cfg.StackWords < MinStackWords {
			return nil, ErrStackTooSmall
		}
		stack = make([]uint32, cfg.StackWords)
	} else if len(stack) < MinStackWords {
		return nil, ErrStackTooSmall
	}

	t := &Task{
		entry:    cfg.Entry,
		name:     cfg.Name,
		stack:    stack,
		priority: cfg.Priority,
		fp:       cfg.FP,
	}

	k.enterCritical()
	t.id = k.nextTaskID
	k.nextTaskID++
	t.sp = initStack(t)
	// Append just after the tail so insertion order is preserved and a walk
	// from any node reaches every node.
	t.next = k.tail.next
	k.tail.next = t
	k.tail = t
	k.exitCritical()

	taskField(k.logger().Info(), "task", t).
		Stringer("priority", t.priority).
		Bool("fp", t.fp).
		Int("stackWords", len(stack)).
		Log("task created")

	return t, nil
}

// Delay blocks the running task for the given number of ticks. Zero is
// treated as one tick. Task context only. On wake, execution resumes
// immediately after the call.
func (k *Kernel) Delay(ticks uint32) {
	if ticks == 0 {
		ticks = 1
	}
	k.enterCritical()
	t := k.current
	t.wait = waitDelay()
	t.timeout = ticks
	k.exitCritical()
	k.port.ContextSwitch()
}

// Pause excludes a task from scheduling until Resume. Pausing composes with
// blocking: a paused task keeps its wait state, and a timed wait stops
// counting down while paused. Pausing the running task takes effect
// immediately.
func (k *Kernel) Pause(t *Task) error {
	if t == nil {
		return ErrNilTask
	}
	if t == k.idle {
		return ErrIdleTask
	}
	k.enterCritical()
	if t.paused {
		k.exitCritical()
		return ErrTaskPaused
	}
	t.paused = true
	self := t == k.current
	k.exitCritical()

	taskField(k.logger().Debug(), "task", t).Log("task paused")

	if self {
		k.port.ContextSwitch()
	}
	return nil
}

// Resume clears a task's paused flag. It does not itself trigger
// preemption; a higher-priority resumed task takes over on the next tick or
// synchronization event.
func (k *Kernel) Resume(t *Task) error {
	if t == nil {
		return ErrNilTask
	}
	k.enterCritical()
	if !t.paused {
		k.exitCritical()
		return ErrTaskNotPaused
	}
	t.paused = false
	k.exitCritical()

	taskField(k.logger().Debug(), "task", t).Log("task resumed")
	return nil
}
