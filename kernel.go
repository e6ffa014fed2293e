package eos

import (
	"context"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Kernel is a preemptive priority round-robin kernel instance. Create one
// with New, add tasks with NewTask, then call Run; the kernel owns the CPU
// from that point on.
type Kernel struct {
	// Prevent copying
	_ [0]func()

	port Port
	log  *logiface.Logger[logiface.Event]

	// current is the running task: the thread of execution itself. All
	// reads and writes happen under the critical section, and the restore
	// path publishes it before interrupts are re-enabled.
	current *Task
	tail    *Task
	idle    *Task

	// exited is the wait token parking tasks whose entry function returned.
	exited *int

	critDepth    int32
	schedSuspend int32
	subTicks     uint32
	quantum      uint32
	nextTaskID   uint32

	started atomic.Bool
}

// New creates a kernel on the given port. The built-in idle task is created
// here, so the task ring is never empty.
func New(port Port, opts ...Option) (*Kernel, error) {
	if port == nil {
		return nil, ErrNilPort
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	k := &Kernel{
		port:    port,
		log:     cfg.logger,
		quantum: cfg.quantum,
		exited:  new(int),
	}

	idle := &Task{
		entry:    k.idleLoop,
		name:     "idle",
		stack:    make([]uint32, cfg.idleStackWords),
		priority: PriorityIdle,
	}
	idle.id = k.nextTaskID
	k.nextTaskID++
	idle.sp = initStack(idle)
	idle.next = idle
	k.idle = idle
	k.current = idle
	k.tail = idle

	if b, ok := port.(kernelBinder); ok {
		b.bindKernel(k)
	}

	return k, nil
}

// idleLoop is the idle task body: it never blocks, never pauses, and runs
// whenever nothing else can.
func (k *Kernel) idleLoop() {
	for {
		k.port.Idle()
	}
}

// Run starts the scheduler and blocks for the life of the kernel; the
// context is the host-side stop mechanism. The port must own task execution
// (implement Host), as [Machine] does.
func (k *Kernel) Run(ctx context.Context) error {
	h, ok := k.port.(Host)
	if !ok {
		return ErrPortNotRunnable
	}
	return h.Run(ctx)
}

// begin performs first dispatch: it selects the initial task and loads its
// frame into the register file. Called by the host with interrupts masked.
func (k *Kernel) begin(r *Registers) error {
	if !k.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	k.schedule()
	k.restoreContext(r)

	taskField(k.logger().Info(), "task", k.current).
		Uint64("quantum", uint64(k.quantum)).
		Log("kernel started")
	return nil
}

// Yield voluntarily gives up the CPU: the scheduler runs and, among equal
// priorities, selects the next task in ring order. Task context only.
func (k *Kernel) Yield() {
	k.port.ContextSwitch()
}

// Current returns the running task. The result is only stable when read
// from task context (a task is always its own current) or while the kernel
// is quiescent.
func (k *Kernel) Current() *Task {
	return k.current
}

// Idle returns the built-in idle task.
func (k *Kernel) Idle() *Task {
	return k.idle
}

// taskExited parks a task whose entry function returned. There is no task
// deletion; the task stays on the ring, permanently blocked on a token no
// unblock call ever uses.
func (k *Kernel) taskExited(t *Task) {
	k.enterCritical()
	t.wait = waitOn(k.exited)
	k.exitCritical()

	taskField(k.logger().Warning(), "task", t).Log("task entry returned")
}
