package eos

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Machine is a deterministic simulated single-core machine: the built-in
// [Port]. Each task body runs on its own goroutine, but the gates below
// ensure exactly one runs at a time, so kernel code observes the same
// single-core interleavings it would on hardware.
//
// Exception delivery follows the emulator convention: a pended context
// switch is taken at instruction boundaries. Kernel suspension points and
// the idle loop are always boundaries; compute-bound task loops can insert
// explicit ones with [Machine.Checkpoint]. The machine performs the
// hardware half of the exception frame contract (caller-saved push/pop)
// against its register file and defers to [Kernel.SwitchContext] for the
// rest.
//
// The interrupt mask is a mutex keyed to the owning goroutine, so the
// kernel's unconditional mask-on-entry behaves like a cpsid: redundant from
// the owner, blocking for everyone else. [Machine.Tick] injects the tick
// interrupt; it therefore blocks while any critical section is held.
type Machine struct {
	// Prevent copying
	_ [0]func()

	k   *Kernel
	cpu Registers

	// irq is the interrupt mask; maskOwner is the goroutine holding it.
	irq       sync.Mutex
	maskOwner atomic.Uint64

	// pend is the context-switch exception pend bit.
	pend atomic.Uint32

	// ticks is the collaborator-owned monotonic tick counter.
	ticks atomic.Uint64

	// curGID identifies the running task's goroutine; it is how the
	// machine distinguishes thread mode from handler mode.
	curGID atomic.Uint64

	mu    sync.Mutex
	tasks map[*Task]*machineTask

	idleWake chan struct{}
	killed   chan struct{}

	running atomic.Bool

	// TickPeriod, when positive, has Run drive the tick interrupt from an
	// internal ticker. Zero (the default) leaves tick injection to the
	// caller via Tick, which is what deterministic tests want.
	TickPeriod time.Duration

	// testHooks provides injection points for deterministic testing.
	testHooks *machineTestHooks
}

// machineTask is the machine's per-task execution state.
type machineTask struct {
	gate    chan struct{}
	started bool
}

// machineTestHooks provides injection points for deterministic testing.
type machineTestHooks struct {
	OnTick   func()                 // Called before the tick handler runs
	OnSwitch func(prev, next *Task) // Called after save/schedule/restore, before control transfer
}

// NewMachine creates a machine. Pass it to New, then call Kernel.Run (or
// Machine.Run, equivalently).
func NewMachine() *Machine {
	return &Machine{
		tasks:    make(map[*Task]*machineTask),
		idleWake: make(chan struct{}, 1),
		killed:   make(chan struct{}),
	}
}

func (m *Machine) bindKernel(k *Kernel) { m.k = k }

// Ticks returns the monotonic tick count.
func (m *Machine) Ticks() uint64 { return m.ticks.Load() }

// --- Port implementation ---

// DisableInterrupts masks the tick and switch sources. Idempotent from the
// goroutine that already holds the mask.
func (m *Machine) DisableInterrupts() {
	gid := getGoroutineID()
	if m.maskOwner.Load() == gid {
		return
	}
	m.irq.Lock()
	m.maskOwner.Store(gid)
}

// EnableInterrupts releases the mask.
func (m *Machine) EnableInterrupts() {
	m.maskOwner.Store(0)
	m.irq.Unlock()
}

// ContextSwitch pends the switch exception. In thread mode it is taken
// before the call returns; in handler mode it is taken at the next
// instruction boundary (the idle loop is woken so an idle system notices).
func (m *Machine) ContextSwitch() {
	m.pend.Store(1)
	if m.inThreadMode() {
		m.serviceSwitch()
	} else {
		m.wakeIdle()
	}
}

// IncTick advances the monotonic tick counter.
func (m *Machine) IncTick() {
	m.ticks.Add(1)
}

// Idle is the idle task's wait-for-interrupt: it takes a pended switch if
// one is due, otherwise sleeps until an interrupt signals.
func (m *Machine) Idle() {
	if m.pend.Load() != 0 && m.inThreadMode() {
		m.serviceSwitch()
		return
	}
	select {
	case <-m.idleWake:
	case <-m.killed:
		runtime.Goexit()
	}
}

// --- Host implementation ---

// Run performs first dispatch and blocks until ctx is done. When
// TickPeriod is positive an internal ticker drives Tick; otherwise the
// caller injects ticks. The machine is not restartable.
func (m *Machine) Run(ctx context.Context) error {
	if m.k == nil {
		return ErrNoKernel
	}
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	m.DisableInterrupts()
	if err := m.k.begin(&m.cpu); err != nil {
		m.EnableInterrupts()
		m.running.Store(false)
		return err
	}
	m.cpu.popHardwareFrame(m.k.current)
	m.EnableInterrupts()
	m.dispatch(m.k.current)

	if m.TickPeriod > 0 {
		go func() {
			ticker := time.NewTicker(m.TickPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					m.Tick()
				case <-ctx.Done():
					return
				case <-m.killed:
					return
				}
			}
		}()
	}

	<-ctx.Done()
	close(m.killed)
	m.wakeIdle()
	return ctx.Err()
}

// Tick injects one tick interrupt: it runs the kernel's tick handler in
// handler mode, then wakes the idle loop so a pended switch is taken. It
// blocks while a critical section is held, exactly as the interrupt would
// stay masked.
func (m *Machine) Tick() {
	select {
	case <-m.killed:
		return
	default:
	}
	if h := m.testHooks; h != nil && h.OnTick != nil {
		h.OnTick()
	}
	m.k.HandleTick()
	m.wakeIdle()
}

// Checkpoint marks an instruction boundary in a compute-bound task body: a
// pended switch exception is taken here. Kernel suspension points are
// boundaries already; loops that never enter the kernel need an explicit
// one to be preemptible on this simulated machine (on hardware every
// instruction is one).
func (m *Machine) Checkpoint() {
	select {
	case <-m.killed:
		if m.inThreadMode() {
			runtime.Goexit()
		}
		return
	default:
	}
	if m.pend.Load() != 0 && m.inThreadMode() {
		m.serviceSwitch()
	}
}

// --- internals ---

func (m *Machine) inThreadMode() bool {
	gid := m.curGID.Load()
	return gid != 0 && gid == getGoroutineID()
}

func (m *Machine) wakeIdle() {
	select {
	case m.idleWake <- struct{}{}:
	default:
	}
}

// serviceSwitch takes the pended switch exception on the running task's
// goroutine: hardware frame push, kernel save/schedule/restore, hardware
// frame pop, then control transfer to the incoming task's goroutine. The
// outgoing goroutine parks until it is next dispatched.
func (m *Machine) serviceSwitch() {
	for m.pend.CompareAndSwap(1, 0) {
		m.DisableInterrupts()
		prev := m.k.current
		m.cpu.pushHardwareFrame(prev)
		m.k.SwitchContext(&m.cpu)
		next := m.k.current
		m.cpu.popHardwareFrame(next)
		if h := m.testHooks; h != nil && h.OnSwitch != nil {
			h.OnSwitch(prev, next)
		}
		m.EnableInterrupts()

		if next != prev {
			m.dispatch(next)
			m.park(prev)
		}
	}
}

func (m *Machine) taskFor(t *Task) *machineTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt := m.tasks[t]
	if mt == nil {
		mt = &machineTask{gate: make(chan struct{}, 1)}
		m.tasks[t] = mt
	}
	return mt
}

// dispatch hands the CPU to t: first dispatch spawns its goroutine, later
// ones open its gate.
func (m *Machine) dispatch(t *Task) {
	mt := m.taskFor(t)
	m.mu.Lock()
	fresh := !mt.started
	mt.started = true
	m.mu.Unlock()
	if fresh {
		go m.taskMain(t)
		return
	}
	mt.gate <- struct{}{}
}

// park blocks the calling goroutine until its task is dispatched again.
func (m *Machine) park(t *Task) {
	mt := m.taskFor(t)
	select {
	case <-mt.gate:
		m.curGID.Store(getGoroutineID())
	case <-m.killed:
		runtime.Goexit()
	}
}

// taskMain is the goroutine body hosting one task.
func (m *Machine) taskMain(t *Task) {
	m.curGID.Store(getGoroutineID())
	t.entry()
	// The entry returned: park the task forever (there is no deletion).
	m.k.taskExited(t)
	m.k.port.ContextSwitch()
	for {
		m.park(t)
	}
}

// getGoroutineID returns the current goroutine's ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
