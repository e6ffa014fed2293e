package eos

import (
	"testing"
)

// fakePort is a deterministic Port that records what the kernel asks of the
// hardware without performing any of it: no control transfer happens, so
// kernel state can be inspected between steps. Switch requests are counted;
// tests that want the architectural swap call fakeDispatch.
type fakePort struct {
	masked         bool
	disableCalls   int
	enableCalls    int
	switchRequests int
	tickCount      uint64
	idleCalls      int
}

func (p *fakePort) DisableInterrupts() {
	p.masked = true
	p.disableCalls++
}

func (p *fakePort) EnableInterrupts() {
	p.masked = false
	p.enableCalls++
}

func (p *fakePort) ContextSwitch() { p.switchRequests++ }

func (p *fakePort) IncTick() { p.tickCount++ }

func (p *fakePort) Idle() { p.idleCalls++ }

// newTestKernel creates a kernel on a recording fake port.
func newTestKernel(t *testing.T, opts ...Option) (*Kernel, *fakePort) {
	t.Helper()
	port := &fakePort{}
	k, err := New(port, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return k, port
}

// spin is a task entry for tasks that only exist as scheduling state in
// fake-port tests; it must never actually run there.
func spin() {
	panic(`eos: fake-port task dispatched`)
}

// mustTask creates a runnable task with an allocated stack.
func mustTask(t *testing.T, k *Kernel, prio Priority, name string) *Task {
	t.Helper()
	task, err := k.NewTask(TaskConfig{
		Entry:      spin,
		Priority:   prio,
		StackWords: MinStackWords,
		Name:       name,
	})
	if err != nil {
		t.Fatal(err)
	}
	return task
}

// fakeBegin performs first dispatch against a fake port, returning the
// register file primed for fakeDispatch.
func fakeBegin(t *testing.T, k *Kernel) *Registers {
	t.Helper()
	var r Registers
	k.enterCritical()
	err := k.begin(&r)
	if err == nil {
		r.popHardwareFrame(k.current)
	}
	k.exitCritical()
	if err != nil {
		t.Fatal(err)
	}
	return &r
}

// fakeDispatch plays the role of the switch exception for fake-port tests:
// hardware push, save/schedule/restore, hardware pop. Returns the outgoing
// and incoming tasks.
func fakeDispatch(k *Kernel, r *Registers) (prev, next *Task) {
	k.enterCritical()
	prev = k.current
	r.pushHardwareFrame(prev)
	k.SwitchContext(r)
	next = k.current
	r.popHardwareFrame(next)
	k.exitCritical()
	return prev, next
}

// setBlocked marks a task blocked on token, as a blocking primitive would
// from that task's own context.
func setBlocked(k *Kernel, task *Task, token any) {
	k.enterCritical()
	task.wait = waitOn(token)
	k.exitCritical()
}
