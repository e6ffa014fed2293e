package eos

// schedule selects and publishes the next running task. Called with
// interrupts masked, from the context-switch glue and from first dispatch.
//
// The walk starts just past the current selection (or just past idle when
// the current task cannot run) and visits the whole ring once, so among
// equal highest-priority runnable tasks the choice rotates on successive
// passes: that is the entirety of the round-robin policy. The idle task
// never blocks and never pauses, so the selection always lands somewhere.
func (k *Kernel) schedule() {
	start := k.current
	if !start.runnable() {
		start = k.idle
	}
	best := start
	for t := start.next; t != start; t = t.next {
		if t.runnable() && t.priority >= best.priority {
			best = t
		}
	}
	k.current = best
}

// forEachTask walks the ring exactly once, starting at the current task.
// Called with interrupts masked.
func (k *Kernel) forEachTask(fn func(*Task)) {
	t := k.current
	for {
		fn(t)
		t = t.next
		if t == k.current {
			return
		}
	}
}

// SchedulerSuspend disables preemptive rescheduling from the tick handler.
// Calls nest; timeouts continue to count down while suspended, so delayed
// tasks become runnable on time and are dispatched once the scheduler is
// resumed. Voluntary suspension points are unaffected.
func (k *Kernel) SchedulerSuspend() {
	k.enterCritical()
	k.schedSuspend++
	k.exitCritical()
}

// SchedulerResume undoes one SchedulerSuspend.
func (k *Kernel) SchedulerResume() {
	k.enterCritical()
	if k.schedSuspend > 0 {
		k.schedSuspend--
	}
	k.exitCritical()
}
