package eos

// Block/unblock protocol shared by semaphores and queues. A blocked task
// records the primitive's pointer identity as its wait token; distinct
// primitives therefore partition their waiters without any per-primitive
// wait list. Waking is single-shot: one unblock call releases at most one
// waiter, and a woken waiter must re-check availability because it races
// other producers/consumers for the permit or slot.

// blockCurrent marks the running task blocked on token and yields. Called
// with the critical section held; it is released across the switch and
// re-taken before returning, so callers loop:
//
//	k.enterCritical()
//	for !available {
//		k.blockCurrent(tok)
//	}
//	// consume; maybe unblock; k.exitCritical()
func (k *Kernel) blockCurrent(token any) {
	t := k.current
	t.wait = waitOn(token)

	taskField(k.logger().Trace(), "task", t).Log("task blocked")

	k.exitCritical()
	k.port.ContextSwitch()
	k.enterCritical()
}

// unblock wakes the single highest-priority task blocked on token,
// returning it, or nil when no task waits. On a priority tie the first
// waiter encountered wins; the walk starts just past the running task, so
// ties resolve in ring order from there. Called with the critical section
// held.
//
// Pausing does not exclude a waiter from selection: a paused winner becomes
// runnable-but-paused and is dispatched after resume.
func (k *Kernel) unblock(token any) *Task {
	var best *Task
	for t := k.current.next; ; t = t.next {
		if t.wait.kind == waitObject && t.wait.token == token &&
			(best == nil || t.priority > best.priority) {
			best = t
		}
		if t == k.current {
			break
		}
	}
	if best != nil {
		best.wait = waitState{}
		best.timeout = 0
		taskField(k.logger().Trace(), "task", best).Log("task woken")
	}
	return best
}

// wakePreempts reports whether a wake must be followed by a reschedule
// request once the caller drops the critical section: the woken task
// outranks the running one and is dispatchable.
func (k *Kernel) wakePreempts(woken *Task) bool {
	return woken != nil && !woken.paused && woken.priority > k.current.priority
}
