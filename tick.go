package eos

// HandleTick is the tick interrupt handler. The port invokes it once per
// tick period, in interrupt context. It advances the port's monotonic tick
// count and, once the sub-counter reaches the configured quantum, walks the
// ring to count down timed waits and requests a reschedule.
//
// The countdown happens every quantum whether or not a context switch ends
// up firing: suspending the scheduler (SchedulerSuspend) defers preemption
// but never stretches delays. Paused tasks do not count down; their
// remaining timeout is preserved across pause/resume.
func (k *Kernel) HandleTick() {
	k.enterCritical()
	k.port.IncTick()

	k.subTicks++
	if k.subTicks >= k.quantum {
		k.subTicks = 0
		k.forEachTask(func(t *Task) {
			if t.wait.kind != waitTimed || t.paused {
				return
			}
			if t.timeout > 0 {
				t.timeout--
			}
			if t.timeout == 0 {
				t.wait = waitState{}
				taskField(k.logger().Trace(), "task", t).Log("delay expired")
			}
		})
		if k.schedSuspend == 0 {
			k.port.ContextSwitch()
		}
	}

	k.exitCritical()
}
