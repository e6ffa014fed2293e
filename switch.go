package eos

// SwitchContext is the body of the context-switch exception handler: the
// architectural contract between the kernel and its port. The port (or
// hardware) has already pushed the caller-saved half of the frame and
// vectored here with interrupts masked; this routine:
//
//  1. pushes the callee-saved registers — and, when the floating-point
//     context is active, the callee-saved FP registers — onto the preempted
//     task's stack, finishing with the marker word that records the frame
//     shape;
//  2. stores the resulting stack pointer into the preempted task's control
//     block;
//  3. runs the scheduler, which publishes the new running task;
//  4. restores the new task's marker, callee-saved registers, and (per the
//     marker) FP callee-saved registers, leaving the process stack pointer
//     at the hardware frame for the exception return to pop.
//
// On a real target this routine is a short assembly sequence; the register
// file parameter stands in for the CPU.
func (k *Kernel) SwitchContext(r *Registers) {
	prev := k.current
	k.saveContext(prev, r)
	k.schedule()
	next := k.current
	k.restoreContext(r)

	if prev != next {
		taskField(taskField(k.logger().Trace(), "from", prev), "to", next).
			Log("context switch")
	}
}

// saveContext pushes the software half of the frame onto t's stack and
// records the saved stack pointer.
func (k *Kernel) saveContext(t *Task, r *Registers) {
	fp := r.fpActive()
	sp := r.PSP - swWords(fp)
	st := t.stack[sp:]

	copy(st[:8], r.R[4:12]) // R4-R11
	if fp {
		st[markerOffset] = excReturnThreadPSPFP
		copy(st[9:25], r.S[16:32]) // S16-S31
	} else {
		st[markerOffset] = excReturnThreadPSP
	}
	t.sp = sp
}

// restoreContext loads the software half of the current task's frame into
// the register file and points PSP at the hardware frame. The marker word
// decides whether the extended register set is present, and becomes the
// exception-return value in LR.
func (k *Kernel) restoreContext(r *Registers) {
	t := k.current
	st := t.stack[t.sp:]

	marker := st[markerOffset]
	fp := marker&excReturnFrameBit == 0

	copy(r.R[4:12], st[:8]) // R4-R11
	if fp {
		copy(r.S[16:32], st[9:25]) // S16-S31
		r.CONTROL |= controlFPCA
	} else {
		r.CONTROL &^= controlFPCA
	}
	r.CONTROL |= controlSPSEL
	r.LR = marker
	r.PSP = t.sp + swWords(fp)
}
