package eos

// Critical sections serialize every mutation of kernel state on this core.
// The pair is reentrant: the interrupt mask is taken on the outermost entry
// and dropped on the matching outermost exit, so kernel paths that release
// and immediately re-take the section around a context-switch request
// compose with callers that already hold it.

// enterCritical masks the scheduler's interrupt sources and increments the
// nesting depth. The mask is applied before the depth is touched, so the
// read-modify-write below cannot race an interrupt.
func (k *Kernel) enterCritical() {
	k.port.DisableInterrupts()
	k.critDepth++
}

// exitCritical decrements the nesting depth and unmasks interrupts when the
// outermost section exits.
func (k *Kernel) exitCritical() {
	k.critDepth--
	if k.critDepth == 0 {
		k.port.EnableInterrupts()
	}
}
