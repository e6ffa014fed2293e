package eos

import (
	"context"
)

// Port is the kernel's only coupling to hardware. A port provides interrupt
// masking, the pendable context-switch exception, the collaborator-owned
// monotonic tick count, and an idle hint. [Machine] is the built-in
// simulated port; a real target supplies these with a handful of
// instructions each.
//
// The kernel calls DisableInterrupts unconditionally on critical-section
// entry, including when already masked; implementations must tolerate
// redundant masking from the masked context (on hardware this is a plain
// cpsid; the simulated machine keys on the owning goroutine).
type Port interface {
	// DisableInterrupts masks the kernel's interrupt sources. It must be
	// idempotent from the context that already holds the mask.
	DisableInterrupts()

	// EnableInterrupts unmasks the kernel's interrupt sources. Called only
	// by the outermost critical-section exit.
	EnableInterrupts()

	// ContextSwitch requests the context-switch exception. From thread
	// (task) context with interrupts unmasked, the switch takes effect
	// before the call returns. From handler (interrupt) context, or while
	// masked, it is pended and taken on exception return.
	ContextSwitch()

	// IncTick advances the port's monotonic tick counter. Called once per
	// tick-handler invocation, under the critical section.
	IncTick()

	// Idle is called repeatedly by the built-in idle task. It may sleep
	// until the next interrupt (wait-for-interrupt) or return immediately.
	Idle()
}

// Host is an optional Port extension implemented by ports that own task
// execution, such as [Machine]. Kernel.Run delegates to it.
type Host interface {
	Port

	// Run dispatches the first task and blocks until ctx is done. It does
	// not return during normal operation.
	Run(ctx context.Context) error
}

// kernelBinder is implemented by ports that need a reference to the kernel
// they serve; New invokes it before returning.
type kernelBinder interface {
	bindKernel(*Kernel)
}
