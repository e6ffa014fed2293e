// Package eos implements a compact preemptive real-time kernel core for
// single-core, ARMv7-M style targets, together with a deterministic
// simulated machine for running and testing it on a host.
//
// # Architecture
//
// The kernel multiplexes the CPU across a fixed set of tasks. Tasks live on
// a circular intrusive list that always contains the built-in idle task;
// the scheduler walks the ring once per selection, picking the
// highest-priority runnable task and rotating among equals (round-robin
// time-slicing). Preemption is driven by a periodic tick and by a pendable
// low-priority switch exception; the switch handler saves the preempted
// task's callee-saved registers into a frame on its own stack, consults the
// scheduler, and restores the next task's frame. [Kernel.SwitchContext]
// defines that architectural contract; the hardware-pushed caller-saved
// half of the frame is the port's responsibility.
//
// Two synchronization primitives are provided: counting semaphores
// ([Semaphore]) and bounded byte-slot queues ([Queue]). Both are built on a
// shared block/unblock protocol in which a blocked task records the
// primitive's identity as its wait token, and each release/put/get wakes at
// most the single highest-priority waiter on that token.
//
// # Ports
//
// All hardware coupling goes through [Port]: interrupt masking, the switch
// exception request, the monotonic tick count, and the idle wait hint.
// [Machine] is the built-in port, a simulated single-core machine that runs
// each task body on a gated goroutine, delivers pended exceptions at
// instruction boundaries, and performs the hardware half of the exception
// frame contract against an ARMv7-M style register file ([Registers]).
//
// # Thread Safety
//
// All kernel state is mutated under the critical section (interrupt mask).
// Task-context API ([Kernel.Delay], [Semaphore.Acquire], blocking
// [Queue.Put]/[Queue.Get]) must be called from the running task.
// Non-blocking primitive operations and [Semaphore.Release] may also be
// called from interrupt context.
//
// # Usage
//
//	m := eos.NewMachine()
//	k, err := eos.New(m)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, err = k.NewTask(eos.TaskConfig{
//		Entry:      func() { work(k) },
//		Priority:   eos.PriorityMedium,
//		StackWords: 128,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := k.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal(err)
//	}
package eos
