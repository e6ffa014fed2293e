package eos

// Semaphore is a counting semaphore. The count it is created with is also
// its ceiling: releases beyond the ceiling are rejected, so a semaphore
// created with count 1 is a mutex-shaped binary semaphore and one created
// with count N hands out at most N permits.
type Semaphore struct {
	k        *Kernel
	count    uint32
	maxCount uint32
}

// NewSemaphore creates a semaphore with the given initial count, which is
// also its maximum.
func (k *Kernel) NewSemaphore(count uint32) *Semaphore {
	s := &Semaphore{k: k, count: count, maxCount: count}
	k.logger().Debug().Uint64("count", uint64(count)).Log("semaphore created")
	return s
}

// Acquire takes a permit, blocking until one is available. Task context
// only.
func (s *Semaphore) Acquire() {
	k := s.k
	k.enterCritical()
	for s.count == 0 {
		k.blockCurrent(s)
	}
	s.count--
	k.exitCritical()
}

// TryAcquire takes a permit if one is immediately available, returning
// ErrWouldBlock otherwise. Safe from interrupt context.
func (s *Semaphore) TryAcquire() error {
	k := s.k
	k.enterCritical()
	if s.count == 0 {
		k.exitCritical()
		return ErrWouldBlock
	}
	s.count--
	k.exitCritical()
	return nil
}

// Release returns a permit and wakes the highest-priority waiter, if any.
// Releasing an already-full semaphore returns ErrSemaphoreFull and changes
// nothing. Safe from interrupt context: the preemption request degrades to
// a pend that is taken on exception return.
func (s *Semaphore) Release() error {
	k := s.k
	k.enterCritical()
	if s.count == s.maxCount {
		k.exitCritical()
		return ErrSemaphoreFull
	}
	s.count++
	woken := k.unblock(s)
	preempt := k.wakePreempts(woken)
	k.exitCritical()
	if preempt {
		k.port.ContextSwitch()
	}
	return nil
}
