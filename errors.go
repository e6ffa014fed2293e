package eos

import (
	"errors"
)

// Standard errors.
var (
	// ErrWouldBlock is returned by non-blocking primitive operations when the
	// resource is unavailable (queue full on put, queue empty on get,
	// semaphore at zero on try-acquire). No state is changed.
	ErrWouldBlock = errors.New("eos: operation would block")

	// ErrStackTooSmall is returned by task creation when the stack is smaller
	// than MinStackWords.
	ErrStackTooSmall = errors.New("eos: stack too small")

	// ErrInvalidPriority is returned by task creation for priorities above
	// PriorityHigh.
	ErrInvalidPriority = errors.New("eos: invalid priority")

	// ErrNilEntry is returned by task creation when no entry function is
	// provided.
	ErrNilEntry = errors.New("eos: nil entry function")

	// ErrNilTask is returned by operations on a nil task handle.
	ErrNilTask = errors.New("eos: nil task")

	// ErrIdleTask is returned by Pause for the built-in idle task, which
	// must always remain dispatchable.
	ErrIdleTask = errors.New("eos: idle task cannot be paused")

	// ErrTaskPaused is returned by Pause when the task is already paused.
	ErrTaskPaused = errors.New("eos: task already paused")

	// ErrTaskNotPaused is returned by Resume when the task is not paused.
	ErrTaskNotPaused = errors.New("eos: task not paused")

	// ErrSemaphoreFull is returned by Release when the count is already at
	// its ceiling. The count is unchanged.
	ErrSemaphoreFull = errors.New("eos: semaphore at ceiling")

	// ErrInvalidCapacity is returned by queue creation for a zero capacity.
	ErrInvalidCapacity = errors.New("eos: invalid queue capacity")

	// ErrInvalidItemSize is returned by queue creation for a zero item size.
	ErrInvalidItemSize = errors.New("eos: invalid queue item size")

	// ErrItemSize is returned by queue put/get when the provided buffer does
	// not match the queue's item size.
	ErrItemSize = errors.New("eos: item buffer does not match item size")

	// ErrNilPort is returned by New when no port is provided.
	ErrNilPort = errors.New("eos: nil port")

	// ErrInvalidQuantum is returned by WithQuantum for a zero quantum.
	ErrInvalidQuantum = errors.New("eos: invalid quantum")

	// ErrAlreadyRunning is returned when Run is called on a kernel or machine
	// that is already running.
	ErrAlreadyRunning = errors.New("eos: already running")

	// ErrPortNotRunnable is returned by Kernel.Run when the configured port
	// does not own task execution (it does not implement Host).
	ErrPortNotRunnable = errors.New("eos: port does not own task execution")

	// ErrNoKernel is returned by Machine.Run when no kernel has been bound to
	// the machine (the machine must be passed to New first).
	ErrNoKernel = errors.New("eos: machine has no kernel bound")
)
