package eos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unblockToken(k *Kernel, token any) *Task {
	k.enterCritical()
	woken := k.unblock(token)
	k.exitCritical()
	return woken
}

func TestUnblock_wakesHighestPriorityWaiter(t *testing.T) {
	t.Parallel()

	k, _ := newTestKernel(t)
	low := mustTask(t, k, PriorityLow, "low")
	high := mustTask(t, k, PriorityHigh, "high")
	med := mustTask(t, k, PriorityMedium, "med")

	tok := new(int)
	setBlocked(k, low, tok)
	setBlocked(k, high, tok)
	setBlocked(k, med, tok)

	woken := unblockToken(k, tok)
	require.Same(t, high, woken)
	assert.Equal(t, waitNone, high.wait.kind)
	assert.Equal(t, waitObject, low.wait.kind, "only one waiter per call")
	assert.Equal(t, waitObject, med.wait.kind)
}

func TestUnblock_tieBreaksByRingOrderFromCurrent(t *testing.T) {
	t.Parallel()

	k, _ := newTestKernel(t)
	a := mustTask(t, k, PriorityMedium, "a")
	b := mustTask(t, k, PriorityMedium, "b")

	tok := new(int)
	setBlocked(k, a, tok)
	setBlocked(k, b, tok)

	// current is idle; the walk starts at idle.next, so a is encountered
	// first and wins the tie.
	require.Same(t, a, unblockToken(k, tok))
	require.Same(t, b, unblockToken(k, tok))
	assert.Nil(t, unblockToken(k, tok), "no waiters left")
}

func TestUnblock_tokensPartitionWaiters(t *testing.T) {
	t.Parallel()

	k, _ := newTestKernel(t)
	a := mustTask(t, k, PriorityMedium, "a")
	b := mustTask(t, k, PriorityMedium, "b")

	tok1, tok2 := new(int), new(int)
	setBlocked(k, a, tok1)
	setBlocked(k, b, tok2)

	require.Nil(t, unblockToken(k, new(int)), "unknown token wakes nobody")
	require.Same(t, b, unblockToken(k, tok2))
	assert.Equal(t, waitObject, a.wait.kind, "distinct token untouched")
}

func TestUnblock_ignoresTimedWaiters(t *testing.T) {
	t.Parallel()

	k, _ := newTestKernel(t)
	task := mustTask(t, k, PriorityMedium, "")
	fakeBegin(t, k)
	k.Delay(5)

	assert.Nil(t, unblockToken(k, new(int)))
	assert.Equal(t, waitTimed, task.wait.kind)
}

func TestUnblock_selectsPausedWaiter(t *testing.T) {
	t.Parallel()

	// Pausing does not exclude a waiter from selection; the winner becomes
	// runnable-but-paused and is dispatched after resume.
	k, _ := newTestKernel(t)
	task := mustTask(t, k, PriorityMedium, "")

	tok := new(int)
	setBlocked(k, task, tok)
	require.NoError(t, k.Pause(task))

	woken := unblockToken(k, tok)
	require.Same(t, task, woken)
	assert.Equal(t, waitNone, task.wait.kind)
	assert.True(t, task.paused)
	assert.Same(t, k.idle, schedule(k), "not dispatchable until resumed")
}

func TestWakePreempts(t *testing.T) {
	t.Parallel()

	k, _ := newTestKernel(t)
	low := mustTask(t, k, PriorityLow, "low")
	high := mustTask(t, k, PriorityHigh, "high")

	k.current = low
	assert.True(t, k.wakePreempts(high))
	assert.False(t, k.wakePreempts(low), "equal priority does not preempt")
	assert.False(t, k.wakePreempts(nil))

	high.paused = true
	assert.False(t, k.wakePreempts(high), "paused winner cannot run yet")
}
