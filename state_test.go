package eos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriority_String(t *testing.T) {
	t.Parallel()

	for want, p := range map[string]Priority{
		"idle":    PriorityIdle,
		"low":     PriorityLow,
		"medium":  PriorityMedium,
		"high":    PriorityHigh,
		"invalid": PriorityHigh + 1,
	} {
		assert.Equal(t, want, p.String())
	}
}

func TestWaitState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "runnable", waitState{}.String())
	assert.Equal(t, "timed", waitDelay().String())
	assert.Equal(t, "blocked", waitOn(new(int)).String())
	assert.Equal(t, "invalid", waitState{kind: 0xFF}.String())
}
