// logging.go - Structured logging for the kernel.
//
// The kernel logs through logiface, the same facade used across the rest of
// the module family. A nil logger is the default and is safe: every builder
// method on a nil logiface.Logger is a no-op, so hot paths pay only a nil
// check when logging is disabled.
//
// Level usage:
//   - info: kernel start, task creation
//   - debug: primitive creation, pause/resume
//   - trace: block, wake, context switch (high volume)

package eos

import (
	"github.com/joeycumines/logiface"
)

// logger returns the kernel's configured logger, which may be nil (logiface
// treats a nil logger as disabled).
func (k *Kernel) logger() *logiface.Logger[logiface.Event] {
	return k.log
}

// taskField appends the standard task identification fields.
func taskField(b *logiface.Builder[logiface.Event], key string, t *Task) *logiface.Builder[logiface.Event] {
	if t == nil {
		return b.Str(key, "<nil>")
	}
	if t.name != "" {
		return b.Str(key, t.name)
	}
	return b.Uint64(key, uint64(t.id))
}
