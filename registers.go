package eos

// Registers models the ARMv7-M register file as seen by the context-switch
// machinery: the general-purpose registers, the banked stack pointers, and
// the optional floating-point extension registers.
//
// Stack pointers are word indices into the current task's stack slice
// rather than byte addresses; the simulated machine has no flat address
// space, and the frame contract only ever moves the pointer in whole words.
type Registers struct {
	// R holds R0-R12. R0-R3 and R12 are caller-saved (pushed by hardware on
	// exception entry); R4-R11 are callee-saved (pushed by the switch
	// handler).
	R [13]uint32

	// LR is the link register (R14).
	LR uint32
	// PC is the program counter (R15).
	PC uint32
	// XPSR is the program status register; bit 24 is the thumb state bit.
	XPSR uint32

	// MSP is the main stack pointer, active in handler mode.
	MSP uint32
	// PSP is the process stack pointer, active in thread mode once CONTROL
	// selects it.
	PSP uint32

	// CONTROL holds the special control register; see controlSPSEL and
	// controlFPCA.
	CONTROL uint32

	// S holds the single-precision FP registers S0-S31 as raw bit patterns.
	// S0-S15 are caller-saved, S16-S31 callee-saved.
	S [32]uint32
	// FPSCR is the floating-point status and control register.
	FPSCR uint32
}

const (
	// controlSPSEL selects the process stack pointer in thread mode.
	controlSPSEL = 0x2
	// controlFPCA indicates the floating-point context is active.
	controlFPCA = 0x4
)

// fpActive reports whether the floating-point context is active, i.e.
// whether exception frames include the FP registers.
func (r *Registers) fpActive() bool {
	return r.CONTROL&controlFPCA != 0
}

// pushHardwareFrame models the exception-entry push of the caller-saved
// registers (and, with an active FP context, the FP caller-saved set) onto
// the preempted task's stack.
func (r *Registers) pushHardwareFrame(t *Task) {
	fp := r.fpActive()
	sp := r.PSP - hwWords(fp)
	st := t.stack[sp:]

	copy(st[:4], r.R[:4]) // R0-R3
	st[4] = r.R[12]
	st[5] = r.LR
	st[6] = r.PC
	st[7] = r.XPSR
	if fp {
		copy(st[8:24], r.S[:16]) // S0-S15
		st[24] = r.FPSCR
		st[25] = 0
	}
	r.PSP = sp
}

// popHardwareFrame models the exception-return pop. The frame shape comes
// from the exception-return value the kernel left in LR.
func (r *Registers) popHardwareFrame(t *Task) {
	fp := r.LR&excReturnFrameBit == 0
	st := t.stack[r.PSP:]

	copy(r.R[:4], st[:4]) // R0-R3
	r.R[12] = st[4]
	r.LR = st[5]
	r.PC = st[6]
	r.XPSR = st[7]
	if fp {
		copy(r.S[:16], st[8:24]) // S0-S15
		r.FPSCR = st[24]
	}
	r.PSP += hwWords(fp)
}
