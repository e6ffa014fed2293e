// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package eos

import (
	"github.com/joeycumines/logiface"
)

// kernelOptions holds configuration options for Kernel creation.
type kernelOptions struct {
	logger         *logiface.Logger[logiface.Event]
	quantum        uint32
	idleStackWords int
}

// --- Kernel Options ---

// Option configures a Kernel instance.
type Option interface {
	applyKernel(*kernelOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyKernelFunc func(*kernelOptions) error
}

func (x *optionImpl) applyKernel(opts *kernelOptions) error {
	return x.applyKernelFunc(opts)
}

// WithQuantum sets the number of tick periods between forced reschedules.
// The default is 1 (a reschedule on every tick). Zero is rejected.
func WithQuantum(ticks uint32) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		if ticks == 0 {
			return ErrInvalidQuantum
		}
		opts.quantum = ticks
		return nil
	}}
}

// WithLogger sets the kernel's structured logger. A nil logger (the
// default) disables logging at negligible cost.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithIdleStackWords sets the stack size, in words, of the built-in idle
// task. The default is MinStackWords.
func WithIdleStackWords(words int) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		if words < MinStackWords {
			return ErrStackTooSmall
		}
		opts.idleStackWords = words
		return nil
	}}
}

// resolveOptions applies Option instances to kernelOptions.
func resolveOptions(opts []Option) (*kernelOptions, error) {
	cfg := &kernelOptions{
		quantum:        1,
		idleStackWords: MinStackWords,
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyKernel(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
