// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"errors"

	"github.com/google/uuid"

	"github.com/gogpu/wgslgen/emit"
	"github.com/gogpu/wgslgen/ir"
)

// Options configures WGSL code generation.
type Options struct {
	// EntryPoint restricts output to one entry point.
	// If empty, every entry point is emitted.
	EntryPoint string

	// PointerWidth is the size in bytes of pointer-sized integer literals
	// on the target: 8 selects i64/u64, 4 selects i32/u32.
	// Zero means 8.
	PointerWidth uint8
}

// DefaultOptions returns options for a 64-bit target emitting all entry points.
func DefaultOptions() *Options {
	return &Options{PointerWidth: 8}
}

// TranslationInfo contains metadata about the WGSL translation.
type TranslationInfo struct {
	// EntryPointNames maps original entry point names to generated names.
	EntryPointNames map[string]string

	// Extensions lists the enable directives written to the prologue.
	Extensions Extension

	// MalformedConstants counts constants emitted without type information.
	MalformedConstants int

	// SessionID identifies the emission session.
	SessionID uuid.UUID
}

// Writer lowers one IR module to WGSL. It implements emit.Target.
type Writer struct {
	em      *emit.Emitter
	module  *ir.Module
	options *Options
	session *session
}

// NewWriter creates a writer with a fresh session. The writer keeps its
// own copy of options.
func NewWriter(module *ir.Module, options *Options) *Writer {
	opts := *DefaultOptions()
	if options != nil {
		opts = *options
	}
	if opts.PointerWidth == 0 {
		opts.PointerWidth = 8
	}
	w := &Writer{
		module:  module,
		options: &opts,
		session: newSession(),
	}
	w.em = emit.New(module, w)
	return w
}

// Compile generates WGSL source code from an IR module.
// On error no partial output is returned.
func Compile(module *ir.Module, options *Options) (string, *TranslationInfo, error) {
	if module == nil {
		return "", nil, NewError(ErrInvalidModule, "module is nil")
	}
	return NewWriter(module, options).Write()
}

// Write emits the module. A Writer can be written once.
func (w *Writer) Write() (string, *TranslationInfo, error) {
	switch w.options.PointerWidth {
	case 4, 8:
	default:
		return "", nil, errorf(ErrUnsupportedConstruct, "pointer width %d", w.options.PointerWidth)
	}

	if w.options.EntryPoint != "" {
		if err := w.em.SelectEntryPoint(w.options.EntryPoint); err != nil {
			return "", nil, NewError(ErrInvalidModule, err.Error())
		}
	}

	source, err := w.em.EmitModule()
	if err != nil {
		return "", nil, wrapError(err)
	}

	info := &TranslationInfo{
		EntryPointNames:    w.em.EntryPointNames(),
		Extensions:         w.session.extensions,
		MalformedConstants: w.session.malformedConstants,
		SessionID:          w.session.id,
	}
	return source, info, nil
}

// wrapError keeps typed errors and classifies framework errors as invalid modules.
func wrapError(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: ErrInvalidModule, Message: err.Error()}
}

func (w *Writer) out() *emit.Output {
	return w.em.Out()
}

// Unsupportedf implements emit.Target.
func (w *Writer) Unsupportedf(format string, args ...any) error {
	return errorf(ErrUnsupportedConstruct, format, args...)
}

// Escape implements emit.Target.
func (w *Writer) Escape(name string) string {
	return Escape(name)
}

// EmitPrologue implements emit.Target. It writes the enable directives.
func (w *Writer) EmitPrologue() error {
	ext, err := w.session.takeExtensions()
	if err != nil {
		return err
	}
	if ext.Has(ExtensionF16) {
		w.out().WritePrologue("enable f16;\n\n")
	}
	return nil
}

// typeInner resolves a type handle, reporting bad handles as invalid modules.
func (w *Writer) typeInner(ty ir.TypeHandle) (ir.TypeInner, error) {
	inner, err := w.em.TypeInner(ty)
	if err != nil {
		return nil, NewError(ErrInvalidModule, err.Error())
	}
	return inner, nil
}

var _ emit.Target = (*Writer)(nil)
