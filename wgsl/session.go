// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"strings"

	"github.com/google/uuid"
)

// Extension is a set of WGSL extensions the output must enable.
type Extension uint32

const (
	// ExtensionF16 enables the f16 type and h-suffixed literals.
	ExtensionF16 Extension = 1 << iota
)

// Has reports whether x contains ext.
func (x Extension) Has(ext Extension) bool {
	return x&ext != 0
}

// String returns the enable directive names in x.
func (x Extension) String() string {
	var names []string
	if x.Has(ExtensionF16) {
		names = append(names, "f16")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// session is the mutable state of one module's emission. Extension flags are
// only set during traversal and read once, when the prologue is written.
type session struct {
	id uuid.UUID

	extensions Extension
	flushed    bool

	// malformedConstants counts literals emitted without a type.
	malformedConstants int
}

func newSession() *session {
	return &session{id: uuid.New()}
}

func (s *session) require(ext Extension) {
	s.extensions |= ext
}

// takeExtensions returns the accumulated flags. It may be called once.
func (s *session) takeExtensions() (Extension, error) {
	if s.flushed {
		return 0, NewError(ErrInvalidModule, "extension flags already flushed")
	}
	s.flushed = true
	return s.extensions, nil
}

func (s *session) noteMalformedConstant() {
	s.malformedConstants++
}
