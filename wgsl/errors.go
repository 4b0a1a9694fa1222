// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes WGSL lowering errors. Every kind is fatal for the
// module being compiled.
type ErrorKind uint8

const (
	// ErrUnrepresentableType indicates a numeric type WGSL cannot express,
	// such as f64 or 8- and 16-bit integers.
	ErrUnrepresentableType ErrorKind = iota

	// ErrUnsupportedConstruct indicates an instruction, stage or layout shape
	// with no valid WGSL rendering.
	ErrUnsupportedConstruct

	// ErrUnexpectedDeclaratorShape indicates an array, pointer or reference
	// declarator reached the backend. WGSL spells those in the type.
	ErrUnexpectedDeclaratorShape

	// ErrInvalidModule indicates the IR module is malformed.
	ErrInvalidModule
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnrepresentableType:
		return "UnrepresentableType"
	case ErrUnsupportedConstruct:
		return "UnsupportedConstruct"
	case ErrUnexpectedDeclaratorShape:
		return "UnexpectedDeclaratorShape"
	case ErrInvalidModule:
		return "InvalidModule"
	default:
		return "Unknown"
	}
}

// Error represents a WGSL lowering error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("wgsl %s: %s", e.Kind, e.Message)
}

// NewError creates a new WGSL error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsUnrepresentableType reports whether err carries ErrUnrepresentableType.
func IsUnrepresentableType(err error) bool {
	return hasKind(err, ErrUnrepresentableType)
}

// IsUnsupportedConstruct reports whether err carries ErrUnsupportedConstruct.
func IsUnsupportedConstruct(err error) bool {
	return hasKind(err, ErrUnsupportedConstruct)
}

// IsUnexpectedDeclaratorShape reports whether err carries ErrUnexpectedDeclaratorShape.
func IsUnexpectedDeclaratorShape(err error) bool {
	return hasKind(err, ErrUnexpectedDeclaratorShape)
}

// IsInvalidModule reports whether err carries ErrInvalidModule.
func IsInvalidModule(err error) bool {
	return hasKind(err, ErrInvalidModule)
}

func hasKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
