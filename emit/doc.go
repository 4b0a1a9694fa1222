// Package emit is the generic engine shared by textual shading-language backends.
//
// An Emitter walks an ir.Module in a fixed order (structs, constants, globals,
// functions) and writes text through an Output. At every construct it first
// asks its Target: a target either renders the construct itself or falls back
// to the C-like default, which it can reach through the Emitter's Default
// methods.
//
// Operator parenthesization is driven by OpInfo pairs that are threaded through
// every operand call, see LeftSide, RightSide and NeedsParens. Declarations are
// built from Declarator chains.
//
// Basic usage from a backend:
//
//	w := &Writer{}
//	w.em = emit.New(module, w)
//	source, err := w.em.EmitModule()
package emit
