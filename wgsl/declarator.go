// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import "github.com/gogpu/wgslgen/emit"

// EmitDeclarator implements emit.Target. Only names and attributes have a
// WGSL spelling; array and pointer shapes must already be in the type.
func (w *Writer) EmitDeclarator(decl *emit.Declarator) error {
	for ; decl != nil; decl = decl.Next {
		switch decl.Kind {
		case emit.DeclName:
			w.out().Write(decl.Name)
			return nil
		case emit.DeclAttributed:
			for _, attr := range decl.Attributes {
				w.out().Write(attr + " ")
			}
		default:
			return errorf(ErrUnexpectedDeclaratorShape, "%s declarator", decl.Kind)
		}
	}
	return nil
}
