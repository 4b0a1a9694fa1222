// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package wgsl lowers the intermediate representation to WGSL (WebGPU
// Shading Language) source text.
//
// The Writer is an emit.Target: the shared emit engine walks the module and
// the Writer supplies every WGSL-specific spelling. Declarations use the
// "name : type" form, so array and pointer shapes never reach the
// declarator.
//
// # Usage
//
//	options := wgsl.DefaultOptions()
//	options.EntryPoint = "main"
//
//	source, info, err := wgsl.Compile(module, options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if info.Extensions.Has(wgsl.ExtensionF16) {
//	    // source starts with "enable f16;"
//	}
//
// # Lowering rules
//
//   - Matrix types keep their column-major axes: MatrixType{Columns: 4, Rows: 3}
//     is mat4x3. Products involving a matrix swap their operands.
//   - Structured buffers are declared as var<storage> arrays and referenced
//     as (&name).
//   - Signed shift amounts are reinterpreted: ((a) << bitcast<u32>(b)).
//   - Members of laid out structs carry @align. Stage IO carries @builtin,
//     @location and @interpolate.
//   - f16 anywhere in the output adds "enable f16;" to the prologue.
//
// # Errors
//
// Every failure is fatal for the module and is reported as an *Error whose
// Kind tells types WGSL cannot express (f64, 8- and 16-bit integers) apart
// from unsupported constructs, declarator shapes and malformed input.
//
// The syntax subpackage parses the emitted subset of WGSL back and is used
// to check generated output.
package wgsl
