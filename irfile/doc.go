// Package irfile loads IR modules from YAML documents.
//
// A document mirrors the shape of ir.Module: arenas of types, constants,
// globals and functions referenced by index, plus entry points. Every node
// that stands for a tagged IR variant holds exactly one key naming the
// variant:
//
//	types:
//	  - scalar: f32
//	  - vector: {size: 4, scalar: f32}
//	functions:
//	  - name: main
//	    expressions:
//	      - literal: {type: f32, value: 1.5}
//	      - splat: {size: 4, value: 0}
//	    body:
//	      - emit: [1, 2]
//	      - return: {value: 1}
//
// Documents are checked against an embedded JSON schema before decoding, so
// shape errors are reported with their location in the document. Handle
// ranges and type rules are left to ir.Validate and the backends.
package irfile
