// Package ir defines the intermediate representation consumed by wgslgen.
//
// The IR is a handle-based arena:
//   - Types: all type definitions, referenced by TypeHandle
//   - Constants: module-scope constant values
//   - GlobalVariables: module-scope variables and shader parameters, with layout decorations
//   - Functions: function definitions, each owning an expression arena
//   - EntryPoints: shader entry points with stage information
//
// # Decorations
//
// Layout is resolved upstream. Globals carry resource-kind tagged
// (offset, space) pairs, structs carry an optional size/alignment pair and
// members carry offsets. Backends consume these numbers and never allocate them.
//
// # Matrices
//
// MatrixType dimensions are column-major while multiplication keeps the
// source operand order. See MatrixType.
package ir
