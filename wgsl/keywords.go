// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import "strings"

// UnnamedIdentifier is the default name for empty identifiers.
const UnnamedIdentifier = "_unnamed"

// reservedKeywords contains WGSL keywords, reserved words and the predeclared
// type names that would be shadowed by a user declaration.
var reservedKeywords = func() map[string]struct{} {
	words := []string{
		// Keywords
		"alias", "break", "case", "const", "const_assert", "continue", "continuing",
		"default", "diagnostic", "discard", "else", "enable", "false", "fn", "for",
		"if", "let", "loop", "override", "requires", "return", "struct", "switch",
		"true", "var", "while",

		// Reserved words
		"NULL", "Self", "abstract", "active", "alignas", "alignof", "as", "asm",
		"asm_fragment", "async", "attribute", "auto", "await", "become", "binding_array",
		"cast", "catch", "class", "co_await", "co_return", "co_yield", "coherent",
		"column_major", "common", "compile", "compile_fragment", "concept", "const_cast",
		"consteval", "constexpr", "constinit", "crate", "debugger", "decltype", "delete",
		"demote", "demote_to_helper", "do", "dynamic_cast", "enum", "explicit", "export",
		"extends", "extern", "external", "fallthrough", "filter", "final", "finally",
		"friend", "from", "fxgroup", "get", "goto", "groupshared", "highp", "impl",
		"implements", "import", "inline", "instanceof", "interface", "layout", "lowp",
		"macro", "macro_rules", "match", "mediump", "meta", "mod", "module", "move",
		"mut", "mutable", "namespace", "new", "nil", "noexcept", "noinline",
		"nointerpolation", "non_coherent", "noncoherent", "noperspective", "null",
		"nullptr", "of", "operator", "package", "packoffset", "partition", "pass",
		"patch", "pixelfragment", "precise", "precision", "premerge", "priv",
		"protected", "pub", "public", "readonly", "ref", "regardless", "register",
		"reinterpret_cast", "require", "resource", "restrict", "self", "set", "shared",
		"sizeof", "smooth", "snorm", "static", "static_assert", "static_cast", "std",
		"subroutine", "super", "target", "template", "this", "thread_local", "throw",
		"trait", "try", "type", "typedef", "typeid", "typename", "typeof", "union",
		"unless", "unorm", "unsafe", "unsized", "use", "using", "varying", "virtual",
		"volatile", "wgsl", "where", "with", "writeonly", "yield",

		// Predeclared types
		"bool", "f16", "f32", "i32", "u32", "i64", "u64", "vec2", "vec3", "vec4",
		"mat2x2", "mat2x3", "mat2x4", "mat3x2", "mat3x3", "mat3x4", "mat4x2", "mat4x3",
		"mat4x4", "array", "atomic", "ptr", "sampler", "sampler_comparison",

		// Builtins the backend emits by name
		"bitcast", "select", "arrayLength", "storageBarrier", "workgroupBarrier",
	}
	result := make(map[string]struct{}, len(words))
	for _, w := range words {
		result[w] = struct{}{}
	}
	return result
}()

// IsReserved checks if a name is a WGSL keyword or reserved word.
func IsReserved(name string) bool {
	_, ok := reservedKeywords[name]
	return ok
}

// Escape returns a valid WGSL identifier for name.
// Characters outside [A-Za-z0-9_] become underscores; reserved words, names
// starting with a digit and names with a double-underscore prefix are prefixed.
func Escape(name string) string {
	if name == "" {
		return UnnamedIdentifier
	}
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	switch {
	case strings.HasPrefix(sanitized, "__"):
		return "v" + sanitized
	case sanitized == "_":
		return UnnamedIdentifier
	case sanitized[0] >= '0' && sanitized[0] <= '9', IsReserved(sanitized):
		return "_" + sanitized
	}
	return sanitized
}
