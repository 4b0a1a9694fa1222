package emit

import "fmt"

// unnamedIdentifier replaces empty base names.
const unnamedIdentifier = "_unnamed"

// namer generates unique identifiers for one module.
// Names are compared case-sensitively.
type namer struct {
	// usedNames tracks names that have been handed out or reserved.
	usedNames map[string]struct{}

	// counter is used to generate unique suffixes.
	counter uint32

	// escape rewrites names that collide with target keywords.
	escape func(string) string
}

// newNamer creates a namer that escapes names with escape.
func newNamer(escape func(string) string) *namer {
	if escape == nil {
		escape = func(name string) string { return name }
	}
	return &namer{
		usedNames: make(map[string]struct{}),
		escape:    escape,
	}
}

// call generates a unique name based on the given base.
// It escapes reserved keywords and adds numeric suffixes if needed.
func (n *namer) call(base string) string {
	if base == "" {
		base = unnamedIdentifier
	}

	escaped := n.escape(base)
	if !n.isUsed(escaped) {
		n.usedNames[escaped] = struct{}{}
		return escaped
	}

	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", escaped, n.counter)
		if !n.isUsed(candidate) {
			n.usedNames[candidate] = struct{}{}
			return candidate
		}
	}
}

// isUsed checks if a name has already been used.
func (n *namer) isUsed(name string) bool {
	_, used := n.usedNames[name]
	return used
}

// reserve marks a name as used without returning it.
func (n *namer) reserve(name string) {
	n.usedNames[name] = struct{}{}
}
