package syntax

import (
	"fmt"
	"strings"
)

// Error is a lexing or parsing error at a source position.
type Error struct {
	Pos     Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// FormatWithContext returns the error followed by the offending source line
// and a caret under the error column.
func (e *Error) FormatWithContext(source string) string {
	lines := strings.Split(source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return e.Error()
	}
	line := lines[e.Pos.Line-1]
	col := min(max(e.Pos.Column, 1), len(line)+1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", e.Pos.Line, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", e.Pos.Line, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}

func errorAt(tok Token, format string, args ...any) *Error {
	return &Error{Pos: tok.Pos(), Message: fmt.Sprintf(format, args...)}
}
