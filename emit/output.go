package emit

import (
	"fmt"
	"strings"
)

// indentUnit is one level of indentation.
const indentUnit = "    "

// Output is the append-only text sink of one emission.
//
// The body and the prologue are buffered separately. The prologue is only
// known once the body is complete and is prepended by String.
type Output struct {
	body     strings.Builder
	prologue strings.Builder
	indent   int
}

// Write appends s to the body.
func (o *Output) Write(s string) {
	o.body.WriteString(s)
}

// Writef appends formatted text to the body.
func (o *Output) Writef(format string, args ...any) {
	fmt.Fprintf(&o.body, format, args...)
}

// WriteLine writes an indented line followed by a newline.
//
//nolint:goprintffuncname
func (o *Output) WriteLine(format string, args ...any) {
	o.WriteIndent()
	if len(args) == 0 {
		o.body.WriteString(format)
	} else {
		fmt.Fprintf(&o.body, format, args...)
	}
	o.body.WriteByte('\n')
}

// WriteIndent writes the current indentation.
func (o *Output) WriteIndent() {
	for i := 0; i < o.indent; i++ {
		o.body.WriteString(indentUnit)
	}
}

// PushIndent increases indentation.
func (o *Output) PushIndent() {
	o.indent++
}

// PopIndent decreases indentation.
func (o *Output) PopIndent() {
	if o.indent > 0 {
		o.indent--
	}
}

// WritePrologue appends s to the prologue.
func (o *Output) WritePrologue(s string) {
	o.prologue.WriteString(s)
}

// Len returns the length of the body written so far.
func (o *Output) Len() int {
	return o.body.Len()
}

// String returns the prologue followed by the body.
func (o *Output) String() string {
	return o.prologue.String() + o.body.String()
}
