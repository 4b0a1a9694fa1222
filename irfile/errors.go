package irfile

import (
	"errors"
	"strconv"
)

// Error reports a document that cannot be turned into a module.
type Error struct {
	// Path locates the offending node, e.g. "functions[0].body[2]".
	Path string

	// Message provides details about the error.
	Message string

	// Err is the underlying parser or schema error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	if e.Path == "" {
		return "irfile: " + msg
	}
	return "irfile: " + e.Path + ": " + msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// at prefixes the path of err with segment.
func at(segment string, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Path: segment, Err: err}
	}
	if e.Path == "" {
		e.Path = segment
	} else if e.Path[0] == '[' {
		e.Path = segment + e.Path
	} else {
		e.Path = segment + "." + e.Path
	}
	return e
}

func index(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

func quote(s string) string {
	return strconv.Quote(s)
}
