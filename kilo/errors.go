package kilo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoImage is raised by SUSPEND when no image writer is installed.
var ErrNoImage = errors.New("SUSPEND: no image writer")

// SyntaxError represents a malformed token sequence.
type SyntaxError struct {
	Message    string
	Line       int    // 1-based line of the offending token
	Col        int    // 1-based column of the offending token
	Text       string // the source line
	Incomplete bool   // the input ended inside a form
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s -- %d:%d: %s",
		err.Message, err.Line, err.Col, strings.TrimSpace(err.Text))
}

// IsIncomplete returns true if err reports an input which ended in the
// middle of a form, i.e. more input could complete it.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.Incomplete
}

// UnboundError represents a reference to an atom bound in no frame.
type UnboundError struct {
	Sym *Sym
}

func (err *UnboundError) Error() string {
	return "unbound symbol: " + err.Sym.Name
}

// TypeError represents a value outside the shape an operation accepts.
type TypeError struct {
	Op    string
	Want  string
	Value Any
}

func (err *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s: %s", err.Op, err.Want, Str(err.Value))
}

// ArityError represents a call with the wrong number of arguments.
type ArityError struct {
	Name     string
	Want     int
	Variadic bool // Want is a minimum
	Got      int
}

func (err *ArityError) Error() string {
	more := ""
	if err.Variadic {
		more = " or more"
	}
	return fmt.Sprintf("%s: wrong number of arguments: want %d%s, got %d",
		err.Name, err.Want, more, err.Got)
}

// UserError is raised by ERROR and carries its payload unmodified.
type UserError struct {
	Payload Any
}

func (err *UserError) Error() string {
	return "error: " + Str2(err.Payload, false)
}

// LoadError annotates the first failing form of a loaded source.
type LoadError struct {
	Path string
	Form int // 1-based index of the failing form
	Line int // line on which the failing form started
	Err  error
}

func (err *LoadError) Error() string {
	return fmt.Sprintf("%s: form %d (line %d): %v",
		err.Path, err.Form, err.Line, err.Err)
}

func (err *LoadError) Unwrap() error {
	return err.Err
}
