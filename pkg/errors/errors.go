// Package errors annotates errors with the place where they were wrapped.
//
//	wrapped := xe.Wrap(err)
//
// The message of wrapped errors reads like
//
//	@ pkg.Func "file.go" l42 <- @ pkg.Inner "inner.go" l10 <- original message
//
// and Trace gives the same chain as a list, outermost first.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

type ErrWithCaller struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *ErrWithCaller) File() string {
	return e.file
}

func (e *ErrWithCaller) Line() int {
	return e.line
}

func (e *ErrWithCaller) Func() string {
	return e.funcname
}

// location of this wrapper, without the wrapped message.
func (e *ErrWithCaller) Location() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d`, e.funcname, e.file, e.line)
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s)`, e.funcname, e.file, e.line, e.note)
}

func (e *ErrWithCaller) Error() string {
	return e.Location() + " <- " + e.err.Error()
}

func (e *ErrWithCaller) Unwrap() error {
	return e.err
}

func New(text string) error {
	return wrap("", errors.New(text), 1)
}

func Errorf(format string, args ...any) error {
	return wrap("", fmt.Errorf(format, args...), 1)
}

// Wrap err with the location of the caller.
//
// nil is passed through.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return wrap("", err, 1)
}

func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return wrap(note, err, 1)
}

// Trace lists locations recorded in err, outermost first.
func Trace(err error) []string {
	trace := []string{}
	for err != nil {
		if ewc, ok := err.(*ErrWithCaller); ok {
			trace = append(trace, ewc.Location())
		}
		err = errors.Unwrap(err)
	}
	return trace
}

func wrap(note string, err error, depth int) error {
	pc, file, line, ok := runtime.Caller(depth + 1)
	funcname := "(unknown func)"
	if !ok {
		file = "?"
		line = -1
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcname = fn.Name()
	}

	return &ErrWithCaller{
		funcname: funcname,
		file:     file,
		line:     line,
		note:     note,
		err:      err,
	}
}
