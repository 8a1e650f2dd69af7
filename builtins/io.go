package builtins

import (
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/term"
)

// Print implements (print v...): writes each argument's display form to
// the host's standard output, without a trailing newline, yielding to
// the host for the actual I/O the way the machine's own notes require
// (the machine never touches a file descriptor itself).
var Print = fexpr("print", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	vals := make([]term.Object, 0, args.Len())
	for _, a := range args.Values() {
		v, err := m.Eval(a, e)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	vals = append(vals, term.Bool(false))
	return hostCall(e, machine.ActionIOPrint, vals...), nil
})

// Say implements (say v...): like print, with a trailing newline; the
// host dispatcher treats a final Bool argument as the newline flag, so
// print passes Bool(false) and say passes Bool(true) after the values.
var Say = fexpr("say", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	vals := make([]term.Object, 0, args.Len()+1)
	for _, a := range args.Values() {
		v, err := m.Eval(a, e)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	vals = append(vals, term.Bool(true))
	return hostCall(e, machine.ActionIOPrint, vals...), nil
})

// Readline implements (readline): reads one line of input from the
// host, returning it as a Str (without its trailing newline).
var Readline = fexpr("readline", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 0 {
		return nil, term.ArityError{Name: "readline", Want: 0, Got: args.Len()}
	}
	return hostCall(e, machine.ActionIOReadline), nil
})
