package builtins

import (
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/term"
)

func hostCall(e *env.Environment, action string, hargs ...term.Object) []machine.Cont {
	return []machine.Cont{&machine.HostCont{Frame: machine.Frame{Env: e}, Action: action, Args: hargs}}
}

// Self implements (self), yielding to the host for the running
// process's own PID (spec §4.6).
var Self = fexpr("self", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 0 {
		return nil, term.ArityError{Name: "self", Want: 0, Got: args.Len()}
	}
	return hostCall(e, machine.ActionProcSelf), nil
})

// Spawn implements (spawn expr): expr is evaluated to a zero-argument
// callable that becomes the new process's entry point; the scheduler
// gives the new process a snapshot copy of the spawning environment,
// never a shared one.
var Spawn = fexpr("spawn", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 1 {
		return nil, term.ArityError{Name: "spawn", Want: 1, Got: args.Len()}
	}
	fn, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	return hostCall(e, machine.ActionProcSpawn, fn), nil
})

// Send implements (send pid msg), delivering msg to pid's mailbox.
var Send = fexpr("send", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 2 {
		return nil, term.ArityError{Name: "send", Want: 2, Got: args.Len()}
	}
	pid, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	msg, err := m.Eval(nth(args, 1), e)
	if err != nil {
		return nil, err
	}
	return hostCall(e, machine.ActionProcSend, pid, msg), nil
})

// Recv implements (recv) or (recv timeoutMs): blocks the calling
// process until a message arrives or the optional timeout elapses.
var Recv = fexpr("recv", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() > 1 {
		return nil, term.ArityError{Name: "recv", Want: 1, Got: args.Len()}
	}
	if args.Len() == 0 {
		return hostCall(e, machine.ActionProcRecv), nil
	}
	timeout, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	return hostCall(e, machine.ActionProcRecv, timeout), nil
})

// IsAlive implements (is-alive? pid).
var IsAlive = fexpr("is-alive?", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 1 {
		return nil, term.ArityError{Name: "is-alive?", Want: 1, Got: args.Len()}
	}
	pid, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	return hostCall(e, machine.ActionProcAlive, pid), nil
})

// Kill implements (kill pid).
var Kill = fexpr("kill", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 1 {
		return nil, term.ArityError{Name: "kill", Want: 1, Got: args.Len()}
	}
	pid, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	return hostCall(e, machine.ActionProcKill, pid), nil
})

// Processes implements (processes), listing every live PID.
var Processes = fexpr("processes", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 0 {
		return nil, term.ArityError{Name: "processes", Want: 0, Got: args.Len()}
	}
	return hostCall(e, machine.ActionProcList), nil
})
