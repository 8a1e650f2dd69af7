// Package host implements the dispatcher that resolves Host
// continuations: the machine's only way to reach the outside world
// (console I/O, the REPL loop, and every process:: operation), per
// spec.md §4.5-§4.6.
package host

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/process"
	"github.com/slight-lang/slight/term"
)

// Dispatcher owns the process scheduler and the console streams that
// Host continuations are ultimately satisfied against.
type Dispatcher struct {
	Scheduler  *process.Scheduler
	Out        io.Writer
	In         *bufio.Reader
	Logger     *slog.Logger
	NewMachine func() *machine.Machine
	pending    map[process.PID]*machine.HostCont
	results    map[process.PID]result
	awaited    map[process.PID]bool
}

// result records how a process's Drive call last ended, so a caller
// that initiated it (RunMain, for the root process) can recover the
// outcome even after it was resolved asynchronously by stepBackground,
// rather than only by its own immediate Drive call.
type result struct {
	outcome Outcome
	val     term.Object
}

// New builds a Dispatcher writing to out and reading from in.
func New(out io.Writer, in io.Reader, logger *slog.Logger, newMachine func() *machine.Machine) *Dispatcher {
	return &Dispatcher{
		Scheduler:  process.NewScheduler(),
		Out:        out,
		In:         bufio.NewReader(in),
		Logger:     logger,
		NewMachine: newMachine,
	}
}

// Outcome reports how a driven process ended.
type Outcome int

const (
	// Finished means the process hit SYS::exit (its queue ran dry).
	Finished Outcome = iota
	// Errored means an uncaught exception reached the top of the queue.
	Errored
	// Blocked means the process is waiting in recv with an empty
	// mailbox; Drive should move on to another runnable process.
	Blocked
)

// Drive steps m (belonging to pid) until it terminates, errors, or
// blocks in recv, handling every other Host action synchronously as it
// is encountered. result carries the exit value (Finished) or the
// uncaught exception (Errored).
func (d *Dispatcher) Drive(pid process.PID, m *machine.Machine, hc *machine.HostCont) (Outcome, term.Object) {
	for {
		switch hc.Action {
		case machine.ActionExit:
			var val term.Object = term.TheUnit
			if len(hc.Args) > 0 {
				val = hc.Args[len(hc.Args)-1]
			}
			return Finished, val
		case machine.ActionError:
			var val term.Object = term.TheUnit
			if len(hc.Args) > 0 {
				val = hc.Args[0]
			}
			if d.Logger != nil {
				d.Logger.Debug("uncaught exception", "pid", pid, "value", val)
			}
			return Errored, val
		case machine.ActionIOPrint:
			d.doPrint(hc.Args)
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: term.TheUnit}})
		case machine.ActionIOReadline:
			line, _ := d.In.ReadString('\n')
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: term.Str(trimNewline(line))}})
		case machine.ActionProcSelf:
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: pid}})
		case machine.ActionProcSpawn:
			childPID, childProc, initial := d.Scheduler.Spawn(hc.Args[0], hc.Env, d.NewMachine)
			childHC := childProc.Machine.Run(initial)
			outcome, _ := d.Drive(childPID, childProc.Machine, childHC)
			if outcome != Blocked {
				d.Scheduler.Kill(childPID)
			}
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: childPID}})
		case machine.ActionProcSend:
			target, _ := hc.Args[0].(process.PID)
			d.Scheduler.Deliver(target, hc.Args[1])
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: term.TheUnit}})
		case machine.ActionProcRecv:
			if msg, ok := d.Scheduler.TryReceive(pid); ok {
				d.Scheduler.SetWaiting(pid, false, time.Time{})
				hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: msg}})
				continue
			}
			var deadline time.Time
			if len(hc.Args) > 0 {
				if dur, ok := process.RecvTimeout(hc.Args[0]); ok {
					deadline = time.Now().Add(dur)
				}
			}
			d.Scheduler.SetWaiting(pid, true, deadline)
			if d.pending == nil {
				d.pending = map[process.PID]*machine.HostCont{}
			}
			d.pending[pid] = hc
			return Blocked, nil
		case machine.ActionProcAlive:
			target, _ := hc.Args[0].(process.PID)
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: term.Bool(d.Scheduler.IsAlive(target))}})
		case machine.ActionProcKill:
			target, _ := hc.Args[0].(process.PID)
			d.Scheduler.Kill(target)
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: term.TheUnit}})
		case machine.ActionProcList:
			pids := d.Scheduler.Processes()
			vals := make([]term.Object, len(pids))
			for i, p := range pids {
				vals[i] = p
			}
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: term.MakeList(vals...)}})
		default:
			hc = m.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: term.TheUnit}})
		}
	}
}

func (d *Dispatcher) doPrint(args []term.Object) {
	newline := false
	vals := args
	if n := len(args); n > 0 {
		if b, ok := args[n-1].(term.Bool); ok {
			newline = bool(b)
			vals = args[:n-1]
		}
	}
	for _, v := range vals {
		_, _ = term.Print(d.Out, v)
	}
	if newline {
		_, _ = fmt.Fprintln(d.Out)
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// RunMain evaluates one top-level form as the root process (registering
// it under pid on first use), waits out a blocking recv if the form
// hits one, then gives any other background process a chance to react
// to whatever messages or timeouts this form produced.
func (d *Dispatcher) RunMain(pid process.PID, m *machine.Machine, rootEnv *env.Environment, form term.Object) (term.Object, error) {
	if _, ok := d.Scheduler.Lookup(pid); !ok {
		d.Scheduler.Register(&process.Process{PID: pid, Machine: m, Env: rootEnv})
	}

	hc := m.RunTopLevel(form, rootEnv)
	outcome, val := d.Drive(pid, m, hc)
	if outcome == Blocked {
		outcome, val = d.await(pid)
	}
	d.drainBackground()
	switch outcome {
	case Errored:
		return nil, machine.ExceptionError{Exc: toException(val)}
	default:
		return val, nil
	}
}

// await services background processes, including pid itself once its
// pending recv is satisfied, until pid's own outcome is known. It is
// only reached when pid (almost always the root process) blocked in
// recv on its very first Drive call. pid is marked "awaited" for the
// duration, so resolve does not kill it the way it would a background
// process that has genuinely run to completion: RunMain's caller (the
// REPL or script loop) reuses the same root pid across many top-level
// forms, and a blocked recv resolving is this form finishing, not the
// actor dying.
func (d *Dispatcher) await(pid process.PID) (Outcome, term.Object) {
	if d.awaited == nil {
		d.awaited = map[process.PID]bool{}
	}
	d.awaited[pid] = true
	defer delete(d.awaited, pid)
	for {
		if r, ok := d.results[pid]; ok {
			delete(d.results, pid)
			return r.outcome, r.val
		}
		if d.stepBackground() {
			continue
		}
		next, ok := d.Scheduler.NextDeadline()
		if !ok {
			return Blocked, nil // every remaining process waits forever: genuine deadlock
		}
		if wait := time.Until(next); wait > 0 {
			time.Sleep(wait)
		}
	}
}

// drainBackground gives every pending background process a chance to
// react to messages or timeouts that became available while this form
// ran, without blocking RunMain on a deadline that belongs to some
// other, still-waiting process.
func (d *Dispatcher) drainBackground() {
	for d.stepBackground() {
	}
}

func toException(v term.Object) term.Exception {
	if exc, ok := v.(term.Exception); ok {
		return exc
	}
	return term.MakeThrow(v)
}

// stepBackground runs one round over every pending process: those with
// a message now waiting are redriven, and those whose recv timeout has
// passed are woken with Nil. A process that settles (Finished or
// Errored) has its result recorded in d.results and is killed. Reports
// whether anything progressed this round.
func (d *Dispatcher) stepBackground() bool {
	progressed := false
	for _, pid := range d.Scheduler.Processes() {
		p, ok := d.Scheduler.Lookup(pid)
		if !ok || !p.Runnable() {
			continue
		}
		hc := d.pending[pid]
		if hc == nil {
			continue
		}
		delete(d.pending, pid)
		d.resolve(pid, d.Drive(pid, p.Machine, hc))
		progressed = true
	}
	if d.wakeExpired() {
		progressed = true
	}
	return progressed
}

// resolve records the outcome of driving pid. A background process
// that settled (Finished or Errored) is killed, its actor lifetime
// over; a pid someone is awaiting (the root process finishing one
// top-level form) is left alive for the forms still to come.
func (d *Dispatcher) resolve(pid process.PID, outcome Outcome, val term.Object) {
	if outcome == Blocked {
		return
	}
	if d.results == nil {
		d.results = map[process.PID]result{}
	}
	d.results[pid] = result{outcome: outcome, val: val}
	if !d.awaited[pid] {
		d.Scheduler.Kill(pid)
	}
}

// wakeExpired resumes every process whose timed recv has passed its
// deadline, delivering Nil as the receive result. Reports whether it
// woke anything.
func (d *Dispatcher) wakeExpired() bool {
	expired := d.Scheduler.Expired(time.Now())
	if len(expired) == 0 {
		return false
	}
	for _, pid := range expired {
		p, ok := d.Scheduler.Lookup(pid)
		if !ok {
			continue
		}
		hc := d.pending[pid]
		if hc == nil {
			continue
		}
		delete(d.pending, pid)
		d.Scheduler.SetWaiting(pid, false, time.Time{})
		resumed := p.Machine.Resume([]machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: hc.Env}, Value: term.Nil()}})
		d.resolve(pid, d.Drive(pid, p.Machine, resumed))
	}
	return true
}
