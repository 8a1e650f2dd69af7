// Package process implements the Erlang-style actor layer of spec.md
// §4.6: PIDs, private FIFO mailboxes, and the scheduler's process table.
// The host package's dispatcher does the actual driving: it alternates
// between running one process's machine and satisfying the host
// continuation it yields.
package process

import (
	"fmt"
	"time"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/term"
)

// PID identifies a process. It is a first-class term so it can be
// stored, compared, and sent in messages.
type PID uint64

func (p PID) IsNil() bool  { return false }
func (p PID) IsAtom() bool { return true }
func (p PID) IsEqual(o term.Object) bool {
	op, ok := o.(PID)
	return ok && p == op
}
func (p PID) String() string { return fmt.Sprintf("#<pid:%d>", uint64(p)) }

// Process is one actor: its own machine, root environment, and private
// mailbox. Mailboxes are never shared; Send is the only way to reach
// another process's state.
type Process struct {
	PID      PID
	Machine  *machine.Machine
	Env      *env.Environment
	mailbox  []term.Object
	alive    bool
	waiting  bool
	deadline time.Time // zero means "wait forever"
}

// Runnable reports whether p should be given a turn: alive and not
// currently blocked in recv.
func (p *Process) Runnable() bool { return p.alive && !p.waiting }

// Scheduler owns every live process: the PID table, spawn order,
// mailboxes and recv deadlines. It runs no machine itself; the host
// dispatcher steps one process's machine at a time (no preemption).
type Scheduler struct {
	procs  map[PID]*Process
	order  []PID
	nextID PID
}

// Register adds an already-constructed process (typically the root
// process driving top-level evaluation) under its own PID.
func (s *Scheduler) Register(p *Process) {
	p.alive = true
	s.procs[p.PID] = p
	s.order = append(s.order, p.PID)
	if p.PID >= s.nextID {
		s.nextID = p.PID + 1
	}
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{procs: map[PID]*Process{}}
}

// Spawn registers a new process whose machine will begin by applying
// fn (a zero-argument callable). The child's environment is seeded
// from a snapshot of parent, copied so later mutation in either
// process is invisible to the other (spec §4.6, Design Notes). It
// returns the new PID, the process, and the initial continuations to
// Run on its machine; the caller (the host dispatcher) is responsible
// for actually driving it, since only the dispatcher knows how to
// service whatever Host continuation it yields first.
func (s *Scheduler) Spawn(fn term.Object, parent *env.Environment, newMachine func() *machine.Machine) (PID, *Process, []machine.Cont) {
	s.nextID++
	pid := s.nextID
	childEnv := env.FromSnapshot(parent.Snapshot())
	m := newMachine()
	p := &Process{PID: pid, Machine: m, Env: childEnv, alive: true}
	s.procs[pid] = p
	s.order = append(s.order, pid)

	call := &machine.ApplyExprCont{Frame: machine.Frame{Env: childEnv}, Args: term.Nil()}
	ret := &machine.ReturnCont{Frame: machine.Frame{Env: childEnv}, Value: fn}
	return pid, p, []machine.Cont{call, ret}
}

// Lookup returns the process for pid, if it is still alive.
func (s *Scheduler) Lookup(pid PID) (*Process, bool) {
	p, ok := s.procs[pid]
	if !ok || !p.alive {
		return nil, false
	}
	return p, true
}

// IsAlive reports whether pid names a currently-live process.
func (s *Scheduler) IsAlive(pid PID) bool {
	_, ok := s.Lookup(pid)
	return ok
}

// Kill marks pid as no longer alive. Its mailbox is discarded.
func (s *Scheduler) Kill(pid PID) {
	if p, ok := s.procs[pid]; ok {
		p.alive = false
		p.mailbox = nil
	}
}

// Deliver appends msg to pid's mailbox, FIFO order, and wakes it if it
// was blocked in recv. It is a no-op (silently dropped) if pid is dead,
// matching Erlang's send-to-dead-process semantics.
func (s *Scheduler) Deliver(pid PID, msg term.Object) {
	p, ok := s.procs[pid]
	if !ok || !p.alive {
		return
	}
	p.mailbox = append(p.mailbox, msg)
	p.waiting = false
}

// TryReceive pops the oldest queued message for pid, if any.
func (s *Scheduler) TryReceive(pid PID) (term.Object, bool) {
	p, ok := s.procs[pid]
	if !ok || len(p.mailbox) == 0 {
		return nil, false
	}
	msg := p.mailbox[0]
	p.mailbox = p.mailbox[1:]
	return msg, true
}

// Processes returns every currently-live PID, in spawn order.
func (s *Scheduler) Processes() []PID {
	out := make([]PID, 0, len(s.order))
	for _, pid := range s.order {
		if p := s.procs[pid]; p.alive {
			out = append(out, pid)
		}
	}
	return out
}

// SetWaiting marks pid as blocked in recv, for schedulers that poll.
// A zero deadline means no timeout: the process waits until a message
// arrives or it is killed.
func (s *Scheduler) SetWaiting(pid PID, waiting bool, deadline time.Time) {
	if p, ok := s.procs[pid]; ok {
		p.waiting = waiting
		p.deadline = deadline
	}
}

// AllIdle reports whether every live process is currently blocked in
// recv: a global deadlock, at which point the driver loop should give
// up waiting rather than spin forever.
func (s *Scheduler) AllIdle() bool {
	for _, pid := range s.order {
		p := s.procs[pid]
		if p.alive && !p.waiting {
			return false
		}
	}
	return true
}

// NextDeadline returns the earliest pending recv timeout among waiting
// processes, if any are timed (as opposed to waiting forever).
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	var best time.Time
	found := false
	for _, pid := range s.order {
		p := s.procs[pid]
		if p.alive && p.waiting && !p.deadline.IsZero() {
			if !found || p.deadline.Before(best) {
				best = p.deadline
				found = true
			}
		}
	}
	return best, found
}

// Expired returns every waiting process whose deadline has passed.
func (s *Scheduler) Expired(now time.Time) []PID {
	var out []PID
	for _, pid := range s.order {
		p := s.procs[pid]
		if p.alive && p.waiting && !p.deadline.IsZero() && !now.Before(p.deadline) {
			out = append(out, pid)
		}
	}
	return out
}

// RecvTimeout interprets a (recv timeoutMs) argument into a duration;
// a Num argument is milliseconds, anything else means "no timeout".
func RecvTimeout(arg term.Object) (time.Duration, bool) {
	n, ok := arg.(term.Num)
	if !ok {
		return 0, false
	}
	return time.Duration(float64(n)) * time.Millisecond, true
}
