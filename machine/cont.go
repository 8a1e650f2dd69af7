// Package machine implements the continuation-passing, explicit-stack
// abstract machine of spec.md §4.3: a queue of Continuations executed by
// a stepwise loop until it yields a Host continuation or the queue
// empties.
package machine

import (
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/term"
)

// Frame is the payload every Continuation carries: its own operand stack
// and the environment it executes in. Values flow between continuations
// only by pushing onto the next continuation's Frame.Stack.
type Frame struct {
	Stack []term.Object
	Env   *env.Environment
}

// Push appends val to the frame's operand stack.
func (f *Frame) Push(val term.Object) { f.Stack = append(f.Stack, val) }

// Pop removes and returns the top of the operand stack. It panics (an
// InternalError-class bug) if the stack is empty, matching the "should
// not happen" character of stack underflow in a well-formed program.
func (f *Frame) Pop() term.Object {
	n := len(f.Stack)
	v := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return v
}

// TOS returns the top of the stack without removing it.
func (f *Frame) TOS() term.Object { return f.Stack[len(f.Stack)-1] }

// Cont is the tagged-sum interface every continuation variant implements.
// frame returns the embedded Frame so the machine can read/write the
// operand stack generically; each variant's semantics live in the
// machine's step function, which switches on the concrete type.
type Cont interface {
	frame() *Frame
}

func mkFrame(e *env.Environment) Frame { return Frame{Env: e} }

// HostCont is a suspension point: the machine hands control to the host
// dispatcher. Resuming it is the dispatcher's job (see the host package).
type HostCont struct {
	Frame
	Action string
	Args   []term.Object
}

func (c *HostCont) frame() *Frame { return &c.Frame }

// Host action names, per spec §4.5.
const (
	ActionExit       = "SYS::exit"
	ActionError      = "SYS::error"
	ActionIOPrint    = "IO::print"
	ActionIOReadline = "IO::readline"
	ActionIORepl     = "IO::repl"
	ActionAIRepl     = "AI::repl"
	ActionProcSpawn  = "process::spawn"
	ActionProcSend   = "process::send"
	ActionProcRecv   = "process::recv"
	ActionProcSelf   = "process::self"
	ActionProcAlive  = "process::is-alive?"
	ActionProcKill   = "process::kill"
	ActionProcList   = "process::processes"
	ActionInclude    = "IO::include"
)

// ThrowCont propagates an exception; unwinds the queue until a Catch is
// found.
type ThrowCont struct {
	Frame
	Exc term.Exception
}

func (c *ThrowCont) frame() *Frame { return &c.Frame }

// CatchCont establishes an exception handler around the continuation(s)
// pushed above it.
type CatchCont struct {
	Frame
	Handler Callable
}

func (c *CatchCont) frame() *Frame { return &c.Frame }

// ReturnCont pushes Value onto the next continuation's stack.
type ReturnCont struct {
	Frame
	Value term.Object
}

func (c *ReturnCont) frame() *Frame { return &c.Frame }

// DefineCont binds the top-of-stack value to Name in Env.
type DefineCont struct {
	Frame
	Name term.Sym
}

func (c *DefineCont) frame() *Frame { return &c.Frame }

// IfElseCont chooses a branch based on the Bool on top of its stack.
type IfElseCont struct {
	Frame
	CondTerm, ThenTerm, ElseTerm term.Object
}

func (c *IfElseCont) frame() *Frame { return &c.Frame }

// EvalExprCont is the generic "evaluate this term" entry point.
type EvalExprCont struct {
	Frame
	Term term.Object
}

func (c *EvalExprCont) frame() *Frame { return &c.Frame }

// EvalTOSCont evaluates the term currently on top of its own stack.
type EvalTOSCont struct {
	Frame
}

func (c *EvalTOSCont) frame() *Frame { return &c.Frame }

// EvalConsCont evaluates a call expression: head followed by its args.
type EvalConsCont struct {
	Frame
	List *term.List
}

func (c *EvalConsCont) frame() *Frame { return &c.Frame }

// EvalConsRestCont evaluates successive arguments of a call, left to
// right, accumulating results onto the ApplyApplicative below it.
type EvalConsRestCont struct {
	Frame
	List *term.List
}

func (c *EvalConsRestCont) frame() *Frame { return &c.Frame }

// ApplyExprCont applies the callable now on top of its stack to Args.
type ApplyExprCont struct {
	Frame
	Args *term.List
}

func (c *ApplyExprCont) frame() *Frame { return &c.Frame }

// ApplyOperativeCont invokes an operative (FExpr) with unevaluated
// arguments.
type ApplyOperativeCont struct {
	Frame
	Callable Callable
	Args     *term.List
}

func (c *ApplyOperativeCont) frame() *Frame { return &c.Frame }

// ApplyApplicativeCont invokes a Lambda/Native with the pre-evaluated
// arguments already sitting on its stack.
type ApplyApplicativeCont struct {
	Frame
	Callable Callable
}

func (c *ApplyApplicativeCont) frame() *Frame { return &c.Frame }

// SeqCont evaluates the forms of a sequencing body (begin, and the
// implicit begin a multi-form lambda/defun/try body desugars to) one at
// a time on the real queue, so a host action anywhere inside can
// suspend the whole machine rather than being evaluated inside an
// isolated sub-queue that cannot yield to the dispatcher. Every form
// but the last has its value discarded; the last is left in tail
// position so its value flows to whatever sits beneath SeqCont once it
// is popped.
type SeqCont struct {
	Frame
	Forms *term.List
}

func (c *SeqCont) frame() *Frame { return &c.Frame }

// AndCont implements short-circuiting && on the real queue: Forms are
// evaluated left to right, each checked by an AndCheckCont pushed above
// it, so a host action in any operand suspends normally.
type AndCont struct {
	Frame
	Forms *term.List
}

func (c *AndCont) frame() *Frame { return &c.Frame }

// AndCheckCont inspects the value an AndCont's current form just
// delivered: falsy short-circuits to false, otherwise evaluation moves
// on to Tail (or returns the value itself, once Tail is exhausted).
type AndCheckCont struct {
	Frame
	Tail *term.List
}

func (c *AndCheckCont) frame() *Frame { return &c.Frame }

// OrCont implements short-circuiting || on the real queue, the mirror
// of AndCont.
type OrCont struct {
	Frame
	Forms *term.List
}

func (c *OrCont) frame() *Frame { return &c.Frame }

// OrCheckCont inspects the value an OrCont's current form just
// delivered: a truthy value short-circuits to itself, otherwise
// evaluation moves on to Tail.
type OrCheckCont struct {
	Frame
	Tail *term.List
}

func (c *OrCheckCont) frame() *Frame { return &c.Frame }

// SetBangCont assigns the top-of-stack value to Name via Env.SetBang
// (erroring if Name is unbound anywhere in the chain), the
// reassignment counterpart to DefineCont.
type SetBangCont struct {
	Frame
	Name term.Sym
}

func (c *SetBangCont) frame() *Frame { return &c.Frame }

// ThrowValueCont raises the top-of-stack value as an exception, once
// its expression has been evaluated on the real queue.
type ThrowValueCont struct {
	Frame
}

func (c *ThrowValueCont) frame() *Frame { return &c.Frame }

// EvalFormCont implements the (eval form env?) builtin: once form's own
// expression has delivered its value here, it either evaluates that
// value directly (no second argument) or evaluates EnvTerm first to
// pick the target environment.
type EvalFormCont struct {
	Frame
	EnvTerm term.Object
}

func (c *EvalFormCont) frame() *Frame { return &c.Frame }

// EvalTargetCont finishes (eval form env): Form is the already-resolved
// first argument, and the target environment is whatever EnvTerm's
// expression (evaluated above this continuation) delivers.
type EvalTargetCont struct {
	Frame
	Form term.Object
}

func (c *EvalTargetCont) frame() *Frame { return &c.Frame }
