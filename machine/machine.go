package machine

import (
	"log/slog"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/term"
	"t73f.de/r/zero/set"
)

// Machine owns the continuation queue (the top of the slice is the next
// continuation to execute) and runs the step loop until it either
// produces a Host continuation or exhausts the queue.
type Machine struct {
	queue    []Cont
	ticks    uint64
	Macros   *MacroTable
	Logger   *slog.Logger
	includes *set.Set[string]
}

// BeginInclude records that path is now being loaded, returning false
// (and leaving the set unchanged) if it is already on the chain: a
// circular include.
func (m *Machine) BeginInclude(path string) bool {
	if m.includes == nil {
		m.includes = set.New[string]()
	}
	if m.includes.Contains(path) {
		return false
	}
	m.includes.Add(path)
	return true
}

// EndInclude removes path from the in-progress include chain.
func (m *Machine) EndInclude(path string) {
	if m.includes != nil {
		m.includes.Delete(path)
	}
}

// New creates a Machine with an empty queue.
func New(logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{Macros: NewMacroTable(), Logger: logger}
}

// Ticks returns the number of steps executed so far.
func (m *Machine) Ticks() uint64 { return m.ticks }

func (m *Machine) push(c Cont) { m.queue = append(m.queue, c) }

func (m *Machine) pop() Cont {
	n := len(m.queue)
	c := m.queue[n-1]
	m.queue = m.queue[:n-1]
	return c
}

func (m *Machine) top() Cont {
	if len(m.queue) == 0 {
		return nil
	}
	return m.queue[len(m.queue)-1]
}

// deliver pushes val onto the operand stack of whatever continuation is
// now on top of the queue, implementing the "push to next continuation's
// stack" discipline that stands in for a control-flow return.
func (m *Machine) deliver(val term.Object) {
	if t := m.top(); t != nil {
		t.frame().Push(val)
	}
}

// Run pushes the given continuations onto the LIFO queue in slice order,
// so the last element runs first, and steps the machine until it yields
// a Host continuation.
func (m *Machine) Run(initial []Cont) *HostCont {
	for _, c := range initial {
		m.push(c)
	}
	return m.loop()
}

// RunTopLevel evaluates t as a new, independent top-level form: the
// queue starts empty (discarding whatever sentinel is left over from
// this machine's previous top-level call, the way a REPL line or script
// form never resumes a prior one's continuation) and a captureCont
// sentinel is pushed at the bottom, so the value t eventually delivers
// is preserved in the returned HostCont's Args (ActionExit) rather than
// silently dropped once the queue has nothing left to hand it to. The
// host dispatcher drives Host actions and calls Resume against this same
// queue across any number of suspensions before the form completes.
func (m *Machine) RunTopLevel(t term.Object, e *env.Environment) *HostCont {
	m.queue = nil
	return m.Run([]Cont{&captureCont{Frame: mkFrame(e)}, EvaluateTerm(t, e)})
}

// Resume continues execution after a host continuation has been
// satisfied: it discards the HostCont that loop() last returned (it is
// still sitting on top of the queue, unpopped) and pushes conts in its
// place, typically a single ReturnCont carrying the action's result.
func (m *Machine) Resume(conts []Cont) *HostCont {
	if _, ok := m.top().(*HostCont); ok {
		m.pop()
	}
	for _, c := range conts {
		m.push(c)
	}
	return m.loop()
}

func (m *Machine) loop() *HostCont {
	for {
		t := m.top()
		if t == nil {
			return &HostCont{Action: ActionExit}
		}
		if cc, ok := t.(*captureCont); ok {
			return &HostCont{Action: ActionExit, Args: cc.Stack}
		}
		if hc, ok := t.(*HostCont); ok {
			return hc
		}
		m.pop()
		m.ticks++
		m.Logger.Debug("step", "tick", m.ticks, "cont", t)
		m.step(t)
	}
}

// captureCont sits at the bottom of a nested evaluation's queue and
// receives the final delivered value instead of being stepped, letting
// Eval observe a result synchronously.
type captureCont struct{ Frame }

func (c *captureCont) frame() *Frame { return &c.Frame }

// Eval runs t to completion against a fresh, isolated sub-queue and
// returns its value. It is used where a builtin needs a value
// immediately rather than a continuation chain to push: the list
// helpers, include, macro expansion, and the argument evaluation of
// print, say and the process builtins. A host action reached during a nested
// Eval (e.g. a process operation) is reported as an error: suspension
// is only supported at the top level.
func (m *Machine) Eval(t term.Object, e *env.Environment) (term.Object, error) {
	saved := m.queue
	m.queue = nil
	hc := m.Run([]Cont{&captureCont{Frame: mkFrame(e)}, EvaluateTerm(t, e)})
	m.queue = saved
	return finishNested(hc)
}

// Apply invokes the callable fn on pre-evaluated args, the way map,
// filter, reduce and sort need to call back into a user-supplied
// function. An operative fn receives args wrapped into a list without
// re-evaluating them.
func (m *Machine) Apply(fn term.Object, args []term.Object, e *env.Environment) (term.Object, error) {
	c, ok := fn.(Callable)
	if !ok {
		return nil, NotCallableError{Got: fn}
	}
	saved := m.queue
	m.queue = nil
	var hc *HostCont
	if IsOperative(c) {
		hc = m.Run([]Cont{&captureCont{Frame: mkFrame(e)}, &ApplyOperativeCont{Frame: mkFrame(e), Callable: c, Args: term.MakeList(args...)}})
	} else {
		hc = m.Run([]Cont{&captureCont{Frame: mkFrame(e)}, &ApplyApplicativeCont{Frame: Frame{Env: e, Stack: args}, Callable: c}})
	}
	m.queue = saved
	return finishNested(hc)
}

func finishNested(hc *HostCont) (term.Object, error) {
	if hc.Action == ActionError {
		if len(hc.Args) > 0 {
			if exc, ok := hc.Args[0].(term.Exception); ok {
				return nil, ExceptionError{Exc: exc}
			}
		}
		return nil, InternalError{Msg: "nested evaluation failed"}
	}
	if hc.Action != ActionExit {
		return nil, InternalError{Msg: "cannot suspend on host action " + hc.Action + " during nested evaluation"}
	}
	if len(hc.Args) == 0 {
		return term.TheUnit, nil
	}
	return hc.Args[len(hc.Args)-1], nil
}

// InternalError mirrors term.InternalError for machine-local failures
// that never cross the term package boundary.
type InternalError struct{ Msg string }

func (e InternalError) Error() string { return "internal error: " + e.Msg }

// EvaluateTerm returns the initial continuation to push for t, per spec
// §4.3.
func EvaluateTerm(t term.Object, e *env.Environment) Cont {
	switch v := t.(type) {
	case nil:
		return &ReturnCont{Frame: mkFrame(e), Value: term.Nil()}
	case *term.List:
		if v.IsNil() {
			return &ReturnCont{Frame: mkFrame(e), Value: v}
		}
		return &EvalConsCont{Frame: mkFrame(e), List: v}
	case term.Sym:
		val, err := e.Lookup(v)
		if err != nil {
			return &ThrowCont{Frame: mkFrame(e), Exc: term.MakeException(err)}
		}
		return &ReturnCont{Frame: mkFrame(e), Value: val}
	case term.Exception:
		return &ThrowCont{Frame: mkFrame(e), Exc: v}
	default:
		return &ReturnCont{Frame: mkFrame(e), Value: t}
	}
}

func (m *Machine) step(c Cont) {
	switch k := c.(type) {
	case *ThrowCont:
		m.stepThrow(k)
	case *CatchCont:
		m.stepCatch(k)
	case *ReturnCont:
		m.deliver(k.Value)
	case *DefineCont:
		val := k.Pop()
		k.Env.Define(k.Name, val)
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: term.TheUnit})
	case *IfElseCont:
		m.stepIfElse(k)
	case *EvalExprCont:
		m.push(EvaluateTerm(k.Term, k.Env))
	case *EvalTOSCont:
		t := k.Pop()
		m.push(EvaluateTerm(t, k.Env))
	case *EvalConsCont:
		head := k.List.First()
		args, _ := term.GetList(k.List.Rest())
		m.push(&ApplyExprCont{Frame: mkFrame(k.Env), Args: args})
		m.push(EvaluateTerm(head, k.Env))
	case *EvalConsRestCont:
		m.stepEvalConsRest(k)
	case *ApplyExprCont:
		m.stepApplyExpr(k)
	case *ApplyOperativeCont:
		m.stepApplyOperative(k)
	case *ApplyApplicativeCont:
		m.stepApplyApplicative(k)
	case *SeqCont:
		m.stepSeq(k)
	case *AndCont:
		m.stepAnd(k)
	case *AndCheckCont:
		m.stepAndCheck(k)
	case *OrCont:
		m.stepOr(k)
	case *OrCheckCont:
		m.stepOrCheck(k)
	case *SetBangCont:
		m.stepSetBang(k)
	case *ThrowValueCont:
		m.push(&ThrowCont{Frame: mkFrame(k.Env), Exc: term.MakeThrow(k.Pop())})
	case *EvalFormCont:
		m.stepEvalForm(k)
	case *EvalTargetCont:
		m.stepEvalTarget(k)
	default:
		m.push(&ThrowCont{Frame: mkFrame(nil), Exc: term.MakeException(term.InternalError{Msg: "unknown continuation"})})
	}
}

func (m *Machine) stepThrow(k *ThrowCont) {
	for {
		t := m.top()
		if t == nil {
			m.push(&HostCont{Action: ActionError, Args: []term.Object{k.Exc}})
			return
		}
		if cc, ok := t.(*CatchCont); ok {
			cc.Stack = nil
			cc.Push(k.Exc)
			return
		}
		m.pop()
	}
}

func (m *Machine) stepCatch(k *CatchCont) {
	if len(k.Stack) == 0 {
		m.deliver(term.TheUnit)
		return
	}
	val := k.TOS()
	if exc, ok := val.(term.Exception); ok {
		m.push(&ApplyApplicativeCont{Frame: Frame{Env: k.Env, Stack: []term.Object{exc}}, Callable: k.Handler})
		return
	}
	m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: val})
}

// stepIfElse runs once the condition's value has already been
// delivered onto k's stack by the EvalExprCont pushed on top of it
// (see the "if" special form): it picks a branch and schedules its
// evaluation.
func (m *Machine) stepIfElse(k *IfElseCont) {
	cond := k.Pop()
	b, ok := cond.(term.Bool)
	if !ok {
		m.push(&ThrowCont{Frame: mkFrame(k.Env), Exc: term.MakeException(term.TypeError{Want: "Bool", Got: cond})})
		return
	}
	branch := k.ElseTerm
	if bool(b) {
		branch = k.ThenTerm
	}
	m.push(&EvalExprCont{Frame: mkFrame(k.Env), Term: branch})
}

func (m *Machine) stepEvalConsRest(k *EvalConsRestCont) {
	rest := k.List
	if tail := rest.Rest(); tail != nil {
		m.push(&EvalConsRestCont{Frame: mkFrame(k.Env), List: tail})
	}
	for _, v := range k.Stack {
		m.deliver(v)
	}
	m.push(&EvalExprCont{Frame: mkFrame(k.Env), Term: rest.First()})
}

// stepSeq evaluates the next form of a sequencing body. Every form but
// the last discards its value by simply letting it sit unread on the
// next SeqCont's stack; the last form is pushed alone, in tail
// position, so its value reaches whatever is beneath the whole chain.
func (m *Machine) stepSeq(k *SeqCont) {
	if k.Forms.IsNil() {
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: term.TheUnit})
		return
	}
	if tail := k.Forms.Rest(); tail != nil {
		m.push(&SeqCont{Frame: mkFrame(k.Env), Forms: tail})
	}
	m.push(&EvalExprCont{Frame: mkFrame(k.Env), Term: k.Forms.First()})
}

func (m *Machine) stepAnd(k *AndCont) {
	if k.Forms.IsNil() {
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: term.Bool(true)})
		return
	}
	m.push(&AndCheckCont{Frame: mkFrame(k.Env), Tail: k.Forms.Rest()})
	m.push(&EvalExprCont{Frame: mkFrame(k.Env), Term: k.Forms.First()})
}

func (m *Machine) stepAndCheck(k *AndCheckCont) {
	v := k.Pop()
	if !term.IsTruthy(v) {
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: term.Bool(false)})
		return
	}
	if k.Tail == nil || k.Tail.IsNil() {
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: v})
		return
	}
	m.push(&AndCont{Frame: mkFrame(k.Env), Forms: k.Tail})
}

func (m *Machine) stepOr(k *OrCont) {
	if k.Forms.IsNil() {
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: term.Bool(false)})
		return
	}
	m.push(&OrCheckCont{Frame: mkFrame(k.Env), Tail: k.Forms.Rest()})
	m.push(&EvalExprCont{Frame: mkFrame(k.Env), Term: k.Forms.First()})
}

func (m *Machine) stepOrCheck(k *OrCheckCont) {
	v := k.Pop()
	if term.IsTruthy(v) {
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: v})
		return
	}
	if k.Tail == nil || k.Tail.IsNil() {
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: term.Bool(false)})
		return
	}
	m.push(&OrCont{Frame: mkFrame(k.Env), Forms: k.Tail})
}

func (m *Machine) stepSetBang(k *SetBangCont) {
	val := k.Pop()
	if err := k.Env.SetBang(k.Name, val); err != nil {
		m.push(&ThrowCont{Frame: mkFrame(k.Env), Exc: term.MakeException(err)})
		return
	}
	m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: term.TheUnit})
}

func (m *Machine) stepEvalForm(k *EvalFormCont) {
	form := k.Pop()
	if k.EnvTerm == nil {
		m.push(&EvalExprCont{Frame: mkFrame(k.Env), Term: form})
		return
	}
	m.push(&EvalTargetCont{Frame: mkFrame(k.Env), Form: form})
	m.push(&EvalExprCont{Frame: mkFrame(k.Env), Term: k.EnvTerm})
}

func (m *Machine) stepEvalTarget(k *EvalTargetCont) {
	tv := k.Pop()
	target := k.Env
	if te, ok := tv.(*env.Environment); ok {
		target = te
	}
	m.push(&EvalExprCont{Frame: mkFrame(target), Term: k.Form})
}

func (m *Machine) stepApplyExpr(k *ApplyExprCont) {
	callable := k.Pop()
	c, ok := callable.(Callable)
	if !ok {
		m.push(&ThrowCont{Frame: mkFrame(k.Env), Exc: term.MakeException(NotCallableError{Got: callable})})
		return
	}
	if IsOperative(c) {
		m.push(&ApplyOperativeCont{Frame: mkFrame(k.Env), Callable: c, Args: k.Args})
		return
	}
	m.push(&ApplyApplicativeCont{Frame: mkFrame(k.Env), Callable: c})
	if k.Args.Len() > 0 {
		m.push(&EvalConsRestCont{Frame: mkFrame(k.Env), List: k.Args})
	}
}

func (m *Machine) stepApplyOperative(k *ApplyOperativeCont) {
	fx := k.Callable.(*FExpr)
	conts, err := fx.Fn(m, k.Args, k.Env)
	if err != nil {
		m.push(&ThrowCont{Frame: mkFrame(k.Env), Exc: asException(err)})
		return
	}
	for _, c := range conts {
		m.push(c)
	}
}

func (m *Machine) stepApplyApplicative(k *ApplyApplicativeCont) {
	switch c := k.Callable.(type) {
	case *Native:
		res, err := c.Fn(k.Stack, k.Env)
		if err != nil {
			m.push(&ThrowCont{Frame: mkFrame(k.Env), Exc: asException(err)})
			return
		}
		m.push(&ReturnCont{Frame: mkFrame(k.Env), Value: res})
	case *Lambda:
		callEnv, err := c.Env.Derive(c.CallableName(), c.Params, k.Stack)
		if err != nil {
			m.push(&ThrowCont{Frame: mkFrame(k.Env), Exc: asException(err)})
			return
		}
		m.push(&EvalExprCont{Frame: mkFrame(callEnv), Term: c.Body})
	default:
		m.push(&ThrowCont{Frame: mkFrame(k.Env), Exc: term.MakeException(NotCallableError{Got: k.Callable})})
	}
}

func asException(err error) term.Exception {
	if ee, ok := err.(ExceptionError); ok {
		return ee.Exc
	}
	return term.MakeException(err)
}

// NotCallableError signals that a value cannot be called when it must be.
type NotCallableError struct{ Got term.Object }

func (e NotCallableError) Error() string { return "not callable: " + e.Got.String() }

// ExceptionError lets Go code throw an already-built term.Exception
// (e.g. to preserve a `throw`n payload) through the normal error path.
type ExceptionError struct{ Exc term.Exception }

func (e ExceptionError) Error() string { return e.Exc.Message }
