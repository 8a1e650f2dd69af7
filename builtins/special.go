// Package builtins installs the core special forms (operatives) and
// native procedures (applicatives) into a fresh environment, the way
// sxbuiltins registers Special/Builtin values into an sxeval
// environment: each form here is grounded on its sxbuiltins sibling of
// the same name.
package builtins

import (
	"fmt"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/term"
)

// fexpr is a small helper to cut down on the repeated FExpr literal
// boilerplate below.
func fexpr(name string, fn func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error)) *machine.FExpr {
	return &machine.FExpr{Name: name, Fn: fn}
}

func native(name string, fn func(args []term.Object, e *env.Environment) (term.Object, error)) *machine.Native {
	return &machine.Native{Name: name, Fn: fn}
}

func nth(l *term.List, i int) term.Object {
	v, ok := l.Nth(i)
	if !ok {
		return term.Nil()
	}
	return v
}

// Def implements (def name value): evaluate value in the current scope
// then bind it to name there. Grounded on sxbuiltins' DefineExpr/DefineS
// and on the EvalExpr-then-Define op pairing of the machine's own
// def/if example.
var Def = fexpr("def", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 2 {
		return nil, term.ArityError{Name: "def", Want: 2, Got: args.Len()}
	}
	sym, ok := nth(args, 0).(term.Sym)
	if !ok {
		return nil, term.TypeError{Want: "Sym", Got: nth(args, 0)}
	}
	return []machine.Cont{
		&machine.DefineCont{Frame: machine.Frame{Env: e}, Name: sym},
		&machine.EvalExprCont{Frame: machine.Frame{Env: e}, Term: nth(args, 1)},
	}, nil
})

// SetBang implements (set! name value): like def, but fails if name is
// not already bound anywhere in the chain.
var SetBang = fexpr("set!", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 2 {
		return nil, term.ArityError{Name: "set!", Want: 2, Got: args.Len()}
	}
	sym, ok := nth(args, 0).(term.Sym)
	if !ok {
		return nil, term.TypeError{Want: "Sym", Got: nth(args, 0)}
	}
	return []machine.Cont{
		&machine.SetBangCont{Frame: machine.Frame{Env: e}, Name: sym},
		&machine.EvalExprCont{Frame: machine.Frame{Env: e}, Term: nth(args, 1)},
	}, nil
})

// If implements (if cond then else?), mapping directly onto IfElseCont.
var If = fexpr("if", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 2 && args.Len() != 3 {
		return nil, term.ArityError{Name: "if", Want: 3, Got: args.Len()}
	}
	elseTerm := term.Object(term.TheUnit)
	if args.Len() == 3 {
		elseTerm = nth(args, 2)
	}
	ie := &machine.IfElseCont{Frame: machine.Frame{Env: e}, CondTerm: nth(args, 0), ThenTerm: nth(args, 1), ElseTerm: elseTerm}
	return []machine.Cont{
		ie,
		&machine.EvalExprCont{Frame: machine.Frame{Env: e}, Term: nth(args, 0)},
	}, nil
})

// Cond implements (cond (test expr)...): evaluates each clause's test
// in order and returns the expr value of the first clause whose test is
// true, or Unit if none is. As with if, each test evaluated must yield a
// Bool; any other value raises an error. It desugars into nested ifs and hands the result
// to EvalExprCont, reusing If's own continuation machinery rather than
// adding a parallel one.
var Cond = fexpr("cond", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	form, err := condForm(args)
	if err != nil {
		return nil, err
	}
	return []machine.Cont{&machine.EvalExprCont{Frame: machine.Frame{Env: e}, Term: form}}, nil
})

func condForm(clauses *term.List) (term.Object, error) {
	if clauses.IsNil() {
		return term.TheUnit, nil
	}
	clause, ok := term.GetList(clauses.First())
	if !ok || clause.Len() != 2 {
		return nil, fmt.Errorf("cond: malformed clause, want (test expr)")
	}
	rest, err := condForm(clauses.Rest())
	if err != nil {
		return nil, err
	}
	return term.MakeList(term.Sym("if"), clause.First(), nth(clause, 1), rest), nil
}

// buildParams converts a parameter-spec list into symbols.
func buildParams(spec term.Object) ([]term.Sym, error) {
	l, ok := term.GetList(spec)
	if !ok {
		return nil, term.TypeError{Want: "param list", Got: spec}
	}
	out := make([]term.Sym, 0, l.Len())
	for _, v := range l.Values() {
		s, ok := v.(term.Sym)
		if !ok {
			return nil, term.TypeError{Want: "Sym", Got: v}
		}
		out = append(out, s)
	}
	return out, nil
}

// Lambda implements (lambda (params...) body), grounded on sxbuiltins'
// LambdaS/ParseProcedure.
var Lambda = fexpr("lambda", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() < 2 {
		return nil, term.ArityError{Name: "lambda", Want: 2, Got: args.Len()}
	}
	params, err := buildParams(nth(args, 0))
	if err != nil {
		return nil, err
	}
	body := bodyOf(args.Rest())
	lam := &machine.Lambda{Params: params, Body: body, Env: e}
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: lam}}, nil
})

// Defun implements (defun name (params...) body), sugar for
// (def name (lambda (params...) body)) that also names the closure for
// error messages and self-recursion, grounded on sxbuiltins' DefunS.
var Defun = fexpr("defun", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() < 3 {
		return nil, term.ArityError{Name: "defun", Want: 3, Got: args.Len()}
	}
	sym, ok := nth(args, 0).(term.Sym)
	if !ok {
		return nil, term.TypeError{Want: "Sym", Got: nth(args, 0)}
	}
	params, err := buildParams(nth(args, 1))
	if err != nil {
		return nil, err
	}
	body := bodyOf(args.Rest().Rest())
	closureEnv := e.Capture()
	lam := &machine.Lambda{Name: string(sym), Params: params, Body: body, Env: closureEnv}
	closureEnv.Define(sym, lam)
	e.Define(sym, lam)
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: term.TheUnit}}, nil
})

// bodyOf wraps multiple body forms in an implicit (begin ...), matching
// a single form through unchanged.
func bodyOf(forms *term.List) term.Object {
	if forms.Len() == 1 {
		return forms.First()
	}
	return term.Cons(term.Sym("begin"), forms)
}

// Begin implements (begin expr...): evaluate each expr in order,
// returning the last value. Grounded on sxbuiltins/begin.go.
var Begin = fexpr("begin", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	return []machine.Cont{&machine.SeqCont{Frame: machine.Frame{Env: e}, Forms: args}}, nil
})

// Quote implements (quote expr): returns expr unevaluated.
var Quote = fexpr("quote", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 1 {
		return nil, term.ArityError{Name: "quote", Want: 1, Got: args.Len()}
	}
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: nth(args, 0)}}, nil
})

// And implements (&& a b...) with short-circuit evaluation.
var And = fexpr("&&", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	return []machine.Cont{&machine.AndCont{Frame: machine.Frame{Env: e}, Forms: args}}, nil
})

// Or implements (|| a b...) with short-circuit evaluation.
var Or = fexpr("||", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	return []machine.Cont{&machine.OrCont{Frame: machine.Frame{Env: e}, Forms: args}}, nil
})

// Throw implements (throw expr): raises expr as an exception.
var Throw = fexpr("throw", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 1 {
		return nil, term.ArityError{Name: "throw", Want: 1, Got: args.Len()}
	}
	return []machine.Cont{
		&machine.ThrowValueCont{Frame: machine.Frame{Env: e}},
		&machine.EvalExprCont{Frame: machine.Frame{Env: e}, Term: nth(args, 0)},
	}, nil
})

// Try implements (try body (catch name handler)). Grounded on the
// spec's own try/catch/throw example and sxbuiltins' cond.go shape for
// a two-special-form pairing.
var Try = fexpr("try", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 2 {
		return nil, term.ArityError{Name: "try", Want: 2, Got: args.Len()}
	}
	clause, ok := term.GetList(nth(args, 1))
	if !ok || clause.Len() != 3 {
		return nil, fmt.Errorf("try: malformed catch clause")
	}
	head, _ := clause.First().(term.Sym)
	if head != "catch" {
		return nil, fmt.Errorf("try: expected (catch name handler)")
	}
	name, ok := nth(clause, 1).(term.Sym)
	if !ok {
		return nil, term.TypeError{Want: "Sym", Got: nth(clause, 1)}
	}
	handlerEnv := e.Capture()
	handler := &machine.Lambda{Name: "catch", Params: []term.Sym{name}, Body: nth(clause, 2), Env: handlerEnv}
	return []machine.Cont{
		&machine.CatchCont{Frame: machine.Frame{Env: e}, Handler: handler},
		&machine.EvalExprCont{Frame: machine.Frame{Env: e}, Term: nth(args, 0)},
	}, nil
})

// Defmacro implements (defmacro name (params...) body): registers a
// rewrite rule in the machine's macro table. Grounded on
// sxbuiltins/macro.go: at expansion time the body is evaluated with the
// params bound to the unevaluated argument forms, and its value replaces
// the call (no hygiene/gensym).
var Defmacro = fexpr("defmacro", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() < 3 {
		return nil, term.ArityError{Name: "defmacro", Want: 3, Got: args.Len()}
	}
	sym, ok := nth(args, 0).(term.Sym)
	if !ok {
		return nil, term.TypeError{Want: "Sym", Got: nth(args, 0)}
	}
	params, err := buildParams(nth(args, 1))
	if err != nil {
		return nil, err
	}
	body := bodyOf(args.Rest().Rest())
	m.Macros.Define(&machine.Macro{Name: string(sym), Params: params, Body: body})
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: term.TheUnit}}, nil
})

// Fexpr implements (fexpr (params...) body): a user-defined operative,
// receiving its arguments unevaluated as a bound list-valued param the
// way Kernel-style $vau does. Here the single param names the whole
// argument list (a simplified single-parameter vau, since spec.md does
// not specify an environment-capture parameter).
var Fexpr = fexpr("fexpr", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() < 2 {
		return nil, term.ArityError{Name: "fexpr", Want: 2, Got: args.Len()}
	}
	params, err := buildParams(nth(args, 0))
	if err != nil {
		return nil, err
	}
	if len(params) != 1 {
		return nil, term.ArityError{Name: "fexpr", Want: 1, Got: len(params)}
	}
	argsName := params[0]
	body := bodyOf(args.Rest())
	closureEnv := e.Capture()
	fx := fexpr("#<fexpr>", func(m *machine.Machine, callArgs *term.List, callEnv *env.Environment) ([]machine.Cont, error) {
		callerEnv := closureEnv.Capture()
		callerEnv.Define(argsName, orNil(callArgs))
		return []machine.Cont{&machine.EvalExprCont{Frame: machine.Frame{Env: callerEnv}, Term: body}}, nil
	})
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: fx}}, nil
})

func orNil(l *term.List) term.Object {
	if l == nil {
		return term.Nil()
	}
	return l
}

// Eval implements (eval expr env?): evaluate an already-built term,
// optionally in a different environment.
var Eval = fexpr("eval", func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() < 1 || args.Len() > 2 {
		return nil, term.ArityError{Name: "eval", Want: 1, Got: args.Len()}
	}
	var envTerm term.Object
	if args.Len() == 2 {
		envTerm = nth(args, 1)
	}
	return []machine.Cont{
		&machine.EvalFormCont{Frame: machine.Frame{Env: e}, EnvTerm: envTerm},
		&machine.EvalExprCont{Frame: machine.Frame{Env: e}, Term: nth(args, 0)},
	}, nil
})
