package machine_test

import (
	"testing"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/term"
)

// mulNative, listNative and quoteFExpr mirror the builtins package's "*",
// "list" and "quote" closely enough to let a macro body construct and
// evaluate real forms, without importing builtins.
func mulNative() *machine.Native {
	return &machine.Native{Name: "*", Fn: func(args []term.Object, _ *env.Environment) (term.Object, error) {
		a := args[0].(term.Num)
		b := args[1].(term.Num)
		return a * b, nil
	}}
}

func listNative() *machine.Native {
	return &machine.Native{Name: "list", Fn: func(args []term.Object, _ *env.Environment) (term.Object, error) {
		return term.MakeList(args...), nil
	}}
}

func quoteFExpr() *machine.FExpr {
	return &machine.FExpr{Name: "quote", Fn: func(_ *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
		return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: args.First()}}, nil
	}}
}

func TestExpandEvaluatesMacroBody(t *testing.T) {
	t.Parallel()

	m := newMachine()
	e := env.New()
	e.Define("if", ifFExpr())
	m.Macros.Define(&machine.Macro{
		Name:   "unless",
		Params: []term.Sym{"cond", "body"},
		Body:   term.MakeList(term.Sym("if"), term.Sym("cond"), term.Nil(), term.Sym("body")),
	})
	call := term.MakeList(term.Sym("unless"), term.Bool(false), term.Num(99))
	got, err := m.Expand(call, e)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := term.Num(99)
	if !got.IsEqual(want) {
		t.Errorf("Expand(unless) = %v, want %v", got, want)
	}
}

func TestExpandLeavesNonMacroFormsAlone(t *testing.T) {
	t.Parallel()

	m := newMachine()
	form := term.MakeList(term.Sym("+"), term.Num(1), term.Num(2))
	got, err := m.Expand(form, env.New())
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !got.IsEqual(form) {
		t.Errorf("Expand should leave a form with no registered macro unchanged, got %v", got)
	}
}

func TestExpandRecursesIntoSubforms(t *testing.T) {
	t.Parallel()

	m := newMachine()
	e := env.New()
	e.Define("*", mulNative())
	m.Macros.Define(&machine.Macro{
		Name:   "sq",
		Params: []term.Sym{"x"},
		Body:   term.MakeList(term.Sym("*"), term.Sym("x"), term.Sym("x")),
	})
	form := term.MakeList(term.Sym("+"), term.MakeList(term.Sym("sq"), term.Num(3)), term.Num(1))
	got, err := m.Expand(form, e)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := term.MakeList(term.Sym("+"), term.Num(9), term.Num(1))
	if !got.IsEqual(want) {
		t.Errorf("Expand should rewrite nested macro calls, got %v, want %v", got, want)
	}
}

func TestExpandArityMismatch(t *testing.T) {
	t.Parallel()

	m := newMachine()
	m.Macros.Define(&machine.Macro{Name: "one-arg", Params: []term.Sym{"x"}, Body: term.Sym("x")})
	call := term.MakeList(term.Sym("one-arg"), term.Num(1), term.Num(2))
	if _, err := m.Expand(call, env.New()); err == nil {
		t.Error("Expand must reject a macro call with the wrong arity")
	}
}

func TestExpandSelfReferentialMacroErrors(t *testing.T) {
	t.Parallel()

	m := newMachine()
	e := env.New()
	e.Define("list", listNative())
	e.Define("quote", quoteFExpr())
	// A macro whose body constructs a fresh call of itself must be
	// caught rather than looping forever.
	m.Macros.Define(&machine.Macro{
		Name:   "loopy",
		Params: []term.Sym{"x"},
		Body:   term.MakeList(term.Sym("list"), term.MakeList(term.Sym("quote"), term.Sym("loopy")), term.Sym("x")),
	})
	call := term.MakeList(term.Sym("loopy"), term.Num(1))
	if _, err := m.Expand(call, e); err == nil {
		t.Error("Expand must reject a self-referential macro expansion")
	}
}
