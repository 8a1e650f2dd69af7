package machine

import (
	"fmt"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/term"
)

// Callable is the common interface of the two callable term variants.
// Applicative callables (Lambda, Native) receive pre-evaluated arguments;
// Operative callables (FExpr) receive the raw, unevaluated argument list.
type Callable interface {
	term.Object
	CallableName() string
}

// IsOperative reports whether c is an operative (FExpr): arguments are
// not evaluated before the call.
func IsOperative(c Callable) bool {
	_, ok := c.(*FExpr)
	return ok
}

// Lambda is a user-defined closure: its params, its body, and the
// environment active at the point it was created (lambda does not build
// a fresh child; that happens at call time via Environment.Derive).
type Lambda struct {
	Name   string
	Params []term.Sym
	Body   term.Object
	Env    *env.Environment
}

func (l *Lambda) CallableName() string {
	if l.Name != "" {
		return l.Name
	}
	return "#<lambda>"
}
func (l *Lambda) IsNil() bool  { return false }
func (l *Lambda) IsAtom() bool { return false }
func (l *Lambda) IsEqual(o term.Object) bool {
	ol, ok := o.(*Lambda)
	return ok && l == ol
}
func (l *Lambda) String() string { return fmt.Sprintf("#<lambda:%s/%d>", l.CallableName(), len(l.Params)) }

// Native is a builtin applicative: its arguments arrive pre-evaluated.
type Native struct {
	Name string
	Fn   func(args []term.Object, e *env.Environment) (term.Object, error)
}

func (n *Native) CallableName() string { return n.Name }
func (n *Native) IsNil() bool          { return false }
func (n *Native) IsAtom() bool         { return true }
func (n *Native) IsEqual(o term.Object) bool {
	on, ok := o.(*Native)
	return ok && n == on
}
func (n *Native) String() string { return fmt.Sprintf("#<native:%s>", n.Name) }

// FExpr is a builtin operative: its arguments arrive unevaluated. Its
// function returns the sequence of continuations to push to carry out
// its effect (spec §4.3, ApplyOperative).
type FExpr struct {
	Name string
	Fn   func(m *Machine, args *term.List, e *env.Environment) ([]Cont, error)
}

func (f *FExpr) CallableName() string { return f.Name }
func (f *FExpr) IsNil() bool          { return false }
func (f *FExpr) IsAtom() bool         { return true }
func (f *FExpr) IsEqual(o term.Object) bool {
	of, ok := o.(*FExpr)
	return ok && f == of
}
func (f *FExpr) String() string { return fmt.Sprintf("#<fexpr:%s>", f.Name) }
