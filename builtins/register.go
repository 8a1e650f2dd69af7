package builtins

import (
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/term"
)

// Install populates e with every special form and native procedure
// the language provides, the way cmd/main.go wires a full sxbuiltins
// prelude into a fresh sxeval.Environment before running anything.
func Install(e *env.Environment) {
	operatives := []machine.Callable{
		Def, SetBang, If, Cond, Lambda, Defun, Begin, Quote, And, Or, Throw, Try,
		Defmacro, Fexpr, Eval, Include,
		ListMap, ListFilter, ListReduce, ListSort,
		Self, Spawn, Send, Recv, IsAlive, Kill, Processes,
		Print, Say, Readline,
	}
	for _, c := range operatives {
		e.Define(term.Sym(c.CallableName()), c)
	}

	natives := []machine.Callable{
		Add, Sub, Mul, Div, Mod, Lt, Le, Gt, Ge, Eq, Neq,
		Cons, First, Rest, Head, Tail, Empty, IsNilValue,
		ListOf, ListLength, ListAppend, ListReverse,
		Table, Fetch, Store, DeleteKey, Exists, TableKeys,
		StrConcat, StrLen, StrUpper, StrLower, StrSplit,
	}
	for _, c := range natives {
		e.Define(term.Sym(c.CallableName()), c)
	}
}
