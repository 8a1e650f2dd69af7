package builtins

import (
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/term"
)

func asNum(v term.Object) (term.Num, error) {
	n, ok := v.(term.Num)
	if !ok {
		return 0, term.TypeError{Want: "Num", Got: v}
	}
	return n, nil
}

func nums(args []term.Object) ([]term.Num, error) {
	out := make([]term.Num, len(args))
	for i, a := range args {
		n, err := asNum(a)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Add implements (+ n...), the additive identity when given no args.
var Add = native("+", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	ns, err := nums(args)
	if err != nil {
		return nil, err
	}
	var acc term.Num
	for _, n := range ns {
		acc += n
	}
	return acc, nil
})

// Sub implements (- n n...): unary negation with one arg, subtraction
// left-to-right with more.
var Sub = native("-", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	ns, err := nums(args)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, term.ArityError{Name: "-", Want: 1, Got: 0}
	}
	if len(ns) == 1 {
		return -ns[0], nil
	}
	acc := ns[0]
	for _, n := range ns[1:] {
		acc -= n
	}
	return acc, nil
})

// Mul implements (* n...), the multiplicative identity when given no args.
var Mul = native("*", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	ns, err := nums(args)
	if err != nil {
		return nil, err
	}
	acc := term.Num(1)
	for _, n := range ns {
		acc *= n
	}
	return acc, nil
})

// Div implements (/ n n...), left-to-right division.
var Div = native("/", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	ns, err := nums(args)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return nil, term.ArityError{Name: "/", Want: 1, Got: 0}
	}
	if len(ns) == 1 {
		if ns[0] == 0 {
			return nil, divByZero
		}
		return term.Num(1) / ns[0], nil
	}
	acc := ns[0]
	for _, n := range ns[1:] {
		if n == 0 {
			return nil, divByZero
		}
		acc /= n
	}
	return acc, nil
})

var divByZero = term.RuntimeError{Payload: term.Str("division by zero")}

// Mod implements (% a b).
var Mod = native("%", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 2 {
		return nil, term.ArityError{Name: "%", Want: 2, Got: len(args)}
	}
	ns, err := nums(args)
	if err != nil {
		return nil, err
	}
	if ns[1] == 0 {
		return nil, divByZero
	}
	a, b := int64(ns[0]), int64(ns[1])
	return term.Num(a % b), nil
})

func cmpChain(name string, args []term.Object, ok func(a, b term.Num) bool) (term.Object, error) {
	ns, err := nums(args)
	if err != nil {
		return nil, err
	}
	if len(ns) < 2 {
		return nil, term.ArityError{Name: name, Want: 2, Got: len(ns)}
	}
	for i := 1; i < len(ns); i++ {
		if !ok(ns[i-1], ns[i]) {
			return term.Bool(false), nil
		}
	}
	return term.Bool(true), nil
}

var Lt = native("<", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	return cmpChain("<", args, func(a, b term.Num) bool { return a < b })
})

var Le = native("<=", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	return cmpChain("<=", args, func(a, b term.Num) bool { return a <= b })
})

var Gt = native(">", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	return cmpChain(">", args, func(a, b term.Num) bool { return a > b })
})

var Ge = native(">=", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	return cmpChain(">=", args, func(a, b term.Num) bool { return a >= b })
})

// Eq implements (= a b...): structural equality across all arguments.
var Eq = native("=", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) < 2 {
		return nil, term.ArityError{Name: "=", Want: 2, Got: len(args)}
	}
	for i := 1; i < len(args); i++ {
		if !args[i-1].IsEqual(args[i]) {
			return term.Bool(false), nil
		}
	}
	return term.Bool(true), nil
})

// Neq implements (!= a b).
var Neq = native("!=", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 2 {
		return nil, term.ArityError{Name: "!=", Want: 2, Got: len(args)}
	}
	return term.Bool(!args[0].IsEqual(args[1])), nil
})
