package builtins_test

import "testing"

func TestArith(t *testing.T) {
	t.Parallel()
	tcsArith.run(t)
}

var tcsArith = tCases{
	{name: "add-0", src: "(+)", exp: "0"},
	{name: "add-n", src: "(+ 1 2 3)", exp: "6"},
	{name: "sub-unary", src: "(- 5)", exp: "-5"},
	{name: "sub-n", src: "(- 10 3 2)", exp: "5"},
	{name: "mul-0", src: "(*)", exp: "1"},
	{name: "mul-n", src: "(* 2 3 4)", exp: "24"},
	{name: "div-n", src: "(/ 12 2 3)", exp: "2"},
	{name: "div-by-zero", src: "(/ 1 0)", withErr: true},
	{name: "mod", src: "(% 7 3)", exp: "1"},
	{name: "lt-chain", src: "(< 1 2 3)", exp: "true"},
	{name: "lt-chain-false", src: "(< 1 3 2)", exp: "false"},
	{name: "le", src: "(<= 2 2 3)", exp: "true"},
	{name: "gt", src: "(> 3 2 1)", exp: "true"},
	{name: "ge", src: "(>= 3 3 2)", exp: "true"},
	{name: "eq-nums", src: "(= 1 1 1)", exp: "true"},
	{name: "eq-mixed-false", src: `(= 1 "1")`, exp: "false"},
	{name: "neq", src: "(!= 1 2)", exp: "true"},
	{name: "wrong-type", src: `(+ 1 "x")`, withErr: true},
	{name: "nested-arith", src: "(+ (* 2 3) (- 10 4))", exp: "12"},
}
