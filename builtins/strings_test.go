package builtins_test

import "testing"

func TestStringOps(t *testing.T) {
	t.Parallel()
	tcsStrings.run(t)
}

var tcsStrings = tCases{
	{name: "concat", src: `(str/concat "foo" "bar")`, exp: `"foobar"`},
	{name: "len", src: `(str/len "hello")`, exp: "5"},
	{name: "upper", src: `(str/upper "abc")`, exp: `"ABC"`},
	{name: "lower", src: `(str/lower "ABC")`, exp: `"abc"`},
	{name: "split", src: `(str/split "a,b,c" ",")`, exp: `("a" "b" "c")`},
	{name: "concat-wrong-type", src: `(str/concat "a" 1)`, withErr: true},
}
