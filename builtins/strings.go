package builtins

import (
	"strings"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/term"
)

func asStr(v term.Object) (term.Str, error) {
	s, ok := v.(term.Str)
	if !ok {
		return "", term.TypeError{Want: "Str", Got: v}
	}
	return s, nil
}

// StrConcat implements (str/concat s...). Grounded on sxbuiltins/strings.go's Concat.
var StrConcat = native("str/concat", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	var sb strings.Builder
	for i, a := range args {
		s, err := asStr(a)
		if err != nil {
			return nil, term.TypeError{Want: "Str", Got: args[i]}
		}
		sb.WriteString(string(s))
	}
	return term.Str(sb.String()), nil
})

// StrLen implements (str/len s), counting runes.
var StrLen = native("str/len", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "str/len", Want: 1, Got: len(args)}
	}
	s, err := asStr(args[0])
	if err != nil {
		return nil, err
	}
	return term.Num(len([]rune(string(s)))), nil
})

// StrUpper implements (str/upper s).
var StrUpper = native("str/upper", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "str/upper", Want: 1, Got: len(args)}
	}
	s, err := asStr(args[0])
	if err != nil {
		return nil, err
	}
	return term.Str(strings.ToUpper(string(s))), nil
})

// StrLower implements (str/lower s).
var StrLower = native("str/lower", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "str/lower", Want: 1, Got: len(args)}
	}
	s, err := asStr(args[0])
	if err != nil {
		return nil, err
	}
	return term.Str(strings.ToLower(string(s))), nil
})

// StrSplit implements (str/split s sep), returning a list of Str.
var StrSplit = native("str/split", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 2 {
		return nil, term.ArityError{Name: "str/split", Want: 2, Got: len(args)}
	}
	s, err := asStr(args[0])
	if err != nil {
		return nil, err
	}
	sep, err := asStr(args[1])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(string(s), string(sep))
	out := make([]term.Object, len(parts))
	for i, p := range parts {
		out[i] = term.Str(p)
	}
	return term.MakeList(out...), nil
})
