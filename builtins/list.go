package builtins

import (
	"sort"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/term"
)

func asList(v term.Object) (*term.List, error) {
	l, ok := term.GetList(v)
	if !ok {
		return nil, term.TypeError{Want: "List", Got: v}
	}
	return l, nil
}

// Cons implements (cons car cdr).
var Cons = native("cons", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 2 {
		return nil, term.ArityError{Name: "cons", Want: 2, Got: len(args)}
	}
	cdr, err := asList(args[1])
	if err != nil {
		return nil, err
	}
	return term.Cons(args[0], cdr), nil
})

// First implements (first l).
var First = native("first", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "first", Want: 1, Got: len(args)}
	}
	l, err := asList(args[0])
	if err != nil {
		return nil, err
	}
	return l.First(), nil
})

// Rest implements (rest l).
var Rest = native("rest", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "rest", Want: 1, Got: len(args)}
	}
	l, err := asList(args[0])
	if err != nil {
		return nil, err
	}
	return orNilList(l.Rest()), nil
})

func orNilList(l *term.List) term.Object {
	if l == nil {
		return term.Nil()
	}
	return l
}

// Head is spec's name for First.
var Head = native("head", func(args []term.Object, e *env.Environment) (term.Object, error) {
	return First.Fn(args, e)
})

// Tail is spec's name for Rest.
var Tail = native("tail", func(args []term.Object, e *env.Environment) (term.Object, error) {
	return Rest.Fn(args, e)
})

// Empty implements (empty? l).
var Empty = native("empty?", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "empty?", Want: 1, Got: len(args)}
	}
	l, err := asList(args[0])
	if err != nil {
		return nil, err
	}
	return term.Bool(l.IsNil()), nil
})

// IsNilValue implements (nil? v): true for the empty list, false for
// anything else (including Unit, which is a distinct self value).
var IsNilValue = native("nil?", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "nil?", Want: 1, Got: len(args)}
	}
	return term.Bool(term.IsNil(args[0])), nil
})

// ListOf implements (list a...): builds a list of its (already
// evaluated) arguments.
var ListOf = native("list", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	return term.MakeList(args...), nil
})

// ListLength implements (list/length l).
var ListLength = native("list/length", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "list/length", Want: 1, Got: len(args)}
	}
	l, err := asList(args[0])
	if err != nil {
		return nil, err
	}
	return term.Num(l.Len()), nil
})

// ListAppend implements (list/append l v).
var ListAppend = native("list/append", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 2 {
		return nil, term.ArityError{Name: "list/append", Want: 2, Got: len(args)}
	}
	l, err := asList(args[0])
	if err != nil {
		return nil, err
	}
	return l.Append(args[1]), nil
})

// ListReverse implements (list/reverse l).
var ListReverse = native("list/reverse", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "list/reverse", Want: 1, Got: len(args)}
	}
	l, err := asList(args[0])
	if err != nil {
		return nil, err
	}
	return orNilList(l.Reverse()), nil
})

// ListMap implements (list/map f l): f is applied to each element via a
// nested machine evaluation, grounded on sxbuiltins/mapfold.go's Map.
var ListMap = fexpr("list/map", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 2 {
		return nil, term.ArityError{Name: "list/map", Want: 2, Got: args.Len()}
	}
	fn, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	lv, err := m.Eval(nth(args, 1), e)
	if err != nil {
		return nil, err
	}
	l, err := asList(lv)
	if err != nil {
		return nil, err
	}
	out := make([]term.Object, l.Len())
	for i, v := range l.Values() {
		r, err := m.Apply(fn, []term.Object{v}, e)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: term.MakeList(out...)}}, nil
})

// ListFilter implements (list/filter pred l).
var ListFilter = fexpr("list/filter", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 2 {
		return nil, term.ArityError{Name: "list/filter", Want: 2, Got: args.Len()}
	}
	fn, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	lv, err := m.Eval(nth(args, 1), e)
	if err != nil {
		return nil, err
	}
	l, err := asList(lv)
	if err != nil {
		return nil, err
	}
	var out []term.Object
	for _, v := range l.Values() {
		r, err := m.Apply(fn, []term.Object{v}, e)
		if err != nil {
			return nil, err
		}
		if term.IsTruthy(r) {
			out = append(out, v)
		}
	}
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: term.MakeList(out...)}}, nil
})

// ListReduce implements (list/reduce f init l), folding left to right.
var ListReduce = fexpr("list/reduce", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 3 {
		return nil, term.ArityError{Name: "list/reduce", Want: 3, Got: args.Len()}
	}
	fn, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	acc, err := m.Eval(nth(args, 1), e)
	if err != nil {
		return nil, err
	}
	lv, err := m.Eval(nth(args, 2), e)
	if err != nil {
		return nil, err
	}
	l, err := asList(lv)
	if err != nil {
		return nil, err
	}
	for _, v := range l.Values() {
		acc, err = m.Apply(fn, []term.Object{acc, v}, e)
		if err != nil {
			return nil, err
		}
	}
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: acc}}, nil
})

// ListSort implements (list/sort less l).
var ListSort = fexpr("list/sort", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 2 {
		return nil, term.ArityError{Name: "list/sort", Want: 2, Got: args.Len()}
	}
	fn, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	lv, err := m.Eval(nth(args, 1), e)
	if err != nil {
		return nil, err
	}
	l, err := asList(lv)
	if err != nil {
		return nil, err
	}
	vals := l.Values()
	var sortErr error
	sort.SliceStable(vals, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		r, err := m.Apply(fn, []term.Object{vals[i], vals[j]}, e)
		if err != nil {
			sortErr = err
			return false
		}
		return term.IsTruthy(r)
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: term.MakeList(vals...)}}, nil
})
