package term_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/slight-lang/slight/term"
)

func objEqual(a, b term.Object) bool { return a.IsEqual(b) }

func TestListNil(t *testing.T) {
	t.Parallel()

	var l *term.List
	if l != term.Nil() {
		t.Error("an uninitialized *List is not Nil()")
	}
	if !term.Nil().IsNil() {
		t.Error("Nil() must be IsNil")
	}
	if term.Nil().Len() != 0 {
		t.Error("Nil().Len() != 0")
	}
}

func TestListCons(t *testing.T) {
	t.Parallel()

	l := term.Cons(term.Num(1), term.MakeList(term.Num(2), term.Num(3)))
	exp := []term.Object{term.Num(1), term.Num(2), term.Num(3)}
	if diff := cmp.Diff(exp, l.Values(), cmp.Comparer(objEqual)); diff != "" {
		t.Errorf("Cons result mismatch (-want +got):\n%s", diff)
	}
	if got := term.Cons(term.Num(1), nil).Len(); got != 1 {
		t.Errorf("Cons onto nil: Len() = %d, want 1", got)
	}
}

func TestListFirstRest(t *testing.T) {
	t.Parallel()

	l := term.MakeList(term.Num(1), term.Num(2), term.Num(3))
	if !l.First().IsEqual(term.Num(1)) {
		t.Errorf("First() = %v, want 1", l.First())
	}
	rest := l.Rest()
	if diff := cmp.Diff([]term.Object{term.Num(2), term.Num(3)}, rest.Values(), cmp.Comparer(objEqual)); diff != "" {
		t.Errorf("Rest() mismatch (-want +got):\n%s", diff)
	}
	if !term.Nil().First().IsEqual(term.Nil()) {
		t.Error("First() of the empty list must be Nil()")
	}
	if got := term.MakeList(term.Num(1)).Rest(); got.Len() != 0 {
		t.Errorf("Rest() of a singleton must be empty, got %v", got)
	}
}

// Rest shares the backing array with its parent: taking it must not
// change the parent's visible length.
func TestListRestSharesStorage(t *testing.T) {
	t.Parallel()

	l := term.MakeList(term.Num(1), term.Num(2), term.Num(3))
	rest := l.Rest()
	if l.Len() != 3 || rest.Len() != 2 {
		t.Errorf("Rest() must not mutate the parent's length: l.Len()=%d rest.Len()=%d", l.Len(), rest.Len())
	}
}

func TestListReverseAppendConcat(t *testing.T) {
	t.Parallel()

	l := term.MakeList(term.Num(1), term.Num(2), term.Num(3))
	if diff := cmp.Diff([]term.Object{term.Num(3), term.Num(2), term.Num(1)}, l.Reverse().Values(), cmp.Comparer(objEqual)); diff != "" {
		t.Errorf("Reverse() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]term.Object{term.Num(1), term.Num(2), term.Num(3), term.Num(4)}, l.Append(term.Num(4)).Values(), cmp.Comparer(objEqual)); diff != "" {
		t.Errorf("Append() mismatch (-want +got):\n%s", diff)
	}
	other := term.MakeList(term.Num(4), term.Num(5))
	if diff := cmp.Diff([]term.Object{term.Num(1), term.Num(2), term.Num(3), term.Num(4), term.Num(5)}, l.Concat(other).Values(), cmp.Comparer(objEqual)); diff != "" {
		t.Errorf("Concat() mismatch (-want +got):\n%s", diff)
	}
}

func TestListIsEqual(t *testing.T) {
	t.Parallel()

	a := term.MakeList(term.Num(1), term.Str("x"))
	b := term.MakeList(term.Num(1), term.Str("x"))
	c := term.MakeList(term.Num(1), term.Str("y"))
	if !a.IsEqual(b) {
		t.Error("structurally-equal lists must compare equal")
	}
	if a.IsEqual(c) {
		t.Error("lists differing in one element must not compare equal")
	}
	if !term.Nil().IsEqual(term.Nil()) {
		t.Error("Nil() must equal Nil()")
	}
}

func TestListBuilder(t *testing.T) {
	t.Parallel()

	var b term.ListBuilder
	b.Add(term.Num(1))
	b.Add(term.Num(2))
	if diff := cmp.Diff([]term.Object{term.Num(1), term.Num(2)}, b.List().Values(), cmp.Comparer(objEqual)); diff != "" {
		t.Errorf("ListBuilder result mismatch (-want +got):\n%s", diff)
	}
}

func TestListPrint(t *testing.T) {
	t.Parallel()

	l := term.MakeList(term.Num(1), term.Str("a"), term.MakeKey("k"))
	if got, exp := l.String(), `(1 "a" :k)`; got != exp {
		t.Errorf("String() = %q, want %q", got, exp)
	}
	if got, exp := term.Nil().String(), "()"; got != exp {
		t.Errorf("Nil().String() = %q, want %q", got, exp)
	}
}
