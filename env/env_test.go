package env_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/term"
)

func TestDefineLookup(t *testing.T) {
	t.Parallel()

	e := env.New()
	e.Define("x", term.Num(1))
	v, err := e.Lookup("x")
	if err != nil || !v.IsEqual(term.Num(1)) {
		t.Fatalf("Lookup(x) = %v, %v", v, err)
	}
	if _, err := e.Lookup("missing"); err == nil {
		t.Error("Lookup of an unbound symbol must fail")
	}
}

func TestCaptureChainsToParent(t *testing.T) {
	t.Parallel()

	parent := env.New()
	parent.Define("x", term.Num(1))
	child := parent.Capture()
	v, err := child.Lookup("x")
	if err != nil || !v.IsEqual(term.Num(1)) {
		t.Fatalf("child should see parent's binding: %v, %v", v, err)
	}
	child.Define("x", term.Num(2))
	pv, _ := parent.Lookup("x")
	if !pv.IsEqual(term.Num(1)) {
		t.Errorf("defining in a child must not mutate the parent: parent x = %v", pv)
	}
}

func TestSetBangWalksChain(t *testing.T) {
	t.Parallel()

	parent := env.New()
	parent.Define("x", term.Num(1))
	child := parent.Capture()
	if err := child.SetBang("x", term.Num(9)); err != nil {
		t.Fatalf("SetBang: %v", err)
	}
	v, _ := parent.Lookup("x")
	if !v.IsEqual(term.Num(9)) {
		t.Errorf("SetBang must mutate the defining frame, got %v", v)
	}
	if err := child.SetBang("undefined", term.Num(0)); err == nil {
		t.Error("SetBang on an unbound symbol must fail")
	}
}

func TestDerive(t *testing.T) {
	t.Parallel()

	root := env.New()
	child, err := root.Derive("f", []term.Sym{"a", "b"}, []term.Object{term.Num(1), term.Num(2)})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	a, _ := child.Lookup("a")
	b, _ := child.Lookup("b")
	if !a.IsEqual(term.Num(1)) || !b.IsEqual(term.Num(2)) {
		t.Errorf("Derive bindings: a=%v b=%v", a, b)
	}
	if _, err := root.Derive("f", []term.Sym{"a"}, []term.Object{}); err == nil {
		t.Error("Derive must reject mismatched arity")
	}
}

func TestDottedFieldLookup(t *testing.T) {
	t.Parallel()

	e := env.New()
	exc := term.Exception{Message: "oops", Payload: term.Num(1)}
	e.Define("err", exc)
	v, lookupErr := e.Lookup("err.message")
	if lookupErr != nil || !v.IsEqual(term.Str("oops")) {
		t.Fatalf("err.message = %v, %v", v, lookupErr)
	}

	h := term.NewHash()
	h.Store(term.MakeKey("k"), term.Num(5))
	e.Define("tbl", h)
	v, lookupErr = e.Lookup("tbl.k")
	if lookupErr != nil || !v.IsEqual(term.Num(5)) {
		t.Fatalf("tbl.k = %v, %v", v, lookupErr)
	}
}

func TestDottedSymbolPreferredAsPlainBinding(t *testing.T) {
	t.Parallel()

	// A symbol containing a dot that is itself bound must resolve as a
	// plain lookup, never as field-access sugar.
	e := env.New()
	e.Define("a.b", term.Num(42))
	v, err := e.Lookup("a.b")
	if err != nil || !v.IsEqual(term.Num(42)) {
		t.Fatalf("a.b = %v, %v, want the plain binding 42", v, err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	parent := env.New()
	parent.Define("x", term.Num(1))
	child := parent.Capture()
	child.Define("y", term.Num(2))

	snap := child.Snapshot()
	want := map[term.Sym]term.Object{"x": term.Num(1), "y": term.Num(2)}
	if diff := cmp.Diff(want, snap, cmp.Comparer(func(a, b term.Object) bool { return a.IsEqual(b) })); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}

	fresh := env.FromSnapshot(snap)
	v, err := fresh.Lookup("y")
	if err != nil || !v.IsEqual(term.Num(2)) {
		t.Fatalf("FromSnapshot should preserve bindings: %v, %v", v, err)
	}

	// Mutating the rebuilt environment must not affect the snapshot map
	// or the process that took it.
	fresh.Define("y", term.Num(99))
	if snap["y"].(term.Num) != 2 {
		t.Error("mutating the rebuilt environment leaked back into the snapshot")
	}
}

func TestKeysLocalFrameOnly(t *testing.T) {
	t.Parallel()

	parent := env.New()
	parent.Define("x", term.Num(1))
	child := parent.Capture()
	child.Define("y", term.Num(2))

	keys := child.Keys()
	if len(keys) != 1 || keys[0] != term.MakeKey("y") {
		t.Errorf("Keys() should report only the local frame, got %v", keys)
	}
}
