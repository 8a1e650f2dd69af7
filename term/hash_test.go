package term_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/slight-lang/slight/term"
)

func TestMakeHash(t *testing.T) {
	t.Parallel()

	h, err := term.MakeHash(term.MakeKey("a"), term.Num(1), term.MakeKey("b"), term.Num(2))
	if err != nil {
		t.Fatalf("MakeHash: %v", err)
	}
	v, ok := h.Fetch(term.MakeKey("a"))
	if !ok || !v.IsEqual(term.Num(1)) {
		t.Errorf("Fetch(:a) = %v, %v, want 1, true", v, ok)
	}

	if _, err := term.MakeHash(term.MakeKey("a")); err != term.ErrOddTableArgs {
		t.Errorf("odd arguments: got err %v, want ErrOddTableArgs", err)
	}
	if _, err := term.MakeHash(term.Num(1), term.Num(2)); err == nil {
		t.Error("a non-Key key must be rejected")
	}
}

func TestHashStoreDeleteExists(t *testing.T) {
	t.Parallel()

	h := term.NewHash()
	h.Store(term.MakeKey("k"), term.Num(7))
	if !h.Exists(term.MakeKey("k")) {
		t.Error("Exists(:k) should be true after Store")
	}
	h.Delete(term.MakeKey("k"))
	if h.Exists(term.MakeKey("k")) {
		t.Error("Exists(:k) should be false after Delete")
	}
}

func TestHashKeysOrder(t *testing.T) {
	t.Parallel()

	h := term.NewHash()
	h.Store(term.MakeKey("z"), term.Num(1))
	h.Store(term.MakeKey("a"), term.Num(2))
	h.Store(term.MakeKey("m"), term.Num(3))
	exp := []term.Key{term.MakeKey("z"), term.MakeKey("a"), term.MakeKey("m")}
	if diff := cmp.Diff(exp, h.Keys()); diff != "" {
		t.Errorf("Keys() did not preserve insertion order (-want +got):\n%s", diff)
	}
}

func TestHashCopyIsIndependent(t *testing.T) {
	t.Parallel()

	h := term.NewHash()
	h.Store(term.MakeKey("k"), term.Num(1))
	cp := h.Copy()
	cp.Store(term.MakeKey("k"), term.Num(2))
	v, _ := h.Fetch(term.MakeKey("k"))
	if !v.IsEqual(term.Num(1)) {
		t.Errorf("mutating a copy must not affect the original: got %v", v)
	}
}

func TestHashIsEqual(t *testing.T) {
	t.Parallel()

	a, _ := term.MakeHash(term.MakeKey("a"), term.Num(1))
	b, _ := term.MakeHash(term.MakeKey("a"), term.Num(1))
	c, _ := term.MakeHash(term.MakeKey("a"), term.Num(2))
	if !a.IsEqual(b) {
		t.Error("hashes with identical entries must compare equal")
	}
	if a.IsEqual(c) {
		t.Error("hashes differing in a value must not compare equal")
	}
}
