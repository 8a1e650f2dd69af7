package term_test

import (
	"strings"
	"testing"

	"github.com/slight-lang/slight/term"
)

func TestIsNil(t *testing.T) {
	t.Parallel()

	if !term.IsNil(nil) {
		t.Error("a nil interface value is not considered IsNil")
	}
	var l *term.List
	if !term.IsNil(l) {
		t.Error("a nil *List is not considered IsNil")
	}
	if term.IsNil(term.TheUnit) {
		t.Error("Unit must not be Nil")
	}
	if term.IsNil(term.Bool(false)) {
		t.Error("Bool(false) must not be Nil")
	}
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name string
		val  term.Object
		exp  bool
	}{
		{"nil", nil, false},
		{"empty-list", term.Nil(), false},
		{"false", term.Bool(false), false},
		{"true", term.Bool(true), true},
		{"zero", term.Num(0), false},
		{"nonzero", term.Num(1), true},
		{"empty-str", term.Str(""), false},
		{"nonempty-str", term.Str("x"), true},
		{"nonempty-list", term.MakeList(term.Num(1)), true},
		{"unit", term.TheUnit, true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			if got := term.IsTruthy(tc.val); got != tc.exp {
				t.Errorf("IsTruthy(%v) = %v, want %v", tc.val, got, tc.exp)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name string
		val  term.Object
		exp  string
	}{
		{"str", term.Str("a\"b"), `"a\"b"`},
		{"nil", nil, "()"},
		{"num", term.Num(3), "3"},
		{"key", term.MakeKey("foo"), ":foo"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var sb strings.Builder
			if _, err := term.Print(&sb, tc.val); err != nil {
				t.Fatalf("Print: %v", err)
			}
			if got := sb.String(); got != tc.exp {
				t.Errorf("Print(%v) = %q, want %q", tc.val, got, tc.exp)
			}
		})
	}
}
