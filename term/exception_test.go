package term_test

import (
	"errors"
	"testing"

	"github.com/slight-lang/slight/term"
)

func TestMakeThrowPreservesException(t *testing.T) {
	t.Parallel()

	exc := term.Exception{Message: "boom", Payload: term.Num(1)}
	if got := term.MakeThrow(exc); got != exc {
		t.Errorf("MakeThrow must return an Exception payload unchanged, got %v", got)
	}
	wrapped := term.MakeThrow(term.Num(9))
	if wrapped.Message != "9" || !wrapped.Payload.IsEqual(term.Num(9)) {
		t.Errorf("MakeThrow(9) = %+v", wrapped)
	}
}

func TestMakeException(t *testing.T) {
	t.Parallel()

	err := errors.New("kaboom")
	exc := term.MakeException(err)
	if exc.Message != "kaboom" {
		t.Errorf("Message = %q, want %q", exc.Message, "kaboom")
	}
}

func TestExceptionAsHash(t *testing.T) {
	t.Parallel()

	exc := term.Exception{Message: "oops", Payload: term.Str("data")}
	h := exc.AsHash()
	msg, ok := h.Fetch(term.MakeKey("message"))
	if !ok || !msg.IsEqual(term.Str("oops")) {
		t.Errorf("AsHash()[:message] = %v, %v", msg, ok)
	}
	payload, ok := h.Fetch(term.MakeKey("payload"))
	if !ok || !payload.IsEqual(term.Str("data")) {
		t.Errorf("AsHash()[:payload] = %v, %v", payload, ok)
	}
}

func TestExceptionIsEqual(t *testing.T) {
	t.Parallel()

	a := term.Exception{Message: "x", Payload: term.Num(1)}
	b := term.Exception{Message: "x", Payload: term.Num(1)}
	c := term.Exception{Message: "x", Payload: term.Num(2)}
	if !a.IsEqual(b) {
		t.Error("exceptions with the same message and payload must compare equal")
	}
	if a.IsEqual(c) {
		t.Error("exceptions with different payloads must not compare equal")
	}
}
