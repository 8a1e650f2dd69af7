// Package term provides the tagged sum of values ("terms") that the slight
// machine operates on: units, lists, numbers, strings, symbols, keywords,
// hashes, and the self-describing Object interface they all implement.
package term

import (
	"fmt"
	"io"
)

// Object is the generic value all terms must fulfill.
type Object interface {
	fmt.Stringer

	// IsNil reports whether the concrete object is the Nil list.
	IsNil() bool

	// IsAtom reports whether the object is not further decomposable.
	IsAtom() bool

	// IsEqual compares two objects for deep equality.
	IsEqual(Object) bool
}

// IsNil returns true if obj is nil or the Nil list.
func IsNil(obj Object) bool { return obj == nil || obj.IsNil() }

// Printable is an object with a representation distinct from String().
type Printable interface {
	Print(io.Writer) (int, error)
}

// Print writes the representation of obj to w.
func Print(w io.Writer, obj Object) (int, error) {
	if pr, ok := obj.(Printable); ok {
		return pr.Print(w)
	}
	if IsNil(obj) {
		return Nil().Print(w)
	}
	return io.WriteString(w, obj.String())
}

// IsTruthy implements the boolean-context rules from the data model:
// Nil, Bool(false), Num(0), empty Str, empty Cons are false; everything
// else is true.
func IsTruthy(obj Object) bool {
	if IsNil(obj) {
		return false
	}
	switch v := obj.(type) {
	case Bool:
		return bool(v)
	case Num:
		return v != 0
	case Str:
		return v != ""
	case *List:
		return v.Len() > 0
	}
	return true
}
