package term

import (
	"io"
	"strings"
)

// List is the Cons variant: an array-backed list with sharing. at(i) is
// items[offset+i]; the rest of a list is the same backing array at
// offset+1, giving O(1) tail without copying.
type List struct {
	items  []Object
	offset int
}

// Nil returns the empty list. It is distinct from Unit and is false in
// boolean context.
func Nil() *List { return nil }

// Cons prepends car in front of the given list, returning a new list. It
// always allocates a fresh backing array of length 1+len(cdr) and copies
// cdr's items into it, so the result never shares storage with cdr.
func Cons(car Object, cdr *List) *List {
	items := make([]Object, 1+cdr.Len())
	items[0] = car
	cdr.copyInto(items[1:])
	return &List{items: items, offset: 0}
}

func (l *List) copyInto(dst []Object) {
	for i := 0; i < l.Len(); i++ {
		dst[i] = l.at(i)
	}
}

// MakeList builds a new list containing objs, in order.
func MakeList(objs ...Object) *List {
	if len(objs) == 0 {
		return nil
	}
	items := make([]Object, len(objs))
	copy(items, objs)
	return &List{items: items, offset: 0}
}

// Len returns the number of elements remaining from offset to the end of
// the backing array. A nil *List has length 0.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items) - l.offset
}

func (l *List) at(i int) Object { return l.items[l.offset+i] }

// IsNil reports whether the list is empty.
func (l *List) IsNil() bool { return l.Len() == 0 }

// IsAtom reports whether the list is atomic; only the empty list is.
func (l *List) IsAtom() bool { return l.Len() == 0 }

// IsEqual compares two objects for deep, element-wise equality.
func (l *List) IsEqual(other Object) bool {
	if l.Len() == 0 {
		return IsNil(other)
	}
	ol, ok := other.(*List)
	if !ok || ol.Len() != l.Len() {
		return false
	}
	for i := 0; i < l.Len(); i++ {
		if !l.at(i).IsEqual(ol.at(i)) {
			return false
		}
	}
	return true
}

func (l *List) String() string {
	var sb strings.Builder
	_, _ = l.Print(&sb)
	return sb.String()
}

// Print writes the parenthesized representation.
func (l *List) Print(w io.Writer) (int, error) {
	n, err := io.WriteString(w, "(")
	if err != nil {
		return n, err
	}
	for i := 0; i < l.Len(); i++ {
		if i > 0 {
			l2, err2 := io.WriteString(w, " ")
			n += l2
			if err2 != nil {
				return n, err2
			}
		}
		l2, err2 := Print(w, l.at(i))
		n += l2
		if err2 != nil {
			return n, err2
		}
	}
	l2, err := io.WriteString(w, ")")
	return n + l2, err
}

// First returns the first element, or Nil() if the list is empty.
func (l *List) First() Object {
	if l.Len() == 0 {
		return Nil()
	}
	return l.at(0)
}

// Rest returns the tail of the list, sharing backing storage: O(1).
func (l *List) Rest() *List {
	if l.Len() <= 1 {
		return nil
	}
	return &List{items: l.items, offset: l.offset + 1}
}

// Nth returns the n'th element (0-based). It is an error if out of range.
func (l *List) Nth(n int) (Object, bool) {
	if n < 0 || n >= l.Len() {
		return nil, false
	}
	return l.at(n), true
}

// Values returns all elements as a slice (a copy, safe to mutate).
func (l *List) Values() []Object {
	out := make([]Object, l.Len())
	l.copyInto(out)
	return out
}

// GetList returns obj as a *List, if possible. A nil Object/Nil() counts
// as the empty list.
func GetList(obj Object) (*List, bool) {
	if IsNil(obj) {
		return nil, true
	}
	l, ok := obj.(*List)
	return l, ok
}

// Append returns a new list with obj added to its end.
func (l *List) Append(obj Object) *List {
	vals := append(l.Values(), obj)
	return MakeList(vals...)
}

// Reverse returns a new list with elements in reverse order.
func (l *List) Reverse() *List {
	vals := l.Values()
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		vals[i], vals[j] = vals[j], vals[i]
	}
	return MakeList(vals...)
}

// Concat returns a new list that is l followed by other.
func (l *List) Concat(other *List) *List {
	return MakeList(append(l.Values(), other.Values()...)...)
}

// ListBuilder appends elements in order, amortizing the array allocation
// of a growing list.
type ListBuilder struct {
	items []Object
}

// Add appends obj.
func (b *ListBuilder) Add(obj Object) { b.items = append(b.items, obj) }

// List returns the accumulated list.
func (b *ListBuilder) List() *List { return MakeList(b.items...) }
