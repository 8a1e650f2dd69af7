// Package env implements the chained lexical environment: a local mapping
// from symbol names to terms plus an optional parent, as specified in
// spec.md §4.1. Grounded on sxeval's Binding design (map + parent chain);
// here Lookup itself walks the parent chain.
package env

import (
	"fmt"
	"strings"

	"github.com/slight-lang/slight/term"
)

// Environment is a single frame of the lexical-scope chain. A Lambda
// closure holds a strong reference to the Environment active at its
// definition site; environments are heap-lived and never form cycles
// because Define always writes to the local frame, never to a parent.
type Environment struct {
	name   string
	vars   map[term.Sym]term.Object
	parent *Environment
}

// New creates a root environment with no parent.
func New() *Environment {
	return &Environment{name: "root", vars: map[term.Sym]term.Object{}}
}

// IsNil reports whether e is a nil *Environment; a non-nil environment
// is never the Nil list.
func (e *Environment) IsNil() bool { return e == nil }

// IsAtom reports true: environments-as-values are atomic.
func (e *Environment) IsAtom() bool { return true }

// IsEqual compares environments by identity, the way closures compare
// their captured scopes.
func (e *Environment) IsEqual(other term.Object) bool {
	oe, ok := other.(*Environment)
	return ok && e == oe
}

func (e *Environment) String() string {
	if e == nil {
		return "#<env:nil>"
	}
	return fmt.Sprintf("#<env:%s/%d>", e.name, len(e.vars))
}

// Lookup walks parents and returns the bound value, or a LookupError if
// the symbol is not found anywhere in the chain. Never panics.
func (e *Environment) Lookup(name term.Sym) (term.Object, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, nil
		}
	}
	if field, ok := splitDotted(name); ok {
		return e.lookupField(field)
	}
	return nil, term.LookupError{Sym: name}
}

// splitDotted splits a symbol like "e.message" into ("e", "message") if it
// contains a dot and neither half is empty. Dots are legal symbol
// characters (spec §6), so plain lookup always comes first; this sugar is
// only consulted when the symbol as a whole is unbound.
func splitDotted(name term.Sym) (struct{ head, field string }, bool) {
	s := string(name)
	i := strings.IndexByte(s, '.')
	if i <= 0 || i >= len(s)-1 {
		return struct{ head, field string }{}, false
	}
	return struct{ head, field string }{s[:i], s[i+1:]}, true
}

func (e *Environment) lookupField(hf struct{ head, field string }) (term.Object, error) {
	head, err := e.Lookup(term.Sym(hf.head))
	if err != nil {
		return nil, err
	}
	key := term.MakeKey(hf.field)
	switch v := head.(type) {
	case term.Exception:
		if val, ok := v.AsHash().Fetch(key); ok {
			return val, nil
		}
	case *term.Hash:
		if val, ok := v.Fetch(key); ok {
			return val, nil
		}
	}
	return nil, term.LookupError{Sym: term.Sym(hf.head + "." + hf.field)}
}

// Exists mirrors Lookup but returns a plain boolean.
func (e *Environment) Exists(name term.Sym) bool {
	_, err := e.Lookup(name)
	return err == nil
}

// Define writes to the local scope unconditionally.
func (e *Environment) Define(name term.Sym, val term.Object) {
	e.vars[name] = val
}

// Delete removes name from the local scope only.
func (e *Environment) Delete(name term.Sym) {
	delete(e.vars, name)
}

// SetBang walks the environment chain to find the defining scope and
// mutates it in place. It fails if name is not bound anywhere.
func (e *Environment) SetBang(name term.Sym, val term.Object) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = val
			return nil
		}
	}
	return term.LookupError{Sym: name}
}

// Capture returns a new, empty child whose parent is e; used for closure
// capture so later definitions in the enclosing scope remain visible.
func (e *Environment) Capture() *Environment {
	return &Environment{name: "closure", vars: map[term.Sym]term.Object{}, parent: e}
}

// Derive returns a child with each param bound to the corresponding arg.
// It fails with ArityError if the lengths differ.
func (e *Environment) Derive(name string, params []term.Sym, args []term.Object) (*Environment, error) {
	if len(params) != len(args) {
		return nil, term.ArityError{Name: name, Want: len(params), Got: len(args)}
	}
	vars := make(map[term.Sym]term.Object, len(params))
	for i, p := range params {
		vars[p] = args[i]
	}
	return &Environment{name: name, vars: vars, parent: e}, nil
}

// Depth returns the number of frames from e to the root, inclusive.
func (e *Environment) Depth() int {
	n := 0
	for env := e; env != nil; env = env.parent {
		n++
	}
	return n
}

// Keys returns the symbols bound in the local frame only, as Keys (for
// the introspection builtins).
func (e *Environment) Keys() []term.Key {
	out := make([]term.Key, 0, len(e.vars))
	for k := range e.vars {
		out = append(out, term.MakeKey(string(k)))
	}
	return out
}

// Parent returns the enclosing environment, or nil for the root.
func (e *Environment) Parent() *Environment { return e.parent }

// Snapshot copies all bindings visible from e (local and inherited,
// innermost wins) into a single flat map, used when spawning a process:
// the child's root environment is seeded with a *copy* of this snapshot,
// never a shared reference (spec §4.6, Design Notes).
func (e *Environment) Snapshot() map[term.Sym]term.Object {
	out := map[term.Sym]term.Object{}
	var frames []*Environment
	for env := e; env != nil; env = env.parent {
		frames = append(frames, env)
	}
	for i := len(frames) - 1; i >= 0; i-- {
		for k, v := range frames[i].vars {
			out[k] = v
		}
	}
	return out
}

// FromSnapshot builds a fresh root environment from a snapshot map.
func FromSnapshot(snap map[term.Sym]term.Object) *Environment {
	e := New()
	for k, v := range snap {
		e.vars[k] = v
	}
	return e
}
