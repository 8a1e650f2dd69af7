package builtins

import (
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/term"
)

func asHash(v term.Object) (*term.Hash, error) {
	h, ok := v.(*term.Hash)
	if !ok {
		return nil, term.TypeError{Want: "Hash", Got: v}
	}
	return h, nil
}

func asKey(v term.Object) (term.Key, error) {
	k, ok := v.(term.Key)
	if !ok {
		return "", term.TypeError{Want: "Key", Got: v}
	}
	return k, nil
}

// Table implements (table :k v ...): builds a Hash from a flat
// key/value argument list.
var Table = native("table", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	return term.MakeHash(args...)
})

// Fetch implements (fetch h k).
var Fetch = native("fetch", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 2 {
		return nil, term.ArityError{Name: "fetch", Want: 2, Got: len(args)}
	}
	h, err := asHash(args[0])
	if err != nil {
		return nil, err
	}
	k, err := asKey(args[1])
	if err != nil {
		return nil, err
	}
	v, ok := h.Fetch(k)
	if !ok {
		return term.Nil(), nil
	}
	return v, nil
})

// Store implements (store h k v); returns the mutated table.
var Store = native("store", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 3 {
		return nil, term.ArityError{Name: "store", Want: 3, Got: len(args)}
	}
	h, err := asHash(args[0])
	if err != nil {
		return nil, err
	}
	k, err := asKey(args[1])
	if err != nil {
		return nil, err
	}
	return h.Store(k, args[2]), nil
})

// DeleteKey implements (delete h k); returns the mutated table.
var DeleteKey = native("delete", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 2 {
		return nil, term.ArityError{Name: "delete", Want: 2, Got: len(args)}
	}
	h, err := asHash(args[0])
	if err != nil {
		return nil, err
	}
	k, err := asKey(args[1])
	if err != nil {
		return nil, err
	}
	return h.Delete(k), nil
})

// Exists implements (exists h k).
var Exists = native("exists", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 2 {
		return nil, term.ArityError{Name: "exists", Want: 2, Got: len(args)}
	}
	h, err := asHash(args[0])
	if err != nil {
		return nil, err
	}
	k, err := asKey(args[1])
	if err != nil {
		return nil, err
	}
	return term.Bool(h.Exists(k)), nil
})

// TableKeys implements (table/keys h).
var TableKeys = native("table/keys", func(args []term.Object, _ *env.Environment) (term.Object, error) {
	if len(args) != 1 {
		return nil, term.ArityError{Name: "table/keys", Want: 1, Got: len(args)}
	}
	h, err := asHash(args[0])
	if err != nil {
		return nil, err
	}
	keys := h.Keys()
	out := make([]term.Object, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return term.MakeList(out...), nil
})
