package builtins_test

import "testing"

func TestHashOps(t *testing.T) {
	t.Parallel()
	tcsHash.run(t)
}

var tcsHash = tCases{
	{name: "fetch-found", src: `(fetch (table :a 1 :b 2) :a)`, exp: "1"},
	{name: "fetch-missing", src: `(fetch (table :a 1) :z)`, exp: "()"},
	{name: "store-adds", src: `(fetch (store (table) :k 7) :k)`, exp: "7"},
	{name: "delete-removes", src: `(exists (delete (table :a 1) :a) :a)`, exp: "false"},
	{name: "exists-true", src: `(exists (table :a 1) :a)`, exp: "true"},
	{name: "table-keys", src: `(table/keys (table :a 1 :b 2))`, exp: "(:a :b)"},
	{name: "odd-args", src: `(table :a)`, withErr: true},
	{name: "non-key", src: `(table 1 2)`, withErr: true},
}
