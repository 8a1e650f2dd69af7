package machine

import (
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/term"
	"t73f.de/r/zero/set"
)

// maxMacroDepth bounds macro expansion so a macro that expands into
// itself fails loudly instead of looping forever (spec §4.4).
const maxMacroDepth = 100

// Macro is a user-defined rewrite rule: params name the pieces of the
// call form, Body is the template evaluated (in a fresh scope binding
// those params to the unevaluated argument forms) to produce the
// replacement term.
type Macro struct {
	Name   string
	Params []term.Sym
	Body   term.Object
}

// MacroTable holds the macros defined so far, by name.
type MacroTable struct {
	table map[term.Sym]*Macro
}

// NewMacroTable returns an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{table: map[term.Sym]*Macro{}}
}

// Define registers or replaces a macro.
func (t *MacroTable) Define(m *Macro) { t.table[term.Sym(m.Name)] = m }

// Lookup returns the macro bound to name, if any.
func (t *MacroTable) Lookup(name term.Sym) (*Macro, bool) {
	m, ok := t.table[name]
	return m, ok
}

// Expand rewrites t, repeatedly replacing macro calls with the value
// produced by evaluating the macro's body against its unevaluated
// argument forms, until no macro call remains at the head of any
// subform or the depth cap is hit (spec §4.4: a macro call is rewritten
// to the value produced by evaluating the macro body with
// unevaluated-argument bindings, not merely substituting them into a
// template). A macro whose call reappears inside the expansion of its
// own call is rejected with MacroDepthError rather than expanded again.
// e is the environment the call site expands in; each macro
// body runs in its own child scope of e so its bindings for Params
// don't leak into the surrounding form.
func (m *Machine) Expand(t term.Object, e *env.Environment) (term.Object, error) {
	visited := set.New[string]()
	return m.expand(t, e, 0, visited)
}

func (m *Machine) expand(t term.Object, e *env.Environment, depth int, visited *set.Set[string]) (term.Object, error) {
	lst, ok := t.(*term.List)
	if !ok || lst.IsNil() {
		return t, nil
	}
	if head, ok := lst.First().(term.Sym); ok {
		if mac, found := m.Macros.Lookup(head); found {
			if depth >= maxMacroDepth {
				return nil, MacroDepthError{Name: mac.Name}
			}
			key := mac.Name
			if visited.Contains(key) && depth > 0 {
				return nil, MacroDepthError{Name: mac.Name}
			}
			visited.Add(key)
			expanded, err := m.expandMacroCall(mac, lst.Rest(), e)
			if err != nil {
				return nil, err
			}
			return m.expand(expanded, e, depth+1, visited)
		}
	}
	vals := lst.Values()
	out := make([]term.Object, len(vals))
	for i, v := range vals {
		ev, err := m.expand(v, e, depth, visited)
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return term.MakeList(out...), nil
}

// expandMacroCall binds mac.Params to the call's unevaluated argument
// forms in a fresh child of e, then evaluates mac.Body against that
// scope: the result of evaluation, not the body template itself, is
// the form's replacement.
func (m *Machine) expandMacroCall(mac *Macro, args *term.List, e *env.Environment) (term.Object, error) {
	argv := argsOf(args)
	if len(argv) != len(mac.Params) {
		return nil, term.ArityError{Name: mac.Name, Want: len(mac.Params), Got: len(argv)}
	}
	callEnv := e.Capture()
	for i, p := range mac.Params {
		callEnv.Define(p, argv[i])
	}
	return m.Eval(mac.Body, callEnv)
}

func argsOf(l *term.List) []term.Object {
	if l == nil {
		return nil
	}
	return l.Values()
}

// MacroDepthError signals runaway or re-entrant macro expansion.
type MacroDepthError struct{ Name string }

func (e MacroDepthError) Error() string { return "macro expansion too deep: " + e.Name }
