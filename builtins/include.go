package builtins

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/reader"
	"github.com/slight-lang/slight/term"
)

// IncludePaths is consulted by Include to resolve a bare filename
// against one or more search directories (the CLI's repeatable -i
// flag), the way cmd/main.go wires reader search paths.
var IncludePaths []string

// Include implements (include "path"): reads and evaluates every form
// in the named file in the calling environment, in order, returning
// the value of the last form. Detects circular includes via the
// machine's in-progress chain (spec §4.7).
var Include = fexpr("include", func(m *machine.Machine, args *term.List, e *env.Environment) ([]machine.Cont, error) {
	if args.Len() != 1 {
		return nil, term.ArityError{Name: "include", Want: 1, Got: args.Len()}
	}
	pathVal, err := m.Eval(nth(args, 0), e)
	if err != nil {
		return nil, err
	}
	pathStr, ok := pathVal.(term.Str)
	if !ok {
		return nil, term.TypeError{Want: "Str", Got: pathVal}
	}
	resolved, err := resolveInclude(string(pathStr))
	if err != nil {
		return nil, err
	}
	if !m.BeginInclude(resolved) {
		return nil, fmt.Errorf("circular include: %s", resolved)
	}
	defer m.EndInclude(resolved)

	f, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	forms, err := reader.New(f, resolved).ReadAll()
	if err != nil {
		return nil, err
	}
	var result term.Object = term.TheUnit
	for _, form := range forms {
		expanded, err := m.Expand(form, e)
		if err != nil {
			return nil, err
		}
		result, err = m.Eval(expanded, e)
		if err != nil {
			return nil, err
		}
	}
	return []machine.Cont{&machine.ReturnCont{Frame: machine.Frame{Env: e}, Value: result}}, nil
})

func resolveInclude(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	if _, err := os.Stat(path); err == nil {
		return filepath.Abs(path)
	}
	for _, dir := range IncludePaths {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Abs(candidate)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return abs, nil
}
