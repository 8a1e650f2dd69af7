package builtins_test

// Contains a shared harness for the builtins/*_test.go table-driven
// tests: evaluate a whole program's forms against a fresh environment
// and report the printed value of the last one, or the error produced.

import (
	"io"
	"log/slog"
	"testing"

	"github.com/slight-lang/slight/builtins"
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/host"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/reader"
)

type tCase struct {
	name    string
	src     string
	exp     string
	withErr bool
}

type tCases []tCase

func (tcs tCases) run(t *testing.T) {
	t.Helper()
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Helper()
			got, err := evalSource(tc.src)
			if tc.withErr {
				if err == nil {
					t.Fatalf("%s: expected an error, got %q", tc.src, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.src, err)
			}
			if got != tc.exp {
				t.Errorf("%s: want %q, got %q", tc.src, tc.exp, got)
			}
		})
	}
}

// evalSource runs every top-level form in src against a fresh root
// environment and returns the last form's printed value.
func evalSource(src string) (string, error) {
	rootEnv := env.New()
	builtins.Install(rootEnv)
	logger := slog.New(slog.DiscardHandler)
	m := machine.New(logger)
	d := host.New(discard{}, discard{}, logger, func() *machine.Machine { return machine.New(logger) })

	forms, err := reader.NewString(src, "<test>").ReadAll()
	if err != nil {
		return "", err
	}
	var last string
	for _, form := range forms {
		expanded, err := m.Expand(form, rootEnv)
		if err != nil {
			return "", err
		}
		val, err := d.RunMain(1, m, rootEnv, expanded)
		if err != nil {
			return "", err
		}
		last = val.String()
	}
	return last, nil
}

// discard implements both io.Writer and io.Reader as no-ops, standing in
// for the console streams the tests never actually exercise.
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Read([]byte) (int, error)    { return 0, io.EOF }
