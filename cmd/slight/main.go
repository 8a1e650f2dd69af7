// Command slight runs scripts written in the slight language, or drops
// into an interactive REPL when given none.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/slight-lang/slight/builtins"
	"github.com/slight-lang/slight/env"
	"github.com/slight-lang/slight/host"
	"github.com/slight-lang/slight/machine"
	"github.com/slight-lang/slight/reader"
	"github.com/slight-lang/slight/term"
)

var (
	flagEval        string
	flagIncludeDirs []string
	flagDebug       bool
	flagNoColor     bool
)

func main() {
	root := &cobra.Command{
		Use:           "slight [path]",
		Short:         "Run or explore a slight program",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          run,
	}
	root.Flags().StringVarP(&flagEval, "eval", "e", "", "evaluate EXPR instead of reading a file")
	root.Flags().StringArrayVarP(&flagIncludeDirs, "include-dir", "i", nil, "directory to search for (include ...) (repeatable)")
	root.Flags().BoolVar(&flagDebug, "debug", os.Getenv("DEBUG") == "1", "enable step-level debug logging")
	root.Flags().BoolVar(&flagNoColor, "no-color", os.Getenv("NO_COLOR") != "", "disable REPL prompt styling")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "slight:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if !flagDebug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(cmd *cobra.Command, args []string) error {
	builtins.IncludePaths = flagIncludeDirs
	logger := newLogger()

	newMachine := func() *machine.Machine {
		m := machine.New(logger)
		return m
	}

	rootEnv := env.New()
	builtins.Install(rootEnv)

	d := host.New(os.Stdout, os.Stdin, logger, newMachine)
	m := newMachine()

	switch {
	case flagEval != "":
		return evalAndPrint(d, m, rootEnv, flagEval, "<-e>")
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return evalAndPrint(d, m, rootEnv, string(data), args[0])
	default:
		return repl(d, rootEnv, newMachine)
	}
}

func evalAndPrint(d *host.Dispatcher, m *machine.Machine, rootEnv *env.Environment, src, name string) error {
	forms, err := reader.NewString(src, name).ReadAll()
	if err != nil {
		return err
	}
	var last term.Object = term.TheUnit
	for _, form := range forms {
		expanded, err := m.Expand(form, rootEnv)
		if err != nil {
			return err
		}
		val, err := d.RunMain(1, m, rootEnv, expanded)
		if err != nil {
			return err
		}
		last = val
	}
	fmt.Println(last)
	return nil
}

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func prompt(s string) string {
	if flagNoColor {
		return s
	}
	return promptStyle.Render(s)
}

func repl(d *host.Dispatcher, rootEnv *env.Environment, newMachine func() *machine.Machine) error {
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1<<20)
	m := newMachine()
	fmt.Println("slight REPL — Ctrl-D to exit")
	for {
		fmt.Print(prompt("? "))
		if !in.Scan() {
			fmt.Println()
			return nil
		}
		line := in.Text()
		if line == "" {
			continue
		}
		form, err := reader.NewString(line, "<repl>").Read()
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		expanded, err := m.Expand(form, rootEnv)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		val, err := d.RunMain(1, m, rootEnv, expanded)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		if flagNoColor {
			fmt.Println(val)
		} else {
			fmt.Println(valueStyle.Render(val.String()))
		}
	}
}
