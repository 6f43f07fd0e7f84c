package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fortasr/internal/asr"
	"fortasr/internal/ast"
	"fortasr/internal/diag"
	"fortasr/internal/diagfmt"
	"fortasr/internal/interp"
	"fortasr/internal/lower"
	"fortasr/internal/parser"
	"fortasr/internal/pass"
	"fortasr/internal/source"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read, lower, and interpret a Fortran program interactively",
	Long:  "repl accumulates lines of Fortran source until :run, then parses, lowers, runs the standard pass order, and interprets the first program unit found with the reference evaluator.",
	Args:  cobra.NoArgs,
	RunE:  replExecution,
}

func replExecution(cmd *cobra.Command, _ []string) error {
	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	colorMode, err := readColorMode(cmd)
	if err != nil {
		return err
	}

	prompt := "fortasrc> "
	if f, ok := in.(interface{ Fd() uintptr }); !ok || !term.IsTerminal(int(f.Fd())) {
		prompt = ""
	}

	scanner := bufio.NewScanner(in)
	var buf strings.Builder
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return flushScanner(scanner)
		}
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case ":quit", ":q":
			return nil
		case ":run":
			runREPLBuffer(out, buf.String(), colorMode)
			buf.Reset()
			continue
		case ":reset":
			buf.Reset()
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func flushScanner(s *bufio.Scanner) error {
	if err := s.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func runREPLBuffer(out io.Writer, src string, colorMode diagfmt.ColorMode) {
	if strings.TrimSpace(src) == "" {
		return
	}

	fs := source.NewFileSet()
	fid := fs.AddVirtual("<repl>", []byte(src))
	bag := diag.NewBag(100)
	b := ast.NewBuilder(nil)
	file := parser.Parse(fs.Get(fid), b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{Color: colorMode, Context: 1, PathMode: diagfmt.PathModeBasename})
		return
	}

	unit, err := lower.Lower(b, file)
	if err != nil {
		fmt.Fprintf(out, "lower: %v\n", err)
		return
	}
	if err := pass.Run(unit, pass.DefaultOrder()); err != nil {
		fmt.Fprintf(out, "passes: %v\n", err)
		return
	}

	name, ok := firstProgramName(unit)
	if !ok {
		fmt.Fprintln(out, "no program unit found; type :run after a complete `program ... end program` block")
		return
	}

	if err := interp.New(unit).RunProgram(name); err != nil {
		fmt.Fprintf(out, "%s: %v\n", name, err)
		return
	}
	fmt.Fprintf(out, "%s: ok\n", name)
}

func firstProgramName(unit *asr.TranslationUnit) (string, bool) {
	var name string
	var found bool
	unit.Global.Each(func(symName string, sym *asr.Symbol) {
		if found || sym.Kind != asr.SymProgram {
			return
		}
		name, found = symName, true
	})
	return name, found
}
