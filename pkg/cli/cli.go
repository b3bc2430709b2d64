// Package cli wires the pipeline stages into one end-to-end run: read
// source, lex, parse, load `use`d modules, type-check, emit bytecode,
// execute (§6 "CLI contract"). cmd/orus is a thin wrapper translating
// this package's return value into a process exit code.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/checker"
	"github.com/orus-lang/orus/internal/config"
	"github.com/orus-lang/orus/internal/diagnostics"
	"github.com/orus-lang/orus/internal/lexer"
	"github.com/orus-lang/orus/internal/modules"
	"github.com/orus-lang/orus/internal/parser"
	"github.com/orus-lang/orus/internal/pipeline"
	"github.com/orus-lang/orus/internal/vm"
)

// Exit codes of §6's CLI contract.
const (
	ExitOK      = 0
	ExitCompile = 65
	ExitRuntime = 70
)

// Options configures one Run invocation. Stdout/Stdin default to the
// process's own when left nil, matching vm.New's defaults.
type Options struct {
	Path   string
	Trace  bool
	Stdout io.Writer
	Stdin  io.Reader
}

// Run executes the program at opts.Path start to finish, returning the
// exit code §6 specifies and writing diagnostics/trace output to
// opts.Stdout (or os.Stdout).
func Run(opts Options) int {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	src, err := os.ReadFile(opts.Path)
	if err != nil {
		fmt.Fprintln(out, err)
		return ExitCompile
	}

	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		abs = opts.Path
	}
	baseDir := filepath.Dir(abs)

	project, err := config.LoadProject(baseDir)
	if err != nil {
		fmt.Fprintf(out, "orus.yaml: %s\n", err)
		return ExitCompile
	}

	// The lex/parse stages never need the module loader in between, so
	// they run as a pipeline.Pipeline (the same Processor wiring
	// internal/lexer, internal/parser, and internal/checker each
	// expose); module loading sits between parse and check, so the
	// checker stage runs directly rather than through the pipeline.
	ctx := pipeline.NewContext(string(src), abs)
	ctx = pipeline.New(lexer.Processor{}, parser.Processor{}).Run(ctx)
	if len(ctx.Errors) > 0 {
		renderAll(out, ctx.Errors, string(src))
		return ExitCompile
	}
	prog := ctx.AstRoot
	prog.File = abs
	globals, registry := ctx.Globals, ctx.Registry

	loader := modules.NewLoader(globals, registry)
	for _, use := range modules.CollectUses(prog) {
		if _, err := loader.Load(baseDir, use.Path); err != nil {
			fmt.Fprintln(out, err)
			return ExitCompile
		}
	}

	ch := checker.New(abs, globals, registry)
	for _, mod := range loader.Order() {
		ch.Modules[mod.CanonicalPath] = mod.Exports
	}
	if !ch.Check(prog) {
		renderAll(out, ch.Errors, string(src))
		return ExitCompile
	}

	merged := mergeProgram(loader.Order(), prog)

	compiler := vm.NewCompiler(globals)
	program := compiler.CompileEntry(merged, true)
	if errs := compiler.Errors(); len(errs) > 0 {
		renderAll(out, errs, string(src))
		return ExitCompile
	}

	machine := vm.NewWithGCThreshold(program, globals, project.EffectiveGCThreshold())
	machine.Stdout = out
	machine.ModuleName = fileModuleName(abs)
	machine.ModulePath = abs

	stdinFile := os.Stdin
	if opts.Stdin != nil {
		if f, ok := opts.Stdin.(*os.File); ok {
			stdinFile = f
		}
		machine.Stdin = bufio.NewReader(opts.Stdin)
	}

	// A real terminal gets the cosmetic `> ` prompt and the trace dump's
	// box-drawing separators; piped stdin/stdout (tests, scripts) stay
	// plain so golden-file comparisons don't have to account for them.
	machine.PromptOnInput = isatty.IsTerminal(stdinFile.Fd())

	if opts.Trace {
		machine.Trace = out
		if isatty.IsTerminal(fdOf(out)) {
			fmt.Fprintln(out, "┌─ trace ─────────────────────────────")
		} else {
			fmt.Fprintln(out, "--- trace ---")
		}
	}

	if _, err := machine.Run(); err != nil {
		fmt.Fprintln(out, err)
		return ExitRuntime
	}
	return ExitOK
}

// fdOf returns w's file descriptor when w is an *os.File, or an invalid
// one otherwise. isatty.IsTerminal reports false for the latter, which
// is the right answer for a buffer or pipe.
func fdOf(w io.Writer) uintptr {
	if f, ok := w.(*os.File); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

func fileModuleName(path string) string {
	base := filepath.Base(path)
	if config.HasSourceExt(base) {
		return base[:len(base)-len(config.SourceFileExt)]
	}
	return base
}

// mergeProgram concatenates every loaded module's checked statements,
// dependency-first, ahead of the entry file's own (§6 "Module system":
// one shared global table, one compiled Chunk; a `use`d module is
// never a separately loaded chunk at run time).
func mergeProgram(mods []*modules.Module, entry *ast.Program) *ast.Program {
	merged := &ast.Program{File: entry.File}
	for _, m := range mods {
		merged.Statements = append(merged.Statements, m.Program.Statements...)
	}
	merged.Statements = append(merged.Statements, entry.Statements...)
	return merged
}

func renderAll(out io.Writer, diags []*diagnostics.Diagnostic, source string) {
	for _, d := range diags {
		fmt.Fprint(out, diagnostics.Render(d, source))
	}
}
