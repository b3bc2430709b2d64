// Package modules implements §6 "Module system": `use "path"` resolves
// to a canonical module identifier, triggers compilation of the
// referenced unit, and installs it as an alias symbol whose public
// globals the checker can resolve field access against.
//
// Every module in a program shares one symbols.GlobalTable and one
// typesystem.Registry (design note 9: "one interpreter context object
// passed explicitly"), so a module's top-level declarations occupy the
// same global slot space the entry file's do; a `use`d module is
// compiled by emitting its top-level statements into the program's
// single Chunk ahead of the entry file's own, never as a separate
// chunk the VM would need to load at runtime (§3 "Lifecycles... cached
// by canonical path").
package modules

import (
	"fmt"
	"os"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/checker"
	"github.com/orus-lang/orus/internal/diagnostics"
	"github.com/orus-lang/orus/internal/lexer"
	"github.com/orus-lang/orus/internal/parser"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/typesystem"
	"github.com/orus-lang/orus/internal/utils"
)

// Module is one checked compilation unit loaded via `use`.
type Module struct {
	CanonicalPath string
	Program       *ast.Program
	Exports       *checker.ModuleExports
}

// Loader resolves `use` paths to canonical modules, compiling each one
// exactly once and caching it by canonical path (§3 "Lifecycles...
// Modules, once loaded, are cached by canonical path").
type Loader struct {
	Globals  *symbols.GlobalTable
	Registry *typesystem.Registry

	cache   map[string]*Module
	loading map[string]bool
	// order records every module in dependency-first (postorder) load
	// sequence, deduplicated; the order the CLI concatenates top-level
	// statements in, so an import graph's shared dependency runs its
	// module-init code exactly once, before every file that uses it.
	order []*Module
}

// NewLoader creates a Loader sharing globals/registry across every
// module it loads.
func NewLoader(globals *symbols.GlobalTable, registry *typesystem.Registry) *Loader {
	return &Loader{
		Globals:  globals,
		Registry: registry,
		cache:    make(map[string]*Module),
		loading:  make(map[string]bool),
	}
}

// Canonical resolves path relative to baseDir into the identifier
// modules are cached under, the same one checker.Checker.Modules is
// keyed by (internal/utils.Canonical; shared so the loader and the
// checker never disagree on a module's identity).
func Canonical(baseDir, path string) string {
	return utils.Canonical(baseDir, path)
}

// Load reads, parses, and type-checks the module at path (resolved
// relative to baseDir), recursively loading its own `use` statements
// first so their exports are available to this module's checker.
// Returns the cached Module on a repeat request for the same canonical
// path.
func (l *Loader) Load(baseDir, path string) (*Module, error) {
	canonical := Canonical(baseDir, path)

	if m, ok := l.cache[canonical]; ok {
		return m, nil
	}
	if l.loading[canonical] {
		return nil, fmt.Errorf("import cycle loading %s", canonical)
	}
	l.loading[canonical] = true
	defer delete(l.loading, canonical)

	src, err := os.ReadFile(canonical)
	if err != nil {
		return nil, fmt.Errorf("cannot load module %q: %w", path, err)
	}

	toks := lexer.New(string(src)).ScanAll()
	p := parser.New(toks)
	prog := p.ParseProgram()
	prog.File = canonical
	if len(p.Errors) > 0 {
		return nil, diagnosticsErr(string(src), p.Errors)
	}

	ch := checker.New(canonical, l.Globals, l.Registry)
	moduleDir := utils.GetModuleDir(canonical)
	for _, use := range CollectUses(prog) {
		dep, err := l.Load(moduleDir, use.Path)
		if err != nil {
			return nil, err
		}
		ch.Modules[Canonical(moduleDir, use.Path)] = dep.Exports
	}

	if !ch.Check(prog) {
		return nil, diagnosticsErr(string(src), ch.Errors)
	}

	m := &Module{
		CanonicalPath: canonical,
		Program:       prog,
		Exports:       &checker.ModuleExports{Globals: l.Globals},
	}
	l.cache[canonical] = m
	l.order = append(l.order, m)
	return m, nil
}

// Order returns every loaded module in dependency-first order, the
// sequence the CLI concatenates top-level statements in before
// appending the entry file's own.
func (l *Loader) Order() []*Module { return l.order }

// CollectUses returns every top-level `use` statement in prog, in
// source order; a pre-pass over the parsed (not yet checked) tree so
// the loader knows what to load before the checker runs on it.
func CollectUses(prog *ast.Program) []*ast.UseStatement {
	var uses []*ast.UseStatement
	for _, stmt := range prog.Statements {
		if u, ok := stmt.(*ast.UseStatement); ok {
			uses = append(uses, u)
		}
	}
	return uses
}

func diagnosticsErr(source string, diags []*diagnostics.Diagnostic) error {
	msg := ""
	for _, d := range diags {
		msg += diagnostics.Render(d, source)
	}
	return fmt.Errorf("%s", msg)
}
