// Package vm also hosts the emitter: a single-pass tree-to-bytecode
// compiler that walks the checker-annotated AST and writes Chunks
// (§4.2 "Emitter"). It never re-derives a type or re-resolves a name ,
// every decision it needs (resolved types, global slots, convert
// flags, call kinds) was already recorded on the tree by internal/checker.
package vm

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/diagnostics"
	"github.com/orus-lang/orus/internal/symbols"
	"github.com/orus-lang/orus/internal/token"
)

// local is one compile-time stack slot within the chunk currently being
// compiled. Unlike the checker's symbol table (which only tracks
// declared types), the compiler additionally assigns each local a
// fixed position on the operand stack relative to the call frame's
// base pointer.
type local struct {
	name  string
	depth int
}

// loopContext tracks the jump-patch lists a break/continue inside the
// loop body needs to resolve once the loop's bytecode is fully emitted
// (§4.2 "break/continue... patched once the loop's start and end
// addresses are known").
type loopContext struct {
	start      int
	breaks     []int
	continues  []int
	scopeDepth int
}

// Program is the compiled output of one compilation unit: the
// top-level chunk plus one chunk per function declaration, indexed by
// global slot via Globals.Functions[slot].ChunkOffset.
type Program struct {
	Main      *Chunk
	Functions []*Chunk
}

// Compiler emits bytecode for a single Chunk at a time, reusing one
// GlobalTable across every chunk it compiles (§3 "shared by
// pointer across every module in a program").
type Compiler struct {
	Globals *symbols.GlobalTable

	chunk  *Chunk
	locals []local
	depth  int

	loops []loopContext

	functions []*Chunk
	errors    []*diagnostics.Diagnostic
}

// NewCompiler creates a Compiler bound to globals, ready to compile a
// Program's top-level statements and function bodies.
func NewCompiler(globals *symbols.GlobalTable) *Compiler {
	return &Compiler{Globals: globals}
}

// Errors returns every fatal compile-time problem encountered (none are
// expected in practice: the checker rejects a program before it reaches
// the compiler, but two resource limits, too many constants in one
// chunk and a jump too far for its 16-bit operand, are only
// discoverable here).
func (c *Compiler) Errors() []*diagnostics.Diagnostic { return c.errors }

func (c *Compiler) errAt(n ast.Node, code, msg string) {
	c.errors = append(c.errors, diagnostics.NewError(code, n.GetToken(), msg))
}

// Compile emits the top-level chunk and one chunk per function
// declaration (§4.2 "one Chunk per function body, recorded into the
// global function table by chunk offset"). It never calls `main`
// itself; used for a module compiled in isolation (e.g. a single
// unit test of the emitter) where running the unit's own top-level
// code, without the program epilogue, is the whole point.
func (c *Compiler) Compile(prog *ast.Program) *Program {
	c.chunk = NewChunk()
	for _, stmt := range prog.Statements {
		c.compileStatement(stmt)
	}
	c.chunk.WriteOp(OpHalt, 0)
	main := c.chunk

	return &Program{Main: main, Functions: c.functions}
}

// CompileEntry compiles prog, the concatenation of every loaded
// module's top-level statements followed by the entry file's own, in
// dependency order (§6 "Module system"), as the whole program, then
// appends the §4.2 "Main" epilogue: resolve the global slot named
// `main`, CALL it with zero arguments, discard its result, and return.
// requireMain controls whether a missing `main` is a diagnostic (the
// CLI asked to run a program) or silently tolerated (a library loaded
// only for its exports, e.g. while type-checking a `use`d module on
// its own).
func (c *Compiler) CompileEntry(prog *ast.Program, requireMain bool) *Program {
	c.chunk = NewChunk()
	for _, stmt := range prog.Statements {
		c.compileStatement(stmt)
	}

	line := 0
	if n := len(prog.Statements); n > 0 {
		line = prog.Statements[n-1].GetToken().Line
	}

	if slot, ok := c.Globals.SlotOf("main"); ok {
		c.chunk.WriteOp(OpCall, line)
		c.chunk.Write(byte(slot), line)
		c.chunk.Write(0, line)
		// CALL always leaves exactly one value on the stack (user
		// functions fall off the end with an implicit `nil` return,
		// §4.2 "Function body"), so the epilogue pops it unconditionally
		// rather than branching on the declared return type.
		c.chunk.WriteOp(OpPop, line)
	} else if requireMain {
		c.errors = append(c.errors, diagnostics.NewError("E000", token.Token{Line: line}, "program has no `main` function"))
	}
	c.chunk.WriteOp(OpNil, line)
	c.chunk.WriteOp(OpReturn, line)

	return &Program{Main: c.chunk, Functions: c.functions}
}

func (c *Compiler) beginScope() { c.depth++ }

// endScope pops every local declared at or below the current depth,
// emitting one OpPop per slot so the runtime stack matches what the
// compiler's local bookkeeping expects on the next statement.
func (c *Compiler) endScope(line int) {
	c.depth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.depth {
		c.chunk.WriteOp(OpPop, line)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) declareLocal(name string) int {
	c.locals = append(c.locals, local{name: name, depth: c.depth})
	return len(c.locals) - 1
}

// resolveLocal finds the nearest (innermost-scope-first) local slot
// named name, or -1 if name is not a local in the chunk currently
// being compiled (i.e. it must be a global).
func (c *Compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i
		}
	}
	return -1
}

// addConstant interns v into the current chunk's constant pool,
// reporting a fatal diagnostic instead of silently wrapping a byte
// index if a single chunk somehow accumulates more than 256 distinct
// constants.
func (c *Compiler) addConstant(v Value, n ast.Node) int {
	if len(c.chunk.Constants) >= 256 {
		c.errAt(n, "E907", "chunk exceeds the 256-entry constant pool limit")
		return 0
	}
	return c.chunk.AddConstant(v)
}

func (c *Compiler) patchJump(offset int, n ast.Node) {
	if len(c.chunk.Code)-offset-2 > 0xFFFF {
		c.errAt(n, "E900", "jump distance exceeds the 16-bit encoding")
	}
	c.chunk.PatchJump(offset)
}

// compileFunction compiles one function body into its own Chunk,
// binding parameters as locals at depth 1 (the call frame's base), and
// records the resulting chunk in Globals.Functions so call sites can
// find it (§3 "FunctionEntry: chunk-offset, arity").
func (c *Compiler) compileFunction(fn *ast.FunctionDeclaration) {
	saved := c.chunk
	savedLocals := c.locals
	savedDepth := c.depth
	savedLoops := c.loops

	c.chunk = NewChunk()
	c.locals = nil
	c.depth = 0
	c.loops = nil

	c.beginScope()
	for _, p := range fn.Params {
		c.declareLocal(p.Name)
	}
	for _, stmt := range fn.Body.Statements {
		c.compileStatement(stmt)
	}
	// A function whose last statement is not an explicit return falls off
	// the end; emit an implicit nil-return so OpReturn always has a
	// value to pop the frame with (§4.1 "falling off the end of a
	// non-void function is a check-time error, but every function still
	// gets a safety-net return for the void case").
	c.chunk.WriteOp(OpNil, fn.Token.Line)
	c.chunk.WriteOp(OpReturn, fn.Token.Line)
	c.endScope(fn.Token.Line)

	offset := len(c.functions)
	c.functions = append(c.functions, c.chunk)

	entry := c.Globals.Functions[fn.GlobalSlot]
	entry.ChunkOffset = offset
	entry.Arity = len(fn.Params)
	c.Globals.Functions[fn.GlobalSlot] = entry

	c.chunk, c.locals, c.depth, c.loops = saved, savedLocals, savedDepth, savedLoops
}
