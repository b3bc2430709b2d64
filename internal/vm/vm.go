package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/orus-lang/orus/internal/config"
	"github.com/orus-lang/orus/internal/symbols"
)

// Frame is one call-frame: a chunk, its instruction pointer, and the
// index into the shared operand stack where this call's locals begin
// (§4.3 "Call frame: chunk, ip, base pointer").
type Frame struct {
	chunk *Chunk
	ip    int
	base  int
}

// exceptFrame is one live try/catch handler, recording enough of the
// machine's state to unwind to on a throw (§4.3 "Exception frame:
// operand-stack height, call-frame depth, and catch address").
type exceptFrame struct {
	frameDepth int
	stackLen   int
	catchIP    int
	slot       int
}

// RuntimeError is a fatal, uncaught failure (§7 "Fatal: division by
// zero, array index out of bounds, call-stack overflow, uncaught
// throw..."). It is distinct from the caught-and-handled throw path,
// which never leaves the execution loop.
type RuntimeError struct {
	Message string
	Line    int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at line %d: %s", e.Line, e.Message)
}

// VM is a single-threaded bytecode interpreter over one compiled
// Program (§4.3 "Execution engine"). It owns its own heap: one VM, one
// Heap, matching the no-shared-mutable-state concurrency model.
type VM struct {
	// ID identifies this interpreter context, so a host embedding
	// several VMs (e.g. a test suite running them concurrently) can
	// tell their trace output and fatal diagnostics apart.
	ID string

	Globals *symbols.GlobalTable
	program *Program
	globals []Value
	heap    *Heap

	stack  []Value
	frames []Frame
	except []exceptFrame

	Stdout io.Writer
	Stdin  *bufio.Reader

	// Trace, when non-nil, receives one disassembled line per executed
	// instruction (§SPEC_FULL "Supplemented Features": -trace flag).
	Trace io.Writer

	// ModuleName/ModulePath back the module_name()/module_path()
	// builtins (Glossary); set by the host from the entry file's path
	// before Run.
	ModuleName string
	ModulePath string

	// PromptOnInput, when set by the host, makes the input() builtin
	// write a "> " prompt to Stdout before reading a line. The CLI
	// enables it only when Stdin is an interactive terminal (§SPEC_FULL
	// Domain Stack: go-isatty), so piped/scripted input stays clean.
	PromptOnInput bool
}

// New creates a VM ready to run program's Main chunk.
func New(program *Program, globals *symbols.GlobalTable) *VM {
	return &VM{
		ID:      uuid.NewString(),
		Globals: globals,
		program: program,
		globals: make([]Value, config.MaxGlobals),
		heap:    NewHeap(),
		stack:   make([]Value, 0, 256),
		Stdout:  os.Stdout,
		Stdin:   bufio.NewReader(os.Stdin),
	}
}

// NewWithGCThreshold is New with an explicit initial GC threshold,
// overriding the package default (§SPEC_FULL "Domain Stack": an
// orus.yaml project file's gc_initial_bytes).
func NewWithGCThreshold(program *Program, globals *symbols.GlobalTable, threshold int) *VM {
	v := New(program, globals)
	v.heap = NewHeapWithThreshold(threshold)
	return v
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

// roots enumerates every live Value the collector must treat as
// reachable: the operand stack and the global slot array (§4.4 "roots:
// the operand stack plus the global slot array").
func (vm *VM) roots() []Value {
	all := make([]Value, 0, len(vm.stack)+len(vm.globals))
	all = append(all, vm.stack...)
	all = append(all, vm.globals...)
	return all
}

func (vm *VM) collectIfNeeded() {
	if !vm.heap.ShouldCollect() {
		return
	}
	freedBefore := vm.heap.BytesFreed
	vm.heap.Collect(vm.roots())
	if vm.Trace != nil {
		fmt.Fprintf(vm.Trace, "gc[%s]: run %d freed %s, heap threshold now %s\n",
			vm.ID,
			vm.heap.GCRuns,
			humanize.Bytes(uint64(vm.heap.BytesFreed-freedBefore)),
			humanize.Bytes(uint64(vm.heap.threshold)))
	}
}

// Run executes the compiled top-level chunk to completion and returns
// its final popped value (always nil in practice, since the top level
// has no return, but kept for symmetry with function execution).
func (vm *VM) Run() (Value, error) {
	vm.frames = append(vm.frames, Frame{chunk: vm.program.Main, base: 0})
	return vm.execute()
}

func (vm *VM) currentFrame() *Frame { return &vm.frames[len(vm.frames)-1] }

func (vm *VM) readByte(f *Frame) byte {
	b := f.chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readU16(f *Frame) int {
	v := readU16(f.chunk.Code, f.ip)
	f.ip += 2
	return v
}

func (vm *VM) readConstant(f *Frame) Value {
	return f.chunk.Constants[vm.readByte(f)]
}

func (vm *VM) line(f *Frame) int {
	if f.ip < len(f.chunk.Lines) {
		return f.chunk.Lines[f.ip]
	}
	return 0
}

func (vm *VM) fail(f *Frame, msg string) error {
	return &RuntimeError{Message: msg, Line: vm.line(f)}
}

// raise implements the implicit throw of §4.3/§7: a runtime fault
// unwinds to the nearest active exception frame, rather than a
// distinct THROW instruction. It restores the operand stack and call
// frames to the recorded handler state, binds the message into the
// handler's error slot, and redirects the resumed frame's ip to the
// catch block. It reports false when no handler is active, meaning the
// fault is fatal.
func (vm *VM) raise(msg string) bool {
	if len(vm.except) == 0 {
		return false
	}
	ef := vm.except[len(vm.except)-1]
	vm.except = vm.except[:len(vm.except)-1]

	vm.frames = vm.frames[:ef.frameDepth+1]
	vm.stack = vm.stack[:ef.stackLen]

	cf := &vm.frames[len(vm.frames)-1]
	vm.stack[cf.base+ef.slot] = FromObj(newString(vm.heap, msg))
	cf.ip = ef.catchIP
	return true
}

// fault is the fault-site entry point: it raises into the nearest
// handler if one is active, or produces a fatal RuntimeError.
func (vm *VM) fault(f *Frame, msg string) error {
	if vm.raise(msg) {
		return nil
	}
	return vm.fail(f, msg)
}
