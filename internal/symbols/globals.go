package symbols

import (
	"fmt"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/config"
	"github.com/orus-lang/orus/internal/typesystem"
)

// FunctionEntry records where a user function's body lives in the
// chunk and its arity, for generic resolution at call sites (§3
// "Global slot table... a parallel table of function entries
// {chunk-offset, arity} plus a table of originating AST nodes").
type FunctionEntry struct {
	ChunkOffset int
	Arity       int
}

// GlobalTable is the process-wide (per-compilation-context) indexed
// global slot table of §3 "Global slot table". It is shared, by
// pointer, between the checker (which allocates slots and records
// declared types) and the emitter/execution engine (which read slot
// indices back out of annotated tree nodes). Runtime *values* are not
// stored here. They live in the VM's own parallel array, keeping
// this package free of any dependency on the VM's heap-object model.
type GlobalTable struct {
	Names      []string
	Types      []typesystem.Type
	Public     []bool
	Mutable    []bool
	Functions  map[int]FunctionEntry
	FuncNodes  map[int]ast.Node // originating AST node, for generic instantiation at call sites
	byName     map[string]int
}

// NewGlobalTable creates an empty global slot table.
func NewGlobalTable() *GlobalTable {
	return &GlobalTable{
		Functions: make(map[int]FunctionEntry),
		FuncNodes: make(map[int]ast.Node),
		byName:    make(map[string]int),
	}
}

// Declare allocates a new global slot for name, enforcing the 256-slot
// limit (§3 "Slot index is a single byte; limit 256 named globals per
// module").
func (g *GlobalTable) Declare(name string, t typesystem.Type, public, mutable bool) (int, error) {
	if len(g.Names) >= config.MaxGlobals {
		return -1, fmt.Errorf("too many globals: limit is %d", config.MaxGlobals)
	}
	slot := len(g.Names)
	g.Names = append(g.Names, name)
	g.Types = append(g.Types, t)
	g.Public = append(g.Public, public)
	g.Mutable = append(g.Mutable, mutable)
	g.byName[name] = slot
	return slot, nil
}

// SlotOf returns the slot index for a declared global name.
func (g *GlobalTable) SlotOf(name string) (int, bool) {
	slot, ok := g.byName[name]
	return slot, ok
}

// SetType updates a slot's declared type, used for the nil -> T
// refinement on first real assignment (§4.1 "Assignment... permits
// nil->T refinement").
func (g *GlobalTable) SetType(slot int, t typesystem.Type) {
	if slot >= 0 && slot < len(g.Types) {
		g.Types[slot] = t
	}
}

// Len returns the number of declared globals.
func (g *GlobalTable) Len() int { return len(g.Names) }
