// Package symbols implements the scoped symbol table of spec §4.5: a
// flat, stack-like array of bindings rather than a scope-per-map chain.
// Deactivating a scope clears an active-flag instead of freeing
// entries, so a closed scope's symbols remain available to diagnostics
// ("find-any"; §4.5 "for better undefined-variable diagnostics").
//
// Modeled on the teacher's internal/symbols package (Symbol struct
// shape, the DefinitionNode/DefinitionFile fields used for secondary
// diagnostic spans) but restructured to the flat-array semantics §4.5
// specifies explicitly, rather than the teacher's nested per-scope map
// chain.
package symbols

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/token"
	"github.com/orus-lang/orus/internal/typesystem"
)

// Symbol is one binding (§3 "Symbol").
type Symbol struct {
	Name           string
	Token          token.Token
	Type           typesystem.Type
	ScopeDepth     int
	GlobalSlot     int // -1 if this binding never occupies a global slot (e.g. a local loop iterator)
	IsMutable      bool
	IsConst        bool
	IsModuleAlias  bool
	ModuleHandle   string
	IsPublic       bool
	Active         bool

	// ConstValue holds the literal initializer for a const binding,
	// available immediately to later literal-folding checks (§4.1
	// "Const requires a literal initializer and stores the value
	// immediately into the global slot").
	ConstValue ast.Expression

	DefinitionNode ast.Node
}

// Table is the flat scoped array described by §4.5.
type Table struct {
	symbols    []Symbol
	scopeDepth int
}

// New creates an empty symbol table at scope depth 0.
func New() *Table {
	return &Table{}
}

// ScopeDepth returns the current scope depth.
func (t *Table) ScopeDepth() int { return t.scopeDepth }

// BeginScope increments scope depth on block/function entry.
func (t *Table) BeginScope() { t.scopeDepth++ }

// EndScope decrements scope depth and deactivates every symbol
// declared at or below it (§4.5 "remove-from-scope(d)").
func (t *Table) EndScope() {
	t.RemoveFromScope(t.scopeDepth)
	t.scopeDepth--
}

// RemoveFromScope deactivates (without freeing) every symbol whose
// ScopeDepth is >= depth.
func (t *Table) RemoveFromScope(depth int) {
	for i := range t.symbols {
		if t.symbols[i].Active && t.symbols[i].ScopeDepth >= depth {
			t.symbols[i].Active = false
		}
	}
}

// activeDuplicate reports whether name is already active in the
// current scope.
func (t *Table) activeDuplicate(name string) bool {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		s := &t.symbols[i]
		if !s.Active {
			continue
		}
		if s.ScopeDepth < t.scopeDepth {
			break
		}
		if s.ScopeDepth == t.scopeDepth && s.Name == name {
			return true
		}
	}
	return false
}

// Add registers a new symbol in the current scope. It rejects a
// duplicate active name in the same scope (§4.5 "rejects duplicates in
// the same active scope").
func (t *Table) Add(sym Symbol) (*Symbol, bool) {
	if t.activeDuplicate(sym.Name) {
		return nil, false
	}
	sym.ScopeDepth = t.scopeDepth
	sym.Active = true
	t.symbols = append(t.symbols, sym)
	return &t.symbols[len(t.symbols)-1], true
}

// Find returns the most recently declared active symbol named name, or
// nil.
func (t *Table) Find(name string) *Symbol {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		if t.symbols[i].Active && t.symbols[i].Name == name {
			return &t.symbols[i]
		}
	}
	return nil
}

// FindAny returns the most recent symbol named name regardless of
// active state, for undefined-variable diagnostics that want to point
// at a since-closed scope's definition (§4.5 "find-any").
func (t *Table) FindAny(name string) *Symbol {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		if t.symbols[i].Name == name {
			return &t.symbols[i]
		}
	}
	return nil
}
