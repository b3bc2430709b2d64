package symbols

import "testing"

func TestFindReturnsMostRecentActiveBinding(t *testing.T) {
	tbl := New()
	tbl.Add(Symbol{Name: "x", GlobalSlot: -1})
	tbl.BeginScope()
	tbl.Add(Symbol{Name: "x", GlobalSlot: -1})

	got := tbl.Find("x")
	if got == nil {
		t.Fatal("expected to find x")
	}
	if got.ScopeDepth != 1 {
		t.Errorf("got scope depth %d, want 1 (the inner shadowing binding)", got.ScopeDepth)
	}
}

func TestAddRejectsDuplicateInSameScope(t *testing.T) {
	tbl := New()
	if _, ok := tbl.Add(Symbol{Name: "x", GlobalSlot: -1}); !ok {
		t.Fatal("first declaration of x should succeed")
	}
	if _, ok := tbl.Add(Symbol{Name: "x", GlobalSlot: -1}); ok {
		t.Fatal("duplicate declaration of x in the same scope should be rejected")
	}
}

func TestEndScopeDeactivatesInnerSymbols(t *testing.T) {
	tbl := New()
	tbl.Add(Symbol{Name: "outer", GlobalSlot: -1})
	tbl.BeginScope()
	tbl.Add(Symbol{Name: "inner", GlobalSlot: -1})
	tbl.EndScope()

	if tbl.Find("inner") != nil {
		t.Error("inner should no longer be active after its scope ended")
	}
	if tbl.Find("outer") == nil {
		t.Error("outer should remain active")
	}
	if tbl.FindAny("inner") == nil {
		t.Error("FindAny should still locate a closed scope's symbol")
	}
}

func TestGlobalTableDeclareAndSlotOf(t *testing.T) {
	g := NewGlobalTable()
	slot, err := g.Declare("main", nil, true, false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if slot != 0 {
		t.Errorf("got slot %d, want 0", slot)
	}
	got, ok := g.SlotOf("main")
	if !ok || got != slot {
		t.Errorf("SlotOf(main) = (%d, %t), want (%d, true)", got, ok, slot)
	}
	if _, ok := g.SlotOf("missing"); ok {
		t.Error("SlotOf should report false for an undeclared name")
	}
}

func TestGlobalTableEnforcesSlotLimit(t *testing.T) {
	g := NewGlobalTable()
	for i := 0; i < 256; i++ {
		if _, err := g.Declare("g", nil, false, true); err != nil {
			t.Fatalf("declare %d: unexpected error: %s", i, err)
		}
	}
	if _, err := g.Declare("one-too-many", nil, false, true); err == nil {
		t.Fatal("expected the 257th global declaration to fail")
	}
}
