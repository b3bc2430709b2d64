package vm

import "testing"

func TestCollectFreesUnreachableObjects(t *testing.T) {
	h := NewHeap()
	live := newString(h, "kept")
	newString(h, "garbage") // no root holds this one

	roots := []Value{FromObj(live)}
	h.Collect(roots)

	if h.GCRuns != 1 {
		t.Fatalf("got GCRuns=%d, want 1", h.GCRuns)
	}
	found := false
	for o := h.objects; o != nil; o = o.Next {
		if o == live {
			found = true
		}
	}
	if !found {
		t.Fatal("a rooted object was swept")
	}

	count := 0
	for o := h.objects; o != nil; o = o.Next {
		count++
	}
	if count != 1 {
		t.Errorf("got %d surviving objects, want 1", count)
	}
}

func TestCollectTracesArrayElementsTransitively(t *testing.T) {
	h := NewHeap()
	inner := newString(h, "inner")
	arr := newArray(h, []Value{FromObj(inner)})

	h.Collect([]Value{FromObj(arr)})

	count := 0
	for o := h.objects; o != nil; o = o.Next {
		count++
	}
	if count != 2 {
		t.Errorf("got %d surviving objects, want 2 (array + its element)", count)
	}
}

func TestShouldCollectCrossesThreshold(t *testing.T) {
	h := NewHeapWithThreshold(1)
	if h.ShouldCollect() {
		t.Fatal("expected ShouldCollect to be false with nothing allocated yet")
	}
	newString(h, "past the tiny threshold")
	if !h.ShouldCollect() {
		t.Fatal("expected ShouldCollect to be true once allocated bytes cross the threshold")
	}
}

func TestThresholdDoublesAfterCollect(t *testing.T) {
	h := NewHeapWithThreshold(64)
	newString(h, "x")
	h.Collect(nil)
	if h.threshold != 128 {
		t.Errorf("got threshold %d, want 128", h.threshold)
	}
}
