package vm

import "github.com/orus-lang/orus/internal/config"

// Heap owns every live Obj allocation via the intrusive list threaded
// through Obj.Next, and runs a tracing, non-moving, non-incremental
// mark-and-sweep collection (§4.4 "Garbage collector"). It is not
// safe for concurrent use from multiple goroutines; one VM owns one
// Heap (§5 "Concurrency & Resource Model": a VM run is single-threaded
// by design).
type Heap struct {
	objects   *Obj
	allocated int
	threshold int

	// GCRuns and BytesFreed feed the GC summary line that
	// VM.collectIfNeeded writes to the trace output.
	GCRuns     int
	BytesFreed int
}

// NewHeap creates an empty heap with the configured initial GC
// threshold.
func NewHeap() *Heap {
	return &Heap{threshold: config.GCInitialThreshold}
}

// NewHeapWithThreshold creates an empty heap with an explicit initial
// threshold, overriding the package default. Wired from an orus.yaml
// project file's gc_initial_bytes (§SPEC_FULL "Domain Stack": yaml.v3).
func NewHeapWithThreshold(threshold int) *Heap {
	return &Heap{threshold: threshold}
}

func (h *Heap) register(o *Obj) {
	o.Next = h.objects
	h.objects = o
	h.allocated += objSize(o)
}

// objSize is a rough accounting size used only to drive the GC
// threshold heuristic, not an exact byte count.
func objSize(o *Obj) int {
	base := 32
	switch o.Kind {
	case ObjKindString:
		return base + len(o.Str)
	case ObjKindArray:
		return base + len(o.Elements)*16
	case ObjKindStruct:
		return base + len(o.Fields)*16
	default:
		return base
	}
}

// ShouldCollect reports whether allocated bytes have crossed the
// current threshold (§4.4 "collection is triggered when allocated
// bytes crosses a threshold that doubles after each run").
func (h *Heap) ShouldCollect() bool { return h.allocated >= h.threshold }

// Collect walks roots, marks everything transitively reachable from
// them, then sweeps every unmarked object off the intrusive list
// (§4.4 "Mark phase... Sweep phase... unmarked nodes are unlinked and
// their memory reclaimed").
func (h *Heap) Collect(roots []Value) {
	for i := range roots {
		mark(roots[i].Obj)
	}

	var kept *Obj
	freed := 0
	for o := h.objects; o != nil; {
		next := o.Next
		if o.Marked {
			o.Marked = false
			o.Next = kept
			kept = o
		} else {
			freed += objSize(o)
		}
		o = next
	}
	h.objects = kept
	h.allocated -= freed

	h.GCRuns++
	h.BytesFreed += freed
	h.threshold *= config.GCGrowthFactor
}

// mark marks o and, for composite kinds, every Value it holds
// transitively; the tracing step of the mark phase.
func mark(o *Obj) {
	if o == nil || o.Marked {
		return
	}
	o.Marked = true
	switch o.Kind {
	case ObjKindArray:
		for i := range o.Elements {
			mark(o.Elements[i].Obj)
		}
	case ObjKindStruct:
		for i := range o.Fields {
			mark(o.Fields[i].Obj)
		}
	}
}
