package gc

import "testing"

func TestAllocTracksBytesAndCount(t *testing.T) {
	h := New(1 << 20)
	p, ok := h.Alloc(16, 8)
	if !ok || !p.Valid() {
		t.Fatal("Alloc failed")
	}
	stats := h.Stats()
	if stats.BytesAllocated != 16 || stats.AllocCount != 1 {
		t.Errorf("got %+v, want BytesAllocated=16 AllocCount=1", stats)
	}
}

func TestZeroPtrIsSafe(t *testing.T) {
	var p Ptr
	if p.Valid() {
		t.Error("zero Ptr reports Valid")
	}
	h := New(1024)
	h.MarkPtr(p)    // must not panic
	h.MarkSlice(p)  // must not panic
	if h.MarkAndCheck(p) {
		t.Error("MarkAndCheck on the zero Ptr should report false")
	}
	if got := p.Payload(); got != nil {
		t.Errorf("zero Ptr Payload() = %v, want nil", got)
	}
}

// TestCollectSweepsUnreachable exercises invariant 1 (§8): a collection
// frees everything the root tracer doesn't mark, and reclaims the freed
// bytes from BytesAllocated.
func TestCollectSweepsUnreachable(t *testing.T) {
	h := New(1 << 20)
	keep, _ := h.Alloc(16, 8)
	_, _ = h.Alloc(16, 8) // garbage: never marked

	before := h.Stats()
	if before.BytesAllocated != 32 {
		t.Fatalf("got BytesAllocated=%d before collect, want 32", before.BytesAllocated)
	}

	h.Collect(func(h *Heap) {
		h.MarkPtr(keep)
	})

	after := h.Stats()
	if after.BytesAllocated != 16 {
		t.Errorf("got BytesAllocated=%d after collect, want 16 (only keep survives)", after.BytesAllocated)
	}
	if after.CollectCount != 1 {
		t.Errorf("got CollectCount=%d, want 1", after.CollectCount)
	}
}

// TestCollectRecyclesFreedCellsIntoPool exercises invariant 2 (§8): a freed
// cell of a previously-seen size class is handed back out by a later Alloc
// of the same (size, alignment) rather than growing the tracked set.
func TestCollectRecyclesFreedCellsIntoPool(t *testing.T) {
	h := New(1 << 20)
	_, _ = h.Alloc(32, 8) // garbage, collected below

	h.Collect(func(h *Heap) {}) // nothing marked: the cell goes to the free pool
	if got := len(h.pools[sizeClass{32, 8}]); got != 1 {
		t.Fatalf("got %d cells in the (32, 8) pool after collect, want 1", got)
	}

	p2, ok := h.Alloc(32, 8)
	if !ok || !p2.Valid() {
		t.Fatal("Alloc after collect failed")
	}
	if got := len(h.pools[sizeClass{32, 8}]); got != 0 {
		t.Errorf("got %d cells in the (32, 8) pool after Alloc, want 0 (freed cell reused)", got)
	}
	stats := h.Stats()
	if stats.BytesAllocated != 32 {
		t.Errorf("got BytesAllocated=%d, want 32 (recycled cell counted once)", stats.BytesAllocated)
	}
}

func TestCollectIfNeededGrowsThresholdOnPersistentLiveSet(t *testing.T) {
	h := New(16)
	keep, _ := h.Alloc(16, 8)

	h.CollectIfNeeded(func(h *Heap) {
		h.MarkPtr(keep)
	})

	stats := h.Stats()
	if stats.Threshold != 32 {
		t.Errorf("got Threshold=%d, want 32 (2x the still-live 16 bytes)", stats.Threshold)
	}
	if stats.CollectCount != 1 {
		t.Errorf("got CollectCount=%d, want 1", stats.CollectCount)
	}
}

func TestCollectIfNeededNoOpUnderThreshold(t *testing.T) {
	h := New(1 << 20)
	_, _ = h.Alloc(16, 8)
	h.CollectIfNeeded(func(h *Heap) {
		t.Error("root tracer must not run when under threshold")
	})
	if h.Stats().CollectCount != 0 {
		t.Error("CollectIfNeeded ran a collection while under threshold")
	}
}

func TestSubPointerAllocationsBypassRecycling(t *testing.T) {
	h := New(1 << 20)
	_, _ = h.Alloc(4, 4) // smaller than the 8-byte pointer floor

	h.Collect(func(h *Heap) {})

	if len(h.pools) != 0 {
		t.Errorf("a sub-pointer-size cell should never enter a free pool, got %d pools", len(h.pools))
	}
}

func TestDeinitClearsAllState(t *testing.T) {
	h := New(1 << 20)
	_, _ = h.Alloc(16, 8)
	h.Collect(func(h *Heap) {}) // populate a free pool
	p2, _ := h.Alloc(32, 8)
	h.MarkPtr(p2)

	h.Deinit()

	stats := h.Stats()
	if stats.BytesAllocated != 0 {
		t.Errorf("got BytesAllocated=%d after Deinit, want 0", stats.BytesAllocated)
	}
	if len(h.tracked) != 0 || len(h.pools) != 0 {
		t.Error("Deinit left tracked allocations or free pools behind")
	}
}
