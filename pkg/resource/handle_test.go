package resource

import (
	"testing"

	"pgregory.net/rapid"
)

type fakeContext struct {
	destroyed int
}

func TestReleaseIsIdempotent(t *testing.T) {
	tracker := NewTracker()
	ctx := &fakeContext{}
	h := New("chart", ctx, func(c *fakeContext) { c.destroyed++ }, tracker)

	if tracker.Live("chart") != 1 {
		t.Fatalf("live = %d, want 1", tracker.Live("chart"))
	}
	h.Release()
	h.Release()
	h.Release()

	if ctx.destroyed != 1 {
		t.Errorf("release ran %d times, want 1", ctx.destroyed)
	}
	if !h.Released() {
		t.Error("handle should report released")
	}
	if tracker.Live("chart") != 0 {
		t.Errorf("live = %d, want 0", tracker.Live("chart"))
	}
}

func TestNilHandleRelease(t *testing.T) {
	var h *Handle[int]
	h.Release()
}

func TestNilTracker(t *testing.T) {
	var tracker *Tracker
	h := New("stream", 1, nil, tracker)
	h.Release()
	if tracker.Live("stream") != 0 || tracker.Total() != 0 || tracker.Peak("stream") != 0 {
		t.Error("nil tracker should report zero")
	}
}

func TestSlotReplacesHandle(t *testing.T) {
	tracker := NewTracker()
	var slot Slot[*fakeContext]
	first := &fakeContext{}
	second := &fakeContext{}

	slot.Set(New("chart", first, func(c *fakeContext) { c.destroyed++ }, tracker))
	slot.Set(New("chart", second, func(c *fakeContext) { c.destroyed++ }, tracker))

	if first.destroyed != 1 {
		t.Error("Set should release the previous handle")
	}
	if !slot.Live() || slot.Get().Value() != second {
		t.Error("slot should hold the second handle")
	}
	slot.Release()
	slot.Release()
	if second.destroyed != 1 || slot.Live() || slot.Get() != nil {
		t.Error("slot release should free and empty the slot")
	}
	if tracker.Total() != 0 {
		t.Errorf("total = %d, want 0", tracker.Total())
	}
}

func TestSlotTake(t *testing.T) {
	var slot Slot[int]
	h := New("stream", 7, nil, nil)
	slot.Set(h)
	if got := slot.Take(); got != h {
		t.Fatal("Take should return the held handle")
	}
	if h.Released() {
		t.Error("Take must not release")
	}
	if slot.Get() != nil {
		t.Error("slot should be empty after Take")
	}
}

// Releasing before allocating keeps at most one live handle per kind no
// matter how refreshes and releases interleave.
func TestReleaseBeforeAllocateProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tracker := NewTracker()
		var slot Slot[int]
		ops := rapid.SliceOf(rapid.SampledFrom([]string{"refresh", "release"})).Draw(t, "ops")
		for i, op := range ops {
			switch op {
			case "refresh":
				slot.Release()
				slot.Set(New("chart", i, nil, tracker))
			case "release":
				slot.Release()
			}
			if live := tracker.Live("chart"); live > 1 {
				t.Fatalf("live handles = %d after %s", live, op)
			}
		}
		slot.Release()
		if tracker.Live("chart") != 0 {
			t.Fatalf("live handles after final release = %d", tracker.Live("chart"))
		}
		if tracker.Peak("chart") > 1 {
			t.Fatalf("peak = %d", tracker.Peak("chart"))
		}
	})
}
