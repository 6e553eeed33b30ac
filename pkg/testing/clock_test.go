package testing

import (
	"testing"
	"time"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestFakeClock_TimersFireInOrder(t *testing.T) {
	clk := NewFakeClock()
	var order []string
	clk.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	clk.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	clk.AfterFunc(100*time.Millisecond, func() { order = append(order, "b") })

	clk.Advance(200 * time.Millisecond)
	if got := len(order); got != 2 {
		t.Fatalf("expected 2 timers fired, got %d", got)
	}
	clk.Advance(100 * time.Millisecond)

	want := []string{"a", "b", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestFakeClock_NowDuringCallback(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()
	var at time.Duration
	clk.AfterFunc(250*time.Millisecond, func() { at = clk.Now().Sub(start) })

	clk.Advance(time.Second)
	if at != 250*time.Millisecond {
		t.Errorf("expected callback to see 250ms, got %v", at)
	}
}

func TestFakeClock_Stop(t *testing.T) {
	clk := NewFakeClock()
	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("expected Stop to report a pending timer")
	}
	if timer.Stop() {
		t.Error("expected second Stop to report false")
	}
	clk.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if clk.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clk.Pending())
	}
}

func TestFakeClock_StopAfterFire(t *testing.T) {
	clk := NewFakeClock()
	timer := clk.AfterFunc(time.Millisecond, func() {})
	clk.Advance(time.Millisecond)

	if timer.Stop() {
		t.Error("expected Stop after firing to report false")
	}
}

func TestFakeClock_NestedScheduling(t *testing.T) {
	clk := NewFakeClock()
	count := 0
	clk.AfterFunc(100*time.Millisecond, func() {
		count++
		clk.AfterFunc(100*time.Millisecond, func() { count++ })
	})

	clk.Advance(250 * time.Millisecond)
	if count != 2 {
		t.Errorf("expected nested timer to fire within the same advance, got %d", count)
	}
}
