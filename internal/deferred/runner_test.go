package deferred

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRunner_ScheduleAndFire(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	var fired atomic.Int32
	r.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) })

	if !r.Pending("a") {
		t.Fatal("task should be pending right after Schedule")
	}

	waitFor(t, func() bool { return fired.Load() == 1 })
	if r.Pending("a") {
		t.Error("task should be deregistered after firing")
	}
}

func TestRunner_CancelBeforeFire(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	var fired atomic.Int32
	r.Schedule("a", 20*time.Millisecond, func() { fired.Add(1) })

	if !r.Cancel("a") {
		t.Fatal("Cancel should report a pending task")
	}
	if r.Cancel("a") {
		t.Error("second Cancel should be a no-op")
	}

	time.Sleep(40 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("cancelled task must not fire")
	}
}

func TestRunner_CancelAfterFireIsNoop(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	var fired atomic.Int32
	r.Schedule("a", 5*time.Millisecond, func() { fired.Add(1) })
	waitFor(t, func() bool { return fired.Load() == 1 })

	if r.Cancel("a") {
		t.Error("Cancel after fire should report nothing pending")
	}
}

func TestRunner_RescheduleSupersedes(t *testing.T) {
	r := NewRunner()
	defer r.Close()

	var old, recent atomic.Int32
	r.Schedule("a", 10*time.Millisecond, func() { old.Add(1) })
	r.Schedule("a", 30*time.Millisecond, func() { recent.Add(1) })

	waitFor(t, func() bool { return recent.Load() == 1 })
	if old.Load() != 0 {
		t.Error("superseded task must not fire")
	}
}

func TestRunner_CloseStopsEverything(t *testing.T) {
	r := NewRunner()

	var fired atomic.Int32
	r.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) })
	r.Close()

	r.Schedule("b", time.Millisecond, func() { fired.Add(1) })
	time.Sleep(30 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("no task may fire after Close")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
