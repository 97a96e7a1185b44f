package coalesce

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

// TestSchedulerSurvivesPanics tests that a panicking pass does not stop the schedule
func TestSchedulerSurvivesPanics(t *testing.T) {
	var calls atomic.Int64
	s := NewScheduler(func() time.Duration { return time.Millisecond }, func() {
		if calls.Add(1)%2 == 1 {
			panic("flush failed")
		}
	})
	if !s.Start() {
		t.Fatal("Start() = false on first call")
	}
	defer s.Stop()
	if s.Start() {
		t.Error("Start() = true on second call")
	}

	waitFor(t, func() bool { return s.Passes() >= 4 })
	if s.Failures() == 0 {
		t.Error("Failures() = 0, want panicking passes to be counted")
	}
}

// TestSchedulerIdleInterval tests that the scheduler keeps ticking while the interval is zero
func TestSchedulerIdleInterval(t *testing.T) {
	var interval atomic.Int64
	s := NewScheduler(func() time.Duration { return time.Duration(interval.Load()) }, func() {})
	s.Start()
	defer s.Stop()

	// first tick fires after firstTickIdle, the next one after IdleTick
	waitFor(t, func() bool { return s.Passes() >= 1 })

	interval.Store(int64(time.Millisecond))
	waitFor(t, func() bool { return s.Passes() >= 5 })
}

// TestSchedulerStop tests that no pass runs after Stop
func TestSchedulerStop(t *testing.T) {
	s := NewScheduler(func() time.Duration { return time.Millisecond }, func() {})
	s.Start()
	waitFor(t, func() bool { return s.Passes() >= 1 })
	s.Stop()

	time.Sleep(5 * time.Millisecond) // let a pass that raced with Stop finish
	after := s.Passes()
	time.Sleep(20 * time.Millisecond)
	if s.Passes() > after {
		t.Errorf("Passes() grew from %d to %d after Stop", after, s.Passes())
	}
}
