package deferred

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func joinWithin[T any](t *testing.T, d *Deferred[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := d.Join(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("deferred did not complete in time: %v", d)
	}
	return v, err
}

// TestFirstCompletionWins tests that only the first completion of a handle takes effect
func TestFirstCompletionWins(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		complete  func(d *Deferred[int]) []bool
		wantValue int
		wantErr   error
	}{
		{
			name: "value then value",
			complete: func(d *Deferred[int]) []bool {
				return []bool{d.Callback(1), d.Callback(2)}
			},
			wantValue: 1,
		},
		{
			name: "value then error",
			complete: func(d *Deferred[int]) []bool {
				return []bool{d.Callback(7), d.Fail(errBoom)}
			},
			wantValue: 7,
		},
		{
			name: "error then value",
			complete: func(d *Deferred[int]) []bool {
				return []bool{d.Fail(errBoom), d.Callback(3)}
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New[int]()
			won := tt.complete(d)
			if !won[0] || won[1] {
				t.Errorf("completion results = %v, want [true false]", won)
			}
			v, err, ok := d.Poll()
			if !ok {
				t.Fatal("Poll() reported unset handle")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && v != tt.wantValue {
				t.Errorf("value = %d, want %d", v, tt.wantValue)
			}
		})
	}
}

// TestFailNil tests that failing with a nil error still yields an error outcome
func TestFailNil(t *testing.T) {
	d := New[string]()
	d.Fail(nil)
	if _, err, _ := d.Poll(); !errors.Is(err, ErrNilFailure) {
		t.Errorf("err = %v, want %v", err, ErrNilFailure)
	}
}

// TestChainBeforeAndAfterCompletion tests that a chained dependent sees the outcome exactly once
func TestChainBeforeAndAfterCompletion(t *testing.T) {
	t.Run("chained before completion", func(t *testing.T) {
		src, dep := New[int](), New[int]()
		src.Chain(dep)
		if _, _, ok := dep.Poll(); ok {
			t.Fatal("dependent completed before source")
		}
		src.Callback(42)
		if v, err := joinWithin(t, dep); err != nil || v != 42 {
			t.Errorf("dependent = (%d, %v), want (42, nil)", v, err)
		}
	})

	t.Run("chained after completion", func(t *testing.T) {
		src, dep := FromResult(42), New[int]()
		src.Chain(dep)
		if v, err := joinWithin(t, dep); err != nil || v != 42 {
			t.Errorf("dependent = (%d, %v), want (42, nil)", v, err)
		}
	})

	t.Run("error propagates", func(t *testing.T) {
		errBoom := errors.New("boom")
		src, dep := New[int](), New[int]()
		src.Chain(dep)
		src.Fail(errBoom)
		if _, err := joinWithin(t, dep); !errors.Is(err, errBoom) {
			t.Errorf("err = %v, want %v", err, errBoom)
		}
	})
}

// TestCallbackOrder tests that callbacks run in registration order, including ones added during delivery
func TestCallbackOrder(t *testing.T) {
	d := New[int]()
	var order []int
	d.AddCallback(func(int, error) {
		order = append(order, 1)
		// registered while delivering, must run after callback 2
		d.AddCallback(func(int, error) { order = append(order, 3) })
	})
	d.AddCallback(func(int, error) { order = append(order, 2) })
	d.Callback(0)

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

// TestPanickingCallbackIsIsolated tests that a panicking callback neither stops delivery
// to the other callbacks nor keeps the handle from reporting completion
func TestPanickingCallbackIsIsolated(t *testing.T) {
	tests := []struct {
		name     string
		complete func(d *Deferred[int])
	}{
		{"value", func(d *Deferred[int]) { d.Callback(7) }},
		{"error", func(d *Deferred[int]) { d.Fail(errors.New("lost connection")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New[int]()
			var before, after int
			d.AddCallback(func(int, error) { before++ })
			d.AddCallback(func(int, error) { panic("callback failed") })
			d.AddCallback(func(int, error) { after++ })

			tt.complete(d)
			joinWithin(t, d)
			if before != 1 || after != 1 {
				t.Errorf("callbacks invoked (before, after) = (%d, %d), want (1, 1)", before, after)
			}

			// callbacks added after completion run immediately and are isolated as well
			late := 0
			d.AddCallback(func(int, error) { panic("late callback failed") })
			d.AddCallback(func(int, error) { late++ })
			if late != 1 {
				t.Errorf("late callback invoked %d times, want 1", late)
			}
		})
	}
}

// TestConcurrentCompletion tests that exactly one of many racing completions wins
func TestConcurrentCompletion(t *testing.T) {
	d := New[int]()
	var calls sync.WaitGroup
	var wins sync.Map
	for i := 0; i < 64; i++ {
		calls.Add(1)
		go func(i int) {
			defer calls.Done()
			if d.Callback(i) {
				wins.Store(i, true)
			}
		}(i)
	}

	var observed sync.WaitGroup
	var invocations int
	var mu sync.Mutex
	for i := 0; i < 16; i++ {
		observed.Add(1)
		go func() {
			defer observed.Done()
			d.AddCallback(func(int, error) {
				mu.Lock()
				invocations++
				mu.Unlock()
			})
		}()
	}
	calls.Wait()
	observed.Wait()

	n := 0
	wins.Range(func(_, _ any) bool { n++; return true })
	if n != 1 {
		t.Errorf("winning completions = %d, want 1", n)
	}
	if invocations != 16 {
		t.Errorf("callback invocations = %d, want 16", invocations)
	}
}

// TestJoinContext tests that Join honors context cancellation
func TestJoinContext(t *testing.T) {
	d := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Join(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want %v", err, context.Canceled)
	}
}

// TestGroup tests grouping of handles
func TestGroup(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, err, ok := Group[int]().Poll(); !ok || err != nil {
			t.Errorf("empty group = (ok=%v, err=%v), want completed without error", ok, err)
		}
	})

	t.Run("all succeed", func(t *testing.T) {
		a, b := New[int](), New[int]()
		g := Group(a, b)
		b.Callback(2)
		a.Callback(1)
		v, err := joinWithin(t, g)
		if err != nil || len(v) != 2 || v[0] != 1 || v[1] != 2 {
			t.Errorf("group = (%v, %v), want ([1 2], nil)", v, err)
		}
	})

	t.Run("one fails", func(t *testing.T) {
		errBoom := errors.New("boom")
		a, b := New[int](), New[int]()
		g := Group(a, b)
		a.Callback(1)
		b.Fail(errBoom)
		if _, err := joinWithin(t, g); !errors.Is(err, errBoom) {
			t.Errorf("err = %v, want %v", err, errBoom)
		}
	})
}
