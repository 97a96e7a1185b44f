package deferred

import (
	"errors"
	"testing"
)

type remoteError struct{ cause error }

func (e *remoteError) Error() string { return "remote: " + e.cause.Error() }
func (e *remoteError) Cause() error  { return e.cause }

// TestGo tests the blocking call bridge
func TestGo(t *testing.T) {
	errNotCounter := errors.New("not a counter")
	wrapped := &remoteError{cause: errNotCounter}

	tests := []struct {
		name    string
		fn      func() (int64, error)
		want    int64
		wantErr error
	}{
		{
			name: "value",
			fn:   func() (int64, error) { return 11, nil },
			want: 11,
		},
		{
			name:    "plain error is kept",
			fn:      func() (int64, error) { return 0, errNotCounter },
			wantErr: errNotCounter,
		},
		{
			name:    "remote error is unwrapped once",
			fn:      func() (int64, error) { return 0, wrapped },
			wantErr: errNotCounter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := joinWithin(t, Go(tt.fn))
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || v != tt.want {
				t.Errorf("Go() = (%d, %v), want (%d, nil)", v, err, tt.want)
			}
		})
	}
}

// TestGoPanic tests that a panicking call fails the handle
func TestGoPanic(t *testing.T) {
	d := Go(func() (int, error) { panic("lost connection") })
	if _, err := joinWithin(t, d); err == nil {
		t.Error("expected error from panicking call")
	}
}

// TestGoCallbackPanicKeepsOutcome tests that a panicking callback neither changes the
// outcome of the call nor blocks the other callbacks
func TestGoCallbackPanicKeepsOutcome(t *testing.T) {
	release := make(chan struct{})
	d := Go(func() (int64, error) {
		<-release
		return 42, nil
	})
	d.AddCallback(func(int64, error) { panic("waiter failed") })
	sibling := New[int64]()
	d.Chain(sibling)
	close(release)

	v, err := joinWithin(t, sibling)
	if err != nil || v != 42 {
		t.Fatalf("sibling = (%d, %v), want (42, nil)", v, err)
	}
	if v, err := joinWithin(t, d); err != nil || v != 42 {
		t.Errorf("handle = (%d, %v), want (42, nil)", v, err)
	}
}
