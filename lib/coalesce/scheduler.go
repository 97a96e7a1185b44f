package coalesce

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// IdleTick is the re-arm delay used while the flush interval is zero.
	IdleTick = 100 * time.Millisecond
	// firstTickIdle is the first delay if the scheduler is started with a zero interval.
	firstTickIdle = time.Millisecond
)

// Scheduler runs a flush pass periodically. The interval is read before every re-arm,
// so changes take effect with the next tick.
type Scheduler struct {
	interval func() time.Duration
	pass     func()

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	stopped bool

	passes   atomic.Uint64
	failures atomic.Uint64
}

// NewScheduler creates a stopped scheduler that runs pass every interval().
func NewScheduler(interval func() time.Duration, pass func()) *Scheduler {
	return &Scheduler{interval: interval, pass: pass}
}

// Start arms the first tick. Only the first call has an effect, it returns whether the
// scheduler was started by this call.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return false
	}
	s.started = true
	s.timer = time.AfterFunc(s.next(firstTickIdle), s.run)
	return true
}

// Stop cancels the next tick. A pass that is already running completes.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Passes returns the number of completed passes, failed ones included.
func (s *Scheduler) Passes() uint64 {
	return s.passes.Load()
}

// Failures returns the number of passes that panicked.
func (s *Scheduler) Failures() uint64 {
	return s.failures.Load()
}

func (s *Scheduler) run() {
	defer s.rearm()
	defer func() {
		if r := recover(); r != nil {
			s.failures.Add(1)
			log.Errorf("flush pass failed: %v", r)
		}
		s.passes.Add(1)
	}()
	s.pass()
}

func (s *Scheduler) rearm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.timer = time.AfterFunc(s.next(IdleTick), s.run)
}

// next returns the configured interval, or idle if buffering is disabled.
func (s *Scheduler) next(idle time.Duration) time.Duration {
	if d := s.interval(); d > 0 {
		return d
	}
	return idle
}
