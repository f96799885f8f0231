package engine_test

import (
	"sort"
	"sync"
	"time"

	"github.com/tartampluch/go-celebrate/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentTime
}

func (m *MockClock) set(t time.Time) {
	m.mu.Lock()
	m.CurrentTime = t
	m.mu.Unlock()
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Time
	period  time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

// ManualScheduler fires timers as its clock is advanced.
type ManualScheduler struct {
	mu     sync.Mutex
	clock  *MockClock
	timers []*manualTimer
}

func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{clock: &MockClock{CurrentTime: start}}
}

func (s *ManualScheduler) Clock() *MockClock {
	return s.clock
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) engine.Timer {
	return s.add(d, 0, f)
}

func (s *ManualScheduler) Every(d time.Duration, f func()) engine.Timer {
	return s.add(d, d, f)
}

func (s *ManualScheduler) add(d, period time.Duration, f func()) *manualTimer {
	t := &manualTimer{s: s, at: s.clock.Now().Add(d), period: period, f: f}
	s.mu.Lock()
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return t
}

// Advance moves the clock forward by d, firing every timer that falls due
// in order. Callbacks run without the scheduler lock held.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.clock.Now().Add(d)
	for {
		s.mu.Lock()
		var due []*manualTimer
		for _, t := range s.timers {
			if !t.stopped && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.mu.Unlock()
			break
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		next := due[0]
		at := next.at
		if next.period > 0 {
			next.at = at.Add(next.period)
		} else {
			next.stopped = true
		}
		s.mu.Unlock()

		s.clock.set(at)
		next.f()
	}
	s.clock.set(target)
}

// Live returns the number of timers that can still fire.
func (s *ManualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// recordingObserver captures controller notifications.
type recordingObserver struct {
	mu        sync.Mutex
	stages    []engine.Stage
	remaining []engine.RemainingDuration
	effects   []engine.Effect
}

func (o *recordingObserver) StageChanged(s engine.Stage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, s)
}

func (o *recordingObserver) RemainingChanged(r engine.RemainingDuration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.remaining = append(o.remaining, r)
}

func (o *recordingObserver) ApplyEffect(e engine.Effect) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.effects = append(o.effects, e)
}

func (o *recordingObserver) Effects() []engine.Effect {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]engine.Effect(nil), o.effects...)
}

func (o *recordingObserver) Stages() []engine.Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]engine.Stage(nil), o.stages...)
}

func (o *recordingObserver) Remaining() []engine.RemainingDuration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]engine.RemainingDuration(nil), o.remaining...)
}

func count(effects []engine.Effect, e engine.Effect) int {
	n := 0
	for _, x := range effects {
		if x == e {
			n++
		}
	}
	return n
}
