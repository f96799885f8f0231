package engine

import (
	"sync"
	"time"
)

// Clock abstracts time.Now() to allow deterministic testing.
// It is used by the Countdown to compare "now" against the target instant.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Timer is a cancellable scheduled callback.
// Stop reports whether the call prevented a future firing.
type Timer interface {
	Stop() bool
}

// Scheduler abstracts the platform timer facilities consumed by the engine:
// fixed-delay one-shot callbacks and a repeating interval.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// RealScheduler implements Scheduler on top of the time package.
// Callbacks run on their own goroutine.
type RealScheduler struct{}

// AfterFunc schedules f once after d.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Every runs f every d until the returned Timer is stopped.
func (RealScheduler) Every(d time.Duration, f func()) Timer {
	t := &interval{done: make(chan struct{})}
	ticker := time.NewTicker(d)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				// A tick may already be buffered when Stop is called.
				select {
				case <-t.done:
					return
				default:
				}
				f()
			}
		}
	}()
	return t
}

// interval is the Timer returned by RealScheduler.Every.
type interval struct {
	once sync.Once
	done chan struct{}
}

func (t *interval) Stop() bool {
	stopped := false
	t.once.Do(func() {
		close(t.done)
		stopped = true
	})
	return stopped
}
