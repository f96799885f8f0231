package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-celebrate/internal/config"
)

// RemainingDuration is the time left until the target instant, split into
// display units. The zero value is the "empty" duration.
type RemainingDuration struct {
	Days    int
	Hours   int // 0..23
	Minutes int // 0..59
	Seconds int // 0..59
}

// IsEmpty reports whether the target instant has been reached.
func (r RemainingDuration) IsEmpty() bool {
	return r == RemainingDuration{}
}

// Total converts the remaining units back to a duration.
func (r RemainingDuration) Total() time.Duration {
	return time.Duration(r.Days)*24*time.Hour +
		time.Duration(r.Hours)*time.Hour +
		time.Duration(r.Minutes)*time.Minute +
		time.Duration(r.Seconds)*time.Second
}

// Remaining computes the time left between now and target.
// Partial seconds round up so the result is empty exactly when the
// difference is zero or negative.
func Remaining(target, now time.Time) RemainingDuration {
	diff := target.Sub(now)
	if diff <= 0 {
		return RemainingDuration{}
	}

	// diff saturates at the maximum duration for far targets, so round up
	// without adding to it.
	total := int64(diff / time.Second)
	if diff%time.Second != 0 {
		total++
	}
	return RemainingDuration{
		Days:    int(total / 86400),
		Hours:   int(total / 3600 % 24),
		Minutes: int(total / 60 % 60),
		Seconds: int(total % 60),
	}
}

// Countdown re-evaluates the remaining time on a fixed interval and signals
// completion exactly once.
type Countdown struct {
	target    time.Time
	clock     Clock
	scheduler Scheduler
	interval  time.Duration

	onTick     func(RemainingDuration)
	onComplete func()

	mu       sync.Mutex
	ticker   Timer
	stopped  bool
	complete sync.Once
	done     bool
}

// NewCountdown creates a countdown towards target.
// onTick receives every recomputed value (including the initial one);
// onComplete is invoked once when the target has been reached. Both may be nil.
func NewCountdown(target time.Time, clock Clock, scheduler Scheduler, onTick func(RemainingDuration), onComplete func()) *Countdown {
	if clock == nil {
		clock = RealClock{}
	}
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	return &Countdown{
		target:     target,
		clock:      clock,
		scheduler:  scheduler,
		interval:   config.CountdownInterval,
		onTick:     onTick,
		onComplete: onComplete,
	}
}

// Target returns the immutable target instant.
func (c *Countdown) Target() time.Time {
	return c.target
}

// Current computes the remaining duration at the current clock time.
func (c *Countdown) Current() RemainingDuration {
	return Remaining(c.target, c.clock.Now())
}

// Start publishes the initial remaining duration and subscribes the
// repeating interval. Calling Start twice has no effect.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.ticker != nil || c.stopped {
		c.mu.Unlock()
		return
	}
	c.ticker = c.scheduler.Every(c.interval, c.tick)
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(c.Current())
	}
}

// Stop cancels the pending interval. A stopped countdown never fires again.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.ticker != nil {
		c.ticker.Stop()
	}
}

// Done reports whether completion has been signalled.
func (c *Countdown) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	rem := Remaining(c.target, c.clock.Now())
	if c.onTick != nil {
		c.onTick(rem)
	}
	if !rem.IsEmpty() {
		return
	}

	c.complete.Do(func() {
		c.mu.Lock()
		c.done = true
		c.stopped = true
		if c.ticker != nil {
			c.ticker.Stop()
		}
		c.mu.Unlock()

		slog.Info(config.MsgCountdownDone,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyTarget, c.target.Format(time.RFC3339))

		if c.onComplete != nil {
			c.onComplete()
		}
	})
}
