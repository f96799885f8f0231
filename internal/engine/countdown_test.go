package engine_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrate/internal/engine"
)

func TestRemaining(t *testing.T) {
	target := time.Date(2025, 5, 4, 21, 36, 0, 0, time.UTC)

	tests := []struct {
		name string
		diff time.Duration
		want engine.RemainingDuration
	}{
		{"Past", -5 * time.Second, engine.RemainingDuration{}},
		{"Exactly Now", 0, engine.RemainingDuration{}},
		{"Sub-second Rounds Up", 500 * time.Millisecond, engine.RemainingDuration{Seconds: 1}},
		{"Just Under A Minute", 59*time.Second + 500*time.Millisecond, engine.RemainingDuration{Minutes: 1}},
		{"All Units", 24*time.Hour + time.Hour + time.Minute + time.Second, engine.RemainingDuration{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"Hours Stay Below 24", 47*time.Hour + 59*time.Minute + 59*time.Second, engine.RemainingDuration{Days: 1, Hours: 23, Minutes: 59, Seconds: 59}},
		{"Many Days", 400 * 24 * time.Hour, engine.RemainingDuration{Days: 400}},
		{"One Hour One Minute One Second", 3661 * time.Second, engine.RemainingDuration{Hours: 1, Minutes: 1, Seconds: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Remaining(target, target.Add(-tt.diff))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.diff <= 0, got.IsEmpty(), "empty exactly when the target has passed")
		})
	}
}

func TestRemaining_FarFuture(t *testing.T) {
	// Sub saturates at the maximum duration for targets centuries away.
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	target := time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)

	got := engine.Remaining(target, now)
	assert.False(t, got.IsEmpty())
	assert.Positive(t, got.Days)
	assert.GreaterOrEqual(t, got.Hours, 0)
	assert.GreaterOrEqual(t, got.Minutes, 0)
	assert.GreaterOrEqual(t, got.Seconds, 0)
	assert.Equal(t, 106751, got.Days)
}

func TestRemainingDuration_Total(t *testing.T) {
	r := engine.RemainingDuration{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}
	assert.Equal(t, 2*24*time.Hour+3*time.Hour+4*time.Minute+5*time.Second, r.Total())
	assert.Zero(t, engine.RemainingDuration{}.Total())
}

func TestCountdown_TicksAndCompletesOnce(t *testing.T) {
	start := time.Date(2025, 5, 4, 21, 35, 57, 0, time.UTC)
	sched := NewManualScheduler(start)

	var ticks []engine.RemainingDuration
	var completions atomic.Int32
	cd := engine.NewCountdown(start.Add(3*time.Second), sched.Clock(), sched,
		func(r engine.RemainingDuration) { ticks = append(ticks, r) },
		func() { completions.Add(1) })

	cd.Start()
	require.Len(t, ticks, 1, "initial value is published immediately")
	assert.Equal(t, 3, ticks[0].Seconds)
	assert.False(t, cd.Done())

	sched.Advance(3 * time.Second)
	require.Len(t, ticks, 4)
	assert.Equal(t, 2, ticks[1].Seconds)
	assert.Equal(t, 1, ticks[2].Seconds)
	assert.True(t, ticks[3].IsEmpty())
	assert.EqualValues(t, 1, completions.Load())
	assert.True(t, cd.Done())

	// The interval is cancelled after completion.
	sched.Advance(10 * time.Second)
	assert.Len(t, ticks, 4)
	assert.EqualValues(t, 1, completions.Load())
	assert.Zero(t, sched.Live())
}

func TestCountdown_PastTargetCompletesOnFirstTick(t *testing.T) {
	start := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	sched := NewManualScheduler(start)

	var initial engine.RemainingDuration
	first := true
	var completions atomic.Int32
	cd := engine.NewCountdown(start.Add(-time.Hour), sched.Clock(), sched,
		func(r engine.RemainingDuration) {
			if first {
				initial, first = r, false
			}
		},
		func() { completions.Add(1) })

	cd.Start()
	assert.True(t, initial.IsEmpty())
	assert.Zero(t, completions.Load(), "completion waits for the first tick")

	sched.Advance(time.Second)
	assert.EqualValues(t, 1, completions.Load())
}

func TestCountdown_StopPreventsCompletion(t *testing.T) {
	start := time.Date(2025, 5, 4, 21, 35, 57, 0, time.UTC)
	sched := NewManualScheduler(start)

	var completions atomic.Int32
	cd := engine.NewCountdown(start.Add(2*time.Second), sched.Clock(), sched, nil, func() { completions.Add(1) })

	cd.Start()
	cd.Start() // second Start is a no-op
	cd.Stop()
	cd.Stop()

	sched.Advance(time.Minute)
	assert.Zero(t, completions.Load())
	assert.False(t, cd.Done())
	assert.Zero(t, sched.Live())
}

func TestCountdown_TargetAndCurrent(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sched := NewManualScheduler(start)
	target := start.Add(25 * time.Hour)

	cd := engine.NewCountdown(target, sched.Clock(), sched, nil, nil)
	assert.Equal(t, target, cd.Target())
	assert.Equal(t, engine.RemainingDuration{Days: 1, Hours: 1}, cd.Current())
}

func TestRealScheduler_EveryStops(t *testing.T) {
	var n atomic.Int32
	timer := engine.RealScheduler{}.Every(5*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second Stop reports nothing was pending")

	stopped := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, n.Load(), stopped+1, "at most one in-flight tick after Stop")
}
