package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrate/internal/config"
	"github.com/tartampluch/go-celebrate/internal/engine"
)

func TestNext_TransitionTable(t *testing.T) {
	tests := []struct {
		from    engine.Stage
		event   engine.Event
		to      engine.Stage
		effects []engine.Effect
	}{
		{engine.StageCounting, engine.EventCountdownDone, engine.StageReady,
			[]engine.Effect{engine.EffectShowInvitation}},
		{engine.StageReady, engine.EventStart, engine.StageCelebrating,
			[]engine.Effect{engine.EffectStartConfetti, engine.EffectPlayCelebrationTrack}},
		{engine.StageCelebrating, engine.EventProceedWindowElapsed, engine.StageCelebrating,
			[]engine.Effect{engine.EffectShowProceed}},
		{engine.StageCelebrating, engine.EventConfettiWindowElapsed, engine.StageCelebrating,
			[]engine.Effect{engine.EffectStopConfetti}},
		{engine.StageCelebrating, engine.EventProceed, engine.StagePartying,
			[]engine.Effect{engine.EffectStopConfetti, engine.EffectStopCelebrationTrack, engine.EffectStartVisualizer, engine.EffectPlayPartyTrack}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.event.String(), func(t *testing.T) {
			to, effects, ok := engine.Next(tt.from, tt.event)
			require.True(t, ok)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.effects, effects)
		})
	}
}

func TestNext_UnlistedPairsAreIgnored(t *testing.T) {
	stages := []engine.Stage{engine.StageCounting, engine.StageReady, engine.StageCelebrating, engine.StagePartying}
	events := []engine.Event{engine.EventCountdownDone, engine.EventStart, engine.EventProceedWindowElapsed, engine.EventConfettiWindowElapsed, engine.EventProceed}

	listed := 0
	for _, s := range stages {
		for _, e := range events {
			to, effects, ok := engine.Next(s, e)
			if ok {
				listed++
				assert.GreaterOrEqual(t, to, s, "stage must never regress")
				continue
			}
			assert.Equal(t, s, to)
			assert.Empty(t, effects)
		}
	}
	assert.Equal(t, 5, listed)
}

func TestNext_ReturnsCopy(t *testing.T) {
	_, effects, _ := engine.Next(engine.StageCounting, engine.EventCountdownDone)
	effects[0] = engine.EffectPlayPartyTrack

	_, again, _ := engine.Next(engine.StageCounting, engine.EventCountdownDone)
	assert.Equal(t, []engine.Effect{engine.EffectShowInvitation}, again)
}

// newTestController returns a started controller three seconds before its target.
func newTestController(t *testing.T) (*engine.Controller, *ManualScheduler, *recordingObserver) {
	t.Helper()

	start := time.Date(2025, 5, 4, 21, 35, 57, 0, time.UTC)
	sched := NewManualScheduler(start)
	obs := &recordingObserver{}

	c := engine.NewController(engine.DefaultControllerConfig(start.Add(3*time.Second)), sched.Clock(), sched, obs)
	t.Cleanup(c.Close)
	c.Start()
	return c, sched, obs
}

func TestController_FullProgression(t *testing.T) {
	c, sched, obs := newTestController(t)
	assert.Equal(t, engine.StageCounting, c.Stage())
	require.NotEmpty(t, obs.Remaining())
	assert.Equal(t, 3, obs.Remaining()[0].Seconds)

	sched.Advance(3 * time.Second)
	assert.Equal(t, engine.StageReady, c.Stage())
	remainingAtReady := len(obs.Remaining())

	c.Handle(engine.EventStart)
	assert.Equal(t, engine.StageCelebrating, c.Stage())
	assert.False(t, c.ProceedVisible())

	sched.Advance(config.ProceedWindow)
	assert.True(t, c.ProceedVisible())
	assert.Equal(t, 0, count(obs.Effects(), engine.EffectStopConfetti), "confetti still falling at 40s")

	sched.Advance(config.ConfettiWindow - config.ProceedWindow)
	assert.Equal(t, 1, count(obs.Effects(), engine.EffectStopConfetti))

	c.Handle(engine.EventProceed)
	assert.Equal(t, engine.StagePartying, c.Stage())

	assert.Equal(t, []engine.Stage{engine.StageCounting, engine.StageReady, engine.StageCelebrating, engine.StagePartying}, obs.Stages())
	assert.Equal(t, remainingAtReady, len(obs.Remaining()), "no countdown updates after Ready")
	assert.Zero(t, sched.Live())
}

func TestController_PastTargetGoesStraightToReady(t *testing.T) {
	start := time.Date(2025, 5, 4, 21, 36, 0, 0, time.UTC)
	sched := NewManualScheduler(start)
	obs := &recordingObserver{}

	c := engine.NewController(engine.DefaultControllerConfig(start.Add(-time.Second)), sched.Clock(), sched, obs)
	t.Cleanup(c.Close)
	c.Start()

	require.NotEmpty(t, obs.Remaining())
	assert.True(t, obs.Remaining()[0].IsEmpty())

	sched.Advance(time.Second)
	assert.Equal(t, engine.StageReady, c.Stage())
	assert.Equal(t, []engine.Stage{engine.StageCounting, engine.StageReady}, obs.Stages())
	assert.Equal(t, 1, count(obs.Effects(), engine.EffectShowInvitation))
}

func TestController_PublishesInitialRemaining(t *testing.T) {
	start := time.Date(2025, 5, 4, 20, 35, 0, 0, time.UTC)
	sched := NewManualScheduler(start)
	obs := &recordingObserver{}

	c := engine.NewController(engine.DefaultControllerConfig(start.Add(3661*time.Second)), sched.Clock(), sched, obs)
	t.Cleanup(c.Close)
	c.Start()

	require.NotEmpty(t, obs.Remaining())
	assert.Equal(t, engine.RemainingDuration{Hours: 1, Minutes: 1, Seconds: 1}, obs.Remaining()[0])
	assert.Equal(t, engine.StageCounting, c.Stage())
}

func TestController_ProceedIgnoredUntilVisible(t *testing.T) {
	c, sched, obs := newTestController(t)
	sched.Advance(3 * time.Second)
	c.Handle(engine.EventStart)

	c.Handle(engine.EventProceed)
	assert.Equal(t, engine.StageCelebrating, c.Stage())

	sched.Advance(config.ProceedWindow - time.Second)
	c.Handle(engine.EventProceed)
	assert.Equal(t, engine.StageCelebrating, c.Stage())

	sched.Advance(time.Second)
	c.Handle(engine.EventProceed)
	assert.Equal(t, engine.StagePartying, c.Stage())

	// Leaving Celebrating cancels the confetti window.
	sched.Advance(time.Minute)
	assert.Equal(t, 1, count(obs.Effects(), engine.EffectStopConfetti), "only the Proceed transition stops confetti")
	assert.Zero(t, sched.Live())
}

func TestController_StageNeverRegresses(t *testing.T) {
	c, sched, obs := newTestController(t)

	c.Handle(engine.EventStart)
	assert.Equal(t, engine.StageCounting, c.Stage(), "Start is not accepted while counting")

	sched.Advance(3 * time.Second)
	c.Handle(engine.EventStart)
	c.Handle(engine.EventCountdownDone)
	c.Handle(engine.EventStart)
	assert.Equal(t, engine.StageCelebrating, c.Stage())
	assert.Equal(t, 1, count(obs.Effects(), engine.EffectShowInvitation))
	assert.Equal(t, 1, count(obs.Effects(), engine.EffectPlayCelebrationTrack))
}

func TestController_CloseCancelsPendingWork(t *testing.T) {
	c, sched, obs := newTestController(t)

	c.Close()
	c.Close()

	sched.Advance(time.Hour)
	assert.Equal(t, engine.StageCounting, c.Stage())
	assert.Equal(t, []engine.Stage{engine.StageCounting}, obs.Stages())
	assert.Zero(t, sched.Live())

	c.Handle(engine.EventCountdownDone)
	assert.Equal(t, engine.StageCounting, c.Stage())
}

func TestController_CloseDuringCelebration(t *testing.T) {
	c, sched, obs := newTestController(t)
	sched.Advance(3 * time.Second)
	c.Handle(engine.EventStart)
	require.Equal(t, 2, sched.Live())

	c.Close()
	assert.Zero(t, sched.Live())

	sched.Advance(time.Minute)
	assert.Zero(t, count(obs.Effects(), engine.EffectShowProceed))
	assert.False(t, c.ProceedVisible())
}

func TestController_EventsBeforeStartAreIgnored(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sched := NewManualScheduler(start)
	obs := &recordingObserver{}
	c := engine.NewController(engine.DefaultControllerConfig(start), sched.Clock(), sched, obs)

	c.Handle(engine.EventCountdownDone)
	assert.Equal(t, engine.StageCounting, c.Stage())
	assert.Empty(t, obs.Stages())
}

func TestController_CustomWindows(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sched := NewManualScheduler(start)
	obs := &recordingObserver{}
	cfg := engine.ControllerConfig{Target: start, ConfettiWindow: 5 * time.Second, ProceedWindow: 2 * time.Second}
	c := engine.NewController(cfg, sched.Clock(), sched, obs)
	t.Cleanup(c.Close)

	c.Start()
	sched.Advance(time.Second)
	c.Handle(engine.EventStart)

	sched.Advance(2 * time.Second)
	assert.True(t, c.ProceedVisible())
	sched.Advance(3 * time.Second)
	assert.Equal(t, 1, count(obs.Effects(), engine.EffectStopConfetti))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "celebrating", engine.StageCelebrating.String())
	assert.Equal(t, "unknown", engine.Stage(42).String())
	assert.Equal(t, "proceed", engine.EventProceed.String())
	assert.Equal(t, "unknown", engine.Event(42).String())
	assert.Equal(t, "start_visualizer", engine.EffectStartVisualizer.String())
	assert.Equal(t, "unknown", engine.Effect(42).String())
}
