package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-celebrate/internal/config"
)

// Stage is the celebration progression driving which view is shown.
type Stage int

const (
	StageCounting Stage = iota
	StageReady
	StageCelebrating
	StagePartying
)

func (s Stage) String() string {
	switch s {
	case StageCounting:
		return "counting"
	case StageReady:
		return "ready"
	case StageCelebrating:
		return "celebrating"
	case StagePartying:
		return "partying"
	default:
		return "unknown"
	}
}

// Event is an input to the stage machine.
type Event int

const (
	// EventCountdownDone is emitted by the countdown when the target is reached.
	EventCountdownDone Event = iota
	// EventStart is the user accepting the invitation.
	EventStart
	// EventProceedWindowElapsed fires when the party control may be shown.
	EventProceedWindowElapsed
	// EventConfettiWindowElapsed fires when confetti emission ends.
	EventConfettiWindowElapsed
	// EventProceed is the user pressing the party control.
	EventProceed
)

func (e Event) String() string {
	switch e {
	case EventCountdownDone:
		return "countdown_done"
	case EventStart:
		return "start"
	case EventProceedWindowElapsed:
		return "proceed_window_elapsed"
	case EventConfettiWindowElapsed:
		return "confetti_window_elapsed"
	case EventProceed:
		return "proceed"
	default:
		return "unknown"
	}
}

// Effect is a side effect requested by a transition.
type Effect int

const (
	EffectShowInvitation Effect = iota
	EffectStartConfetti
	EffectStopConfetti
	EffectPlayCelebrationTrack
	EffectStopCelebrationTrack
	EffectShowProceed
	EffectStartVisualizer
	EffectPlayPartyTrack
)

func (e Effect) String() string {
	switch e {
	case EffectShowInvitation:
		return "show_invitation"
	case EffectStartConfetti:
		return "start_confetti"
	case EffectStopConfetti:
		return "stop_confetti"
	case EffectPlayCelebrationTrack:
		return "play_celebration_track"
	case EffectStopCelebrationTrack:
		return "stop_celebration_track"
	case EffectShowProceed:
		return "show_proceed"
	case EffectStartVisualizer:
		return "start_visualizer"
	case EffectPlayPartyTrack:
		return "play_party_track"
	default:
		return "unknown"
	}
}

// transition is one row of the stage table.
type transition struct {
	to      Stage
	effects []Effect
}

type transitionKey struct {
	from  Stage
	event Event
}

// transitions is the complete stage table. Pairs that are not listed are ignored.
var transitions = map[transitionKey]transition{
	{StageCounting, EventCountdownDone}: {
		to:      StageReady,
		effects: []Effect{EffectShowInvitation},
	},
	{StageReady, EventStart}: {
		to:      StageCelebrating,
		effects: []Effect{EffectStartConfetti, EffectPlayCelebrationTrack},
	},
	{StageCelebrating, EventProceedWindowElapsed}: {
		to:      StageCelebrating,
		effects: []Effect{EffectShowProceed},
	},
	{StageCelebrating, EventConfettiWindowElapsed}: {
		to:      StageCelebrating,
		effects: []Effect{EffectStopConfetti},
	},
	{StageCelebrating, EventProceed}: {
		to:      StagePartying,
		effects: []Effect{EffectStopConfetti, EffectStopCelebrationTrack, EffectStartVisualizer, EffectPlayPartyTrack},
	},
}

// Next looks up the transition for (from, event).
// It returns ok=false when the event does not apply to the stage.
func Next(from Stage, event Event) (Stage, []Effect, bool) {
	t, ok := transitions[transitionKey{from, event}]
	if !ok {
		return from, nil, false
	}
	effects := make([]Effect, len(t.effects))
	copy(effects, t.effects)
	return t.to, effects, true
}

// Observer receives controller notifications. Calls are made outside the
// controller lock, possibly from a timer goroutine.
type Observer interface {
	StageChanged(stage Stage)
	RemainingChanged(rem RemainingDuration)
	ApplyEffect(effect Effect)
}

// ControllerConfig holds the timing parameters of the stage machine.
type ControllerConfig struct {
	Target         time.Time
	ConfettiWindow time.Duration
	ProceedWindow  time.Duration
}

// DefaultControllerConfig returns the standard windows for target.
func DefaultControllerConfig(target time.Time) ControllerConfig {
	return ControllerConfig{
		Target:         target,
		ConfettiWindow: config.ConfettiWindow,
		ProceedWindow:  config.ProceedWindow,
	}
}

// Controller owns the celebration stage, the countdown and the timers
// scheduled by each stage.
type Controller struct {
	cfg       ControllerConfig
	clock     Clock
	scheduler Scheduler
	observer  Observer

	mu             sync.Mutex
	stage          Stage
	started        bool
	closed         bool
	proceedVisible bool
	countdown      *Countdown
	stageTimers    []Timer
}

// NewController wires a controller. A nil clock or scheduler selects the
// real implementation.
func NewController(cfg ControllerConfig, clock Clock, scheduler Scheduler, observer Observer) *Controller {
	if clock == nil {
		clock = RealClock{}
	}
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	return &Controller{
		cfg:       cfg,
		clock:     clock,
		scheduler: scheduler,
		observer:  observer,
		stage:     StageCounting,
	}
}

// Stage returns the current stage.
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// ProceedVisible reports whether the party control has been revealed.
func (c *Controller) ProceedVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proceedVisible
}

// Start enters the Counting stage and starts the countdown.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.countdown = NewCountdown(c.cfg.Target, c.clock, c.scheduler,
		c.remainingChanged,
		func() { c.Handle(EventCountdownDone) })
	countdown := c.countdown
	c.mu.Unlock()

	if c.observer != nil {
		c.observer.StageChanged(StageCounting)
	}
	countdown.Start()
}

// Handle feeds an event into the stage machine. Events that do not apply to
// the current stage are ignored, so the stage never regresses.
func (c *Controller) Handle(event Event) {
	c.mu.Lock()
	if c.closed || !c.started {
		c.mu.Unlock()
		return
	}

	from := c.stage
	if event == EventProceed && !c.proceedVisible {
		c.mu.Unlock()
		c.ignored(from, event)
		return
	}

	to, effects, ok := Next(from, event)
	if !ok {
		c.mu.Unlock()
		c.ignored(from, event)
		return
	}

	if from != to {
		c.exitStage(from)
		c.stage = to
		c.enterStage(to)
	}
	if event == EventProceedWindowElapsed {
		c.proceedVisible = true
	}
	c.mu.Unlock()

	if from != to {
		slog.Info(config.MsgStageChanged,
			config.LogKeyComponent, config.CompController,
			config.LogKeyFrom, from.String(),
			config.LogKeyTo, to.String(),
			config.LogKeyEvent, event.String())
		if c.observer != nil {
			c.observer.StageChanged(to)
		}
	}
	if c.observer != nil {
		for _, e := range effects {
			c.observer.ApplyEffect(e)
		}
	}
}

// Close cancels the countdown and every pending stage timer. Events and timer
// callbacks arriving afterwards are ignored. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.countdown != nil {
		c.countdown.Stop()
	}
	c.cancelStageTimers()
}

// exitStage releases resources owned by the stage being left. Caller holds mu.
func (c *Controller) exitStage(s Stage) {
	switch s {
	case StageCounting:
		if c.countdown != nil {
			c.countdown.Stop()
		}
	case StageCelebrating:
		c.cancelStageTimers()
	}
}

// enterStage acquires resources owned by the new stage. Caller holds mu.
func (c *Controller) enterStage(s Stage) {
	if s != StageCelebrating {
		return
	}
	c.stageTimers = append(c.stageTimers,
		c.scheduler.AfterFunc(c.cfg.ProceedWindow, func() { c.Handle(EventProceedWindowElapsed) }),
		c.scheduler.AfterFunc(c.cfg.ConfettiWindow, func() { c.Handle(EventConfettiWindowElapsed) }),
	)
}

// cancelStageTimers stops every pending stage timer. Caller holds mu.
func (c *Controller) cancelStageTimers() {
	for _, t := range c.stageTimers {
		t.Stop()
	}
	c.stageTimers = nil
}

func (c *Controller) remainingChanged(rem RemainingDuration) {
	c.mu.Lock()
	active := !c.closed && c.stage == StageCounting
	c.mu.Unlock()

	if active && c.observer != nil {
		c.observer.RemainingChanged(rem)
	}
}

func (c *Controller) ignored(stage Stage, event Event) {
	slog.Debug(config.MsgEventIgnored,
		config.LogKeyComponent, config.CompController,
		config.LogKeyStage, stage.String(),
		config.LogKeyEvent, event.String())
}
