package ui

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/gopxl/beep"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-celebrate/internal/audio"
	"github.com/tartampluch/go-celebrate/internal/config"
	"github.com/tartampluch/go-celebrate/internal/engine"
)

// TrackPlayer is the audio output used by the celebration views.
// *audio.Player implements it.
type TrackPlayer interface {
	Initialize() error
	PlayFile(path string, loop, paused bool, tap audio.Tap) (*audio.Track, error)
	PlayStreamer(name string, s beep.Streamer, sr beep.SampleRate, paused bool) *audio.Track
	Cleanup()
}

// Options carries what was resolved at startup.
type Options struct {
	Honoree   engine.Honoree
	Memories  []engine.MemoryItem
	AssetsDir string
	// Mobile forces the tap-to-start audio policy.
	Mobile bool
}

// CelebrateApp encapsulates the UI state, preferences, and the stage machine.
// It is the engine.Observer of its Controller.
type CelebrateApp struct {
	App                fyne.App
	Window             fyne.Window
	Preferences        fyne.Preferences
	I18nBundle         *i18n.Bundle
	Localizer          *i18n.Localizer
	SupportedLanguages []string

	Honoree   engine.Honoree
	Memories  []engine.MemoryItem
	AssetsDir string
	Mobile    bool

	// Injected collaborators. Tests swap these before Build.
	Clock      engine.Clock
	Scheduler  engine.Scheduler
	Player     TrackPlayer
	PartyGraph audio.GraphFactory
	Frames     audio.FrameSource

	Controller *engine.Controller
	Visualizer *audio.Visualizer

	// runOnMain marshals observer callbacks onto the UI goroutine.
	runOnMain func(func())
	// handleEvent feeds user input to the controller off the UI goroutine.
	handleEvent func(engine.Event)

	content   *fyne.Container
	countdown *countdownView
	gallery   *galleryView
	party     *partyView
	confetti  *Confetti

	trackMu     sync.Mutex
	celebration *audio.Track
	partyTrack  *audio.Track

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewCelebrateApp constructs the application and wires default dependencies.
func NewCelebrateApp(a fyne.App, opts Options) *CelebrateApp {
	player := audio.NewPlayer()

	app := &CelebrateApp{
		App:         a,
		Preferences: a.Preferences(),
		Honoree:     opts.Honoree,
		Memories:    opts.Memories,
		AssetsDir:   opts.AssetsDir,
		Mobile:      opts.Mobile || fyne.CurrentDevice().IsMobile(),
		Clock:       engine.RealClock{},
		Scheduler:   engine.RealScheduler{},
		Player:      player,
		Frames:      animationFrames{},
		runOnMain:   fyne.Do,
	}
	app.PartyGraph = audio.TrackGraphFactory(player, app.assetPath(config.PartyTrack), audio.DefaultAnalyserConfig())
	app.handleEvent = func(e engine.Event) {
		go app.Controller.Handle(e)
	}
	return app
}

// Build creates the window, the three stage views, the controller and the
// visualizer. The countdown is not started; see Run.
func (app *CelebrateApp) Build() {
	app.SetupI18n()

	app.Window = app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window.Resize(fyne.NewSize(config.WindowWidth, config.WindowHeight))

	app.confetti = NewConfetti()
	app.countdown = newCountdownView(app)
	app.gallery = newGalleryView(app)
	app.party = newPartyView(app)

	app.content = container.NewStack(app.countdown.content)
	app.Window.SetContent(app.content)
	app.Window.SetOnClosed(app.Close)

	app.Visualizer = audio.NewVisualizer(app.PartyGraph, app.Frames, audio.DefaultIntensityConfig(), app.party.SetLevel)
	app.Controller = engine.NewController(engine.DefaultControllerConfig(app.Honoree.Target), app.Clock, app.Scheduler, app)

	slog.Info(config.MsgViewsBuilt,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyName, app.Honoree.Name,
		config.LogKeyCount, len(app.Memories),
		config.LogKeyMobile, app.Mobile)
}

// Run shows the window and blocks in the Fyne event loop.
func (app *CelebrateApp) Run() {
	app.Build()

	app.App.Lifecycle().SetOnStarted(func() {
		go app.Controller.Start()
	})
	app.App.Lifecycle().SetOnStopped(app.Close)

	app.Window.ShowAndRun()
}

// Close tears down timers, animations, audio and the analysis graph.
// Callbacks arriving afterwards are ignored.
func (app *CelebrateApp) Close() {
	app.closeOnce.Do(func() {
		app.closed.Store(true)
		slog.Info(config.MsgViewTeardown, config.LogKeyComponent, config.CompUI)

		if app.Controller != nil {
			app.Controller.Close()
		}
		if app.Visualizer != nil {
			app.Visualizer.Close()
		}
		if app.confetti != nil {
			app.confetti.Halt()
		}
		if app.gallery != nil {
			app.gallery.Stop()
		}
		if app.party != nil {
			app.party.Stop()
		}

		app.stopTrack(&app.celebration)
		app.stopTrack(&app.partyTrack)
		if app.Player != nil {
			app.Player.Cleanup()
		}
	})
}

// -----------------------------------------------------------------------------
// engine.Observer
// -----------------------------------------------------------------------------

// StageChanged swaps the visible view.
func (app *CelebrateApp) StageChanged(stage engine.Stage) {
	app.runOnMain(func() {
		if app.closed.Load() {
			return
		}
		app.showStage(stage)
	})
}

// RemainingChanged refreshes the countdown digits.
func (app *CelebrateApp) RemainingChanged(rem engine.RemainingDuration) {
	app.runOnMain(func() {
		if app.closed.Load() {
			return
		}
		app.countdown.SetRemaining(rem)
	})
}

// ApplyEffect performs a side effect requested by a stage transition.
func (app *CelebrateApp) ApplyEffect(effect engine.Effect) {
	app.runOnMain(func() {
		if app.closed.Load() {
			return
		}
		app.applyEffect(effect)
	})
}

func (app *CelebrateApp) showStage(stage engine.Stage) {
	switch stage {
	case engine.StageCounting, engine.StageReady:
		app.content.Objects = []fyne.CanvasObject{app.countdown.content}
	case engine.StageCelebrating:
		app.content.Objects = []fyne.CanvasObject{app.gallery.content, app.confetti.Layer}
		app.gallery.Start()
	case engine.StagePartying:
		app.gallery.Stop()
		app.content.Objects = []fyne.CanvasObject{app.party.content}
		app.party.Start()
	}
	app.content.Refresh()
}

func (app *CelebrateApp) applyEffect(effect engine.Effect) {
	slog.Debug(config.MsgApplyEffect,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyEffect, effect.String())

	switch effect {
	case engine.EffectShowInvitation:
		app.countdown.ShowInvitation()
	case engine.EffectStartConfetti:
		app.confetti.Start(config.ConfettiPiecesGift)
	case engine.EffectStopConfetti:
		app.confetti.Stop()
	case engine.EffectPlayCelebrationTrack:
		app.playCelebrationTrack()
	case engine.EffectStopCelebrationTrack:
		app.stopTrack(&app.celebration)
	case engine.EffectShowProceed:
		app.gallery.ShowProceed()
	case engine.EffectStartVisualizer:
		app.Visualizer.Init()
	case engine.EffectPlayPartyTrack:
		if app.Mobile {
			// Mobile browsers and devices refuse audio without a user gesture.
			slog.Info(config.MsgMobileDeferred, config.LogKeyComponent, config.CompUI)
			app.party.ShowStart(true)
			return
		}
		app.startPartyAudio()
	}
}

// -----------------------------------------------------------------------------
// Audio
// -----------------------------------------------------------------------------

func (app *CelebrateApp) assetPath(rel string) string {
	return filepath.Join(app.AssetsDir, filepath.FromSlash(rel))
}

// playCelebrationTrack plays the birthday song once, or the synthesized
// melody when the file cannot be decoded. Failures are logged only.
func (app *CelebrateApp) playCelebrationTrack() {
	if app.Player == nil {
		return
	}
	if err := app.Player.Initialize(); err != nil {
		slog.Warn(config.MsgPlaybackFailed,
			config.LogKeyComponent, config.CompAudio,
			config.LogKeyError, err)
		return
	}

	path := app.assetPath(config.CelebrationTrack)
	track, err := app.Player.PlayFile(path, false, false, nil)
	if err != nil {
		slog.Info(config.MsgFallbackMelody,
			config.LogKeyComponent, config.CompAudio,
			config.LogKeyFile, path,
			config.LogKeyError, err)

		sr := beep.SampleRate(config.SampleRate)
		melody := audio.NewMelodyGenerator(sr, audio.HappyBirthday, config.MelodyBPM)
		track = app.Player.PlayStreamer(config.TrackMelody, melody, sr, false)
	}

	app.trackMu.Lock()
	app.celebration = track
	app.trackMu.Unlock()
}

// startPartyAudio starts the analysed party track. It is also the handler
// of the manual start control, which stays visible while playback fails.
func (app *CelebrateApp) startPartyAudio() {
	if !app.Visualizer.Init() {
		app.playPartyTrackUnanalysed()
		return
	}
	if err := app.Visualizer.Play(); err != nil {
		app.party.ShowStart(true)
		return
	}
	app.party.ShowStart(false)
}

// playPartyTrackUnanalysed keeps the music going when no analysis graph
// could be built. The headline then stays at its neutral size.
func (app *CelebrateApp) playPartyTrackUnanalysed() {
	app.trackMu.Lock()
	playing := app.partyTrack != nil
	app.trackMu.Unlock()
	if playing || app.Player == nil {
		return
	}

	if err := app.Player.Initialize(); err != nil {
		slog.Warn(config.MsgPlaybackFailed,
			config.LogKeyComponent, config.CompAudio,
			config.LogKeyError, err)
		app.party.ShowStart(true)
		return
	}

	track, err := app.Player.PlayFile(app.assetPath(config.PartyTrack), true, false, nil)
	if err != nil {
		slog.Warn(config.MsgPlaybackFailed,
			config.LogKeyComponent, config.CompAudio,
			config.LogKeyError, err)
		return
	}

	app.trackMu.Lock()
	app.partyTrack = track
	app.trackMu.Unlock()
	app.party.ShowStart(false)
}

func (app *CelebrateApp) stopTrack(slot **audio.Track) {
	app.trackMu.Lock()
	track := *slot
	*slot = nil
	app.trackMu.Unlock()

	if track == nil {
		return
	}
	if err := track.Stop(); err != nil && !errors.Is(err, audio.ErrTrackStopped) {
		slog.Warn(config.MsgTrackStopFailed,
			config.LogKeyComponent, config.CompAudio,
			config.LogKeyTrack, track.Name(),
			config.LogKeyError, err)
	}
}
