package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/tartampluch/go-celebrate/internal/config"
)

// Player owns the speaker and a mixer every track is added to.
type Player struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	initialized bool

	// initSpeaker is swapped in tests to run without an audio device.
	initSpeaker func(sr beep.SampleRate, bufferSize int) error
	play        func(s ...beep.Streamer)
	lock        func()
	unlock      func()
}

// NewPlayer creates a player. The speaker is opened lazily on first playback,
// which is what lets mobile devices defer audio until a user gesture.
func NewPlayer() *Player {
	return &Player{
		sampleRate:  beep.SampleRate(config.SampleRate),
		mixer:       &beep.Mixer{},
		initSpeaker: speaker.Init,
		play:        speaker.Play,
		lock:        speaker.Lock,
		unlock:      speaker.Unlock,
	}
}

// SampleRate is the output rate every track is resampled to.
func (p *Player) SampleRate() beep.SampleRate {
	return p.sampleRate
}

// Initialize opens the speaker and starts the mixer. It is idempotent.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := p.initSpeaker(p.sampleRate, p.sampleRate.N(config.SpeakerBuffer)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSpeakerInit, err)
	}

	p.play(p.mixer)
	p.initialized = true

	slog.Info(config.MsgSpeakerReady,
		config.LogKeyComponent, config.CompAudio,
		config.LogKeySampleRate, int(p.sampleRate))
	return nil
}

// Initialized reports whether the speaker has been opened.
func (p *Player) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Cleanup stops all tracks. The speaker itself stays open.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.lock()
	p.mixer.Clear()
	p.unlock()
}

// Track is a playing (or paused) stream in the mixer.
type Track struct {
	name   string
	player *Player
	ctrl   *beep.Ctrl
	volume *effects.Volume
	closer io.Closer

	mu      sync.Mutex
	stopped bool
}

// Name identifies the track in logs.
func (t *Track) Name() string {
	return t.name
}

// SetPaused pauses or resumes the track.
func (t *Track) SetPaused(paused bool) {
	t.player.lock()
	t.ctrl.Paused = paused
	t.player.unlock()
}

// Paused reports whether the track is paused.
func (t *Track) Paused() bool {
	t.player.lock()
	defer t.player.unlock()
	return t.ctrl.Paused
}

// SetVolume sets the gain in base-2 exponent steps; 0 is unity.
func (t *Track) SetVolume(v float64) {
	t.player.lock()
	t.volume.Volume = v
	t.player.unlock()
}

// Stop removes the track from the mixer and closes its source. It returns
// ErrTrackStopped when called twice.
func (t *Track) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return ErrTrackStopped
	}
	t.stopped = true

	// A nil streamer makes the Ctrl drain, which removes it from the mixer.
	t.player.lock()
	t.ctrl.Paused = true
	t.ctrl.Streamer = nil
	t.player.unlock()

	slog.Debug(config.MsgTrackStopped,
		config.LogKeyComponent, config.CompAudio,
		config.LogKeyTrack, t.name)

	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// ErrTrackStopped is returned when stopping a track twice.
var ErrTrackStopped = errors.New(config.ErrTrackStopped)

// Tap wraps a decoded stream before it reaches the mixer, e.g. with an Analyser.
type Tap func(beep.Streamer) beep.Streamer

// PlayFile decodes path and adds it to the mixer. The track starts paused
// when paused is true. The speaker is not opened here; see Initialize.
func (p *Player) PlayFile(path string, loop, paused bool, tap Tap) (*Track, error) {
	stream, format, err := OpenTrack(path)
	if err != nil {
		return nil, err
	}

	var s beep.Streamer = stream
	if loop {
		s = beep.Loop(-1, stream)
	}
	return p.add(filepath.Base(path), s, format, stream, paused, tap), nil
}

// PlayStreamer adds an already built streamer running at rate sr.
func (p *Player) PlayStreamer(name string, s beep.Streamer, sr beep.SampleRate, paused bool) *Track {
	return p.add(name, s, beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}, nil, paused, nil)
}

func (p *Player) add(name string, s beep.Streamer, format beep.Format, closer io.Closer, paused bool, tap Tap) *Track {
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(config.ResampleQuality, format.SampleRate, p.sampleRate, s)
	}
	if tap != nil {
		s = tap(s)
	}

	ctrl := &beep.Ctrl{Streamer: s, Paused: paused}
	vol := &effects.Volume{Streamer: ctrl, Base: 2}

	p.lock()
	p.mixer.Add(vol)
	p.unlock()

	slog.Info(config.MsgTrackStarted,
		config.LogKeyComponent, config.CompAudio,
		config.LogKeyTrack, name,
		config.LogKeyPaused, paused)

	return &Track{name: name, player: p, ctrl: ctrl, volume: vol, closer: closer}
}

// OpenTrack decodes an MP3 or WAV file based on its extension.
func OpenTrack(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != config.ExtMP3 && ext != config.ExtWAV {
		return nil, beep.Format{}, fmt.Errorf("%s: %q", config.ErrFormatUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%s: %w", config.ErrTrackOpen, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case config.ExtMP3:
		stream, format, err = mp3.Decode(f)
	default:
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%s: %w", config.ErrTrackDecode, err)
	}
	return stream, format, nil
}
