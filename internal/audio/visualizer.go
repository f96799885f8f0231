package audio

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/tartampluch/go-celebrate/internal/config"
)

// FrameSource delivers one callback per rendered frame until cancelled.
type FrameSource interface {
	OnFrame(fn func()) (cancel func())
}

// ErrVisualizerDisabled is returned by Play when the graph could not be built.
var ErrVisualizerDisabled = errors.New(config.ErrVisualizerDisabled)

// Visualizer turns live playback into an intensity value refreshed every frame.
type Visualizer struct {
	newGraph GraphFactory
	frames   FrameSource
	cfg      IntensityConfig
	onLevel  func(float64)

	mu          sync.Mutex
	graph       Graph
	buf         []byte
	initialized bool
	disabled    bool
	playing     bool
	closed      bool
	subscribed  bool
	cancelFrame func()

	level atomic.Uint64
}

// NewVisualizer wires a visualizer. onLevel, if set, is called from the
// frame callback with each new intensity.
func NewVisualizer(newGraph GraphFactory, frames FrameSource, cfg IntensityConfig, onLevel func(float64)) *Visualizer {
	v := &Visualizer{
		newGraph: newGraph,
		frames:   frames,
		cfg:      cfg,
		onLevel:  onLevel,
	}
	v.level.Store(math.Float64bits(config.NeutralIntensity))
	return v
}

// Init builds the audio graph once. A construction failure disables the
// visualizer for the rest of the session; Init then reports false.
func (v *Visualizer) Init() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return false
	}
	if v.initialized {
		return !v.disabled
	}
	v.initialized = true

	g, err := v.newGraph()
	if err != nil {
		v.disabled = true
		slog.Warn(config.MsgGraphFailed,
			config.LogKeyComponent, config.CompVisualizer,
			config.LogKeyError, err)
		return false
	}

	v.graph = g
	v.buf = make([]byte, g.FrequencyBinCount())
	return true
}

// Disabled reports whether the graph could not be built.
func (v *Visualizer) Disabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.disabled
}

// Playing reports whether playback started successfully.
func (v *Visualizer) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

// Level returns the latest intensity. It is NeutralIntensity until sampling starts.
func (v *Visualizer) Level() float64 {
	return math.Float64frombits(v.level.Load())
}

// Play starts playback and, once it succeeds, the sampling loop.
// A playback failure is returned so callers can keep a manual start control.
func (v *Visualizer) Play() error {
	v.mu.Lock()
	graph := v.graph
	usable := !v.closed && !v.disabled && graph != nil
	v.mu.Unlock()

	if !usable {
		return ErrVisualizerDisabled
	}

	if err := graph.Play(); err != nil {
		slog.Warn(config.MsgPlaybackFailed,
			config.LogKeyComponent, config.CompVisualizer,
			config.LogKeyError, err)
		return err
	}

	v.mu.Lock()
	v.playing = true
	v.mu.Unlock()

	v.Start()
	return nil
}

// Start subscribes the sampling loop to the frame source. It is idempotent.
func (v *Visualizer) Start() {
	v.mu.Lock()
	if v.closed || v.graph == nil || v.subscribed {
		v.mu.Unlock()
		return
	}
	v.subscribed = true
	v.mu.Unlock()

	// The frame source may tick immediately, so subscribe without holding mu.
	cancel := v.frames.OnFrame(v.sample)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		cancel()
		return
	}
	v.cancelFrame = cancel
	v.mu.Unlock()

	slog.Debug(config.MsgVisualizerStarted,
		config.LogKeyComponent, config.CompVisualizer,
		config.LogKeyBins, v.cfg.Bins)
}

// sample reads the newest spectrum and publishes its intensity.
func (v *Visualizer) sample() {
	v.mu.Lock()
	if v.closed || v.graph == nil {
		v.mu.Unlock()
		return
	}
	v.graph.ByteFrequencyData(v.buf)
	level := Intensity(v.buf, v.cfg)
	v.mu.Unlock()

	v.level.Store(math.Float64bits(level))
	if v.onLevel != nil {
		v.onLevel(level)
	}
}

// Close cancels the frame subscription and releases the graph.
// Release errors are logged, never returned, and Close may be called again.
func (v *Visualizer) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	cancel := v.cancelFrame
	v.cancelFrame = nil
	graph := v.graph
	v.graph = nil
	v.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if graph == nil {
		return
	}

	if err := graph.Close(); err != nil {
		slog.Warn(config.MsgGraphCloseFailed,
			config.LogKeyComponent, config.CompVisualizer,
			config.LogKeyError, err)
		return
	}
	slog.Debug(config.MsgGraphReleased, config.LogKeyComponent, config.CompVisualizer)
}
