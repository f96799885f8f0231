package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep"
	"github.com/tartampluch/go-celebrate/internal/config"
	"gonum.org/v1/gonum/dsp/fourier"
)

// AnalyserConfig controls the frequency analysis.
type AnalyserConfig struct {
	// FFTSize is the analysis window in samples. Must be a power of two.
	FFTSize int

	// Smoothing blends each frame with the previous one, in [0, 1).
	Smoothing float64

	// MinDecibels and MaxDecibels bound the range mapped onto 0..255.
	MinDecibels float64
	MaxDecibels float64
}

// DefaultAnalyserConfig returns a 256-point analysis with 0.8 smoothing
// mapped from -100 dB to -30 dB.
func DefaultAnalyserConfig() AnalyserConfig {
	return AnalyserConfig{
		FFTSize:     config.FFTSize,
		Smoothing:   config.AnalyserSmoothing,
		MinDecibels: config.AnalyserMinDecibels,
		MaxDecibels: config.AnalyserMaxDecibels,
	}
}

// Analyser is a pass-through streamer that keeps the most recent FFTSize
// samples of its source and exposes their spectrum as bytes.
//
// Stream runs on the speaker goroutine; ByteFrequencyData may be called from
// any goroutine.
type Analyser struct {
	streamer beep.Streamer
	cfg      AnalyserConfig

	// ring holds the last FFTSize mono samples, guarded by ringMu.
	ringMu sync.Mutex
	ring   []float64
	pos    int

	// analysis state, guarded by fftMu.
	fftMu    sync.Mutex
	fft      *fourier.FFT
	window   []float64
	frame    []float64
	coeffs   []complex128
	smoothed []float64
}

// NewAnalyser wraps s. Invalid config fields fall back to the defaults.
func NewAnalyser(s beep.Streamer, cfg AnalyserConfig) *Analyser {
	def := DefaultAnalyserConfig()
	if cfg.FFTSize <= 0 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		cfg.FFTSize = def.FFTSize
	}
	if cfg.Smoothing < 0 || cfg.Smoothing >= 1 {
		cfg.Smoothing = def.Smoothing
	}
	if cfg.MaxDecibels <= cfg.MinDecibels {
		cfg.MinDecibels, cfg.MaxDecibels = def.MinDecibels, def.MaxDecibels
	}

	n := cfg.FFTSize
	return &Analyser{
		streamer: s,
		cfg:      cfg,
		ring:     make([]float64, n),
		fft:      fourier.NewFFT(n),
		window:   blackman(n),
		frame:    make([]float64, n),
		smoothed: make([]float64, n/2),
	}
}

// Stream implements beep.Streamer.
func (a *Analyser) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = a.streamer.Stream(samples)

	a.ringMu.Lock()
	for i := 0; i < n; i++ {
		a.ring[a.pos] = (samples[i][0] + samples[i][1]) / 2
		a.pos = (a.pos + 1) % len(a.ring)
	}
	a.ringMu.Unlock()

	return n, ok
}

// Err implements beep.Streamer.
func (a *Analyser) Err() error {
	return a.streamer.Err()
}

// FrequencyBinCount is half the FFT size.
func (a *Analyser) FrequencyBinCount() int {
	return a.cfg.FFTSize / 2
}

// ByteFrequencyData writes the current spectrum into dst, one byte per bin,
// up to min(len(dst), FrequencyBinCount()) entries.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.fftMu.Lock()
	defer a.fftMu.Unlock()

	n := a.cfg.FFTSize

	// Copy the ring in chronological order and apply the window.
	a.ringMu.Lock()
	for i := 0; i < n; i++ {
		a.frame[i] = a.ring[(a.pos+i)%n] * a.window[i]
	}
	a.ringMu.Unlock()

	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	bins := len(a.smoothed)
	if len(dst) < bins {
		bins = len(dst)
	}

	span := a.cfg.MaxDecibels - a.cfg.MinDecibels
	tau := a.cfg.Smoothing
	for k := 0; k < len(a.smoothed); k++ {
		mag := cmplx.Abs(a.coeffs[k]) / float64(n)
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
		if k >= bins {
			continue
		}

		if a.smoothed[k] <= 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(a.smoothed[k])
		scaled := 255 * (db - a.cfg.MinDecibels) / span
		switch {
		case scaled <= 0:
			dst[k] = 0
		case scaled >= 255:
			dst[k] = 255
		default:
			dst[k] = byte(scaled)
		}
	}
}

// blackman returns the classic Blackman window of length n.
func blackman(n int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}
