package audio

import "github.com/tartampluch/go-celebrate/internal/config"

// IntensityConfig maps a byte frequency buffer to a visual intensity.
// The defaults (first 20 bins, divisor 128) are tuning values picked by eye.
type IntensityConfig struct {
	// Bins is the number of low-frequency bins averaged.
	Bins int

	// Divisor scales the average: intensity = 1 + average/Divisor.
	Divisor float64
}

// DefaultIntensityConfig returns the standard tuning.
func DefaultIntensityConfig() IntensityConfig {
	return IntensityConfig{
		Bins:    config.IntensityBins,
		Divisor: config.IntensityDivisor,
	}
}

// Intensity averages the first cfg.Bins entries of buf and returns
// 1 + average/cfg.Divisor. With byte input and the default divisor the
// result lies in [1, 1+255/128]. Degenerate input yields the neutral value.
func Intensity(buf []byte, cfg IntensityConfig) float64 {
	n := cfg.Bins
	if n > len(buf) {
		n = len(buf)
	}
	if n <= 0 || cfg.Divisor <= 0 {
		return config.NeutralIntensity
	}

	sum := 0
	for _, v := range buf[:n] {
		sum += int(v)
	}
	avg := float64(sum) / float64(n)
	return config.NeutralIntensity + avg/cfg.Divisor
}
