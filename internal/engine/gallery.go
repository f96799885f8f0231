package engine

import (
	"time"

	"github.com/tartampluch/go-celebrate/internal/config"
)

// GalleryTiming controls the staggered entrance of gallery items.
type GalleryTiming struct {
	StaggerDelay     time.Duration
	EntranceDuration time.Duration
}

// DefaultGalleryTiming mirrors the slow reveal of the celebration page.
func DefaultGalleryTiming() GalleryTiming {
	return GalleryTiming{
		StaggerDelay:     config.GalleryStagger,
		EntranceDuration: config.GalleryEntrance,
	}
}

// EntranceDelay returns when item i starts appearing.
func (g GalleryTiming) EntranceDelay(i int) time.Duration {
	if i < 0 {
		return 0
	}
	return time.Duration(i) * g.StaggerDelay
}

// EntranceProgress returns how far item i is into its entrance animation
// after elapsed, in [0, 1].
func (g GalleryTiming) EntranceProgress(i int, elapsed time.Duration) float32 {
	t := elapsed - g.EntranceDelay(i)
	switch {
	case t <= 0:
		return 0
	case g.EntranceDuration <= 0 || t >= g.EntranceDuration:
		return 1
	default:
		return float32(t) / float32(g.EntranceDuration)
	}
}

// Settled returns the time after which every one of n items is fully visible.
func (g GalleryTiming) Settled(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return g.EntranceDelay(n-1) + g.EntranceDuration
}

// NoHover marks that no gallery item is hovered.
const NoHover = -1

// OverlayVisible reports whether the description overlay of item i is shown.
// Overlays stay suppressed until the gallery is marked as loaded.
func OverlayVisible(loaded bool, hovered, i int) bool {
	return loaded && hovered != NoHover && hovered == i
}
