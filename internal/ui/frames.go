package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-celebrate/internal/config"
)

// animationFrames is an audio.FrameSource backed by a Fyne animation that
// repeats forever. Fyne ticks animations once per rendered frame on the
// UI goroutine.
type animationFrames struct{}

func (animationFrames) OnFrame(fn func()) func() {
	return loop(config.FrameLoopDuration, func(float32) { fn() }).Stop
}

// loop starts a linear animation over d that repeats forever.
func loop(d time.Duration, tick func(float32)) *fyne.Animation {
	anim := fyne.NewAnimation(d, tick)
	anim.Curve = fyne.AnimationLinear
	anim.RepeatCount = fyne.AnimationRepeatForever
	anim.Start()
	return anim
}
