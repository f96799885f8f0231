package ui

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/tartampluch/go-celebrate/internal/config"
)

var confettiPalette = []color.Color{
	color.NRGBA{R: 0xf4, G: 0x72, B: 0xb6, A: 0xff},
	color.NRGBA{R: 0xa7, G: 0x8b, B: 0xfa, A: 0xff},
	color.NRGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 0xff},
	color.NRGBA{R: 0x34, G: 0xd3, B: 0x99, A: 0xff},
	color.NRGBA{R: 0xfb, G: 0xbf, B: 0x24, A: 0xff},
	color.NRGBA{R: 0xf8, G: 0x71, B: 0x71, A: 0xff},
}

type confettiPiece struct {
	rect   *canvas.Rectangle
	x, y   float32
	speed  float32 // px/s downwards
	drift  float32 // horizontal sway amplitude in px
	phase  float64
	active bool
}

// Confetti is a particle layer. While emitting, pieces that leave the bottom
// re-enter at the top; after Stop they fall out and the animation ends.
type Confetti struct {
	Layer *fyne.Container

	pieces   []*confettiPiece
	anim     *fyne.Animation
	emitting bool
	last     time.Time
	now      func() time.Time
}

// NewConfetti creates an idle confetti layer.
func NewConfetti() *Confetti {
	return &Confetti{
		Layer: container.NewWithoutLayout(),
		now:   time.Now,
	}
}

// Start replaces any running pieces with count new ones raining from above.
func (c *Confetti) Start(count int) {
	c.Halt()

	w, h := c.bounds()
	c.pieces = make([]*confettiPiece, count)
	objects := make([]fyne.CanvasObject, count)
	for i := range c.pieces {
		r := canvas.NewRectangle(confettiPalette[rand.IntN(len(confettiPalette))])
		r.Resize(fyne.NewSquareSize(config.ConfettiPieceSize))

		p := &confettiPiece{
			rect:   r,
			x:      rand.Float32() * w,
			y:      -rand.Float32() * h,
			speed:  config.ConfettiMinSpeed + rand.Float32()*(config.ConfettiMaxSpeed-config.ConfettiMinSpeed),
			drift:  rand.Float32() * config.ConfettiDrift,
			phase:  rand.Float64() * 2 * math.Pi,
			active: true,
		}
		r.Move(fyne.NewPos(p.x, p.y))
		c.pieces[i] = p
		objects[i] = r
	}
	c.Layer.Objects = objects
	c.Layer.Refresh()

	c.emitting = true
	c.last = c.now()
	c.anim = loop(config.FrameLoopDuration, func(float32) {
		t := c.now()
		c.step(t.Sub(c.last))
		c.last = t
	})
}

// Stop ends emission. Pieces already on screen finish falling.
func (c *Confetti) Stop() {
	c.emitting = false
}

// Halt removes every piece immediately.
func (c *Confetti) Halt() {
	c.emitting = false
	if c.anim != nil {
		c.anim.Stop()
		c.anim = nil
	}
	c.pieces = nil
	c.Layer.Objects = nil
	c.Layer.Refresh()
}

// Emitting reports whether new pieces keep entering.
func (c *Confetti) Emitting() bool {
	return c.emitting
}

// Active returns the number of pieces still on screen.
func (c *Confetti) Active() int {
	n := 0
	for _, p := range c.pieces {
		if p.active {
			n++
		}
	}
	return n
}

// Running reports whether the particle animation is still ticking.
func (c *Confetti) Running() bool {
	return c.anim != nil
}

func (c *Confetti) bounds() (float32, float32) {
	size := c.Layer.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return config.WindowWidth, config.WindowHeight
	}
	return size.Width, size.Height
}

func (c *Confetti) step(dt time.Duration) {
	if dt > config.ConfettiMaxStep {
		dt = config.ConfettiMaxStep
	}
	w, h := c.bounds()
	secs := float32(dt.Seconds())

	active := 0
	for _, p := range c.pieces {
		if !p.active {
			continue
		}
		p.y += p.speed * secs
		p.phase += dt.Seconds() * config.ConfettiSwayRate

		if p.y > h {
			if !c.emitting {
				p.active = false
				p.rect.Hide()
				continue
			}
			p.y = -config.ConfettiPieceSize
			p.x = rand.Float32() * w
		}
		active++
		p.rect.Move(fyne.NewPos(p.x+p.drift*float32(math.Sin(p.phase)), p.y))
	}
	c.Layer.Refresh()

	if !c.emitting && active == 0 && c.anim != nil {
		c.anim.Stop()
		c.anim = nil
	}
}
