package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-celebrate/internal/config"
	"github.com/tartampluch/go-celebrate/internal/engine"
)

var (
	gradientFrom   = color.NRGBA{R: 0xf4, G: 0x72, B: 0xb6, A: 0xff}
	gradientTo     = color.NRGBA{R: 0x81, G: 0x8c, B: 0xf8, A: 0xff}
	balloonPalette = []color.Color{
		color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff},
		color.NRGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff},
		color.NRGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff},
		color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff},
		color.NRGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff},
		color.NRGBA{R: 0xec, G: 0x48, B: 0x99, A: 0xff},
		color.NRGBA{R: 0x14, G: 0xb8, B: 0xa6, A: 0xff},
	}
)

// partyView is the final stage: a pulsing, swaying headline over a moving
// gradient, rising balloons and confetti.
type partyView struct {
	app     *CelebrateApp
	content *fyne.Container

	gradient *canvas.LinearGradient
	headline *canvas.Text
	sway     *swayLayout
	swayBox  *fyne.Container
	start    *widget.Button

	balloonLayer *fyne.Container
	balloons     []*canvas.Circle
	confetti     *Confetti

	anims   []*fyne.Animation
	timers  []engine.Timer
	running bool
	level   float64
}

func newPartyView(app *CelebrateApp) *partyView {
	p := &partyView{app: app, level: config.NeutralIntensity}

	p.gradient = canvas.NewLinearGradient(gradientFrom, gradientTo, 0)

	p.headline = canvas.NewText(app.GetMsgData(config.TKeyPartyTitle, map[string]any{"Name": app.Honoree.Name}), withAlpha(color.White, 0))
	p.headline.TextSize = config.PartyTextSize
	p.headline.TextStyle = fyne.TextStyle{Bold: true}
	p.headline.Alignment = fyne.TextAlignCenter

	p.sway = &swayLayout{}
	p.swayBox = container.New(p.sway, p.headline)

	p.start = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnStartParty), theme.MediaPlayIcon(), app.startPartyAudio)
	p.start.Importance = widget.HighImportance
	p.start.Hide()

	p.balloonLayer = container.NewWithoutLayout()
	for i := 0; i < config.BalloonCount; i++ {
		b := canvas.NewCircle(balloonPalette[i%len(balloonPalette)])
		b.Resize(fyne.NewSquareSize(config.BalloonSize))
		b.Hide()
		p.balloons = append(p.balloons, b)
		p.balloonLayer.Add(b)
	}

	p.confetti = NewConfetti()

	p.content = container.NewStack(
		p.gradient,
		p.balloonLayer,
		container.NewCenter(container.NewVBox(p.swayBox, container.NewCenter(p.start))),
		p.confetti.Layer,
	)
	return p
}

// Start launches the independent decoration loops.
func (p *partyView) Start() {
	if p.running {
		return
	}
	p.running = true

	p.confetti.Start(config.ConfettiPiecesParty)

	fade := fyne.NewAnimation(config.HeadlineFadeIn, func(f float32) {
		p.headline.Color = withAlpha(color.White, f)
		p.headline.Refresh()
	})
	fade.Start()

	p.anims = append(p.anims, fade,
		loop(config.GradientPeriod, func(f float32) {
			p.gradient.Angle = float64(f) * 360
			p.gradient.Refresh()
		}),
		loop(config.SwayPeriod, func(f float32) {
			p.sway.offset = swayDegrees(f) * config.SwayPixelsPerDegree
			p.swayBox.Refresh()
		}),
	)

	for i := range p.balloons {
		if i == 0 {
			p.launchBalloon(0)
			continue
		}
		p.timers = append(p.timers, p.app.Scheduler.AfterFunc(time.Duration(i)*config.BalloonStagger, func() {
			p.app.runOnMain(func() {
				if p.running {
					p.launchBalloon(i)
				}
			})
		}))
	}
}

func (p *partyView) launchBalloon(i int) {
	b := p.balloons[i]
	base := balloonPalette[i%len(balloonPalette)]
	b.FillColor = withAlpha(base, 0)
	b.Show()
	p.anims = append(p.anims, loop(config.BalloonRise, func(f float32) {
		size := p.balloonLayer.Size()
		w, h := size.Width, size.Height
		if w <= 0 || h <= 0 {
			w, h = config.WindowWidth, config.WindowHeight
		}
		b.Move(fyne.NewPos(balloonX(i, len(p.balloons), w), balloonY(f, h)))
		b.FillColor = withAlpha(base, balloonAlpha(f))
		b.Refresh()
	}))
}

// Stop cancels every loop and pending balloon launch.
func (p *partyView) Stop() {
	p.running = false
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = nil
	for _, a := range p.anims {
		a.Stop()
	}
	p.anims = nil
	p.confetti.Halt()
}

// SetLevel scales the headline by the audio intensity.
func (p *partyView) SetLevel(level float64) {
	p.level = level
	p.headline.TextSize = float32(config.PartyTextSize * level)
	p.headline.Refresh()
	p.swayBox.Refresh()
}

// ShowStart shows or hides the manual music control.
func (p *partyView) ShowStart(visible bool) {
	if visible {
		p.start.Show()
	} else {
		p.start.Hide()
	}
}

// swayDegrees maps a loop fraction onto the 0, +max, -max, 0 keyframes.
func swayDegrees(f float32) float32 {
	return keyframes(f, 0, config.SwayDegrees, -config.SwayDegrees, 0)
}

// balloonAlpha fades a balloon in after launch and out before it leaves.
func balloonAlpha(f float32) float32 {
	return keyframes(f, 0, 1, 1, 0)
}

// keyframes interpolates linearly between evenly spaced keys.
func keyframes(f float32, keys ...float32) float32 {
	segments := float32(len(keys) - 1)

	switch {
	case f <= 0:
		return keys[0]
	case f >= 1:
		return keys[len(keys)-1]
	}
	pos := f * segments
	i := int(pos)
	frac := pos - float32(i)
	return keys[i] + (keys[i+1]-keys[i])*frac
}

// withAlpha scales the opacity of c by a, clamped to 0..1.
func withAlpha(c color.Color, a float32) color.Color {
	a = max(0, min(1, a))
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float32(n.A) * a)
	return n
}

// balloonY places a balloon rising from the bottom edge to just above the top.
func balloonY(f, height float32) float32 {
	return height - f*(height+config.BalloonSize)
}

func balloonX(i, n int, width float32) float32 {
	slot := width / float32(n)
	return slot*(float32(i)+0.5) - config.BalloonSize/2
}

// swayLayout centers its objects at their minimum size, shifted horizontally
// by offset.
type swayLayout struct {
	offset float32
}

func (l *swayLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		ms := o.MinSize()
		o.Resize(ms)
		o.Move(fyne.NewPos((size.Width-ms.Width)/2+l.offset, (size.Height-ms.Height)/2))
	}
}

func (l *swayLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var size fyne.Size
	for _, o := range objects {
		size = size.Max(o.MinSize())
	}
	// Room for the sway in both directions.
	size.Width += 2 * config.SwayDegrees * config.SwayPixelsPerDegree
	return size
}
