package ui

import (
	"image/color"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-celebrate/internal/config"
	"github.com/tartampluch/go-celebrate/internal/engine"
)

// galleryView presents the memories with a staggered entrance and a hover
// overlay, plus the delayed party control.
type galleryView struct {
	app     *CelebrateApp
	content fyne.CanvasObject

	cards   []*memoryCard
	proceed *widget.Button
	timing  engine.GalleryTiming

	loaded  bool
	hovered int
	started time.Time
	anim    *fyne.Animation
}

func newGalleryView(app *CelebrateApp) *galleryView {
	g := &galleryView{
		app:     app,
		timing:  engine.DefaultGalleryTiming(),
		hovered: engine.NoHover,
	}

	title := widget.NewLabelWithStyle(app.GetMsg(config.TKeyMemoriesTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	var body fyne.CanvasObject
	if len(app.Memories) == 0 {
		body = container.NewCenter(widget.NewLabel(app.GetMsg(config.TKeyNoMemories)))
	} else {
		cells := make([]fyne.CanvasObject, len(app.Memories))
		for i, m := range app.Memories {
			card := newMemoryCard(i, m, app.GetMsgData(config.TKeyImageAlt, map[string]any{"Index": i + 1}), g.setHovered)
			g.cards = append(g.cards, card)
			cells[i] = card
		}
		body = container.NewVScroll(container.NewGridWithColumns(config.GalleryColumns, cells...))
	}

	g.proceed = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnParty), theme.MediaPlayIcon(), func() {
		app.handleEvent(engine.EventProceed)
	})
	g.proceed.Importance = widget.HighImportance
	g.proceed.Hide()

	g.content = container.NewBorder(title, container.NewCenter(g.proceed), nil, nil, body)
	return g
}

// Start begins the entrance animation from the current clock time.
func (g *galleryView) Start() {
	if g.anim != nil {
		return
	}
	g.started = g.app.Clock.Now()
	g.tick()
	if len(g.cards) > 0 {
		g.anim = loop(config.FrameLoopDuration, func(float32) { g.tick() })
	}
}

// Stop halts the entrance animation.
func (g *galleryView) Stop() {
	if g.anim != nil {
		g.anim.Stop()
		g.anim = nil
	}
}

func (g *galleryView) tick() {
	elapsed := g.app.Clock.Now().Sub(g.started)
	for i, c := range g.cards {
		c.SetProgress(g.timing.EntranceProgress(i, elapsed))
	}
	if elapsed >= g.timing.Settled(len(g.cards)) {
		g.Stop()
	}
}

// ShowProceed reveals the party control and enables the hover overlays.
func (g *galleryView) ShowProceed() {
	g.loaded = true
	g.proceed.Show()
	g.refreshOverlays()
}

func (g *galleryView) setHovered(i int, in bool) {
	switch {
	case in:
		g.hovered = i
	case g.hovered == i:
		g.hovered = engine.NoHover
	}
	g.refreshOverlays()
}

func (g *galleryView) refreshOverlays() {
	for i, c := range g.cards {
		c.SetOverlay(engine.OverlayVisible(g.loaded, g.hovered, i))
	}
}

// memoryCard is a gallery image with a description overlay shown on hover.
type memoryCard struct {
	widget.BaseWidget

	index    int
	image    *canvas.Image
	overlay  *fyne.Container
	progress float32
	onHover  func(index int, in bool)
}

var _ desktop.Hoverable = (*memoryCard)(nil)

func newMemoryCard(index int, item engine.MemoryItem, alt string, onHover func(int, bool)) *memoryCard {
	c := &memoryCard{index: index, onHover: onHover}

	if _, err := os.Stat(item.ImageSource); err == nil {
		c.image = canvas.NewImageFromFile(item.ImageSource)
	} else {
		slog.Warn(config.MsgImageMissing,
			config.LogKeyComponent, config.CompGallery,
			config.LogKeyFile, item.ImageSource,
			config.LogKeyError, err)
		c.image = canvas.NewImageFromResource(theme.FileImageIcon())
	}
	c.image.FillMode = canvas.ImageFillContain
	c.image.SetMinSize(fyne.NewSize(config.GalleryImageWidth, config.GalleryImageHeight))
	c.image.Translucency = 1

	text := item.Description
	if text == "" {
		text = alt
	}
	caption := widget.NewLabel(text)
	caption.Wrapping = fyne.TextWrapWord
	caption.Alignment = fyne.TextAlignCenter

	shade := canvas.NewRectangle(color.NRGBA{A: config.OverlayAlpha})
	c.overlay = container.NewStack(shade, container.NewCenter(caption))
	c.overlay.Hide()

	c.ExtendBaseWidget(c)
	return c
}

func (c *memoryCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(c.image, c.overlay))
}

// SetProgress fades the image in; 0 is invisible and 1 fully shown.
func (c *memoryCard) SetProgress(p float32) {
	if p == c.progress {
		return
	}
	c.progress = p
	c.image.Translucency = float64(1 - p)
	c.image.Refresh()
}

// SetOverlay shows or hides the description.
func (c *memoryCard) SetOverlay(visible bool) {
	if visible == c.overlay.Visible() {
		return
	}
	if visible {
		c.overlay.Show()
	} else {
		c.overlay.Hide()
	}
	c.Refresh()
}

func (c *memoryCard) MouseIn(*desktop.MouseEvent) {
	c.onHover(c.index, true)
}

func (c *memoryCard) MouseMoved(*desktop.MouseEvent) {}

func (c *memoryCard) MouseOut() {
	c.onHover(c.index, false)
}
