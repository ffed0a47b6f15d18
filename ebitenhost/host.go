// Package ebitenhost runs a motion Show inside an Ebitengine game loop.
//
// The [Host] is both the frame source (its Update ticks the show's engine)
// and the [motion.Viewport] the Transition Manager drives: it keeps the view
// transform and draws the fade overlay over everything else.
//
//	host := ebitenhost.New(ebitenhost.Options{Title: "Deck", Width: 1280, Height: 720})
//	show := motion.NewShow(store, deck, host, nil, nil)
//	host.SetShow(show)
//	show.Start()
//	if err := host.Run(); err != nil {
//		log.Fatal(err)
//	}
package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/motion"
)

// Options configures a Host window.
type Options struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Background fills the screen before drawing. Defaults to dark grey.
	Background color.Color
	// Draw replaces the built-in entity renderer when set.
	Draw func(screen *ebiten.Image, show *motion.Show, view motion.View)
	// ScreenshotDir receives captures queued with Screenshot. Defaults to
	// "screenshots".
	ScreenshotDir string
}

// flusher is implemented by stores that queue change notifications.
type flusher interface {
	Flush()
}

// Host implements ebiten.Game and motion.Viewport.
type Host struct {
	opts Options
	show *motion.Show

	view          motion.View
	width, height int

	overlay      color.RGBA
	overlayOn    bool
	overlayAlpha float64

	shots []string
}

// New creates a Host. Attach a show with SetShow before Run.
func New(opts Options) *Host {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = "screenshots"
	}
	if opts.Background == nil {
		opts.Background = color.RGBA{0x1a, 0x1a, 0x24, 0xff}
	}
	return &Host{
		opts:   opts,
		view:   motion.View{Scale: 1},
		width:  opts.Width,
		height: opts.Height,
	}
}

// SetShow attaches the show the host ticks and draws.
func (h *Host) SetShow(show *motion.Show) { h.show = show }

// Run opens the window and blocks until it is closed.
func (h *Host) Run() error {
	if h.show == nil {
		return fmt.Errorf("ebitenhost: no show attached")
	}
	ebiten.SetWindowTitle(h.opts.Title)
	ebiten.SetWindowSize(h.opts.Width, h.opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(h)
}

// Update handles navigation input, then ticks the show.
func (h *Host) Update() error {
	if h.show == nil {
		return nil
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace),
		inpututil.IsKeyJustPressed(ebiten.KeyArrowRight),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		h.show.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		h.show.Prev()
	}

	h.show.Update(h.show.Engine().Clock().Now())
	if f, ok := h.show.Store().(flusher); ok {
		f.Flush()
	}
	return nil
}

// Draw renders the entities of the active page, then the overlay.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(h.opts.Background)
	if h.show != nil {
		if h.opts.Draw != nil {
			h.opts.Draw(screen, h.show, h.view)
		} else {
			h.drawEntities(screen)
		}
	}
	if h.overlayOn && h.overlayAlpha > 0 {
		c := h.overlay
		c.A = uint8(clamp01(h.overlayAlpha) * 255)
		vector.DrawFilledRect(screen, 0, 0, float32(h.width), float32(h.height), color.NRGBA(c), false)
	}
	if h.opts.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	h.flushScreenshots(screen)
}

// Layout tracks the outside size so fitted views follow window resizes.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.width, h.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// View returns the current view transform.
func (h *Host) View() motion.View { return h.view }

// SetView replaces the view transform.
func (h *Host) SetView(v motion.View) { h.view = v }

// ViewportSize returns the screen size in pixels.
func (h *Host) ViewportSize() (w, height float64) {
	return float64(h.width), float64(h.height)
}

// ShowOverlay displays a full-screen overlay of the given hex color.
// Unparseable colors fall back to white.
func (h *Host) ShowOverlay(hex string) {
	c, ok := motion.ParseHex(hex)
	if !ok {
		c = color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	h.overlay = c
	h.overlayOn = true
}

// SetOverlayOpacity sets the overlay alpha in [0,1].
func (h *Host) SetOverlayOpacity(alpha float64) { h.overlayAlpha = alpha }

// HideOverlay removes the overlay.
func (h *Host) HideOverlay() {
	h.overlayOn = false
	h.overlayAlpha = 0
}

// OverlayVisible reports whether the overlay is shown and its alpha.
func (h *Host) OverlayVisible() (bool, float64) { return h.overlayOn, h.overlayAlpha }

// drawEntities draws every entity of the active page as a filled, stroked
// rectangle through the view transform.
func (h *Host) drawEntities(screen *ebiten.Image) {
	page := h.show.Deck().ActivePage()
	for _, el := range h.show.Store().Entities() {
		if el.Page != page {
			continue
		}
		p := el.Props
		x, y := h.view.WorldToScreen(p.Num(motion.PropX, 0), p.Num(motion.PropY, 0))
		w := p.Num(motion.PropWidth, 0) * h.view.Scale
		ht := p.Num(motion.PropHeight, 0) * h.view.Scale
		alpha := clamp01(p.Num(motion.PropOpacity, 100) / 100)
		if alpha == 0 || w <= 0 || ht <= 0 {
			continue
		}
		if fill, ok := propColor(p, motion.PropBackgroundColor, alpha); ok {
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(ht), fill, true)
		}
		if stroke, ok := propColor(p, motion.PropStrokeColor, alpha); ok {
			sw := p.Num(motion.PropStrokeWidth, 1) * h.view.Scale
			vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(ht), float32(sw), stroke, true)
		}
	}
}

func propColor(p motion.Props, prop motion.Property, alpha float64) (color.NRGBA, bool) {
	v, ok := p[prop]
	if !ok {
		return color.NRGBA{}, false
	}
	c, ok := motion.ParseHex(v.Str)
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha * 255)}, true
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
