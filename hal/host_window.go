//go:build cgo

package hal

import (
	"orrery/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Width  int
	Height int
	// TPS is the update rate; frames are presented in sync with the display.
	TPS int
}

// RunWindow starts a resizable desktop window that displays the framebuffer
// and forwards wheel and resize input. It blocks until the window closes.
func RunWindow(cfg WindowConfig, newApp func(HAL) func() error) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}

	h := New(cfg.Width, cfg.Height).(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("Orrery (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.in.wheel(ebiten.Wheel())
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	pix, w, h := g.h.fb.snapshotRGBA(g.scratch)
	g.scratch = pix
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}
	g.fbImg.WritePixels(pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(w), float64(sh)/float64(h))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.fbImg, op)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := ebiten.Monitor().DeviceScaleFactor()
	g.h.in.resize(outsideWidth, outsideHeight, dpr)
	return outsideWidth, outsideHeight
}
