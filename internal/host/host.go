// Package host runs a scene in a desktop window: it drives one Tick per
// ebiten update, forwards wheel, drag and touch input in device pixels, and
// keeps the scene's viewport in step with the window.
package host

import (
	"context"
	"errors"
	"log"

	"media-wall/internal/scene"
	"media-wall/internal/surface"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WheelStep is the scroll distance of one wheel notch in device pixels.
const WheelStep = 40.0

// Options configures the window.
type Options struct {
	Title  string
	Width  int // initial window size in logical pixels
	Height int

	// Scene holds everything but the surface, which the host supplies.
	Scene scene.Options

	// Reload is called when R is pressed. It publishes a new gallery
	// through Scene.Config; errors are logged and the old gallery stays.
	Reload func() error
}

// Run opens the window and blocks until it closes or Esc is pressed.
func Run(ctx context.Context, opts Options) error {
	g := &hostGame{ctx: ctx, opts: opts, surf: &windowSurface{}}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	err := ebiten.RunGame(g)
	if g.scene != nil {
		if cerr := g.scene.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	ctx   context.Context
	opts  Options
	surf  *windowSurface
	scene *scene.Scene
	ratio float64

	mouse    drag
	touch    drag
	touchID  ebiten.TouchID
	touchIDs []ebiten.TouchID
}

func (g *hostGame) Update() error {
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	if g.scene == nil {
		if g.surf.Size().Empty() {
			return nil
		}
		opts := g.opts.Scene
		opts.Surface = func() (surface.Surface, error) { return g.surf, nil }
		s, err := scene.New(g.ctx, opts)
		if err != nil {
			return err
		}
		g.scene = s
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && g.opts.Reload != nil {
		if err := g.opts.Reload(); err != nil {
			log.Printf("reload: %v", err)
		}
	}

	g.pollInput()

	_, err := g.scene.Tick()
	return err
}

func (g *hostGame) pollInput() {
	r := g.ratio

	wx, wy := ebiten.Wheel()
	if wx != 0 || wy != 0 {
		g.scene.Scroll(wheelDelta(wx, wy, WheelStep, r))
	}

	mx, my := ebiten.CursorPosition()
	px, py := float64(mx)*r, float64(my)*r
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.mouse.press(px, py)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.scene.Scroll(g.mouse.move(px, py))
	default:
		g.mouse.release()
	}

	// Single-touch drag: follow the first finger until it lifts.
	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	if !g.touch.active && len(g.touchIDs) > 0 {
		g.touchID = g.touchIDs[0]
		tx, ty := ebiten.TouchPosition(g.touchID)
		g.touch.press(float64(tx)*r, float64(ty)*r)
		return
	}
	if g.touch.active {
		if inpututil.IsTouchJustReleased(g.touchID) {
			g.touch.release()
			return
		}
		tx, ty := ebiten.TouchPosition(g.touchID)
		g.scene.Scroll(g.touch.move(float64(tx)*r, float64(ty)*r))
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	g.surf.draw(screen)
}

// Layout renders at device resolution so the wall stays sharp on HiDPI
// displays.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	g.ratio = s

	w := int(float64(outsideWidth) * s)
	h := int(float64(outsideHeight) * s)
	size := surface.Size{Width: w, Height: h, PixelRatio: s}
	if size != g.surf.Size() {
		g.surf.resize(size)
		if g.scene != nil {
			g.scene.Resize(w, h)
		}
	}
	return w, h
}
