package ebitenview

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sqweek/dialog"

	"github.com/phanxgames/photomark"
)

const (
	canvasMarginTop  = 20
	doubleClickDelay = 400 * time.Millisecond
	wheelScaleStep   = 0.05
	frameDT          = 1.0 / 60
)

// Options configures an Editor.
type Options struct {
	// OnReady is called with the source URL each time a background finishes
	// loading. Hosts persist the selection here.
	OnReady func(src string)
	// ExportDir receives exports when the native dialog is unavailable or
	// disabled. Empty means the working directory.
	ExportDir string
	// NativeDialog asks for a save path with the platform file dialog.
	NativeDialog bool
	// ShowLayers prints the layer summary in the corner.
	ShowLayers bool
	Logger     *slog.Logger
}

type saveResult struct {
	path string
	err  error
}

// Editor is an ebiten.Game that hosts a photomark canvas: a toolbar, the
// canvas surface, mouse selection and dragging, and text editing.
type Editor struct {
	canvas  *photomark.Canvas
	surface *Surface
	opts    Options
	log     *slog.Logger

	buttons  []button
	viewport photomark.Size
	mounted  bool

	dragging       bool
	lastX, lastY   int
	lastClick      time.Time
	editing        bool
	editBuf        []rune
	lastState      photomark.LoadState
	lastGen        uint64
	notice         string
	layersSummary  string
	configs        chan photomark.Config
	saved          chan saveResult
	loadingPulse   *pulse
	selectionPulse *pulse
}

// NewEditor wraps canvas. The canvas is mounted on the first Update, once
// the window size is known.
func NewEditor(canvas *photomark.Canvas, opts Options) *Editor {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Editor{
		canvas:         canvas,
		surface:        NewSurface(),
		opts:           opts,
		log:            log,
		buttons:        layoutToolbar(buttonPad),
		configs:        make(chan photomark.Config, 1),
		saved:          make(chan saveResult, 1),
		loadingPulse:   newPulse(0.15, 0.45, 1.2),
		selectionPulse: newPulse(0.5, 1, 1.6),
	}
	canvas.OnChange(func(layers []photomark.LayerRecord) {
		e.layersSummary = photomark.Summary(layers)
	})
	return e
}

// ApplyConfig queues cfg for the next frame. Safe to call from any
// goroutine; only the latest queued config is kept.
func (e *Editor) ApplyConfig(cfg photomark.Config) {
	for {
		select {
		case e.configs <- cfg:
			return
		default:
		}
		select {
		case <-e.configs:
		default:
		}
	}
}

// Layout implements ebiten.Game.
func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.viewport = photomark.Size{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	return outsideWidth, outsideHeight
}

// Update implements ebiten.Game.
func (e *Editor) Update() error {
	if e.canvas.IsDisposed() {
		return ebiten.Termination
	}
	if !e.mounted {
		if e.viewport.Width == 0 {
			return nil
		}
		if err := e.canvas.Mount(e.surface, e.viewport); err != nil {
			return err
		}
		e.mounted = true
	}

	select {
	case cfg := <-e.configs:
		e.canvas.SetConfig(cfg, e.viewport)
		e.log.Info("config applied")
	default:
	}
	if w, h := photomark.ViewportSize(e.canvas.Config(), e.viewport); !e.sizeMatches(w, h) {
		e.canvas.Resize(e.viewport)
	}

	e.canvas.Update()
	e.trackStatus()

	select {
	case r := <-e.saved:
		if r.err != nil {
			e.notice = photomark.MessageExportFailed
			e.log.Error("save export", "err", r.err)
		} else if r.path != "" {
			e.notice = "Saved " + r.path
		}
	default:
	}

	e.loadingPulse.Update(frameDT)
	e.selectionPulse.Update(frameDT)

	if e.editing {
		e.updateTextEdit()
		return nil
	}
	e.updateKeys()
	e.updateMouse()
	return nil
}

func (e *Editor) sizeMatches(w, h int) bool {
	sw, sh := e.surface.Size()
	return sw == w && sh == h
}

// trackStatus reacts to load transitions. The generation is compared too,
// so a newer load that reaches Ready within one drain is still reported.
func (e *Editor) trackStatus() {
	st := e.canvas.Status()
	if st.State == e.lastState && st.Gen == e.lastGen {
		return
	}
	if st.State == photomark.LoadLoading {
		e.loadingPulse.Reset()
	}
	if st.State == photomark.LoadReady && e.opts.OnReady != nil {
		e.opts.OnReady(st.Source)
	}
	e.lastState, e.lastGen = st.State, st.Gen
}

// canvasOrigin returns the screen position of the surface's top-left.
func (e *Editor) canvasOrigin() (int, int) {
	sw, _ := e.surface.Size()
	return (int(e.viewport.Width) - sw) / 2, toolbarHeight + canvasMarginTop
}

func (e *Editor) toCanvas(x, y int) (float64, float64) {
	ox, oy := e.canvasOrigin()
	return float64(x - ox), float64(y - oy)
}

func (e *Editor) updateKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		e.export()
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		e.run(actionText)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		e.run(actionRect)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.run(actionCircle)
	case inpututil.IsKeyJustPressed(ebiten.KeyY):
		e.run(actionTriangle)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		e.run(actionPolygon)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		e.run(actionFront)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		e.run(actionBackward)
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		e.run(actionDelete)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		e.beginTextEdit()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		e.canvas.SetActive(nil)
	}
}

func (e *Editor) run(a action) {
	if a == actionExport {
		e.export()
		return
	}
	if a.apply(e.canvas) {
		e.log.Debug("toolbar", "action", a.label())
	}
}

func (e *Editor) updateMouse() {
	mx, my := ebiten.CursorPosition()

	if _, wy := ebiten.Wheel(); wy != 0 {
		f := 1 + wy*wheelScaleStep
		e.canvas.ScaleActive(f, f)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if my < toolbarHeight {
			if b := buttonAt(e.buttons, mx, my); b != nil {
				e.run(b.action)
			}
			return
		}
		cx, cy := e.toCanvas(mx, my)
		prev := e.canvas.Active()
		hit := e.canvas.SelectAt(cx, cy)
		now := time.Now()
		if hit != nil && hit == prev && now.Sub(e.lastClick) < doubleClickDelay {
			e.beginTextEdit()
		}
		e.lastClick = now
		e.dragging = hit != nil
		e.lastX, e.lastY = mx, my
		return
	}
	if e.dragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if mx != e.lastX || my != e.lastY {
			e.canvas.MoveActive(float64(mx-e.lastX), float64(my-e.lastY))
			e.lastX, e.lastY = mx, my
		}
		return
	}
	e.dragging = false
}

func (e *Editor) beginTextEdit() {
	a := e.canvas.Active()
	if a == nil || a.Kind != photomark.KindText {
		return
	}
	e.editing = true
	e.editBuf = []rune(a.Text)
}

func (e *Editor) updateTextEdit() {
	e.editBuf = ebiten.AppendInputChars(e.editBuf)
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(e.editBuf) > 0 {
		e.editBuf = e.editBuf[:len(e.editBuf)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ebiten.IsKeyPressed(ebiten.KeyShift) {
		e.editBuf = append(e.editBuf, '\n')
	}
	if a := e.canvas.Active(); a != nil && a.Text != string(e.editBuf) {
		e.canvas.SetActiveText(string(e.editBuf))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		(inpututil.IsKeyJustPressed(ebiten.KeyEnter) && !ebiten.IsKeyPressed(ebiten.KeyShift)) {
		e.editing = false
	}
}

func (e *Editor) export() {
	exp, err := e.canvas.ExportRaster(e.canvas.Config().ExportOptions())
	if err != nil {
		e.notice = photomark.MessageExportFailed
		e.log.Error("export", "err", err)
		return
	}
	e.notice = "Saving " + exp.Filename
	go func() {
		path, err := e.save(exp)
		e.saved <- saveResult{path: path, err: err}
	}()
}

// save writes exp through the native dialog, falling back to ExportDir.
// A cancelled dialog returns "", nil.
func (e *Editor) save(exp *photomark.Export) (string, error) {
	dir := e.opts.ExportDir
	if dir == "" {
		dir = "."
	}
	if !e.opts.NativeDialog {
		return exp.WriteFile(dir)
	}
	path, err := dialog.File().
		Title("Save canvas").
		Filter(exp.Format.String()+" image", exp.Format.Ext()).
		SetStartFile(exp.Filename).
		Save()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", nil
	}
	if err != nil {
		e.log.Warn("save dialog unavailable, writing to export dir", "err", err)
		return exp.WriteFile(dir)
	}
	if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Draw implements ebiten.Game.
func (e *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{243, 244, 246, 255})

	vector.DrawFilledRect(screen, 0, 0, float32(e.viewport.Width), toolbarHeight, color.RGBA{255, 255, 255, 255}, false)
	hasActive := e.canvas.Active() != nil
	for i := range e.buttons {
		b := &e.buttons[i]
		b.draw(screen, hasActive || !b.action.needsSelection())
	}

	ox, oy := e.canvasOrigin()
	if img := e.surface.Image(); img != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(ox), float64(oy))
		st := e.canvas.Status()
		if st.Loading {
			op.ColorScale.ScaleAlpha(0.3)
		}
		screen.DrawImage(img, op)
	}
	e.drawSelection(screen, float64(ox), float64(oy))
	e.drawStatus(screen, ox, oy)

	if e.opts.ShowLayers && e.layersSummary != "" {
		ebitenutil.DebugPrintAt(screen, e.layersSummary, 8, int(e.viewport.Height)-14*countLines(e.layersSummary)-8)
	}
}

func (e *Editor) drawSelection(screen *ebiten.Image, ox, oy float64) {
	a := e.canvas.Active()
	if a == nil {
		return
	}
	alpha := uint8(255 * e.selectionPulse.Value())
	clr := color.NRGBA{37, 99, 235, alpha}
	b := a.Bounds()
	vector.StrokeRect(screen, float32(ox+b.X-2), float32(oy+b.Y-2), float32(b.Width+4), float32(b.Height+4), 1.5, clr, true)
	if e.editing {
		ebitenutil.DebugPrintAt(screen, "editing text: Enter to finish, Shift+Enter for newline", int(ox+b.X), int(oy+b.Y+b.Height+6))
	}
}

func (e *Editor) drawStatus(screen *ebiten.Image, ox, oy int) {
	st := e.canvas.Status()
	sw, sh := e.surface.Size()
	if st.Loading {
		a := uint8(255 * e.loadingPulse.Value())
		vector.DrawFilledRect(screen, float32(ox), float32(oy), float32(sw), float32(sh), color.NRGBA{17, 24, 39, a}, false)
		ebitenutil.DebugPrintAt(screen, "Loading image...", ox+sw/2-48, oy+sh/2-8)
	}
	msg := st.Message
	if e.notice != "" {
		msg = e.notice
	}
	if msg != "" {
		ebitenutil.DebugPrintAt(screen, msg, ox, oy+sh+6)
	}
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
}

// Run opens a resizable window and runs the editor until it is closed.
func Run(e *Editor, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 800
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	var game ebiten.Game = e
	if cfg.ShowFPS {
		game = &fpsGame{Editor: e}
	}
	err := ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// fpsGame overlays FPS and TPS on the editor.
type fpsGame struct {
	*Editor
}

func (g *fpsGame) Draw(screen *ebiten.Image) {
	g.Editor.Draw(screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		int(g.viewport.Width)-110, toolbarHeight+2)
}
