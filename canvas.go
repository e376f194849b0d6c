package photomark

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Option configures a Canvas.
type Option func(*Canvas)

// WithConfig sets the canvas configuration.
func WithConfig(cfg Config) Option {
	return func(c *Canvas) { c.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Canvas) {
		if l != nil {
			c.log = l
		}
	}
}

// WithFetcher sets the image fetcher used by LoadBackground.
func WithFetcher(f Fetcher) Option {
	return func(c *Canvas) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// WithClock overrides the time source used for export file names.
func WithClock(now func() time.Time) Option {
	return func(c *Canvas) {
		if now != nil {
			c.now = now
		}
	}
}

// Canvas owns the scene, its paint order, the selection and the background
// load pipeline. A Canvas must only be used from one goroutine; background
// fetches complete on their own goroutines and are applied by Update or Wait.
type Canvas struct {
	cfg     Config
	log     *slog.Logger
	debug   bool
	fetcher Fetcher
	now     func() time.Time

	surface  Surface
	bgColor  Color
	disposed bool

	stack  *Stacking
	active *SceneObject

	onChange  []func([]LayerRecord)
	onMissing func()

	status  Status
	gen     uint64
	cancel  context.CancelFunc
	results chan loadResult
	done    chan struct{}

	mu      sync.Mutex
	pending int
}

// NewCanvas creates an unmounted canvas.
func NewCanvas(opts ...Option) *Canvas {
	c := &Canvas{
		cfg:     DefaultConfig(),
		log:     discardLogger(),
		fetcher: NewHTTPFetcher(),
		now:     time.Now,
		stack:   NewStacking(),
		results: make(chan loadResult, 8),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bgColor = c.cfg.background()
	c.debug = c.debug || c.cfg.Debug
	return c
}

// Mount binds the canvas to surface, sizes it from the viewport and paints.
func (c *Canvas) Mount(surface Surface, viewport Size) error {
	if c.disposed {
		return ErrDisposed
	}
	if surface == nil {
		panic("photomark: Mount with nil surface")
	}
	c.surface = surface
	c.resizeSurface(viewport)
	c.log.Debug("mounted", "width", c.surfaceWidth(), "height", c.surfaceHeight())
	c.changed()
	return nil
}

// Mounted reports whether a surface is bound.
func (c *Canvas) Mounted() bool {
	return c.surface != nil && !c.disposed
}

// Resize recomputes the surface size for a new viewport, re-fits the
// background and repaints.
func (c *Canvas) Resize(viewport Size) {
	if !c.Mounted() {
		return
	}
	c.resizeSurface(viewport)
	c.changed()
}

func (c *Canvas) resizeSurface(viewport Size) {
	w, h := ViewportSize(c.cfg, viewport)
	c.surface.Resize(w, h)
	for _, bg := range c.stack.Backgrounds() {
		c.fitBackground(bg)
	}
}

// SetConfig replaces the configuration and applies background color and
// sizing changes. viewport is the current host viewport.
func (c *Canvas) SetConfig(cfg Config, viewport Size) {
	c.cfg = cfg
	c.bgColor = cfg.background()
	c.debug = cfg.Debug
	if c.Mounted() {
		c.resizeSurface(viewport)
	}
	c.changed()
}

// Config returns the active configuration.
func (c *Canvas) Config() Config {
	return c.cfg
}

// Size returns the surface size, or 0, 0 when unmounted.
func (c *Canvas) Size() (int, int) {
	if !c.Mounted() {
		return 0, 0
	}
	return c.surface.Size()
}

func (c *Canvas) surfaceWidth() int {
	w, _ := c.Size()
	return w
}

func (c *Canvas) surfaceHeight() int {
	_, h := c.Size()
	return h
}

// AddObject inserts obj, makes it active and repaints. Background objects
// are routed through installBackground and never become active.
func (c *Canvas) AddObject(obj *SceneObject) error {
	if c.disposed {
		return ErrDisposed
	}
	if obj == nil {
		panic("photomark: AddObject with nil object")
	}
	if c.debug {
		debugCheckDisposed(obj, "AddObject")
	}
	if obj.IsBackground() {
		c.installBackground(obj)
		return nil
	}
	c.stack.Add(obj)
	c.active = obj
	c.log.Debug("object added", "id", obj.ID, "kind", obj.Kind, "key", obj.StackKey)
	c.changed()
	return nil
}

func (c *Canvas) add(obj *SceneObject) *SceneObject {
	if err := c.AddObject(obj); err != nil {
		return nil
	}
	return obj
}

// AddText adds a default text object. Returns nil on a disposed canvas.
func (c *Canvas) AddText() *SceneObject { return c.add(NewText("")) }

// AddRectangle adds a default rectangle.
func (c *Canvas) AddRectangle() *SceneObject { return c.add(NewRectangle()) }

// AddCircle adds a default circle.
func (c *Canvas) AddCircle() *SceneObject { return c.add(NewCircle()) }

// AddTriangle adds a default triangle.
func (c *Canvas) AddTriangle() *SceneObject { return c.add(NewTriangle()) }

// AddPolygon adds a default pentagon.
func (c *Canvas) AddPolygon() *SceneObject { return c.add(NewPolygon(nil)) }

// installBackground is the only place backgrounds enter the scene: any
// prior background is removed and disposed first. Re-installing the current
// background only re-fits it.
func (c *Canvas) installBackground(obj *SceneObject) {
	for _, old := range c.stack.Backgrounds() {
		if old == obj {
			continue
		}
		c.stack.Remove(old)
		old.Dispose()
	}
	c.fitBackground(obj)
	c.stack.Add(obj)
	c.log.Debug("background installed", "id", obj.ID, "source", obj.Source,
		"scale", obj.ScaleX, "x", obj.X, "y", obj.Y)
	c.changed()
}

// Background returns the background object, or nil.
func (c *Canvas) Background() *SceneObject {
	if bgs := c.stack.Backgrounds(); len(bgs) > 0 {
		return bgs[len(bgs)-1]
	}
	return nil
}

// RemoveActive removes and disposes the active object. Without a selection
// it does nothing and reports false.
func (c *Canvas) RemoveActive() bool {
	if c.disposed || c.active == nil {
		return false
	}
	obj := c.active
	c.active = nil
	c.stack.Remove(obj)
	obj.Dispose()
	c.log.Debug("object removed", "id", obj.ID)
	c.changed()
	return true
}

// SetActive selects obj. nil clears the selection. Objects that are not on
// the canvas or not selectable are rejected. Reports whether obj is now
// active.
func (c *Canvas) SetActive(obj *SceneObject) bool {
	if obj == nil {
		c.active = nil
		return false
	}
	if !obj.Selectable || obj.IsBackground() || obj.disposed || !c.stack.Contains(obj) {
		return false
	}
	c.active = obj
	return true
}

// Active returns the selected object, or nil.
func (c *Canvas) Active() *SceneObject {
	return c.active
}

// BringToFront raises the active object above all others.
func (c *Canvas) BringToFront() bool {
	if c.active == nil || !c.stack.BringToFront(c.active) {
		return false
	}
	c.changed()
	return true
}

// SendBackward lowers the active object below all other interactive
// objects. It stays above the background.
func (c *Canvas) SendBackward() bool {
	if c.active == nil || !c.stack.SendBackward(c.active) {
		return false
	}
	c.changed()
	return true
}

// Reset removes every non-background object and returns how many were
// removed.
func (c *Canvas) Reset() int {
	if c.disposed {
		return 0
	}
	n := 0
	for _, o := range c.stack.Objects() {
		if o.IsBackground() {
			continue
		}
		c.stack.Remove(o)
		o.Dispose()
		n++
	}
	c.active = nil
	c.log.Debug("canvas reset", "removed", n)
	c.changed()
	return n
}

// Objects returns the objects in paint order.
func (c *Canvas) Objects() []*SceneObject {
	list := c.stack.PaintList()
	out := make([]*SceneObject, len(list))
	copy(out, list)
	return out
}

// Layers projects the current paint order.
func (c *Canvas) Layers() []LayerRecord {
	return Project(c.stack.PaintList())
}

// OnChange registers fn to receive the projection after every mutation.
func (c *Canvas) OnChange(fn func([]LayerRecord)) {
	if fn != nil {
		c.onChange = append(c.onChange, fn)
	}
}

// OnMissingSource registers the callback Open invokes when no image source
// is available (the host's redirect home).
func (c *Canvas) OnMissingSource(fn func()) {
	c.onMissing = fn
}

// changed reorders, repaints and notifies listeners.
func (c *Canvas) changed() {
	if c.disposed {
		return
	}
	c.repaint()
	if len(c.onChange) == 0 {
		return
	}
	layers := c.Layers()
	for _, fn := range c.onChange {
		fn(layers)
	}
}

func (c *Canvas) repaint() {
	var stats debugStats
	t0 := time.Now()
	c.stack.Reorder()
	list := c.stack.PaintList()
	stats.sortTime = time.Since(t0)
	if c.surface == nil {
		return
	}
	t1 := time.Now()
	c.surface.Paint(c.bgColor, list)
	stats.paintTime = time.Since(t1)
	stats.objectCount = len(list)
	stats.bgCount = len(c.stack.Backgrounds())
	c.debugLog(stats)
}

// Dispose cancels any in-flight load, disposes every object and releases the
// surface. Calling Dispose more than once is a no-op.
func (c *Canvas) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	close(c.done)
	for _, o := range c.stack.Objects() {
		o.Dispose()
	}
	c.stack.Clear()
	c.active = nil
	if c.surface != nil {
		c.surface.Dispose()
		c.surface = nil
	}
	c.status.Loading = false
	c.log.Debug("canvas disposed")
}

// IsDisposed reports whether Dispose has been called.
func (c *Canvas) IsDisposed() bool {
	return c.disposed
}
