package photomark

import (
	"image"
	"math"

	"github.com/google/uuid"
)

// BackgroundKey is the stack key carried by background objects. Backgrounds
// are painted first regardless of it; the value only shows up in projections.
const BackgroundKey = math.MinInt32

// Default text shown by a freshly added text object.
const DefaultText = "Double click to edit"

// defaultPolygon is the pentagon the toolbar inserts.
var defaultPolygon = []Vec2{{75, 0}, {150, 50}, {125, 130}, {25, 130}, {0, 50}}

// SceneObject is a placeable entity on the canvas. A single flat struct is
// used for all kinds; fields that do not apply to a kind are zero.
type SceneObject struct {
	// ID is assigned at creation and never reused.
	ID   string
	Kind Kind

	// X and Y locate the object according to Origin.
	X, Y   float64
	Origin Origin

	// Width and Height are the unscaled bounds for rectangles, triangles,
	// text (measured) and background images (natural size).
	Width, Height float64
	// Radius applies to circles.
	Radius float64
	// Points are polygon vertices relative to the polygon's top-left.
	Points []Vec2

	ScaleX, ScaleY float64

	Fill        Paint
	Stroke      Paint
	StrokeWidth float64

	FontSize float64
	Text     string

	// Image and Source are set on background objects.
	Image  image.Image
	Source string

	// StackKey orders interactive objects. Larger paints later.
	StackKey int

	Selectable  bool
	Interactive bool

	seq      uint64
	disposed bool
}

func newObject(kind Kind) *SceneObject {
	return &SceneObject{
		ID:          newObjectID(kind),
		Kind:        kind,
		ScaleX:      1,
		ScaleY:      1,
		Selectable:  true,
		Interactive: true,
	}
}

// newObjectID returns "{kind}-{uuidv7}". Version 7 UUIDs are time ordered,
// so IDs sort by creation time like the timestamp IDs they replace.
func newObjectID(kind Kind) string {
	return kind.String() + "-" + uuid.Must(uuid.NewV7()).String()
}

// NewText creates a text object. An empty string gets DefaultText.
func NewText(text string) *SceneObject {
	if text == "" {
		text = DefaultText
	}
	o := newObject(KindText)
	o.X, o.Y = 100, 100
	o.FontSize = 28
	o.Fill = mustPaint("#111827")
	o.Text = text
	o.Width, o.Height = measureText(text, o.FontSize)
	return o
}

// NewRectangle creates the toolbar's default rectangle.
func NewRectangle() *SceneObject {
	o := newObject(KindRectangle)
	o.X, o.Y = 150, 150
	o.Width, o.Height = 160, 100
	o.Fill = mustPaint("rgba(59,130,246,0.35)")
	o.Stroke = mustPaint("#1d4ed8")
	o.StrokeWidth = 2
	return o
}

// NewCircle creates the toolbar's default circle.
func NewCircle() *SceneObject {
	o := newObject(KindCircle)
	o.X, o.Y = 200, 200
	o.Radius = 60
	o.Fill = mustPaint("rgba(239,68,68,0.35)")
	o.Stroke = mustPaint("#b91c1c")
	o.StrokeWidth = 2
	return o
}

// NewTriangle creates the toolbar's default triangle.
func NewTriangle() *SceneObject {
	o := newObject(KindTriangle)
	o.X, o.Y = 250, 250
	o.Width, o.Height = 150, 130
	o.Fill = mustPaint("rgba(16,185,129,0.35)")
	o.Stroke = mustPaint("#047857")
	o.StrokeWidth = 2
	return o
}

// NewPolygon creates a polygon. Nil or fewer than three points selects the
// default pentagon. Points are shifted so their bounding box starts at 0,0.
func NewPolygon(points []Vec2) *SceneObject {
	if len(points) < 3 {
		points = defaultPolygon
	}
	o := newObject(KindPolygon)
	o.X, o.Y = 300, 300
	o.Points = normalizePoints(points)
	o.Fill = mustPaint("rgba(250,204,21,0.55)")
	o.Stroke = mustPaint("#a16207")
	o.StrokeWidth = 2
	return o
}

// NewBackgroundImage wraps img as a non-interactive, center-origin object.
// Panics if img is nil.
func NewBackgroundImage(img image.Image, src string) *SceneObject {
	if img == nil {
		panic("photomark: NewBackgroundImage with nil image")
	}
	o := newObject(KindBackgroundImage)
	b := img.Bounds()
	o.Width, o.Height = float64(b.Dx()), float64(b.Dy())
	o.Origin = OriginCenter
	o.Image = img
	o.Source = src
	o.StackKey = BackgroundKey
	o.Selectable = false
	o.Interactive = false
	return o
}

func normalizePoints(points []Vec2) []Vec2 {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[i] = Vec2{p.X - minX, p.Y - minY}
	}
	return out
}

// IsBackground reports whether o is the background image.
func (o *SceneObject) IsBackground() bool {
	return o.Kind == KindBackgroundImage
}

// localSize returns the unscaled bounds of the object's geometry.
func (o *SceneObject) localSize() (w, h float64) {
	switch o.Kind {
	case KindCircle:
		return o.Radius * 2, o.Radius * 2
	case KindPolygon:
		for _, p := range o.Points {
			w = math.Max(w, p.X)
			h = math.Max(h, p.Y)
		}
		return w, h
	default:
		return o.Width, o.Height
	}
}

// ScaledWidth returns the rendered width.
func (o *SceneObject) ScaledWidth() float64 {
	w, _ := o.localSize()
	return w * math.Abs(o.ScaleX)
}

// ScaledHeight returns the rendered height.
func (o *SceneObject) ScaledHeight() float64 {
	_, h := o.localSize()
	return h * math.Abs(o.ScaleY)
}

// ScaledRadius returns the circle radius along X.
func (o *SceneObject) ScaledRadius() float64 {
	return o.Radius * math.Abs(o.ScaleX)
}

// Bounds returns the canvas-space axis-aligned bounding box.
func (o *SceneObject) Bounds() Rect {
	w, h := o.localSize()
	m := computeLocalTransform(o)
	x0, y0 := transformPoint(m, 0, 0)
	x1, y1 := transformPoint(m, w, h)
	return Rect{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

// Contains reports whether the canvas point (x, y) is inside the object's
// geometry. Circles, triangles and polygons are tested exactly; text and
// images use their bounds.
func (o *SceneObject) Contains(x, y float64) bool {
	if o.disposed || o.ScaleX == 0 || o.ScaleY == 0 {
		return false
	}
	lx, ly := o.CanvasToLocal(x, y)
	w, h := o.localSize()
	switch o.Kind {
	case KindCircle:
		dx, dy := lx-o.Radius, ly-o.Radius
		return dx*dx+dy*dy <= o.Radius*o.Radius
	case KindTriangle, KindPolygon:
		return pointInPolygon(o.outline(), lx, ly)
	default:
		return lx >= 0 && lx <= w && ly >= 0 && ly <= h
	}
}

// outline returns the closed local-space outline for straight-edged kinds.
// Circles return nil.
func (o *SceneObject) outline() []Vec2 {
	switch o.Kind {
	case KindTriangle:
		return []Vec2{{o.Width / 2, 0}, {o.Width, o.Height}, {0, o.Height}}
	case KindPolygon:
		return o.Points
	case KindCircle:
		return nil
	default:
		w, h := o.localSize()
		return []Vec2{{0, 0}, {w, 0}, {w, h}, {0, h}}
	}
}

// CanvasOutline returns the object's closed outline in canvas coordinates.
// Circles are approximated by a polygon; text and images return their
// bounds corners.
func (o *SceneObject) CanvasOutline() []Vec2 {
	m := computeLocalTransform(o)
	if o.Kind == KindCircle {
		r := o.Radius
		return transformPoints(m, ellipse(r, r, r, r, circleSegments))
	}
	return transformPoints(m, o.outline())
}

// pointInPolygon is an even-odd crossing test. Works for concave outlines.
func pointInPolygon(pts []Vec2, x, y float64) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) {
			cx := (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if x <= cx {
				inside = !inside
			}
		}
	}
	return inside
}

// SetPosition moves the object to (x, y).
func (o *SceneObject) SetPosition(x, y float64) {
	o.X, o.Y = x, y
}

// MoveBy offsets the object's position.
func (o *SceneObject) MoveBy(dx, dy float64) {
	o.X += dx
	o.Y += dy
}

// SetScale sets the per-axis scale.
func (o *SceneObject) SetScale(sx, sy float64) {
	o.ScaleX, o.ScaleY = sx, sy
}

// SetText replaces a text object's content and re-measures it. It reports
// false for other kinds.
func (o *SceneObject) SetText(s string) bool {
	if o.Kind != KindText {
		return false
	}
	o.Text = s
	o.Width, o.Height = measureText(s, o.FontSize)
	return true
}

// SetFill parses css and sets it as the fill paint.
func (o *SceneObject) SetFill(css string) error {
	p, err := NewPaint(css)
	if err != nil {
		return err
	}
	o.Fill = p
	return nil
}

// SetStroke parses css and sets it as the stroke paint with the given width.
func (o *SceneObject) SetStroke(css string, width float64) error {
	p, err := NewPaint(css)
	if err != nil {
		return err
	}
	o.Stroke = p
	o.StrokeWidth = width
	return nil
}

// Dispose releases the object's image reference and marks it unusable.
// Calling Dispose more than once is a no-op.
func (o *SceneObject) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true
	o.Image = nil
	o.Points = nil
}

// IsDisposed reports whether Dispose has been called.
func (o *SceneObject) IsDisposed() bool {
	return o.disposed
}
