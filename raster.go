package photomark

import (
	"image"
	"image/draw"
	"math"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	// textLineHeight is the line height as a multiple of the font size.
	textLineHeight = 1.16
	// circleSegments is the number of edges used to approximate a circle.
	circleSegments = 72
	// joinSegments is the number of edges in a round stroke join.
	joinSegments = 12
)

// rasterize clears dst to bg and draws objs in order, with every coordinate
// multiplied by scale.
func rasterize(dst *image.RGBA, bg Color, objs []*SceneObject, scale float64) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, draw.Src)
	view := scaleTransform(scale)
	for _, o := range objs {
		if o == nil || o.disposed {
			continue
		}
		m := multiplyAffine(view, computeLocalTransform(o))
		switch o.Kind {
		case KindBackgroundImage:
			drawImage(dst, o, m)
		case KindText:
			drawText(dst, o, m)
		case KindCircle:
			drawCircle(dst, o, m, scale)
		default:
			drawOutline(dst, o, m, scale)
		}
	}
}

func drawImage(dst *image.RGBA, o *SceneObject, m [6]float64) {
	if o.Image == nil {
		return
	}
	sb := o.Image.Bounds()
	m = multiplyAffine(m, [6]float64{1, 0, 0, 1, -float64(sb.Min.X), -float64(sb.Min.Y)})
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	xdraw.BiLinear.Transform(dst, aff, o.Image, sb, xdraw.Over, nil)
}

func drawOutline(dst *image.RGBA, o *SceneObject, m [6]float64, scale float64) {
	pts := transformPoints(m, o.outline())
	if len(pts) < 3 {
		return
	}
	if !o.Fill.IsZero() && o.Fill.Color.A > 0 {
		fillContours(dst, o.Fill.Color, pts)
	}
	if sw := strokeWidth(o, scale); sw > 0 {
		strokeClosed(dst, o.Stroke.Color, pts, sw)
	}
}

func drawCircle(dst *image.RGBA, o *SceneObject, m [6]float64, scale float64) {
	r := o.Radius
	if r <= 0 {
		return
	}
	pts := transformPoints(m, ellipse(r, r, r, r, circleSegments))
	if !o.Fill.IsZero() && o.Fill.Color.A > 0 {
		fillContours(dst, o.Fill.Color, pts)
	}
	sw := strokeWidth(o, scale)
	if sw <= 0 {
		return
	}
	// Ring: outer contour plus reversed inner contour.
	half := o.StrokeWidth / 2
	outer := transformPoints(m, ellipse(r, r, r+half, r+half, circleSegments))
	inner := transformPoints(m, ellipse(r, r, math.Max(r-half, 0), math.Max(r-half, 0), circleSegments))
	reverse(inner)
	fillContours(dst, o.Stroke.Color, outer, inner)
}

func strokeWidth(o *SceneObject, scale float64) float64 {
	if o.Stroke.IsZero() || o.StrokeWidth <= 0 || o.Stroke.Color.A <= 0 {
		return 0
	}
	return o.StrokeWidth * scale * (math.Abs(o.ScaleX) + math.Abs(o.ScaleY)) / 2
}

// strokeClosed strokes a closed outline with round joins. Every piece is
// emitted with the same orientation so overlaps do not cancel.
func strokeClosed(dst *image.RGBA, c Color, pts []Vec2, width float64) {
	half := width / 2
	var contours [][]Vec2
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		contours = append(contours, orient([]Vec2{
			{a.X + nx, a.Y + ny},
			{b.X + nx, b.Y + ny},
			{b.X - nx, b.Y - ny},
			{a.X - nx, a.Y - ny},
		}))
		contours = append(contours, orient(ellipse(a.X, a.Y, half, half, joinSegments)))
	}
	fillContours(dst, c, contours...)
}

// fillContours fills the union of contours in one rasterizer pass.
func fillContours(dst *image.RGBA, c Color, contours ...[]Vec2) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	for _, pts := range contours {
		if len(pts) < 3 {
			continue
		}
		z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
		for _, p := range pts[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	}
	z.Draw(dst, b, image.NewUniform(c.NRGBA()), image.Point{})
}

func drawText(dst *image.RGBA, o *SceneObject, m [6]float64) {
	if o.Text == "" || o.FontSize <= 0 {
		return
	}
	size := o.FontSize * math.Abs(m[3])
	face := textFace(size)
	if face == nil {
		return
	}
	x, y := transformPoint(m, 0, 0)
	ascent := float64(face.Metrics().Ascent) / 64
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(o.Fill.Color.NRGBA()),
		Face: face,
	}
	for i, line := range strings.Split(o.Text, "\n") {
		baseline := y + ascent + float64(i)*size*textLineHeight
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)}
		d.DrawString(line)
	}
}

var (
	fontOnce  sync.Once
	fontData  *opentype.Font
	facesMu   sync.Mutex
	faceCache = map[float64]font.Face{}
)

// textFace returns a Go Regular face at size, cached per size.
func textFace(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err == nil {
			fontData = f
		}
	})
	if fontData == nil || size <= 0 {
		return nil
	}
	size = math.Round(size*4) / 4
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faceCache[size]; ok {
		return f
	}
	f, err := opentype.NewFace(fontData, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil
	}
	faceCache[size] = f
	return f
}

// measureText returns the unscaled block size of text at fontSize.
func measureText(text string, fontSize float64) (w, h float64) {
	lines := strings.Split(text, "\n")
	h = float64(len(lines)) * fontSize * textLineHeight
	face := textFace(fontSize)
	if face == nil {
		return float64(len(text)) * fontSize * 0.5, h
	}
	for _, line := range lines {
		adv := font.MeasureString(face, line)
		w = math.Max(w, float64(adv)/64)
	}
	return w, h
}

func transformPoints(m [6]float64, pts []Vec2) []Vec2 {
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		x, y := transformPoint(m, p.X, p.Y)
		out[i] = Vec2{x, y}
	}
	return out
}

// ellipse returns n points around (cx, cy) with radii rx, ry.
func ellipse(cx, cy, rx, ry float64, n int) []Vec2 {
	pts := make([]Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Vec2{cx + rx*math.Cos(a), cy + ry*math.Sin(a)}
	}
	return pts
}

func signedArea(pts []Vec2) float64 {
	var a float64
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// orient returns pts with positive signed area.
func orient(pts []Vec2) []Vec2 {
	if signedArea(pts) < 0 {
		reverse(pts)
	}
	return pts
}

func reverse(pts []Vec2) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
