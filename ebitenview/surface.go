// Package ebitenview renders a photomark canvas with Ebitengine and provides
// an interactive editor game around it.
package ebitenview

import (
	"bytes"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/photomark"
)

// lineHeight matches the CPU rasterizer's text line height.
const lineHeight = 1.16

var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

var textSource *text.GoTextFaceSource

func ensureTextSource() *text.GoTextFaceSource {
	if textSource == nil {
		s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic("ebitenview: parse goregular: " + err.Error())
		}
		textSource = s
	}
	return textSource
}

// Surface is a photomark.Surface drawing into an offscreen ebiten.Image.
// The editor composites Image() onto the screen each frame.
type Surface struct {
	target *ebiten.Image
	w, h   int
	images map[*photomark.SceneObject]*ebiten.Image
	// scratch buffers reused across paints
	verts []ebiten.Vertex
	inds  []uint16
}

// NewSurface returns an unsized surface. Canvas.Mount sizes it.
func NewSurface() *Surface {
	return &Surface{w: 1, h: 1, images: make(map[*photomark.SceneObject]*ebiten.Image)}
}

// Resize implements photomark.Surface.
func (s *Surface) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == s.w && height == s.h && s.target != nil {
		return
	}
	s.w, s.h = width, height
	if s.target != nil {
		s.target.Deallocate()
		s.target = nil
	}
}

// Size implements photomark.Surface.
func (s *Surface) Size() (int, int) {
	return s.w, s.h
}

// Image returns the offscreen target, or nil before the first paint.
func (s *Surface) Image() *ebiten.Image {
	return s.target
}

// Paint implements photomark.Surface.
func (s *Surface) Paint(bg photomark.Color, objs []*photomark.SceneObject) {
	if s.images == nil {
		return
	}
	if s.target == nil {
		s.target = ebiten.NewImage(s.w, s.h)
	}
	s.target.Fill(bg.NRGBA())

	live := make(map[*photomark.SceneObject]bool, len(objs))
	for _, o := range objs {
		if o.IsDisposed() {
			continue
		}
		switch o.Kind {
		case photomark.KindBackgroundImage:
			live[o] = true
			s.drawImage(o)
		case photomark.KindText:
			s.drawText(o)
		default:
			s.drawShape(o)
		}
	}
	// Release textures of backgrounds that left the scene.
	for o, img := range s.images {
		if !live[o] {
			img.Deallocate()
			delete(s.images, o)
		}
	}
}

func (s *Surface) drawImage(o *photomark.SceneObject) {
	if o.Image == nil {
		return
	}
	img, ok := s.images[o]
	if !ok {
		img = ebiten.NewImageFromImage(o.Image)
		s.images[o] = img
	}
	m := o.Transform()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 2, m[5])
	s.target.DrawImage(img, op)
}

func (s *Surface) drawShape(o *photomark.SceneObject) {
	pts := o.CanvasOutline()
	if len(pts) < 3 {
		return
	}
	if !o.Fill.IsZero() && o.Fill.Color.A > 0 {
		s.fillPolygon(pts, o.Fill.Color)
	}
	if o.Stroke.IsZero() || o.StrokeWidth <= 0 {
		return
	}
	sw := float32(o.StrokeWidth * (math.Abs(o.ScaleX) + math.Abs(o.ScaleY)) / 2)
	clr := o.Stroke.Color.NRGBA()
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(s.target, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), sw, clr, true)
	}
}

// fillPolygon draws a fan-triangulated polygon with the white pixel tinted
// by per-vertex color. Fans are exact for convex outlines.
func (s *Surface) fillPolygon(pts []photomark.Vec2, c photomark.Color) {
	s.verts, s.inds = buildPolygonFan(pts, c, s.verts[:0], s.inds[:0])
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	s.target.DrawTriangles(s.verts, s.inds, ensureWhitePixel(), op)
}

// buildPolygonFan generates vertices and indices for a fan-triangulated
// polygon. N vertices, 3*(N-2) indices.
func buildPolygonFan(points []photomark.Vec2, c photomark.Color, verts []ebiten.Vertex, inds []uint16) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 3 {
		return verts, inds
	}
	r, g, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	for _, p := range points {
		verts = append(verts, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	for i := 1; i < n-1; i++ {
		inds = append(inds, 0, uint16(i), uint16(i+1))
	}
	return verts, inds
}

func (s *Surface) drawText(o *photomark.SceneObject) {
	if o.Text == "" {
		return
	}
	size := o.FontSize * math.Abs(o.ScaleY)
	face := &text.GoTextFace{Source: ensureTextSource(), Size: size}
	x, y := o.LocalToCanvas(0, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(o.Fill.Color.NRGBA())
	op.LineSpacing = size * lineHeight
	text.Draw(s.target, o.Text, face, op)
}

// Dispose implements photomark.Surface.
func (s *Surface) Dispose() {
	for o, img := range s.images {
		img.Deallocate()
		delete(s.images, o)
	}
	s.images = nil
	if s.target != nil {
		s.target.Deallocate()
		s.target = nil
	}
}
