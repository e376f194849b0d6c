package photomark

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to a rasterizer.
type Color struct {
	R, G, B, A float64
}

// ColorTransparent is the zero color.
var ColorTransparent = Color{}

// NRGBA converts c to a straight-alpha 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions, offsets and polygon vertices.
type Vec2 struct {
	X, Y float64
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Kind distinguishes geometry and rendering behavior for a SceneObject.
type Kind uint8

const (
	KindText            Kind = iota // editable text block
	KindRectangle                   // axis-aligned box
	KindCircle                      // circle (ellipse when scaled unevenly)
	KindTriangle                    // isosceles triangle, apex at top center
	KindPolygon                     // closed polygon over relative vertices
	KindBackgroundImage             // the single non-interactive photo
)

// String returns the name used as the ID prefix.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	case KindTriangle:
		return "triangle"
	case KindPolygon:
		return "polygon"
	case KindBackgroundImage:
		return "image"
	default:
		return "unknown"
	}
}

// layerType returns the short type name shown in the layer inspector.
func (k Kind) layerType() string {
	if k == KindRectangle {
		return "rect"
	}
	return k.String()
}

// Origin selects which point of an object X and Y refer to.
type Origin uint8

const (
	OriginTopLeft Origin = iota // X, Y is the top-left corner of the bounds
	OriginCenter                // X, Y is the center of the bounds
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
