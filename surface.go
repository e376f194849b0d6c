package photomark

import (
	"image"
	"math"
	"sync"
)

// Surface is a drawing target the Canvas paints onto. Implementations are
// driven from the UI goroutine only.
type Surface interface {
	// Resize changes the surface's pixel dimensions.
	Resize(width, height int)
	// Size returns the current pixel dimensions.
	Size() (width, height int)
	// Paint clears to bg and draws objs in order.
	Paint(bg Color, objs []*SceneObject)
	// Dispose releases surface resources.
	Dispose()
}

// ViewportSize derives the surface size from the host viewport: width is
// cfg.WidthFraction of the viewport width, height is the viewport height
// minus cfg.HeightOffset. Neither drops below 1px.
func ViewportSize(cfg Config, viewport Size) (width, height int) {
	// The epsilon absorbs float error in fractions like 0.95.
	width = int(math.Floor(viewport.Width*cfg.WidthFraction + 1e-9))
	height = int(math.Floor(viewport.Height - cfg.HeightOffset + 1e-9))
	return max(width, 1), max(height, 1)
}

// RasterSurface is a headless Surface backed by an *image.RGBA. It is used by
// tools and tests; the editor uses the ebiten surface.
type RasterSurface struct {
	mu       sync.Mutex
	img      *image.RGBA
	w, h     int
	paints   int
	disposed bool
}

// NewRasterSurface returns a 1x1 surface. Canvas.Mount resizes it.
func NewRasterSurface() *RasterSurface {
	return &RasterSurface{w: 1, h: 1}
}

// Resize implements Surface.
func (s *RasterSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w, s.h = max(width, 1), max(height, 1)
}

// Size implements Surface.
func (s *RasterSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

// Paint implements Surface.
func (s *RasterSurface) Paint(bg Color, objs []*SceneObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	if s.img == nil || s.img.Rect.Dx() != s.w || s.img.Rect.Dy() != s.h {
		s.img = image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	}
	rasterize(s.img, bg, objs, 1)
	s.paints++
}

// Dispose implements Surface.
func (s *RasterSurface) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.img = nil
}

// Image returns the last painted frame, or nil before the first paint.
func (s *RasterSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Paints returns how many frames have been painted.
func (s *RasterSurface) Paints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paints
}
