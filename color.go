package photomark

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// namedColors covers the CSS keywords the editor accepts besides hex and
// rgb()/rgba() notation.
var namedColors = map[string]Color{
	"transparent": ColorTransparent,
	"black":       {0, 0, 0, 1},
	"white":       {1, 1, 1, 1},
	"red":         {1, 0, 0, 1},
	"green":       {0, 128.0 / 255, 0, 1},
	"blue":        {0, 0, 1, 1},
	"yellow":      {1, 1, 0, 1},
	"gray":        {128.0 / 255, 128.0 / 255, 128.0 / 255, 1},
}

// ParseColor parses a CSS color: #rgb, #rrggbb, #rrggbbaa, rgb(r, g, b),
// rgba(r, g, b, a) or one of a few keywords.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return Color{}, fmt.Errorf("photomark: empty color")
	}
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	switch {
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v)
	case strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")"):
		return parseRGBFunc(v[len("rgba(") : len(v)-1])
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseRGBFunc(v[len("rgb(") : len(v)-1])
	}
	return Color{}, fmt.Errorf("photomark: unrecognized color %q", s)
}

// MustParseColor is like ParseColor but panics on error. Used for defaults.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHexColor(v string) (Color, error) {
	hex := v[1:]
	alpha := 1.0
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("photomark: bad alpha in color %q: %w", v, err)
		}
		alpha = float64(a) / 255
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("photomark: bad hex color %q", v)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("photomark: bad hex color %q: %w", v, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func parseRGBFunc(args string) (Color, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("photomark: rgb color needs 3 or 4 components, got %d", len(parts))
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		p := strings.TrimSpace(parts[i])
		if strings.HasSuffix(p, "%") {
			f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			if err != nil {
				return Color{}, fmt.Errorf("photomark: bad color component %q: %w", p, err)
			}
			ch[i] = clamp01(f / 100)
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Color{}, fmt.Errorf("photomark: bad color component %q: %w", p, err)
		}
		ch[i] = clamp01(f / 255)
	}
	alpha := 1.0
	if len(parts) == 4 {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("photomark: bad alpha %q: %w", parts[3], err)
		}
		alpha = clamp01(f)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

// Paint is a color as the user wrote it plus its parsed value. The written
// form is what the layer inspector reports.
type Paint struct {
	Value string
	Color Color
}

// NewPaint parses css into a Paint.
func NewPaint(css string) (Paint, error) {
	c, err := ParseColor(css)
	if err != nil {
		return Paint{}, err
	}
	return Paint{Value: css, Color: c}, nil
}

func mustPaint(css string) Paint {
	return Paint{Value: css, Color: MustParseColor(css)}
}

// IsZero reports whether no paint is set.
func (p Paint) IsZero() bool {
	return p.Value == ""
}
