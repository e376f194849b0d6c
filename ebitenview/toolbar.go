package ebitenview

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/photomark"
)

const (
	toolbarHeight = 60
	buttonHeight  = 32
	buttonPad     = 8
	charWidth     = 6 // ebitenutil debug font advance
)

// action is a toolbar command.
type action uint8

const (
	actionText action = iota
	actionRect
	actionCircle
	actionTriangle
	actionPolygon
	actionFront
	actionBackward
	actionDelete
	actionReset
	actionExport
	actionCount
)

func (a action) label() string {
	switch a {
	case actionText:
		return "Text [T]"
	case actionRect:
		return "Rect [R]"
	case actionCircle:
		return "Circle [C]"
	case actionTriangle:
		return "Triangle [Y]"
	case actionPolygon:
		return "Polygon [P]"
	case actionFront:
		return "Front [PgUp]"
	case actionBackward:
		return "Back [PgDn]"
	case actionDelete:
		return "Delete [Del]"
	case actionReset:
		return "Reset"
	case actionExport:
		return "Export [Ctrl+S]"
	default:
		return "?"
	}
}

// apply runs a canvas action. Export is handled by the editor and reports
// false here.
func (a action) apply(c *photomark.Canvas) bool {
	switch a {
	case actionText:
		return c.AddText() != nil
	case actionRect:
		return c.AddRectangle() != nil
	case actionCircle:
		return c.AddCircle() != nil
	case actionTriangle:
		return c.AddTriangle() != nil
	case actionPolygon:
		return c.AddPolygon() != nil
	case actionFront:
		return c.BringToFront()
	case actionBackward:
		return c.SendBackward()
	case actionDelete:
		return c.RemoveActive()
	case actionReset:
		return c.Reset() > 0
	default:
		return false
	}
}

type button struct {
	rect   image.Rectangle
	action action
}

func (b *button) contains(x, y int) bool {
	return x >= b.rect.Min.X && x <= b.rect.Max.X && y >= b.rect.Min.Y && y <= b.rect.Max.Y
}

func (b *button) draw(dst *ebiten.Image, enabled bool) {
	bg := color.RGBA{55, 65, 81, 255}
	if !enabled {
		bg = color.RGBA{156, 163, 175, 255}
	}
	vector.DrawFilledRect(dst, float32(b.rect.Min.X), float32(b.rect.Min.Y), float32(b.rect.Dx()), float32(b.rect.Dy()), bg, false)
	ebitenutil.DebugPrintAt(dst, b.action.label(), b.rect.Min.X+6, b.rect.Min.Y+buttonHeight/2-8)
}

// layoutToolbar places one button per action left to right, starting at x0.
func layoutToolbar(x0 int) []button {
	buttons := make([]button, 0, actionCount)
	x := x0
	y := (toolbarHeight - buttonHeight) / 2
	for a := action(0); a < actionCount; a++ {
		w := len(a.label())*charWidth + 12
		buttons = append(buttons, button{rect: image.Rect(x, y, x+w, y+buttonHeight), action: a})
		x += w + buttonPad
	}
	return buttons
}

// buttonAt returns the button under (x, y), or nil.
func buttonAt(buttons []button, x, y int) *button {
	for i := range buttons {
		if buttons[i].contains(x, y) {
			return &buttons[i]
		}
	}
	return nil
}

// needsSelection reports whether a is disabled without an active object.
func (a action) needsSelection() bool {
	return a == actionFront || a == actionBackward || a == actionDelete
}
