package ebitenview

import (
	"testing"

	"github.com/phanxgames/photomark"
)

func newTestCanvas(t *testing.T) *photomark.Canvas {
	t.Helper()
	c := photomark.NewCanvas()
	if err := c.Mount(photomark.NewRasterSurface(), photomark.Size{Width: 800, Height: 760}); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(c.Dispose)
	return c
}

func TestToolbarLayoutCoversEveryAction(t *testing.T) {
	buttons := layoutToolbar(buttonPad)
	if len(buttons) != int(actionCount) {
		t.Fatalf("buttons = %d, want %d", len(buttons), actionCount)
	}
	for i := 1; i < len(buttons); i++ {
		if buttons[i].rect.Min.X <= buttons[i-1].rect.Max.X {
			t.Errorf("button %d overlaps button %d", i, i-1)
		}
	}
	for _, b := range buttons {
		if b.rect.Max.Y > toolbarHeight {
			t.Errorf("button %q extends below the toolbar", b.action.label())
		}
		c := b.rect.Min.Add(b.rect.Size().Div(2))
		if got := buttonAt(buttons, c.X, c.Y); got == nil || got.action != b.action {
			t.Errorf("buttonAt center of %q = %v", b.action.label(), got)
		}
	}
	if buttonAt(buttons, 0, toolbarHeight+10) != nil {
		t.Error("buttonAt below toolbar should be nil")
	}
}

func TestToolbarAddActions(t *testing.T) {
	tests := []struct {
		a    action
		kind photomark.Kind
	}{
		{actionText, photomark.KindText},
		{actionRect, photomark.KindRectangle},
		{actionCircle, photomark.KindCircle},
		{actionTriangle, photomark.KindTriangle},
		{actionPolygon, photomark.KindPolygon},
	}
	for _, tt := range tests {
		c := newTestCanvas(t)
		if !tt.a.apply(c) {
			t.Errorf("%s: apply = false", tt.a.label())
			continue
		}
		if a := c.Active(); a == nil || a.Kind != tt.kind {
			t.Errorf("%s: active = %v, want kind %v", tt.a.label(), a, tt.kind)
		}
	}
}

func TestToolbarSelectionActions(t *testing.T) {
	c := newTestCanvas(t)
	for _, a := range []action{actionFront, actionBackward, actionDelete} {
		if !a.needsSelection() {
			t.Errorf("%s should need a selection", a.label())
		}
		if a.apply(c) {
			t.Errorf("%s without selection should be a no-op", a.label())
		}
	}

	actionRect.apply(c)
	actionCircle.apply(c)
	if !actionBackward.apply(c) {
		t.Fatal("send backward with selection = false")
	}
	layers := c.Layers()
	if layers[0].Type != "circle" {
		t.Errorf("bottom layer = %s, want circle", layers[0].Type)
	}
	if !actionDelete.apply(c) {
		t.Fatal("delete with selection = false")
	}
	if got := len(c.Layers()); got != 1 {
		t.Errorf("layers after delete = %d, want 1", got)
	}
	if !actionReset.apply(c) {
		t.Error("reset with one object = false")
	}
	if actionReset.apply(c) {
		t.Error("reset of an empty canvas should report false")
	}
	if actionExport.apply(c) {
		t.Error("export is handled by the editor, apply should be false")
	}
}

func TestPulseOscillates(t *testing.T) {
	p := newPulse(0, 1, 1)
	var peak float32
	for i := 0; i < 30; i++ {
		if v := p.Update(1.0 / 60); v > peak {
			peak = v
		}
	}
	if peak < 0.9 {
		t.Errorf("peak after half period = %v, want ~1", peak)
	}
	for i := 0; i < 30; i++ {
		p.Update(1.0 / 60)
	}
	if v := p.Value(); v > 0.1 {
		t.Errorf("value after full period = %v, want ~0", v)
	}
	p.Reset()
	if p.Value() != 0 {
		t.Errorf("Reset value = %v, want 0", p.Value())
	}
}
