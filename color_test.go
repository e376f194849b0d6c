package photomark

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fafafa", color.NRGBA{0xfa, 0xfa, 0xfa, 0xff}},
		{"#FFF", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"#1d4ed8", color.NRGBA{0x1d, 0x4e, 0xd8, 0xff}},
		{"#ff000080", color.NRGBA{0xff, 0, 0, 0x80}},
		{"rgb(59, 130, 246)", color.NRGBA{59, 130, 246, 0xff}},
		{"rgba(239,68,68,0.35)", color.NRGBA{239, 68, 68, 89}},
		{"rgb(100%, 0%, 50%)", color.NRGBA{255, 0, 128, 0xff}},
		{"rgba(300, -5, 0, 2)", color.NRGBA{255, 0, 0, 255}},
		{" Black ", color.NRGBA{0, 0, 0, 0xff}},
		{"transparent", color.NRGBA{}},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got := c.NRGBA(); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "#ff0000zz", "rgb(1,2)", "rgb(a,b,c)", "rgba(1,2,3,x)", "hsl(0,0,0)", "chartreuse"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) should fail", in)
		}
	}
}

func TestMustParseColorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseColor("not a color")
}

func TestNewPaintKeepsWrittenValue(t *testing.T) {
	p, err := NewPaint("rgba(16,185,129,0.35)")
	if err != nil {
		t.Fatal(err)
	}
	if p.Value != "rgba(16,185,129,0.35)" || p.IsZero() {
		t.Errorf("Paint = %+v", p)
	}
	if !(Paint{}).IsZero() {
		t.Error("zero Paint should report IsZero")
	}
	if _, err := NewPaint("bogus"); err == nil {
		t.Error("NewPaint(bogus) should fail")
	}
}
