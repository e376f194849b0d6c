package photomark

import (
	"bytes"
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"my-photo", "my-photo"},
		{"shot.01", "shot.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", FormatPNG},
		{".PNG", FormatPNG},
		{"jpg", FormatJPEG},
		{"jpeg", FormatJPEG},
		{"gif", FormatGIF},
		{"tif", FormatTIFF},
		{" tiff ", FormatTIFF},
		{"bmp", FormatBMP},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("svg"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(svg) = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFormatExtAndMIME(t *testing.T) {
	if FormatJPEG.Ext() != "jpg" || FormatJPEG.MIME() != "image/jpeg" {
		t.Errorf("jpeg ext/mime = %q %q", FormatJPEG.Ext(), FormatJPEG.MIME())
	}
	if FormatPNG.Ext() != "png" || FormatPNG.MIME() != "image/png" {
		t.Errorf("png ext/mime = %q %q", FormatPNG.Ext(), FormatPNG.MIME())
	}
}

func TestConfigExportOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExportFormat = "jpg"
	cfg.ExportMultiplier = 2
	opts := cfg.ExportOptions()
	if opts.Format != FormatJPEG || opts.Multiplier != 2 {
		t.Errorf("ExportOptions = %+v", opts)
	}
	cfg.ExportFormat = "nope"
	if cfg.ExportOptions().Format != FormatPNG {
		t.Error("invalid export format should fall back to PNG")
	}
}

func TestExportNotMounted(t *testing.T) {
	c := NewCanvas()
	defer c.Dispose()
	_, err := c.ExportRaster(ExportOptions{})
	var ee *ExportError
	if !errors.As(err, &ee) || !errors.Is(err, ErrNotMounted) {
		t.Errorf("ExportRaster before Mount = %v, want ExportError wrapping ErrNotMounted", err)
	}
}

func TestExportDisposed(t *testing.T) {
	c, _ := newMountedCanvas(t)
	c.Dispose()
	if _, err := c.ExportRaster(ExportOptions{}); !errors.Is(err, ErrDisposed) {
		t.Errorf("ExportRaster after Dispose = %v, want ErrDisposed", err)
	}
}

func TestExportDimensions(t *testing.T) {
	c, _ := newMountedCanvas(t)
	if err := c.AddObject(newTestBackground()); err != nil {
		t.Fatal(err)
	}
	exp, err := c.ExportRaster(ExportOptions{})
	if err != nil {
		t.Fatalf("ExportRaster: %v", err)
	}
	if exp.Width != 1000 || exp.Height != 800 {
		t.Errorf("export size = %dx%d, want 1000x800", exp.Width, exp.Height)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(exp.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 1000 || cfg.Height != 800 {
		t.Errorf("decoded size = %dx%d", cfg.Width, cfg.Height)
	}

	exp2, err := c.ExportRaster(ExportOptions{Multiplier: 2})
	if err != nil {
		t.Fatal(err)
	}
	if exp2.Width != 2000 || exp2.Height != 1600 {
		t.Errorf("2x export size = %dx%d, want 2000x1600", exp2.Width, exp2.Height)
	}
}

func TestExportEveryFormatDecodes(t *testing.T) {
	c, _ := newMountedCanvas(t)
	c.AddRectangle()
	c.AddCircle()
	for _, f := range []Format{FormatPNG, FormatJPEG, FormatGIF, FormatTIFF, FormatBMP} {
		t.Run(f.String(), func(t *testing.T) {
			exp, err := c.ExportRaster(ExportOptions{Format: f, Multiplier: 0.5})
			if err != nil {
				t.Fatalf("ExportRaster: %v", err)
			}
			cfg, name, err := image.DecodeConfig(bytes.NewReader(exp.Data))
			if err != nil {
				t.Fatalf("DecodeConfig: %v", err)
			}
			if name != f.String() {
				t.Errorf("decoded as %q, want %q", name, f.String())
			}
			if cfg.Width != 500 || cfg.Height != 400 {
				t.Errorf("size = %dx%d, want 500x400", cfg.Width, cfg.Height)
			}
			if !strings.HasSuffix(exp.Filename, "."+f.Ext()) {
				t.Errorf("Filename = %q, want .%s suffix", exp.Filename, f.Ext())
			}
		})
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	c, _ := newMountedCanvas(t)
	_, err := c.ExportRaster(ExportOptions{Format: Format(99)})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ExportRaster(99) = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExportFilename(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	c, _ := newMountedCanvas(t, WithClock(func() time.Time { return at }))
	exp, err := c.ExportRaster(ExportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if exp.Filename != "canvas-1700000000123.png" {
		t.Errorf("Filename = %q", exp.Filename)
	}
	exp, err = c.ExportRaster(ExportOptions{Format: FormatJPEG, Name: "my photo"})
	if err != nil {
		t.Fatal(err)
	}
	if exp.Filename != "my_photo-1700000000123.jpg" {
		t.Errorf("Filename = %q", exp.Filename)
	}
}

func TestExportLeavesSceneUnchanged(t *testing.T) {
	c, s := newMountedCanvas(t)
	c.AddRectangle()
	c.AddText()
	before := c.Layers()
	paints := s.Paints()
	active := c.Active()
	if _, err := c.ExportRaster(ExportOptions{Multiplier: 2}); err != nil {
		t.Fatal(err)
	}
	after := c.Layers()
	if len(after) != len(before) {
		t.Fatalf("layers %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("layer %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	if s.Paints() != paints {
		t.Error("export should not repaint the surface")
	}
	if c.Active() != active {
		t.Error("export should not change the selection")
	}
}

func TestExportDataURIAndWriteFile(t *testing.T) {
	c, _ := newMountedCanvas(t)
	exp, err := c.ExportRaster(ExportOptions{Multiplier: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if uri := exp.DataURI(); !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("DataURI prefix = %q", uri[:min(len(uri), 30)])
	}
	dir := t.TempDir()
	path, err := exp.WriteFile(dir)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if path != filepath.Join(dir, exp.Filename) {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, exp.Data) {
		t.Errorf("written file mismatch: %v", err)
	}
	if _, err := exp.WriteFile(filepath.Join(dir, "missing", "dir")); err == nil {
		t.Error("WriteFile into a missing directory should fail")
	}
}

func TestExportRejectsOversizedMultiplier(t *testing.T) {
	c, _ := newMountedCanvas(t)
	c.AddRectangle()
	for _, m := range []float64{1e5, math.Inf(1), math.NaN()} {
		exp, err := c.ExportRaster(ExportOptions{Format: FormatPNG, Multiplier: m})
		if exp != nil {
			t.Errorf("Multiplier %v: export = %dx%d, want nil", m, exp.Width, exp.Height)
		}
		var ee *ExportError
		if !errors.As(err, &ee) {
			t.Errorf("Multiplier %v: err = %v, want *ExportError", m, err)
		}
	}
	// The canvas stays usable afterwards.
	if _, err := c.ExportRaster(ExportOptions{Multiplier: 0.5}); err != nil {
		t.Errorf("ExportRaster after rejection: %v", err)
	}
}
