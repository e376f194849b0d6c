package photomark

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an export image encoding.
type Format uint8

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatGIF
	FormatTIFF
	FormatBMP
)

// JPEGQuality is the quality used for JPEG exports.
const JPEGQuality = 90

// MaxExportPixels caps the flattened export size (width × height).
const MaxExportPixels = 1 << 27

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return f.String()
}

// MIME returns the media type.
func (f Format) MIME() string {
	return "image/" + f.String()
}

// ParseFormat maps a name or extension (with or without a dot) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	}
	return FormatPNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ExportOptions controls ExportRaster.
type ExportOptions struct {
	Format Format
	// Multiplier scales the output relative to the surface. Values <= 0
	// mean 1.
	Multiplier float64
	// Name prefixes the file name; empty means "canvas".
	Name string
}

// ExportOptions returns the export settings from the config. An invalid
// format falls back to PNG.
func (c Config) ExportOptions() ExportOptions {
	f, _ := ParseFormat(c.ExportFormat)
	return ExportOptions{Format: f, Multiplier: c.ExportMultiplier}
}

// Export is an encoded flattened canvas, ready to be offered as a download.
type Export struct {
	Data     []byte
	Format   Format
	Width    int
	Height   int
	Filename string
}

// DataURI returns the export as a base64 data URI.
func (e *Export) DataURI() string {
	return "data:" + e.Format.MIME() + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

// WriteFile writes the export into dir under its Filename and returns the
// path written.
func (e *Export) WriteFile(dir string) (string, error) {
	path := filepath.Join(dir, e.Filename)
	if err := os.WriteFile(path, e.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ExportRaster flattens the paint list at surface size times the multiplier
// and encodes it. The scene is not modified.
func (c *Canvas) ExportRaster(opts ExportOptions) (*Export, error) {
	if c.disposed {
		return nil, &ExportError{Format: opts.Format, Err: ErrDisposed}
	}
	if c.surface == nil {
		return nil, &ExportError{Format: opts.Format, Err: ErrNotMounted}
	}
	m := opts.Multiplier
	if m <= 0 {
		m = 1
	}
	sw, sh := c.surface.Size()
	fw := math.Max(math.Round(float64(sw)*m), 1)
	fh := math.Max(math.Round(float64(sh)*m), 1)
	if math.IsInf(m, 0) || math.IsNaN(m) || fw*fh > MaxExportPixels {
		err := fmt.Errorf("%.0fx%.0f exceeds %d pixels", fw, fh, MaxExportPixels)
		c.log.Error("export failed", "format", opts.Format, "err", err)
		return nil, &ExportError{Format: opts.Format, Err: err}
	}
	w, h := int(fw), int(fh)

	var buf bytes.Buffer
	if err := renderAndEncode(&buf, w, h, c.bgColor, c.stack.PaintList(), m, opts.Format); err != nil {
		c.log.Error("export failed", "format", opts.Format, "err", err)
		return nil, &ExportError{Format: opts.Format, Err: err}
	}
	name := "canvas"
	if opts.Name != "" {
		name = sanitizeLabel(opts.Name)
	}
	exp := &Export{
		Data:     buf.Bytes(),
		Format:   opts.Format,
		Width:    w,
		Height:   h,
		Filename: fmt.Sprintf("%s-%d.%s", name, c.now().UnixMilli(), opts.Format.Ext()),
	}
	c.log.Debug("exported", "file", exp.Filename, "bytes", len(exp.Data), "width", w, "height", h)
	return exp, nil
}

// renderAndEncode flattens objs into a w×h raster and encodes it. Panics
// from either step are returned as errors.
func renderAndEncode(out io.Writer, w, h int, bg Color, objs []*SceneObject, scale float64, f Format) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rasterize(img, bg, objs, scale)
	return encodeImage(out, img, f)
}

// encodeImage writes img in format f.
func encodeImage(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
