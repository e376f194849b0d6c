package photomark

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMounted is returned by operations that need a surface before
	// Mount has been called.
	ErrNotMounted = errors.New("photomark: canvas not mounted")
	// ErrDisposed is returned by operations on a disposed canvas.
	ErrDisposed = errors.New("photomark: canvas disposed")
	// ErrUnsupportedFormat is returned for unknown export formats.
	ErrUnsupportedFormat = errors.New("photomark: unsupported format")
)

// LoadError reports a failed background fetch or decode.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("photomark: load %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MissingSourceError reports that neither a navigation parameter nor a
// stored selection named an image.
type MissingSourceError struct{}

func (MissingSourceError) Error() string {
	return "photomark: no image source provided"
}

// ExportError reports a failed export.
type ExportError struct {
	Format Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("photomark: export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
