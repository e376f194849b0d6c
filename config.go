package photomark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// Config holds canvas sizing, paint and export settings. It is loaded from a
// TOML file; zero-valued fields in the file keep their defaults.
type Config struct {
	// WidthFraction is the share of the viewport width given to the surface.
	WidthFraction float64 `toml:"width_fraction"`
	// HeightOffset is subtracted from the viewport height (toolbar + margins).
	HeightOffset float64 `toml:"height_offset"`
	// BackgroundColor is the CSS color painted behind everything.
	BackgroundColor string `toml:"background_color"`
	// FitMargin scales the contain-fit of the background image.
	FitMargin float64 `toml:"fit_margin"`

	ExportFormat     string  `toml:"export_format"`
	ExportMultiplier float64 `toml:"export_multiplier"`

	FetchTimeoutSeconds int  `toml:"fetch_timeout_seconds"`
	Debug               bool `toml:"debug"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		WidthFraction:       0.95,
		HeightOffset:        160,
		BackgroundColor:     "#fafafa",
		FitMargin:           0.9,
		ExportFormat:        "png",
		ExportMultiplier:    1,
		FetchTimeoutSeconds: 30,
	}
}

// LoadConfig reads a TOML config from path over DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("photomark: read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("photomark: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and that colors and formats parse.
func (c Config) Validate() error {
	var errs []error
	if c.WidthFraction <= 0 || c.WidthFraction > 1 {
		errs = append(errs, fmt.Errorf("width_fraction %v not in (0, 1]", c.WidthFraction))
	}
	if c.HeightOffset < 0 {
		errs = append(errs, fmt.Errorf("height_offset %v is negative", c.HeightOffset))
	}
	if c.FitMargin <= 0 || c.FitMargin > 1 {
		errs = append(errs, fmt.Errorf("fit_margin %v not in (0, 1]", c.FitMargin))
	}
	if _, err := ParseColor(c.BackgroundColor); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseFormat(c.ExportFormat); err != nil {
		errs = append(errs, err)
	}
	if c.ExportMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("export_multiplier %v must be positive", c.ExportMultiplier))
	}
	if c.FetchTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout_seconds %d is negative", c.FetchTimeoutSeconds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("photomark: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// FetchTimeout returns the fetch timeout as a duration. Zero means none.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// background returns the parsed background color, falling back to the
// default on a bad value.
func (c Config) background() Color {
	col, err := ParseColor(c.BackgroundColor)
	if err != nil {
		return MustParseColor(DefaultConfig().BackgroundColor)
	}
	return col
}

// WriteConfig writes cfg to path as TOML.
func WriteConfig(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("photomark: encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("photomark: write config: %w", err)
	}
	return nil
}

// WatchConfig reloads path whenever it changes and passes each valid config
// to fn. Invalid files are passed to onErr (which may be nil) and skipped.
// The directory is watched so editors that replace the file are handled.
// Blocks until ctx is done.
func WatchConfig(ctx context.Context, path string, fn func(Config), onErr func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("photomark: watch config: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("photomark: watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("photomark: watch config: %w", err)
	}

	report := func(err error) {
		if onErr != nil {
			onErr(err)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig(abs)
			if err != nil {
				report(err)
				continue
			}
			fn(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			report(err)
		}
	}
}
