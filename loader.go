package photomark

import (
	"context"
	"errors"
	"image"
	"math"
	"net/url"
)

// User-facing status messages.
const (
	MessageMissingSource = "No image provided. Redirecting home."
	MessageLoadFailed    = "Failed to load image."
	MessageExportFailed  = "Unable to generate image download."
)

// LoadState is the background load state machine.
type LoadState uint8

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadReady
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the loading indicator and message state shown by the host.
type Status struct {
	State   LoadState
	Loading bool
	Message string
	Source  string
	// Gen is the generation of the request the status describes.
	Gen uint64
	// Err is the last load error, if State is LoadFailed.
	Err error
}

type loadResult struct {
	gen uint64
	url string
	img image.Image
	err error
}

// ResolveSource picks the image URL to load. A navigation parameter wins and
// is URL-decoded; otherwise the stored selection is used.
func ResolveSource(navParam, selected string) (string, error) {
	if navParam != "" {
		if u, err := url.QueryUnescape(navParam); err == nil {
			return u, nil
		}
		return navParam, nil
	}
	if selected != "" {
		return selected, nil
	}
	return "", MissingSourceError{}
}

// FitScale is the contain-fit scale of an iw×ih image on an sw×sh surface
// with the default 0.9 margin. Zero image sides are treated as 1.
func FitScale(sw, sh, iw, ih float64) float64 {
	return fitScale(sw, sh, iw, ih, 0.9)
}

func fitScale(sw, sh, iw, ih, margin float64) float64 {
	if iw == 0 {
		iw = 1
	}
	if ih == 0 {
		ih = 1
	}
	return math.Min(sw/iw, sh/ih) * margin
}

// fitBackground centers obj on the surface at the fit scale. Unmounted
// canvases leave it at scale 1; Mount re-fits.
func (c *Canvas) fitBackground(obj *SceneObject) {
	if !c.Mounted() {
		return
	}
	w, h := c.surface.Size()
	s := fitScale(float64(w), float64(h), obj.Width, obj.Height, c.cfg.FitMargin)
	obj.SetScale(s, s)
	obj.SetPosition(float64(w)/2, float64(h)/2)
}

// Open resolves the image source and starts loading it. Without a source it
// sets the missing-source message, calls the OnMissingSource callback and
// returns MissingSourceError.
func (c *Canvas) Open(ctx context.Context, navParam, selected string) error {
	if c.disposed {
		return ErrDisposed
	}
	src, err := ResolveSource(navParam, selected)
	if err != nil {
		c.status = Status{State: LoadIdle, Message: MessageMissingSource}
		c.log.Info("no image source", "err", err)
		if c.onMissing != nil {
			c.onMissing()
		}
		return err
	}
	c.LoadBackground(ctx, src)
	return nil
}

// LoadBackground starts fetching src and returns the request generation.
// Any earlier request is cancelled and its result will be discarded.
// The result is applied by Update or Wait.
func (c *Canvas) LoadBackground(ctx context.Context, src string) uint64 {
	if c.disposed {
		return 0
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen

	var lctx context.Context
	if t := c.cfg.FetchTimeout(); t > 0 {
		lctx, c.cancel = context.WithTimeout(ctx, t)
	} else {
		lctx, c.cancel = context.WithCancel(ctx)
	}
	c.status = Status{State: LoadLoading, Loading: true, Source: src, Gen: gen}

	c.mu.Lock()
	c.pending++
	c.mu.Unlock()

	c.log.Debug("load started", "url", src, "gen", gen)
	fetcher, results, done := c.fetcher, c.results, c.done
	go func() {
		img, err := fetcher.Fetch(lctx, src)
		select {
		case results <- loadResult{gen: gen, url: src, img: img, err: err}:
		case <-done:
		}
	}()
	return gen
}

// Update applies every completed load without blocking. Call once per frame.
// Returns the number of completions drained, stale ones included.
func (c *Canvas) Update() int {
	n := 0
	for {
		select {
		case r := <-c.results:
			c.applyLoad(r)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until the next load completes and applies it. It returns the
// LoadError of a current failed load, nil for success or a stale result.
func (c *Canvas) Wait(ctx context.Context) error {
	if c.disposed {
		return ErrDisposed
	}
	select {
	case r := <-c.results:
		if !c.applyLoad(r) {
			return nil
		}
		return r.loadErr()
	case <-c.done:
		return ErrDisposed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r loadResult) loadErr() error {
	if r.err == nil {
		return nil
	}
	return &LoadError{URL: r.url, Err: r.err}
}

// applyLoad installs or reports a completed load. Reports false when the
// result was stale and dropped.
func (c *Canvas) applyLoad(r loadResult) bool {
	c.mu.Lock()
	c.pending--
	c.mu.Unlock()

	if c.disposed || r.gen != c.gen || r.url != c.status.Source {
		c.log.Debug("stale load discarded", "url", r.url, "gen", r.gen, "latest", c.gen)
		return false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if r.err == nil && r.img == nil {
		r.err = errors.New("fetcher returned no image")
	}
	if r.err != nil {
		err := r.loadErr()
		c.status = Status{State: LoadFailed, Message: MessageLoadFailed, Source: r.url, Gen: r.gen, Err: err}
		c.log.Warn("load failed", "url", r.url, "err", r.err)
		return true
	}
	c.status = Status{State: LoadReady, Source: r.url, Gen: r.gen}
	c.installBackground(NewBackgroundImage(r.img, r.url))
	return true
}

// Status returns the loading indicator and message state.
func (c *Canvas) Status() Status {
	return c.status
}

// pendingLoads returns the number of started loads not yet drained.
func (c *Canvas) pendingLoads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
