package ebitenview

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/phanxgames/photomark"
)

func TestEditorReportsEachReadyLoad(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := photomark.NewCanvas(photomark.WithFetcher(photomark.FetcherFunc(
		func(context.Context, string) (image.Image, error) { return img, nil })))
	if err := c.Mount(photomark.NewRasterSurface(), photomark.Size{Width: 800, Height: 760}); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(c.Dispose)

	var ready []string
	e := NewEditor(c, Options{OnReady: func(src string) { ready = append(ready, src) }})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.LoadBackground(ctx, "https://x/a.jpg")
	if err := c.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	e.trackStatus()
	// The second load starts and finishes between two frames, so the state
	// never leaves Ready from the editor's point of view.
	c.LoadBackground(ctx, "https://x/b.jpg")
	if err := c.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	e.trackStatus()
	e.trackStatus()

	want := []string{"https://x/a.jpg", "https://x/b.jpg"}
	if len(ready) != len(want) {
		t.Fatalf("OnReady calls = %v, want %v", ready, want)
	}
	for i := range want {
		if ready[i] != want[i] {
			t.Errorf("OnReady[%d] = %q, want %q", i, ready[i], want[i])
		}
	}
}
