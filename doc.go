// Package photomark is a retained-mode annotation canvas: a fetched photo is
// placed as a non-interactive background and text and vector shapes are
// layered on top, reordered, inspected and exported as a flattened raster.
//
// # Quick start
//
// A [Canvas] paints onto a [Surface]. [RasterSurface] is a headless surface
// backed by an *image.RGBA; the ebitenview subpackage provides an Ebitengine
// surface and an interactive editor.
//
//	c := photomark.NewCanvas()
//	c.Mount(photomark.NewRasterSurface(), photomark.Size{Width: 1280, Height: 860})
//	c.LoadBackground(ctx, "https://example.com/photo.jpg")
//	if err := c.Wait(ctx); err != nil {
//		// *LoadError
//	}
//	c.AddRectangle()
//	c.AddText()
//	exp, err := c.ExportRaster(photomark.ExportOptions{Format: photomark.FormatPNG, Multiplier: 2})
//
// # Stacking
//
// The background always paints first. Interactive objects paint in ascending
// [SceneObject.StackKey] order, ties broken by insertion order. New objects and
// [Canvas.BringToFront] take max(keys, 0)+1; [Canvas.SendBackward] takes
// min(keys, 0)-1. The background never takes part in that arithmetic.
//
// # Loading
//
// Background loads run on their own goroutine. Results are applied on the
// caller's goroutine by [Canvas.Update] (non-blocking, once per frame) or
// [Canvas.Wait]. Starting a new load supersedes the previous one: a late
// result for an older request is dropped.
//
// # Concurrency
//
// A Canvas is not safe for concurrent use. Drive it from one goroutine.
package photomark
