// Package canvas implements [viewer.Canvas] for terminals and images.
//
// [Text] maps the overlay's pixel coordinates onto a grid of terminal cells
// and renders it with [charm.land/lipgloss/v2]. Text drawn by the overlay
// replaces the cells beneath it; untouched cells show the base layer set with
// [Text.SetBase], usually the host program's own view.
//
// [Image] paints the overlay onto an [*image.RGBA] with
// [golang.org/x/image/font/basicfont], for screenshots and tests:
//
//	img := canvas.NewImage(640, 480)
//	v.RenderProfile(img)
//	err := img.EncodePNG(f)
//
// Both use a [Palette] to turn [viewer.Style] values into colors.
package canvas
