package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"go.jacobcolvin.com/profview/viewer"
)

// Image is a [viewer.Canvas] that paints onto an RGBA image.
//
// Rectangles are composited over existing pixels, so translucent palette
// colors blend with whatever the image already holds. Text uses a fixed
// 7x13 bitmap font, vertically centered in the line height.
//
// Create instances with [NewImage].
type Image struct {
	img        *image.RGBA
	face       font.Face
	palette    Palette
	lineHeight int
}

// ImageOption configures an [Image].
type ImageOption func(*Image)

// WithImagePalette sets the colors used for each style.
func WithImagePalette(p Palette) ImageOption {
	return func(i *Image) {
		i.palette = p
	}
}

// WithLineHeight sets the line height text is centered in. It should match
// the viewer's [viewer.Layout.LineHeight].
func WithLineHeight(h int) ImageOption {
	return func(i *Image) {
		if h > 0 {
			i.lineHeight = h
		}
	}
}

// NewImage creates a transparent w x h [Image].
func NewImage(w, h int, opts ...ImageOption) *Image {
	i := &Image{
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		face:       basicfont.Face7x13,
		palette:    DefaultPalette(),
		lineHeight: viewer.DefaultLayout().LineHeight,
	}
	for _, opt := range opts {
		opt(i)
	}

	return i
}

// RGBA returns the underlying image.
func (i *Image) RGBA() *image.RGBA {
	return i.img
}

// Paint fills the whole image with c, replacing its contents.
func (i *Image) Paint(c color.Color) {
	draw.Draw(i.img, i.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect implements [viewer.Canvas] with the style's background color.
func (i *Image) FillRect(r image.Rectangle, s viewer.Style) {
	bg := i.palette.Ink(s).Background
	if bg == nil {
		return
	}

	draw.Draw(i.img, r.Intersect(i.img.Bounds()), image.NewUniform(bg), image.Point{}, draw.Over)
}

// DrawText implements [viewer.Canvas] with the style's foreground color.
func (i *Image) DrawText(x, y int, text string, s viewer.Style) {
	ink := i.palette.Ink(s)
	if ink.Foreground == nil || text == "" {
		return
	}

	m := i.face.Metrics()
	pad := max((i.lineHeight-m.Height.Ceil())/2, 0)

	d := font.Drawer{
		Dst:  i.img,
		Src:  image.NewUniform(ink.Foreground),
		Face: i.face,
		Dot:  fixed.P(x, y+pad+m.Ascent.Ceil()),
	}
	d.DrawString(text)

	if ink.Bold {
		d.Dot = fixed.P(x+1, y+pad+m.Ascent.Ceil())
		d.DrawString(text)
	}
}

// EncodePNG writes the image to w as PNG.
func (i *Image) EncodePNG(w io.Writer) error {
	err := png.Encode(w, i.img)
	if err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	return nil
}
