package canvas

import (
	"image/color"

	"go.jacobcolvin.com/profview/viewer"
)

// Ink is how one [viewer.Style] is painted. A nil color leaves whatever is
// underneath.
type Ink struct {
	Foreground color.Color
	Background color.Color
	Bold       bool
}

// Palette maps overlay styles to inks.
type Palette map[viewer.Style]Ink

// DefaultPalette returns light text on a translucent dark panel.
func DefaultPalette() Palette {
	return Palette{
		viewer.StyleBackground: {Background: color.RGBA{R: 0x10, G: 0x12, B: 0x1a, A: 0xd0}},
		viewer.StyleTitle:      {Foreground: color.RGBA{R: 0xf5, G: 0xc2, B: 0x4c, A: 0xff}, Bold: true},
		viewer.StyleHeader:     {Foreground: color.RGBA{R: 0x7d, G: 0xcf, B: 0xff, A: 0xff}, Bold: true},
		viewer.StyleRow:        {Foreground: color.RGBA{R: 0xd8, G: 0xd8, B: 0xd8, A: 0xff}},
		viewer.StyleHighlight:  {Foreground: color.RGBA{R: 0xff, G: 0x6b, B: 0x5b, A: 0xff}},
		viewer.StyleSelected: {
			Foreground: color.RGBA{R: 0x10, G: 0x12, B: 0x1a, A: 0xff},
			Background: color.RGBA{R: 0xa6, G: 0xe2, B: 0x2e, A: 0xe0},
		},
		viewer.StyleHint: {Foreground: color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}},
	}
}

// Ink returns the ink for s, falling back to the row ink.
func (p Palette) Ink(s viewer.Style) Ink {
	if ink, ok := p[s]; ok {
		return ink
	}

	return p[viewer.StyleRow]
}
