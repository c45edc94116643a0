package render

import "image/color"

// Panel geometry in landscape orientation.
const (
	PanelWidth  = 320
	PanelHeight = 170

	// BandRows is the height of one flush band; two band buffers are in flight.
	BandRows = 40
)

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
)
