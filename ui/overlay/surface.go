package overlay

import (
	"image/color"

	"github.com/soocke/zone-guard-go/domain/geometry"
)

// Style describes how a polygon or marker is painted.
// A zero-alpha colour means "don't paint that part".
type Style struct {
	Stroke color.NRGBA
	Fill   color.NRGBA
	Width  float64
	Dash   []float64 // on/off lengths; empty draws a solid line
	Closed bool      // join the last point back to the first
}

// Surface is the drawing target the overlay paints on.
type Surface interface {
	// Clear resets the surface to a transparent w x h area.
	Clear(w, h int)
	DrawPolygon(pts []geometry.Point, style Style)
	DrawMarker(p geometry.Point, radius float64, style Style)
}

// Palette holds the styles used for each scene element.
type Palette struct {
	Marker       Style
	MarkerRadius float64
	Touch        Style
	Intrusion    Style
	Expanded     Style
	InProgress   Style
}

// DefaultPalette matches the dashboard colours: red markers, translucent
// zone fill, a yellow dashed margin outline.
func DefaultPalette() Palette {
	return Palette{
		Marker:       Style{Fill: color.NRGBA{R: 255, A: 255}},
		MarkerRadius: 5,
		Touch: Style{
			Stroke: color.NRGBA{R: 255, G: 140, A: 204},
			Fill:   color.NRGBA{R: 255, G: 140, A: 51},
			Width:  3,
			Closed: true,
		},
		Intrusion: Style{
			Stroke: color.NRGBA{R: 255, A: 204},
			Fill:   color.NRGBA{R: 255, A: 51},
			Width:  3,
			Closed: true,
		},
		Expanded: Style{
			Stroke: color.NRGBA{R: 255, G: 255, A: 204},
			Fill:   color.NRGBA{R: 255, G: 255, A: 26},
			Width:  2,
			Dash:   []float64{5, 5},
			Closed: true,
		},
		InProgress: Style{
			Stroke: color.NRGBA{R: 255, A: 255},
			Width:  2,
		},
	}
}
