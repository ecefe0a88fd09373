// Package overlay translates pointer input into logical coordinates and
// renders the zone scene onto a Surface.
package overlay

import (
	"github.com/soocke/zone-guard-go/domain/geometry"
	"github.com/soocke/zone-guard-go/domain/zone"
)

// Rect is the on-screen bounding box of the overlay in client coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Scene is everything a render pass needs.
type Scene struct {
	Zones       []zone.Zone
	Pending     []geometry.Point
	ExpandRatio float64
}

// Overlay owns the logical viewport and redraws the whole scene on every
// Render call. It holds no zone state of its own.
type Overlay struct {
	surface Surface
	palette Palette
	width   int
	height  int
}

// New returns an Overlay drawing onto s with the default palette.
func New(s Surface) *Overlay {
	return &Overlay{surface: s, palette: DefaultPalette()}
}

// SetViewport sets the logical size. It reports whether the size changed so
// the caller knows to re-render. Non-positive sizes are ignored.
func (o *Overlay) SetViewport(w, h int) bool {
	if o == nil || w <= 0 || h <= 0 {
		return false
	}
	if w == o.width && h == o.height {
		return false
	}
	o.width, o.height = w, h
	return true
}

// Viewport returns the current logical size.
func (o *Overlay) Viewport() (w, h int) {
	if o == nil {
		return 0, 0
	}
	return o.width, o.height
}

// Size returns the viewport as a geometry.Size.
func (o *Overlay) Size() geometry.Size {
	w, h := o.Viewport()
	return geometry.Size{W: float64(w), H: float64(h)}
}

// ToLogical converts a client-space pointer position into overlay logical
// coordinates: the bounding-box origin is subtracted, then the offset is
// scaled when the displayed size differs from the logical one.
func (o *Overlay) ToLogical(clientX, clientY float64, bounds Rect) geometry.Point {
	x, y := clientX-bounds.X, clientY-bounds.Y
	if o == nil {
		return geometry.Point{X: x, Y: y}
	}
	if bounds.W > 0 && o.width > 0 && bounds.W != float64(o.width) {
		x *= float64(o.width) / bounds.W
	}
	if bounds.H > 0 && o.height > 0 && bounds.H != float64(o.height) {
		y *= float64(o.height) / bounds.H
	}
	return geometry.Point{X: x, Y: y}
}

// Render clears the surface and draws the full scene: finalized zones with
// their expanded margin, then the in-progress points.
func (o *Overlay) Render(sc Scene) {
	if o == nil || o.surface == nil {
		return
	}
	o.surface.Clear(o.width, o.height)
	for _, z := range sc.Zones {
		o.drawZone(z, sc.ExpandRatio)
	}
	o.drawPending(sc.Pending)
}

func (o *Overlay) drawZone(z zone.Zone, ratio float64) {
	pts := z.Points[:]
	o.drawMarkers(pts)
	style := o.palette.Touch
	if z.Type == zone.TypeIntrusion {
		style = o.palette.Intrusion
	}
	o.surface.DrawPolygon(pts, style)
	if ratio == 0 {
		return
	}
	exp := z.Expanded(ratio)
	o.surface.DrawPolygon(exp[:], o.palette.Expanded)
}

func (o *Overlay) drawPending(pts []geometry.Point) {
	if len(pts) == 0 {
		return
	}
	o.drawMarkers(pts)
	if len(pts) < 2 {
		return
	}
	style := o.palette.InProgress
	style.Closed = false
	o.surface.DrawPolygon(pts, style)
}

func (o *Overlay) drawMarkers(pts []geometry.Point) {
	for _, p := range pts {
		o.surface.DrawMarker(p, o.palette.MarkerRadius, o.palette.Marker)
	}
}
