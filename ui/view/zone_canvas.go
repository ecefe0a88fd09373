package view

import (
	"image"

	"github.com/soocke/zone-guard-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ZoneCanvas shows the rendered overlay and reports pointer presses in
// label coordinates. The image is anchored top-left so those coordinates are
// also image coordinates.
type ZoneCanvas interface {
	RefreshCanvas()
	Size() (int, int)
}

type zoneCanvas struct {
	label   *LabelWidget
	render  func() image.Image
	photo   *Img // current photo; deleted before replacement
	w, h    int
	onClick func(x, y float64)
}

// NewZoneCanvas creates the canvas label in parent at row. render supplies
// the current overlay image on each refresh.
func NewZoneCanvas(parent *FrameWidget, row int, render func() image.Image, onClick func(x, y float64)) ZoneCanvas {
	placeholder := image.NewRGBA(image.Rect(0, 0, 320, 180))
	photo := NewPhoto(Data(images.EncodePNG(placeholder)))
	lbl := Label(Image(photo), Anchor("nw"), Borderwidth(0), Relief("flat"))
	Grid(lbl, In(parent), Row(row), Column(0), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	v := &zoneCanvas{label: lbl, render: render, photo: photo, onClick: onClick}
	Bind(lbl, "<Button-1>", Command(func(e *Event) {
		if v.onClick != nil && e != nil {
			v.onClick(float64(e.X), float64(e.Y))
		}
	}))
	return v
}

// RefreshCanvas replaces the label image with a fresh render.
func (v *zoneCanvas) RefreshCanvas() {
	if v == nil || v.label == nil || v.render == nil {
		return
	}
	img := v.render()
	if img == nil {
		return
	}
	b := img.Bounds()
	v.w, v.h = b.Dx(), b.Dy()
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(images.EncodePNG(img)))
	v.label.Configure(Image(v.photo))
}

// Size returns the size of the last displayed image.
func (v *zoneCanvas) Size() (int, int) {
	if v == nil {
		return 0, 0
	}
	return v.w, v.h
}
