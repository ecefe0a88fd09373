package overlay

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/soocke/zone-guard-go/domain/geometry"
	"github.com/soocke/zone-guard-go/ui/images"
)

// markerSegments is the polygon resolution used to approximate circles.
const markerSegments = 24

// RasterSurface paints into an RGBA image using an anti-aliasing vector
// rasterizer. An optional backdrop frame is scaled underneath on Clear.
type RasterSurface struct {
	img      *image.RGBA
	backdrop image.Image
	r        *vector.Rasterizer
}

// NewRasterSurface returns an empty surface. Call Clear before drawing.
func NewRasterSurface() *RasterSurface {
	return &RasterSurface{img: image.NewRGBA(image.Rect(0, 0, 1, 1))}
}

// SetBackdrop sets the frame painted beneath the zones on the next Clear.
func (s *RasterSurface) SetBackdrop(img image.Image) { s.backdrop = img }

// Image returns the current canvas. The pointer is replaced on resize.
func (s *RasterSurface) Image() *image.RGBA { return s.img }

// PNG encodes the current canvas.
func (s *RasterSurface) PNG() []byte { return images.EncodePNG(s.img) }

func (s *RasterSurface) Clear(w, h int) {
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	if b := s.img.Bounds(); b.Dx() != w || b.Dy() != h {
		s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}
	if s.backdrop != nil {
		draw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), s.backdrop, s.backdrop.Bounds(), draw.Src, nil)
	}
}

func (s *RasterSurface) DrawPolygon(pts []geometry.Point, st Style) {
	if len(pts) == 0 {
		return
	}
	if st.Closed && len(pts) >= 3 && st.Fill.A > 0 {
		s.fillPath(pts, st.Fill)
	}
	if st.Stroke.A == 0 || st.Width <= 0 || len(pts) < 2 {
		return
	}
	segs := edges(pts, st.Closed)
	if len(st.Dash) > 0 {
		segs = dashed(segs, st.Dash)
	}
	for _, sg := range segs {
		s.strokeSegment(sg[0], sg[1], st.Width, st.Stroke)
	}
}

func (s *RasterSurface) DrawMarker(p geometry.Point, radius float64, st Style) {
	if radius <= 0 {
		return
	}
	circle := make([]geometry.Point, markerSegments)
	for i := range circle {
		a := 2 * math.Pi * float64(i) / markerSegments
		circle[i] = geometry.Point{X: p.X + radius*math.Cos(a), Y: p.Y + radius*math.Sin(a)}
	}
	if st.Fill.A > 0 {
		s.fillPath(circle, st.Fill)
	}
	if st.Stroke.A > 0 && st.Width > 0 {
		for _, sg := range edges(circle, true) {
			s.strokeSegment(sg[0], sg[1], st.Width, st.Stroke)
		}
	}
}

func (s *RasterSurface) rasterizer() *vector.Rasterizer {
	b := s.img.Bounds()
	if s.r == nil {
		s.r = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		s.r.Reset(b.Dx(), b.Dy())
	}
	s.r.DrawOp = draw.Over
	return s.r
}

func (s *RasterSurface) fillPath(pts []geometry.Point, c color.NRGBA) {
	r := s.rasterizer()
	r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{})
}

// strokeSegment fills the rectangle of the given width centred on a-b.
// Each segment is rasterized on its own so overlapping joins never cancel
// out under the winding rule.
func (s *RasterSurface) strokeSegment(a, b geometry.Point, width float64, c color.NRGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	quad := []geometry.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}
	s.fillPath(quad, c)
}

type segment [2]geometry.Point

func edges(pts []geometry.Point, closed bool) []segment {
	out := make([]segment, 0, len(pts))
	for i := 1; i < len(pts); i++ {
		out = append(out, segment{pts[i-1], pts[i]})
	}
	if closed && len(pts) > 2 {
		out = append(out, segment{pts[len(pts)-1], pts[0]})
	}
	return out
}

// dashed splits segments into the "on" runs of pattern. The pattern phase
// carries across segment boundaries like a canvas line dash.
func dashed(segs []segment, pattern []float64) []segment {
	total := 0.0
	for _, v := range pattern {
		if v < 0 {
			return segs
		}
		total += v
	}
	if total == 0 {
		return segs
	}
	var out []segment
	idx, left, on := 0, pattern[0], true
	for _, sg := range segs {
		a, b := sg[0], sg[1]
		l := math.Hypot(b.X-a.X, b.Y-a.Y)
		pos := 0.0
		for pos < l {
			step := math.Min(left, l-pos)
			if on && step > 0 {
				out = append(out, segment{lerp(a, b, pos/l), lerp(a, b, (pos+step)/l)})
			}
			pos += step
			left -= step
			if left <= 0 {
				idx = (idx + 1) % len(pattern)
				left = pattern[idx]
				on = !on
			}
		}
	}
	return out
}

func lerp(a, b geometry.Point, t float64) geometry.Point {
	return geometry.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
