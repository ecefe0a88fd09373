package overlay

import "github.com/soocke/zone-guard-go/domain/geometry"

// OpKind identifies a recorded surface call.
type OpKind int

const (
	OpClear OpKind = iota
	OpPolygon
	OpMarker
)

// Op is one recorded drawing call.
type Op struct {
	Kind   OpKind
	W, H   int
	Points []geometry.Point
	Radius float64
	Style  Style
}

// RecordingSurface keeps the calls made since the last Clear.
type RecordingSurface struct {
	Ops    []Op
	Clears int
}

func (r *RecordingSurface) Clear(w, h int) {
	r.Clears++
	r.Ops = []Op{{Kind: OpClear, W: w, H: h}}
}

func (r *RecordingSurface) DrawPolygon(pts []geometry.Point, style Style) {
	cp := make([]geometry.Point, len(pts))
	copy(cp, pts)
	r.Ops = append(r.Ops, Op{Kind: OpPolygon, Points: cp, Style: style})
}

func (r *RecordingSurface) DrawMarker(p geometry.Point, radius float64, style Style) {
	r.Ops = append(r.Ops, Op{Kind: OpMarker, Points: []geometry.Point{p}, Radius: radius, Style: style})
}

// Polygons returns the recorded polygon calls.
func (r *RecordingSurface) Polygons() []Op { return r.filter(OpPolygon) }

// Markers returns the recorded marker calls.
func (r *RecordingSurface) Markers() []Op { return r.filter(OpMarker) }

// DashedPolygons returns polygon calls drawn with a dash pattern.
func (r *RecordingSurface) DashedPolygons() []Op {
	var out []Op
	for _, op := range r.Polygons() {
		if len(op.Style.Dash) > 0 {
			out = append(out, op)
		}
	}
	return out
}

func (r *RecordingSurface) filter(k OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}
