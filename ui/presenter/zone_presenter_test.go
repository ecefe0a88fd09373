package presenter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/soocke/zone-guard-go/domain/geometry"
	"github.com/soocke/zone-guard-go/domain/zone"
	"github.com/soocke/zone-guard-go/ui/overlay"
)

func TestZonePresenter_FourClicksCreateTouchZone(t *testing.T) {
	h := newHarness(inlineDispatcher())
	h.zones.SetEditMode(true)
	h.clickSquare()

	zs := h.editor.Zones().Zones()
	if len(zs) != 1 {
		t.Fatalf("expected one zone, got %d", len(zs))
	}
	want := [4]geometry.Point{{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 110}, {X: 10, Y: 110}}
	if diff := cmp.Diff(want, zs[0].Points); diff != "" {
		t.Fatalf("zone points (-want +got):\n%s", diff)
	}
	if zs[0].Type != zone.TypeTouch {
		t.Fatalf("new zones must be touch, got %v", zs[0].Type)
	}
	if len(h.list.rows) != 1 || h.list.rows[0].Name != "Zone 1" || h.list.rows[0].TypeLabel != "No touch (hands)" {
		t.Fatalf("unexpected listing: %+v", h.list.rows)
	}
	if h.canvas.refreshes < 4 {
		t.Fatalf("each click should re-render, got %d refreshes", h.canvas.refreshes)
	}
	if h.edit.pending != 0 || !h.edit.enabled {
		t.Fatalf("edit view: enabled=%v pending=%d", h.edit.enabled, h.edit.pending)
	}
	if !h.syncM.Dirty() {
		t.Fatalf("new zone should mark state dirty")
	}
}

func TestZonePresenter_ClicksIgnoredOutsideEditMode(t *testing.T) {
	h := newHarness(inlineDispatcher())
	h.clickSquare()
	if h.editor.Zones().Len() != 0 || len(h.editor.Zones().Pending()) != 0 {
		t.Fatalf("clicks outside edit mode must be ignored")
	}
}

func TestZonePresenter_ClickScalesToLogical(t *testing.T) {
	h := newHarness(inlineDispatcher())
	h.zones.SetEditMode(true)
	// Overlay shown at half size, offset by (100, 50).
	h.zones.Click(105, 55, overlay.Rect{X: 100, Y: 50, W: 320, H: 240})
	got := h.editor.Zones().Pending()
	if len(got) != 1 || got[0] != (geometry.Point{X: 10, Y: 10}) {
		t.Fatalf("unexpected logical point %+v", got)
	}
	if h.edit.pending != 1 {
		t.Fatalf("edit view should show one pending point, got %d", h.edit.pending)
	}
}

func TestZonePresenter_LeavingEditModeDropsBuffer(t *testing.T) {
	h := newHarness(inlineDispatcher())
	h.zones.SetEditMode(true)
	h.zones.Click(1, 1, overlay.Rect{W: 640, H: 480})
	h.zones.Click(2, 2, overlay.Rect{W: 640, H: 480})
	h.zones.SetEditMode(false)
	if n := len(h.editor.Zones().Pending()); n != 0 {
		t.Fatalf("pending should be empty, got %d", n)
	}
	if len(h.rec.Markers()) != 0 {
		t.Fatalf("discarded points must not be drawn")
	}
}

func TestZonePresenter_ToggleAndDelete(t *testing.T) {
	h := newHarness(inlineDispatcher())
	h.editor.Zones().ReplaceAll([]zone.Zone{{ID: 1}, {ID: 2}})
	h.zones.SetIntrusion(2, true)
	if h.list.rows[1].Type != zone.TypeIntrusion || h.list.rows[1].TypeLabel != "No intrusion (full body)" {
		t.Fatalf("row not updated: %+v", h.list.rows[1])
	}
	h.zones.ToggleType(2)
	h.zones.ToggleType(2)
	if z, _ := h.editor.Zones().Get(2); z.Type != zone.TypeIntrusion {
		t.Fatalf("double toggle should restore type")
	}

	before := h.editor.Zones().Zones()
	h.zones.Delete(99)
	if diff := cmp.Diff(before, h.editor.Zones().Zones()); diff != "" {
		t.Fatalf("deleting unknown id changed zones:\n%s", diff)
	}
	h.zones.Delete(1)
	if len(h.list.rows) != 1 || h.list.rows[0].Name != "Zone 1" || h.list.rows[0].ID != 2 {
		t.Fatalf("listing should renumber after delete: %+v", h.list.rows)
	}
}

func TestZonePresenter_ReplaceAllEmptyClearsOverlayAndList(t *testing.T) {
	h := newHarness(inlineDispatcher())
	h.editor.Zones().ReplaceAll([]zone.Zone{{ID: 1}})
	h.zones.SetExpandPercent(30)
	h.editor.Zones().ReplaceAll(nil)
	if len(h.rec.Polygons()) != 0 || len(h.rec.Markers()) != 0 {
		t.Fatalf("expected no outlines after emptying, got %d polygons", len(h.rec.Polygons()))
	}
	if len(h.list.rows) != 0 {
		t.Fatalf("listing should be empty, got %+v", h.list.rows)
	}
}

func TestZonePresenter_ExpandPreview(t *testing.T) {
	h := newHarness(inlineDispatcher())
	h.editor.Zones().ReplaceAll([]zone.Zone{{ID: 1, Points: [4]geometry.Point{{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 110}, {X: 10, Y: 110}}}})
	if len(h.rec.DashedPolygons()) != 0 {
		t.Fatalf("zero margin must not draw a dashed outline")
	}
	h.zones.SetExpandPercent(20)
	d := h.rec.DashedPolygons()
	if len(d) != 1 || d[0].Points[0] != (geometry.Point{X: 0, Y: 0}) {
		t.Fatalf("unexpected dashed outline %+v", d)
	}
}

func TestZonePresenter_ResizeRedraws(t *testing.T) {
	h := newHarness(inlineDispatcher())
	before := h.canvas.refreshes
	if !h.zones.Resize(800, 600) {
		t.Fatalf("resize should report change")
	}
	if h.canvas.refreshes != before+1 {
		t.Fatalf("resize should re-render once")
	}
	if h.zones.Resize(800, 600) {
		t.Fatalf("same size should not report change")
	}
	if v := h.zones.Viewport(); v.W != 800 || v.H != 600 {
		t.Fatalf("viewport %+v", v)
	}
}
