package presenter

import (
	"fmt"
	"log/slog"

	"github.com/soocke/zone-guard-go/domain/geometry"
	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/domain/zone"
	"github.com/soocke/zone-guard-go/ui/model"
	"github.com/soocke/zone-guard-go/ui/overlay"
)

// ZoneRow is one line of the zone listing.
type ZoneRow struct {
	ID        int64
	Name      string // "Zone N", 1-based insertion order
	Type      zone.Type
	TypeLabel string
}

// EmptyZonesText is shown by the listing when there are no zones.
const EmptyZonesText = "No zones configured"

// ZoneListView shows the zone listing. An empty slice means no zones.
type ZoneListView interface {
	SetZoneRows(rows []ZoneRow)
}

// CanvasView shows the freshly rendered overlay.
type CanvasView interface {
	RefreshCanvas()
}

// EditModeView reflects the edit toggle and the pending point count.
type EditModeView interface {
	SetEditMode(enabled bool, pending int)
}

// ZonePresenter turns pointer input and list actions into zone manager calls
// and keeps the overlay and listing in step with the collection.
type ZonePresenter struct {
	model   *model.EditorModel
	sync    *model.SyncModel
	overlay *overlay.Overlay
	canvas  CanvasView
	list    ZoneListView
	edit    EditModeView
	logger  *slog.Logger
}

// NewZonePresenter wires the presenter to the model's change notifications.
func NewZonePresenter(m *model.EditorModel, sync *model.SyncModel, ov *overlay.Overlay, canvas CanvasView, list ZoneListView, edit EditModeView, logger *slog.Logger) *ZonePresenter {
	p := &ZonePresenter{model: m, sync: sync, overlay: ov, canvas: canvas, list: list, edit: edit, logger: logger}
	if m != nil {
		m.Zones().OnChange(p.onChange)
	}
	return p
}

func (p *ZonePresenter) onChange(c zone.Change) {
	switch c.Kind {
	case zone.ZoneAdded, zone.ZoneDeleted, zone.TypeChanged:
		p.sync.MarkDirty()
	}
	if p.logger != nil {
		p.logger.Debug("zones changed", "kind", c.Kind.String(), "zone_id", c.ZoneID, "count", p.model.Zones().Len())
	}
	p.Render()
	if c.Kind != zone.PointAdded {
		p.refreshList()
	}
	if p.edit != nil {
		zs := p.model.Zones()
		p.edit.SetEditMode(zs.EditMode(), len(zs.Pending()))
	}
}

// Click handles a pointer press at client coordinates over the overlay.
func (p *ZonePresenter) Click(clientX, clientY float64, bounds overlay.Rect) {
	if p == nil || p.model == nil {
		return
	}
	pt := p.overlay.ToLogical(clientX, clientY, bounds)
	if z, ok := p.model.Zones().AddPoint(pt); ok && p.logger != nil {
		p.logger.Info("zone added", "zone_id", z.ID, "points", z.Points)
	}
}

// SetEditMode toggles point capture. Leaving edit mode drops unfinished points.
func (p *ZonePresenter) SetEditMode(enabled bool) {
	if p == nil || p.model == nil {
		return
	}
	p.model.Zones().SetEditMode(enabled)
}

// Delete removes a zone from the collection.
func (p *ZonePresenter) Delete(id int64) {
	if p == nil || p.model == nil {
		return
	}
	p.model.Zones().Delete(id)
}

// SetIntrusion sets a zone's type from the listing's per-row switch.
func (p *ZonePresenter) SetIntrusion(id int64, intrusion bool) {
	if p == nil || p.model == nil {
		return
	}
	t := zone.TypeTouch
	if intrusion {
		t = zone.TypeIntrusion
	}
	p.model.Zones().SetType(id, t)
}

// ToggleType flips a zone between touch and intrusion.
func (p *ZonePresenter) ToggleType(id int64) {
	if p == nil || p.model == nil {
		return
	}
	p.model.Zones().ToggleType(id)
}

// SetExpandPercent updates the expansion margin and redraws the preview.
func (p *ZonePresenter) SetExpandPercent(pct settings.ExpandPercent) {
	if p == nil || p.model == nil {
		return
	}
	if p.model.SetExpand(pct) {
		p.sync.MarkDirty()
		p.Render()
	}
}

// Resize sets the logical viewport and redraws when it changed, reporting
// whether it did. Stored points are left as they are.
func (p *ZonePresenter) Resize(w, h int) bool {
	if p == nil || p.overlay == nil || !p.overlay.SetViewport(w, h) {
		return false
	}
	if p.logger != nil {
		p.logger.Debug("viewport resized", "width", w, "height", h)
	}
	p.Render()
	return true
}

// Viewport returns the current logical canvas size.
func (p *ZonePresenter) Viewport() geometry.Size {
	if p == nil || p.overlay == nil {
		return geometry.Size{}
	}
	return p.overlay.Size()
}

// Render clears and redraws the whole overlay.
func (p *ZonePresenter) Render() {
	if p == nil || p.model == nil || p.overlay == nil {
		return
	}
	zs := p.model.Zones()
	p.overlay.Render(overlay.Scene{
		Zones:       zs.Zones(),
		Pending:     zs.Pending(),
		ExpandRatio: p.model.Expand().Fraction(),
	})
	if p.canvas != nil {
		p.canvas.RefreshCanvas()
	}
}

// Rows builds the listing for the current collection.
func (p *ZonePresenter) Rows() []ZoneRow {
	if p == nil || p.model == nil {
		return nil
	}
	zs := p.model.Zones().Zones()
	rows := make([]ZoneRow, len(zs))
	for i, z := range zs {
		rows[i] = ZoneRow{
			ID:        z.ID,
			Name:      fmt.Sprintf("Zone %d", i+1),
			Type:      z.Type,
			TypeLabel: z.Type.Label(),
		}
	}
	return rows
}

func (p *ZonePresenter) refreshList() {
	if p.list != nil {
		p.list.SetZoneRows(p.Rows())
	}
}

// Refresh redraws the overlay and rebuilds the listing.
func (p *ZonePresenter) Refresh() {
	if p == nil {
		return
	}
	p.Render()
	p.refreshList()
}
