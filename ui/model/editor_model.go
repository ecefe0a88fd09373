package model

import (
	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/domain/zone"
)

// EditorModel is the editor's single state object: the zone collection plus
// the settings that travel with it. It lives on the UI thread only.
type EditorModel struct {
	zones     *zone.Manager
	detection settings.Detection
	display   settings.Display
	expand    settings.ExpandPercent
}

// NewEditorModel wraps zones (a fresh manager when nil) with default settings.
func NewEditorModel(zones *zone.Manager) *EditorModel {
	if zones == nil {
		zones = zone.NewManager(nil)
	}
	return &EditorModel{
		zones:     zones,
		detection: settings.DefaultDetection(),
		display:   settings.DefaultDisplay(),
	}
}

// Zones exposes the zone manager.
func (m *EditorModel) Zones() *zone.Manager {
	if m == nil {
		return nil
	}
	return m.zones
}

func (m *EditorModel) Detection() settings.Detection {
	if m == nil {
		return settings.DefaultDetection()
	}
	return m.detection
}

// SetDetection stores d after clamping it.
func (m *EditorModel) SetDetection(d settings.Detection) {
	if m == nil {
		return
	}
	d.Normalize()
	m.detection = d
}

func (m *EditorModel) Display() settings.Display {
	if m == nil {
		return settings.DefaultDisplay()
	}
	return m.display
}

func (m *EditorModel) SetDisplay(d settings.Display) {
	if m != nil {
		m.display = d
	}
}

// Expand returns the expansion margin in slider units.
func (m *EditorModel) Expand() settings.ExpandPercent {
	if m == nil {
		return 0
	}
	return m.expand
}

// SetExpand stores p and reports whether it changed.
func (m *EditorModel) SetExpand(p settings.ExpandPercent) bool {
	if m == nil || m.expand == p {
		return false
	}
	m.expand = p
	return true
}

// Reset restores default settings and empties the zone collection, as the
// backend does for a freshly uploaded source.
func (m *EditorModel) Reset() {
	if m == nil {
		return
	}
	m.detection = settings.DefaultDetection()
	m.display = settings.DefaultDisplay()
	m.expand = 0
	m.zones.ReplaceAll(nil)
}
