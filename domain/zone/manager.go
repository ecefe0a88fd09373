// Package zone owns the zone collection and the in-progress point buffer.
//
// Manager is not synchronized: every call is expected to come from the UI
// thread, one handler at a time.
package zone

import (
	"time"

	"github.com/soocke/zone-guard-go/domain/geometry"
)

// ChangeKind describes which mutation produced a Change.
type ChangeKind int

const (
	PointAdded ChangeKind = iota + 1
	ZoneAdded
	ZoneDeleted
	TypeChanged
	Replaced
	EditModeChanged
)

func (k ChangeKind) String() string {
	switch k {
	case PointAdded:
		return "point_added"
	case ZoneAdded:
		return "zone_added"
	case ZoneDeleted:
		return "zone_deleted"
	case TypeChanged:
		return "type_changed"
	case Replaced:
		return "replaced"
	case EditModeChanged:
		return "edit_mode_changed"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after every mutating call.
type Change struct {
	Kind   ChangeKind
	ZoneID int64 // zero unless the change targets one zone
}

// Listener is invoked synchronously after a mutation has been applied.
type Listener func(Change)

// IDSource produces candidate zone ids. Manager guarantees uniqueness on top
// of it, so a clock is good enough.
type IDSource func() int64

// ClockIDs returns an IDSource yielding Unix milliseconds from now.
func ClockIDs(now func() time.Time) IDSource {
	if now == nil {
		now = time.Now
	}
	return func() int64 { return now().UnixMilli() }
}

// Manager holds the finalized zones (insertion order), the pending point
// buffer and the edit-mode flag. The zero value is usable.
type Manager struct {
	zones     []Zone
	pending   []geometry.Point
	editMode  bool
	ids       IDSource
	lastID    int64
	listeners []Listener
}

// NewManager returns a Manager drawing ids from ids (clock based when nil).
func NewManager(ids IDSource) *Manager {
	return &Manager{ids: ids}
}

// OnChange registers a listener. Listeners run in registration order.
func (m *Manager) OnChange(l Listener) {
	if m == nil || l == nil {
		return
	}
	m.listeners = append(m.listeners, l)
}

func (m *Manager) notify(c Change) {
	for _, l := range m.listeners {
		l(c)
	}
}

// EditMode reports whether clicks currently accumulate points.
func (m *Manager) EditMode() bool {
	if m == nil {
		return false
	}
	return m.editMode
}

// SetEditMode toggles point capture. Turning it off discards the pending
// buffer; finalized zones are never touched.
func (m *Manager) SetEditMode(enabled bool) {
	if m == nil {
		return
	}
	m.editMode = enabled
	if !enabled {
		m.pending = nil
	}
	m.notify(Change{Kind: EditModeChanged})
}

// AddPoint appends p to the pending buffer while edit mode is on. The fourth
// point finalizes a touch zone and empties the buffer in the same call.
// It returns the new zone and true when one was created.
func (m *Manager) AddPoint(p geometry.Point) (Zone, bool) {
	if m == nil || !m.editMode {
		return Zone{}, false
	}
	m.pending = append(m.pending, p)
	if len(m.pending) < PointsPerZone {
		m.notify(Change{Kind: PointAdded})
		return Zone{}, false
	}
	z := Zone{ID: m.nextID(), Type: TypeTouch}
	copy(z.Points[:], m.pending)
	m.pending = nil
	m.zones = append(m.zones, z)
	m.notify(Change{Kind: ZoneAdded, ZoneID: z.ID})
	return z, true
}

func (m *Manager) nextID() int64 {
	src := m.ids
	if src == nil {
		src = ClockIDs(nil)
	}
	id := src()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

// Delete removes the zone with the given id. Unknown ids are ignored.
func (m *Manager) Delete(id int64) {
	if m == nil {
		return
	}
	for i, z := range m.zones {
		if z.ID == id {
			m.zones = append(m.zones[:i:i], m.zones[i+1:]...)
			break
		}
	}
	m.notify(Change{Kind: ZoneDeleted, ZoneID: id})
}

// SetType changes the type of an existing zone. Unknown ids are ignored.
func (m *Manager) SetType(id int64, t Type) {
	if m == nil {
		return
	}
	for i := range m.zones {
		if m.zones[i].ID == id {
			m.zones[i].Type = t
			break
		}
	}
	m.notify(Change{Kind: TypeChanged, ZoneID: id})
}

// ToggleType flips a zone between touch and intrusion.
func (m *Manager) ToggleType(id int64) {
	if m == nil {
		return
	}
	if z, ok := m.Get(id); ok {
		m.SetType(id, z.Type.Toggle())
	}
}

// ReplaceAll swaps in a new collection wholesale and drops the pending buffer.
func (m *Manager) ReplaceAll(zones []Zone) {
	if m == nil {
		return
	}
	m.zones = make([]Zone, len(zones))
	copy(m.zones, zones)
	for _, z := range m.zones {
		if z.ID > m.lastID {
			m.lastID = z.ID
		}
	}
	m.pending = nil
	m.notify(Change{Kind: Replaced})
}

// Get returns the zone with id.
func (m *Manager) Get(id int64) (Zone, bool) {
	if m == nil {
		return Zone{}, false
	}
	for _, z := range m.zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

// Zones returns a copy of the finalized zones in insertion order.
func (m *Manager) Zones() []Zone {
	if m == nil {
		return nil
	}
	out := make([]Zone, len(m.zones))
	copy(out, m.zones)
	return out
}

// Pending returns a copy of the in-progress buffer (0 to 3 points).
func (m *Manager) Pending() []geometry.Point {
	if m == nil {
		return nil
	}
	out := make([]geometry.Point, len(m.pending))
	copy(out, m.pending)
	return out
}

// Len returns the number of finalized zones.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.zones)
}
