package zone

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/zone-guard-go/domain/geometry"
)

func fixedIDs(v int64) IDSource { return func() int64 { return v } }

func squareClicks() []geometry.Point {
	return []geometry.Point{{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 110}, {X: 10, Y: 110}}
}

func TestManager_AddPointIgnoredOutsideEditMode(t *testing.T) {
	m := NewManager(fixedIDs(1))
	calls := 0
	m.OnChange(func(Change) { calls++ })
	for _, p := range squareClicks() {
		if _, ok := m.AddPoint(p); ok {
			t.Fatalf("zone created while edit mode off")
		}
	}
	if m.Len() != 0 || len(m.Pending()) != 0 || calls != 0 {
		t.Fatalf("expected no state change: zones=%d pending=%d calls=%d", m.Len(), len(m.Pending()), calls)
	}
}

func TestManager_FourClicksMakeTouchZone(t *testing.T) {
	m := NewManager(fixedIDs(42))
	m.SetEditMode(true)
	var kinds []ChangeKind
	m.OnChange(func(c Change) { kinds = append(kinds, c.Kind) })

	clicks := squareClicks()
	for i, p := range clicks[:3] {
		_, ok := m.AddPoint(p)
		require.False(t, ok)
		require.Len(t, m.Pending(), i+1)
	}
	z, ok := m.AddPoint(clicks[3])
	require.True(t, ok)
	assert.Equal(t, int64(42), z.ID)
	assert.Equal(t, TypeTouch, z.Type)
	assert.Empty(t, m.Pending())
	require.Equal(t, 1, m.Len())

	if diff := cmp.Diff(clicks, m.Zones()[0].Points[:]); diff != "" {
		t.Fatalf("zone points (-want +got):\n%s", diff)
	}
	assert.Equal(t, []ChangeKind{PointAdded, PointAdded, PointAdded, ZoneAdded}, kinds)
}

func TestManager_BufferNeverExceedsThree(t *testing.T) {
	m := NewManager(nil)
	m.SetEditMode(true)
	for i := 0; i < 25; i++ {
		before := m.Len()
		_, created := m.AddPoint(geometry.Point{X: float64(i), Y: float64(i * 2)})
		n := len(m.Pending())
		if n > 3 {
			t.Fatalf("buffer length %d after click %d", n, i)
		}
		if created && (n != 0 || m.Len() != before+1) {
			t.Fatalf("finalize must empty buffer and add one zone: pending=%d zones=%d->%d", n, before, m.Len())
		}
	}
	if m.Len() != 6 || len(m.Pending()) != 1 {
		t.Fatalf("expected 6 zones + 1 pending, got %d + %d", m.Len(), len(m.Pending()))
	}
}

func TestManager_IDsUniqueWithStuckClock(t *testing.T) {
	m := NewManager(fixedIDs(1000))
	m.SetEditMode(true)
	seen := map[int64]bool{}
	for i := 0; i < 3; i++ {
		for _, p := range squareClicks() {
			if z, ok := m.AddPoint(p); ok {
				if seen[z.ID] {
					t.Fatalf("duplicate id %d", z.ID)
				}
				seen[z.ID] = true
			}
		}
	}
	assert.Len(t, seen, 3)
	assert.True(t, seen[1000] && seen[1001] && seen[1002])
}

func TestManager_IDsStayAboveReplacedZones(t *testing.T) {
	m := NewManager(fixedIDs(5))
	m.ReplaceAll([]Zone{{ID: 900}})
	m.SetEditMode(true)
	var z Zone
	for _, p := range squareClicks() {
		z, _ = m.AddPoint(p)
	}
	assert.Equal(t, int64(901), z.ID)
}

func TestManager_EditModeOffClearsBufferOnly(t *testing.T) {
	m := NewManager(fixedIDs(1))
	m.SetEditMode(true)
	for _, p := range squareClicks() {
		m.AddPoint(p)
	}
	m.AddPoint(geometry.Point{X: 1, Y: 1})
	m.AddPoint(geometry.Point{X: 2, Y: 2})
	m.SetEditMode(false)
	assert.False(t, m.EditMode())
	assert.Empty(t, m.Pending())
	assert.Equal(t, 1, m.Len())
}

func TestManager_DeleteAbsentIsNoop(t *testing.T) {
	m := NewManager(nil)
	zones := []Zone{{ID: 1}, {ID: 2, Type: TypeIntrusion}}
	m.ReplaceAll(zones)
	m.Delete(99)
	if diff := cmp.Diff(zones, m.Zones()); diff != "" {
		t.Fatalf("delete of absent id changed collection:\n%s", diff)
	}
	m.Delete(1)
	require.Equal(t, 1, m.Len())
	assert.Equal(t, int64(2), m.Zones()[0].ID)
}

func TestManager_ToggleTwiceRestores(t *testing.T) {
	m := NewManager(nil)
	m.ReplaceAll([]Zone{{ID: 7}})
	m.ToggleType(7)
	z, _ := m.Get(7)
	assert.Equal(t, TypeIntrusion, z.Type)
	m.ToggleType(7)
	z, _ = m.Get(7)
	assert.Equal(t, TypeTouch, z.Type)

	m.ToggleType(8)
	m.SetType(8, TypeIntrusion)
	assert.Equal(t, 1, m.Len())
}

func TestManager_ReplaceAllClearsBuffer(t *testing.T) {
	m := NewManager(nil)
	m.SetEditMode(true)
	m.AddPoint(geometry.Point{X: 3, Y: 4})
	var got []ChangeKind
	m.OnChange(func(c Change) { got = append(got, c.Kind) })
	m.ReplaceAll(nil)
	assert.Empty(t, m.Pending())
	assert.Zero(t, m.Len())
	assert.Equal(t, []ChangeKind{Replaced}, got)
}

func TestManager_ZonesReturnsCopy(t *testing.T) {
	m := NewManager(nil)
	m.ReplaceAll([]Zone{{ID: 1}})
	zs := m.Zones()
	zs[0].Type = TypeIntrusion
	z, _ := m.Get(1)
	if z.Type != TypeTouch {
		t.Fatalf("caller mutation leaked into manager")
	}
}

func TestManager_NilSafe(t *testing.T) {
	var m *Manager
	m.SetEditMode(true)
	m.Delete(1)
	m.ReplaceAll(nil)
	if _, ok := m.AddPoint(geometry.Point{}); ok || m.Len() != 0 || m.Zones() != nil {
		t.Fatalf("nil manager should be inert")
	}
}

func TestZone_JSONRoundTripAndValidation(t *testing.T) {
	in := `{"id":3,"points":[{"x":1,"y":2},{"x":3,"y":4},{"x":5,"y":6},{"x":7,"y":8}],"type":"intrusion"}`
	var z Zone
	require.NoError(t, json.Unmarshal([]byte(in), &z))
	assert.Equal(t, TypeIntrusion, z.Type)
	assert.Equal(t, geometry.Point{X: 7, Y: 8}, z.Points[3])

	out, err := json.Marshal(z)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	err = json.Unmarshal([]byte(`{"id":1,"points":[{"x":1,"y":1}]}`), &z)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPointCount))

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"points":[{},{},{},{}],"type":"weird"}`), &z))
	assert.Equal(t, TypeTouch, z.Type)
}

func TestZone_Centroid(t *testing.T) {
	z := Zone{Points: [4]geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}
	assert.Equal(t, geometry.Point{X: 5, Y: 5}, z.Centroid())
}
