package zone

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/soocke/zone-guard-go/domain/geometry"
)

// PointsPerZone is the fixed vertex count of every zone.
const PointsPerZone = 4

// Type enumerates the restriction applied inside a zone.
type Type int

const (
	TypeTouch Type = iota
	TypeIntrusion
)

func (t Type) String() string {
	switch t {
	case TypeIntrusion:
		return "intrusion"
	default:
		return "touch"
	}
}

// Label returns the operator-facing description used by the zone listing.
func (t Type) Label() string {
	if t == TypeIntrusion {
		return "No intrusion (full body)"
	}
	return "No touch (hands)"
}

// Toggle returns the other type.
func (t Type) Toggle() Type {
	if t == TypeIntrusion {
		return TypeTouch
	}
	return TypeIntrusion
}

// ParseType maps the wire name to a Type. Unknown names fall back to touch,
// matching how the detector treats zones without a type.
func ParseType(s string) Type {
	if s == "intrusion" {
		return TypeIntrusion
	}
	return TypeTouch
}

func (t Type) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("zone type: %w", err)
	}
	*t = ParseType(s)
	return nil
}

// Zone is a finalized quadrilateral region. ID and Points never change after
// creation; Type may be toggled.
type Zone struct {
	ID     int64                         `json:"id"`
	Points [PointsPerZone]geometry.Point `json:"points"`
	Type   Type                          `json:"type"`
}

// ErrPointCount is returned when decoding a zone whose point list is not exactly four long.
var ErrPointCount = errors.New("zone must have exactly 4 points")

// UnmarshalJSON rejects point lists of the wrong length instead of silently
// truncating or padding them.
func (z *Zone) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID     int64            `json:"id"`
		Points []geometry.Point `json:"points"`
		Type   Type             `json:"type"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw.Points) != PointsPerZone {
		return fmt.Errorf("zone %d: got %d points: %w", raw.ID, len(raw.Points), ErrPointCount)
	}
	z.ID = raw.ID
	z.Type = raw.Type
	copy(z.Points[:], raw.Points)
	return nil
}

// Centroid returns the zone's centroid.
func (z Zone) Centroid() geometry.Point { return geometry.CentroidQuad(z.Points) }

// Expanded returns the zone's points scaled about the centroid by ratio.
func (z Zone) Expanded(ratio float64) [PointsPerZone]geometry.Point {
	return geometry.ExpandQuad(z.Points, ratio)
}

// Rescaled returns a copy of z with its points mapped from one viewport to another.
func (z Zone) Rescaled(from, to geometry.Size) Zone {
	out := z
	copy(out.Points[:], geometry.Rescale(z.Points[:], from, to))
	return out
}
