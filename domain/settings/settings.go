// Package settings holds the detection and display parameters the editor
// sends to the inference backend, plus the expansion percentage.
package settings

import "math"

// Detection parameters consumed by the inference backend.
type Detection struct {
	Conf         float64 `json:"conf"`
	HeightLimit  int     `json:"height_limit"`
	ElbowAngle   int     `json:"elbow_angle"`
	ReachEnabled bool    `json:"reach_enabled"`
	FallEnabled  bool    `json:"fall_enabled"`
}

// DefaultDetection mirrors the backend's own defaults.
func DefaultDetection() Detection {
	return Detection{Conf: 0.5}
}

// Normalize clamps values to the ranges the backend accepts.
func (d *Detection) Normalize() {
	if math.IsNaN(d.Conf) || d.Conf < 0 {
		d.Conf = 0
	}
	if d.Conf > 1 {
		d.Conf = 1
	}
	if d.HeightLimit < 0 {
		d.HeightLimit = 0
	}
	if d.ElbowAngle < 0 {
		d.ElbowAngle = 0
	}
	if d.ElbowAngle > 180 {
		d.ElbowAngle = 180
	}
}

// Display toggles for the backend's annotated output stream.
type Display struct {
	DrawObjects   bool `json:"draw_objects"`
	DrawZones     bool `json:"draw_zones"`
	ShowOnlyAlert bool `json:"show_only_alert"`
}

func DefaultDisplay() Display {
	return Display{DrawObjects: true, DrawZones: true}
}

// ExpandPercent is the zone expansion margin in UI units (the slider shows
// 0..100). The wire carries it as a fraction.
type ExpandPercent int

// Fraction returns the ratio sent as expand_ratio.
func (p ExpandPercent) Fraction() float64 { return float64(p) / 100 }

// PercentFromFraction converts a stored expand_ratio back to slider units.
func PercentFromFraction(f float64) ExpandPercent {
	return ExpandPercent(math.Round(f * 100))
}
