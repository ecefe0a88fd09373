package remote

import (
	"encoding/json"

	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/domain/zone"
)

// Endpoint paths served by the inference backend.
const (
	PathUpdateZones   = "/update_zones"
	PathDetectConfig  = "/update_detect_config"
	PathDisplayConfig = "/update_display_config"
	PathChangeSource  = "/change_source"
	PathUploadVideo   = "/upload_video"
	PathModelUpdate   = "/model_update"
	PathVideos        = "/get_videos"
	PathLogs          = "/get_logs"

	StatusSuccess = "success"
	StatusError   = "error"

	// RequestIDHeader carries a per-request uuid for log correlation.
	RequestIDHeader = "X-Request-ID"
)

// SourceKind tells the backend how to interpret a source string.
type SourceKind string

const (
	SourceWebcam SourceKind = "webcam"
	SourceURL    SourceKind = "url"
	SourceFile   SourceKind = "file"
)

// ZonesPayload is the body of /update_zones. ExpandRatio is a fraction.
type ZonesPayload struct {
	Zones        []zone.Zone `json:"zones"`
	ExpandRatio  float64     `json:"expand_ratio"`
	Conf         float64     `json:"conf"`
	CanvasWidth  int         `json:"canvas_width"`
	CanvasHeight int         `json:"canvas_height"`
}

type sourceRequest struct {
	Source string     `json:"source"`
	Type   SourceKind `json:"type"`
}

type modelRequest struct {
	Model string `json:"model"`
}

// Snapshot is a stored per-source configuration. Nil fields were absent on
// the wire and must be left untouched when applied.
type Snapshot struct {
	Zones         []zone.Zone `json:"zones"`
	ExpandRatio   *float64    `json:"expand_ratio,omitempty"`
	Conf          *float64    `json:"conf,omitempty"`
	HeightLimit   *int        `json:"height_limit,omitempty"`
	ElbowAngle    *int        `json:"elbow_angle,omitempty"`
	ReachEnabled  *bool       `json:"reach_enabled,omitempty"`
	FallEnabled   *bool       `json:"fall_enabled,omitempty"`
	DrawObjects   *bool       `json:"draw_objects,omitempty"`
	DrawZones     *bool       `json:"draw_zones,omitempty"`
	ShowOnlyAlert *bool       `json:"show_only_alert,omitempty"`
	CanvasSize    []int       `json:"canvas_size,omitempty"`

	// HasZones distinguishes "zones": [] from a missing key.
	HasZones bool `json:"-"`
}

// UnmarshalJSON records whether the zones key was present and non-null.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	type plain Snapshot
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	raw, ok := keys["zones"]
	*s = Snapshot(p)
	s.HasZones = ok && string(raw) != "null"
	return nil
}

// ApplyDetection overlays the present detection fields onto d.
func (s *Snapshot) ApplyDetection(d *settings.Detection) {
	if s == nil || d == nil {
		return
	}
	if s.Conf != nil {
		d.Conf = *s.Conf
	}
	if s.HeightLimit != nil {
		d.HeightLimit = *s.HeightLimit
	}
	if s.ElbowAngle != nil {
		d.ElbowAngle = *s.ElbowAngle
	}
	if s.ReachEnabled != nil {
		d.ReachEnabled = *s.ReachEnabled
	}
	if s.FallEnabled != nil {
		d.FallEnabled = *s.FallEnabled
	}
}

// ApplyDisplay overlays the present display fields onto d.
func (s *Snapshot) ApplyDisplay(d *settings.Display) {
	if s == nil || d == nil {
		return
	}
	if s.DrawObjects != nil {
		d.DrawObjects = *s.DrawObjects
	}
	if s.DrawZones != nil {
		d.DrawZones = *s.DrawZones
	}
	if s.ShowOnlyAlert != nil {
		d.ShowOnlyAlert = *s.ShowOnlyAlert
	}
}

// Canvas returns the stored canvas size, if any.
func (s *Snapshot) Canvas() (w, h int, ok bool) {
	if s == nil || len(s.CanvasSize) != 2 || s.CanvasSize[0] <= 0 || s.CanvasSize[1] <= 0 {
		return 0, 0, false
	}
	return s.CanvasSize[0], s.CanvasSize[1], true
}

// SourceResult is the decoded answer to a source change.
type SourceResult struct {
	Source string
	Config *Snapshot // nil when the backend has nothing stored for the source
}

// LogEntry is one line of the backend's alert log.
type LogEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Source  string    `json:"source,omitempty"`
	Model   string    `json:"model,omitempty"`
	Config  *Snapshot `json:"config,omitempty"`
}

type videosResponse struct {
	Videos []string `json:"videos"`
}

type logsResponse struct {
	Logs []LogEntry `json:"logs"`
}
