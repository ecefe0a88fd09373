package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/soocke/zone-guard-go/domain/remote"
	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/domain/zone"
)

const webcamKey = "webcam"

// videoExts are the upload extensions listed by GetVideos.
var videoExts = map[string]bool{".mp4": true, ".avi": true, ".mov": true, ".mkv": true}

// UpdateZonesRequest is the body of POST /update_zones. Pointers tell a
// missing field from a zero one.
type UpdateZonesRequest struct {
	Zones        *[]zone.Zone `json:"zones"`
	ExpandRatio  *float64     `json:"expand_ratio"`
	CanvasWidth  *int         `json:"canvas_width"`
	CanvasHeight *int         `json:"canvas_height"`
}

// UpdateZones stores the zone collection for the active source.
// POST /update_zones
func (s *Server) UpdateZones(w http.ResponseWriter, r *http.Request) {
	var req UpdateZonesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Zones == nil {
		writeError(w, http.StatusBadRequest, "No zones data")
		return
	}
	zones := append([]zone.Zone{}, (*req.Zones)...)
	ratio := 0.0
	if req.ExpandRatio != nil {
		ratio = *req.ExpandRatio
	}
	var canvas []int
	if req.CanvasWidth != nil && req.CanvasHeight != nil && *req.CanvasWidth > 0 && *req.CanvasHeight > 0 {
		canvas = []int{*req.CanvasWidth, *req.CanvasHeight}
	}

	key, _ := s.current()
	snap, err := s.store.UpdateConfig(r.Context(), key, func(c *remote.Snapshot) {
		c.Zones = zones
		c.ExpandRatio = &ratio
		c.CanvasSize = canvas
	})
	if err != nil {
		s.logger.Error("save zones", "source", key, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.announce(r, key, snap, fmt.Sprintf("Saved %d zone(s)", len(zones)))
	writeOK(w, "Zones saved")
}

// UpdateDetectRequest is the body of POST /update_detect_config.
type UpdateDetectRequest struct {
	Conf         *float64 `json:"conf"`
	HeightLimit  *int     `json:"height_limit"`
	ElbowAngle   *int     `json:"elbow_angle"`
	ReachEnabled *bool    `json:"reach_enabled"`
	FallEnabled  *bool    `json:"fall_enabled"`
}

// Detection fills missing fields with the defaults and clamps the rest.
func (req UpdateDetectRequest) Detection() settings.Detection {
	d := settings.DefaultDetection()
	if req.Conf != nil {
		d.Conf = *req.Conf
	}
	if req.HeightLimit != nil {
		d.HeightLimit = *req.HeightLimit
	}
	if req.ElbowAngle != nil {
		d.ElbowAngle = *req.ElbowAngle
	}
	if req.ReachEnabled != nil {
		d.ReachEnabled = *req.ReachEnabled
	}
	if req.FallEnabled != nil {
		d.FallEnabled = *req.FallEnabled
	}
	d.Normalize()
	return d
}

// UpdateDetectConfig stores the detection settings for the active source.
// POST /update_detect_config
func (s *Server) UpdateDetectConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateDetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	d := req.Detection()
	key, _ := s.current()
	snap, err := s.store.UpdateConfig(r.Context(), key, func(c *remote.Snapshot) {
		c.Conf = &d.Conf
		c.HeightLimit = &d.HeightLimit
		c.ElbowAngle = &d.ElbowAngle
		c.ReachEnabled = &d.ReachEnabled
		c.FallEnabled = &d.FallEnabled
	})
	if err != nil {
		s.logger.Error("save detect config", "source", key, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.announce(r, key, snap, fmt.Sprintf("Detection settings updated (conf %.2f)", d.Conf))
	writeOK(w, "Detect config saved")
}

// UpdateDisplayRequest is the body of POST /update_display_config.
type UpdateDisplayRequest struct {
	DrawObjects   *bool `json:"draw_objects"`
	DrawZones     *bool `json:"draw_zones"`
	ShowOnlyAlert *bool `json:"show_only_alert"`
}

// UpdateDisplayConfig stores the display switches for the active source.
// POST /update_display_config
func (s *Server) UpdateDisplayConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateDisplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	d := settings.DefaultDisplay()
	if req.DrawObjects != nil {
		d.DrawObjects = *req.DrawObjects
	}
	if req.DrawZones != nil {
		d.DrawZones = *req.DrawZones
	}
	if req.ShowOnlyAlert != nil {
		d.ShowOnlyAlert = *req.ShowOnlyAlert
	}
	key, _ := s.current()
	snap, err := s.store.UpdateConfig(r.Context(), key, func(c *remote.Snapshot) {
		c.DrawObjects = &d.DrawObjects
		c.DrawZones = &d.DrawZones
		c.ShowOnlyAlert = &d.ShowOnlyAlert
	})
	if err != nil {
		s.logger.Error("save display config", "source", key, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.announce(r, key, snap, "")
	writeOK(w, "Display config saved")
}

// ChangeSourceRequest is the body of POST /change_source.
type ChangeSourceRequest struct {
	Source *string           `json:"source"`
	Type   remote.SourceKind `json:"type"`
}

// ChangeSourceResponse always carries config, null when nothing is stored.
type ChangeSourceResponse struct {
	Status string           `json:"status"`
	Source string           `json:"source"`
	Config *remote.Snapshot `json:"config"`
}

// ChangeSource switches the active source and returns its stored config.
// POST /change_source
func (s *Server) ChangeSource(w http.ResponseWriter, r *http.Request) {
	var req ChangeSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Source == nil {
		writeError(w, http.StatusBadRequest, "No source provided")
		return
	}
	source := *req.Source
	key := webcamKey
	if req.Type == remote.SourceFile {
		name := filepath.Base(source)
		if _, err := os.Stat(filepath.Join(s.uploadDir, name)); err != nil {
			writeError(w, http.StatusNotFound, "File not found: "+name)
			return
		}
		source, key = name, name
	}
	s.setSource(key, source)

	snap, err := s.store.Config(r.Context(), key)
	if err != nil {
		s.logger.Error("load config", "source", key, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("source changed", "source", source, "key", key, "has_config", snap != nil)
	s.appendLog(r, key, "info", "Source changed to "+source)
	writeJSON(w, http.StatusOK, ChangeSourceResponse{Status: remote.StatusSuccess, Source: source, Config: snap})
}

type uploadResponse struct {
	Status string `json:"status"`
	Source string `json:"source"`
}

// UploadVideo stores a multipart "file" upload and makes it the active
// source with a fresh configuration.
// POST /upload_video
func (s *Server) UploadVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			writeError(w, http.StatusBadRequest, "No file part")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()
	name := secureFilename(header.Filename)
	if name == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	n, err := io.Copy(dst, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.logger.Error("store upload", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.setSource(name, name)
	if err := s.store.ResetConfig(r.Context(), name); err != nil {
		s.logger.Error("reset config", "source", name, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("video uploaded", "name", name, "bytes", n)
	s.appendLog(r, name, "info", "Uploaded video "+name)
	writeJSON(w, http.StatusOK, uploadResponse{Status: remote.StatusSuccess, Source: name})
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// secureFilename reduces a client-supplied name to a safe base name.
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
	name = strings.TrimLeft(name, "._")
	return name
}

type modelRequest struct {
	Model string `json:"model"`
}

type modelResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// UpdateModel selects the detection model.
// POST /model_update
func (s *Server) UpdateModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, "No model specified")
		return
	}
	if !s.knownModel(req.Model) {
		writeError(w, http.StatusInternalServerError, "unknown model: "+req.Model)
		return
	}
	s.mu.Lock()
	s.model = req.Model
	s.mu.Unlock()
	key, _ := s.current()
	s.appendLog(r, key, "info", "Model changed to "+req.Model)
	writeJSON(w, http.StatusOK, modelResponse{Status: remote.StatusSuccess, Model: req.Model})
}

func (s *Server) knownModel(name string) bool {
	if len(s.models) == 0 {
		return true
	}
	for _, m := range s.models {
		if m == name {
			return true
		}
	}
	return false
}

type videosResponse struct {
	Videos []string `json:"videos"`
}

// GetVideos lists uploaded videos.
// GET /get_videos
func (s *Server) GetVideos(w http.ResponseWriter, r *http.Request) {
	videos := []string{}
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, e := range entries {
		if e.IsDir() || !videoExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		videos = append(videos, e.Name())
	}
	sort.Strings(videos)
	writeJSON(w, http.StatusOK, videosResponse{Videos: videos})
}

type logsResponse struct {
	Logs []remote.LogEntry `json:"logs"`
}

// GetLogs returns the newest log entries.
// GET /get_logs?source=...&limit=...
func (s *Server) GetLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := s.store.Logs(r.Context(), limit, r.URL.Query().Get("source"))
	if err != nil {
		s.logger.Error("query logs", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logsResponse{Logs: logs})
}

// announce publishes a saved snapshot and records msg in the log. Both are
// best effort; the save already succeeded.
func (s *Server) announce(r *http.Request, key string, snap *remote.Snapshot, msg string) {
	if err := s.notifier.PublishConfig(r.Context(), key, snap); err != nil {
		s.logger.Warn("publish config", "source", key, "error", err)
	}
	if msg != "" {
		s.appendLog(r, key, "info", msg)
	}
}

func (s *Server) appendLog(r *http.Request, key, level, msg string) {
	if err := s.store.AppendLog(r.Context(), level, msg, key); err != nil {
		s.logger.Warn("append log", "error", err)
	}
}
