package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/zone-guard-go/domain/geometry"
	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/domain/zone"
)

func newTestServer(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client(), nil), srv
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestPushZones_Payload(t *testing.T) {
	var got map[string]any
	var reqID string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathUpdateZones, r.URL.Path)
		reqID = r.Header.Get(RequestIDHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Zones saved"})
	})

	z := zone.Zone{ID: 5, Type: zone.TypeIntrusion, Points: [4]geometry.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 7, Y: 8}}}
	err := c.PushZones(context.Background(), ZonesPayload{
		Zones:        []zone.Zone{z},
		ExpandRatio:  settings.ExpandPercent(20).Fraction(),
		Conf:         0.5,
		CanvasWidth:  640,
		CanvasHeight: 480,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, got["expand_ratio"], 1e-12)
	assert.Equal(t, 640.0, got["canvas_width"])
	assert.Equal(t, 480.0, got["canvas_height"])
	zs := got["zones"].([]any)
	require.Len(t, zs, 1)
	assert.Equal(t, "intrusion", zs[0].(map[string]any)["type"])
	_, err = uuid.Parse(reqID)
	assert.NoError(t, err, "request id should be a uuid")
}

func TestPushZones_EmptyCollectionSendsArray(t *testing.T) {
	var raw string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	})
	require.NoError(t, c.PushZones(context.Background(), ZonesPayload{}))
	assert.Contains(t, raw, `"zones":[]`)
}

func TestPushZones_Rejected(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "disk full"})
	})
	err := c.PushZones(context.Background(), ZonesPayload{})
	require.Error(t, err)
	var re *RejectedError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "disk full", re.Message)
	assert.Equal(t, http.StatusInternalServerError, re.Status)
	assert.False(t, IsTransport(err))
}

func TestPushZones_NonJSONIsTransport(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	err := c.PushZones(context.Background(), ZonesPayload{})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsRejected(err))
}

func TestChangeSource_MalformedSnapshotIsRejected(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","source":"a.mp4","config":{"zones":[{"id":1,"points":[{"x":0,"y":0},{"x":1,"y":0},{"x":1,"y":1}]}]}}`)
	})
	_, err := c.ChangeSource(context.Background(), "a.mp4", SourceFile)
	require.Error(t, err)
	var re *RejectedError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusOK, re.Status)
	assert.Equal(t, MalformedResponse, re.Message)
	assert.False(t, IsTransport(err))
}

func TestPushZones_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := NewClient(url, nil, nil)
	err := c.PushZones(context.Background(), ZonesPayload{})
	assert.True(t, IsTransport(err))
}

func TestChangeSource_WithConfig(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "clip.mp4", req["source"])
		assert.Equal(t, "file", req["type"])
		_, _ = io.WriteString(w, `{"status":"success","source":"clip.mp4","config":{"conf":0.7,"canvas_size":[640,480]}}`)
	})
	res, err := c.ChangeSource(context.Background(), "clip.mp4", SourceFile)
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", res.Source)
	require.NotNil(t, res.Config)
	require.NotNil(t, res.Config.Conf)
	assert.Equal(t, 0.7, *res.Config.Conf)
	assert.False(t, res.Config.HasZones)
	assert.Nil(t, res.Config.HeightLimit)
	w, h, ok := res.Config.Canvas()
	assert.True(t, ok)
	assert.Equal(t, [2]int{640, 480}, [2]int{w, h})
}

func TestChangeSource_NullConfig(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","source":"0","config":null}`)
	})
	res, err := c.ChangeSource(context.Background(), "0", SourceWebcam)
	require.NoError(t, err)
	assert.Nil(t, res.Config)
}

func TestChangeSource_EmptyIsPrecondition(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	_, err := c.ChangeSource(context.Background(), "  ", SourceURL)
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Zero(t, calls.Load())
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake video"), 0o644))

	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathUploadVideo, r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "fake video", string(b))
		assert.Equal(t, "clip.mp4", hdr.Filename)
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "source": "clip.mp4"})
	})
	src, err := c.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", src)
}

func TestUpload_PreconditionsNeverHitServer(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })

	_, err := c.Upload(context.Background(), "")
	assert.ErrorIs(t, err, ErrPrecondition)
	_, err = c.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	assert.ErrorIs(t, err, ErrPrecondition)
	_, err = c.Upload(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Zero(t, calls.Load())
}

func TestVideosAndLogs(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathVideos:
			_, _ = io.WriteString(w, `{"videos":["a.mp4","b.mkv"]}`)
		case PathLogs:
			_, _ = io.WriteString(w, `{"logs":[{"time":"12:00:01","level":"danger","message":"zone breach"}]}`)
		default:
			http.NotFound(w, r)
		}
	})
	vids, err := c.Videos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp4", "b.mkv"}, vids)

	logs, err := c.Logs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []LogEntry{{Time: "12:00:01", Level: "danger", Message: "zone breach"}}, logs)
}

func TestSelectModel(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		assert.True(t, strings.Contains(string(b), `"model":"yolov8s-pose.pt"`))
		_, _ = io.WriteString(w, `{"status":"success","model":"yolov8s-pose.pt"}`)
	})
	m, err := c.SelectModel(context.Background(), "yolov8s-pose.pt")
	require.NoError(t, err)
	assert.Equal(t, "yolov8s-pose.pt", m)
}

func TestSnapshot_ApplyOnlyPresentFields(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"conf":0.7,"draw_zones":false,"zones":[]}`), &s))
	assert.True(t, s.HasZones)

	d := settings.Detection{Conf: 0.5, HeightLimit: 120, ReachEnabled: true}
	s.ApplyDetection(&d)
	assert.Equal(t, settings.Detection{Conf: 0.7, HeightLimit: 120, ReachEnabled: true}, d)

	disp := settings.DefaultDisplay()
	s.ApplyDisplay(&disp)
	assert.Equal(t, settings.Display{DrawObjects: true, DrawZones: false}, disp)

	var none Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"zones":null}`), &none))
	assert.False(t, none.HasZones)
	_, _, ok := none.Canvas()
	assert.False(t, ok)
}
