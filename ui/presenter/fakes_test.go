package presenter

import (
	"context"
	"image"
	"time"

	"github.com/soocke/zone-guard-go/domain/capture"
	"github.com/soocke/zone-guard-go/domain/remote"
	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/domain/zone"
	"github.com/soocke/zone-guard-go/ui/model"
	"github.com/soocke/zone-guard-go/ui/overlay"
)

// inlineDispatcher runs work immediately; completions still wait for Drain.
func inlineDispatcher() *Dispatcher {
	return &Dispatcher{spawn: func(f func()) { f() }, results: make(chan Completion, 64), timeout: time.Second}
}

// manualDispatcher parks work until the test releases it, in any order.
type manualDispatcher struct {
	*Dispatcher
	parked []func()
}

func newManualDispatcher() *manualDispatcher {
	m := &manualDispatcher{}
	m.Dispatcher = &Dispatcher{results: make(chan Completion, 64), timeout: time.Second}
	m.Dispatcher.spawn = func(f func()) { m.parked = append(m.parked, f) }
	return m
}

func (m *manualDispatcher) release(i int) { m.parked[i]() }

type fakeClient struct {
	pushed    []remote.ZonesPayload
	pushErr   error
	detect    []settings.Detection
	detectErr error
	display   []settings.Display
	dispErr   error

	changes   []string
	changeRes map[string]remote.SourceResult
	changeErr error

	uploads    []string
	uploadName string
	uploadErr  error

	model    string
	modelErr error

	videos    []string
	videosErr error
	videoReqs int

	logs     []remote.LogEntry
	logsErr  error
	logCalls int
}

func (c *fakeClient) PushZones(_ context.Context, p remote.ZonesPayload) error {
	c.pushed = append(c.pushed, p)
	return c.pushErr
}

func (c *fakeClient) PushDetection(_ context.Context, d settings.Detection) error {
	c.detect = append(c.detect, d)
	return c.detectErr
}

func (c *fakeClient) PushDisplay(_ context.Context, d settings.Display) error {
	c.display = append(c.display, d)
	return c.dispErr
}

func (c *fakeClient) ChangeSource(_ context.Context, source string, _ remote.SourceKind) (remote.SourceResult, error) {
	c.changes = append(c.changes, source)
	if c.changeErr != nil {
		return remote.SourceResult{}, c.changeErr
	}
	return c.changeRes[source], nil
}

func (c *fakeClient) Upload(_ context.Context, path string) (string, error) {
	c.uploads = append(c.uploads, path)
	return c.uploadName, c.uploadErr
}

func (c *fakeClient) SelectModel(_ context.Context, name string) (string, error) {
	if c.modelErr != nil {
		return "", c.modelErr
	}
	c.model = name
	return name, nil
}

func (c *fakeClient) Videos(context.Context) ([]string, error) {
	c.videoReqs++
	return c.videos, c.videosErr
}

func (c *fakeClient) Logs(context.Context) ([]remote.LogEntry, error) {
	c.logCalls++
	return c.logs, c.logsErr
}

type mockNotifier struct{ infos, errors []string }

func (n *mockNotifier) Info(msg string)  { n.infos = append(n.infos, msg) }
func (n *mockNotifier) Error(msg string) { n.errors = append(n.errors, msg) }

type mockCanvas struct{ refreshes int }

func (c *mockCanvas) RefreshCanvas() { c.refreshes++ }

type mockList struct {
	rows  []ZoneRow
	calls int
}

func (l *mockList) SetZoneRows(rows []ZoneRow) { l.rows = rows; l.calls++ }

type mockEdit struct {
	enabled bool
	pending int
}

func (e *mockEdit) SetEditMode(enabled bool, pending int) { e.enabled, e.pending = enabled, pending }

type mockSettingsView struct {
	det    settings.Detection
	disp   settings.Display
	expand settings.ExpandPercent
	calls  int
}

func (v *mockSettingsView) ShowDetection(d settings.Detection)  { v.det = d; v.calls++ }
func (v *mockSettingsView) ShowDisplay(d settings.Display)      { v.disp = d }
func (v *mockSettingsView) ShowExpand(p settings.ExpandPercent) { v.expand = p }

type mockSourceView struct {
	videos   []string
	selected string
	model    string
}

func (v *mockSourceView) SetVideos(videos []string) { v.videos = videos }
func (v *mockSourceView) SelectVideo(name string)   { v.selected = name }
func (v *mockSourceView) SetModel(name string)      { v.model = name }

type mockLogView struct {
	entries []remote.LogEntry
	calls   int
}

func (v *mockLogView) SetLogs(e []remote.LogEntry) { v.entries = e; v.calls++ }

type mockStatusView struct{ texts []string }

func (v *mockStatusView) SetStatus(s string) { v.texts = append(v.texts, s) }

type mockBackdropService struct {
	started, stopped int
	frame            capture.FrameSnapshot
}

func (s *mockBackdropService) Start()                             { s.started++ }
func (s *mockBackdropService) Stop()                              { s.stopped++ }
func (s *mockBackdropService) LatestFrame() capture.FrameSnapshot { return s.frame }

type mockSink struct{ last image.Image }

func (s *mockSink) SetBackdrop(img image.Image) { s.last = img }

type mockBackdropView struct{ active bool }

func (v *mockBackdropView) SetBackdropActive(b bool) { v.active = b }

// harness wires the zone and sync presenters over fakes.
type harness struct {
	editor   *model.EditorModel
	syncM    *model.SyncModel
	source   *model.SourceModel
	rec      *overlay.RecordingSurface
	canvas   *mockCanvas
	list     *mockList
	edit     *mockEdit
	zones    *ZonePresenter
	client   *fakeClient
	notify   *mockNotifier
	settings *mockSettingsView
	sources  *mockSourceView
	sync     *SyncPresenter
}

func newHarness(d *Dispatcher) *harness {
	h := &harness{
		editor:   model.NewEditorModel(zone.NewManager(nil)),
		syncM:    model.NewSyncModel(),
		source:   model.NewSourceModel(),
		rec:      &overlay.RecordingSurface{},
		canvas:   &mockCanvas{},
		list:     &mockList{},
		edit:     &mockEdit{},
		client:   &fakeClient{changeRes: map[string]remote.SourceResult{}},
		notify:   &mockNotifier{},
		settings: &mockSettingsView{},
		sources:  &mockSourceView{},
	}
	ov := overlay.New(h.rec)
	ov.SetViewport(640, 480)
	h.zones = NewZonePresenter(h.editor, h.syncM, ov, h.canvas, h.list, h.edit, nil)
	h.sync = NewSyncPresenter(SyncDeps{
		Editor:   h.editor,
		Source:   h.source,
		Sync:     h.syncM,
		Zones:    h.zones,
		Client:   h.client,
		Dispatch: d,
		Notify:   h.notify,
		Settings: h.settings,
		Sources:  h.sources,
	})
	return h
}

func (h *harness) clickSquare() {
	bounds := overlay.Rect{W: 640, H: 480}
	h.zones.Click(10, 10, bounds)
	h.zones.Click(110, 10, bounds)
	h.zones.Click(110, 110, bounds)
	h.zones.Click(10, 110, bounds)
}

func (h *harness) sourceName() string {
	s, _ := h.source.Source()
	return s
}
