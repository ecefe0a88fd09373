package view

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/zone-guard-go/domain/remote"
	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/ui/presenter"
	"github.com/soocke/zone-guard-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level layout: canvas and zone list on the
// left, settings, sources and the log on the right, status along the top.
// It satisfies every view contract the presenters need.
type RootView struct {
	logger *slog.Logger
	models []string

	Canvas   ZoneCanvas
	Zones    ZoneList
	Settings SettingsPanel
	Sources  SourcePanel
	Logs     LogPanel

	StatusLabel  *TLabelWidget
	MessageLabel *TLabelWidget
	EditButton   *TButtonWidget
	BackdropBtn  *TButtonWidget
	editMode     bool
}

var (
	_ presenter.CanvasView   = (*RootView)(nil)
	_ presenter.ZoneListView = (*RootView)(nil)
	_ presenter.EditModeView = (*RootView)(nil)
	_ presenter.SettingsView = (*RootView)(nil)
	_ presenter.SourceView   = (*RootView)(nil)
	_ presenter.LogView      = (*RootView)(nil)
	_ presenter.StatusView   = (*RootView)(nil)
	_ presenter.Notifier     = (*RootView)(nil)
	_ presenter.BackdropView = (*RootView)(nil)
)

// Handlers are invoked on user actions.
type Handlers struct {
	Render         func() image.Image
	OnCanvasClick  func(x, y float64, w, h int)
	OnEditMode     func(enabled bool)
	OnToggleType   func(id int64)
	OnDelete       func(id int64)
	OnSave         func()
	OnBackdrop     func()
	OnExit         func()
	SettingsEvents SettingsHandlers
	SourceEvents   SourceHandlers
}

func NewRootView(models []string, logger *slog.Logger) *RootView {
	return &RootView{models: models, logger: logger}
}

// Build constructs the layout.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: status, message and the top buttons
	rv.StatusLabel = TLabel(Txt("Up to date"), Style(theme.StyleStateLabel), Relief("ridge"))
	Grid(rv.StatusLabel, Row(0), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	rv.MessageLabel = TLabel(Txt(""), Anchor("w"), Style(theme.StyleAccentLabel))
	Grid(rv.MessageLabel, Row(0), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.EditButton = TButton(Txt("Draw Zone"), Command(func() {
		if h.OnEditMode != nil {
			h.OnEditMode(!rv.editMode)
		}
	}))
	Grid(rv.EditButton, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	saveBtn := TButton(Txt("Save Zones"), Style(theme.StylePrimaryButton), Command(h.OnSave))
	Grid(saveBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.BackdropBtn = TButton(Txt("Backdrop"), Command(h.OnBackdrop))
	Grid(rv.BackdropBtn, In(btnFrame), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(h.OnExit))
	Grid(exitBtn, In(btnFrame), Row(0), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Row 1 left: canvas above the zone list
	left := Frame()
	Grid(left, Row(1), Column(0), Columnspan(2), Sticky("nw"), Padx("0.3m"), Pady("0.3m"))
	var canvas ZoneCanvas
	canvas = NewZoneCanvas(left, 0, h.Render, func(x, y float64) {
		if h.OnCanvasClick == nil || canvas == nil {
			return
		}
		w, ht := canvas.Size()
		h.OnCanvasClick(x, y, w, ht)
	})
	rv.Canvas = canvas
	rv.Zones = NewZoneList(left, 1, h.OnToggleType, h.OnDelete)

	// Row 1 right: settings, sources, log
	right := Frame()
	Grid(right, Row(1), Column(2), Sticky("nwe"), Padx("0.3m"), Pady("0.3m"))
	rv.Settings = NewSettingsPanel(right, 0, h.SettingsEvents)
	sourceFrame := Frame(Borderwidth(1), Relief("groove"))
	Grid(sourceFrame, In(right), Row(8), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	rv.Sources, _ = NewSourcePanel(sourceFrame, 0, rv.models, h.SourceEvents, rv.logger)
	rv.Logs = NewLogPanel(right, 9)
}

func (rv *RootView) RefreshCanvas() {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.RefreshCanvas()
	}
}

func (rv *RootView) SetZoneRows(rows []presenter.ZoneRow) {
	if rv != nil && rv.Zones != nil {
		rv.Zones.SetZoneRows(rows)
	}
}

// SetEditMode reflects the edit toggle and how many points are pending.
func (rv *RootView) SetEditMode(enabled bool, pending int) {
	if rv == nil || rv.EditButton == nil {
		return
	}
	rv.editMode = enabled
	if !enabled {
		rv.EditButton.Configure(Txt("Draw Zone"), Style("TButton"))
		return
	}
	rv.EditButton.Configure(Txt(editCaption(pending)), Style(theme.StyleToggleOn))
}

func editCaption(pending int) string {
	switch pending {
	case 0:
		return "Drawing: click 4 points"
	case 3:
		return "Drawing: 1 point left"
	default:
		return fmt.Sprintf("Drawing: %d points left", 4-pending)
	}
}

func (rv *RootView) ShowDetection(d settings.Detection) {
	if rv != nil && rv.Settings != nil {
		rv.Settings.ShowDetection(d)
	}
}

func (rv *RootView) ShowDisplay(d settings.Display) {
	if rv != nil && rv.Settings != nil {
		rv.Settings.ShowDisplay(d)
	}
}

func (rv *RootView) ShowExpand(p settings.ExpandPercent) {
	if rv != nil && rv.Settings != nil {
		rv.Settings.ShowExpand(p)
	}
}

func (rv *RootView) SetVideos(videos []string) {
	if rv != nil && rv.Sources != nil {
		rv.Sources.SetVideos(videos)
	}
}

func (rv *RootView) SelectVideo(name string) {
	if rv != nil && rv.Sources != nil {
		rv.Sources.SelectVideo(name)
	}
}

func (rv *RootView) SetModel(name string) {
	if rv != nil && rv.Sources != nil {
		rv.Sources.SetModel(name)
	}
}

func (rv *RootView) SetLogs(entries []remote.LogEntry) {
	if rv != nil && rv.Logs != nil {
		rv.Logs.SetLogs(entries)
	}
}

// SetStatus updates the sync status label text.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(text))
	}
}

// Info shows a transient confirmation in the message line.
func (rv *RootView) Info(msg string) {
	if rv != nil && rv.MessageLabel != nil {
		rv.MessageLabel.Configure(Txt(msg), Style(theme.StyleAccentLabel))
	}
}

// Error shows a failure in the message line.
func (rv *RootView) Error(msg string) {
	if rv != nil && rv.MessageLabel != nil {
		rv.MessageLabel.Configure(Txt(msg), Style(theme.StyleErrorLabel))
	}
}

func (rv *RootView) SetBackdropActive(active bool) {
	if rv == nil || rv.BackdropBtn == nil {
		return
	}
	if active {
		rv.BackdropBtn.Configure(Style(theme.StyleToggleOn))
		return
	}
	rv.BackdropBtn.Configure(Style("TButton"))
}
