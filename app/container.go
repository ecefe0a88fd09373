package app

import (
	"image"
	"log/slog"

	"github.com/soocke/zone-guard-go/config"
	"github.com/soocke/zone-guard-go/domain/capture"
	"github.com/soocke/zone-guard-go/domain/remote"
	"github.com/soocke/zone-guard-go/domain/zone"
	"github.com/soocke/zone-guard-go/ui/model"
	"github.com/soocke/zone-guard-go/ui/overlay"
	"github.com/soocke/zone-guard-go/ui/presenter"
	"github.com/soocke/zone-guard-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config *config.Config
	Logger *slog.Logger

	Editor   *model.EditorModel
	Source   *model.SourceModel
	Sync     *model.SyncModel
	Backdrop *model.BackdropModel

	Raster     *overlay.RasterSurface
	Overlay    *overlay.Overlay
	Client     *remote.Client
	Dispatch   *presenter.Dispatcher
	CaptureSvc capture.CaptureService
	RootView   *view.RootView

	// Presenters
	ZonePresenter     *presenter.ZonePresenter
	SyncPresenter     *presenter.SyncPresenter
	LogPresenter      *presenter.LogPresenter
	StatusPresenter   *presenter.StatusPresenter
	BackdropPresenter *presenter.BackdropPresenter
	Loop              *presenter.Loop
}

// BuildContainer constructs all components. Nothing touches the network or
// the screen until the view is built and the loop runs.
func BuildContainer(cfg *config.Config, logger *slog.Logger) *AppContainer {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Editor = model.NewEditorModel(zone.NewManager(nil))
	c.Source = model.NewSourceModel()
	c.Sync = model.NewSyncModel()
	c.Backdrop = &model.BackdropModel{}

	c.Raster = overlay.NewRasterSurface()
	c.Overlay = overlay.New(c.Raster)
	c.Overlay.SetViewport(cfg.CanvasMaxWidth, cfg.CanvasMaxHeight)

	c.Client = remote.NewClient(cfg.ServerURL, nil, logger)
	c.Dispatch = presenter.NewDispatcher(cfg.RequestTimeout())
	c.CaptureSvc = capture.NewCaptureService(logger, backdropGrabber(cfg), cfg.BackdropInterval())

	// View; widgets are created later by Build, its methods are no-ops until then.
	c.RootView = view.NewRootView(cfg.Models, logger)

	c.ZonePresenter = presenter.NewZonePresenter(c.Editor, c.Sync, c.Overlay, c.RootView, c.RootView, c.RootView, logger)
	c.SyncPresenter = presenter.NewSyncPresenter(presenter.SyncDeps{
		Editor:   c.Editor,
		Source:   c.Source,
		Sync:     c.Sync,
		Zones:    c.ZonePresenter,
		Client:   c.Client,
		Dispatch: c.Dispatch,
		Notify:   c.RootView,
		Settings: c.RootView,
		Sources:  c.RootView,
		Logger:   logger,
	})
	c.LogPresenter = presenter.NewLogPresenter(c.Client, c.RootView, c.Dispatch, cfg.LogPollInterval(), logger)
	c.StatusPresenter = presenter.NewStatusPresenter(c.Sync, c.RootView)
	c.BackdropPresenter = presenter.NewBackdropPresenter(c.Backdrop, c.CaptureSvc, c.Raster, c.ZonePresenter, c.RootView, cfg.CanvasMaxWidth, cfg.CanvasMaxHeight)
	return c
}

// backdropGrabber reads the configured still frame, or the screen selection
// when no file is set.
func backdropGrabber(cfg *config.Config) capture.Grabber {
	if cfg.BackdropFile != "" {
		return capture.FileGrabber{Path: cfg.BackdropFile}
	}
	var region image.Rectangle
	if cfg.SelectionW > 0 && cfg.SelectionH > 0 {
		region = image.Rect(cfg.SelectionX, cfg.SelectionY, cfg.SelectionX+cfg.SelectionW, cfg.SelectionY+cfg.SelectionH)
	}
	return capture.ScreenGrabber{Region: region}
}

// Handlers binds view events to presenters.
func (c *AppContainer) Handlers(onExit func()) view.Handlers {
	return view.Handlers{
		Render: func() image.Image {
			if img := c.Raster.Image(); img != nil {
				return img
			}
			return nil
		},
		OnCanvasClick: func(x, y float64, w, h int) {
			c.ZonePresenter.Click(x, y, overlay.Rect{W: float64(w), H: float64(h)})
		},
		OnEditMode:   c.ZonePresenter.SetEditMode,
		OnToggleType: c.ZonePresenter.ToggleType,
		OnDelete:     c.ZonePresenter.Delete,
		OnSave:       c.SyncPresenter.Push,
		OnBackdrop:   c.BackdropPresenter.Toggle,
		OnExit:       onExit,
		SettingsEvents: view.SettingsHandlers{
			OnDetection: c.SyncPresenter.UpdateDetection,
			OnExpand:    c.ZonePresenter.SetExpandPercent,
			OnDisplay:   c.SyncPresenter.UpdateDisplay,
		},
		SourceEvents: view.SourceHandlers{
			OnChangeSource:  c.SyncPresenter.ChangeSource,
			OnUpload:        c.SyncPresenter.Upload,
			OnModel:         c.SyncPresenter.SelectModel,
			OnRefreshVideos: c.SyncPresenter.RefreshVideos,
		},
	}
}
