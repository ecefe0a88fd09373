package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/zone-guard-go/config"
	"github.com/soocke/zone-guard-go/domain/remote"
	"github.com/soocke/zone-guard-go/ui/presenter"
	"github.com/soocke/zone-guard-go/ui/theme"
)

const (
	tick = 100 * time.Millisecond

	// initialSource is the webcam index selected at startup.
	initialSource = "0"
)

type app struct {
	config    *config.Config
	logger    *slog.Logger
	container *AppContainer
	afterID   string
}

// NewApp creates the window and the component graph.
func NewApp(title string, cfg *config.Config, logger *slog.Logger) *app {
	a := &app{config: cfg, logger: logger}
	a.container = BuildContainer(cfg, logger)

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.WindowWidth, cfg.WindowHeight))
	return a
}

// Start builds the UI, restores the startup source's configuration and
// enters the Tk main loop.
func (a *app) Start() {
	theme.SetDark(a.config.DarkMode)
	c := a.container
	c.RootView.Build(c.Handlers(a.exitHandler))
	c.ZonePresenter.Refresh()

	c.SyncPresenter.RefreshVideos()
	c.SyncPresenter.ChangeSource(initialSource, remote.SourceWebcam)

	c.Loop = presenter.NewLoop(c.Dispatch, c.BackdropPresenter, c.LogPresenter, c.StatusPresenter, a.scheduleUpdate)
	a.scheduleUpdate()
	a.logger.Info("zone editor started", "server", c.Client.BaseURL())

	App.Wait()
}

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.container.BackdropPresenter.Disable()
	if n := a.container.Sync.InFlight(); n > 0 {
		a.logger.Warn("exiting with requests in flight", "count", n)
	}
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.container.Loop.Tick() })
}
