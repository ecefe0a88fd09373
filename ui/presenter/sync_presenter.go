package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/zone-guard-go/domain/geometry"
	"github.com/soocke/zone-guard-go/domain/remote"
	"github.com/soocke/zone-guard-go/domain/settings"
	"github.com/soocke/zone-guard-go/domain/zone"
	"github.com/soocke/zone-guard-go/ui/model"
)

// SyncClient is the subset of the backend client the sync controller uses.
type SyncClient interface {
	PushZones(ctx context.Context, p remote.ZonesPayload) error
	PushDetection(ctx context.Context, d settings.Detection) error
	PushDisplay(ctx context.Context, d settings.Display) error
	ChangeSource(ctx context.Context, source string, kind remote.SourceKind) (remote.SourceResult, error)
	Upload(ctx context.Context, path string) (string, error)
	SelectModel(ctx context.Context, name string) (string, error)
	Videos(ctx context.Context) ([]string, error)
}

var _ SyncClient = (*remote.Client)(nil)

// Notifier surfaces outcomes to the operator.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// SettingsView mirrors settings restored from the backend into the controls.
type SettingsView interface {
	ShowDetection(d settings.Detection)
	ShowDisplay(d settings.Display)
	ShowExpand(p settings.ExpandPercent)
}

// SourceView shows the video list, the active source and the model.
type SourceView interface {
	SetVideos(videos []string)
	SelectVideo(name string)
	SetModel(name string)
}

// SyncPresenter is the sync controller: it pushes local state to the backend
// on explicit actions and applies snapshots the backend returns. Requests run
// through the Dispatcher; their outcomes are applied on the UI thread.
type SyncPresenter struct {
	editor   *model.EditorModel
	source   *model.SourceModel
	sync     *model.SyncModel
	zones    *ZonePresenter
	client   SyncClient
	dispatch *Dispatcher
	notify   Notifier
	settings SettingsView
	sources  SourceView
	logger   *slog.Logger
	now      func() time.Time
}

// SyncDeps groups the collaborators of a SyncPresenter.
type SyncDeps struct {
	Editor   *model.EditorModel
	Source   *model.SourceModel
	Sync     *model.SyncModel
	Zones    *ZonePresenter
	Client   SyncClient
	Dispatch *Dispatcher
	Notify   Notifier
	Settings SettingsView
	Sources  SourceView
	Logger   *slog.Logger
}

func NewSyncPresenter(d SyncDeps) *SyncPresenter {
	if d.Source == nil {
		d.Source = model.NewSourceModel()
	}
	if d.Sync == nil {
		d.Sync = model.NewSyncModel()
	}
	return &SyncPresenter{
		editor:   d.Editor,
		source:   d.Source,
		sync:     d.Sync,
		zones:    d.Zones,
		client:   d.Client,
		dispatch: d.Dispatch,
		notify:   d.Notify,
		settings: d.Settings,
		sources:  d.Sources,
		logger:   d.Logger,
		now:      time.Now,
	}
}

func (p *SyncPresenter) ready() bool {
	return p != nil && p.editor != nil && p.client != nil && p.dispatch != nil
}

// Describe renders an error for the notifier, keeping the three failure
// classes apart.
func Describe(action string, err error) string {
	var re *remote.RejectedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, remote.ErrPrecondition):
		return fmt.Sprintf("%s: %v", action, err)
	case errors.As(err, &re):
		if re.Message == "" {
			return fmt.Sprintf("%s failed: the server rejected the request", action)
		}
		return fmt.Sprintf("%s failed: %s", action, re.Message)
	case remote.IsTransport(err):
		return fmt.Sprintf("%s failed: could not reach the server", action)
	default:
		return fmt.Sprintf("%s failed: %v", action, err)
	}
}

func (p *SyncPresenter) info(msg string) {
	if p.notify != nil {
		p.notify.Info(msg)
	}
}

func (p *SyncPresenter) fail(action string, err error) {
	if p.notify != nil {
		p.notify.Error(Describe(action, err))
	}
}

func (p *SyncPresenter) log() *slog.Logger {
	if p.logger == nil {
		return slog.Default()
	}
	return p.logger
}

// ZonesPayload snapshots the collection, expansion fraction, confidence and
// canvas size as they are right now.
func (p *SyncPresenter) ZonesPayload() remote.ZonesPayload {
	size := p.zones.Viewport()
	return remote.ZonesPayload{
		Zones:        p.editor.Zones().Zones(),
		ExpandRatio:  p.editor.Expand().Fraction(),
		Conf:         p.editor.Detection().Conf,
		CanvasWidth:  int(size.W),
		CanvasHeight: int(size.H),
	}
}

// Push saves the zone collection. Success and failure are both reported.
func (p *SyncPresenter) Push() {
	if !p.ready() {
		return
	}
	payload := p.ZonesPayload()
	rev := p.sync.BeginPush()
	p.log().Info("pushing zones", "source", p.source.Key(), "count", len(payload.Zones), "expand_ratio", payload.ExpandRatio)
	p.dispatch.Go(func(ctx context.Context) Completion {
		err := p.client.PushZones(ctx, payload)
		return func() {
			p.sync.EndPush(rev, err, p.now())
			if err != nil {
				p.log().Error("push zones", "error", err)
				p.fail("Saving zones", err)
				return
			}
			p.info("Zone settings saved")
		}
	})
}

// UpdateDetection stores new detection settings and pushes them.
func (p *SyncPresenter) UpdateDetection(d settings.Detection) {
	if p == nil || p.editor == nil {
		return
	}
	p.editor.SetDetection(d)
	p.PushDetectionConfig()
}

// PushDetectionConfig saves detection settings. Success is silent and so is
// a rejection by the backend; only a backend that cannot be reached is
// surfaced.
func (p *SyncPresenter) PushDetectionConfig() {
	if !p.ready() {
		return
	}
	d := p.editor.Detection()
	p.dispatch.Go(func(ctx context.Context) Completion {
		err := p.client.PushDetection(ctx, d)
		if err == nil {
			return nil
		}
		if remote.IsRejected(err) {
			p.log().Warn("push detection config rejected", "error", err)
			return nil
		}
		return func() {
			p.log().Error("push detection config", "error", err)
			p.fail("Saving detection settings", err)
		}
	})
}

// UpdateDisplay stores new display toggles and pushes them.
func (p *SyncPresenter) UpdateDisplay(d settings.Display) {
	if p == nil || p.editor == nil {
		return
	}
	p.editor.SetDisplay(d)
	p.PushDisplayConfig()
}

// PushDisplayConfig saves display toggles. Fire-and-forget: failures are only logged.
func (p *SyncPresenter) PushDisplayConfig() {
	if !p.ready() {
		return
	}
	d := p.editor.Display()
	p.dispatch.Go(func(ctx context.Context) Completion {
		if err := p.client.PushDisplay(ctx, d); err != nil {
			p.log().Warn("push display config", "error", err)
		}
		return nil
	})
}

// Pull applies a snapshot. Only present fields are touched; zones, when
// present, replace the collection wholesale.
func (p *SyncPresenter) Pull(s *remote.Snapshot) {
	if p == nil || p.editor == nil || s == nil {
		return
	}
	if s.HasZones {
		zs := s.Zones
		if w, h, ok := s.Canvas(); ok && p.zones != nil {
			from := geometry.Size{W: float64(w), H: float64(h)}
			to := p.zones.Viewport()
			if !to.Empty() && from != to {
				zs = rescaleZones(zs, from, to)
				p.log().Info("rescaled pulled zones", "from", from, "to", to)
			}
		}
		p.editor.Zones().ReplaceAll(zs)
	}
	if s.ExpandRatio != nil {
		pct := settings.PercentFromFraction(*s.ExpandRatio)
		if p.editor.SetExpand(pct) && p.zones != nil {
			p.zones.Render()
		}
	}
	det := p.editor.Detection()
	s.ApplyDetection(&det)
	p.editor.SetDetection(det)
	disp := p.editor.Display()
	s.ApplyDisplay(&disp)
	p.editor.SetDisplay(disp)

	p.sync.MarkClean(p.now())
	p.showSettings()
}

func (p *SyncPresenter) showSettings() {
	if p.settings != nil {
		p.settings.ShowDetection(p.editor.Detection())
		p.settings.ShowDisplay(p.editor.Display())
		p.settings.ShowExpand(p.editor.Expand())
	}
}

func rescaleZones(in []zone.Zone, from, to geometry.Size) []zone.Zone {
	out := make([]zone.Zone, len(in))
	for i, z := range in {
		out[i] = z.Rescaled(from, to)
	}
	return out
}

// ChangeSource switches the backend's video source and, on success, applies
// the configuration stored for it. A response older than a source change or
// upload that has already been applied is dropped.
func (p *SyncPresenter) ChangeSource(source string, kind remote.SourceKind) {
	if !p.ready() {
		return
	}
	gen := p.source.Begin()
	p.log().Info("changing source", "source", source, "type", kind, "generation", gen)
	p.dispatch.Go(func(ctx context.Context) Completion {
		res, err := p.client.ChangeSource(ctx, source, kind)
		return func() {
			if err != nil {
				if p.source.Stale(gen) {
					p.log().Info("dropping stale source error", "source", source, "generation", gen, "error", err)
					return
				}
				p.log().Error("change source", "source", source, "error", err)
				p.fail("Changing source", err)
				return
			}
			if !p.source.Accept(gen) {
				p.log().Info("dropping stale source response", "source", source, "generation", gen)
				return
			}
			p.source.SetSource(source, kind)
			if res.Config != nil {
				p.Pull(res.Config)
			}
		}
	})
}

// Upload sends a local video file. On success the backend switches to it with
// a fresh configuration, so the editor is reset to defaults as well. A path
// that cannot be uploaded is reported at once without a request.
func (p *SyncPresenter) Upload(path string) {
	if !p.ready() {
		return
	}
	if err := remote.CheckUploadPath(path); err != nil {
		p.log().Warn("upload refused", "path", path, "error", err)
		p.fail("Upload", err)
		return
	}
	gen := p.source.Begin()
	p.dispatch.Go(func(ctx context.Context) Completion {
		name, err := p.client.Upload(ctx, path)
		return func() {
			if err != nil {
				p.log().Error("upload video", "path", path, "error", err)
				p.fail("Upload", err)
				return
			}
			if !p.source.Accept(gen) {
				p.log().Info("dropping stale upload response", "source", name, "generation", gen)
				return
			}
			p.source.SetSource(name, remote.SourceFile)
			p.editor.Reset()
			if p.zones != nil {
				p.zones.Render()
			}
			p.sync.MarkClean(p.now())
			p.showSettings()
			p.info("Upload complete: " + name)
			if p.sources != nil {
				p.sources.SelectVideo(name)
			}
			p.RefreshVideos()
		}
	})
}

// SelectModel asks the backend to switch detection models.
func (p *SyncPresenter) SelectModel(name string) {
	if !p.ready() {
		return
	}
	p.dispatch.Go(func(ctx context.Context) Completion {
		got, err := p.client.SelectModel(ctx, name)
		return func() {
			if err != nil {
				p.log().Error("select model", "model", name, "error", err)
				p.fail("Changing model", err)
				return
			}
			p.source.SetModel(got)
			if p.sources != nil {
				p.sources.SetModel(got)
			}
		}
	})
}

// RefreshVideos reloads the list of videos available on the backend.
func (p *SyncPresenter) RefreshVideos() {
	if !p.ready() {
		return
	}
	p.dispatch.Go(func(ctx context.Context) Completion {
		videos, err := p.client.Videos(ctx)
		return func() {
			if err != nil {
				p.log().Warn("list videos", "error", err)
				return
			}
			p.source.SetVideos(videos)
			if p.sources != nil {
				p.sources.SetVideos(p.source.Videos())
			}
		}
	})
}
