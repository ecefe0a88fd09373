package presenter

import (
	"fmt"
	"time"

	"github.com/soocke/zone-guard-go/ui/model"
)

// StatusView sets the sync status label in the view.
type StatusView interface{ SetStatus(string) }

// StatusPresenter formats the sync model into a one-line status.
type StatusPresenter struct {
	sync  *model.SyncModel
	view  StatusView
	shown string
}

// NewStatusPresenter returns a new StatusPresenter.
func NewStatusPresenter(sync *model.SyncModel, view StatusView) *StatusPresenter {
	return &StatusPresenter{sync: sync, view: view}
}

// Tick recomputes the status and pushes it to the view when it changed.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.sync == nil || p.view == nil {
		return
	}
	s := StatusText(p.sync, now)
	if s == p.shown {
		return
	}
	p.shown = s
	p.view.SetStatus(s)
}

// StatusText describes the sync state, e.g. "Saving...", "Unsaved changes"
// or "Saved 12s ago".
func StatusText(m *model.SyncModel, now time.Time) string {
	switch {
	case m.InFlight() > 0:
		return "Saving..."
	case m.LastError() != "" && m.Dirty():
		return "Unsaved changes (last save failed)"
	case m.Dirty():
		return "Unsaved changes"
	}
	since := m.SinceSave(now)
	if since == 0 {
		return "Up to date"
	}
	return fmt.Sprintf("Saved %s ago", since.Truncate(time.Second))
}
