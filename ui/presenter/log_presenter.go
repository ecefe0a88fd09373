package presenter

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/zone-guard-go/domain/remote"
)

// LogSource fetches the backend's alert log.
type LogSource interface {
	Logs(ctx context.Context) ([]remote.LogEntry, error)
}

// LogView shows the alert log, newest first.
type LogView interface {
	SetLogs(entries []remote.LogEntry)
}

// DefaultLogPollInterval matches the dashboard's one-second refresh.
const DefaultLogPollInterval = time.Second

// LogPresenter polls the alert log from the loop tick. At most one request
// is outstanding; the view is only updated when the entries change.
type LogPresenter struct {
	source   LogSource
	view     LogView
	dispatch *Dispatcher
	logger   *slog.Logger
	interval time.Duration

	lastPoll time.Time
	inFlight bool
	last     []remote.LogEntry
}

func NewLogPresenter(src LogSource, view LogView, d *Dispatcher, interval time.Duration, logger *slog.Logger) *LogPresenter {
	if interval <= 0 {
		interval = DefaultLogPollInterval
	}
	return &LogPresenter{source: src, view: view, dispatch: d, interval: interval, logger: logger}
}

// Tick starts a poll when the interval has elapsed and none is in flight.
func (p *LogPresenter) Tick(now time.Time) {
	if p == nil || p.source == nil || p.view == nil || p.dispatch == nil {
		return
	}
	if p.inFlight || (!p.lastPoll.IsZero() && now.Sub(p.lastPoll) < p.interval) {
		return
	}
	p.inFlight = true
	p.lastPoll = now
	p.dispatch.Go(func(ctx context.Context) Completion {
		entries, err := p.source.Logs(ctx)
		return func() {
			p.inFlight = false
			if err != nil {
				if p.logger != nil {
					p.logger.Debug("poll logs", "error", err)
				}
				return
			}
			if sameEntries(p.last, entries) {
				return
			}
			p.last = entries
			p.view.SetLogs(entries)
		}
	})
}

func sameEntries(a, b []remote.LogEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
