package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// Each Tick first applies finished background requests, then lets the
// sub-presenters poll, then invokes the scheduler callback. The zero value
// is usable (methods are nil-safe).
type Loop struct {
	Dispatch *Dispatcher
	Backdrop *BackdropPresenter
	Logs     *LogPresenter
	Status   *StatusPresenter
	Schedule func()
	now      func() time.Time
}

func NewLoop(d *Dispatcher, backdrop *BackdropPresenter, logs *LogPresenter, status *StatusPresenter, schedule func()) *Loop {
	return &Loop{Dispatch: d, Backdrop: backdrop, Logs: logs, Status: status, Schedule: schedule, now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	l.Dispatch.Drain()
	if l.Backdrop != nil {
		l.Backdrop.ProcessFrame()
	}
	if l.Logs != nil {
		l.Logs.Tick(now)
	}
	if l.Status != nil {
		l.Status.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
