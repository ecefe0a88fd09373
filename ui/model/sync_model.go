package model

import (
	"time"
)

// SyncModel tracks unsaved zone edits and outstanding requests so the view
// can show whether the backend is up to date. The zero value is ready to use.
type SyncModel struct {
	revision      uint64 // bumped on every local edit
	savedRevision uint64
	inFlight      int
	lastSaved     time.Time
	lastError     string
}

// NewSyncModel returns a pointer to a ready-to-use SyncModel.
func NewSyncModel() *SyncModel { return &SyncModel{} }

// MarkDirty records a local edit that has not been pushed yet.
func (m *SyncModel) MarkDirty() {
	if m == nil {
		return
	}
	m.revision++
}

// MarkClean declares the current state identical to the backend's, e.g.
// right after a pull replaced it.
func (m *SyncModel) MarkClean(now time.Time) {
	if m == nil {
		return
	}
	m.savedRevision = m.revision
	m.lastSaved = now
	m.lastError = ""
}

// BeginPush counts a request in flight and returns the revision it carries.
func (m *SyncModel) BeginPush() uint64 {
	if m == nil {
		return 0
	}
	m.inFlight++
	return m.revision
}

// EndPush settles a request started with BeginPush. The state only becomes
// clean when no edit happened while the request was in flight.
func (m *SyncModel) EndPush(rev uint64, err error, now time.Time) {
	if m == nil {
		return
	}
	if m.inFlight > 0 {
		m.inFlight--
	}
	if err != nil {
		m.lastError = err.Error()
		return
	}
	m.lastError = ""
	m.lastSaved = now
	if rev > m.savedRevision {
		m.savedRevision = rev
	}
}

// Dirty reports whether local edits are newer than the last successful save.
func (m *SyncModel) Dirty() bool {
	if m == nil {
		return false
	}
	return m.revision != m.savedRevision
}

// InFlight returns the number of unsettled pushes.
func (m *SyncModel) InFlight() int {
	if m == nil {
		return 0
	}
	return m.inFlight
}

// SinceSave returns the time elapsed since the last successful save, or
// zero if nothing was saved yet.
func (m *SyncModel) SinceSave(now time.Time) time.Duration {
	if m == nil || m.lastSaved.IsZero() {
		return 0
	}
	return now.Sub(m.lastSaved)
}

// LastError returns the message of the most recent failed push.
func (m *SyncModel) LastError() string {
	if m == nil {
		return ""
	}
	return m.lastError
}
