package model

import "github.com/soocke/zone-guard-go/domain/remote"

// SourceModel tracks the active video source and the generation counters
// used to discard responses that arrive after a newer source change has
// been applied. A request only supersedes older ones once it succeeds.
// No synchronization needed: it is only touched on the UI thread.
type SourceModel struct {
	source  string
	kind    remote.SourceKind
	issued  uint64
	applied uint64
	videos  []string
	model   string
}

func NewSourceModel() *SourceModel { return &SourceModel{kind: remote.SourceWebcam} }

// Begin starts a new source change and returns its generation.
func (m *SourceModel) Begin() uint64 {
	if m == nil {
		return 0
	}
	m.issued++
	return m.issued
}

// Stale reports whether a newer generation than gen has already been applied.
func (m *SourceModel) Stale(gen uint64) bool {
	return m == nil || gen < m.applied
}

// Accept marks gen as applied unless it is stale. Failed requests must not
// call it.
func (m *SourceModel) Accept(gen uint64) bool {
	if m.Stale(gen) {
		return false
	}
	m.applied = gen
	return true
}

// SetSource records the source the backend confirmed.
func (m *SourceModel) SetSource(source string, kind remote.SourceKind) {
	if m == nil {
		return
	}
	m.source, m.kind = source, kind
}

func (m *SourceModel) Source() (string, remote.SourceKind) {
	if m == nil {
		return "", ""
	}
	return m.source, m.kind
}

// Key returns the backend's config key for the source: "webcam" for live
// sources, the file name otherwise.
func (m *SourceModel) Key() string {
	if m == nil || m.kind != remote.SourceFile {
		return string(remote.SourceWebcam)
	}
	return m.source
}

func (m *SourceModel) SetVideos(v []string) {
	if m == nil {
		return
	}
	m.videos = append(m.videos[:0:0], v...)
}

func (m *SourceModel) Videos() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.videos...)
}

func (m *SourceModel) SetModel(name string) {
	if m != nil {
		m.model = name
	}
}

func (m *SourceModel) Model() string {
	if m == nil {
		return ""
	}
	return m.model
}
