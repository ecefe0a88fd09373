package model

// BackdropModel tracks whether the backdrop capture is on and which frame
// was last shown. The zero value is disabled and usable.
type BackdropModel struct {
	enabled bool
	seq     uint64
	w, h    int
}

func (m *BackdropModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled
}

func (m *BackdropModel) SetEnabled(b bool) {
	if m == nil {
		return
	}
	m.enabled = b
	if !b {
		m.seq = 0
	}
}

// Observe records a frame and reports whether it is new.
func (m *BackdropModel) Observe(seq uint64, w, h int) bool {
	if m == nil || seq == 0 || seq == m.seq {
		return false
	}
	m.seq, m.w, m.h = seq, w, h
	return true
}

// FrameSize returns the size of the last observed frame.
func (m *BackdropModel) FrameSize() (int, int) {
	if m == nil {
		return 0, 0
	}
	return m.w, m.h
}
