package capture

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	captureStatsLogInterval = 5 * time.Second
	// DefaultInterval is how often the backdrop is refreshed. Zones are drawn
	// against a still frame, so a slow cadence is plenty.
	DefaultInterval = 500 * time.Millisecond
)

// CaptureService periodically grabs backdrop frames on its own goroutine and
// publishes the latest one. Use NewCaptureService to construct an instance.
type CaptureService interface {
	Start()
	Stop()
	LatestFrame() FrameSnapshot
	Running() bool
	SetGrabber(Grabber)
	Stats() CaptureStats
}

type captureService struct {
	running      atomic.Bool
	latest       atomic.Pointer[FrameSnapshot]
	mu           sync.Mutex
	grabber      Grabber
	interval     time.Duration
	logger       *slog.Logger
	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	stop         chan struct{}
}

// NewCaptureService constructs a service grabbing from g every interval
// (DefaultInterval when non-positive).
func NewCaptureService(logger *slog.Logger, g Grabber, interval time.Duration) CaptureService {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &captureService{grabber: g, interval: interval, logger: logger}
}

func (s *captureService) SetGrabber(g Grabber) {
	s.mu.Lock()
	s.grabber = g
	s.mu.Unlock()
}

func (s *captureService) currentGrabber() Grabber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grabber
}

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *captureService) Running() bool { return s.running.Load() }

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return CaptureStats{
		Captures:       captures,
		Failures:       s.failures.Load(),
		AvgCapture:     avg,
		LastCapture:    snapshot.CapturedAt,
		LatestFrameAge: age,
		Sequence:       snapshot.Sequence,
	}
}

func (s *captureService) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	stop := make(chan struct{})
	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
	go s.loop(stop)
}

func (s *captureService) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.mu.Unlock()
}

func (s *captureService) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	s.grabOnce()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.grabOnce()
		case <-logTicker.C:
			s.logStats()
		}
	}
}

func (s *captureService) grabOnce() {
	g := s.currentGrabber()
	if g == nil {
		return
	}
	start := time.Now()
	img, err := g.Grab()
	if err != nil || img == nil {
		s.failures.Add(1)
		if err != nil && s.logger != nil {
			s.logger.Error("capture backdrop", "error", err)
		}
		return
	}
	s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
	s.captures.Add(1)
	seq := s.sequence.Add(1)
	s.latest.Store(&FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failures", stats.Failures,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
