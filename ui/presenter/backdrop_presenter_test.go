package presenter

import (
	"image"
	"testing"

	"github.com/soocke/zone-guard-go/domain/capture"
	"github.com/soocke/zone-guard-go/ui/model"
)

func newBackdropFixture() (*BackdropPresenter, *mockBackdropService, *mockSink, *mockBackdropView, *harness) {
	h := newHarness(inlineDispatcher())
	svc := &mockBackdropService{}
	sink := &mockSink{}
	view := &mockBackdropView{}
	p := NewBackdropPresenter(&model.BackdropModel{}, svc, sink, h.zones, view, 800, 600)
	return p, svc, sink, view, h
}

func TestBackdropPresenter_EnableDisableIdempotent(t *testing.T) {
	p, svc, _, view, _ := newBackdropFixture()
	p.Enable()
	p.Enable()
	if svc.started != 1 || !view.active {
		t.Fatalf("expected single start, got %d", svc.started)
	}
	p.Disable()
	p.Disable()
	if svc.stopped != 1 || view.active {
		t.Fatalf("expected single stop, got %d", svc.stopped)
	}
	p.Toggle()
	if svc.started != 2 {
		t.Fatalf("toggle should start again")
	}
}

func TestBackdropPresenter_FrameSetsViewport(t *testing.T) {
	p, svc, sink, _, h := newBackdropFixture()
	p.Enable()
	svc.frame = capture.FrameSnapshot{Image: image.NewRGBA(image.Rect(0, 0, 1600, 900)), Sequence: 1}

	p.ProcessFrame()
	if sink.last == nil {
		t.Fatalf("frame not forwarded")
	}
	if v := h.zones.Viewport(); v.W != 800 || v.H != 450 {
		t.Fatalf("viewport should fit the frame, got %+v", v)
	}

	refreshes := h.canvas.refreshes
	p.ProcessFrame()
	if h.canvas.refreshes != refreshes {
		t.Fatalf("same frame must not re-render")
	}

	p.Disable()
	if sink.last != nil {
		t.Fatalf("disable should clear the backdrop")
	}
}

func TestBackdropPresenter_IgnoresFramesWhileDisabled(t *testing.T) {
	p, svc, sink, _, _ := newBackdropFixture()
	svc.frame = capture.FrameSnapshot{Image: image.NewRGBA(image.Rect(0, 0, 10, 10)), Sequence: 3}
	p.ProcessFrame()
	if sink.last != nil {
		t.Fatalf("disabled presenter must not show frames")
	}
}
