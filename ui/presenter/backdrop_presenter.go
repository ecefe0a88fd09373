package presenter

import (
	"image"

	"github.com/soocke/zone-guard-go/domain/capture"
	"github.com/soocke/zone-guard-go/ui/images"
	"github.com/soocke/zone-guard-go/ui/model"
)

// BackdropModel provides enabled state access and frame bookkeeping.
type BackdropModel interface {
	Enabled() bool
	SetEnabled(bool)
	Observe(seq uint64, w, h int) bool
}

var _ BackdropModel = (*model.BackdropModel)(nil)

// LifecycleContract narrows what the presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
	LatestFrame() capture.FrameSnapshot
}

// BackdropSink receives the frame painted beneath the zones.
type BackdropSink interface {
	SetBackdrop(img image.Image)
}

// BackdropView reflects whether the backdrop capture runs.
type BackdropView interface {
	SetBackdropActive(bool)
}

// BackdropPresenter toggles the backdrop capture and, on each tick, feeds a
// new frame to the overlay. The displayed frame size becomes the viewport.
type BackdropPresenter struct {
	model   BackdropModel
	service LifecycleContract
	sink    BackdropSink
	zones   *ZonePresenter
	view    BackdropView
	maxW    int
	maxH    int
}

// NewBackdropPresenter builds the presenter. Frames are fitted into maxW x maxH.
func NewBackdropPresenter(m BackdropModel, service LifecycleContract, sink BackdropSink, zones *ZonePresenter, view BackdropView, maxW, maxH int) *BackdropPresenter {
	return &BackdropPresenter{model: m, service: service, sink: sink, zones: zones, view: view, maxW: maxW, maxH: maxH}
}

// Enable starts the capture service. Idempotent.
func (c *BackdropPresenter) Enable() {
	if c == nil || c.model == nil || c.service == nil {
		return
	}
	if c.model.Enabled() {
		return
	}
	c.service.Start()
	c.model.SetEnabled(true)
	if c.view != nil {
		c.view.SetBackdropActive(true)
	}
}

// Disable stops the capture service and clears the backdrop. Idempotent.
func (c *BackdropPresenter) Disable() {
	if c == nil || c.model == nil || c.service == nil {
		return
	}
	if !c.model.Enabled() {
		return
	}
	c.service.Stop()
	c.model.SetEnabled(false)
	if c.sink != nil {
		c.sink.SetBackdrop(nil)
	}
	if c.view != nil {
		c.view.SetBackdropActive(false)
	}
	c.zones.Render()
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *BackdropPresenter) Toggle() {
	if c == nil || c.model == nil {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

// ProcessFrame shows the newest frame, if there is one, and re-renders.
func (c *BackdropPresenter) ProcessFrame() {
	if c == nil || c.model == nil || c.service == nil || !c.model.Enabled() {
		return
	}
	snap := c.service.LatestFrame()
	w, h := snap.Size()
	if snap.Image == nil || !c.model.Observe(snap.Sequence, w, h) {
		return
	}
	if c.sink != nil {
		c.sink.SetBackdrop(snap.Image)
	}
	vw, vh := images.FitSize(w, h, c.maxW, c.maxH)
	if !c.zones.Resize(vw, vh) {
		c.zones.Render()
	}
}
