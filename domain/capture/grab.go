package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures the whole primary screen, or Region when it is non-empty.
type ScreenGrabber struct {
	Region image.Rectangle
}

func (g ScreenGrabber) Grab() (*image.RGBA, error) {
	if !g.Region.Empty() {
		img, err := screenshot.CaptureRect(g.Region)
		if err != nil {
			return nil, fmt.Errorf("capture region %v: %w", g.Region, err)
		}
		return img, nil
	}
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

// FileGrabber loads a still frame (PNG or JPEG) exported from the video
// source. The file is re-read on every grab so an external tool can refresh it.
type FileGrabber struct {
	Path string
}

func (g FileGrabber) Grab() (*image.RGBA, error) {
	if g.Path == "" {
		return nil, errors.New("capture: no backdrop file")
	}
	f, err := os.Open(g.Path)
	if err != nil {
		return nil, fmt.Errorf("capture: open backdrop: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("capture: decode %s: %w", g.Path, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
