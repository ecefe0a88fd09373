package images

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestFitSize(t *testing.T) {
	cases := []struct {
		sw, sh, mw, mh int
		w, h           int
	}{
		{1920, 1080, 960, 540, 960, 540},
		{1920, 1080, 800, 800, 800, 450},
		{640, 480, 800, 600, 640, 480},
		{100, 1000, 50, 50, 5, 50},
		{0, 10, 50, 50, 0, 0},
	}
	for _, c := range cases {
		w, h := FitSize(c.sw, c.sh, c.mw, c.mh)
		if w != c.w || h != c.h {
			t.Fatalf("FitSize(%d,%d,%d,%d) = %dx%d, want %dx%d", c.sw, c.sh, c.mw, c.mh, w, h, c.w, c.h)
		}
	}
}

func TestScaleToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out := ScaleToFit(src, 100, 100)
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("expected 100x50, got %v", b)
	}
	if same := ScaleToFit(src, 1000, 1000); same != image.Image(src) {
		t.Fatalf("fitting source should be returned unchanged")
	}
	if ScaleToFit(nil, 10, 10) != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestEncodePNG(t *testing.T) {
	b := EncodePNG(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
}
