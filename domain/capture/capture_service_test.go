package capture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureService_PublishesFrames(t *testing.T) {
	var calls atomic.Int32
	g := GrabberFunc(func() (*image.RGBA, error) {
		calls.Add(1)
		return image.NewRGBA(image.Rect(0, 0, 64, 48)), nil
	})
	svc := NewCaptureService(nil, g, 5*time.Millisecond)
	svc.Start()
	svc.Start() // idempotent
	defer svc.Stop()

	require.Eventually(t, func() bool { return svc.LatestFrame().Sequence >= 2 }, time.Second, 5*time.Millisecond)
	w, h := svc.LatestFrame().Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
	assert.True(t, svc.Running())

	svc.Stop()
	assert.False(t, svc.Running())
	stats := svc.Stats()
	assert.GreaterOrEqual(t, stats.Captures, uint64(2))
	assert.Zero(t, stats.Failures)
}

func TestCaptureService_CountsFailures(t *testing.T) {
	svc := NewCaptureService(nil, GrabberFunc(func() (*image.RGBA, error) {
		return nil, errors.New("no display")
	}), 5*time.Millisecond)
	svc.Start()
	defer svc.Stop()
	require.Eventually(t, func() bool { return svc.Stats().Failures >= 1 }, time.Second, 5*time.Millisecond)
	assert.Nil(t, svc.LatestFrame().Image)
}

func TestFileGrabber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	img, err := FileGrabber{Path: path}.Grab()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	_, err = FileGrabber{}.Grab()
	assert.Error(t, err)
	_, err = FileGrabber{Path: filepath.Join(t.TempDir(), "nope.png")}.Grab()
	assert.Error(t, err)
}
