package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprpal/minhypr/internal/layout"
	"github.com/hyprpal/minhypr/internal/util"
)

type fakeCapturer struct {
	geometry string
	write    func(out string) error
}

func (f *fakeCapturer) Capture(_ context.Context, geometry, out string) error {
	f.geometry = geometry
	return f.write(out)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func decodeSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return image.Pt(cfg.Width, cfg.Height)
}

func newPipeline(t *testing.T, capt Capturer) *Pipeline {
	t.Helper()
	return &Pipeline{
		Dir:      filepath.Join(t.TempDir(), "previews"),
		Capturer: capt,
		Resizer:  NativeResizer{},
		Thumb:    Size{Width: 200, Height: 150},
		Icon:     Size{Width: 64, Height: 64},
		Quality:  90,
		Logger:   util.Discard(),
	}
}

func TestPipelineCapture(t *testing.T) {
	capt := &fakeCapturer{}
	capt.write = func(out string) error {
		writePNG(t, out, 320, 120)
		return nil
	}
	p := newPipeline(t, capt)

	thumb, err := p.Capture(context.Background(), "0xabc", layout.Rect{X: 10, Y: 40, Width: 320, Height: 120})
	require.NoError(t, err)
	assert.Equal(t, "10,40 320x120", capt.geometry)

	files := p.FilesFor("0xabc")
	assert.Equal(t, files.Thumb, thumb)
	assert.Equal(t, image.Pt(200, 150), decodeSize(t, files.Thumb))
	assert.Equal(t, image.Pt(64, 64), decodeSize(t, files.Icon))
	assert.NoFileExists(t, files.Full, "full capture must be removed")

	p.Remove("0xabc")
	assert.NoFileExists(t, files.Thumb)
	assert.NoFileExists(t, files.Icon)
	p.Remove("0xabc")
}

func TestPipelineRejectsNonImage(t *testing.T) {
	capt := &fakeCapturer{write: func(out string) error {
		return os.WriteFile(out, []byte("grim: compositor doesn't support wlr-screencopy"), 0o644)
	}}
	p := newPipeline(t, capt)
	_, err := p.Capture(context.Background(), "0xabc", layout.Rect{Width: 10, Height: 10})
	require.Error(t, err)
	assert.NoFileExists(t, p.FilesFor("0xabc").Full)
	assert.NoFileExists(t, p.FilesFor("0xabc").Thumb)
}

func TestPipelineLogsFailedCaptureCleanup(t *testing.T) {
	capt := &fakeCapturer{write: func(out string) error {
		// A non-empty directory where the capture should be cannot be removed.
		return os.MkdirAll(filepath.Join(out, "stuck"), 0o755)
	}}
	p := newPipeline(t, capt)
	var logs bytes.Buffer
	p.Logger = util.NewLoggerWithWriter(util.LevelDebug, &logs)

	_, err := p.Capture(context.Background(), "0xabc", layout.Rect{Width: 10, Height: 10})
	require.Error(t, err)
	assert.Contains(t, logs.String(), "remove preview "+p.FilesFor("0xabc").Full)
}

func TestPipelineCaptureFailure(t *testing.T) {
	capt := &fakeCapturer{write: func(string) error { return errors.New("grim missing") }}
	p := newPipeline(t, capt)
	_, err := p.Capture(context.Background(), "0xabc", layout.Rect{Width: 10, Height: 10})
	assert.ErrorContains(t, err, "grim missing")
}

func TestPipelineRequiresGeometry(t *testing.T) {
	p := newPipeline(t, &fakeCapturer{write: func(string) error { return nil }})
	_, err := p.Capture(context.Background(), "0xabc", layout.Rect{})
	assert.ErrorIs(t, err, ErrNoGeometry)
}

func TestSafeID(t *testing.T) {
	assert.Equal(t, "0x55d3c1a2b3c0", safeID("0x55d3c1a2b3c0"))
	assert.Equal(t, "___etc_passwd", safeID("../etc/passwd"))
	assert.Equal(t, "_", safeID(""))
}

func TestCoverRect(t *testing.T) {
	tests := []struct {
		name string
		src  image.Rectangle
		size Size
		want image.Rectangle
	}{
		{"wide source crops sides", image.Rect(0, 0, 400, 150), Size{200, 150}, image.Rect(0, 0, 200, 150).Add(image.Pt(100, 0))},
		{"tall source crops top and bottom", image.Rect(0, 0, 100, 300), Size{64, 64}, image.Rect(0, 100, 100, 200)},
		{"same aspect keeps all", image.Rect(0, 0, 400, 300), Size{200, 150}, image.Rect(0, 0, 400, 300)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoverRect(tt.src, tt.size))
		})
	}
}

func TestSelectResizer(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	r, err := SelectResizer("native", time.Second)
	require.NoError(t, err)
	assert.IsType(t, NativeResizer{}, r)

	r, err = SelectResizer("auto", time.Second)
	require.NoError(t, err)
	assert.IsType(t, NativeResizer{}, r, "auto falls back to native without imagemagick")

	_, err = SelectResizer("convert", time.Second)
	assert.Error(t, err)
	_, err = SelectResizer("gimp", time.Second)
	assert.Error(t, err)
}

func TestSelectResizerFindsMagick(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "convert"), []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir)
	r, err := SelectResizer("auto", time.Second)
	require.NoError(t, err)
	cr, ok := r.(*ConvertResizer)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "convert"), cr.Binary)
}
