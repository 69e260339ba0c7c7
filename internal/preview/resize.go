package preview

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Resizer scales src to cover size, center-crops the overflow and writes dst.
type Resizer interface {
	Resize(ctx context.Context, src, dst string, size Size, quality int) error
}

// ConvertResizer uses ImageMagick.
type ConvertResizer struct {
	Binary  string
	Timeout time.Duration
}

// Resize runs `<magick> src -resize WxH^ -gravity center -extent WxH -quality Q dst`.
func (c *ConvertResizer) Resize(ctx context.Context, src, dst string, size Size, quality int) error {
	dims := fmt.Sprintf("%dx%d", size.Width, size.Height)
	return runTool(ctx, c.Timeout, c.Binary,
		src,
		"-resize", dims+"^",
		"-gravity", "center",
		"-extent", dims,
		"-quality", strconv.Itoa(quality),
		dst,
	)
}

// NativeResizer scales with Catmull-Rom in process. Output is PNG, so the
// quality argument only selects the compression level.
type NativeResizer struct{}

// Resize implements Resizer.
func (NativeResizer) Resize(_ context.Context, src, dst string, size Size, quality int) error {
	if size.Width <= 0 || size.Height <= 0 {
		return errors.Errorf("invalid target size %dx%d", size.Width, size.Height)
	}
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open %s", src)
	}
	img, _, err := image.Decode(in)
	in.Close()
	if err != nil {
		return errors.Wrapf(err, "decode %s", src)
	}

	out := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, CoverRect(img.Bounds(), size), draw.Src, nil)

	file, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "create %s", dst)
	}
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if quality >= 90 {
		enc.CompressionLevel = png.BestCompression
	}
	if err := enc.Encode(file, out); err != nil {
		file.Close()
		return errors.Wrapf(err, "encode %s", dst)
	}
	return file.Close()
}

// CoverRect returns the centered region of src with the aspect ratio of size,
// which is what a cover-then-crop resize keeps.
func CoverRect(src image.Rectangle, size Size) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 || size.Width == 0 || size.Height == 0 {
		return src
	}
	// Compare sw/sh with tw/th without floating point.
	cw, ch := sw, sh
	if sw*size.Height > sh*size.Width {
		cw = sh * size.Width / size.Height
	} else {
		ch = sw * size.Height / size.Width
	}
	x0 := src.Min.X + (sw-cw)/2
	y0 := src.Min.Y + (sh-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch)
}

// SelectResizer picks a resizer for the configured mode: "convert" needs
// ImageMagick on PATH, "native" never shells out and "auto" prefers ImageMagick.
func SelectResizer(mode string, timeout time.Duration) (Resizer, error) {
	switch mode {
	case "native":
		return NativeResizer{}, nil
	case "convert":
		bin, err := findMagick()
		if err != nil {
			return nil, err
		}
		return &ConvertResizer{Binary: bin, Timeout: timeout}, nil
	case "", "auto":
		if bin, err := findMagick(); err == nil {
			return &ConvertResizer{Binary: bin, Timeout: timeout}, nil
		}
		return NativeResizer{}, nil
	default:
		return nil, errors.Errorf("unknown resizer %q", mode)
	}
}

func findMagick() (string, error) {
	for _, name := range []string{"magick", "convert"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New("imagemagick not found on PATH")
}
