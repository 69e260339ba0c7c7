package preview

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/hyprpal/minhypr/internal/layout"
	"github.com/hyprpal/minhypr/internal/util"
)

// ErrNoGeometry is returned when a window has no usable size.
var ErrNoGeometry = errors.New("window geometry unknown")

// Size is a target image size in pixels.
type Size struct {
	Width  int
	Height int
}

// Pipeline captures a window and derives its menu thumbnail and icon.
type Pipeline struct {
	Dir      string
	Capturer Capturer
	Resizer  Resizer
	Thumb    Size
	Icon     Size
	Quality  int
	Logger   *util.Logger
}

// Files lists the images derived for one window.
type Files struct {
	Full  string
	Thumb string
	Icon  string
}

// FilesFor returns the paths used for windowID. Repeat captures of the same
// window overwrite the same files.
func (p *Pipeline) FilesFor(windowID string) Files {
	base := filepath.Join(p.Dir, safeID(windowID))
	return Files{Full: base + ".png", Thumb: base + ".thumb.png", Icon: base + ".icon.png"}
}

// Capture screenshots the window region and returns the thumbnail path. The
// full-size capture is removed once both derived images exist.
func (p *Pipeline) Capture(ctx context.Context, windowID string, geometry layout.Rect) (string, error) {
	if geometry.Empty() {
		return "", ErrNoGeometry
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create preview directory")
	}
	files := p.FilesFor(windowID)

	if err := p.Capturer.Capture(ctx, geometry.Geometry(), files.Full); err != nil {
		return "", errors.Wrapf(err, "capture %s", windowID)
	}
	defer p.removeFile(files.Full)

	mtype, err := mimetype.DetectFile(files.Full)
	if err != nil {
		return "", errors.Wrap(err, "inspect capture")
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errors.Errorf("capture is %s, not an image", mtype.String())
	}

	if err := p.Resizer.Resize(ctx, files.Full, files.Thumb, p.Thumb, p.Quality); err != nil {
		return "", errors.Wrap(err, "thumbnail")
	}
	if err := p.Resizer.Resize(ctx, files.Full, files.Icon, p.Icon, p.Quality); err != nil {
		p.removeFile(files.Thumb)
		return "", errors.Wrap(err, "icon")
	}
	p.Logger.Debugf("preview for %s written to %s", windowID, files.Thumb)
	return files.Thumb, nil
}

// Remove deletes every image derived for windowID. Missing files are ignored.
func (p *Pipeline) Remove(windowID string) {
	files := p.FilesFor(windowID)
	for _, path := range []string{files.Full, files.Thumb, files.Icon} {
		p.removeFile(path)
	}
}

func (p *Pipeline) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.Logger.Debugf("remove preview %s: %v", path, err)
	}
}

func safeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
