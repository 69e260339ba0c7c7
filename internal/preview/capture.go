package preview

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Capturer writes a screenshot of a screen region to out.
type Capturer interface {
	Capture(ctx context.Context, geometry, out string) error
}

// GrimCapturer shells out to grim.
type GrimCapturer struct {
	Binary  string
	Timeout time.Duration
}

// NewGrimCapturer returns a capturer using grim from PATH.
func NewGrimCapturer(timeout time.Duration) *GrimCapturer {
	return &GrimCapturer{Binary: "grim", Timeout: timeout}
}

// Capture runs `grim -g "<x>,<y> <w>x<h>" out`.
func (g *GrimCapturer) Capture(ctx context.Context, geometry, out string) error {
	return runTool(ctx, g.Timeout, g.Binary, "-g", geometry, out)
}

func runTool(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s: %s", name, strings.TrimSpace(stderr.String()))
	}
	return nil
}
