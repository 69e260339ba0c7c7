package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Prompt is shown by the interactive restore menu.
const Prompt = "Restore window:"

// Selector asks the user to pick one of labels. ok is false when the menu
// was dismissed.
type Selector interface {
	Select(ctx context.Context, labels []string) (index int, ok bool, err error)
}

// RofiSelector runs rofi in dmenu mode and reads back the chosen index.
type RofiSelector struct {
	Binary string
	Theme  string
}

// NewRofiSelector returns a selector using rofi from PATH.
func NewRofiSelector(theme string) *RofiSelector {
	return &RofiSelector{Binary: "rofi", Theme: theme}
}

// Args returns the rofi command line.
func (r *RofiSelector) Args() []string {
	args := []string{"-dmenu", "-i", "-no-custom", "-format", "i", "-p", Prompt}
	if r.Theme != "" {
		args = append(args, "-theme", r.Theme)
	}
	return args
}

// Select implements Selector.
func (r *RofiSelector) Select(ctx context.Context, labels []string) (int, bool, error) {
	if len(labels) == 0 {
		return 0, false, nil
	}
	cmd := exec.CommandContext(ctx, r.Binary, r.Args()...)
	cmd.Stdin = strings.NewReader(strings.Join(labels, "\n") + "\n")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("rofi: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return 0, false, nil
	}
	idx, err := strconv.Atoi(out)
	if err != nil {
		return 0, false, fmt.Errorf("rofi returned %q: %w", out, err)
	}
	if idx < 0 || idx >= len(labels) {
		return 0, false, fmt.Errorf("rofi returned index %d of %d", idx, len(labels))
	}
	return idx, true, nil
}
