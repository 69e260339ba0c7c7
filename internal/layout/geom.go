package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect represents a window geometry in logical pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Empty reports whether the rect has no visible area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Geometry formats the rect the way grim's -g flag expects ("x,y wxh").
func (r Rect) Geometry() string {
	return fmt.Sprintf("%d,%d %dx%d",
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Width)), int(math.Round(r.Height)))
}

// RectFromPairs builds a rect from hyprctl's "at" and "size" values, each a
// comma-separated pair such as "10,40".
func RectFromPairs(at, size string) (Rect, error) {
	x, y, err := parsePair(at)
	if err != nil {
		return Rect{}, fmt.Errorf("parse at %q: %w", at, err)
	}
	w, h, err := parsePair(size)
	if err != nil {
		return Rect{}, fmt.Errorf("parse size %q: %w", size, err)
	}
	rect := Rect{X: x, Y: y, Width: w, Height: h}
	if rect.Empty() {
		return Rect{}, fmt.Errorf("empty geometry %s", rect.Geometry())
	}
	return rect, nil
}

func parsePair(s string) (float64, float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	first, second, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected two comma-separated values")
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(first), 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(second), 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
