package layout

import "testing"

func TestGeometryFormatsForGrim(t *testing.T) {
	r := Rect{X: 10, Y: 40.4, Width: 1900, Height: 1019.6}
	if got := r.Geometry(); got != "10,40 1900x1020" {
		t.Fatalf("unexpected geometry %q", got)
	}
}

func TestRectFromPairs(t *testing.T) {
	rect, err := RectFromPairs("10,40", "[1900, 1020]")
	if err != nil {
		t.Fatalf("RectFromPairs: %v", err)
	}
	want := Rect{X: 10, Y: 40, Width: 1900, Height: 1020}
	if rect != want {
		t.Fatalf("unexpected rect %#v", rect)
	}
}

func TestRectFromPairsRejectsBadInput(t *testing.T) {
	cases := []struct{ at, size string }{
		{"10", "100,100"},
		{"10,40", "wide,tall"},
		{"10,40", "0,100"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := RectFromPairs(tc.at, tc.size); err == nil {
			t.Fatalf("expected error for at=%q size=%q", tc.at, tc.size)
		}
	}
}
