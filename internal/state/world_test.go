package state

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hyprpal/minhypr/internal/layout"
	"github.com/hyprpal/minhypr/internal/wininfo"
)

func TestActiveWindowFromHyprctlPayload(t *testing.T) {
	fields := wininfo.Parse(`{"address":"0x55D3","class":"kitty","title":"shell","at":[10,40],"size":[800,600],"workspace":{"id":4,"name":"4"}}`)
	win, err := ActiveWindowFromFields(fields)
	if err != nil {
		t.Fatalf("ActiveWindowFromFields: %v", err)
	}
	want := ActiveWindow{
		Address:       "0x55d3",
		Class:         "kitty",
		Title:         "shell",
		WorkspaceID:   4,
		WorkspaceName: "4",
		Geometry:      layout.Rect{X: 10, Y: 40, Width: 800, Height: 600},
		HasGeometry:   true,
	}
	if diff := cmp.Diff(want, win); diff != "" {
		t.Fatalf("window mismatch (-want +got):\n%s", diff)
	}
}

func TestActiveWindowFromDegradedPayload(t *testing.T) {
	win, err := ActiveWindowFromFields(wininfo.Parse(`address:0xabc,class:kitty,title:shell`))
	if err != nil {
		t.Fatalf("ActiveWindowFromFields: %v", err)
	}
	if win.HasGeometry {
		t.Fatalf("expected no geometry from degraded payload")
	}
	if win.Address != "0xabc" || win.Class != "kitty" || win.Title != "shell" {
		t.Fatalf("unexpected window %#v", win)
	}
}

func TestActiveWindowRequiresIdentity(t *testing.T) {
	for _, raw := range []string{`{}`, `{"address":"0x1","class":"kitty"}`, `{"class":"kitty","title":"t"}`} {
		if _, err := ActiveWindowFromFields(wininfo.Parse(raw)); !errors.Is(err, ErrIncompleteWindow) {
			t.Fatalf("expected ErrIncompleteWindow for %s, got %v", raw, err)
		}
	}
}

func TestNormalizeAddress(t *testing.T) {
	cases := map[string]string{
		"55d3c1":   "0x55d3c1",
		"0x55D3C1": "0x55d3c1",
		" 0xabc ":  "0xabc",
		"":         "",
	}
	for in, want := range cases {
		if got := NormalizeAddress(in); got != want {
			t.Fatalf("NormalizeAddress(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientsOnMatchesNameOrID(t *testing.T) {
	clients := []Client{
		{Address: "0x1", WorkspaceID: -98, WorkspaceName: "special:minimized"},
		{Address: "0x2", WorkspaceID: -98},
		{Address: "0x3", WorkspaceID: 1, WorkspaceName: "1"},
		{Address: "0x10", WorkspaceID: 1, WorkspaceName: "1"},
	}
	got := ClientsOn(clients, Workspace{ID: -98, Name: "special:minimized"})
	want := map[string]struct{}{"0x1": {}, "0x2": {}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ClientsOn mismatch (-want +got):\n%s", diff)
	}
	if FindWorkspace([]Workspace{{Name: "1"}}, "special:minimized") != nil {
		t.Fatalf("expected missing workspace to return nil")
	}
}
