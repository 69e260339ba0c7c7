package ipc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyprpal/minhypr/internal/state"
)

// fakeHyprctl writes a shell script that answers hyprctl queries from canned
// files named after the last argument.
func fakeHyprctl(t *testing.T, replies map[string]string) *Client {
	t.Helper()
	dir := t.TempDir()
	for name, body := range replies {
		if err := os.WriteFile(filepath.Join(dir, name+".out"), []byte(body), 0o644); err != nil {
			t.Fatalf("write reply: %v", err)
		}
	}
	script := `#!/bin/sh
dir="$(dirname "$0")"
if [ "$1" = "dispatch" ]; then
  echo "$*" >> "$dir/dispatch.log"
  cat "$dir/dispatch.out" 2>/dev/null || echo ok
  exit 0
fi
for last; do :; done
if [ -f "$dir/$last.out" ]; then
  cat "$dir/$last.out"
  exit 0
fi
echo "unknown request $last" >&2
exit 1
`
	bin := filepath.Join(dir, "hyprctl")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return &Client{Binary: bin, Timeout: 2 * time.Second}
}

const clientsJSON = `[
 {"address":"0xAAA","class":"firefox","title":"Docs","workspace":{"id":2,"name":"2"},"at":[10,40],"size":[800,600]},
 {"address":"0xbbb","class":"kitty","title":"shell","workspace":{"id":-98,"name":"special:minimized"},"at":[0,0],"size":[640,480]}
]`

const workspacesJSON = `[
 {"id":2,"name":"2","windows":1,"lastwindow":"0xaaa"},
 {"id":-98,"name":"special:minimized","windows":1,"lastwindow":"0xbbb"}
]`

func TestClientListClients(t *testing.T) {
	c := fakeHyprctl(t, map[string]string{"clients": clientsJSON})
	clients, err := c.ListClients(context.Background())
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(clients))
	}
	first := clients[0]
	if first.Address != "0xaaa" || first.WorkspaceID != 2 || first.WorkspaceName != "2" {
		t.Fatalf("unexpected first client: %+v", first)
	}
	if first.Geometry.Geometry() != "10,40 800x600" {
		t.Fatalf("unexpected geometry %q", first.Geometry.Geometry())
	}
}

func TestClientWorkspaceAddresses(t *testing.T) {
	c := fakeHyprctl(t, map[string]string{"clients": clientsJSON, "workspaces": workspacesJSON})
	set, err := c.WorkspaceAddresses(context.Background(), "special:minimized")
	if err != nil {
		t.Fatalf("WorkspaceAddresses: %v", err)
	}
	if _, ok := set["0xbbb"]; !ok || len(set) != 1 {
		t.Fatalf("unexpected set %v", set)
	}
}

func TestClientWorkspaceAddressesMissingWorkspace(t *testing.T) {
	c := fakeHyprctl(t, map[string]string{"workspaces": `[{"id":1,"name":"1"}]`})
	set, err := c.WorkspaceAddresses(context.Background(), "special:minimized")
	if err != nil {
		t.Fatalf("WorkspaceAddresses: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}
}

func TestClientActiveWindowAndWorkspace(t *testing.T) {
	c := fakeHyprctl(t, map[string]string{
		"activewindow":    `{"address":"0xCCC","class":"kitty","title":"vim","workspace":{"id":3,"name":"3"},"at":[5,6],"size":[100,200]}`,
		"activeworkspace": `{"id":3,"name":"3","windows":2}`,
	})
	win, err := c.ActiveWindow(context.Background())
	if err != nil {
		t.Fatalf("ActiveWindow: %v", err)
	}
	if win.Address != "0xccc" || win.Class != "kitty" || win.Title != "vim" {
		t.Fatalf("unexpected window %+v", win)
	}
	id, err := c.ActiveWorkspaceID(context.Background())
	if err != nil {
		t.Fatalf("ActiveWorkspaceID: %v", err)
	}
	if id != 3 {
		t.Fatalf("expected workspace 3, got %d", id)
	}
}

func TestClientActiveWindowNoneFocused(t *testing.T) {
	c := fakeHyprctl(t, map[string]string{"activewindow": "Invalid\n"})
	if _, err := c.ActiveWindow(context.Background()); err == nil {
		t.Fatal("expected error when nothing is focused")
	}
}

func TestClientQueryFailure(t *testing.T) {
	c := fakeHyprctl(t, nil)
	_, err := c.ListClients(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unknown request") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestClientDispatchChecksReply(t *testing.T) {
	c := fakeHyprctl(t, nil)
	if err := c.Dispatch("focuswindow", "address:0xaaa"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	c = fakeHyprctl(t, map[string]string{"dispatch": "No such window found\n"})
	if err := c.Dispatch("focuswindow", "address:0xaaa"); err == nil {
		t.Fatal("expected error on non-ok reply")
	}
}

var _ state.DataSource = (*EngineClient)(nil)
