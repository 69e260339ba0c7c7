package state

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/hyprpal/minhypr/internal/layout"
	"github.com/hyprpal/minhypr/internal/wininfo"
)

// ErrIncompleteWindow is returned when the active window lacks an address, class or title.
var ErrIncompleteWindow = errors.New("active window is missing address, class or title")

// Client describes a Hyprland client window.
type Client struct {
	Address       string
	Class         string
	Title         string
	WorkspaceID   int
	WorkspaceName string
	Geometry      layout.Rect
}

// Workspace describes a Hyprland workspace.
type Workspace struct {
	ID   int
	Name string
}

// ActiveWindow is the typed view of `hyprctl activewindow`.
type ActiveWindow struct {
	Address       string
	Class         string
	Title         string
	WorkspaceID   int
	WorkspaceName string
	Geometry      layout.Rect
	HasGeometry   bool
}

// DataSource abstracts the queries the minimize flow needs.
type DataSource interface {
	ActiveWindow(ctx context.Context) (ActiveWindow, error)
	ActiveWorkspaceID(ctx context.Context) (int, error)
	ListClients(ctx context.Context) ([]Client, error)
}

// ActiveWindowFromFields converts parsed hyprctl fields into an ActiveWindow.
// Geometry and workspace are optional; address, class and title are not.
func ActiveWindowFromFields(f wininfo.Fields) (ActiveWindow, error) {
	address, _ := f.Get("address")
	class, hasClass := f.Get("class")
	title, hasTitle := f.Get("title")
	if address == "" || !hasClass || !hasTitle {
		return ActiveWindow{}, ErrIncompleteWindow
	}
	win := ActiveWindow{
		Address: NormalizeAddress(address),
		Class:   class,
		Title:   title,
	}
	if id, ok := intField(f, "workspace.id"); ok {
		win.WorkspaceID = id
	} else if id, ok := intField(f, "workspace"); ok {
		win.WorkspaceID = id
	}
	win.WorkspaceName, _ = f.Get("workspace.name")
	at, hasAt := f.Get("at")
	size, hasSize := f.Get("size")
	if hasAt && hasSize {
		if rect, err := layout.RectFromPairs(at, size); err == nil {
			win.Geometry = rect
			win.HasGeometry = true
		}
	}
	return win, nil
}

// WorkspaceIDFromFields extracts the "id" of an activeworkspace payload.
func WorkspaceIDFromFields(f wininfo.Fields) (int, bool) {
	return intField(f, "id")
}

func intField(f wininfo.Fields, key string) (int, bool) {
	raw, ok := f.Get(key)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeAddress lower-cases an address and ensures the 0x prefix, so event
// payloads ("55d3...") compare equal to hyprctl output ("0x55d3...").
func NormalizeAddress(address string) string {
	a := strings.ToLower(strings.TrimSpace(address))
	if a == "" {
		return ""
	}
	if !strings.HasPrefix(a, "0x") {
		a = "0x" + a
	}
	return a
}

// AddressSet indexes clients by normalized address.
func AddressSet(clients []Client) map[string]struct{} {
	set := make(map[string]struct{}, len(clients))
	for _, c := range clients {
		if addr := NormalizeAddress(c.Address); addr != "" {
			set[addr] = struct{}{}
		}
	}
	return set
}

// ClientsOn returns the addresses of clients assigned to ws, matching by name
// and, when the workspace id is known, by id.
func ClientsOn(clients []Client, ws Workspace) map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range clients {
		if c.WorkspaceName == ws.Name || (ws.ID != 0 && c.WorkspaceID == ws.ID) {
			if addr := NormalizeAddress(c.Address); addr != "" {
				set[addr] = struct{}{}
			}
		}
	}
	return set
}

// FindWorkspace returns the workspace with the given name, or nil.
func FindWorkspace(workspaces []Workspace, name string) *Workspace {
	for i := range workspaces {
		if workspaces[i].Name == name {
			return &workspaces[i]
		}
	}
	return nil
}
