package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hyprpal/minhypr/internal/layout"
	"github.com/hyprpal/minhypr/internal/state"
	"github.com/hyprpal/minhypr/internal/util"
	"github.com/hyprpal/minhypr/internal/wininfo"
)

// Client wraps hyprctl shell-outs.
type Client struct {
	Binary  string
	Timeout time.Duration
}

// NewClient returns a hyprctl client using the binary on PATH.
func NewClient(timeout time.Duration) *Client {
	return &Client{Binary: "hyprctl", Timeout: timeout}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("hyprctl %s: %v: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (c *Client) queryJSON(ctx context.Context, topic string) ([]byte, error) {
	return c.run(ctx, "-j", topic)
}

// ActiveWindow returns the focused client. Fields are read through the
// tolerant wininfo parser because hyprctl prints plain text when nothing is focused.
func (c *Client) ActiveWindow(ctx context.Context) (state.ActiveWindow, error) {
	data, err := c.queryJSON(ctx, "activewindow")
	if err != nil {
		return state.ActiveWindow{}, err
	}
	return state.ActiveWindowFromFields(wininfo.Parse(string(data)))
}

// ActiveWorkspaceID returns currently focused workspace id.
func (c *Client) ActiveWorkspaceID(ctx context.Context) (int, error) {
	data, err := c.queryJSON(ctx, "activeworkspace")
	if err != nil {
		return 0, err
	}
	id, ok := state.WorkspaceIDFromFields(wininfo.Parse(string(data)))
	if !ok {
		return 0, fmt.Errorf("decode activeworkspace: no numeric id in %q", strings.TrimSpace(string(data)))
	}
	return id, nil
}

// ListClients returns all clients.
func (c *Client) ListClients(ctx context.Context) ([]state.Client, error) {
	data, err := c.queryJSON(ctx, "clients")
	if err != nil {
		return nil, err
	}
	var raw []struct {
		Address   string `json:"address"`
		Class     string `json:"class"`
		Title     string `json:"title"`
		Workspace struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"workspace"`
		At   []float64 `json:"at"`
		Size []float64 `json:"size"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	clients := make([]state.Client, 0, len(raw))
	for _, cl := range raw {
		rect := layout.Rect{}
		if len(cl.At) == 2 {
			rect.X = cl.At[0]
			rect.Y = cl.At[1]
		}
		if len(cl.Size) == 2 {
			rect.Width = cl.Size[0]
			rect.Height = cl.Size[1]
		}
		clients = append(clients, state.Client{
			Address:       state.NormalizeAddress(cl.Address),
			Class:         cl.Class,
			Title:         cl.Title,
			WorkspaceID:   cl.Workspace.ID,
			WorkspaceName: cl.Workspace.Name,
			Geometry:      rect,
		})
	}
	return clients, nil
}

// ListWorkspaces returns workspaces.
func (c *Client) ListWorkspaces(ctx context.Context) ([]state.Workspace, error) {
	data, err := c.queryJSON(ctx, "workspaces")
	if err != nil {
		return nil, err
	}
	var raw []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode workspaces: %w", err)
	}
	workspaces := make([]state.Workspace, 0, len(raw))
	for _, ws := range raw {
		workspaces = append(workspaces, state.Workspace{ID: ws.ID, Name: ws.Name})
	}
	return workspaces, nil
}

// WorkspaceAddresses returns the addresses assigned to the named workspace.
// Hyprland destroys empty special workspaces, so a missing workspace yields an
// empty set rather than an error.
func (c *Client) WorkspaceAddresses(ctx context.Context, name string) (map[string]struct{}, error) {
	workspaces, err := c.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	ws := state.FindWorkspace(workspaces, name)
	if ws == nil {
		return map[string]struct{}{}, nil
	}
	clients, err := c.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return state.ClientsOn(clients, *ws), nil
}

// Dispatch invokes `hyprctl dispatch`. hyprctl exits zero even when the
// dispatcher rejects the command, so the reply text is checked as well.
func (c *Client) Dispatch(args ...string) error {
	dispatchArgs := append([]string{"dispatch"}, args...)
	out, err := c.run(context.Background(), dispatchArgs...)
	if err != nil {
		return err
	}
	return checkReply(out)
}

func checkReply(out []byte) error {
	reply := strings.TrimSpace(string(out))
	if reply != "ok" {
		return fmt.Errorf("hyprland replied %q", reply)
	}
	return nil
}

var _ state.DataSource = (*Client)(nil)
var _ layout.Dispatcher = (*Client)(nil)

// DispatchStrategy describes how dispatch commands are issued to Hyprland.
type DispatchStrategy string

const (
	// DispatchStrategySocket uses the Hyprland command socket directly.
	DispatchStrategySocket DispatchStrategy = "socket"
	// DispatchStrategyHyprctl shells out to the hyprctl binary.
	DispatchStrategyHyprctl DispatchStrategy = "hyprctl"
)

// EngineClient pairs the hyprctl data source with the selected dispatcher.
type EngineClient struct {
	*Client
	dispatcher layout.Dispatcher
}

// Dispatch forwards dispatch requests to the active dispatcher.
func (c *EngineClient) Dispatch(args ...string) error {
	if c.dispatcher != nil {
		return c.dispatcher.Dispatch(args...)
	}
	return c.Client.Dispatch(args...)
}

// NewEngineClient returns a client using the requested strategy when possible.
func NewEngineClient(logger *util.Logger, requested DispatchStrategy, timeout time.Duration) (*EngineClient, DispatchStrategy, error) {
	base := NewClient(timeout)
	switch requested {
	case DispatchStrategySocket:
		disp, err := newSocketDispatcher(timeout)
		if err != nil {
			logger.Debugf("falling back to hyprctl dispatch: %v", err)
			return &EngineClient{Client: base}, DispatchStrategyHyprctl, nil
		}
		logger.Debugf("using socket dispatch at %s", disp.DispatchSocketPath())
		return &EngineClient{Client: base, dispatcher: disp}, DispatchStrategySocket, nil
	case DispatchStrategyHyprctl:
		return &EngineClient{Client: base}, DispatchStrategyHyprctl, nil
	default:
		return nil, "", fmt.Errorf("unknown dispatch strategy %q", requested)
	}
}

var _ layout.Dispatcher = (*EngineClient)(nil)
