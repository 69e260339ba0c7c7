package ipc

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyprpal/minhypr/internal/layout"
)

type socketDispatcher struct {
	path    string
	timeout time.Duration
}

func newSocketDispatcher(timeout time.Duration) (*socketDispatcher, error) {
	path, err := instanceSocketPath(".socket.sock")
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("dispatch socket: %w", err)
	}
	return &socketDispatcher{path: path, timeout: timeout}, nil
}

// Dispatch sends one command per connection and waits for Hyprland's reply,
// which is "ok" on success and an error message otherwise.
func (d *socketDispatcher) Dispatch(args ...string) error {
	if len(args) == 0 {
		return nil
	}
	conn, err := net.DialTimeout("unix", d.path, d.deadline())
	if err != nil {
		return fmt.Errorf("connect dispatch socket: %w", err)
	}
	defer conn.Close()
	if d.timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(d.timeout)); err != nil {
			return fmt.Errorf("set dispatch deadline: %w", err)
		}
	}

	payload := "dispatch " + strings.Join(args, " ")
	if _, err := conn.Write([]byte(payload)); err != nil {
		return fmt.Errorf("write dispatch payload: %w", err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		_ = uc.CloseWrite()
	}
	reply, err := io.ReadAll(conn)
	if err != nil {
		return fmt.Errorf("read dispatch reply: %w", err)
	}
	return checkReply(reply)
}

func (d *socketDispatcher) deadline() time.Duration {
	if d.timeout > 0 {
		return d.timeout
	}
	return 5 * time.Second
}

func (d *socketDispatcher) DispatchSocketPath() string {
	return d.path
}

func instanceSocketPath(name string) (string, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if sig == "" {
		return "", fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE not set")
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return "", fmt.Errorf("XDG_RUNTIME_DIR not set")
	}
	return filepath.Join(runtimeDir, "hypr", sig, name), nil
}

var _ layout.Dispatcher = (*socketDispatcher)(nil)
