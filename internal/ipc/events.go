package ipc

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/hyprpal/minhypr/internal/state"
	"github.com/hyprpal/minhypr/internal/util"
)

// Event represents a Hyprland event stream payload.
type Event struct {
	Kind    string
	Payload string
}

// WindowAddress returns the window an event is about when the event can
// change whether that window is still minimized.
func (e Event) WindowAddress() (string, bool) {
	switch e.Kind {
	case "closewindow", "movewindow", "movewindowv2":
	default:
		return "", false
	}
	addr, _, _ := strings.Cut(e.Payload, ",")
	addr = state.NormalizeAddress(addr)
	return addr, addr != ""
}

// ParseEvent splits a raw `kind>>payload` line.
func ParseEvent(line string) Event {
	kind, payload, _ := strings.Cut(line, ">>")
	return Event{Kind: kind, Payload: payload}
}

// Subscribe connects to the Hyprland event socket and streams events until context cancellation.
func Subscribe(ctx context.Context, logger *util.Logger) (<-chan Event, error) {
	socket, err := instanceSocketPath(".socket2.sock")
	if err != nil {
		return nil, err
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("connect event socket: %w", err)
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	events := make(chan Event)
	go func() {
		defer close(events)
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			select {
			case events <- ParseEvent(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			logger.Warnf("event stream error: %v", err)
		}
	}()
	return events, nil
}
