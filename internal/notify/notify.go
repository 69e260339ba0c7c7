package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/hyprpal/minhypr/internal/util"
)

// StatusGlyph prefixes the status bar text.
const StatusGlyph = "\U000f0638"

// Status is the record a status bar module prints.
type Status struct {
	Text    string `json:"text"`
	Class   string `json:"class"`
	Tooltip string `json:"tooltip"`
}

// StatusFor describes a store holding count records.
func StatusFor(count int) Status {
	if count <= 0 {
		return Status{Text: StatusGlyph, Class: "empty", Tooltip: "No minimized windows"}
	}
	return Status{
		Text:    fmt.Sprintf("%s %d", StatusGlyph, count),
		Class:   "has-windows",
		Tooltip: fmt.Sprintf("%d minimized windows", count),
	}
}

// JSON renders the status as a single line.
func (s Status) JSON() string {
	data, _ := json.Marshal(s)
	return string(data)
}

// Notifier tells interested processes that the store changed.
type Notifier interface {
	Notify()
}

// Nop ignores notifications.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify() {}

// SignalNotifier broadcasts SIGRTMIN+Signal to every process named Process.
// Failures are logged at debug and otherwise ignored.
type SignalNotifier struct {
	Binary  string
	Process string
	Signal  int
	Timeout time.Duration
	Logger  *util.Logger
}

// NewSignalNotifier returns a notifier using pkill.
func NewSignalNotifier(process string, signal int, timeout time.Duration, logger *util.Logger) *SignalNotifier {
	return &SignalNotifier{Binary: "pkill", Process: process, Signal: signal, Timeout: timeout, Logger: logger}
}

// Args returns the pkill arguments.
func (n *SignalNotifier) Args() []string {
	return []string{fmt.Sprintf("-RTMIN+%d", n.Signal), n.Process}
}

// Notify sends the signal.
func (n *SignalNotifier) Notify() {
	ctx := context.Background()
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}
	if err := exec.CommandContext(ctx, n.Binary, n.Args()...).Run(); err != nil {
		n.Logger.Debugf("refresh signal to %s: %v", n.Process, err)
	}
}
