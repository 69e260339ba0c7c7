package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dispatcher executes hyprctl dispatch commands.
type Dispatcher interface {
	Dispatch(args ...string) error
}

// Plan is a collection of sequential hyprctl dispatch commands.
type Plan struct {
	Commands [][]string
}

// Add appends a dispatch invocation.
func (p *Plan) Add(args ...string) {
	p.Commands = append(p.Commands, args)
}

// Merge merges other plan into this one.
func (p *Plan) Merge(other Plan) {
	p.Commands = append(p.Commands, other.Commands...)
}

func target(address string) string {
	return "address:" + address
}

// Hide moves a client to a workspace without following it.
func Hide(address, workspace string) Plan {
	var p Plan
	p.Add("movetoworkspacesilent", workspace+","+target(address))
	return p
}

// Restore moves a client back to workspaceID and focuses it.
func Restore(address string, workspaceID int) Plan {
	var p Plan
	p.Add("movetoworkspace", strconv.Itoa(workspaceID)+","+target(address))
	p.Merge(Focus(address))
	return p
}

// Focus focuses the provided client address.
func Focus(address string) Plan {
	var p Plan
	p.Add("focuswindow", target(address))
	return p
}

// Execute applies the plan sequentially using dispatcher, stopping at the first failure.
func (p Plan) Execute(d Dispatcher) error {
	for _, cmd := range p.Commands {
		if err := d.Dispatch(cmd...); err != nil {
			return fmt.Errorf("dispatch %s: %w", strings.Join(cmd, " "), err)
		}
	}
	return nil
}

// ExecuteAll applies every command even when earlier ones fail and joins the errors.
func (p Plan) ExecuteAll(d Dispatcher) error {
	var errs []error
	for _, cmd := range p.Commands {
		if err := d.Dispatch(cmd...); err != nil {
			errs = append(errs, fmt.Errorf("dispatch %s: %w", strings.Join(cmd, " "), err))
		}
	}
	return errors.Join(errs...)
}
