package reconcile

import (
	"context"

	"github.com/hyprpal/minhypr/internal/notify"
	"github.com/hyprpal/minhypr/internal/state"
	"github.com/hyprpal/minhypr/internal/store"
	"github.com/hyprpal/minhypr/internal/util"
)

// LiveSource answers the two questions reconciliation asks Hyprland.
type LiveSource interface {
	ListClients(ctx context.Context) ([]state.Client, error)
	WorkspaceAddresses(ctx context.Context, name string) (map[string]struct{}, error)
}

// Saver persists a reconciled record list.
type Saver interface {
	Save(records store.Records) error
}

// Report summarizes one pass.
type Report struct {
	Checked int
	Kept    int
	Evicted int
}

// Engine drops records whose windows closed or left the hidden workspace.
type Engine struct {
	source    LiveSource
	saver     Saver
	notifier  notify.Notifier
	logger    *util.Logger
	workspace string

	// OnEvict runs for every dropped record after the filtered list is saved.
	OnEvict func(store.Record)
}

// New returns an engine checking membership of the named hidden workspace
// (e.g. "special:minimized").
func New(source LiveSource, saver Saver, notifier notify.Notifier, logger *util.Logger, workspace string) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Engine{source: source, saver: saver, notifier: notifier, logger: logger, workspace: workspace}
}

// Reconcile returns the records still backed by a hidden window. When either
// query fails the input is returned unchanged; only a failed save is an error.
func (e *Engine) Reconcile(ctx context.Context, records store.Records) (store.Records, error) {
	kept, _, err := e.Run(ctx, records)
	return kept, err
}

// Run is Reconcile with a pass report.
func (e *Engine) Run(ctx context.Context, records store.Records) (store.Records, Report, error) {
	report := Report{Checked: len(records), Kept: len(records)}
	if len(records) == 0 {
		return records, report, nil
	}

	clients, err := e.source.ListClients(ctx)
	if err != nil {
		e.logger.Warnf("reconcile skipped, list clients: %v", err)
		return records, report, nil
	}
	live := state.AddressSet(clients)
	hidden, err := e.source.WorkspaceAddresses(ctx, e.workspace)
	if err != nil {
		e.logger.Warnf("reconcile skipped, list %s: %v", e.workspace, err)
		return records, report, nil
	}

	kept := make(store.Records, 0, len(records))
	var evicted store.Records
	for _, r := range records {
		addr := state.NormalizeAddress(r.Address)
		_, alive := live[addr]
		_, parked := hidden[addr]
		if alive && parked {
			kept = append(kept, r)
			continue
		}
		evicted = append(evicted, r)
	}
	report.Kept = len(kept)
	report.Evicted = len(evicted)
	e.logger.Debugf("reconcile checked=%d kept=%d evicted=%d", report.Checked, report.Kept, report.Evicted)
	if len(evicted) == 0 {
		return records, report, nil
	}

	if err := e.saver.Save(kept); err != nil {
		return nil, report, err
	}
	for _, r := range evicted {
		e.logger.Infof("evicted %s (%s), no longer on %s", r.Address, r.Class, e.workspace)
		if e.OnEvict != nil {
			e.OnEvict(r)
		}
	}
	e.notifier.Notify()
	return kept, report, nil
}
