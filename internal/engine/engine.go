package engine

import (
	"context"
	"errors"
	"time"

	"github.com/hyprpal/minhypr/internal/icons"
	"github.com/hyprpal/minhypr/internal/layout"
	"github.com/hyprpal/minhypr/internal/menu"
	"github.com/hyprpal/minhypr/internal/notify"
	"github.com/hyprpal/minhypr/internal/reconcile"
	"github.com/hyprpal/minhypr/internal/rules"
	"github.com/hyprpal/minhypr/internal/state"
	"github.com/hyprpal/minhypr/internal/store"
	"github.com/hyprpal/minhypr/internal/util"
)

// ErrNoWindows is returned by operations that need at least one record.
var ErrNoWindows = errors.New("no minimized windows")

type hyprctlClient interface {
	state.DataSource
	reconcile.LiveSource
	layout.Dispatcher
}

type recordStore interface {
	Load() store.Records
	Save(records store.Records) error
	Lock(ctx context.Context) (func(), error)
}

// Previewer captures and discards window thumbnails.
type Previewer interface {
	Capture(ctx context.Context, windowID string, geometry layout.Rect) (string, error)
	Remove(windowID string)
}

const (
	defaultLockTimeout = 5 * time.Second
	fallbackWorkspace  = 1
)

// Options tunes an Engine. Zero values select defaults.
type Options struct {
	// HiddenWorkspace is the hyprctl name windows are parked on, e.g. "special:minimized".
	HiddenWorkspace string
	LockTimeout     time.Duration
	Denylist        *rules.Denylist
	Icons           *icons.Resolver
	Selector        menu.Selector
	Now             func() time.Time
}

// Engine implements minimize and the restore family on top of the store.
type Engine struct {
	hyprctl    hyprctlClient
	store      recordStore
	previews   Previewer
	notifier   notify.Notifier
	logger     *util.Logger
	reconciler *reconcile.Engine

	workspace   string
	lockTimeout time.Duration
	denylist    *rules.Denylist
	icons       *icons.Resolver
	selector    menu.Selector
	now         func() time.Time
}

// New creates an engine. previews may be nil when capture is disabled.
func New(hyprctl hyprctlClient, st recordStore, previews Previewer, notifier notify.Notifier, logger *util.Logger, opts Options) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	e := &Engine{
		hyprctl:     hyprctl,
		store:       st,
		previews:    previews,
		notifier:    notifier,
		logger:      logger,
		workspace:   opts.HiddenWorkspace,
		lockTimeout: opts.LockTimeout,
		denylist:    opts.Denylist,
		icons:       opts.Icons,
		selector:    opts.Selector,
		now:         opts.Now,
	}
	if e.workspace == "" {
		e.workspace = "special:minimized"
	}
	if e.lockTimeout <= 0 {
		e.lockTimeout = defaultLockTimeout
	}
	if e.icons == nil {
		e.icons = icons.NewResolver()
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.reconciler = reconcile.New(hyprctl, st, notifier, logger, e.workspace)
	e.reconciler.OnEvict = func(r store.Record) { e.removePreview(r.Address) }
	return e
}

// Minimize parks the focused window on the hidden workspace and records it.
// Anything that prevents a clean minimize (nothing focused, a denylisted
// window, a rejected dispatch) is logged and leaves the store untouched.
func (e *Engine) Minimize(ctx context.Context) error {
	win, err := e.hyprctl.ActiveWindow(ctx)
	if err != nil {
		e.logger.Infof("nothing to minimize: %v", err)
		return nil
	}
	if reason, blocked := e.denylist.Blocks(win); blocked {
		e.logger.Infof("not minimizing %s (%s): denylisted by %s", win.Address, win.Class, reason)
		return nil
	}

	origin := e.originWorkspace(ctx, win)
	icon := e.icons.Resolve(win.Class)
	previewPath := ""
	if e.previews != nil && win.HasGeometry {
		path, err := e.previews.Capture(ctx, win.Address, win.Geometry)
		if err != nil {
			e.logger.Warnf("preview for %s unavailable: %v", win.Address, err)
		} else {
			previewPath = path
		}
	}

	if err := layout.Hide(win.Address, e.workspace).Execute(e.hyprctl); err != nil {
		e.logger.Warnf("minimize %s failed: %v", win.Address, err)
		if previewPath != "" {
			e.removePreview(win.Address)
		}
		return nil
	}

	unlock := e.lock(ctx)
	defer unlock()
	records, err := e.loadReconciled(ctx)
	if err != nil {
		return err
	}
	if records.Contains(win.Address) {
		e.logger.Debugf("%s already recorded, keeping existing record", win.Address)
	} else {
		records = append(records, store.Record{
			Address:         win.Address,
			DisplayLabel:    store.Label(icon, win.Class, win.Title, win.Address),
			Class:           win.Class,
			OriginalTitle:   win.Title,
			PreviewPath:     previewPath,
			Icon:            icon,
			OriginWorkspace: origin,
			MinimizedAt:     e.now().UTC(),
		})
	}
	if err := e.store.Save(records); err != nil {
		return err
	}
	e.logger.Infof("minimized %s (%s) from workspace %d", win.Address, win.Class, origin)
	e.notifier.Notify()
	return nil
}

func (e *Engine) originWorkspace(ctx context.Context, win state.ActiveWindow) int {
	id, err := e.hyprctl.ActiveWorkspaceID(ctx)
	if err == nil {
		return id
	}
	e.logger.Debugf("active workspace unknown: %v", err)
	if win.WorkspaceID != 0 {
		return win.WorkspaceID
	}
	return fallbackWorkspace
}

// Restore returns the window at address to its origin workspace and focuses
// it. It reports false when no record exists for address.
func (e *Engine) Restore(ctx context.Context, address string) (bool, error) {
	address = state.NormalizeAddress(address)
	unlock := e.lock(ctx)
	defer unlock()
	records, err := e.loadReconciled(ctx)
	if err != nil {
		return false, err
	}
	rec, ok := records.Find(address)
	if !ok {
		return false, nil
	}
	if err := e.restoreRecord(records, rec); err != nil {
		return true, err
	}
	e.notifier.Notify()
	return true, nil
}

// RestoreLast restores the most recently minimized window.
func (e *Engine) RestoreLast(ctx context.Context) (store.Record, error) {
	unlock := e.lock(ctx)
	defer unlock()
	records, err := e.loadReconciled(ctx)
	if err != nil {
		return store.Record{}, err
	}
	if len(records) == 0 {
		return store.Record{}, ErrNoWindows
	}
	rec := records[len(records)-1]
	if err := e.restoreRecord(records, rec); err != nil {
		return rec, err
	}
	e.notifier.Notify()
	return rec, nil
}

// RestoreAll restores every window, oldest first, and notifies once.
func (e *Engine) RestoreAll(ctx context.Context) (int, error) {
	unlock := e.lock(ctx)
	defer unlock()
	initial, err := e.loadReconciled(ctx)
	if err != nil {
		return 0, err
	}
	if len(initial) > 0 {
		e.logger.Debugf("restoring %d windows: %v", len(initial), initial.Addresses())
	}
	restored := 0
	defer func() {
		if restored > 0 {
			e.notifier.Notify()
		}
	}()
	// Bounded by the initial count so a record that cannot be removed does not loop forever.
	for range initial {
		current := e.store.Load()
		if len(current) == 0 {
			break
		}
		if err := e.restoreRecord(current, current[0]); err != nil {
			return restored, err
		}
		restored++
	}
	return restored, nil
}

// RestoreInteractive lets the user pick a window through the selector. The
// store lock is not held while the menu is open. It reports false when the
// menu was dismissed or failed to run, or the chosen window vanished meanwhile.
func (e *Engine) RestoreInteractive(ctx context.Context) (bool, error) {
	if e.selector == nil {
		return false, errors.New("no menu available")
	}
	records, err := e.MenuEntries(ctx)
	if err != nil {
		return false, err
	}
	if len(records) == 0 {
		return false, ErrNoWindows
	}
	idx, ok, err := e.selector.Select(ctx, menu.Labels(records))
	if err != nil {
		e.logger.Warnf("restore menu unavailable: %v", err)
		return false, nil
	}
	if !ok {
		e.logger.Debugf("restore menu dismissed")
		return false, nil
	}
	return e.Restore(ctx, records[idx].Address)
}

// MenuEntries returns the reconciled records for menu display.
func (e *Engine) MenuEntries(ctx context.Context) (store.Records, error) {
	unlock := e.lock(ctx)
	defer unlock()
	return e.loadReconciled(ctx)
}

// Reconcile runs one reconciliation pass against the stored records.
func (e *Engine) Reconcile(ctx context.Context) (reconcile.Report, error) {
	unlock := e.lock(ctx)
	defer unlock()
	_, report, err := e.reconciler.Run(ctx, e.store.Load())
	return report, err
}

// Status describes the store without querying Hyprland or writing anything.
func (e *Engine) Status() notify.Status {
	return notify.StatusFor(len(e.store.Load()))
}

func (e *Engine) restoreRecord(records store.Records, rec store.Record) error {
	if err := layout.Restore(state.NormalizeAddress(rec.Address), rec.OriginWorkspace).ExecuteAll(e.hyprctl); err != nil {
		e.logger.Warnf("restore %s: %v", rec.Address, err)
	}
	if err := e.store.Save(records.Without(rec.Address)); err != nil {
		return err
	}
	e.logger.Infof("restored %s (%s) to workspace %d", rec.Address, rec.Class, rec.OriginWorkspace)
	e.removePreview(rec.Address)
	return nil
}

func (e *Engine) loadReconciled(ctx context.Context) (store.Records, error) {
	return e.reconciler.Reconcile(ctx, e.store.Load())
}

// lock waits up to the lock timeout for the store lock and otherwise
// proceeds unlocked.
func (e *Engine) lock(ctx context.Context) func() {
	lctx, cancel := context.WithTimeout(ctx, e.lockTimeout)
	defer cancel()
	unlock, err := e.store.Lock(lctx)
	if err != nil {
		e.logger.Warnf("proceeding without store lock: %v", err)
		return func() {}
	}
	return unlock
}

func (e *Engine) removePreview(address string) {
	if e.previews != nil {
		e.previews.Remove(address)
	}
}
