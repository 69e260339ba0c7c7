package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hyprpal/minhypr/internal/engine"
	"github.com/hyprpal/minhypr/internal/ipc"
	"github.com/hyprpal/minhypr/internal/util"
)

const debounceWindow = 250 * time.Millisecond

// runFollow prints the status line, then a new one whenever the store file
// changes. Hyprland window events trigger reconciliation so windows closed
// while minimized drop out of the count.
func runFollow(ctx context.Context, a *app, eng *engine.Engine) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(a.paths.StateDir); err != nil {
		return fmt.Errorf("watch state dir: %w", err)
	}
	changes := make(chan struct{}, 1)
	go watchStore(a.logger, watcher, filepath.Clean(a.paths.StoreFile), changes)

	events, err := ipc.Subscribe(ctx, a.logger)
	if err != nil {
		a.logger.Infof("hyprland events unavailable, watching the store only: %v", err)
		events = nil
	}

	last := ""
	emit := func() {
		line := eng.Status().JSON()
		if line == last {
			return
		}
		last = line
		fmt.Fprintln(a.out, line)
	}
	emit()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			emit()
		case ev, ok := <-events:
			if !ok {
				a.logger.Warnf("hyprland event stream closed")
				events = nil
				continue
			}
			addr, relevant := ev.WindowAddress()
			if !relevant {
				continue
			}
			a.logger.Tracef("%s on %s, reconciling", ev.Kind, addr)
			if _, err := eng.Reconcile(ctx); err != nil {
				a.logger.Errorf("reconcile after %s: %v", ev.Kind, err)
			}
		}
	}
}

// watchStore signals changes after writes to target settle for debounceWindow.
// The store is replaced by rename, so events for the directory are filtered
// by name.
func watchStore(logger *util.Logger, watcher *fsnotify.Watcher, target string, changes chan<- struct{}) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(debounceWindow)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case changes <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("store watcher error: %v", err)
		}
	}
}
