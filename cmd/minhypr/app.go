package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyprpal/minhypr/internal/config"
	"github.com/hyprpal/minhypr/internal/engine"
	"github.com/hyprpal/minhypr/internal/icons"
	"github.com/hyprpal/minhypr/internal/ipc"
	"github.com/hyprpal/minhypr/internal/menu"
	"github.com/hyprpal/minhypr/internal/notify"
	"github.com/hyprpal/minhypr/internal/preview"
	"github.com/hyprpal/minhypr/internal/rules"
	"github.com/hyprpal/minhypr/internal/store"
	"github.com/hyprpal/minhypr/internal/util"
)

// app carries the per-invocation state shared by every subcommand.
type app struct {
	out      io.Writer
	cfgPath  string
	logLevel string

	cfg    *config.Config
	paths  config.Paths
	logger *util.Logger
}

func newApp(out io.Writer) *app {
	return &app{out: out, cfgPath: config.DefaultPath()}
}

// load reads the configuration and builds the logger. The --log-level flag
// wins over the config file and environment.
func (a *app) load() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.cfg = cfg
	a.paths = cfg.Paths()
	a.logger = util.NewLogger(util.ParseLogLevel(level))
	return nil
}

func (a *app) store() (*store.FileStore, error) {
	st := store.NewFileStore(a.paths.StoreFile, a.paths.LockFile, a.logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (a *app) notifier() notify.Notifier {
	if !a.cfg.Notify.Enabled {
		return notify.Nop{}
	}
	return notify.NewSignalNotifier(a.cfg.Notify.Process, a.cfg.Notify.Signal, a.cfg.CommandTimeout, a.logger)
}

func (a *app) previews() (engine.Previewer, error) {
	pc := a.cfg.Preview
	if !pc.Enabled {
		return nil, nil
	}
	resizer, err := preview.SelectResizer(pc.Resizer, a.cfg.CommandTimeout)
	if err != nil {
		return nil, err
	}
	return &preview.Pipeline{
		Dir:      a.paths.PreviewDir,
		Capturer: preview.NewGrimCapturer(a.cfg.CommandTimeout),
		Resizer:  resizer,
		Thumb:    preview.Size{Width: pc.ThumbWidth, Height: pc.ThumbHeight},
		Icon:     preview.Size{Width: pc.IconSize, Height: pc.IconSize},
		Quality:  pc.Quality,
		Logger:   a.logger,
	}, nil
}

// engine wires the orchestrator from configuration.
func (a *app) engine() (*engine.Engine, error) {
	st, err := a.store()
	if err != nil {
		return nil, err
	}
	strategy := ipc.DispatchStrategy(strings.ToLower(a.cfg.Dispatch))
	hypr, used, err := ipc.NewEngineClient(a.logger, strategy, a.cfg.CommandTimeout)
	if err != nil {
		return nil, fmt.Errorf("configure dispatch strategy: %w", err)
	}
	a.logger.Debugf("using %s dispatch strategy", used)

	previews, err := a.previews()
	if err != nil {
		a.logger.Warnf("previews disabled: %v", err)
	}
	deny, err := rules.BuildDenylist(a.cfg.Denylist)
	if err != nil {
		return nil, fmt.Errorf("compile denylist: %w", err)
	}
	a.logger.Tracef("denylist has %d matchers", deny.Len())
	extra := make([]icons.Entry, 0, len(a.cfg.Icons))
	for _, ic := range a.cfg.Icons {
		extra = append(extra, icons.Entry{Match: ic.Match, Glyph: ic.Glyph})
	}

	return engine.New(hypr, st, previews, a.notifier(), a.logger, engine.Options{
		HiddenWorkspace: a.cfg.SpecialWorkspace(),
		LockTimeout:     a.cfg.CommandTimeout,
		Denylist:        deny,
		Icons:           icons.NewResolver(extra...),
		Selector:        menu.NewRofiSelector(""),
	}), nil
}
