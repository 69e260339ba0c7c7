package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyprpal/minhypr/internal/config"
	"github.com/hyprpal/minhypr/internal/engine"
	"github.com/hyprpal/minhypr/internal/menu"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "minhypr",
		Short:         "Minimize and restore windows on Hyprland",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		// Unknown commands print usage and succeed, so a mistyped bind never
		// surfaces as an error notification.
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				fmt.Fprintf(a.out, "Unknown command: %s\n", args[0])
			}
			cmd.SetOut(a.out)
			return cmd.Usage()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", a.cfgPath, "path to YAML config")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")

	root.AddCommand(
		newMinimizeCmd(a),
		newRestoreCmd(a),
		newRestoreAllCmd(a),
		newRestoreLastCmd(a),
		newShowCmd(a),
		newShowRofiCmd(a),
		newSetupRofiCmd(a),
		newCheckConfigCmd(a),
	)
	return root
}

func newMinimizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "minimize",
		Short: "Minimize the active window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			return eng.Minimize(cmd.Context())
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [address]",
		Short: "Restore a window, or pick one from a menu",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				restored, err := eng.Restore(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !restored {
					fmt.Fprintf(a.out, "Window %s is not minimized\n", args[0])
				}
				return nil
			}
			_, err = eng.RestoreInteractive(cmd.Context())
			if errors.Is(err, engine.ErrNoWindows) {
				fmt.Fprintln(a.out, "No minimized windows")
				return nil
			}
			return err
		},
	}
}

func newRestoreAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-all",
		Short: "Restore every minimized window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			n, err := eng.RestoreAll(cmd.Context())
			a.logger.Infof("restored %d windows", n)
			return err
		},
	}
}

func newRestoreLastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore-last",
		Short: "Restore the newest minimized window (earlier releases took the oldest)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			_, err = eng.RestoreLast(cmd.Context())
			if errors.Is(err, engine.ErrNoWindows) {
				fmt.Fprintln(a.out, "No minimized windows to restore")
				return nil
			}
			return err
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the status bar record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			if follow {
				return runFollow(cmd.Context(), a, eng)
			}
			fmt.Fprintln(a.out, eng.Status().JSON())
			return nil
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "keep printing a line whenever the count changes")
	return cmd
}

func newShowRofiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show-rofi [selection]",
		Short: "Rofi script mode: list windows, or restore the selected one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				addr := menu.SelectionAddress(args[0], os.Getenv("ROFI_INFO"))
				if addr == "" {
					a.logger.Warnf("no window address in selection %q", args[0])
					return nil
				}
				restored, err := eng.Restore(cmd.Context(), addr)
				if err == nil && !restored {
					a.logger.Infof("window %s is no longer minimized", addr)
				}
				return err
			}
			records, err := eng.MenuEntries(cmd.Context())
			if err != nil {
				return err
			}
			return menu.WriteFeed(a.out, records)
		},
	}
}

func newSetupRofiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup-rofi",
		Short: "Write a rofi theme and launcher scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			binary, err := os.Executable()
			if err != nil {
				binary = "minhypr"
			}
			result, err := menu.Setup(a.paths.ConfigDir, binary)
			if err != nil {
				return err
			}
			menu.PrintSetup(a.out, result)
			return nil
		},
	}
}

func newCheckConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config [path]",
		Short: "Validate a configuration file",
		Args:  cobra.MaximumNArgs(1),
		// The root hook would fail on the very config being checked.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := config.Load(path); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Configuration OK")
			return nil
		},
	}
}
