package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rook-computer/badge/internal/app"
	"github.com/rook-computer/badge/internal/config"
	"github.com/rook-computer/badge/internal/hw"
	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/render"
	"github.com/rook-computer/badge/internal/system"
)

const envStdioLog = "BADGE_STDIO_LOG"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "badge:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var stdioLog string
	var envFiles []string

	root := &cobra.Command{
		Use:           "badge",
		Short:         "Conference badge: rotating slides, live posts, button brightness",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Redirect stdout/stderr (including panics) to a file so crashes
			// are diagnosable while the console is in graphics mode.
			if stdioLog == "" {
				stdioLog = os.Getenv(envStdioLog)
			}
			if stdioLog != "" {
				if err := redirectStdIO(stdioLog); err != nil {
					fmt.Fprintln(os.Stderr, "stdio log redirect error:", err)
				}
			}
			_, err := config.LoadEnvFiles(envFiles...)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBadge(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&stdioLog, "stdio-log", "", "redirect stdout+stderr to this file (also "+envStdioLog+")")
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env, .env.local)")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Drive the display, buttons and backlight",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBadge(cmd.Context())
		},
	})
	root.AddCommand(newPreviewCmd())
	return root
}

func newLogger(cfg config.Config) (logging.LogrusLogger, error) {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

func runBadge(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := render.OpenFBSink(cfg.Device.Framebuffer)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", cfg.Device.Framebuffer, err)
	}
	defer sink.Close()
	logger.Infof("main", "framebuffer %s open, bounds=%v", cfg.Device.Framebuffer, sink.Bounds())

	pwm, err := hw.OpenBacklight(cfg.Device)
	if err != nil {
		return fmt.Errorf("backlight: %w", err)
	}
	btns, err := hw.OpenButtons(cfg.Device)
	if err != nil {
		return fmt.Errorf("buttons: %w", err)
	}

	badge, err := app.NewBadge(cfg, app.Devices{
		Sink:    sink,
		PWM:     pwm,
		Buttons: btns,
		WiFi:    system.ShellWiFi{Runner: system.ShellRunner{}},
	}, logger)
	if err != nil {
		return err
	}

	restore := system.EnterGraphics(logger)
	defer restore()

	if err := badge.Server.Start(ctx); err != nil {
		logger.Errorf("main", "status server: %v", err)
	}
	defer badge.Server.Stop()

	if err := badge.App.Setup(ctx); err != nil {
		return err
	}
	logger.Infof("main", "badge running")
	if err := badge.App.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Infof("main", "shutting down")
	return nil
}
