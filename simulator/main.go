package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rook-computer/badge/internal/app"
	"github.com/rook-computer/badge/internal/backlight"
	"github.com/rook-computer/badge/internal/buttons"
	"github.com/rook-computer/badge/internal/config"
	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/render"
	"github.com/rook-computer/badge/internal/system"
)

const (
	simIdentifier  = "badge.sim"
	simAppPassword = "sim-app-password"
)

func main() {
	if _, err := config.LoadEnvFiles(); err != nil {
		fmt.Println("env file error:", err)
		os.Exit(2)
	}
	defaults, err := config.Load()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.Server.ListenAddr, "http listen address; also configurable via "+config.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.Server.DevMode, "enable dev mode (permissive CORS)")
	refresh := flag.Duration("refresh", 15*time.Second, "post refresh interval")
	logLevel := flag.String("log-level", defaults.Log.Level, "logrus level")
	flag.Parse()

	logger, err := logging.New(os.Stderr, *logLevel, defaults.Log.Format)
	if err != nil {
		fmt.Println("logger error:", err)
		os.Exit(2)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base := "http://" + hostPort(*listenAddr)
	cfg := defaults
	cfg.Server.ListenAddr = *listenAddr
	cfg.Server.DevMode = *devMode
	cfg.Feed.RefreshInterval = *refresh
	cfg.Feed.AuthURL = base + sessionPath
	cfg.Feed.SearchURL = base + searchPath
	cfg.Account.Identifier = simIdentifier
	cfg.Account.AppPassword = simAppPassword
	if cfg.WiFi.SSID == "" {
		cfg.WiFi.SSID = "sim-net"
	}

	sink := render.NewMemorySink(render.PanelWidth, render.PanelHeight)
	button := buttons.NewMemoryButton("sim")
	wifi := &system.MemoryWiFi{OnlineAfterJoin: true}

	badge, err := app.NewBadge(cfg, app.Devices{
		Sink:    sink,
		PWM:     &backlight.MemoryPWM{},
		Buttons: []buttons.Button{button},
		WiFi:    wifi,
	}, logger)
	if err != nil {
		fmt.Println("badge init error:", err)
		os.Exit(1)
	}

	control := NewSimControl(simIdentifier, simAppPassword, button, sink, wifi)
	mux, err := serverMux(badge)
	if err != nil {
		fmt.Println("server init error:", err)
		os.Exit(1)
	}
	registerSimEndpoints(mux, control)

	if err := badge.Server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}
	defer badge.Server.Stop()

	fmt.Println("Badge simulator listening on", badge.Server.ListenAddr())
	fmt.Println("Frame: " + base + "/sim/frame.png")
	fmt.Println("API:   " + base + "/api/v1/status")

	if err := badge.App.Setup(processCtx); err != nil {
		fmt.Println("setup error:", err)
		os.Exit(1)
	}
	if err := badge.App.Run(processCtx); err != nil && processCtx.Err() == nil {
		fmt.Println("run error:", err)
		os.Exit(1)
	}
}

func hostPort(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}

// serverMux returns the status server's mux so the sim routes share its port.
func serverMux(b *app.Badge) (*http.ServeMux, error) {
	mux, ok := b.Server.Handler.(*http.ServeMux)
	if !ok {
		return nil, fmt.Errorf("status handler is %T, not a mux", b.Server.Handler)
	}
	return mux, nil
}
