package app

import (
	"github.com/rook-computer/badge/internal/backlight"
	"github.com/rook-computer/badge/internal/buttons"
	"github.com/rook-computer/badge/internal/config"
	"github.com/rook-computer/badge/internal/feed"
	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/metrics"
	"github.com/rook-computer/badge/internal/render"
	"github.com/rook-computer/badge/internal/scene"
	"github.com/rook-computer/badge/internal/slides"
	"github.com/rook-computer/badge/internal/state"
	"github.com/rook-computer/badge/internal/system"
	"github.com/rook-computer/badge/internal/web"
)

// Devices are the hardware-facing pieces a badge is assembled from. The
// device binary passes real ones, the simulator passes in-memory ones.
type Devices struct {
	Sink    render.Sink
	PWM     backlight.PWM
	Buttons []buttons.Button
	WiFi    system.WiFi
	// API overrides the Bluesky client built from the config.
	API feed.API
}

// Badge is a fully wired badge: the control loop plus its status server.
type Badge struct {
	App      *App
	Store    *state.Store
	Metrics  *metrics.Metrics
	Renderer *render.Renderer
	Server   *web.HTTPServer
}

func NewBadge(cfg config.Config, dev Devices, logger logging.Logger) (*Badge, error) {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	fonts, err := render.LoadFonts()
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	store := state.NewStore(backlight.BootLevel)
	renderer := render.NewRenderer(dev.Sink, fonts, logger)
	sc := scene.New(renderer, logger)

	api := dev.API
	if api == nil {
		api = feed.NewClient(cfg.Feed.AuthURL, cfg.Feed.SearchURL, cfg.Account.Identifier, cfg.Account.AppPassword, cfg.Feed.Timeout)
	}
	fetcher := feed.NewFetcher(api, store, logger, m, cfg.Feed.SearchTag, cfg.Feed.OfficialHandle)
	if cfg.Feed.Timeout > 0 {
		fetcher.CycleTimeout = cfg.Feed.Timeout
	}

	bl := backlight.NewController(dev.PWM, store, logger, m)
	content := slides.Content{
		FirstName:  cfg.Badge.FirstName,
		LastName:   cfg.Badge.LastName,
		ProfileURL: cfg.Badge.ProfileURL,
		Tag:        cfg.Feed.SearchTag,
	}

	a := &App{
		Store:     store,
		Scene:     sc,
		Sequencer: slides.NewSequencer(sc, store, content, logger, m),
		Backlight: bl,
		Sampler:   buttons.NewSampler(bl, logger, m, dev.Buttons...),
		Fetcher:   fetcher,
		WiFi:      dev.WiFi,
		Logger:    logger,
		WiFiConfig: WiFiConfig{
			SSID:     cfg.WiFi.SSID,
			Password: cfg.WiFi.Password,
		},
		RefreshInterval: cfg.Feed.RefreshInterval,
	}

	server := web.NewHTTPServer(cfg.Server.ListenAddr, web.NewDefaultMux(web.APIV1Config{Status: store}, m.Handler()))
	server.DevMode = cfg.Server.DevMode
	server.Logger = logger

	return &Badge{App: a, Store: store, Metrics: m, Renderer: renderer, Server: server}, nil
}
