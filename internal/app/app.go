package app

import (
	"context"
	"time"

	"github.com/rook-computer/badge/internal/backlight"
	"github.com/rook-computer/badge/internal/buttons"
	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/scene"
	"github.com/rook-computer/badge/internal/slides"
	"github.com/rook-computer/badge/internal/state"
	"github.com/rook-computer/badge/internal/system"
)

// LoopDelay is the pause at the end of every loop iteration.
const LoopDelay = 5 * time.Millisecond

// onlineCheckInterval throttles link checks while waiting for a refresh.
const onlineCheckInterval = time.Second

// Refresher runs one content refresh cycle.
type Refresher interface {
	FetchPosts(ctx context.Context) error
}

// WiFiConfig is the network the badge joins at boot.
type WiFiConfig struct {
	SSID     string
	Password string
	Attempts int
	Interval time.Duration
}

// App is the control loop. Everything it touches runs on the goroutine that
// calls Setup, Step and Run.
type App struct {
	Store     *state.Store
	Scene     *scene.Scene
	Sequencer *slides.Sequencer
	Backlight *backlight.Controller
	Sampler   *buttons.Sampler
	Fetcher   Refresher
	WiFi      system.WiFi
	Logger    logging.Logger

	WiFiConfig      WiFiConfig
	RefreshInterval time.Duration

	// Now is the wall clock; tests replace it.
	Now func() time.Time

	timer           *scene.Timer
	lastTick        time.Time
	lastRefresh     time.Time
	online          bool
	lastOnlineCheck time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() logging.Logger {
	if a.Logger == nil {
		return logging.NoopLogger{}
	}
	return a.Logger
}

// Online reports the link state as of the last check.
func (a *App) Online() bool { return a.online }

// Timer is the slide timer created by Setup.
func (a *App) Timer() *scene.Timer { return a.timer }

// Setup brings the badge up: full brightness, WiFi, a first refresh when
// online, then the first slide and its timer.
func (a *App) Setup(ctx context.Context) error {
	log := a.logger()
	a.Backlight.SetLevel(backlight.BootLevel)
	log.Infof("app", "brightness %s", a.Backlight.Label())

	if a.WiFi == nil {
		// No link management on this device; the network is assumed up.
		a.online = true
	} else {
		attempts := a.WiFiConfig.Attempts
		if attempts <= 0 {
			attempts = system.ConnectAttempts
		}
		interval := a.WiFiConfig.Interval
		if interval <= 0 {
			interval = system.ConnectInterval
		}
		online, err := system.Connect(ctx, a.WiFi, a.WiFiConfig.SSID, a.WiFiConfig.Password, attempts, interval)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.Errorf("app", "wifi: %v", err)
		}
		a.online = online
		a.lastOnlineCheck = a.now()
		if online {
			log.Infof("app", "wifi connected")
		} else {
			log.Warnf("app", "wifi not connected, showing cached content only")
		}
	}

	if a.online {
		if err := a.Fetcher.FetchPosts(ctx); err != nil {
			log.Warnf("app", "initial refresh failed: %v", err)
		}
	}

	now := a.now()
	a.lastRefresh = now
	a.lastTick = now
	a.timer = a.Sequencer.Start()
	return nil
}

// Step runs one loop iteration at now.
func (a *App) Step(ctx context.Context, now time.Time) {
	a.Scene.IncTick(now.Sub(a.lastTick))
	a.lastTick = now

	if a.Sampler != nil {
		a.Sampler.Poll(now)
	}
	// Paint failures are logged by the scene and never stop the loop.
	_ = a.Scene.Handle()

	if now.Sub(a.lastRefresh) <= a.RefreshInterval {
		return
	}
	if a.WiFi != nil && now.Sub(a.lastOnlineCheck) >= onlineCheckInterval {
		a.online = a.WiFi.Online(ctx)
		a.lastOnlineCheck = now
	}
	if !a.online {
		return
	}
	if err := a.Fetcher.FetchPosts(ctx); err != nil {
		a.logger().Warnf("app", "refresh failed: %v", err)
	}
	a.lastRefresh = now
}

// Run loops until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	for {
		a.Step(ctx, a.now())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(LoopDelay):
		}
	}
}
