package system

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	netInfoScript = "netinfo.sh"
	wifiScript    = "wifi.sh"
)

// Connect-at-boot limits: 60 checks, 500ms apart.
const (
	ConnectAttempts = 60
	ConnectInterval = 500 * time.Millisecond
)

// WiFi is the station link the badge refreshes content over.
type WiFi interface {
	Join(ctx context.Context, ssid, password string) error
	Online(ctx context.Context) bool
}

func WiFiIPv4(ctx context.Context, r Runner) (string, error) {
	stdout, stderr, err := r.Run(ctx, netInfoScript, "wifi-ip")
	if err != nil {
		return "", fmt.Errorf("netinfo wifi-ip failed: %v: %s", err, stderr)
	}
	return strings.TrimSpace(stdout), nil
}

func JoinWiFi(ctx context.Context, r Runner, ssid, password string) error {
	ssid = strings.TrimSpace(ssid)
	password = strings.TrimSpace(password)
	if ssid == "" {
		return fmt.Errorf("wifi join failed: empty ssid")
	}
	_, stderr, err := r.Run(ctx, wifiScript, "join", ssid, password)
	if err != nil {
		return fmt.Errorf("wifi join failed: %v: %s", err, stderr)
	}
	return nil
}

// ShellWiFi drives the network through the wifi.sh and netinfo.sh helpers.
// The link counts as online once it has an IPv4 address.
type ShellWiFi struct {
	Runner Runner
}

func (w ShellWiFi) Join(ctx context.Context, ssid, password string) error {
	return JoinWiFi(ctx, w.Runner, ssid, password)
}

func (w ShellWiFi) Online(ctx context.Context) bool {
	ip, err := WiFiIPv4(ctx, w.Runner)
	return err == nil && ip != ""
}

// MemoryWiFi is a link whose state is set by hand.
type MemoryWiFi struct {
	online atomic.Bool
	joins  atomic.Int32
	// OnlineAfterJoin makes Join bring the link up.
	OnlineAfterJoin bool
}

func (w *MemoryWiFi) Join(ctx context.Context, ssid, password string) error {
	w.joins.Add(1)
	if w.OnlineAfterJoin {
		w.online.Store(true)
	}
	return nil
}

func (w *MemoryWiFi) Online(ctx context.Context) bool { return w.online.Load() }
func (w *MemoryWiFi) SetOnline(online bool)           { w.online.Store(online) }
func (w *MemoryWiFi) Joins() int                      { return int(w.joins.Load()) }

// Connect joins ssid and polls until the link is online or attempts run out.
// An empty ssid skips the join and only checks the current link.
func Connect(ctx context.Context, wifi WiFi, ssid, password string, attempts int, interval time.Duration) (bool, error) {
	if ssid != "" {
		if err := wifi.Join(ctx, ssid, password); err != nil {
			return false, err
		}
	}
	for i := 0; i < attempts; i++ {
		if wifi.Online(ctx) {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(interval):
		}
	}
	return wifi.Online(ctx), nil
}
