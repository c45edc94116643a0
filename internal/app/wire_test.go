package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/badge/internal/backlight"
	"github.com/rook-computer/badge/internal/config"
	"github.com/rook-computer/badge/internal/feed"
	"github.com/rook-computer/badge/internal/render"
	"github.com/rook-computer/badge/internal/system"
)

type stubAPI struct{ posts []feed.PostView }

func (s stubAPI) CreateSession(context.Context) (string, error) { return "jwt", nil }

func (s stubAPI) SearchPosts(context.Context, string, string, int) (*feed.SearchResponse, error) {
	return &feed.SearchResponse{Posts: s.posts}, nil
}

func TestNewBadgeEndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.WiFi.SSID = "badge-net"
	sink := render.NewMemorySink(render.PanelWidth, render.PanelHeight)
	wifi := &system.MemoryWiFi{OnlineAfterJoin: true}

	b, err := NewBadge(cfg, Devices{
		Sink: sink,
		PWM:  &backlight.MemoryPWM{},
		WiFi: wifi,
		API: stubAPI{posts: []feed.PostView{{
			Author: feed.Author{Handle: "fan.bsky.social"},
			Record: feed.Record{Text: "see you at SeaGL", CreatedAt: "2025-11-07T10:00:00Z"},
		}}},
	}, nil)
	require.NoError(t, err)
	b.App.WiFiConfig.Interval = time.Millisecond

	require.NoError(t, b.App.Setup(context.Background()))
	b.App.Step(context.Background(), time.Now())

	snap := b.Store.Snapshot()
	assert.Equal(t, "jwt", snap.AccessToken)
	require.Len(t, snap.Posts, 1)
	assert.Equal(t, "@fan.bsky.social", snap.Posts[0].Author)
	assert.Equal(t, 1, b.Renderer.Frames())

	rec := httptest.NewRecorder()
	b.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "100%", status["brightnessLabel"])
	assert.Equal(t, 1.0, status["postCount"])
}
