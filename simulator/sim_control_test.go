package main

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/badge/internal/buttons"
	"github.com/rook-computer/badge/internal/feed"
	"github.com/rook-computer/badge/internal/render"
	"github.com/rook-computer/badge/internal/state"
	"github.com/rook-computer/badge/internal/system"
)

type simHarness struct {
	control *SimControl
	server  *httptest.Server
	store   *state.Store
	fetcher *feed.Fetcher
	button  *buttons.MemoryButton
}

func newSimHarness(t *testing.T) *simHarness {
	t.Helper()
	button := buttons.NewMemoryButton("sim")
	sink := render.NewMemorySink(render.PanelWidth, render.PanelHeight)
	control := NewSimControl(simIdentifier, simAppPassword, button, sink, &system.MemoryWiFi{})

	mux := http.NewServeMux()
	registerSimEndpoints(mux, control)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := feed.NewClient(srv.URL+sessionPath, srv.URL+searchPath, simIdentifier, simAppPassword, time.Second)
	store := state.NewStore(0)
	return &simHarness{
		control: control,
		server:  srv,
		store:   store,
		fetcher: feed.NewFetcher(client, store, nil, nil, "SeaGL2025", "seagl.org"),
		button:  button,
	}
}

func (h *simHarness) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(h.server.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSimSeededPostsAreRanked(t *testing.T) {
	h := newSimHarness(t)

	require.NoError(t, h.fetcher.FetchPosts(context.Background()))

	posts := h.store.Snapshot().Posts
	require.Len(t, posts, 3)
	assert.Equal(t, "@speaker.bsky.social", posts[0].Author)
	assert.Equal(t, "@attendee.bsky.social", posts[1].Author)
	assert.Equal(t, "@volunteer.bsky.social", posts[2].Author)
}

func TestSimAddedPostComesFirst(t *testing.T) {
	h := newSimHarness(t)

	resp := h.post(t, "/sim/posts", `{"handle":"new.bsky.social","text":"just arrived"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, h.fetcher.FetchPosts(context.Background()))
	posts := h.store.Snapshot().Posts
	require.NotEmpty(t, posts)
	assert.Equal(t, "@new.bsky.social", posts[0].Author)
	assert.Equal(t, "just arrived", posts[0].Text)
}

func TestSimFaults(t *testing.T) {
	cases := []struct {
		name  string
		patch string
		want  error
	}{
		{name: "auth failure", patch: `{"authFail":true}`, want: feed.ErrAuth},
		{name: "transport failure", patch: `{"transportFail":true}`, want: feed.ErrTransport},
		{name: "malformed json", patch: `{"malformedJson":true}`, want: feed.ErrParse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newSimHarness(t)
			resp := h.post(t, "/sim/faults", tc.patch)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			err := h.fetcher.FetchPosts(context.Background())
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, h.store.Snapshot().Posts)
		})
	}
}

func TestSimExpiredTokenForcesLogin(t *testing.T) {
	h := newSimHarness(t)
	ctx := context.Background()

	require.NoError(t, h.fetcher.FetchPosts(ctx))
	first := h.store.AccessToken()
	require.NotEmpty(t, first)

	h.post(t, "/sim/expire", `{}`)
	err := h.fetcher.FetchPosts(ctx)
	assert.ErrorIs(t, err, feed.ErrAuthExpired)
	assert.Empty(t, h.store.AccessToken())
	assert.Len(t, h.store.Snapshot().Posts, 3)

	require.NoError(t, h.fetcher.FetchPosts(ctx))
	assert.NotEqual(t, first, h.store.AccessToken())
	assert.Equal(t, simCounters{Logins: 2, Searches: 3}, h.control.counters())
}

func TestSimResetClearsFaults(t *testing.T) {
	h := newSimHarness(t)
	h.post(t, "/sim/faults", `{"transportFail":true,"delayMs":5}`)
	require.True(t, h.control.Faults().TransportFail)

	h.post(t, "/sim/reset", `{}`)
	assert.Equal(t, SimFaults{}, h.control.Faults())
	require.NoError(t, h.fetcher.FetchPosts(context.Background()))
}

func TestSimButtonPressReleases(t *testing.T) {
	h := newSimHarness(t)

	resp := h.post(t, "/sim/button", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	down, err := h.button.Pressed()
	require.NoError(t, err)
	assert.True(t, down)

	assert.Eventually(t, func() bool {
		down, _ := h.button.Pressed()
		return !down
	}, time.Second, 10*time.Millisecond)
}

func TestSimFramePNG(t *testing.T) {
	h := newSimHarness(t)

	resp, err := http.Get(h.server.URL + "/sim/frame.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, render.PanelWidth, img.Bounds().Dx())
	assert.Equal(t, render.PanelHeight, img.Bounds().Dy())
}

func TestSimWrongMethod(t *testing.T) {
	h := newSimHarness(t)

	resp, err := http.Get(h.server.URL + "/sim/reset")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHostPort(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", hostPort(":8080"))
	assert.Equal(t, "127.0.0.1:8080", hostPort(""))
	assert.Equal(t, "0.0.0.0:9000", hostPort("0.0.0.0:9000"))
}
