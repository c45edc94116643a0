package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rook-computer/badge/internal/buttons"
	"github.com/rook-computer/badge/internal/feed"
	"github.com/rook-computer/badge/internal/render"
	"github.com/rook-computer/badge/internal/system"
)

const (
	sessionPath = "/xrpc/com.atproto.server.createSession"
	searchPath  = "/xrpc/app.bsky.feed.searchPosts"

	// pressHold is how long a virtual press keeps the button down.
	pressHold = 50 * time.Millisecond

	// createdAtLayout matches the millisecond UTC timestamps the real API emits.
	createdAtLayout = "2006-01-02T15:04:05.000Z07:00"
)

// SimFaults are failures the fake API injects on demand.
type SimFaults struct {
	// AuthFail rejects every login with 401.
	AuthFail bool `json:"authFail"`
	// TransportFail answers searches with 503.
	TransportFail bool `json:"transportFail"`
	// MalformedJSON answers searches with a truncated document.
	MalformedJSON bool `json:"malformedJson"`
	// DelayMs stalls every fake API response.
	DelayMs int `json:"delayMs"`
}

// SimControl owns the fake remote API and the virtual hardware.
type SimControl struct {
	Identifier  string
	AppPassword string

	button *buttons.MemoryButton
	sink   *render.MemorySink
	wifi   *system.MemoryWiFi

	mu         sync.RWMutex
	faults     SimFaults
	posts      []feed.PostView
	generation int
	issued     int
	logins     int
	searches   int
}

func NewSimControl(identifier, appPassword string, button *buttons.MemoryButton, sink *render.MemorySink, wifi *system.MemoryWiFi) *SimControl {
	c := &SimControl{Identifier: identifier, AppPassword: appPassword, button: button, sink: sink, wifi: wifi}
	c.posts = seedPosts(time.Now())
	return c
}

func seedPosts(now time.Time) []feed.PostView {
	at := func(minutesAgo int) string {
		return now.Add(-time.Duration(minutesAgo) * time.Minute).UTC().Format(createdAtLayout)
	}
	return []feed.PostView{
		simPost("seagl.org", "Doors open at 9! Registration is on the first floor.", at(1)),
		simPost("attendee.bsky.social", "Great keynote this morning. Grabbing coffee before the next track.", at(12)),
		simPost("speaker.bsky.social", "Slides from my talk are up. Thanks to everyone who came by!", at(5)),
		simPost("volunteer.bsky.social", "Lunch is served on the second floor.", at(30)),
		simPost("", "post without an author", at(2)),
	}
}

func simPost(handle, text, createdAt string) feed.PostView {
	return feed.PostView{
		URI:    "at://" + handle + "/app.bsky.feed.post/" + createdAt,
		Author: feed.Author{Handle: handle},
		Record: feed.Record{Text: text, CreatedAt: createdAt},
	}
}

func (c *SimControl) Faults() SimFaults {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.faults
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.mu.Lock()
	c.faults = v
	c.mu.Unlock()
}

// ExpireTokens invalidates every token issued so far.
func (c *SimControl) ExpireTokens() {
	c.mu.Lock()
	c.generation++
	c.mu.Unlock()
}

func (c *SimControl) AddPost(handle, text string) feed.PostView {
	p := simPost(handle, text, time.Now().UTC().Format(createdAtLayout))
	c.mu.Lock()
	c.posts = append([]feed.PostView{p}, c.posts...)
	c.mu.Unlock()
	return p
}

func (c *SimControl) Reset() {
	c.mu.Lock()
	c.faults = SimFaults{}
	c.posts = seedPosts(time.Now())
	c.generation++
	c.mu.Unlock()
	c.wifi.SetOnline(true)
}

// Press holds the virtual button down briefly, long enough for the loop to
// sample it.
func (c *SimControl) Press() {
	c.button.Set(true)
	time.AfterFunc(pressHold, func() { c.button.Set(false) })
}

func (c *SimControl) delay() {
	if ms := c.Faults().DelayMs; ms > 0 {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	}
}

func (c *SimControl) tokenFor(generation, serial int) string {
	return fmt.Sprintf("sim-%d-%d", generation, serial)
}

func (c *SimControl) handleSession(w http.ResponseWriter, r *http.Request) {
	c.delay()
	if r.Method != http.MethodPost {
		writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSimError(w, http.StatusBadRequest, "invalid json")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.logins++
	if c.faults.AuthFail || req.Identifier != c.Identifier || req.Password != c.AppPassword {
		writeSimJSON(w, http.StatusUnauthorized, map[string]any{"error": "AuthenticationRequired", "message": "Invalid identifier or password"})
		return
	}
	c.issued++
	writeSimJSON(w, http.StatusOK, map[string]any{
		"accessJwt":  c.tokenFor(c.generation, c.issued),
		"refreshJwt": "unused",
		"handle":     req.Identifier,
		"did":        "did:plc:simulator",
	})
}

func (c *SimControl) handleSearch(w http.ResponseWriter, r *http.Request) {
	c.delay()
	if r.Method != http.MethodGet {
		writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	c.mu.Lock()
	c.searches++
	faults := c.faults
	prefix := fmt.Sprintf("sim-%d-", c.generation)
	posts := append([]feed.PostView(nil), c.posts...)
	c.mu.Unlock()

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !strings.HasPrefix(token, prefix) {
		writeSimJSON(w, http.StatusUnauthorized, map[string]any{"error": "ExpiredToken", "message": "Token has expired"})
		return
	}
	if faults.TransportFail {
		writeSimError(w, http.StatusServiceUnavailable, "simulated outage")
		return
	}
	if faults.MalformedJSON {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts": [{"author": `))
		return
	}

	limit := len(posts)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n < limit {
			limit = n
		}
	}
	writeSimJSON(w, http.StatusOK, feed.SearchResponse{Posts: posts[:limit]})
}

type simCounters struct {
	Logins   int `json:"logins"`
	Searches int `json:"searches"`
}

func (c *SimControl) counters() simCounters {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return simCounters{Logins: c.logins, Searches: c.searches}
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc(sessionPath, control.handleSession)
	mux.HandleFunc(searchPath, control.handleSearch)

	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		control.Reset()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, control.Faults())
		case http.MethodPost:
			var patch struct {
				AuthFail      *bool `json:"authFail"`
				TransportFail *bool `json:"transportFail"`
				MalformedJSON *bool `json:"malformedJson"`
				DelayMs       *int  `json:"delayMs"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := control.Faults()
			if patch.AuthFail != nil {
				current.AuthFail = *patch.AuthFail
			}
			if patch.TransportFail != nil {
				current.TransportFail = *patch.TransportFail
			}
			if patch.MalformedJSON != nil {
				current.MalformedJSON = *patch.MalformedJSON
			}
			if patch.DelayMs != nil {
				current.DelayMs = *patch.DelayMs
			}
			control.SetFaults(current)
			writeSimJSON(w, http.StatusOK, current)
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/sim/expire", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		control.ExpireTokens()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Handle string `json:"handle"`
			Text   string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		writeSimJSON(w, http.StatusOK, control.AddPost(req.Handle, req.Text))
	})

	mux.HandleFunc("/sim/button", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		control.Press()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/wifi", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Online bool `json:"online"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		control.wifi.SetOnline(req.Online)
		writeSimJSON(w, http.StatusOK, req)
	})

	mux.HandleFunc("/sim/counters", func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, control.counters())
	})

	mux.HandleFunc("/sim/frame.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_ = png.Encode(w, control.sink.Snapshot())
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
