package web

import (
	"encoding/json"
	"net/http"

	"github.com/rook-computer/badge/internal/backlight"
	"github.com/rook-computer/badge/internal/state"
)

// StatusSource is read-only access to the badge state.
type StatusSource interface {
	Snapshot() state.State
}

type APIV1Config struct {
	Status StatusSource
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type postResponse struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

type statusResponse struct {
	Slide           int            `json:"slide"`
	Brightness      int            `json:"brightness"`
	BrightnessLabel string         `json:"brightnessLabel"`
	Authenticated   bool           `json:"authenticated"`
	PostCount       int            `json:"postCount"`
	Posts           []postResponse `json:"posts"`
}

func apiV1Router(cfg APIV1Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, cfg.Status) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, src StatusSource) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if src == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "status not configured")
		return
	}

	snap := src.Snapshot()
	resp := statusResponse{
		Slide:           snap.CurrentSlide,
		Brightness:      snap.BrightnessIndex,
		BrightnessLabel: backlight.Label(snap.BrightnessIndex),
		Authenticated:   snap.Authenticated(),
		PostCount:       len(snap.Posts),
		Posts:           make([]postResponse, 0, len(snap.Posts)),
	}
	for _, p := range snap.Posts {
		resp.Posts = append(resp.Posts, postResponse{Author: p.Author, Text: p.Text})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
