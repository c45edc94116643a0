package web

import "net/http"

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg)))
}

// NewDefaultMux builds the mux used by both the device and the simulator:
// - /api/v1/* for the status API
// - /metrics for Prometheus, when a handler is given
func NewDefaultMux(cfg APIV1Config, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return mux
}
