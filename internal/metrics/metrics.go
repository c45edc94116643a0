package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes used as the "result" label.
const (
	ResultOK          = "ok"
	ResultConfig      = "config_error"
	ResultAuth        = "auth_error"
	ResultAuthExpired = "auth_expired"
	ResultTransport   = "transport_error"
	ResultParse       = "parse_error"
)

// Metrics holds the badge collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	SlideTransitions prometheus.Counter
	Fetches          *prometheus.CounterVec
	CachedPosts      prometheus.Gauge
	Brightness       prometheus.Gauge
	ButtonPresses    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SlideTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "badge_slide_transitions_total",
			Help: "Number of slide changes driven by the slide timer",
		}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_fetches_total",
			Help: "Content refresh attempts by result",
		}, []string{"result"}),
		CachedPosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "badge_cached_posts",
			Help: "Number of posts currently shown on the post slides",
		}),
		Brightness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "badge_backlight_duty",
			Help: "Current backlight duty cycle (0-255)",
		}),
		ButtonPresses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "badge_button_presses_total",
			Help: "Accepted (debounced) button presses",
		}),
	}
	m.registry.MustRegister(m.SlideTransitions, m.Fetches, m.CachedPosts, m.Brightness, m.ButtonPresses)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
