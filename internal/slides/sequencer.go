// Package slides owns which of the seven slides is showing and for how long.
package slides

import (
	"time"

	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/metrics"
	"github.com/rook-computer/badge/internal/scene"
	"github.com/rook-computer/badge/internal/state"
)

// Schedule is how long each slide stays up.
var Schedule = [state.SlideCount]time.Duration{
	3 * time.Second,
	6 * time.Second,
	6 * time.Second,
	6 * time.Second,
	6 * time.Second,
	6 * time.Second,
	6 * time.Second,
}

// Sequencer is the only writer of the current slide index.
type Sequencer struct {
	scene   *scene.Scene
	store   *state.Store
	content Content
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewSequencer(sc *scene.Scene, store *state.Store, content Content, logger logging.Logger, m *metrics.Metrics) *Sequencer {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Sequencer{scene: sc, store: store, content: content, logger: logger, metrics: m}
}

// Show builds slide index from the current state and makes it active.
func (s *Sequencer) Show(index int) {
	index = normalize(index)
	s.store.SetCurrentSlide(index)
	s.scene.Load(Build(index, s.store.Snapshot(), s.content))
}

// Start shows the first slide and schedules the rotation.
func (s *Sequencer) Start() *scene.Timer {
	s.Show(0)
	return s.scene.NewTimer(Schedule[0], s.Advance)
}

// Advance moves to the next slide and reprograms timer for its duration.
// It is the slide timer's callback.
func (s *Sequencer) Advance(timer *scene.Timer) {
	next := (s.store.CurrentSlide() + 1) % state.SlideCount
	s.Show(next)
	if timer != nil {
		timer.SetPeriod(Schedule[next])
	}
	if s.metrics != nil {
		s.metrics.SlideTransitions.Inc()
	}
	s.logger.Infof("slides", "showing slide %d", next)
}
