package buttons

import (
	"sync/atomic"
	"time"

	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/metrics"
)

// Debounce is the minimum spacing between two accepted presses.
const Debounce = 200 * time.Millisecond

// Button is one physical input. Pressed reports the current level, already
// translated from the active-low wiring.
type Button interface {
	Name() string
	Pressed() (bool, error)
}

// Cycler is what a press triggers. It logs its own state change.
type Cycler interface {
	CycleNext()
}

// MemoryButton is a software button, used by the simulator and tests.
type MemoryButton struct {
	name string
	down atomic.Bool
}

func NewMemoryButton(name string) *MemoryButton { return &MemoryButton{name: name} }

func (b *MemoryButton) Name() string           { return b.name }
func (b *MemoryButton) Pressed() (bool, error) { return b.down.Load(), nil }
func (b *MemoryButton) Set(down bool)          { b.down.Store(down) }

// Sampler polls the buttons once per loop iteration. Buttons are level
// sampled: a button held down repeats once per debounce window.
type Sampler struct {
	buttons []Button
	target  Cycler
	logger  logging.Logger
	metrics *metrics.Metrics

	lastPress  time.Time
	hasPressed bool
}

func NewSampler(target Cycler, logger logging.Logger, m *metrics.Metrics, buttons ...Button) *Sampler {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Sampler{buttons: buttons, target: target, logger: logger, metrics: m}
}

// Poll samples the buttons at now. It reports whether a press was accepted.
func (s *Sampler) Poll(now time.Time) bool {
	if s.hasPressed && now.Sub(s.lastPress) < Debounce {
		return false
	}

	pressed := false
	for _, b := range s.buttons {
		down, err := b.Pressed()
		if err != nil {
			s.logger.Errorf("buttons", "read %s: %v", b.Name(), err)
			continue
		}
		if down {
			pressed = true
		}
	}
	if !pressed {
		return false
	}

	s.lastPress = now
	s.hasPressed = true
	s.target.CycleNext()
	if s.metrics != nil {
		s.metrics.ButtonPresses.Inc()
	}
	return true
}
