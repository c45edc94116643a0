package scene

import (
	"time"

	"github.com/rook-computer/badge/internal/logging"
)

// Painter turns the active tree into pixels.
type Painter interface {
	Paint(root *Object) error
}

// Timer is a repeating callback driven by the scene's logical clock.
type Timer struct {
	period  time.Duration
	lastRun time.Duration
	cb      func(*Timer)
}

// SetPeriod changes the period. The next run is measured from the last one.
func (t *Timer) SetPeriod(d time.Duration) { t.period = d }

func (t *Timer) Period() time.Duration { return t.period }

// Scene owns the active tree, the logical tick and the timers. It is not safe
// for concurrent use; the control loop is its only caller.
type Scene struct {
	painter Painter
	logger  logging.Logger

	root   *Object
	dirty  bool
	tick   time.Duration
	timers []*Timer
}

func New(painter Painter, logger logging.Logger) *Scene {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Scene{painter: painter, logger: logger}
}

// Load makes root the active tree. The previous tree is dropped.
func (s *Scene) Load(root *Object) {
	s.root = root
	s.dirty = true
}

func (s *Scene) Root() *Object { return s.root }

// IncTick advances the logical clock.
func (s *Scene) IncTick(d time.Duration) {
	if d > 0 {
		s.tick += d
	}
}

func (s *Scene) Tick() time.Duration { return s.tick }

// NewTimer registers a repeating timer whose first run is one period from now.
func (s *Scene) NewTimer(period time.Duration, cb func(*Timer)) *Timer {
	t := &Timer{period: period, lastRun: s.tick, cb: cb}
	s.timers = append(s.timers, t)
	return t
}

// Handle runs every due timer once, then repaints if the tree changed.
func (s *Scene) Handle() error {
	timers := append([]*Timer(nil), s.timers...)
	for _, t := range timers {
		if s.tick-t.lastRun < t.period {
			continue
		}
		t.lastRun = s.tick
		if t.cb != nil {
			t.cb(t)
		}
	}

	if !s.dirty || s.root == nil || s.painter == nil {
		return nil
	}
	s.dirty = false
	if err := s.painter.Paint(s.root); err != nil {
		s.logger.Errorf("scene", "paint failed: %v", err)
		return err
	}
	return nil
}
