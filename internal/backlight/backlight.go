package backlight

import (
	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/metrics"
	"github.com/rook-computer/badge/internal/state"
)

// Duty values out of 255 for each brightness level.
var Levels = [...]uint8{26, 102, 179, 255}

// Labels are the user-facing names of Levels.
var Labels = [...]string{"10%", "40%", "70%", "100%"}

const (
	LevelCount = len(Levels)
	BootLevel  = LevelCount - 1
)

// PWM is a backlight channel that accepts an 8-bit duty cycle.
type PWM interface {
	SetDuty(duty uint8) error
}

// MemoryPWM records the last duty it was given.
type MemoryPWM struct {
	Duty   uint8
	Writes int
}

func (m *MemoryPWM) SetDuty(duty uint8) error {
	m.Duty = duty
	m.Writes++
	return nil
}

// Controller maps the four brightness levels onto a PWM channel. It is the
// only writer of the brightness index in the badge state.
type Controller struct {
	pwm     PWM
	store   *state.Store
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewController(pwm PWM, store *state.Store, logger logging.Logger, m *metrics.Metrics) *Controller {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Controller{pwm: pwm, store: store, logger: logger, metrics: m}
}

// SetLevel programs the duty for index and records it. Indices outside the
// level table are ignored.
func (c *Controller) SetLevel(index int) {
	if index < 0 || index >= LevelCount {
		return
	}
	if err := c.pwm.SetDuty(Levels[index]); err != nil {
		c.logger.Errorf("backlight", "set duty %d: %v", Levels[index], err)
	}
	c.store.SetBrightnessIndex(index)
	if c.metrics != nil {
		c.metrics.Brightness.Set(float64(Levels[index]))
	}
}

// CycleNext moves to the next level, wrapping from the brightest to the dimmest.
func (c *Controller) CycleNext() {
	next := (c.store.BrightnessIndex() + 1) % LevelCount
	c.SetLevel(next)
	c.logger.Infof("backlight", "brightness %s", Labels[next])
}

func (c *Controller) Index() int { return c.store.BrightnessIndex() }

// Label returns the label of the current level.
func (c *Controller) Label() string { return Label(c.store.BrightnessIndex()) }

func Label(index int) string {
	if index < 0 || index >= LevelCount {
		return ""
	}
	return Labels[index]
}
