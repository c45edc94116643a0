package backlight

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/metrics"
	"github.com/rook-computer/badge/internal/state"
)

func newController(start int) (*Controller, *MemoryPWM, *state.Store) {
	pwm := &MemoryPWM{}
	store := state.NewStore(start)
	return NewController(pwm, store, nil, nil), pwm, store
}

func TestSetLevelProgramsDuty(t *testing.T) {
	c, pwm, store := newController(BootLevel)

	c.SetLevel(0)
	assert.Equal(t, uint8(26), pwm.Duty)
	assert.Equal(t, 0, store.BrightnessIndex())
	assert.Equal(t, "10%", c.Label())

	c.SetLevel(2)
	assert.Equal(t, uint8(179), pwm.Duty)
	assert.Equal(t, "70%", c.Label())
}

func TestSetLevelOutOfRangeIsNoop(t *testing.T) {
	c, pwm, store := newController(1)

	c.SetLevel(-1)
	c.SetLevel(4)
	assert.Equal(t, 1, store.BrightnessIndex())
	assert.Equal(t, 0, pwm.Writes)
}

func TestCycleNextWrapsAround(t *testing.T) {
	for start := 0; start < LevelCount; start++ {
		c, _, store := newController(start)
		for i := 0; i < LevelCount; i++ {
			c.CycleNext()
		}
		assert.Equal(t, start, store.BrightnessIndex())
	}
}

func TestCycleNextFromBrightestGoesToDimmest(t *testing.T) {
	c, pwm, _ := newController(BootLevel)
	c.CycleNext()
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, Levels[0], pwm.Duty)
}

type failingPWM struct{}

func (failingPWM) SetDuty(uint8) error { return errors.New("pwm gone") }

func TestSetLevelLogsDriverErrors(t *testing.T) {
	base, hook := test.NewNullLogger()
	store := state.NewStore(0)
	m := metrics.New()
	c := NewController(failingPWM{}, store, logging.NewLogrusLogger(base), m)

	c.SetLevel(3)
	assert.Equal(t, 3, store.BrightnessIndex())
	assert.Equal(t, 255.0, testutil.ToFloat64(m.Brightness))
	if assert.NotNil(t, hook.LastEntry()) {
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, "backlight", hook.LastEntry().Data["component"])
	}
}

func TestCycleNextLogsLabelOnce(t *testing.T) {
	base, hook := test.NewNullLogger()
	store := state.NewStore(BootLevel)
	c := NewController(&MemoryPWM{}, store, logging.NewLogrusLogger(base), nil)

	c.CycleNext()
	entries := hook.AllEntries()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, logrus.InfoLevel, entries[0].Level)
		assert.Equal(t, "brightness 10%", entries[0].Message)
	}
}
