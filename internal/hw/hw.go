// Package hw binds the badge's buttons and backlight to real hardware.
package hw

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/rook-computer/badge/internal/backlight"
	"github.com/rook-computer/badge/internal/buttons"
	"github.com/rook-computer/badge/internal/config"
)

// PWMFrequency is the backlight carrier frequency.
const PWMFrequency = 5 * physic.KiloHertz

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the periph host drivers. Safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		_, initErr = host.Init()
	})
	return initErr
}

// GPIOButton is an active-low push button with the internal pull-up enabled.
type GPIOButton struct {
	name string
	pin  gpio.PinIO
}

func OpenGPIOButton(name string) (*GPIOButton, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio %s not found", name)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("gpio %s as input: %w", name, err)
	}
	return &GPIOButton{name: name, pin: pin}, nil
}

func (b *GPIOButton) Name() string { return b.name }

func (b *GPIOButton) Pressed() (bool, error) { return b.pin.Read() == gpio.Low, nil }

// GPIOPWM drives the backlight from a PWM-capable GPIO.
type GPIOPWM struct {
	pin  gpio.PinIO
	freq physic.Frequency
}

func OpenGPIOPWM(name string) (*GPIOPWM, error) {
	if err := Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio %s not found", name)
	}
	return &GPIOPWM{pin: pin, freq: PWMFrequency}, nil
}

func (p *GPIOPWM) SetDuty(duty uint8) error {
	return p.pin.PWM(dutyFor(duty), p.freq)
}

func dutyFor(duty uint8) gpio.Duty {
	return gpio.Duty(int64(duty) * int64(gpio.DutyMax) / 255)
}

// SysfsBacklight writes to a /sys/class/backlight/<name> device, scaling the
// 8-bit duty onto the device's max_brightness.
type SysfsBacklight struct {
	dir string
	max int
}

func OpenSysfsBacklight(dir string) (*SysfsBacklight, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return nil, fmt.Errorf("read max_brightness: %w", err)
	}
	limit, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("bad max_brightness %q in %s", strings.TrimSpace(string(raw)), dir)
	}
	return &SysfsBacklight{dir: dir, max: limit}, nil
}

func (s *SysfsBacklight) SetDuty(duty uint8) error {
	value := int(duty) * s.max / 255
	return os.WriteFile(filepath.Join(s.dir, "brightness"), []byte(strconv.Itoa(value)), 0o644)
}

// OpenBacklight picks the backlight backend from the device config: sysfs,
// then a PWM pin, then an in-memory channel.
func OpenBacklight(cfg config.DeviceConfig) (backlight.PWM, error) {
	switch {
	case cfg.BacklightSysfs != "":
		bl, err := OpenSysfsBacklight(cfg.BacklightSysfs)
		if err != nil {
			return nil, err
		}
		return bl, nil
	case cfg.BacklightPin != "":
		pwm, err := OpenGPIOPWM(cfg.BacklightPin)
		if err != nil {
			return nil, err
		}
		return pwm, nil
	default:
		return &backlight.MemoryPWM{}, nil
	}
}

// OpenButtons picks the button backend: an evdev device, GPIO pins, or two
// software buttons when no hardware is configured.
func OpenButtons(cfg config.DeviceConfig) ([]buttons.Button, error) {
	switch {
	case cfg.ButtonDevice != "":
		return openEvdevButtons(cfg.ButtonDevice)
	case len(cfg.ButtonPins) > 0:
		out := make([]buttons.Button, 0, len(cfg.ButtonPins))
		for _, name := range cfg.ButtonPins {
			b, err := OpenGPIOButton(name)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
		return out, nil
	default:
		return []buttons.Button{buttons.NewMemoryButton("button1"), buttons.NewMemoryButton("button2")}, nil
	}
}
