//go:build !linux

package hw

import (
	"fmt"

	"github.com/rook-computer/badge/internal/buttons"
)

func openEvdevButtons(path string) ([]buttons.Button, error) {
	return nil, fmt.Errorf("evdev buttons need linux (%s)", path)
}
